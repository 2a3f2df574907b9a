package invoke

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/muraak/cdiag/internal/config"
)

func TestBuildArgs(t *testing.T) {
	s := config.Default()
	s.IncludePath.Absolute = []string{"/usr/local/include"}
	s.IncludePath.Relative = []string{"include", "vendor/libfoo"}

	got := BuildArgs(s, "/work/src/foo.c", "/work")
	want := []string{
		"-fsyntax-only",
		"-fdiagnostics-plain-output",
		"-I/usr/local/include",
		"-I/work/include",
		"-I/work/vendor/libfoo",
		"foo.c",
	}
	if len(got) != len(want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildArgs_NoIncludes(t *testing.T) {
	s := config.Default()

	got := BuildArgs(s, "foo.c", "/work")
	if got[len(got)-1] != "foo.c" {
		t.Errorf("last arg = %q, want the file base name", got[len(got)-1])
	}
	if len(got) != len(s.CompileOptions)+1 {
		t.Errorf("got %d args, want options plus file", len(got))
	}
}

func TestBuildArgs_FileReducedToBaseName(t *testing.T) {
	s := config.Default()

	got := BuildArgs(s, "/deep/nested/path/bar.c", "/deep")
	if got[len(got)-1] != "bar.c" {
		t.Errorf("last arg = %q, want bar.c", got[len(got)-1])
	}
}

func TestRunner_CapturesStderrAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}

	res, err := NewRunner().Run(context.Background(), t.TempDir(),
		"sh", []string{"-c", "echo out; echo err >&2; exit 3"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "out" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(string(res.Stderr)) != "err" {
		t.Errorf("stderr = %q", res.Stderr)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), t.TempDir(),
		"definitely-not-a-compiler", nil)
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner().Run(ctx, t.TempDir(), "sh", []string{"-c", "sleep 5"})
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}
