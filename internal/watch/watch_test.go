package watch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muraak/cdiag/internal/diag"
	"github.com/muraak/cdiag/internal/render"
)

func testModel(validate ValidateFunc) model {
	return newModel(context.Background(), Options{
		File:     "foo.c",
		Validate: validate,
		Interval: time.Millisecond,
		Theme:    render.MonoTheme(),
	})
}

func TestModel_ResultUpdatesView(t *testing.T) {
	m := testModel(nil)

	next, _ := m.Update(resultMsg{
		set: diag.Set{{
			Severity:       diag.SeverityWarning,
			Message:        "foo.c:2:5: warning: unused variable 'x'",
			ReportedColumn: 5,
			Range:          diag.Range{Start: diag.Position{Line: 1}},
		}},
		took: 12 * time.Millisecond,
	})
	m = next.(model)

	view := m.View()
	if !strings.Contains(view, "unused variable") {
		t.Errorf("view missing diagnostic:\n%s", view)
	}
	if !strings.Contains(view, "last pass 12ms") {
		t.Errorf("view missing pass duration:\n%s", view)
	}
	if m.running {
		t.Error("a delivered result must stop the running state")
	}
}

func TestModel_EngineErrorShown(t *testing.T) {
	m := testModel(nil)

	next, _ := m.Update(resultMsg{err: errors.New("compiler invocation failed")})
	m = next.(model)

	if !strings.Contains(m.View(), "compiler invocation failed") {
		t.Errorf("view missing engine error:\n%s", m.View())
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := testModel(nil)

	for _, key := range []string{"q", "ctrl+c"} {
		var msg tea.KeyMsg
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %q should produce a quit command", key)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q produced %T, want tea.QuitMsg", key, cmd())
		}
	}
}

func TestModel_ManualRerun(t *testing.T) {
	ran := false
	m := testModel(func(ctx context.Context) (diag.Set, error) {
		ran = true
		return nil, nil
	})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(model)
	if cmd == nil {
		t.Fatal("r should start a validation pass")
	}
	if !m.running {
		t.Error("model should be running after r")
	}

	msg := cmd()
	if _, ok := msg.(resultMsg); !ok {
		t.Fatalf("validation command produced %T, want resultMsg", msg)
	}
	if !ran {
		t.Error("validate func was not called")
	}
}

func TestModel_RerunIgnoredWhileRunning(t *testing.T) {
	m := testModel(func(ctx context.Context) (diag.Set, error) { return nil, nil })
	m.running = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd != nil {
		t.Error("r must be a no-op while a pass is already running")
	}
}
