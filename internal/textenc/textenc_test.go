package textenc

import (
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestLookup(t *testing.T) {
	for _, tag := range []string{"utf-8", "UTF-8", "shift_jis", "iso-8859-1", "euc-jp"} {
		if _, err := Lookup(tag); err != nil {
			t.Errorf("Lookup(%q): %v", tag, err)
		}
	}
}

func TestLookup_EmptyTagIsUTF8(t *testing.T) {
	enc, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup(\"\"): %v", err)
	}
	if enc != unicode.UTF8 {
		t.Errorf("empty tag should resolve to UTF-8, got %v", enc)
	}
}

func TestLookup_UnknownTag(t *testing.T) {
	if _, err := Lookup("not-a-real-encoding"); err == nil {
		t.Error("expected an error for an unknown tag")
	}
}

func TestDecode_ShiftJIS(t *testing.T) {
	enc, err := Lookup("shift_jis")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	// "エラー" in Shift_JIS.
	raw := []byte{0x83, 0x47, 0x83, 0x89, 0x81, 0x5b}
	text, err := Decode(raw, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "エラー" {
		t.Errorf("decoded %q, want エラー", text)
	}
}

func TestDecode_NilEncodingIsUTF8(t *testing.T) {
	text, err := Decode([]byte("plain ascii"), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "plain ascii" {
		t.Errorf("decoded %q", text)
	}
}
