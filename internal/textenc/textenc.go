// Package textenc resolves configured text-encoding tags and decodes
// raw compiler output bytes into UTF-8 text.
package textenc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Lookup resolves an IANA encoding tag such as "utf-8", "shift_jis" or
// "iso-8859-1". Unknown tags are a configuration error.
func Lookup(tag string) (encoding.Encoding, error) {
	name := strings.TrimSpace(tag)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", tag, err)
	}
	if enc == nil {
		// The index knows the name but has no decoder for it.
		return nil, fmt.Errorf("unsupported encoding %q", tag)
	}
	return enc, nil
}

// Decode converts raw bytes to a UTF-8 string using enc. A nil enc
// decodes as UTF-8.
func Decode(raw []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	text, _, err := transform.String(enc.NewDecoder(), string(raw))
	if err != nil {
		return "", fmt.Errorf("decode compiler output: %w", err)
	}
	return text, nil
}
