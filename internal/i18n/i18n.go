package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
)

// Bundle holds the UI strings of every supported locale.
type Bundle struct {
	dict map[Locale]map[string]string
}

// Load reads <dir>/<locale>.json for every supported locale. Only the base
// locale file is required; other locales fall back to it key by key.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{dict: map[Locale]map[string]string{}}
	for _, l := range supported {
		path := filepath.Join(dir, string(l)+".json")
		raw, err := os.ReadFile(path)
		if err != nil {
			if l == Base {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	return b, nil
}

// NewBundle builds a bundle from in-memory dictionaries. Used by tests.
func NewBundle(dict map[Locale]map[string]string) *Bundle {
	b := &Bundle{dict: map[Locale]map[string]string{}}
	for l, m := range dict {
		b.dict[l] = m
	}
	return b
}

// T returns the translation for key in l, falling back to the base locale and
// finally to the key itself.
func (b *Bundle) T(l Locale, key string) string {
	if b == nil {
		return key
	}
	if m, ok := b.dict[l]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[Base]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Has reports whether key is translated for l without falling back.
func (b *Bundle) Has(l Locale, key string) bool {
	if b == nil {
		return false
	}
	_, ok := b.dict[l][key]
	return ok
}

// Title upper-cases the first letter of each word using the locale's casing
// rules (dotted İ for Turkish).
func Title(l Locale, s string) string {
	return cases.Title(l.Tag()).String(s)
}
