package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

var (
	// ErrNotFound is returned when a content item (e.g. a blog slug) does not exist.
	ErrNotFound = errors.New("content: not found")
	// ErrUnknownDomain is returned for a domain with no backing document.
	ErrUnknownDomain = errors.New("content: unknown domain")
)

// Domain identifies a category of site content backed by its own JSON document.
type Domain string

const (
	Home      Domain = "home"
	Journey   Domain = "journey"
	About     Domain = "about"
	Careers   Domain = "careers"
	FAQ       Domain = "faq"
	Solutions Domain = "solutions"
	Blog      Domain = "blog"
)

var domainFiles = map[Domain]string{
	Home:      filepath.Join("home", "sections.json"),
	Journey:   filepath.Join("home", "journey.json"),
	About:     filepath.Join("about", "about.json"),
	Careers:   filepath.Join("careers", "jobs.json"),
	FAQ:       filepath.Join("faq", "faqs.json"),
	Solutions: filepath.Join("solutions", "solutions.json"),
	Blog:      filepath.Join("blog", "posts.json"),
}

// Domains lists every content domain in a stable order.
func Domains() []Domain {
	return []Domain{Home, Journey, About, Careers, FAQ, Solutions, Blog}
}

// LocaleKeyed reports whether the domain document is keyed by locale at the
// top level. The blog document is an array of items carrying translations.
func (d Domain) LocaleKeyed() bool { return d != Blog }

// Loader reads content documents from a directory. Documents are read on every
// call; nothing is cached.
type Loader struct {
	dir string
	// OnError, when set, is told about every document that failed to load.
	OnError func(d Domain, err error)
}

// NewLoader returns a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the content root.
func (l *Loader) Dir() string { return l.dir }

// Path returns the document path of a domain.
func (l *Loader) Path(d Domain) (string, error) {
	rel, ok := domainFiles[d]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, d)
	}
	return filepath.Join(l.dir, rel), nil
}

func (l *Loader) read(d Domain) ([]byte, error) {
	path, err := l.Path(d)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, l.fail(d, fmt.Errorf("content: read %s: %w", d, err))
	}
	return raw, nil
}

func (l *Loader) fail(d Domain, err error) error {
	if l.OnError != nil {
		l.OnError(d, err)
	}
	return err
}

// Load decodes the entry of a locale-keyed document for locale. A missing (or
// null) locale entry falls back to the base locale; when that is missing too
// the zero value, an empty collection, is returned. Unknown locales are
// treated as the base locale. Unreadable or malformed documents are errors.
func Load[T any](l *Loader, d Domain, locale i18n.Locale) (T, error) {
	var zero T
	if !d.LocaleKeyed() {
		return zero, fmt.Errorf("%w: %q is not keyed by locale", ErrUnknownDomain, d)
	}
	raw, err := l.read(d)
	if err != nil {
		return zero, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return zero, l.fail(d, fmt.Errorf("content: decode %s: %w", d, err))
	}
	entry, ok := pick(doc, locale)
	if !ok {
		return zero, nil
	}
	var out T
	if err := json.Unmarshal(entry, &out); err != nil {
		return zero, l.fail(d, fmt.Errorf("content: decode %s[%s]: %w", d, locale, err))
	}
	return out, nil
}

func pick(doc map[string]json.RawMessage, locale i18n.Locale) (json.RawMessage, bool) {
	for _, candidate := range []i18n.Locale{i18n.Normalize(string(locale)), i18n.Base} {
		if v, ok := doc[string(candidate)]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func isNull(v json.RawMessage) bool {
	return len(bytes.TrimSpace(v)) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// Sections returns the home page feature blocks.
func (l *Loader) Sections(locale i18n.Locale) ([]Section, error) {
	return Load[[]Section](l, Home, locale)
}

// Journey returns the home page project roadmap.
func (l *Loader) Journey(locale i18n.Locale) (JourneyDoc, error) {
	return Load[JourneyDoc](l, Journey, locale)
}

// About returns the about page dictionary.
func (l *Loader) About(locale i18n.Locale) (AboutDoc, error) {
	return Load[AboutDoc](l, About, locale)
}

// Jobs returns the open positions.
func (l *Loader) Jobs(locale i18n.Locale) ([]Job, error) {
	return Load[[]Job](l, Careers, locale)
}

// FAQs returns the FAQ categories.
func (l *Loader) FAQs(locale i18n.Locale) ([]FAQCategory, error) {
	return Load[[]FAQCategory](l, FAQ, locale)
}

// Solutions returns the solutions list.
func (l *Loader) Solutions(locale i18n.Locale) ([]Solution, error) {
	return Load[[]Solution](l, Solutions, locale)
}
