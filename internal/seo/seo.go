package seo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/i18n"
	"github.com/foadjalali/tcmindai/internal/observability"
)

// Page identifies an entry of the SEO document.
type Page string

const (
	PageHome     Page = "home"
	PageAbout    Page = "about"
	PageBlog     Page = "blog"
	PageCareer   Page = "career"
	PageContact  Page = "contact"
	PageFAQ      Page = "faq"
	PageSolution Page = "solution"
	PageProducts Page = "products"
)

const (
	FallbackTitle       = "TechnomindAI"
	FallbackDescription = "AI driven technology and infrastructure"
	DefaultImage        = "/og/default.png"
	XDefault            = "x-default"
)

// Entry is the SEO record of one page in one locale.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Keywords is a comma separated list.
	Keywords  string `json:"keywords,omitempty"`
	Canonical string `json:"canonical,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Document is the SEO document keyed by page then locale.
type Document map[Page]map[i18n.Locale]Entry

type OpenGraph struct {
	Title       string
	Description string
	URL         string
	Image       string
	Type        string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// Alternate is an hreflang link.
type Alternate struct {
	Hreflang string
	Href     string
}

type Meta struct {
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	Alternates  []Alternate
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	// Fallback is set when the document had no entry for the page and locale.
	Fallback bool
}

// Synthesizer builds page metadata from the SEO document. The document is read
// on first use and kept for the life of the process.
type Synthesizer struct {
	path     string
	siteURL  string
	siteName string
	doc      atomic.Pointer[Document]

	// OnLoad, when set, is called each time the document is read from disk.
	OnLoad func()
}

// NewSynthesizer returns a synthesizer reading the document at path.
func NewSynthesizer(path, siteURL, siteName string) *Synthesizer {
	if strings.TrimSpace(siteName) == "" {
		siteName = FallbackTitle
	}
	return &Synthesizer{
		path:     path,
		siteURL:  strings.TrimRight(siteURL, "/"),
		siteName: siteName,
	}
}

// SiteURL returns the absolute site origin without a trailing slash.
func (s *Synthesizer) SiteURL() string { return s.siteURL }

// SiteName returns the name used for og:site_name.
func (s *Synthesizer) SiteName() string { return s.siteName }

// Document returns the memoized SEO document, reading it on first use.
// Concurrent first calls may each read the file; the first stored value wins.
// Failed reads are not remembered.
func (s *Synthesizer) Document() (Document, error) {
	if d := s.doc.Load(); d != nil {
		return *d, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("seo: read %s: %w", s.path, err)
	}
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("seo: decode %s: %w", s.path, err)
	}
	if d == nil {
		d = Document{}
	}
	if s.OnLoad != nil {
		s.OnLoad()
	}
	s.doc.CompareAndSwap(nil, &d)
	return *s.doc.Load(), nil
}

// Meta returns the metadata of page in locale. routePath is the locale
// prefixed path of the page, e.g. "/tr/blog". A missing entry yields the
// fallback title and description; only an unreadable document is an error.
func (s *Synthesizer) Meta(ctx context.Context, page Page, locale i18n.Locale, routePath string) (Meta, error) {
	doc, err := s.Document()
	if err != nil {
		return Meta{}, err
	}
	locale = i18n.Normalize(string(locale))
	pageURL := s.siteURL + i18n.ReplaceLocaleInPath(routePath, locale)
	alternates := s.Alternates(routePath)

	entry, ok := doc[page][locale]
	if !ok {
		observability.FromContext(ctx).Debug("seo entry missing, using fallback",
			zap.String("page", string(page)),
			zap.String("locale", string(locale)),
		)
		return Meta{
			Title:       FallbackTitle,
			Description: FallbackDescription,
			Canonical:   pageURL,
			Alternates:  alternates,
			Fallback:    true,
			OG: OpenGraph{
				Title:       FallbackTitle,
				Description: FallbackDescription,
				URL:         pageURL,
				Image:       s.AbsImage(""),
				Type:        "website",
				SiteName:    s.siteName,
				Locale:      ogLocale(locale),
			},
			Twitter: Twitter{
				Card:        "summary_large_image",
				Title:       FallbackTitle,
				Description: FallbackDescription,
				Image:       s.AbsImage(""),
			},
		}, nil
	}

	canonical := strings.TrimSpace(entry.Canonical)
	if canonical == "" {
		canonical = pageURL
	}
	image := s.AbsImage(entry.Image)
	return Meta{
		Title:       entry.Title,
		Description: entry.Description,
		Keywords:    SplitKeywords(entry.Keywords),
		Canonical:   canonical,
		Alternates:  alternates,
		OG: OpenGraph{
			Title:       entry.Title,
			Description: entry.Description,
			URL:         pageURL,
			Image:       image,
			Type:        "website",
			SiteName:    s.siteName,
			Locale:      ogLocale(locale),
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       entry.Title,
			Description: entry.Description,
			Image:       image,
		},
	}, nil
}

// Alternates returns one link per supported locale, obtained by substituting
// the locale segment of routePath, followed by x-default pointing at the base
// locale URL.
func (s *Synthesizer) Alternates(routePath string) []Alternate {
	pathname, _, _ := strings.Cut(routePath, "?")
	out := make([]Alternate, 0, len(i18n.Supported())+1)
	var base string
	for _, l := range i18n.Supported() {
		href := s.siteURL + i18n.ReplaceLocaleInPath(pathname, l)
		if l == i18n.Base {
			base = href
		}
		out = append(out, Alternate{Hreflang: l.Tag().String(), Href: href})
	}
	return append(out, Alternate{Hreflang: XDefault, Href: base})
}

// AbsImage makes an image reference absolute. Absolute http(s) URLs are kept;
// an empty value becomes the default share image.
func (s *Synthesizer) AbsImage(image string) string {
	image = strings.TrimSpace(image)
	if strings.HasPrefix(image, "http") {
		return image
	}
	if image == "" {
		image = DefaultImage
	}
	if !strings.HasPrefix(image, "/") {
		image = "/" + image
	}
	return s.siteURL + image
}

// SplitKeywords splits a comma separated list, trimming entries and dropping
// empty ones.
func SplitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func ogLocale(l i18n.Locale) string {
	switch l {
	case i18n.AR:
		return "ar_AR"
	case i18n.TR:
		return "tr_TR"
	default:
		return "en_US"
	}
}
