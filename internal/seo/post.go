package seo

import (
	"strings"

	"github.com/foadjalali/tcmindai/internal/content"
	"github.com/foadjalali/tcmindai/internal/i18n"
)

const descriptionLimit = 160

// PostMeta returns article metadata for a blog post. routePath is the locale
// prefixed path of the post.
func (s *Synthesizer) PostMeta(p content.Post, routePath string) Meta {
	pageURL := s.siteURL + i18n.ReplaceLocaleInPath(routePath, p.Locale)
	desc := strings.TrimSpace(p.Excerpt)
	if desc == "" {
		desc = Truncate(content.PlainText(string(p.Body)), descriptionLimit)
	}
	image := s.AbsImage(p.ImageSrc)
	return Meta{
		Title:       p.Title,
		Description: desc,
		Keywords:    append([]string(nil), p.Tags...),
		Canonical:   pageURL,
		Alternates:  s.Alternates(routePath),
		OG: OpenGraph{
			Title:       p.Title,
			Description: desc,
			URL:         pageURL,
			Image:       image,
			Type:        "article",
			SiteName:    s.siteName,
			Locale:      ogLocale(p.Locale),
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       p.Title,
			Description: desc,
			Image:       image,
		},
	}
}

// NotFoundMeta is used for the 404 page. It is never indexed.
func (s *Synthesizer) NotFoundMeta(title string) Meta {
	if title == "" {
		title = FallbackTitle
	}
	return Meta{
		Title:       title,
		Description: FallbackDescription,
		Robots:      "noindex, follow",
		Fallback:    true,
		OG: OpenGraph{
			Title:    title,
			Type:     "website",
			SiteName: s.siteName,
			Image:    s.AbsImage(""),
		},
		Twitter: Twitter{Card: "summary_large_image", Title: title, Image: s.AbsImage("")},
	}
}

// Truncate shortens s to at most n runes on a word boundary, adding an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}
