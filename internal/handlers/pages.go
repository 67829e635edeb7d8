package handlers

import (
	"html/template"

	"github.com/foadjalali/tcmindai/internal/i18n"
	"github.com/foadjalali/tcmindai/internal/middleware"
	"github.com/foadjalali/tcmindai/internal/nav"
	"github.com/foadjalali/tcmindai/internal/seo"
)

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Lang      i18n.Locale
	Dir       string
	Theme     middleware.Theme
	SiteName  string
	SEO       seo.Meta
	JSONLD    []template.JS
	Analytics Analytics
	CSRFToken string
	Year      int

	Path        string
	Nav         []nav.RenderedItem
	Languages   []nav.LanguageOption
	ThemeHref   string
	Breadcrumbs []nav.Crumb

	Hero *Hero
	CTA  *CTA

	// Status is set on error pages.
	Status int

	// Page is the per-page view model.
	Page any
}

// Hero is the banner at the top of inner pages.
type Hero struct {
	Title    string
	Subtitle string
	Image    string
}

// CTA is the closing call to action block.
type CTA struct {
	Title       string
	Description string
	Primary     Link
	Secondary   *Link
}

// Link is a labelled href.
type Link struct {
	Label string
	Href  string
}

// NewHero builds a hero from the "<page>HeroTitle" and "<page>HeroSubtitle" keys.
func NewHero(b *i18n.Bundle, l i18n.Locale, page, image string) *Hero {
	return &Hero{
		Title:    b.T(l, page+"HeroTitle"),
		Subtitle: b.T(l, page+"HeroSubtitle"),
		Image:    image,
	}
}

// NewCTA builds the call to action of a page from "cta.<page>.*" keys,
// linking the primary button to primaryPath and, when a secondary label is
// translated, the secondary button to secondaryPath.
func NewCTA(b *i18n.Bundle, l i18n.Locale, page, primaryPath, secondaryPath string) *CTA {
	prefix := "cta." + page + "."
	c := &CTA{
		Title:       b.T(l, prefix+"title"),
		Description: b.T(l, prefix+"description"),
		Primary:     Link{Label: b.T(l, prefix+"primary"), Href: nav.Href(l, primaryPath)},
	}
	if secondaryPath != "" && b.Has(i18n.Base, prefix+"secondary") {
		c.Secondary = &Link{Label: b.T(l, prefix+"secondary"), Href: nav.Href(l, secondaryPath)}
	}
	return c
}
