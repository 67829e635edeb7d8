package main

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/i18n"
	"github.com/foadjalali/tcmindai/internal/nav"
)

// sitemapPaths are the locale-less static pages listed in the sitemap.
var sitemapPaths = []string{
	"/", "/about", "/blog", "/career", "/faq", "/solutions", "/contact",
	"/products", "/products/software", "/products/hardware", "/products/services",
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string        `xml:"loc"`
	LastMod string        `xml:"lastmod,omitempty"`
	Links   []sitemapLink `xml:"xhtml:link"`
}

type sitemapLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

func (a *app) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", a.seo.SiteURL())
}

// sitemap lists every page and post in every locale, each with its hreflang
// alternates.
func (a *app) sitemap(w http.ResponseWriter, r *http.Request) {
	docs, err := a.content.PostDocs()
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	add := func(p, lastMod string) {
		for _, l := range i18n.Supported() {
			routePath := nav.Href(l, p)
			u := sitemapURL{Loc: a.seo.SiteURL() + routePath, LastMod: lastMod}
			for _, alt := range a.seo.Alternates(routePath) {
				u.Links = append(u.Links, sitemapLink{Rel: "alternate", Hreflang: alt.Hreflang, Href: alt.Href})
			}
			set.URLs = append(set.URLs, u)
		}
	}
	for _, p := range sitemapPaths {
		add(p, "")
	}
	for _, d := range docs {
		lastMod := ""
		if len(d.PublishedAt) >= len("2006-01-02") {
			lastMod = d.PublishedAt[:len("2006-01-02")]
		}
		add("/blog/"+d.Slug, lastMod)
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		a.logger.Error("encode sitemap", zap.Error(err))
	}
}
