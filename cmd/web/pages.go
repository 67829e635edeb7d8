package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/foadjalali/tcmindai/internal/content"
	"github.com/foadjalali/tcmindai/internal/handlers"
	"github.com/foadjalali/tcmindai/internal/i18n"
	"github.com/foadjalali/tcmindai/internal/nav"
	"github.com/foadjalali/tcmindai/internal/seo"
)

const relatedPosts = 3

type homeView struct {
	Sections []content.Section
	Journey  content.JourneyDoc
}

func (a *app) home(w http.ResponseWriter, r *http.Request) {
	data, ok := a.page(w, r, seo.PageHome)
	if !ok {
		return
	}
	l := data.Lang
	sections, err := a.content.Sections(l)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	journey, err := a.content.Journey(l)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	data.Hero = &handlers.Hero{
		Title:    a.bundle.T(l, "heroTitle"),
		Subtitle: a.bundle.T(l, "heroSubtitle"),
	}
	data.CTA = handlers.NewCTA(a.bundle, l, "home", "/contact", "/solutions")
	site := a.seo.SiteURL()
	data.JSONLD = append(data.JSONLD,
		seo.Script(seo.Organization(a.seo.SiteName(), site, site+"/assets/img/logo.svg")),
		seo.Script(seo.WebSite(a.seo.SiteName(), site+nav.Href(l, "/"), l.Tag().String(), site+nav.Href(l, "/blog")+"?q=")),
	)
	data.Page = homeView{Sections: sections, Journey: journey}
	a.views.render(w, r, "home", http.StatusOK, data)
}

func (a *app) about(w http.ResponseWriter, r *http.Request) {
	data, ok := a.page(w, r, seo.PageAbout)
	if !ok {
		return
	}
	doc, err := a.content.About(data.Lang)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	data.Hero = handlers.NewHero(a.bundle, data.Lang, "about", "")
	data.CTA = handlers.NewCTA(a.bundle, data.Lang, "about", "/career", "/contact")
	data.Page = doc
	a.views.render(w, r, "about", http.StatusOK, data)
}

type blogView struct {
	Posts    []content.Post
	Filters  []categoryFilter
	Query    string
	Category string
	// Total is the number of posts before filtering.
	Total int
}

// categoryFilter is a category link of the blog index. The empty name is
// the "all posts" entry.
type categoryFilter struct {
	Name   string
	Href   string
	Active bool
}

func categoryFilters(l i18n.Locale, categories []string, query, current string) []categoryFilter {
	link := func(category string) string {
		v := url.Values{}
		if query != "" {
			v.Set("q", query)
		}
		if category != "" {
			v.Set("category", category)
		}
		href := nav.Href(l, "/blog")
		if enc := v.Encode(); enc != "" {
			href += "?" + enc
		}
		return href
	}
	out := []categoryFilter{{Href: link(""), Active: current == ""}}
	for _, c := range categories {
		out = append(out, categoryFilter{Name: c, Href: link(c), Active: c == current})
	}
	return out
}

func (a *app) blog(w http.ResponseWriter, r *http.Request) {
	data, ok := a.page(w, r, seo.PageBlog)
	if !ok {
		return
	}
	posts, err := a.content.Posts(data.Lang, a.bundle.T(data.Lang, "blog.uncategorized"))
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	q := r.URL.Query()
	view := blogView{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Total:    len(posts),
	}
	view.Posts = content.FilterPosts(posts, view.Query, view.Category)
	view.Filters = categoryFilters(data.Lang, content.Categories(posts), view.Query, view.Category)

	data.Hero = handlers.NewHero(a.bundle, data.Lang, "blog", "")
	data.CTA = handlers.NewCTA(a.bundle, data.Lang, "blog", "/about", "/solutions")
	data.Page = view
	a.views.render(w, r, "blog", http.StatusOK, data)
}

type postView struct {
	Post    content.Post
	Related []content.Post
}

func (a *app) post(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r)
	uncategorized := a.bundle.T(data.Lang, "blog.uncategorized")
	p, err := a.content.Post(chi.URLParam(r, "slug"), data.Lang, uncategorized)
	if err != nil {
		a.contentError(w, r, err)
		return
	}
	posts, err := a.content.Posts(data.Lang, uncategorized)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	data.SEO = a.seo.PostMeta(p, r.URL.Path)
	if n := len(data.Breadcrumbs); n > 0 {
		data.Breadcrumbs[n-1].Label = p.Title
	}
	data.JSONLD = append(data.JSONLD,
		seo.Script(seo.Article(p, data.SEO.Canonical, data.SEO.OG.Image)),
		seo.Script(seo.BreadcrumbList(a.crumbItems(data))),
	)
	data.CTA = handlers.NewCTA(a.bundle, data.Lang, "blog", "/about", "/solutions")
	data.Page = postView{Post: p, Related: related(posts, p, relatedPosts)}
	a.views.render(w, r, "post", http.StatusOK, data)
}

// related returns up to n other posts sharing p's category, newest first.
func related(posts []content.Post, p content.Post, n int) []content.Post {
	var out []content.Post
	for _, other := range posts {
		if other.Slug == p.Slug || other.Category != p.Category {
			continue
		}
		out = append(out, other)
		if len(out) == n {
			break
		}
	}
	return out
}

func (a *app) career(w http.ResponseWriter, r *http.Request) {
	data, ok := a.page(w, r, seo.PageCareer)
	if !ok {
		return
	}
	jobs, err := a.content.Jobs(data.Lang)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	data.Hero = handlers.NewHero(a.bundle, data.Lang, "career", "")
	data.CTA = handlers.NewCTA(a.bundle, data.Lang, "career", "/faq", "/contact")
	data.Page = jobs
	a.views.render(w, r, "career", http.StatusOK, data)
}

func (a *app) solutions(w http.ResponseWriter, r *http.Request) {
	data, ok := a.page(w, r, seo.PageSolution)
	if !ok {
		return
	}
	items, err := a.content.Solutions(data.Lang)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	data.Hero = handlers.NewHero(a.bundle, data.Lang, "solutions", "")
	data.CTA = handlers.NewCTA(a.bundle, data.Lang, "solutions", "/contact", "/blog")
	data.Page = items
	a.views.render(w, r, "solutions", http.StatusOK, data)
}

type productsView struct {
	Categories []handlers.Link
	// Current is the label key of the selected category, empty on the index.
	Current string
}

var productCategories = map[string]bool{"software": true, "hardware": true, "services": true}

func (a *app) products(w http.ResponseWriter, r *http.Request) {
	a.renderProducts(w, r, "")
}

func (a *app) productCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !productCategories[category] {
		a.notFound(w, r)
		return
	}
	a.renderProducts(w, r, category)
}

func (a *app) renderProducts(w http.ResponseWriter, r *http.Request, category string) {
	data, ok := a.page(w, r, seo.PageProducts)
	if !ok {
		return
	}
	l := data.Lang
	data.Hero = handlers.NewHero(a.bundle, l, "products", "")
	if category != "" {
		data.Hero.Title = a.bundle.T(l, category)
		if n := len(data.Breadcrumbs); n > 0 {
			data.Breadcrumbs[n-1].LabelKey = category
		}
	}
	view := productsView{Current: category}
	for _, it := range nav.Products[1:] {
		view.Categories = append(view.Categories, handlers.Link{Label: a.bundle.T(l, it.LabelKey), Href: nav.Href(l, it.Path)})
	}
	data.CTA = handlers.NewCTA(a.bundle, l, "products", "/contact", "/solutions")
	data.Page = view
	a.views.render(w, r, "products", http.StatusOK, data)
}
