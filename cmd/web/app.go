package main

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/config"
	"github.com/foadjalali/tcmindai/internal/contact"
	"github.com/foadjalali/tcmindai/internal/content"
	"github.com/foadjalali/tcmindai/internal/handlers"
	"github.com/foadjalali/tcmindai/internal/i18n"
	mw "github.com/foadjalali/tcmindai/internal/middleware"
	"github.com/foadjalali/tcmindai/internal/nav"
	"github.com/foadjalali/tcmindai/internal/observability"
	"github.com/foadjalali/tcmindai/internal/seo"
)

// app wires the site dependencies shared by every handler.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	metrics   *observability.Metrics
	bundle    *i18n.Bundle
	content   *content.Loader
	seo       *seo.Synthesizer
	sink      contact.Sink
	analytics handlers.Analytics
	views     *renderer
}

func newApp(cfg config.Config, logger *zap.Logger, sink contact.Sink) (*app, error) {
	bundle, err := i18n.Load(cfg.LocalesDir)
	if err != nil {
		return nil, err
	}
	views, err := newRenderer(cfg.TemplatesDir, cfg.Dev, bundle)
	if err != nil {
		return nil, err
	}
	metrics := observability.NewMetrics()

	loader := content.NewLoader(cfg.ContentDir)
	loader.OnError = func(d content.Domain, err error) {
		metrics.ContentErrors.WithLabelValues(string(d)).Inc()
		logger.Error("content load failed", zap.String("domain", string(d)), zap.Error(err))
	}
	synth := seo.NewSynthesizer(cfg.SEOPath(), cfg.SiteURL, cfg.SiteName)
	synth.OnLoad = func() {
		metrics.SEOLoads.Inc()
		logger.Info("seo document loaded", zap.String("path", cfg.SEOPath()))
	}
	if sink == nil {
		sink = contact.NewLogSink(logger)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		bundle:    bundle,
		content:   loader,
		seo:       synth,
		sink:      sink,
		analytics: handlers.LoadAnalytics(cfg.Analytics),
		views:     views,
	}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(a.logger))
	r.Use(mw.Metrics(a.metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(a.cfg.HTTP.RequestTimeout))
	r.Use(mw.Negotiate)
	r.Use(mw.Locale)
	r.Use(mw.ThemeMiddleware)
	r.Use(mw.CSRF(a.cfg.SecureCookies))
	r.Use(mw.VaryLocale)

	// Registered before the locale subrouter so it inherits the handler.
	r.NotFound(a.notFound)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", a.metrics.Handler())

	publicDir := a.cfg.PublicDir
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets"))))
	r.Handle("/og/*", http.StripPrefix("/og", mw.AssetsWithCache(filepath.Join(publicDir, "og"))))
	r.Get("/robots.txt", a.robots)
	r.Get("/sitemap.xml", a.sitemap)

	r.Route("/api", func(r chi.Router) {
		r.Get("/locale/{locale}", a.switchLocale)
		r.Get("/theme/{theme}", a.switchTheme)
	})

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(a.requireLocale)
		r.Get("/", a.home)
		r.Get("/about", a.about)
		r.Get("/blog", a.blog)
		r.Get("/blog/{slug}", a.post)
		r.Get("/career", a.career)
		r.Get("/faq", a.faq)
		r.Post("/faq", a.askQuestion)
		r.Get("/solutions", a.solutions)
		r.Get("/contact", a.contact)
		r.Post("/contact", a.submitContact)
		r.Get("/products", a.products)
		r.Get("/products/{category}", a.productCategory)
	})
	return r
}

// requireLocale rejects first segments that are not a supported locale. Only
// bypassed paths such as "/logo.png" can get here without one.
func (a *app) requireLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := i18n.Parse(chi.URLParam(r, "locale")); !ok {
			a.notFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// basePage fills the layout fields shared by every page.
func (a *app) basePage(r *http.Request) handlers.PageData {
	ctx := r.Context()
	l := mw.LocaleFromContext(ctx)
	theme := mw.ThemeFromContext(ctx)
	current := r.URL.Path
	if r.URL.RawQuery != "" {
		current += "?" + r.URL.RawQuery
	}
	return handlers.PageData{
		Lang:        l,
		Dir:         l.Dir(),
		Theme:       theme,
		SiteName:    a.seo.SiteName(),
		Analytics:   a.analytics,
		CSRFToken:   mw.CSRFToken(ctx),
		Year:        time.Now().Year(),
		Path:        r.URL.Path,
		Nav:         nav.Build(l, r.URL.Path),
		Languages:   nav.Languages(l, current),
		ThemeHref:   nav.ThemeHref(string(theme.Toggle()), current),
		Breadcrumbs: nav.Breadcrumbs(l, r.URL.Path),
	}
}

// page builds the layout data of a static page, including its metadata and
// breadcrumb JSON-LD. ok is false when an error response was written.
func (a *app) page(w http.ResponseWriter, r *http.Request, p seo.Page) (handlers.PageData, bool) {
	data := a.basePage(r)
	meta, err := a.seo.Meta(r.Context(), p, data.Lang, r.URL.Path)
	if err != nil {
		a.serverError(w, r, err)
		return data, false
	}
	data.SEO = meta
	if len(data.Breadcrumbs) > 1 {
		data.JSONLD = append(data.JSONLD, seo.Script(seo.BreadcrumbList(a.crumbItems(data))))
	}
	return data, true
}

func (a *app) crumbItems(data handlers.PageData) []seo.BreadcrumbItem {
	items := make([]seo.BreadcrumbItem, 0, len(data.Breadcrumbs))
	for _, c := range data.Breadcrumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = a.bundle.T(data.Lang, c.LabelKey)
		}
		items = append(items, seo.BreadcrumbItem{Name: name, Item: a.seo.SiteURL() + c.Href})
	}
	return items
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	data := a.basePage(r)
	data.SEO = a.seo.NotFoundMeta(a.bundle.T(data.Lang, "error.notFoundTitle"))
	data.Breadcrumbs = nil
	data.Status = http.StatusNotFound
	a.views.render(w, r, "error", http.StatusNotFound, data)
}

// serverError logs err and renders the localized error page. Content and SEO
// failures end up here.
func (a *app) serverError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("request failed", zap.Error(err))
	data := a.basePage(r)
	data.SEO = a.seo.NotFoundMeta(a.bundle.T(data.Lang, "error.serverTitle"))
	data.Breadcrumbs = nil
	data.Status = http.StatusInternalServerError
	a.views.render(w, r, "error", http.StatusInternalServerError, data)
}

// contentError maps a content failure to a response.
func (a *app) contentError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, content.ErrNotFound) {
		a.notFound(w, r)
		return
	}
	a.serverError(w, r, err)
}

// localPath returns p when it is a same-site absolute path, else "/".
// Browsers drop tab and newline bytes from a Location header, so control
// characters are rejected before the prefix checks.
func localPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return "/"
	}
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] == 0x7f {
			return "/"
		}
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return p
}
