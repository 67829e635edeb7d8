package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/format"
	"github.com/foadjalali/tcmindai/internal/i18n"
	"github.com/foadjalali/tcmindai/internal/nav"
	"github.com/foadjalali/tcmindai/internal/observability"
)

// templateSet holds one template per page, each a clone of the shared layout
// and partials plus the page file defining "content".
type templateSet map[string]*template.Template

type renderer struct {
	dir    string
	dev    bool
	bundle *i18n.Bundle
	cache  templateSet
}

func newRenderer(dir string, dev bool, bundle *i18n.Bundle) (*renderer, error) {
	rd := &renderer{dir: dir, dev: dev, bundle: bundle}
	// Parse up front so broken templates fail at startup, dev mode included.
	set, err := rd.parseTemplates()
	if err != nil {
		return nil, err
	}
	if !dev {
		rd.cache = set
	}
	return rd, nil
}

func (rd *renderer) funcMap() template.FuncMap {
	return template.FuncMap{
		"t": func(l i18n.Locale, key string) string { return rd.bundle.T(l, key) },
		"href": func(l i18n.Locale, p string) string {
			if strings.HasPrefix(p, "/") {
				return nav.Href(l, p)
			}
			return p
		},
		"date":    format.Date,
		"isoDate": format.ISODate,
		"minutes": format.Minutes,
		"now":     time.Now,
		"add":     func(a, b int) int { return a + b },
		"odd":     func(i int) bool { return i%2 == 1 },
	}
}

// parseTemplates walks the template directory. Files under pages/ become one
// template each; everything else is shared by every page.
func (rd *renderer) parseTemplates() (templateSet, error) {
	var shared, pages []string
	if err := filepath.WalkDir(rd.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		rel, err := filepath.Rel(rd.dir, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.ToSlash(rel), "pages/") {
			pages = append(pages, path)
		} else {
			shared = append(shared, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(shared) == 0 || len(pages) == 0 {
		return nil, fmt.Errorf("no templates found under %s", rd.dir)
	}
	base, err := template.New("_root").Funcs(rd.funcMap()).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}
	set := make(templateSet, len(pages))
	for _, p := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(p); err != nil {
			return nil, err
		}
		set[strings.TrimSuffix(filepath.Base(p), ".tmpl")] = clone
	}
	return set, nil
}

func (rd *renderer) lookup(page string) (*template.Template, error) {
	set := rd.cache
	if rd.dev {
		var err error
		if set, err = rd.parseTemplates(); err != nil {
			return nil, fmt.Errorf("template parse error: %w", err)
		}
	}
	t, ok := set[page]
	if !ok {
		return nil, fmt.Errorf("template %q not found", page)
	}
	return t, nil
}

// render executes the base layout for page. In dev mode, templates are
// reparsed on each request. Output is buffered so a failing template never
// leaves a half written page.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	logger := observability.FromContext(r.Context())
	t, err := rd.lookup(page)
	if err != nil {
		logger.Error("render", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.Error("template exec", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
