package nav

import (
	"net/url"
	"path"
	"strings"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // locale-less, e.g. "/blog"
	LabelKey string // i18n key, e.g. "blog"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
	Children []RenderedItem
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Locale i18n.Locale
	Name   string
	Dir    string
	Href   string
	Active bool
}

// Products is the products dropdown.
var Products = []Item{
	{Path: "/products", LabelKey: "allProducts"},
	{Path: "/products/software", LabelKey: "software"},
	{Path: "/products/hardware", LabelKey: "hardware"},
	{Path: "/products/services", LabelKey: "services"},
}

// Main is the primary navigation definition. The products entry carries the
// dropdown.
var Main = []Item{
	{Path: "/", LabelKey: "home"},
	{Path: "/products", LabelKey: "products"},
	{Path: "/solutions", LabelKey: "solutions"},
	{Path: "/blog", LabelKey: "blog"},
	{Path: "/about", LabelKey: "aboutUs"},
	{Path: "/career", LabelKey: "career"},
	{Path: "/faq", LabelKey: "faq"},
	{Path: "/contact", LabelKey: "contactUs"},
}

// Href prefixes a locale-less path with the locale segment.
func Href(l i18n.Locale, p string) string {
	return i18n.ReplaceLocaleInPath(p, l)
}

// Build renders navigation items with active state given the current
// locale-prefixed path.
func Build(l i18n.Locale, currentPath string) []RenderedItem {
	current := i18n.StripLocale(currentPath)
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		ri := RenderedItem{
			Href:     Href(l, it.Path),
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, current),
		}
		if it.Path == "/products" {
			for _, p := range Products {
				ri.Children = append(ri.Children, RenderedItem{
					Href:     Href(l, p.Path),
					LabelKey: p.LabelKey,
					Active:   current == p.Path,
				})
			}
		}
		items = append(items, ri)
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/blog" or "/blog/..."
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Languages returns one switcher option per supported locale. Each href goes
// through the locale endpoint so the preference cookie is stored before the
// visitor lands on the translated page.
func Languages(current i18n.Locale, currentPath string) []LanguageOption {
	out := make([]LanguageOption, 0, len(i18n.Supported()))
	for _, l := range i18n.Supported() {
		out = append(out, LanguageOption{
			Locale: l,
			Name:   l.DisplayName(),
			Dir:    l.Dir(),
			Href:   "/api/locale/" + string(l) + "?path=" + url.QueryEscape(currentPath),
			Active: l == current,
		})
	}
	return out
}

// ThemeHref returns the endpoint switching to theme and returning to currentPath.
func ThemeHref(theme, currentPath string) string {
	return "/api/theme/" + theme + "?path=" + url.QueryEscape(currentPath)
}

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Home
// - For known top-level sections, use nav label keys
// - For deeper segments, use a prettified segment label
func Breadcrumbs(l i18n.Locale, currentPath string) []Crumb {
	current := path.Clean(i18n.StripLocale(currentPath))
	crumbs := []Crumb{{Href: Href(l, "/"), LabelKey: "home", Active: current == "/"}}
	if current == "/" || current == "." {
		return crumbs
	}

	parts := strings.Split(strings.TrimPrefix(current, "/"), "/")
	top := "/" + parts[0]
	labelKey := ""
	for _, it := range Main {
		if it.Path == top {
			labelKey = it.LabelKey
			break
		}
	}
	crumbs = append(crumbs, Crumb{Href: Href(l, top), LabelKey: labelKey, Label: titleFromSegment(l, parts[0]), Active: len(parts) == 1})

	href := top
	for i := 1; i < len(parts); i++ {
		href += "/" + parts[i]
		crumbs = append(crumbs, Crumb{
			Href:   Href(l, href),
			Label:  titleFromSegment(l, parts[i]),
			Active: i == len(parts)-1,
		})
	}
	return crumbs
}

func titleFromSegment(l i18n.Locale, seg string) string {
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return i18n.Title(l, s)
}
