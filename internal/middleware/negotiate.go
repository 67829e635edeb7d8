package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

// LocaleCookie holds the visitor's preferred locale.
const LocaleCookie = "locale"

// Source tells where a negotiated locale came from.
type Source string

const (
	SourcePath    Source = "path"
	SourceCookie  Source = "cookie"
	SourceHeader  Source = "accept-language"
	SourceDefault Source = "default"
)

var bypassPrefixes = []string{"/assets/", "/api/", "/og/"}

var bypassExact = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
	"/api":     {},
}

// Bypass reports whether p is served without a locale prefix: static files
// (last segment contains a dot), assets, API endpoints and probes.
func Bypass(p string) bool {
	if p == "" {
		return false
	}
	if _, ok := bypassExact[p]; ok {
		return true
	}
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return strings.Contains(path.Base(p), ".")
}

// NegotiateLocale picks the locale for a request without a locale prefix:
// the locale cookie, then the first supported Accept-Language entry in header
// order, then the base locale.
func NegotiateLocale(r *http.Request) (i18n.Locale, Source) {
	if c, err := r.Cookie(LocaleCookie); err == nil {
		if l, ok := i18n.Parse(c.Value); ok {
			return l, SourceCookie
		}
	}
	if l, ok := i18n.MatchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return l, SourceHeader
	}
	return i18n.Base, SourceDefault
}

// Negotiate redirects requests whose path lacks a supported locale segment to
// the same path under the negotiated locale. Prefixed paths and bypassed paths
// pass through untouched.
func Negotiate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if _, ok := i18n.FromPath(p); ok || Bypass(p) {
			next.ServeHTTP(w, r)
			return
		}
		l, _ := NegotiateLocale(r)
		target := "/" + string(l)
		if p != "" && p != "/" {
			target += r.URL.EscapedPath()
		}
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		w.Header().Add("Vary", "Cookie")
		w.Header().Add("Vary", "Accept-Language")
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	})
}
