package middleware

import (
	"net/http"
	"strings"
)

// Theme is the colour scheme of the site.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeDark
	ThemeCookie  = "theme"
)

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ThemeMiddleware reads the theme cookie into the request context.
func ThemeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := DefaultTheme
		if c, err := r.Cookie(ThemeCookie); err == nil {
			if parsed, ok := ParseTheme(c.Value); ok {
				t = parsed
			}
		}
		next.ServeHTTP(w, r.WithContext(WithTheme(r.Context(), t)))
	})
}

// SetThemeCookie remembers t for one year.
func SetThemeCookie(w http.ResponseWriter, t Theme, secure bool) {
	setPreferenceCookie(w, ThemeCookie, string(t), secure)
}
