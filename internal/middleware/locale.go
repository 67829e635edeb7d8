package middleware

import (
	"net/http"
	"time"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

const cookieMaxAge = 365 * 24 * time.Hour

// Locale stores the locale of the path prefix on the request context and
// surfaces it as Content-Language. Requests without a prefix get the base
// locale.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l, ok := i18n.FromPath(r.URL.Path)
		if !ok {
			l = i18n.Base
		}
		w.Header().Set("Content-Language", l.Tag().String())
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), l)))
	})
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}

// SetLocaleCookie remembers l for one year across the whole site.
func SetLocaleCookie(w http.ResponseWriter, l i18n.Locale, secure bool) {
	setPreferenceCookie(w, LocaleCookie, string(l), secure)
}

func setPreferenceCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
