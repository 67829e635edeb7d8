package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foadjalali/tcmindai/internal/i18n"
	mw "github.com/foadjalali/tcmindai/internal/middleware"
)

// switchLocale stores the chosen locale and sends the visitor to the same
// page under it. ?path is the page being left and must be a local path.
func (a *app) switchLocale(w http.ResponseWriter, r *http.Request) {
	l, ok := i18n.Parse(chi.URLParam(r, "locale"))
	if !ok {
		http.Error(w, "unsupported locale", http.StatusBadRequest)
		return
	}
	mw.SetLocaleCookie(w, l, a.cfg.SecureCookies)
	target := i18n.ReplaceLocaleInPath(localPath(r.URL.Query().Get("path")), l)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// switchTheme stores the chosen theme and returns to ?path.
func (a *app) switchTheme(w http.ResponseWriter, r *http.Request) {
	t, ok := mw.ParseTheme(chi.URLParam(r, "theme"))
	if !ok {
		http.Error(w, "unsupported theme", http.StatusBadRequest)
		return
	}
	mw.SetThemeCookie(w, t, a.cfg.SecureCookies)
	http.Redirect(w, r, localPath(r.URL.Query().Get("path")), http.StatusSeeOther)
}
