package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/foadjalali/tcmindai/internal/i18n"
	"github.com/foadjalali/tcmindai/internal/observability"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func negotiate(t *testing.T, target string, setup func(r *http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	Negotiate(okHandler).ServeHTTP(rec, req)
	return rec
}

func TestNegotiatePassesThroughPrefixedPaths(t *testing.T) {
	for _, p := range []string{"/en", "/ar/", "/tr/blog", "/en/blog/post-1?q=x"} {
		rec := negotiate(t, p, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: LocaleCookie, Value: "ar"})
			r.Header.Set("Accept-Language", "tr")
		})
		assert.Equal(t, http.StatusOK, rec.Code, p)
	}
}

func TestNegotiatePriority(t *testing.T) {
	cases := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"cookie wins", "ar", "tr-TR,tr;q=0.9", "/ar/about"},
		{"invalid cookie falls to header", "fr", "tr-TR,tr;q=0.9", "/tr/about"},
		{"header order beats quality", "", "de;q=1.0, ar;q=0.1, tr;q=0.9", "/ar/about"},
		{"header is case insensitive", "", "EN-gb", "/en/about"},
		{"default", "", "fr-FR, de", "/en/about"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := negotiate(t, "/about", func(r *http.Request) {
				if tc.cookie != "" {
					r.AddCookie(&http.Cookie{Name: LocaleCookie, Value: tc.cookie})
				}
				if tc.header != "" {
					r.Header.Set("Accept-Language", tc.header)
				}
			})
			assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
			assert.Equal(t, tc.want, rec.Header().Get("Location"))
			assert.Contains(t, rec.Header().Values("Vary"), "Accept-Language")
		})
	}
}

func TestNegotiateRootAndQuery(t *testing.T) {
	rec := negotiate(t, "/", nil)
	assert.Equal(t, "/en", rec.Header().Get("Location"))

	rec = negotiate(t, "/blog?q=cloud&category=AI", func(r *http.Request) { r.Header.Set("Accept-Language", "tr") })
	assert.Equal(t, "/tr/blog?q=cloud&category=AI", rec.Header().Get("Location"))

	rec = negotiate(t, "/english", nil)
	assert.Equal(t, "/en/english", rec.Header().Get("Location"))
}

func TestNegotiateKeepsPathEscaping(t *testing.T) {
	ar := func(r *http.Request) { r.Header.Set("Accept-Language", "ar") }
	rec := negotiate(t, "/a%2Fb", ar)
	assert.Equal(t, "/ar/a%2Fb", rec.Header().Get("Location"))

	rec = negotiate(t, "/foo%20bar?q=a%20b", ar)
	assert.Equal(t, "/ar/foo%20bar?q=a%20b", rec.Header().Get("Location"))
}

func TestNegotiateRedirectsOnceToPrefixedPath(t *testing.T) {
	rec := negotiate(t, "/career", func(r *http.Request) { r.Header.Set("Accept-Language", "ar") })
	loc := rec.Header().Get("Location")
	follow := negotiate(t, loc, func(r *http.Request) { r.Header.Set("Accept-Language", "ar") })
	assert.Equal(t, http.StatusOK, follow.Code)
}

func TestNegotiateBypass(t *testing.T) {
	for _, p := range []string{"/favicon.ico", "/robots.txt", "/og/default.png", "/assets/app.css", "/api/locale/tr", "/healthz", "/metrics", "/images/logo.svg"} {
		rec := negotiate(t, p, nil)
		assert.Equal(t, http.StatusOK, rec.Code, p)
	}
	assert.False(t, Bypass("/blog/v1.0-release/comments"))
	assert.True(t, Bypass("/blog/v1.0-release"))
}

func TestLocaleMiddlewareStoresLocale(t *testing.T) {
	var got i18n.Locale
	h := Locale(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ar/faq", nil))
	assert.Equal(t, i18n.AR, got)
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, i18n.Base, got)
}

func TestSetLocaleCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetLocaleCookie(rec, i18n.TR, true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, LocaleCookie, c.Name)
	assert.Equal(t, "tr", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 365*24*60*60, c.MaxAge)
	assert.True(t, c.Secure)
}

func TestThemeMiddleware(t *testing.T) {
	var got Theme
	h := ThemeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ThemeFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/en", nil))
	assert.Equal(t, ThemeDark, got)

	req := httptest.NewRequest(http.MethodGet, "/en", nil)
	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "LIGHT"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, ThemeLight, got)

	req = httptest.NewRequest(http.MethodGet, "/en", nil)
	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "neon"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, ThemeDark, got)
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}

func TestCSRF(t *testing.T) {
	h := CSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(CSRFToken(r.Context())))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/en/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.Len(t, token, 32)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	post := func(form url.Values, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/en/contact", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		if header != "" {
			req.Header.Set(CSRFHeader, header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post(url.Values{CSRFField: {token}}, ""))
	assert.Equal(t, http.StatusOK, post(url.Values{}, token))
	assert.Equal(t, http.StatusForbidden, post(url.Values{CSRFField: {"nope"}}, ""))
	assert.Equal(t, http.StatusForbidden, post(url.Values{}, ""))
}

func TestLoggerEmitsRequestEntry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var ctxLogger *zap.Logger
	h := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = observability.FromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tr/blog/missing", nil))

	require.NotNil(t, ctxLogger)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "tr", fields["locale"])
	assert.Equal(t, "/tr/blog/missing", fields["path"])
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	m := observability.NewMetrics()
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/{locale}/blog/{slug}", okHandler)

	for _, p := range []string{"/en/blog/a", "/tr/blog/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `web_http_requests_total{method="GET",route="/{locale}/blog/{slug}",status="200"} 2`)
}

func TestAssetsWithCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))
	h := http.StripPrefix("/assets", AssetsWithCache(dir))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
