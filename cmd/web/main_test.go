package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/config"
	"github.com/foadjalali/tcmindai/internal/contact"
	mw "github.com/foadjalali/tcmindai/internal/middleware"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.TemplatesDir = "../../templates"
	cfg.PublicDir = "../../public"
	cfg.ContentDir = "../../content"
	cfg.LocalesDir = "../../locales"
	cfg.Dev = true
	return cfg
}

// newTestApp builds the app against the repository templates and content.
func newTestApp(t *testing.T, cfg config.Config) (*app, *contact.MemorySink) {
	t.Helper()
	sink := &contact.MemorySink{}
	a, err := newApp(cfg, zap.NewNop(), sink)
	require.NoError(t, err)
	return a, sink
}

func newTestRouter(t *testing.T) (http.Handler, *contact.MemorySink) {
	t.Helper()
	a, sink := newTestApp(t, testConfig())
	return a.routes(), sink
}

func get(t *testing.T, h http.Handler, target string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, fn := range setup {
		fn(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	return doc
}

func TestHealthzOK(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestUnprefixedPathsRedirect(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(t, h, "/", func(r *http.Request) { r.Header.Set("Accept-Language", "ar-SA,ar;q=0.9,en;q=0.5") })
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/ar", rec.Header().Get("Location"))

	rec = get(t, h, "/blog?q=edge", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: mw.LocaleCookie, Value: "tr"})
		r.Header.Set("Accept-Language", "ar")
	})
	assert.Equal(t, "/tr/blog?q=edge", rec.Header().Get("Location"))
}

func TestEveryPageRendersInEveryLocale(t *testing.T) {
	h, _ := newTestRouter(t)
	pages := []string{"", "/about", "/blog", "/blog/ai-at-the-edge", "/career", "/faq", "/solutions", "/contact", "/products", "/products/hardware"}
	for _, l := range []string{"en", "ar", "tr"} {
		for _, p := range pages {
			target := "/" + l + p
			rec := get(t, h, target)
			require.Equal(t, http.StatusOK, rec.Code, "%s: %s", target, rec.Body.String())
			assert.Equal(t, l, rec.Header().Get("Content-Language"), target)

			doc := parse(t, rec)
			html := doc.Find("html")
			assert.Equal(t, l, html.AttrOr("lang", ""), target)
			wantDir := "ltr"
			if l == "ar" {
				wantDir = "rtl"
			}
			assert.Equal(t, wantDir, html.AttrOr("dir", ""), target)
			assert.Equal(t, 4, doc.Find(`link[rel="alternate"][hreflang]`).Length(), target)
			assert.NotEmpty(t, doc.Find("title").Text(), target)
		}
	}
}

func TestHomeMetadataFromSEODocument(t *testing.T) {
	h, _ := newTestRouter(t)
	doc := parse(t, get(t, h, "/tr"))

	assert.Equal(t, "TechnomindAI | Yapay Zekâ Ürünleri, Platformlar ve Altyapı", doc.Find("title").Text())
	assert.Equal(t, "https://technomindai.com/tr", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	assert.Equal(t, "https://technomindai.com/en", doc.Find(`link[hreflang="x-default"]`).AttrOr("href", ""))
	assert.Equal(t, "https://technomindai.com/ar", doc.Find(`link[hreflang="ar"]`).AttrOr("href", ""))
	assert.Equal(t, "tr_TR", doc.Find(`meta[property="og:locale"]`).AttrOr("content", ""))

	var types []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(s.Text()), &v))
		types = append(types, v["@type"].(string))
	})
	assert.Contains(t, types, "Organization")
	assert.Contains(t, types, "WebSite")
}

func TestMissingSEOEntryFallsBack(t *testing.T) {
	h, _ := newTestRouter(t)
	doc := parse(t, get(t, h, "/tr/products"))
	assert.Equal(t, "TechnomindAI", doc.Find("title").Text())
	assert.Equal(t, "AI driven technology and infrastructure", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	assert.Equal(t, "https://technomindai.com/tr/products", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
}

func TestUnreadableSEODocumentIsServerError(t *testing.T) {
	cfg := testConfig()
	cfg.SEOFile = filepath.Join(t.TempDir(), "missing.json")
	a, _ := newTestApp(t, cfg)
	rec := get(t, a.routes(), "/en/about")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestMalformedContentIsServerError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "careers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "careers", "jobs.json"), []byte(`{"en": [`), 0o644))
	cfg := testConfig()
	cfg.ContentDir = dir
	cfg.SEOFile = "../../content/seo/meta.json"
	a, _ := newTestApp(t, cfg)

	rec := get(t, a.routes(), "/en/career")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	metrics := get(t, a.routes(), "/metrics")
	assert.Contains(t, metrics.Body.String(), `web_content_load_errors_total{domain="careers"} 1`)
}

func TestMissingContentDocumentIsServerError(t *testing.T) {
	cfg := testConfig()
	cfg.ContentDir = t.TempDir()
	cfg.SEOFile = "../../content/seo/meta.json"
	a, _ := newTestApp(t, cfg)

	rec := get(t, a.routes(), "/en/about")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	metrics := get(t, a.routes(), "/metrics")
	assert.Contains(t, metrics.Body.String(), `web_content_load_errors_total{domain="about"} 1`)
}

func TestFAQFallsBackToBaseLocale(t *testing.T) {
	h, _ := newTestRouter(t)
	doc := parse(t, get(t, h, "/tr/faq"))
	assert.Contains(t, doc.Find(".faq-item summary").First().Text(), "What does TechnomindAI do?")
	assert.Equal(t, "Hâlâ sorularınız mı var?", strings.TrimSpace(doc.Find(".cta h2").Text()))

	ar := parse(t, get(t, h, "/ar/faq"))
	assert.Contains(t, ar.Find(".faq-item summary").First().Text(), "ماذا تفعل")
}

func TestBlogSearchAndCategory(t *testing.T) {
	h, _ := newTestRouter(t)

	doc := parse(t, get(t, h, "/en/blog"))
	titles := doc.Find(".post-card h3").Map(func(_ int, s *goquery.Selection) string { return strings.TrimSpace(s.Text()) })
	assert.Equal(t, []string{"Observability for machine learning systems", "Running AI at the edge", "Choosing a vector database"}, titles)

	doc = parse(t, get(t, h, "/en/blog?q=VECTOR"))
	assert.Equal(t, 1, doc.Find(".post-card").Length())

	doc = parse(t, get(t, h, "/en/blog?category=Infrastructure"))
	assert.Equal(t, 1, doc.Find(".post-card").Length())
	assert.Equal(t, "Infrastructure", strings.TrimSpace(doc.Find(".categories a.active").Text()))

	doc = parse(t, get(t, h, "/en/blog?q=nothing-matches"))
	assert.Equal(t, 0, doc.Find(".post-card").Length())
	assert.Contains(t, doc.Find(".empty").Text(), "No posts match")
}

func TestPostPage(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := get(t, h, "/en/blog/ai-at-the-edge")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)

	assert.Equal(t, "Running AI at the edge", doc.Find("article.post h1").Text())
	assert.Equal(t, 1, doc.Find(`.prose h2#why-the-edge`).Length())
	assert.Equal(t, "article", doc.Find(`meta[property="og:type"]`).AttrOr("content", ""))
	assert.Equal(t, "https://technomindai.com/en/blog/ai-at-the-edge", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	assert.Contains(t, doc.Find(".meta").Text(), "May 2, 2024")
	assert.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"BlogPosting"`)
	// the other AI post is related
	assert.Equal(t, 1, doc.Find(".related .post-card").Length())

	// untranslated posts fall back to the base locale text
	ar := parse(t, get(t, h, "/ar/blog/choosing-a-vector-database"))
	assert.Equal(t, "Choosing a vector database", ar.Find("article.post h1").Text())
	assert.Contains(t, ar.Find(".meta").Text(), "نوفمبر")
}

func TestNotFound(t *testing.T) {
	h, _ := newTestRouter(t)
	for _, target := range []string{"/en/blog/no-such-post", "/tr/nope", "/ar/products/robots", "/logo.png"} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		doc := parse(t, rec)
		assert.Equal(t, "noindex, follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""), target)
	}
	doc := parse(t, get(t, h, "/tr/nope"))
	assert.Equal(t, "Sayfa bulunamadı", strings.TrimSpace(doc.Find(".error-page h1").Text()))
}

func TestSwitchLocale(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(t, h, "/api/locale/tr?path="+url.QueryEscape("/en/blog?q=edge"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tr/blog?q=edge", rec.Header().Get("Location"))
	var saved *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == mw.LocaleCookie {
			saved = c
		}
	}
	require.NotNil(t, saved)
	assert.Equal(t, "tr", saved.Value)

	rec = get(t, h, "/api/locale/ar?path="+url.QueryEscape("//evil.example/x"))
	assert.Equal(t, "/ar", rec.Header().Get("Location"))

	rec = get(t, h, "/api/locale/fr?path=/en")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSwitchTheme(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := get(t, h, "/api/theme/light?path=/en/about")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/en/about", rec.Header().Get("Location"))

	for _, path := range []string{"/%09/evil.com", "/%0D/evil.com", "/%0A/evil.com", "https://evil.com"} {
		rec = get(t, h, "/api/theme/dark?path="+path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}

	doc := parse(t, get(t, h, "/en/about", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: mw.ThemeCookie, Value: "light"})
	}))
	assert.Equal(t, "theme-light", doc.Find("html").AttrOr("class", ""))
}

// formSession fetches page and returns the CSRF cookie and token it rendered.
func formSession(t *testing.T, h http.Handler, page string) (*http.Cookie, string) {
	t.Helper()
	rec := get(t, h, page)
	require.Equal(t, http.StatusOK, rec.Code)
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	token := parse(t, rec).Find(`input[name="csrf_token"]`).AttrOr("value", "")
	require.Equal(t, cookie.Value, token)
	return cookie, token
}

func post(t *testing.T, h http.Handler, target string, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestContactPageShowsDetailsAndMap(t *testing.T) {
	h, _ := newTestRouter(t)
	doc := parse(t, get(t, h, "/ar/contact"))

	info := doc.Find(".contact-info")
	assert.Equal(t, "mailto:info@technomindai.com", info.Find(`a[href^="mailto:"]`).AttrOr("href", ""))
	assert.Equal(t, "tel:+902120000000", info.Find(`a[href^="tel:"]`).AttrOr("href", ""))
	assert.Equal(t, 3, info.Find(".social a").Length())
	assert.Equal(t, "تابعنا", strings.TrimSpace(info.Find(".social h3").Text()))

	frame := doc.Find(".contact-map iframe")
	require.Equal(t, 1, frame.Length())
	assert.True(t, strings.HasPrefix(frame.AttrOr("src", ""), "https://www.openstreetmap.org/export/embed.html"))
	assert.Equal(t, "اعثر علينا على الخريطة", frame.AttrOr("title", ""))

	cfg := testConfig()
	cfg.Contact = config.ContactConfig{}
	a, _ := newTestApp(t, cfg)
	bare := parse(t, get(t, a.routes(), "/en/contact"))
	assert.Equal(t, 0, bare.Find(".contact-map").Length())
	assert.Equal(t, 0, bare.Find(".contact-info .social").Length())
	assert.Equal(t, 0, bare.Find(`.contact-info a[href^="tel:"]`).Length())
}

func TestContactForm(t *testing.T) {
	h, sink := newTestRouter(t)
	cookie, token := formSession(t, h, "/tr/contact")

	rec := post(t, h, "/tr/contact", nil, url.Values{"name": {"Ayşe"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = post(t, h, "/tr/contact", cookie, url.Values{
		"csrf_token": {token},
		"email":      {"not-an-email"},
		"as":         {"company"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "not-an-email", doc.Find(`input[name="email"]`).AttrOr("value", ""))
	errs := doc.Find(".field-error").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	assert.Contains(t, errs, "Geçerli bir e-posta adresi girin.")
	assert.Contains(t, errs, "Bu alan zorunludur.")
	assert.Empty(t, sink.Submissions)

	rec = post(t, h, "/tr/contact", cookie, url.Values{
		"csrf_token": {token},
		"name":       {"Ayşe Yılmaz"},
		"email":      {"ayse@example.com"},
		"subject":    {"Custom Software"},
		"message":    {"Merhaba, bir proje hakkında konuşmak istiyoruz."},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tr/contact?sent=1", rec.Header().Get("Location"))
	require.Len(t, sink.Submissions, 1)
	assert.Equal(t, "tr", string(sink.Submissions[0].Locale))

	doc = parse(t, get(t, h, "/tr/contact?sent=1"))
	assert.Contains(t, doc.Find(".notice.success").Text(), "Teşekkürler")
}

func TestAskQuestion(t *testing.T) {
	h, sink := newTestRouter(t)
	cookie, token := formSession(t, h, "/en/faq")

	rec := post(t, h, "/en/faq", cookie, url.Values{
		"csrf_token": {token},
		"email":      {"bot@example.com"},
		"question":   {"Buy cheap things now"},
		"company":    {"spam inc"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, sink.Questions)

	rec = post(t, h, "/en/faq", cookie, url.Values{
		"csrf_token": {token},
		"email":      {"dev@example.com"},
		"category":   {"Unknown"},
		"question":   {"Hi"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = post(t, h, "/en/faq", cookie, url.Values{
		"csrf_token": {token},
		"email":      {"dev@example.com"},
		"category":   {"Projects"},
		"question":   {"Can you work with our in-house team?"},
		"consent":    {"on"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/en/faq?asked=1#ask", rec.Header().Get("Location"))
	require.Len(t, sink.Questions, 1)
	assert.True(t, sink.Questions[0].Consent)
}

func TestSitemapAndRobots(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(t, h, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://technomindai.com/ar/blog/ai-at-the-edge</loc>")
	assert.Contains(t, body, `<xhtml:link rel="alternate" hreflang="x-default" href="https://technomindai.com/en/about"></xhtml:link>`)
	assert.Contains(t, body, "<lastmod>2024-08-19</lastmod>")

	rec = get(t, h, "/robots.txt")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://technomindai.com/sitemap.xml")
}

func TestAssetsAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := get(t, h, "/assets/css/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	_ = get(t, h, "/en/about")
	rec = get(t, h, "/metrics")
	assert.Contains(t, rec.Body.String(), `web_http_requests_total{method="GET",route="/{locale}/about",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "web_seo_document_loads_total 1")
}

func TestCheckCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, check(cmd, testConfig()))
	assert.Equal(t, "ok\n", out.String())

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "faq"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faq", "faqs.json"), []byte(`{"tr": []}`), 0o644))
	cfg := testConfig()
	cfg.ContentDir = dir
	cfg.SEOFile = "../../content/seo/meta.json"
	out.Reset()
	err := check(cmd, cfg)
	require.Error(t, err)
	assert.Contains(t, out.String(), "faq /en: base locale entry missing")
	assert.Contains(t, out.String(), "home #: document missing")
}
