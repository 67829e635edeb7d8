package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFallsBackToBase(t *testing.T) {
	assert.Equal(t, AR, Normalize("ar"))
	assert.Equal(t, TR, Normalize(" TR "))
	assert.Equal(t, EN, Normalize("de"))
	assert.Equal(t, EN, Normalize(""))
}

func TestFromPath(t *testing.T) {
	cases := map[string]struct {
		want Locale
		ok   bool
	}{
		"/en":          {EN, true},
		"/ar/":         {AR, true},
		"/tr/blog/x":   {TR, true},
		"/english":     {"", false},
		"/":            {"", false},
		"/blog/en":     {"", false},
		"/de/about-us": {"", false},
	}
	for in, tc := range cases {
		got, ok := FromPath(in)
		assert.Equal(t, tc.ok, ok, in)
		assert.Equal(t, tc.want, got, in)
	}
}

func TestReplaceLocaleInPath(t *testing.T) {
	assert.Equal(t, "/ar/blog", ReplaceLocaleInPath("/en/blog", AR))
	assert.Equal(t, "/tr", ReplaceLocaleInPath("/en", TR))
	assert.Equal(t, "/tr", ReplaceLocaleInPath("/", TR))
	assert.Equal(t, "/ar/faq", ReplaceLocaleInPath("/faq", AR))
	assert.Equal(t, "/en/blog?q=ai", ReplaceLocaleInPath("/tr/blog?q=ai", EN))
}

func TestMatchAcceptLanguageUsesHeaderOrder(t *testing.T) {
	l, ok := MatchAcceptLanguage("de-DE,tr;q=0.5,ar;q=0.9")
	require.True(t, ok)
	assert.Equal(t, TR, l)

	l, ok = MatchAcceptLanguage("fr, AR-sa")
	require.True(t, ok)
	assert.Equal(t, AR, l)

	_, ok = MatchAcceptLanguage("fr-FR,de;q=0.8")
	assert.False(t, ok)

	_, ok = MatchAcceptLanguage("")
	assert.False(t, ok)
}

func TestDirAndTags(t *testing.T) {
	assert.Equal(t, "rtl", AR.Dir())
	assert.Equal(t, "ltr", TR.Dir())
	assert.Equal(t, "ar", AR.Tag().String())
	assert.Equal(t, "English", EN.DisplayName())
	assert.Equal(t, "Türkçe", TR.DisplayName())
}

func TestBundleFallsBackToBaseThenKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"nav.home":"Home","nav.blog":"Blog"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tr.json"), []byte(`{"nav.home":"Ana Sayfa"}`), 0o644))

	b, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Ana Sayfa", b.T(TR, "nav.home"))
	assert.Equal(t, "Blog", b.T(TR, "nav.blog"))
	assert.Equal(t, "Home", b.T(AR, "nav.home"))
	assert.Equal(t, "missing.key", b.T(EN, "missing.key"))
	assert.False(t, b.Has(TR, "nav.blog"))
}

func TestLoadRequiresBaseLocale(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ar.json"), []byte(`{}`), 0o644))
	_, err := Load(dir)
	require.Error(t, err)
}

func TestTitleUsesTurkishCasing(t *testing.T) {
	assert.Equal(t, "İnovasyon", Title(TR, "inovasyon"))
	assert.Equal(t, "Innovation", Title(EN, "innovation"))
}
