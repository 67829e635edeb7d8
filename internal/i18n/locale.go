package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Locale is one of the languages the site is published in.
type Locale string

const (
	EN Locale = "en"
	AR Locale = "ar"
	TR Locale = "tr"
)

// Base is used whenever a requested locale is missing or unknown.
const Base = EN

var supported = []Locale{EN, AR, TR}

var tags = map[Locale]language.Tag{
	EN: language.English,
	AR: language.Arabic,
	TR: language.Turkish,
}

// Supported returns the supported locales, base first.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse reports whether s names a supported locale. Matching is exact.
func Parse(s string) (Locale, bool) {
	for _, l := range supported {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Normalize maps any value onto a supported locale, defaulting to Base.
func Normalize(s string) Locale {
	if l, ok := Parse(strings.ToLower(strings.TrimSpace(s))); ok {
		return l
	}
	return Base
}

func (l Locale) String() string { return string(l) }

// Tag returns the BCP 47 tag used for hreflang and the html lang attribute.
func (l Locale) Tag() language.Tag {
	if t, ok := tags[l]; ok {
		return t
	}
	return tags[Base]
}

// Dir returns the text direction of the locale.
func (l Locale) Dir() string {
	if l == AR {
		return "rtl"
	}
	return "ltr"
}

// DisplayName returns the language name written in the language itself,
// e.g. "العربية" for ar.
func (l Locale) DisplayName() string {
	name := display.Self.Name(l.Tag())
	if name == "" {
		return strings.ToUpper(string(l))
	}
	return name
}

// FromPath returns the locale carried by the first path segment, if any.
// "/en" and "/en/..." match; "/english" does not.
func FromPath(p string) (Locale, bool) {
	seg := strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(seg, '/'); i != -1 {
		seg = seg[:i]
	}
	return Parse(seg)
}

// StripLocale removes a leading locale segment. The result always starts with "/".
func StripLocale(p string) string {
	if _, ok := FromPath(p); !ok {
		if p == "" {
			return "/"
		}
		return p
	}
	rest := strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(rest, '/'); i != -1 {
		return rest[i:]
	}
	return "/"
}

// ReplaceLocaleInPath swaps the locale segment of p for next, or inserts it
// when p has none. A query string is preserved.
func ReplaceLocaleInPath(p string, next Locale) string {
	pathname, query, hasQuery := strings.Cut(p, "?")
	if pathname == "" {
		pathname = "/"
	}
	rest := StripLocale(pathname)
	out := "/" + string(next)
	if rest != "/" {
		out += rest
	}
	if hasQuery && query != "" {
		return out + "?" + query
	}
	return out
}

// MatchAcceptLanguage walks an Accept-Language header in order and returns the
// first entry whose two-character prefix is a supported locale. Quality values
// are ignored.
func MatchAcceptLanguage(header string) (Locale, bool) {
	for _, raw := range strings.Split(header, ",") {
		entry := raw
		if sc := strings.IndexByte(entry, ';'); sc != -1 {
			entry = entry[:sc]
		}
		entry = strings.ToLower(strings.TrimSpace(entry))
		if len(entry) < 2 {
			continue
		}
		if l, ok := Parse(entry[:2]); ok {
			return l, true
		}
	}
	return "", false
}
