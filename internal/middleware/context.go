package middleware

import (
	"context"

	"github.com/foadjalali/tcmindai/internal/i18n"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyLocale ctxKey = "locale"
	ctxKeyTheme  ctxKey = "theme"
	ctxKeyCSRF   ctxKey = "csrf_token"
)

// WithLocale stores the request locale in ctx.
func WithLocale(ctx context.Context, l i18n.Locale) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, l)
}

// LocaleFromContext returns the request locale, or the base locale when unset.
func LocaleFromContext(ctx context.Context) i18n.Locale {
	if v, ok := ctx.Value(ctxKeyLocale).(i18n.Locale); ok && v != "" {
		return v
	}
	return i18n.Base
}

// WithTheme stores the colour theme in ctx.
func WithTheme(ctx context.Context, t Theme) context.Context {
	return context.WithValue(ctx, ctxKeyTheme, t)
}

// ThemeFromContext returns the colour theme, or the default theme when unset.
func ThemeFromContext(ctx context.Context) Theme {
	if v, ok := ctx.Value(ctxKeyTheme).(Theme); ok && v != "" {
		return v
	}
	return DefaultTheme
}

func withCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeyCSRF, token)
}

// CSRFToken returns the token forms must echo back.
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}
