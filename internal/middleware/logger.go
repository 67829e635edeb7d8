package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/foadjalali/tcmindai/internal/i18n"
	"github.com/foadjalali/tcmindai/internal/observability"
)

// Logger attaches a request scoped zap logger to the context and emits one
// structured entry per request.
func Logger(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rid := chimw.GetReqID(r.Context())
			reqLog := base
			if rid != "" {
				reqLog = base.With(zap.String("request_id", rid))
			}
			ctx := observability.WithLogger(r.Context(), reqLog)

			rw := recorder(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			status := rw.Status()
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("remote_ip", clientIP(r)),
			}
			if l, ok := i18n.FromPath(r.URL.Path); ok {
				fields = append(fields, zap.String("locale", string(l)))
			}
			switch {
			case status >= 500:
				reqLog.Error("request", fields...)
			case status >= 400:
				reqLog.Warn("request", fields...)
			default:
				reqLog.Info("request", fields...)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	// Cloud Run appends the client address last.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		p := strings.Split(xff, ",")
		return strings.TrimSpace(p[len(p)-1])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}
