package principal

import (
	"log/slog"
	"net/http"
	"strings"
)

// Middleware reconstructs the request principal from the forwarding headers
// before any business handler runs. A fresh principal is built for every
// request; nothing carries over between requests on a shared connection.
// Paths matching a skip prefix (health checks, metrics, error pages) bypass
// reconstruction entirely.
func Middleware(logger *slog.Logger, skipPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			p := DecodeHeaders(r.Header)
			if logger != nil && p.IsAuthenticated() {
				logger.Debug("principal reconstructed",
					slog.String("user_id", p.UserID),
					slog.String("tenant_id", p.TenantID),
					slog.Int("roles", len(p.Roles)))
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p)))
		})
	}
}
