package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/northgate-io/northgate/internal/platform/httpx"
	"github.com/northgate-io/northgate/internal/principal"
)

// TokenChecker is the local token validation surface the filter needs.
type TokenChecker interface {
	Validate(raw string) bool
}

// IdentityResolver resolves a locally valid token into a principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, rawToken string) (*principal.Principal, error)
}

// DecisionRecorder counts admission outcomes. A nil recorder is a no-op.
type DecisionRecorder interface {
	AuthDecision(outcome string)
}

// Filter is the admission middleware at the edge. Requests to public paths
// pass through untouched. Everything else needs a bearer token that survives
// local validation and remote identity resolution; any failure along the way
// rejects the request with the perimeter 401 body. The filter fails closed:
// when the authority is unreachable, no request is admitted.
type Filter struct {
	checker        TokenChecker
	resolver       IdentityResolver
	publicPrefixes []string
	resolveTimeout time.Duration
	metrics        DecisionRecorder
	logger         *slog.Logger
}

// NewFilter constructs a Filter. metrics may be nil.
func NewFilter(checker TokenChecker, resolver IdentityResolver, publicPrefixes []string, resolveTimeout time.Duration, metrics DecisionRecorder, logger *slog.Logger) *Filter {
	if resolveTimeout <= 0 {
		resolveTimeout = 3 * time.Second
	}
	return &Filter{
		checker:        checker,
		resolver:       resolver,
		publicPrefixes: publicPrefixes,
		resolveTimeout: resolveTimeout,
		metrics:        metrics,
		logger:         logger,
	}
}

// Middleware returns the admission middleware.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.isPublic(r.URL.Path) {
			f.record("public")
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := httpx.BearerToken(r)
		if !ok {
			f.reject(w, r, "missing_token", "Missing or invalid Authorization header")
			return
		}

		// Local check first: an expired or forged token never reaches the
		// authority.
		if !f.checker.Validate(raw) {
			f.reject(w, r, "invalid_token", "Invalid or expired token")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), f.resolveTimeout)
		defer cancel()
		p, err := f.resolver.Resolve(ctx, raw)
		if err != nil {
			if f.logger != nil {
				f.logger.Warn("identity resolution failed",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
			}
			f.reject(w, r, "resolve_failed", "Invalid or expired token")
			return
		}

		for _, header := range principal.Headers() {
			r.Header.Del(header)
		}
		principal.EncodeHeaders(p, r.Header)

		f.record("allowed")
		next.ServeHTTP(w, r)
	})
}

func (f *Filter) isPublic(path string) bool {
	for _, prefix := range f.publicPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (f *Filter) reject(w http.ResponseWriter, r *http.Request, outcome, message string) {
	f.record(outcome)
	if f.logger != nil {
		f.logger.Info("request rejected",
			slog.String("path", r.URL.Path),
			slog.String("outcome", outcome))
	}
	httpx.Unauthorized(w, message)
}

func (f *Filter) record(outcome string) {
	if f.metrics != nil {
		f.metrics.AuthDecision(outcome)
	}
}
