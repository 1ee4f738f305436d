package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/northgate-io/northgate/internal/auth"
	"github.com/northgate-io/northgate/internal/gateway"
	"github.com/northgate-io/northgate/internal/identity"
	"github.com/northgate-io/northgate/internal/observability"
	"github.com/northgate-io/northgate/internal/platform/httpx"
	"github.com/northgate-io/northgate/internal/principal"
	"github.com/northgate-io/northgate/internal/roles"
	"github.com/northgate-io/northgate/internal/tenants"
	"github.com/northgate-io/northgate/internal/users"
)

// AuthorityRouterParams groups dependencies for the authority HTTP router.
type AuthorityRouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	IdentityHandler *identity.Handler
	UsersHandler    *users.Handler
	RolesHandler    *roles.Handler
	TenantsHandler  *tenants.Handler
	Metrics         *observability.Metrics
}

// NewAuthorityRouter constructs the authority service router. Identity
// arrives as forwarding headers injected by the gateway; the principal
// middleware reconstructs it before any handler runs.
func NewAuthorityRouter(params AuthorityRouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	skipPaths := []string{"/healthz", "/health", "/metrics", "/favicon.ico"}
	if params.Config != nil && len(params.Config.SkipPaths) > 0 {
		skipPaths = params.Config.SkipPaths
	}
	r.Use(principal.Middleware(params.Logger, skipPaths))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			params.AuthHandler.MountRoutes(r)
			params.IdentityHandler.MountRoutes(r)
		})
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.RolesHandler != nil {
			r.Route("/roles", params.RolesHandler.MountRoutes)
		}
		if params.TenantsHandler != nil {
			r.Route("/tenants", params.TenantsHandler.MountRoutes)
		}
		r.Get("/me", me)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

// me returns the caller's reconstructed principal as a profile.
func me(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequireAuthentication(); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":          p.UserID,
		"generatedId": p.UserGeneratedID,
		"username":    p.Username,
		"email":       p.Email,
		"fullName":    p.FullName(),
		"isActive":    p.IsActive,
		"tenantId":    p.TenantGeneratedID,
		"roles":       p.Roles,
		"permissions": p.Permissions,
	})
}

// GatewayRouterParams groups dependencies for the gateway HTTP router.
type GatewayRouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Filter  *gateway.Filter
	Proxy   *gateway.Proxy
	Metrics *observability.Metrics
}

// NewGatewayRouter constructs the gateway router: the admission filter wraps
// the reverse proxy, with health and metrics endpoints served locally.
func NewGatewayRouter(params GatewayRouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Handle("/*", params.Filter.Middleware(params.Proxy))

	return r
}
