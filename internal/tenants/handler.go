package tenants

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/northgate-io/northgate/internal/platform/httpx"
	"github.com/northgate-io/northgate/internal/principal"
)

// Handler manages tenant administration endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers tenant routes. The current-tenant lookup needs only
// authentication; everything else needs TENANT_MANAGE.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/current", h.current)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{generatedID}/features", h.setFeature)
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequireAuthentication(); err != nil {
		httpx.RespondError(w, err)
		return
	}
	view, err := h.service.Get(r.Context(), p.TenantGeneratedID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequirePermission(PermTenantManage); err != nil {
		httpx.RespondError(w, err)
		return
	}
	views, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list tenants failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequirePermission(PermTenantManage); err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req CreateTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	view, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) setFeature(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequirePermission(PermTenantManage); err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req FeatureRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.SetFeature(r.Context(), chi.URLParam(r, "generatedID"), req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
