package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/northgate-io/northgate/internal/platform/httpx"
	"github.com/northgate-io/northgate/internal/principal"
)

// Handler manages role management endpoints.
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

// MountRoutes registers role routes. Every endpoint needs ROLE_MANAGE.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/assignments", h.assign)
	r.Delete("/assignments/{userID}/{roleID}", h.revoke)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequirePermission(PermRoleManage); err != nil {
		httpx.RespondError(w, err)
		return
	}
	views, err := h.service.List(r.Context(), p.TenantGeneratedID)
	if err != nil {
		h.logger.Error("list roles failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequirePermission(PermRoleManage); err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req CreateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	view, err := h.service.Create(r.Context(), p.TenantGeneratedID, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequirePermission(PermRoleManage); err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req AssignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Assign(r.Context(), p.TenantGeneratedID, p.UserID, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if err := p.RequirePermission(PermRoleManage); err != nil {
		httpx.RespondError(w, err)
		return
	}
	userID := chi.URLParam(r, "userID")
	roleID := chi.URLParam(r, "roleID")
	if err := h.service.Revoke(r.Context(), p.TenantGeneratedID, userID, roleID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
