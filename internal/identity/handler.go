package identity

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/northgate-io/northgate/internal/platform/httpx"
	"github.com/northgate-io/northgate/internal/shared"
)

// TokenValidator is the subset of the token codec the handler needs.
type TokenValidator interface {
	Validate(raw string) bool
	SubjectID(raw string) string
}

// Handler exposes the internal authority endpoint consumed by the gateway:
// validate a bearer token and return the subject's resolved identity.
type Handler struct {
	logger  *slog.Logger
	service *Service
	codec   TokenValidator
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, codec TokenValidator) *Handler {
	return &Handler{logger: logger, service: service, codec: codec}
}

// MountRoutes registers validate routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/validate", h.validate)
	r.Post("/validate", h.validate)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	raw, ok := httpx.BearerToken(r)
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, UserInfoResponse{Success: false, Message: "Missing or invalid Authorization header"})
		return
	}
	if !h.codec.Validate(raw) {
		httpx.JSON(w, http.StatusUnauthorized, UserInfoResponse{Success: false, Message: "Invalid or expired token"})
		return
	}
	subjectID := h.codec.SubjectID(raw)
	if subjectID == "" {
		httpx.JSON(w, http.StatusUnauthorized, UserInfoResponse{Success: false, Message: "Invalid token format"})
		return
	}

	resolved, err := h.service.Resolve(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			httpx.JSON(w, http.StatusUnauthorized, UserInfoResponse{Success: false, Message: "User not found"})
			return
		}
		// Fail closed: any unexpected resolution error rejects the token.
		h.logger.Error("resolve identity", slog.String("subject_id", subjectID), slog.Any("error", err))
		httpx.JSON(w, http.StatusUnauthorized, UserInfoResponse{Success: false, Message: "Error validating token"})
		return
	}

	httpx.JSON(w, http.StatusOK, NewUserInfoResponse(resolved))
}
