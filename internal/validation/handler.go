package validation

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claimflow/claimflow/internal/claims"
	"github.com/claimflow/claimflow/internal/platform/httpx"
	"github.com/claimflow/claimflow/internal/rbac"
)

// ClaimSource loads the claim to validate.
type ClaimSource interface {
	GetClaimByID(ctx context.Context, id int64) (claims.Claim, error)
}

// Handler exposes on-demand claim validation for reviewers.
type Handler struct {
	logger *slog.Logger
	source ClaimSource
	rbac   rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, source ClaimSource, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, source: source, rbac: rbac}
}

// MountRoutes registers validation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleProgrammeCoordinator, rbac.RoleAcademicManager, rbac.RoleHR))
		r.Get("/claims/{id}", h.validateClaim)
	})
}

func (h *Handler) validateClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid claim ID")
		return
	}
	claim, err := h.source.GetClaimByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result := Validate(claim)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"result":  result,
		"summary": Summary(result),
	})
}
