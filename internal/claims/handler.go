package claims

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/claimflow/claimflow/internal/observability"
	"github.com/claimflow/claimflow/internal/platform/httpx"
	"github.com/claimflow/claimflow/internal/rbac"
	"github.com/claimflow/claimflow/internal/shared"
)

// Handler wires HTTP endpoints for claim capture and the approval workflow.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, metrics: metrics, validator: validator.New()}
}

// MountRoutes registers claim routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleLecturer, rbac.RoleProgrammeCoordinator, rbac.RoleAcademicManager, rbac.RoleHR))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleLecturer))
		r.Post("/", h.create)
		r.Post("/{id}/submit", h.submit)
		r.Post("/{id}/documents", h.attachDocument)
		r.Delete("/{id}/documents/{docID}", h.removeDocument)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleProgrammeCoordinator))
		r.Get("/pending/coordinator", h.pendingForCoordinator)
		r.Post("/{id}/verify", h.verify)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleAcademicManager))
		r.Get("/pending/manager", h.pendingForManager)
		r.Post("/{id}/approve", h.approve)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleProgrammeCoordinator, rbac.RoleAcademicManager))
		r.Post("/{id}/reject", h.reject)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleHR))
		r.Post("/{id}/settle", h.settle)
	})
}

type createClaimRequest struct {
	LecturerID  int64                    `json:"lecturer_id" validate:"required,gt=0"`
	Month       int                      `json:"month" validate:"required,min=1,max=12"`
	Year        int                      `json:"year" validate:"required,min=2000"`
	HourlyRate  string                   `json:"hourly_rate" validate:"required"`
	TotalHours  string                   `json:"total_hours" validate:"required"`
	Amount      string                   `json:"amount" validate:"required"`
	Notes       string                   `json:"notes"`
	SaveAsDraft bool                     `json:"save_as_draft"`
	Lines       []createClaimLineRequest `json:"lines" validate:"dive"`
}

type createClaimLineRequest struct {
	ActivityDescription string `json:"activity_description" validate:"required"`
	Hours               string `json:"hours" validate:"required"`
}

func (req createClaimRequest) toInput() (CreateClaimInput, error) {
	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil {
		return CreateClaimInput{}, fmt.Errorf("invalid hourly rate: %w", err)
	}
	hours, err := decimal.NewFromString(req.TotalHours)
	if err != nil {
		return CreateClaimInput{}, fmt.Errorf("invalid total hours: %w", err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return CreateClaimInput{}, fmt.Errorf("invalid amount: %w", err)
	}
	input := CreateClaimInput{
		LecturerID:  req.LecturerID,
		Month:       req.Month,
		Year:        req.Year,
		HourlyRate:  rate,
		TotalHours:  hours,
		Amount:      amount,
		Notes:       req.Notes,
		SaveAsDraft: req.SaveAsDraft,
	}
	for _, line := range req.Lines {
		lineHours, err := decimal.NewFromString(line.Hours)
		if err != nil {
			return CreateClaimInput{}, fmt.Errorf("invalid line hours: %w", err)
		}
		input.Lines = append(input.Lines, CreateClaimLineInput{
			ActivityDescription: line.ActivityDescription,
			Hours:               lineHours,
		})
	}
	return input, nil
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		claims []Claim
		err    error
	)
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := ClaimStatus(raw)
		if !status.Valid() {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unknown claim status")
			return
		}
		claims, err = h.service.GetClaimsByStatus(r.Context(), status)
	} else {
		claims, err = h.service.GetAllClaims(r.Context())
	}
	if err != nil {
		h.logger.Error("list claims", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	meta := shared.NewPagination(page, perPage, len(claims))
	start := meta.Offset()
	if start > len(claims) {
		start = len(claims)
	}
	end := start + meta.PerPage
	if end > len(claims) {
		end = len(claims)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"claims":     claims[start:end],
		"pagination": meta,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.claimID(w, r)
	if !ok {
		return
	}
	claim, err := h.service.GetClaimByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, claim)
}

func (h *Handler) pendingForCoordinator(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.PendingForCoordinator(r.Context())
	if err != nil {
		h.logger.Error("pending for coordinator", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"claims": claims})
}

func (h *Handler) pendingForManager(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.PendingForManager(r.Context())
	if err != nil {
		h.logger.Error("pending for manager", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"claims": claims})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	claim, err := h.service.AddClaim(r.Context(), input)
	if err != nil {
		h.logger.Error("create claim", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, claim)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Submit)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Verify)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(ctx context.Context, claimID, actorID int64, _ string) (TransitionResult, error) {
		return h.service.Settle(ctx, claimID, actorID)
	})
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, claimID, actorID int64, comment string) (TransitionResult, error)) {
	id, ok := h.claimID(w, r)
	if !ok {
		return
	}
	var req decisionRequest
	// ContentLength is -1 for chunked bodies; only a known-empty body skips decoding.
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
			return
		}
	}
	actorID := h.actorID(r)
	result, err := op(r.Context(), id, actorID, req.Comment)
	if err != nil {
		h.logger.Error("claim transition", slog.Any("error", err), slog.Int64("claim_id", id))
		httpx.RespondError(w, err)
		return
	}
	h.respondTransition(w, result)
}

func (h *Handler) respondTransition(w http.ResponseWriter, result TransitionResult) {
	switch result.Outcome {
	case TransitionNotFound:
		httpx.Problem(w, http.StatusNotFound, "Not Found", "claim not found")
	case TransitionIllegal:
		httpx.Problem(w, http.StatusConflict, "Conflict",
			fmt.Sprintf("cannot move claim from %s to %s", result.From, result.To))
	default:
		h.metrics.ObserveTransition(string(result.To))
		httpx.JSON(w, http.StatusOK, map[string]any{
			"from":   result.From,
			"to":     result.To,
			"forced": result.Forced,
		})
	}
}

type attachDocumentRequest struct {
	FileName string `json:"file_name" validate:"required"`
	FilePath string `json:"file_path" validate:"required"`
}

func (h *Handler) attachDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.claimID(w, r)
	if !ok {
		return
	}
	var req attachDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	attached, err := h.service.AttachDocument(r.Context(), id, AttachDocumentInput{
		FileName: req.FileName,
		FilePath: req.FilePath,
	})
	if err != nil {
		h.logger.Error("attach document", slog.Any("error", err), slog.Int64("claim_id", id))
		httpx.RespondError(w, err)
		return
	}
	if !attached {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "claim not found")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"attached": true})
}

func (h *Handler) removeDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.claimID(w, r)
	if !ok {
		return
	}
	docID, err := strconv.ParseInt(chi.URLParam(r, "docID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid document ID")
		return
	}
	removed, err := h.service.RemoveDocument(r.Context(), id, docID)
	if err != nil {
		h.logger.Error("remove document", slog.Any("error", err), slog.Int64("claim_id", id))
		httpx.RespondError(w, err)
		return
	}
	if !removed {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) claimID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid claim ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) actorID(r *http.Request) int64 {
	id, _ := shared.SessionUserID(r.Context())
	return id
}
