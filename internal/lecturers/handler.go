package lecturers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/claimflow/claimflow/internal/platform/httpx"
	"github.com/claimflow/claimflow/internal/rbac"
)

// Handler wires HTTP endpoints for the lecturer register.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers lecturer routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleProgrammeCoordinator, rbac.RoleAcademicManager, rbac.RoleHR))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleHR))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type lecturerRequest struct {
	FullName          string `json:"full_name" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone"`
	Department        string `json:"department"`
	EmployeeNumber    string `json:"employee_number" validate:"required"`
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	TaxNumber         string `json:"tax_number"`
	DefaultHourlyRate string `json:"default_hourly_rate"`
	IsActive          *bool  `json:"is_active"`
}

func (req lecturerRequest) toLecturer() (Lecturer, error) {
	rate := decimal.Zero
	if req.DefaultHourlyRate != "" {
		var err error
		rate, err = decimal.NewFromString(req.DefaultHourlyRate)
		if err != nil {
			return Lecturer{}, fmt.Errorf("invalid default hourly rate: %w", err)
		}
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return Lecturer{
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		Department:        req.Department,
		EmployeeNumber:    req.EmployeeNumber,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		TaxNumber:         req.TaxNumber,
		DefaultHourlyRate: rate,
		IsActive:          active,
	}, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	lecturers, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list lecturers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"lecturers": lecturers})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid lecturer ID")
		return
	}
	lecturer, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lecturer)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req lecturerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	lecturer, err := req.toLecturer()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), lecturer)
	if err != nil {
		h.logger.Error("create lecturer", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid lecturer ID")
		return
	}
	var req lecturerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	lecturer, err := req.toLecturer()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	lecturer.ID = id
	if err := h.service.Update(r.Context(), lecturer); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid lecturer ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrHasClaims) {
			httpx.Problem(w, http.StatusConflict, "Conflict", "lecturer has claims and cannot be deleted")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
