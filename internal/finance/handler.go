package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/claimflow/claimflow/internal/claims"
	"github.com/claimflow/claimflow/internal/platform/httpx"
	"github.com/claimflow/claimflow/internal/rbac"
	"github.com/claimflow/claimflow/internal/shared"
)

// reportCacheTTL bounds staleness of the cached monthly report. The warmup
// job refreshes the current period well inside this window.
const reportCacheTTL = 15 * time.Minute

// Settler marks claims as paid once their invoice or batch is produced.
type Settler interface {
	Settle(ctx context.Context, claimID, actorID int64) (claims.TransitionResult, error)
}

// NoticeEnqueuer queues settlement notice delivery. May be nil.
type NoticeEnqueuer interface {
	EnqueueSettlementNotice(ctx context.Context, claimID int64) error
}

// Handler wires the HR finance endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	settler Settler
	notices NoticeEnqueuer
	cache   *redis.Client
	rbac    rbac.Middleware
	reports singleflight.Group
}

// NewHandler constructs a Handler. notices and cache may be nil.
func NewHandler(logger *slog.Logger, service *Service, settler Settler, notices NoticeEnqueuer, cache *redis.Client, rbac rbac.Middleware) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		settler: settler,
		notices: notices,
		cache:   cache,
		rbac:    rbac,
	}
}

// MountRoutes registers finance routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.RoleHR))
		r.Get("/dashboard", h.dashboard)
		r.Get("/reports/monthly", h.monthlyReport)
		r.Post("/invoices/{claimID}", h.generateInvoice)
		r.Get("/invoices/{claimID}/html", h.invoiceHTML)
		r.Post("/batches", h.generateBatch)
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DashboardSummary(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// monthlyReport serves the aggregate for one period. Concurrent requests for
// the same period share a single computation, and warm results are served
// from redis when available.
func (h *Handler) monthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month must be between 1 and 12")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "year is required")
		return
	}

	key := ReportCacheKey(month, year)
	value, err, _ := h.reports.Do(key, func() (any, error) {
		if h.cache != nil {
			if cached, err := h.cache.Get(r.Context(), key).Bytes(); err == nil {
				var report MonthlyReport
				if err := json.Unmarshal(cached, &report); err == nil {
					return report, nil
				}
			}
		}
		report, err := h.service.GenerateMonthlyReport(r.Context(), month, year)
		if err != nil {
			return MonthlyReport{}, err
		}
		if h.cache != nil {
			if payload, err := json.Marshal(report); err == nil {
				if err := h.cache.Set(r.Context(), key, payload, reportCacheTTL).Err(); err != nil {
					h.logger.Warn("cache monthly report", slog.Any("error", err))
				}
			}
		}
		return report, nil
	})
	if err != nil {
		h.logger.Error("monthly report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, value)
}

// generateInvoice derives the invoice and settles the claim. Settlement
// failures are surfaced; a generated invoice for an unsettled claim would be
// paid twice.
func (h *Handler) generateInvoice(w http.ResponseWriter, r *http.Request) {
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}
	invoice, err := h.service.GenerateInvoice(r.Context(), claimID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	result, err := h.settler.Settle(r.Context(), claimID, h.actorID(r))
	if err != nil {
		h.logger.Error("settle after invoice", slog.Any("error", err), slog.Int64("claim_id", claimID))
		httpx.RespondError(w, err)
		return
	}
	if !result.Applied() {
		httpx.Problem(w, http.StatusConflict, "Conflict",
			fmt.Sprintf("claim %d could not be settled from %s", claimID, result.From))
		return
	}

	if h.notices != nil {
		if err := h.notices.EnqueueSettlementNotice(r.Context(), claimID); err != nil {
			h.logger.Warn("enqueue settlement notice", slog.Any("error", err), slog.Int64("claim_id", claimID))
		}
	}

	httpx.JSON(w, http.StatusCreated, invoice)
}

// invoiceHTML renders the printable invoice without settling anything.
func (h *Handler) invoiceHTML(w http.ResponseWriter, r *http.Request) {
	claimID, ok := h.claimID(w, r)
	if !ok {
		return
	}
	invoice, err := h.service.GenerateInvoice(r.Context(), claimID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	html, err := RenderInvoiceHTML(invoice)
	if err != nil {
		h.logger.Error("render invoice", slog.Any("error", err), slog.Int64("claim_id", claimID))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

type generateBatchRequest struct {
	ClaimIDs []int64 `json:"claim_ids"`
}

// generateBatch builds a payment batch from the requested claims and settles
// every claim the batch retained.
func (h *Handler) generateBatch(w http.ResponseWriter, r *http.Request) {
	var req generateBatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if len(req.ClaimIDs) == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "claim_ids is required")
		return
	}

	batch, err := h.service.GeneratePaymentBatch(r.Context(), req.ClaimIDs)
	if err != nil {
		h.logger.Error("generate payment batch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	actorID := h.actorID(r)
	for _, claimID := range batch.ClaimIDs {
		result, err := h.settler.Settle(r.Context(), claimID, actorID)
		if err != nil {
			h.logger.Error("settle batched claim", slog.Any("error", err), slog.Int64("claim_id", claimID))
			continue
		}
		if result.Applied() && h.notices != nil {
			if err := h.notices.EnqueueSettlementNotice(r.Context(), claimID); err != nil {
				h.logger.Warn("enqueue settlement notice", slog.Any("error", err), slog.Int64("claim_id", claimID))
			}
		}
	}

	httpx.JSON(w, http.StatusCreated, batch)
}

func (h *Handler) claimID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "claimID"), 10, 64)
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

// ReportCacheKey names the redis entry for one period's report. Shared with
// the warmup job.
func ReportCacheKey(month, year int) string {
	return fmt.Sprintf("claimflow:report:%04d-%02d", year, month)
}
