package analytics

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/analytics"
	"github.com/MrJamesThe3rd/pennywise/internal/goal"
	"github.com/MrJamesThe3rd/pennywise/internal/settings"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Handler struct {
	svc   *analytics.Service
	txSvc *transaction.Service
	now   func() time.Time
}

func NewHandler(svc *analytics.Service, txSvc *transaction.Service) *Handler {
	return &Handler{svc: svc, txSvc: txSvc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/monthly", h.monthly)
	r.Get("/budget", h.budget)
	r.Put("/budget", h.setBudget)
	r.Get("/rollover", h.rollover)
	r.Post("/rollover/accept", h.acceptRollover)
	r.Post("/rollover/decline", h.declineRollover)
	r.Get("/goal", h.goal)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	period, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := h.svc.Dashboard(r.Context(), period)
	if err != nil {
		slog.Error("failed to build dashboard", "period", period, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(d))
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	txs, err := h.txSvc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toMonthlyResponse(analytics.MonthlyStats(txs)))
}

type budgetRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

func (h *Handler) budget(w http.ResponseWriter, r *http.Request) {
	limit, err := h.svc.Budget(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, limitResponse{Limit: money(limit)})
}

func (h *Handler) setBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetBudget(r.Context(), req.Limit); err != nil {
		if errors.Is(err, settings.ErrInvalidLimit) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to save budget", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rollover(w http.ResponseWriter, r *http.Request) {
	offer, err := h.svc.PendingRollover(r.Context())
	if err != nil {
		slog.Error("failed to check rollover", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if offer == nil {
		writeJSON(w, http.StatusOK, rolloverResponse{})
		return
	}

	writeJSON(w, http.StatusOK, rolloverResponse{
		Pending: true,
		Month:   offer.Month,
		Amount:  money(offer.Amount),
	})
}

func (h *Handler) acceptRollover(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.AcceptRollover(r.Context())
	if err != nil {
		if errors.Is(err, analytics.ErrNoRollover) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		slog.Error("failed to accept rollover", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, rolloverResponse{
		Pending: false,
		Month:   tx.Date.Format(settings.MonthLayout),
		Amount:  money(tx.Amount),
	})
}

func (h *Handler) declineRollover(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeclineRollover(r.Context()); err != nil {
		if errors.Is(err, analytics.ErrNoRollover) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		slog.Error("failed to decline rollover", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) goal(w http.ResponseWriter, r *http.Request) {
	target, err := decimal.NewFromString(r.URL.Query().Get("target"))
	if err != nil {
		http.Error(w, "target must be a number", http.StatusBadRequest)
		return
	}

	txs, err := h.txSvc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	p, err := goal.Project(txs, target, h.now())
	if err != nil {
		switch {
		case errors.Is(err, goal.ErrInvalidTarget):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, goal.ErrUnavailable), errors.Is(err, goal.ErrTargetOutOfRange):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, toGoalResponse(target, p))
}
