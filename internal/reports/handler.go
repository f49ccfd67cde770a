package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
)

// Handler exposes the dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func (h *Handler) Costs(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.CostReport(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) Productivity(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Productivity(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) TopClients(w http.ResponseWriter, r *http.Request) {
	limit := httpx.QueryInt(r, "limit", 10)
	report, err := h.service.TopClients(r.Context(), limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.FinancialSummary(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Get("/costs", h.Costs)
		r.Get("/productivity", h.Productivity)
		r.Get("/top-clients", h.TopClients)
		r.Get("/financial-summary", h.FinancialSummary)
	})
}
