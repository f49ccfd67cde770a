package jobs

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
)

// Handler exposes queue health and on-demand triggers for the scheduled jobs.
type Handler struct {
	inspector *asynq.Inspector
	client    *Client
	logger    *slog.Logger
}

// NewHandler constructs an HTTP handler for jobs endpoints.
func NewHandler(inspector *asynq.Inspector, client *Client, logger *slog.Logger) *Handler {
	return &Handler{inspector: inspector, client: client, logger: logger}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Post("/renewal-scan", h.triggerRenewalScan)
		r.Post("/report-warmup", h.triggerReportWarmup)
	})
}

type queueHealth struct {
	Queue   string `json:"queue"`
	Pending int    `json:"pending"`
	Active  int    `json:"active"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.inspector == nil {
		httpx.JSON(w, http.StatusOK, queueHealth{Queue: QueueDefault})
		return
	}
	info, err := h.inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		h.logger.Warn("jobs health", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	out := queueHealth{Queue: QueueDefault}
	if info != nil {
		out.Queue = info.Queue
		out.Pending = info.Pending
		out.Active = info.Active
	}
	httpx.JSON(w, http.StatusOK, out)
}

type enqueueResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}

func (h *Handler) triggerRenewalScan(w http.ResponseWriter, r *http.Request) {
	days := httpx.QueryInt(r, "days", 30)
	if days <= 0 || days > 365 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "days must be between 1 and 365, got "+strconv.Itoa(days))
		return
	}
	info, err := h.client.EnqueueRenewalScan(r.Context(), RenewalScanPayload{DaysAhead: days})
	if err != nil {
		h.logger.Error("enqueue renewal scan", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, enqueueResponse{TaskID: info.ID, Queue: info.Queue})
}

func (h *Handler) triggerReportWarmup(w http.ResponseWriter, r *http.Request) {
	info, err := h.client.EnqueueReportWarmup(r.Context())
	if err != nil {
		h.logger.Error("enqueue report warmup", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, enqueueResponse{TaskID: info.ID, Queue: info.Queue})
}
