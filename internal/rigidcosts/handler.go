package rigidcosts

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Handler exposes rigid cost endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cost, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cost)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := shared.PageFromRequest(r)
	q := r.URL.Query()
	projectID, _ := strconv.ParseInt(q.Get("project_id"), 10, 64)
	f := ListFilter{
		Category:   q.Get("category"),
		Provider:   q.Get("provider"),
		Recurrence: Recurrence(q.Get("recurrence")),
		ProjectID:  projectID,
		OnlyActive: q.Get("active") == "true",
	}
	items, total, err := h.service.List(r.Context(), f, p)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.NewPaginated(items, total, p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	cost, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cost)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req UpdateCostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cost, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cost)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseWindowParams(r *http.Request) (from, to time.Time, err error) {
	from, err = time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date")
	}
	to, err = time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date")
	}
	return from, to, nil
}

func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindowParams(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from and to must be YYYY-MM-DD dates")
		return
	}
	summary, err := h.service.Projection(r.Context(), from, to)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) ProjectionXLSX(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindowParams(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from and to must be YYYY-MM-DD dates")
		return
	}
	summary, err := h.service.Projection(r.Context(), from, to)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	data, err := BuildProjectionXLSX(summary)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	name := fmt.Sprintf("cost-projection-%s-%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

func (h *Handler) Renewals(w http.ResponseWriter, r *http.Request) {
	days := httpx.QueryInt(r, "days", 30)
	renewals, err := h.service.UpcomingRenewals(r.Context(), days)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if renewals == nil {
		renewals = []Renewal{}
	}
	httpx.JSON(w, http.StatusOK, renewals)
}

// MountRoutes registers rigid cost routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/rigid-costs", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/projection", h.Projection)
		r.Get("/projection/export", h.ProjectionXLSX)
		r.Get("/renewals", h.Renewals)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Deactivate)
	})
}
