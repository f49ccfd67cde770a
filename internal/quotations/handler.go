package quotations

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gestor-pm/gestor/internal/auth"
	"github.com/gestor-pm/gestor/internal/clients"
	"github.com/gestor-pm/gestor/internal/platform/httpx"
	"github.com/gestor-pm/gestor/internal/shared"
)

// Handler exposes quotation endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	clientRepo clients.Repository
	validate   *validator.Validate
}

// NewHandler constructs a Handler. The client repository is only used to
// resolve names for the PDF export.
func NewHandler(logger *slog.Logger, service *Service, clientRepo clients.Repository) *Handler {
	return &Handler{logger: logger, service: service, clientRepo: clientRepo, validate: validator.New()}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	quotation, err := h.service.Create(r.Context(), identity.UserID, req)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quotation)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := shared.PageFromRequest(r)
	q := r.URL.Query()
	clientID, _ := strconv.ParseInt(q.Get("client_id"), 10, 64)
	projectID, _ := strconv.ParseInt(q.Get("project_id"), 10, 64)
	f := ListFilter{
		ClientID:  clientID,
		ProjectID: projectID,
		Status:    Status(q.Get("status")),
		Search:    q.Get("search"),
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
	quotation, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req UpdateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	quotation, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) lifecycle(action func(ctx context.Context, id, actorID int64) (*Quotation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.IDParam(r, "id")
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
			return
		}
		identity, _ := auth.IdentityFromContext(r.Context())
		quotation, err := action(r.Context(), id, identity.UserID)
		if err != nil {
			httpx.RespondError(w, h.logger, err)
			return
		}
		httpx.JSON(w, http.StatusOK, quotation)
	}
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var req RejectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	quotation, err := h.service.Reject(r.Context(), id, identity.UserID, req.Reason)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	quotation, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	clientName := ""
	if client, err := h.clientRepo.Get(r.Context(), quotation.ClientID); err == nil {
		clientName = client.Name
	}

	data, err := BuildPDF(quotation, clientName)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	name := quotation.Number
	if name == "" {
		name = fmt.Sprintf("draft-%d", quotation.ID)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".pdf"))
	_, _ = w.Write(data)
}

// MountRoutes registers quotation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/quotations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Get("/{id}/pdf", h.ExportPDF)
		r.Post("/{id}/submit", h.lifecycle(h.service.Submit))
		r.Post("/{id}/approve", h.lifecycle(h.service.Approve))
		r.Post("/{id}/recall", h.lifecycle(h.service.Recall))
		r.Post("/{id}/reject", h.Reject)
	})
}
