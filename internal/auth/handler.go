package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
)

// Handler exposes login and identity endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	secret   []byte
	tokenTTL time.Duration
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		secret:   secret,
		tokenTTL: tokenTTL,
		validate: validator.New(),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
}

// MountRoutes registers auth routes. Login is rate limited per IP to slow
// down credential stuffing.
func (h *Handler) MountRoutes(r chi.Router, mw *Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/login", h.Login)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireUser)
		r.Get("/me", h.Me)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		return
	}

	now := time.Now()
	token, expiresAt, err := IssueToken(h.secret, user.ID, user.Email, user.Admin, now, h.tokenTTL)
	if err != nil {
		h.logger.Error("issue token failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if err := h.service.RecordLogin(r.Context(), user.ID, now); err != nil {
		h.logger.Warn("record login failed", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Email:     user.Email,
		Admin:     user.Admin,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	httpx.JSON(w, http.StatusOK, id)
}
