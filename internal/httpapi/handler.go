// Package httpapi serves the ledger over a JSON HTTP API.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/comite-agua/ledger/internal/auth"
	"github.com/comite-agua/ledger/internal/service"
	"github.com/comite-agua/ledger/internal/storage"
)

// Services groups the services exposed over HTTP.
type Services struct {
	Auth     *service.AuthService
	Config   *service.ConfigService
	Concepts *service.ConceptService
	Users    *service.UserService
	Ledger   *service.LedgerService
}

// Handler holds the HTTP handlers.
type Handler struct {
	svc      Services
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler creates a Handler over svc.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Handler) log(r *http.Request, op string) *slog.Logger {
	return h.logger.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		log.Warn("Failed to decode request", "error", err)
		respond(w, r, http.StatusBadRequest, Error("invalid request body"))
		return false
	}

	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Warn("Validation failed", "error", err)
			respond(w, r, http.StatusUnprocessableEntity, ValidationError(verrs))
			return false
		}
		log.Error("Validator failed", "error", err)
		respond(w, r, http.StatusInternalServerError, Error("internal error"))
		return false
	}
	return true
}

// fail maps a service error onto its HTTP status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Warn("Request rejected", "status", status, "error", err)
	}
	respond(w, r, status, Error(msg))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, storage.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func respond(w http.ResponseWriter, r *http.Request, status int, body Response) {
	render.Status(r, status)
	render.JSON(w, r, body)
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// yearQuery parses ?year=, defaulting to the current year.
func (h *Handler) yearQuery(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return year, true
}
