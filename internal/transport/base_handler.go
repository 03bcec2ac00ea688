package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an AppError as the standard error envelope.
func (h *BaseHandler) WriteError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps a service error onto the response. Anything that is
// not an AppError is logged and hidden behind a 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		log := logger.From(r.Context())
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed", "code", appErr.Code, "error", err)
		} else {
			log.Warn("request rejected", "code", appErr.Code, "error", err)
		}
		h.WriteError(w, appErr)
		return
	}

	logger.From(r.Context()).Error("unhandled service error", "error", err)
	h.WriteError(w, internal.NewInternalError("internal server error", err))
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}, allowEmpty bool) *internal.AppError {
	if r.Body == nil || r.ContentLength == 0 {
		if allowEmpty {
			return nil
		}
		return internal.NewValidationError("request body is required", internal.ErrCodeValidationFailed)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed)
	}
	return nil
}

// IDParam parses a positive int64 chi URL parameter.
func (h *BaseHandler) IDParam(r *http.Request, name string) (int64, *internal.AppError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, "invalid "+name, internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// IntQuery reads an optional integer query parameter.
func (h *BaseHandler) IntQuery(r *http.Request, name string, fallback int) (int, *internal.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, internal.NewValidationFieldError(name, name+" must be an integer", internal.ErrCodeValidationFailed)
	}
	return v, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}
