package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/pkg/logger"
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
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a plain error response for failures raised in the transport itself.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	h.WriteJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
		},
	})
}

// WriteAppError renders an AppError with its own status code.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *errors.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "code", appErr.Code, "error", appErr)
	}
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps an error coming out of a service to an HTTP response. Anything that
// is not an AppError is reported as a 500 without leaking its message.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := errors.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("service error", "code", appErr.Code, "error", appErr.Error())
		} else {
			h.Logger.Debug("request rejected", "code", appErr.Code, "detail", appErr.GetDetailedMessage())
		}
		h.WriteAppError(w, appErr)
		return
	}
	h.Logger.Error("unexpected service error", "error", err)
	h.WriteAppError(w, errors.NewInternalError("internal server error", err))
}

// DecodeJSON reads the request body into dst, rejecting unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *errors.AppError {
	if r.Body == nil {
		return errors.NewValidationError("request body is required", errors.ErrCodeValidationFailed)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid request body: %v", err), errors.ErrCodeValidationFailed)
	}
	return nil
}

// PathID parses the {id} URL parameter.
func (h *BaseHandler) PathID(r *http.Request) (int64, *errors.AppError) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationFieldError("id", fmt.Sprintf("invalid id %q", raw), errors.ErrCodeInvalidID)
	}
	return id, nil
}

// QueryInt64 parses a required positive integer query parameter.
func (h *BaseHandler) QueryInt64(r *http.Request, name string) (int64, *errors.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, errors.NewValidationFieldError(name, fmt.Sprintf("%s is required", name), errors.ErrCodeValidationFailed)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, errors.NewValidationFieldError(name, fmt.Sprintf("invalid %s %q", name, raw), errors.ErrCodeInvalidID)
	}
	return v, nil
}

// OptionalQueryInt64 is QueryInt64 for parameters that may be absent.
func (h *BaseHandler) OptionalQueryInt64(r *http.Request, name string) (*int64, *errors.AppError) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return nil, nil
	}
	v, appErr := h.QueryInt64(r, name)
	if appErr != nil {
		return nil, appErr
	}
	return &v, nil
}

// QueryUserID reads the user_id query parameter, falling back to the authenticated user when
// the parameter is absent.
func (h *BaseHandler) QueryUserID(r *http.Request) (int64, *errors.AppError) {
	if strings.TrimSpace(r.URL.Query().Get("user_id")) == "" {
		if id := errors.UserIDFromContext(r.Context()); id > 0 {
			return id, nil
		}
	}
	return h.QueryInt64(r, "user_id")
}

// QueryDate parses a required YYYY-MM-DD query parameter.
func (h *BaseHandler) QueryDate(r *http.Request, name string) (ledger.Date, *errors.AppError) {
	raw := r.URL.Query().Get(name)
	if strings.TrimSpace(raw) == "" {
		return ledger.Date{}, errors.NewValidationFieldError(name, fmt.Sprintf("%s is required", name), errors.ErrCodeInvalidDate)
	}
	t, err := ledger.ParseDate(raw)
	if err != nil {
		return ledger.Date{}, errors.NewValidationFieldError(name, err.Error(), errors.ErrCodeInvalidDate)
	}
	return ledger.NewDate(t), nil
}

// OptionalQueryType parses an optional INCOME/EXPENSE query parameter.
func (h *BaseHandler) OptionalQueryType(r *http.Request, name string) (*ledger.EntryType, *errors.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := ledger.ParseEntryType(raw)
	if err != nil {
		return nil, errors.NewValidationFieldError(name, err.Error(), errors.ErrCodeInvalidType)
	}
	return &t, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}
