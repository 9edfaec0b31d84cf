package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/pkg/logger"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

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
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a bare status and message in the error envelope.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	errType := internal.ErrorTypeInternal
	switch {
	case status == http.StatusUnauthorized:
		errType = internal.ErrorTypeUnauthorized
	case status == http.StatusForbidden:
		errType = internal.ErrorTypeForbidden
	case status == http.StatusNotFound:
		errType = internal.ErrorTypeNotFound
	case status >= 400 && status < 500:
		errType = internal.ErrorTypeValidation
	}
	h.WriteAppError(w, &internal.AppError{Type: errType, Code: internal.ErrorCode(strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))), Message: message, StatusCode: status})
}

// WriteAppError renders an AppError in the {"error": {...}} envelope.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	switch {
	case status >= 500:
		h.Logger.Error("http error", "status", status, "code", appErr.Code, "message", appErr.Message, "error", appErr.Cause)
	case status >= 400:
		h.Logger.Warn("http error", "status", status, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps any service error onto the HTTP taxonomy.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	h.WriteAppError(w, internal.AsAppError(err))
}

// DecodeJSON reads a JSON body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.ErrInvalidRequestBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return internal.ErrInvalidRequestBody.WithMessage("request body is empty")
		}
		return internal.ErrInvalidRequestBody.WithCause(err)
	}
	return nil
}

// PathID parses a positive integer URL parameter.
func (h *BaseHandler) PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, name+" must be a positive integer", internal.ErrCodeInvalidInteger)
	}
	return id, nil
}

// Session returns the authenticated user and their access scope.
func (h *BaseHandler) Session(r *http.Request) (*internal.SessionUser, internal.Scope, error) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		return nil, internal.Scope{}, internal.ErrMissingSession
	}
	return user, internal.ScopeFromContext(r.Context()), nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}

	return strings.TrimSpace(authHeader[7:])
}
