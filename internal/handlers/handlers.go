// Package handlers implements the HTTP surface of the moderation
// service. Handlers stay thin: decode and shape-check the request, call
// the moderation service, map typed errors onto statuses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"vigil/internal/middleware"
	"vigil/internal/moderation"
	"vigil/internal/notify"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Handler contains all HTTP handler methods and their dependencies.
// Dependencies are injected via the constructor for better testability.
type Handler struct {
	svc      *moderation.Service
	notifier *notify.Client
	validate *validator.Validate
}

// NewHandler creates a new Handler with all required dependencies.
func NewHandler(svc *moderation.Service, notifier *notify.Client) *Handler {
	return &Handler{
		svc:      svc,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a typed moderation error onto an HTTP status and the
// error envelope. Unknown errors become 500 with a generic body.
func writeError(w http.ResponseWriter, err error) {
	var modErr *moderation.Error
	if !errors.As(err, &modErr) {
		log.Error().Err(err).Msg("handlers: internal error")
		writeErrorCode(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch modErr.Kind {
	case moderation.KindInvalidInput:
		status = http.StatusBadRequest
	case moderation.KindForbidden:
		status = http.StatusForbidden
	case moderation.KindNotFound:
		status = http.StatusNotFound
	case moderation.KindConflict:
		status = http.StatusConflict
	}
	writeErrorCode(w, status, modErr.Code, modErr.Message)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeJSON encodes and writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("handlers: failed to encode response")
	}
}

// decodeJSON decodes the request body and applies the struct's
// validation tags. A false return means an error response was written.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"field "+fe.Field()+" failed on the "+fe.Tag()+" constraint")
			return false
		}
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
		return false
	}
	return true
}

// requireIdentity returns the gateway identity or writes a 401.
func requireIdentity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "authentication required")
		return middleware.Identity{}, false
	}
	return id, true
}

// requireModerator returns the identity of a caller holding the admin
// or moderator role, or writes the appropriate error.
func requireModerator(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return middleware.Identity{}, false
	}
	if !id.IsModerator() {
		writeError(w, moderation.ErrInsufficientPermissions)
		return middleware.Identity{}, false
	}
	return id, true
}

// parsePagination reads limit/offset query parameters, clamping the
// limit to keep list responses bounded.
func parsePagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// HandleHealthz reports liveness.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
