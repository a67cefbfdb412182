package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/auth/middleware"
	"github.com/coursecraft/lms/internal/models"
	"github.com/coursecraft/lms/internal/services"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// response is the envelope every endpoint answers with
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondSuccess sends a successful envelope carrying data
func (h *BaseHandler) RespondSuccess(w http.ResponseWriter, status int, data any) {
	h.RespondJSON(w, status, response{Success: true, Data: data})
}

// RespondMessage sends a successful envelope carrying only a message
func (h *BaseHandler) RespondMessage(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, response{Success: true, Message: message})
}

// RespondError sends a failed envelope
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, response{Success: false, Message: message})
}

// RespondServiceError maps a service error to a status code and sends it.
// Internal errors are logged and answered with fallback instead of the error text.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case apperr.IsValidation(err):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotCourseOwner):
		h.RespondError(w, http.StatusForbidden, err.Error())
	case apperr.IsNotFound(err) || strings.Contains(err.Error(), "not found"):
		h.RespondError(w, http.StatusNotFound, err.Error())
	default:
		h.Logger.Error(fallback, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, fallback)
	}
}

// getIdentity returns the authenticated caller or answers 401
func (h *BaseHandler) getIdentity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok || identity.UserID == "" {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return models.Identity{}, false
	}
	return *identity, true
}
