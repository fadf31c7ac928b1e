package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/validation"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Reasons []string `json:"reasons,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps a service error to its HTTP status and the message safe to
// show the client.
func statusFor(err error) (int, errorResponse) {
	var tooLarge *http.MaxBytesError
	var invalid *validation.ValidationError

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"}
	case errors.As(err, &invalid):
		return http.StatusBadRequest, errorResponse{Error: common.ErrValidation.Error(), Reasons: invalid.Reasons}
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, common.ErrPaymentNotFound):
		return http.StatusBadRequest, errorResponse{Error: common.ErrPaymentNotFound.Error()}
	case errors.Is(err, common.ErrPaymentMismatch):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, common.ErrPaymentIncomplete):
		return http.StatusPaymentRequired, errorResponse{Error: err.Error()}
	case errors.Is(err, common.ErrAlreadySubmitted):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusForbidden, errorResponse{Error: "entry belongs to another owner"}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, common.ErrPaymentProvider):
		return http.StatusBadGateway, errorResponse{Error: "payment provider unavailable"}
	case errors.Is(err, common.ErrStoreNotConfigured):
		return http.StatusServiceUnavailable, errorResponse{Error: common.ErrStoreNotConfigured.Error()}
	case errors.Is(err, common.ErrPaymentsNotConfigured):
		return http.StatusServiceUnavailable, errorResponse{Error: common.ErrPaymentsNotConfigured.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err, "request_id", requestID(r.Context()))
	}
	writeJSON(w, status, body)
}
