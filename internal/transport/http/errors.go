package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sndrush/booking-api/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeEmailRequired       = "email_required"
	codeStartDateRequired   = "start_date_required"
	codeSessionRequired     = "session_required"
	codeMessageRequired     = "message_required"
	codeInvalidEventDate    = "invalid_event_date"
	codeInvalidToken        = "invalid_token"
	codeTokenRequired       = "token_required"
	codeUnauthorized        = "unauthorized"
	codeForbidden           = "forbidden"
	codeUnknownWebhookType  = "unknown_webhook_type"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps service errors onto the wire. Guard violations keep
// their own codes so frontends can message each rejection precisely.
func writeDomainError(w http.ResponseWriter, err error) {
	var gv domain.GuardViolation
	switch {
	case errors.As(err, &gv):
		status := http.StatusConflict
		if gv == domain.ErrOwnershipMismatch {
			status = http.StatusForbidden
		}
		writeError(w, status, gv.Code, gv.Detail)
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusNotFound, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, codeEmailRequired, err.Error())
	case errors.Is(err, domain.ErrStartDateRequired):
		writeError(w, http.StatusBadRequest, codeStartDateRequired, err.Error())
	case errors.Is(err, domain.ErrSessionRequired):
		writeError(w, http.StatusBadRequest, codeSessionRequired, err.Error())
	case errors.Is(err, domain.ErrMessageRequired):
		writeError(w, http.StatusBadRequest, codeMessageRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, codeInvalidToken, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeUpstreamUnavailable, "upstream unavailable")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
