package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sndrush/booking-api/internal/app"
	"github.com/sndrush/booking-api/internal/domain"
)

// TokenResolver authenticates customer requests against the reservation's
// management token.
type TokenResolver interface {
	ResolveByToken(ctx context.Context, reservationID, plain string) (domain.Reservation, error)
}

// LifecycleActions are the customer-initiated reservation transitions.
type LifecycleActions interface {
	ConfirmBalance(ctx context.Context, in app.ConfirmBalanceInput) (domain.Reservation, error)
	RequestContract(ctx context.Context, in app.ContractInput) (domain.Reservation, error)
	SignContract(ctx context.Context, in app.ContractInput) (domain.Reservation, error)
	RequestCancellation(ctx context.Context, in app.RequestCancellationInput) (domain.Reservation, error)
	RequestChange(ctx context.Context, in app.RequestChangeInput) (domain.Reservation, error)
	AuthorizeSecurityDeposit(ctx context.Context, in app.SecurityDepositInput) (domain.Reservation, error)
}

// ReservationHandlers serves the token-gated customer endpoints. A valid
// token proves ownership, so the authenticated customer email is forwarded
// as the requester on every action.
type ReservationHandlers struct {
	access    TokenResolver
	lifecycle LifecycleActions
}

func NewReservationHandlers(access TokenResolver, lifecycle LifecycleActions) *ReservationHandlers {
	return &ReservationHandlers{access: access, lifecycle: lifecycle}
}

// publicToken pulls the management token from the X-Public-Token header or
// the token query parameter.
func publicToken(r *http.Request) string {
	if tok := r.Header.Get("X-Public-Token"); tok != "" {
		return tok
	}
	return r.URL.Query().Get("token")
}

func (h *ReservationHandlers) authenticate(w http.ResponseWriter, r *http.Request) (domain.Reservation, bool) {
	tok := publicToken(r)
	if tok == "" {
		writeError(w, http.StatusUnauthorized, codeTokenRequired, "management token required")
		return domain.Reservation{}, false
	}
	res, err := h.access.ResolveByToken(r.Context(), chi.URLParam(r, "id"), tok)
	if err != nil {
		writeDomainError(w, err)
		return domain.Reservation{}, false
	}
	return res, true
}

func (h *ReservationHandlers) Get(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

func (h *ReservationHandlers) RequestContract(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	updated, err := h.lifecycle.RequestContract(r.Context(), app.ContractInput{
		ReservationID:  res.ID,
		RequesterEmail: res.CustomerEmail,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(updated))
}

func (h *ReservationHandlers) SignContract(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	updated, err := h.lifecycle.SignContract(r.Context(), app.ContractInput{
		ReservationID:  res.ID,
		RequesterEmail: res.CustomerEmail,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(updated))
}

type requestCancellationRequest struct {
	Reason string `json:"reason,omitempty"`
	// ExpectedPolicy is the refund policy the caller displayed, if any.
	ExpectedPolicy string `json:"expected_policy,omitempty"`
}

func (h *ReservationHandlers) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req requestCancellationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	updated, err := h.lifecycle.RequestCancellation(r.Context(), app.RequestCancellationInput{
		ReservationID:  res.ID,
		RequesterEmail: res.CustomerEmail,
		Reason:         req.Reason,
		ClientPolicy:   domain.RefundPolicy(req.ExpectedPolicy),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(updated))
}

type requestChangeRequest struct {
	Message    string `json:"message"`
	Address    string `json:"address,omitempty"`
	EventStart string `json:"event_start,omitempty"`
	EventEnd   string `json:"event_end,omitempty"`
}

func (h *ReservationHandlers) RequestChange(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req requestChangeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	changes := domain.ChangeFields{Address: req.Address}
	if req.EventStart != "" {
		parsed, err := time.Parse(time.RFC3339, req.EventStart)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidEventDate, "invalid event_start format")
			return
		}
		changes.EventStart = &parsed
	}
	if req.EventEnd != "" {
		parsed, err := time.Parse(time.RFC3339, req.EventEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidEventDate, "invalid event_end format")
			return
		}
		changes.EventEnd = &parsed
	}

	updated, err := h.lifecycle.RequestChange(r.Context(), app.RequestChangeInput{
		ReservationID:  res.ID,
		RequesterEmail: res.CustomerEmail,
		Message:        req.Message,
		Changes:        changes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(updated))
}

type balancePaymentRequest struct {
	SessionID string `json:"session_id"`
}

// PayBalance records a synchronous balance payment made from the management
// page. The same confirmation is idempotent with the webhook path.
func (h *ReservationHandlers) PayBalance(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req balancePaymentRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	updated, err := h.lifecycle.ConfirmBalance(r.Context(), app.ConfirmBalanceInput{
		ReservationID: res.ID,
		SessionID:     req.SessionID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(updated))
}

type securityDepositRequest struct {
	SessionID string `json:"session_id"`
}

func (h *ReservationHandlers) AuthorizeSecurityDeposit(w http.ResponseWriter, r *http.Request) {
	res, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req securityDepositRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	updated, err := h.lifecycle.AuthorizeSecurityDeposit(r.Context(), app.SecurityDepositInput{
		ReservationID: res.ID,
		SessionRef:    req.SessionID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(updated))
}
