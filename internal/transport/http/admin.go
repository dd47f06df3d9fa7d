package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sndrush/booking-api/internal/app"
	"github.com/sndrush/booking-api/internal/domain"
)

// RequireAdminKey guards a route group with a shared secret in the
// X-Admin-Key header. An empty configured key disables the group entirely.
func RequireAdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				writeError(w, http.StatusForbidden, codeForbidden, "admin access disabled")
				return
			}
			provided := r.Header.Get("X-Admin-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ReservationReader loads a reservation without token gating.
type ReservationReader interface {
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
}

// RequestResolver applies administrator decisions on pending workflows.
type RequestResolver interface {
	ResolveCancellation(ctx context.Context, in app.ResolveInput) (domain.Reservation, error)
	ResolveChange(ctx context.Context, in app.ResolveInput) (domain.Reservation, error)
}

// TokenIssuer regenerates expired management tokens.
type TokenIssuer interface {
	EnsurePublicToken(ctx context.Context, reservationID string) (app.EnsureTokenResult, error)
}

// RentalMarker records the physical equipment handover and return.
type RentalMarker interface {
	BeginRental(ctx context.Context, reservationID string) (domain.Reservation, error)
	CompleteRental(ctx context.Context, reservationID string) (domain.Reservation, error)
}

// AdminHandlers serves the back-office endpoints behind RequireAdminKey.
type AdminHandlers struct {
	reader   ReservationReader
	resolver RequestResolver
	tokens   TokenIssuer
	rentals  RentalMarker
}

func NewAdminHandlers(reader ReservationReader, resolver RequestResolver, tokens TokenIssuer, rentals RentalMarker) *AdminHandlers {
	return &AdminHandlers{reader: reader, resolver: resolver, tokens: tokens, rentals: rentals}
}

func (h *AdminHandlers) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.reader.GetReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

type resolveRequest struct {
	Approve bool `json:"approve"`
}

func (h *AdminHandlers) ResolveCancellation(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.resolver.ResolveCancellation)
}

func (h *AdminHandlers) ResolveChange(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.resolver.ResolveChange)
}

func (h *AdminHandlers) resolve(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, in app.ResolveInput) (domain.Reservation, error),
) {
	var req resolveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	res, err := fn(r.Context(), app.ResolveInput{
		ReservationID: chi.URLParam(r, "id"),
		Approve:       req.Approve,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

func (h *AdminHandlers) BeginRental(w http.ResponseWriter, r *http.Request) {
	res, err := h.rentals.BeginRental(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

func (h *AdminHandlers) CompleteRental(w http.ResponseWriter, r *http.Request) {
	res, err := h.rentals.CompleteRental(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReservationResponse(res))
}

type issueTokenResponse struct {
	PublicToken string    `json:"public_token"`
	Rotated     bool      `json:"rotated"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IssueToken hands a customer a fresh management link when theirs expired.
func (h *AdminHandlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	result, err := h.tokens.EnsurePublicToken(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(issueTokenResponse{
		PublicToken: result.PlainToken,
		Rotated:     result.Rotated,
		ExpiresAt:   result.ExpiresAt,
	})
}
