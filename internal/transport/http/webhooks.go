package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sndrush/booking-api/internal/app"
	"github.com/sndrush/booking-api/internal/domain"
)

const (
	webhookTypeDeposit = "deposit"
	webhookTypeBalance = "balance"
)

// PaymentConfirmer applies asynchronous payment confirmations.
type PaymentConfirmer interface {
	ConfirmDeposit(ctx context.Context, in app.ConfirmDepositInput) (domain.Reservation, error)
	ConfirmBalance(ctx context.Context, in app.ConfirmBalanceInput) (domain.Reservation, error)
}

type paymentWebhookRequest struct {
	Type          string `json:"type"`
	SessionID     string `json:"session_id"`
	ReservationID string `json:"reservation_id,omitempty"`
}

// HandlePaymentWebhook processes payment provider callbacks. Confirmations
// are idempotent, so a re-delivered event still answers 200.
func HandlePaymentWebhook(svc PaymentConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentWebhookRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		var (
			res domain.Reservation
			err error
		)
		switch req.Type {
		case webhookTypeDeposit:
			res, err = svc.ConfirmDeposit(r.Context(), app.ConfirmDepositInput{
				ReservationID: req.ReservationID,
				SessionID:     req.SessionID,
			})
		case webhookTypeBalance:
			res, err = svc.ConfirmBalance(r.Context(), app.ConfirmBalanceInput{
				ReservationID: req.ReservationID,
				SessionID:     req.SessionID,
			})
		default:
			writeError(w, http.StatusBadRequest, codeUnknownWebhookType, "unknown webhook type")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(paymentWebhookResponse{
			ReservationID: res.ID,
			Status:        string(res.Status),
		})
	}
}

type paymentWebhookResponse struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
}
