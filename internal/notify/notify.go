// Package notify carries "please notify the customer" intents to an external
// sender. A failed send is logged and never rolls back the state transition
// that produced it.
package notify

import (
	"context"
	"log"
)

type Kind string

const (
	KindBookingCreated    Kind = "booking_created"
	KindDepositReceived   Kind = "deposit_received"
	KindBalanceReceived   Kind = "balance_received"
	KindContractRequested Kind = "contract_requested"
	KindCancelApproved    Kind = "cancel_approved"
	KindCancelRejected    Kind = "cancel_rejected"
	KindChangeApproved    Kind = "change_approved"
	KindChangeRejected    Kind = "change_rejected"
)

// Intent is one notification request.
type Intent struct {
	Kind          Kind
	ReservationID string
	Recipient     string
	Fields        map[string]string
}

// Sender delivers intents to the external email/message channel.
type Sender interface {
	Send(ctx context.Context, intent Intent) error
}

// LogSender records intents on the process log. It stands in for the real
// delivery channel in development and tests.
type LogSender struct {
	Logger *log.Logger
}

func (s LogSender) Send(_ context.Context, intent Intent) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("notify kind=%s reservation=%s recipient=%s", intent.Kind, intent.ReservationID, intent.Recipient)
	return nil
}
