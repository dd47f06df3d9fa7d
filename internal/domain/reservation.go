package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the reservation lifecycle state.
type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusConfirmed       Status = "confirmed"
	StatusContractPending Status = "contract_pending"
	StatusContractSigned  Status = "contract_signed"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusCancelRequested Status = "cancel_requested"
	StatusChangeRequested Status = "change_requested"
	StatusCancelled       Status = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CancelRequest is the in-flight cancellation workflow. PreviousStatus is
// restored when an administrator rejects the request.
type CancelRequest struct {
	RequestedAt    time.Time    `json:"requested_at"`
	Reason         string       `json:"reason,omitempty"`
	Policy         RefundPolicy `json:"policy"`
	PreviousStatus Status       `json:"previous_status"`
}

// ChangeFields are the reservation fields a customer may ask to change.
type ChangeFields struct {
	Address    string     `json:"address,omitempty"`
	EventStart *time.Time `json:"event_start,omitempty"`
	EventEnd   *time.Time `json:"event_end,omitempty"`
}

// ChangeRequest is the in-flight change workflow.
type ChangeRequest struct {
	RequestedAt    time.Time    `json:"requested_at"`
	Message        string       `json:"message"`
	Changes        ChangeFields `json:"changes"`
	PreviousStatus Status       `json:"previous_status"`
}

// Reservation is the mutable aggregate tracked through the payment and
// contract lifecycle. At most one of CancelRequest/ChangeRequest is set at a
// time; both snapshot the status they interrupted. Mutated only through the
// lifecycle service; never hard-deleted outside the administrative sweep of
// abandoned unpaid rows.
type Reservation struct {
	ID            string
	CustomerEmail string
	Status        Status

	EventStart time.Time
	EventEnd   time.Time
	PostalCode string
	Address    string
	Zone       Zone

	PriceTotal      decimal.Decimal
	DepositAmount   decimal.Decimal
	BalanceAmount   decimal.Decimal
	SecurityDeposit decimal.Decimal

	DepositPaidAt            *time.Time
	BalancePaidAt            *time.Time
	DepositSessionID         string
	BalanceSessionID         string
	SecurityDepositSessionID string

	ContractSignedAt *time.Time

	PublicTokenHash      string
	PublicTokenExpiresAt *time.Time

	// Audit snapshots taken at booking time, not recomputed later.
	Composition Composition
	QuoteLines  []LineItem

	CancelRequest *CancelRequest
	ChangeRequest *ChangeRequest

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner reports whether email identifies the reservation's customer.
func (r Reservation) Owner(email string) bool {
	return email != "" && email == r.CustomerEmail
}
