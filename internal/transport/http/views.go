package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sndrush/booking-api/internal/domain"
)

type reservationResponse struct {
	ID            string `json:"id"`
	CustomerEmail string `json:"customer_email"`
	Status        string `json:"status"`

	EventStart time.Time `json:"event_start"`
	EventEnd   time.Time `json:"event_end"`
	PostalCode string    `json:"postal_code,omitempty"`
	Address    string    `json:"address,omitempty"`
	Zone       string    `json:"zone"`

	PriceTotal      decimal.Decimal `json:"price_total"`
	DepositAmount   decimal.Decimal `json:"deposit_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`

	DepositPaidAt    *time.Time `json:"deposit_paid_at,omitempty"`
	BalancePaidAt    *time.Time `json:"balance_paid_at,omitempty"`
	ContractSignedAt *time.Time `json:"contract_signed_at,omitempty"`

	Composition domain.Composition `json:"composition"`
	QuoteLines  []domain.LineItem  `json:"quote_lines"`

	CancelRequest *domain.CancelRequest `json:"cancel_request,omitempty"`
	ChangeRequest *domain.ChangeRequest `json:"change_request,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toReservationResponse builds the customer-facing view. Payment session ids
// and the token hash never leave the service.
func toReservationResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:               res.ID,
		CustomerEmail:    res.CustomerEmail,
		Status:           string(res.Status),
		EventStart:       res.EventStart,
		EventEnd:         res.EventEnd,
		PostalCode:       res.PostalCode,
		Address:          res.Address,
		Zone:             string(res.Zone),
		PriceTotal:       res.PriceTotal,
		DepositAmount:    res.DepositAmount,
		BalanceAmount:    res.BalanceAmount,
		SecurityDeposit:  res.SecurityDeposit,
		DepositPaidAt:    res.DepositPaidAt,
		BalancePaidAt:    res.BalancePaidAt,
		ContractSignedAt: res.ContractSignedAt,
		Composition:      res.Composition,
		QuoteLines:       res.QuoteLines,
		CancelRequest:    res.CancelRequest,
		ChangeRequest:    res.ChangeRequest,
		CreatedAt:        res.CreatedAt,
		UpdatedAt:        res.UpdatedAt,
	}
}
