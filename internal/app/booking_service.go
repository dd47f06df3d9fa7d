package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sndrush/booking-api/internal/clock"
	"github.com/sndrush/booking-api/internal/domain"
	"github.com/sndrush/booking-api/internal/notify"
	"github.com/sndrush/booking-api/internal/planner"
	"github.com/sndrush/booking-api/internal/pricing"
	"github.com/sndrush/booking-api/internal/token"
)

type BookingRepository interface {
	InsertReservation(ctx context.Context, res domain.Reservation) error
}

// BookingService runs the intake flow: plan the equipment, price it, persist
// a reservation snapshotting both, and hand back the public access token.
type BookingService struct {
	repo           BookingRepository
	clock          clock.Clock
	inventory      domain.Inventory
	table          pricing.Table
	notifier       notify.Sender
	logger         *log.Logger
	depositPercent int64
	tokenTTL       time.Duration
}

const (
	defaultDepositPercent = 30
	defaultTokenTTL       = 7 * 24 * time.Hour
)

func NewBookingService(repo BookingRepository, clk clock.Clock, notifier notify.Sender, opts ...BookingServiceOption) *BookingService {
	svc := &BookingService{
		repo:           repo,
		clock:          clk,
		inventory:      domain.DefaultInventory(),
		table:          pricing.DefaultTable(),
		notifier:       notifier,
		logger:         log.Default(),
		depositPercent: defaultDepositPercent,
		tokenTTL:       defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type BookingServiceOption func(*BookingService)

// WithInventory overrides the stock snapshot used for allocation.
func WithInventory(inv domain.Inventory) BookingServiceOption {
	return func(s *BookingService) {
		s.inventory = inv
	}
}

// WithPriceTable overrides the rate card.
func WithPriceTable(table pricing.Table) BookingServiceOption {
	return func(s *BookingService) {
		s.table = table
	}
}

// WithDepositPercent overrides the upfront share of the total. Zero means
// reservations start out confirmed with no payment step.
func WithDepositPercent(pct int) BookingServiceOption {
	return func(s *BookingService) {
		if pct >= 0 && pct <= 100 {
			s.depositPercent = int64(pct)
		}
	}
}

// WithTokenTTL overrides the public token lifetime.
func WithTokenTTL(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.tokenTTL = d
		}
	}
}

// WithBookingLogger overrides the default process logger.
func WithBookingLogger(logger *log.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type CreateBookingInput struct {
	Email            string
	Address          string
	Requirements     domain.EventRequirements
	EventEnd         time.Time
	DurationDays     int
	WithInstallation bool
}

type CreateBookingResult struct {
	Reservation domain.Reservation
	Quote       domain.QuoteResult
	// PublicToken is the only time the plaintext token is available.
	PublicToken string
}

func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (CreateBookingResult, error) {
	if in.Email == "" {
		return CreateBookingResult{}, domain.ErrEmailRequired
	}
	if in.Requirements.EventStart.IsZero() {
		return CreateBookingResult{}, domain.ErrStartDateRequired
	}

	now := s.clock.Now()
	days := in.DurationDays
	if days <= 0 {
		days = 1
	}
	eventEnd := in.EventEnd
	if eventEnd.IsZero() {
		eventEnd = in.Requirements.EventStart.Add(time.Duration(days) * 24 * time.Hour)
	}

	comp := planner.Plan(in.Requirements, s.inventory)
	zone := domain.ZoneForPostalCode(in.Requirements.PostalCode)
	quote := pricing.Quote(s.table, domain.PricingContextFor(
		comp, zone, in.WithInstallation, days, in.Requirements.EventStart,
	), now)

	deposit := quote.Total.
		Mul(decimal.NewFromInt(s.depositPercent)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	balance := quote.Total.Sub(deposit)

	status := domain.StatusAwaitingPayment
	if deposit.IsZero() {
		status = domain.StatusConfirmed
	}

	plain, hash, err := token.Generate()
	if err != nil {
		return CreateBookingResult{}, err
	}
	tokenExpiry := now.Add(s.tokenTTL)

	res := domain.Reservation{
		ID:                   uuid.NewString(),
		CustomerEmail:        in.Email,
		Status:               status,
		EventStart:           in.Requirements.EventStart,
		EventEnd:             eventEnd,
		PostalCode:           in.Requirements.PostalCode,
		Address:              in.Address,
		Zone:                 zone,
		PriceTotal:           quote.Total,
		DepositAmount:        deposit,
		BalanceAmount:        balance,
		PublicTokenHash:      hash,
		PublicTokenExpiresAt: &tokenExpiry,
		Composition:          comp,
		QuoteLines:           quote.Lines,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.InsertReservation(ctx, res); err != nil {
		return CreateBookingResult{}, err
	}

	if err := s.notifier.Send(ctx, notify.Intent{
		Kind:          notify.KindBookingCreated,
		ReservationID: res.ID,
		Recipient:     res.CustomerEmail,
	}); err != nil {
		s.logger.Printf("WARN: notify booking_created failed reservation=%s: %v", res.ID, err)
	}

	return CreateBookingResult{
		Reservation: res,
		Quote:       quote,
		PublicToken: plain,
	}, nil
}
