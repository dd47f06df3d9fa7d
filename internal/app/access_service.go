package app

import (
	"context"
	"time"

	"github.com/sndrush/booking-api/internal/clock"
	"github.com/sndrush/booking-api/internal/domain"
	"github.com/sndrush/booking-api/internal/token"
)

type AccessRepository interface {
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	UpdatePublicToken(ctx context.Context, id, hash string, expiresAt time.Time) error
}

// AccessService is the token gate for unauthenticated reservation actions.
// The stored hash is the sole authorization primitive: a verified token
// grants any action on that one reservation, nothing else.
type AccessService struct {
	repo        AccessRepository
	clock       clock.Clock
	tokenTTL    time.Duration
	regenWindow time.Duration
}

const defaultRegenWindow = 24 * time.Hour

func NewAccessService(repo AccessRepository, clk clock.Clock, opts ...AccessServiceOption) *AccessService {
	svc := &AccessService{
		repo:        repo,
		clock:       clk,
		tokenTTL:    defaultTokenTTL,
		regenWindow: defaultRegenWindow,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type AccessServiceOption func(*AccessService)

// WithAccessTokenTTL overrides the lifetime of newly issued tokens.
func WithAccessTokenTTL(d time.Duration) AccessServiceOption {
	return func(s *AccessService) {
		if d > 0 {
			s.tokenTTL = d
		}
	}
}

// WithRegenWindow overrides how close to expiry a token gets replaced.
func WithRegenWindow(d time.Duration) AccessServiceOption {
	return func(s *AccessService) {
		if d > 0 {
			s.regenWindow = d
		}
	}
}

type EnsureTokenResult struct {
	// PlainToken is set only when a new token was issued; earlier links keep
	// working otherwise.
	PlainToken string
	Rotated    bool
	ExpiresAt  time.Time
}

// EnsurePublicToken guarantees the reservation has a token that is not about
// to expire, regenerating and overwriting the stored hash when needed.
// Rotation invalidates previously delivered links; that trade-off is
// accepted so emailed links always carry a usable token.
func (s *AccessService) EnsurePublicToken(ctx context.Context, reservationID string) (EnsureTokenResult, error) {
	res, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return EnsureTokenResult{}, err
	}

	now := s.clock.Now()
	if res.PublicTokenHash != "" && res.PublicTokenExpiresAt != nil &&
		res.PublicTokenExpiresAt.Sub(now) > s.regenWindow {
		return EnsureTokenResult{ExpiresAt: *res.PublicTokenExpiresAt}, nil
	}

	plain, hash, err := token.Generate()
	if err != nil {
		return EnsureTokenResult{}, err
	}
	expiresAt := now.Add(s.tokenTTL)
	if err := s.repo.UpdatePublicToken(ctx, reservationID, hash, expiresAt); err != nil {
		return EnsureTokenResult{}, err
	}
	return EnsureTokenResult{PlainToken: plain, Rotated: true, ExpiresAt: expiresAt}, nil
}

// ResolveByToken loads a reservation when the presented plaintext token
// verifies against the stored hash and has not expired.
func (s *AccessService) ResolveByToken(ctx context.Context, reservationID, plain string) (domain.Reservation, error) {
	res, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return domain.Reservation{}, err
	}

	now := s.clock.Now()
	if res.PublicTokenHash == "" || res.PublicTokenExpiresAt == nil || !res.PublicTokenExpiresAt.After(now) {
		return domain.Reservation{}, domain.ErrInvalidToken
	}
	if !token.Verify(plain, res.PublicTokenHash) {
		return domain.Reservation{}, domain.ErrInvalidToken
	}
	return res, nil
}
