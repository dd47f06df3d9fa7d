// Package sweep expires reservations that were created but never paid, so
// abandoned checkouts do not linger in awaiting_payment forever.
package sweep

import (
	"context"
	"log"
	"time"

	"github.com/sndrush/booking-api/internal/clock"
)

const (
	defaultInterval = 10 * time.Minute
	defaultMaxAge   = 48 * time.Hour
	// batchLimit bounds the rows locked per pass.
	batchLimit = 25
)

// Repository is the storage operation the sweeper needs.
type Repository interface {
	ExpireStaleAwaitingPayment(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

// Sweeper periodically cancels stale unpaid reservations.
type Sweeper struct {
	repo     Repository
	clock    clock.Clock
	logger   *log.Logger
	interval time.Duration
	maxAge   time.Duration
}

type Option func(*Sweeper)

// WithInterval overrides how often the sweeper runs.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMaxAge overrides how long an unpaid reservation may sit before it is
// cancelled.
func WithMaxAge(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(repo Repository, clk clock.Clock, opts ...Option) *Sweeper {
	s := &Sweeper{
		repo:     repo,
		clock:    clk,
		logger:   log.Default(),
		interval: defaultInterval,
		maxAge:   defaultMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is cancelled, sweeping once immediately and then on
// every interval tick.
func (s *Sweeper) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single pass and returns how many reservations it expired.
func (s *Sweeper) Sweep(ctx context.Context) int {
	cutoff := s.clock.Now().Add(-s.maxAge)
	n, err := s.repo.ExpireStaleAwaitingPayment(ctx, cutoff, batchLimit)
	if err != nil {
		s.logger.Printf("sweep: expire stale reservations failed: %v", err)
		return 0
	}
	if n > 0 {
		s.logger.Printf("sweep: cancelled %d stale unpaid reservations", n)
	}
	return n
}
