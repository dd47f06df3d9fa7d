package app

import (
	"context"
	"testing"
	"time"

	"github.com/sndrush/booking-api/internal/clock"
	"github.com/sndrush/booking-api/internal/domain"
	"github.com/sndrush/booking-api/internal/token"
)

func TestAccessService_EnsurePublicToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

	t.Run("keeps a token that is not expiring soon", func(t *testing.T) {
		expires := now.Add(72 * time.Hour)
		repo := newFakeAccessRepo(domain.Reservation{
			ID:                   "res-1",
			PublicTokenHash:      token.Hash("existing"),
			PublicTokenExpiresAt: &expires,
		})
		svc := NewAccessService(repo, clock.NewFixed(now))

		res, err := svc.EnsurePublicToken(context.Background(), "res-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Rotated || res.PlainToken != "" {
			t.Fatalf("expected no rotation, got %+v", res)
		}
		if repo.updatedHash != "" {
			t.Fatalf("expected stored hash untouched")
		}
	})

	t.Run("rotates a token expiring within the window", func(t *testing.T) {
		expires := now.Add(time.Hour)
		repo := newFakeAccessRepo(domain.Reservation{
			ID:                   "res-2",
			PublicTokenHash:      token.Hash("stale"),
			PublicTokenExpiresAt: &expires,
		})
		svc := NewAccessService(repo, clock.NewFixed(now))

		res, err := svc.EnsurePublicToken(context.Background(), "res-2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !res.Rotated || res.PlainToken == "" {
			t.Fatalf("expected rotation with plaintext, got %+v", res)
		}
		if !token.Verify(res.PlainToken, repo.updatedHash) {
			t.Fatalf("expected new plaintext to match stored hash")
		}
		if !res.ExpiresAt.Equal(now.Add(7 * 24 * time.Hour)) {
			t.Fatalf("unexpected expiry: %v", res.ExpiresAt)
		}
		// the old link is gone for good
		if token.Verify("stale", repo.updatedHash) {
			t.Fatalf("expected old token invalidated")
		}
	})

	t.Run("issues a token when none is stored", func(t *testing.T) {
		repo := newFakeAccessRepo(domain.Reservation{ID: "res-3"})
		svc := NewAccessService(repo, clock.NewFixed(now))

		res, err := svc.EnsurePublicToken(context.Background(), "res-3")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !res.Rotated || repo.updatedHash == "" {
			t.Fatalf("expected a fresh token stored")
		}
	})
}

func TestAccessService_ResolveByToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	expires := now.Add(48 * time.Hour)

	seed := domain.Reservation{
		ID:                   "res-1",
		CustomerEmail:        "owner@example.com",
		Status:               domain.StatusConfirmed,
		PublicTokenHash:      token.Hash("the-token"),
		PublicTokenExpiresAt: &expires,
	}

	t.Run("valid token resolves the reservation", func(t *testing.T) {
		svc := NewAccessService(newFakeAccessRepo(seed), clock.NewFixed(now))

		res, err := svc.ResolveByToken(context.Background(), "res-1", "the-token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.ID != "res-1" {
			t.Fatalf("unexpected reservation: %+v", res)
		}
	})

	t.Run("wrong token is rejected", func(t *testing.T) {
		svc := NewAccessService(newFakeAccessRepo(seed), clock.NewFixed(now))

		_, err := svc.ResolveByToken(context.Background(), "res-1", "other-token")
		if err != domain.ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		svc := NewAccessService(newFakeAccessRepo(seed), clock.NewFixed(now.Add(72*time.Hour)))

		_, err := svc.ResolveByToken(context.Background(), "res-1", "the-token")
		if err != domain.ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("missing reservation", func(t *testing.T) {
		svc := NewAccessService(newFakeAccessRepo(), clock.NewFixed(now))

		_, err := svc.ResolveByToken(context.Background(), "missing", "the-token")
		if err != domain.ErrReservationNotFound {
			t.Fatalf("expected ErrReservationNotFound, got %v", err)
		}
	})
}

type fakeAccessRepo struct {
	reservations map[string]domain.Reservation
	updatedHash  string
}

func newFakeAccessRepo(seed ...domain.Reservation) *fakeAccessRepo {
	repo := &fakeAccessRepo{reservations: make(map[string]domain.Reservation)}
	for _, res := range seed {
		repo.reservations[res.ID] = res
	}
	return repo
}

func (f *fakeAccessRepo) GetReservation(_ context.Context, id string) (domain.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeAccessRepo) UpdatePublicToken(_ context.Context, id, hash string, expiresAt time.Time) error {
	res, ok := f.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	res.PublicTokenHash = hash
	res.PublicTokenExpiresAt = &expiresAt
	f.reservations[id] = res
	f.updatedHash = hash
	return nil
}
