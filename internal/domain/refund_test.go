package domain

import (
	"testing"
	"time"
)

func TestRefundPolicyAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		days int
		want RefundPolicy
	}{
		{"eight days out is full", 8, RefundFull},
		{"seven days out is half", 7, RefundHalf},
		{"three days out is half", 3, RefundHalf},
		{"two days out is none", 2, RefundNone},
		{"same day is none", 0, RefundNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := now.Add(time.Duration(tc.days) * 24 * time.Hour)
			if got := RefundPolicyAt(start, now); got != tc.want {
				t.Fatalf("RefundPolicyAt(+%dd) = %s, want %s", tc.days, got, tc.want)
			}
		})
	}

	t.Run("past event is none", func(t *testing.T) {
		if got := RefundPolicyAt(now.Add(-24*time.Hour), now); got != RefundNone {
			t.Fatalf("expected none for past event, got %s", got)
		}
	})
}
