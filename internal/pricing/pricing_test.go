package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sndrush/booking-api/internal/domain"
)

func TestQuote_EmptyCompositionIsFree(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	res := Quote(DefaultTable(), domain.PricingContext{
		Zone:         domain.ZonePickup,
		DurationDays: 1,
	}, now)

	assert.True(t, res.Total.IsZero(), "total = %s", res.Total)
	assert.Empty(t, res.Lines)
	assert.False(t, res.IsUrgent)
}

func TestQuote_WeddingScenario(t *testing.T) {
	t.Parallel()

	// Two days out on a Thursday evening: outside both urgency windows.
	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	eventStart := time.Date(2025, 6, 5, 20, 0, 0, 0, time.UTC)

	res := Quote(DefaultTable(), domain.PricingContext{
		Speakers:         2,
		Subwoofers:       1,
		MixerTier:        domain.ConsoleSmall,
		WithInstallation: true,
		Zone:             domain.ZoneParis,
		DurationDays:     1,
		EventStart:       eventStart,
	}, now)

	// 2x70 + 90 + 40 + 80 install + 40 Paris delivery
	assert.True(t, decimal.NewFromInt(390).Equal(res.Total), "total = %s", res.Total)
	assert.False(t, res.IsUrgent)

	require.Len(t, res.Lines, 5)
	assert.Equal(t, "speakers x2", res.Lines[0].Label)
	assert.Equal(t, "subwoofer x1", res.Lines[1].Label)
	assert.Equal(t, "mixer (small) x1", res.Lines[2].Label)
	assert.Equal(t, "installation", res.Lines[3].Label)
	assert.Equal(t, "delivery (paris)", res.Lines[4].Label)
}

func TestQuote_DurationScalesEquipmentOnly(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	res := Quote(DefaultTable(), domain.PricingContext{
		Speakers:         2,
		WithInstallation: true,
		Zone:             domain.ZoneNear,
		DurationDays:     3,
	}, now)

	// 2x70x3 + 80 + 60
	assert.True(t, decimal.NewFromInt(560).Equal(res.Total), "total = %s", res.Total)
}

func TestQuote_UrgencySurcharge(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

	t.Run("surcharge on running total as its own line", func(t *testing.T) {
		res := Quote(DefaultTable(), domain.PricingContext{
			Speakers:     2,
			Subwoofers:   1,
			Zone:         domain.ZonePickup,
			DurationDays: 1,
			EventStart:   now.Add(time.Hour),
		}, now)

		require.True(t, res.IsUrgent)
		// pre-surcharge 230, surcharge 46
		last := res.Lines[len(res.Lines)-1]
		assert.Equal(t, "urgency surcharge (20%)", last.Label)
		assert.True(t, decimal.NewFromInt(46).Equal(last.Amount), "surcharge = %s", last.Amount)
		assert.True(t, decimal.NewFromInt(276).Equal(res.Total), "total = %s", res.Total)
	})

	t.Run("surcharge rounds to whole euros", func(t *testing.T) {
		res := Quote(DefaultTable(), domain.PricingContext{
			WiredMics:    1,
			WirelessMics: 1,
			Zone:         domain.ZonePickup,
			DurationDays: 1,
			EventStart:   now.Add(time.Hour),
		}, now)

		// pre-surcharge 30, surcharge 6
		assert.True(t, decimal.NewFromInt(36).Equal(res.Total), "total = %s", res.Total)
	})

	t.Run("sunday event carries the surcharge regardless of distance", func(t *testing.T) {
		sunday := time.Date(2025, 6, 8, 11, 0, 0, 0, time.UTC)
		res := Quote(DefaultTable(), domain.PricingContext{
			Speakers:     1,
			Zone:         domain.ZoneFar,
			DurationDays: 1,
			EventStart:   sunday,
		}, now)
		assert.True(t, res.IsUrgent)
	})
}

func TestQuote_OmitsZeroLines(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	res := Quote(DefaultTable(), domain.PricingContext{
		Speakers:     2,
		Zone:         domain.ZonePickup, // free, no delivery line
		DurationDays: 1,
	}, now)

	require.Len(t, res.Lines, 1)
	assert.Equal(t, "speakers x2", res.Lines[0].Label)
	assert.True(t, decimal.NewFromInt(140).Equal(res.Total), "total = %s", res.Total)
}
