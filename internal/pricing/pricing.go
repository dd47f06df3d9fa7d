// Package pricing computes a priced breakdown for an equipment composition.
// It is a pure function over a fixed price table; all displayed amounts are
// rounded to whole euros at emission time while intermediates stay exact.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sndrush/booking-api/internal/domain"
)

// Table holds the flat day-rates and fees, in euros.
type Table struct {
	SpeakerDay     decimal.Decimal
	SubwooferDay   decimal.Decimal
	MixerSmallDay  decimal.Decimal
	MixerMediumDay decimal.Decimal
	MicWiredDay    decimal.Decimal
	MicWirelessDay decimal.Decimal

	Installation decimal.Decimal
	DeliveryFee  map[domain.Zone]decimal.Decimal

	UrgencyRate decimal.Decimal
}

// DefaultTable is the current rate card.
func DefaultTable() Table {
	return Table{
		SpeakerDay:     decimal.NewFromInt(70),
		SubwooferDay:   decimal.NewFromInt(90),
		MixerSmallDay:  decimal.NewFromInt(40),
		MixerMediumDay: decimal.NewFromInt(60),
		MicWiredDay:    decimal.NewFromInt(10),
		MicWirelessDay: decimal.NewFromInt(20),
		Installation:   decimal.NewFromInt(80),
		DeliveryFee: map[domain.Zone]decimal.Decimal{
			domain.ZoneParis: decimal.NewFromInt(40),
			domain.ZoneNear:  decimal.NewFromInt(60),
			domain.ZoneFar:   decimal.NewFromInt(90),
		},
		UrgencyRate: decimal.NewFromFloat(0.20),
	}
}

// Quote prices a composition in its allocation order, omitting zero lines.
// The urgency surcharge applies to the running total, never per line.
func Quote(table Table, ctx domain.PricingContext, now time.Time) domain.QuoteResult {
	days := decimal.NewFromInt(int64(max(1, ctx.DurationDays)))

	var result domain.QuoteResult
	total := decimal.Zero

	addUnits := func(label string, qty int, rate decimal.Decimal) {
		if qty == 0 {
			return
		}
		amount := rate.Mul(decimal.NewFromInt(int64(qty))).Mul(days)
		total = total.Add(amount)
		result.Lines = append(result.Lines, domain.LineItem{
			Label:  fmt.Sprintf("%s x%d", label, qty),
			Amount: amount.Round(0),
		})
	}
	addFlat := func(label string, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		total = total.Add(amount)
		result.Lines = append(result.Lines, domain.LineItem{
			Label:  label,
			Amount: amount.Round(0),
		})
	}

	addUnits("speakers", ctx.Speakers, table.SpeakerDay)
	addUnits("subwoofer", ctx.Subwoofers, table.SubwooferDay)
	addUnits("wired mic", ctx.WiredMics, table.MicWiredDay)
	addUnits("wireless mic", ctx.WirelessMics, table.MicWirelessDay)

	switch ctx.MixerTier {
	case domain.ConsoleSmall:
		addUnits("mixer (small)", 1, table.MixerSmallDay)
	case domain.ConsoleMedium:
		addUnits("mixer (medium)", 1, table.MixerMediumDay)
	}

	if ctx.WithInstallation {
		addFlat("installation", table.Installation)
	}
	addFlat(fmt.Sprintf("delivery (%s)", ctx.Zone), table.DeliveryFee[ctx.Zone])

	if domain.IsUrgent(ctx.EventStart, now) {
		result.IsUrgent = true
		surcharge := total.Mul(table.UrgencyRate).Round(0)
		total = total.Add(surcharge)
		result.Lines = append(result.Lines, domain.LineItem{
			Label:  "urgency surcharge (20%)",
			Amount: surcharge,
		})
	}

	result.Total = total.Round(0)
	return result
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
