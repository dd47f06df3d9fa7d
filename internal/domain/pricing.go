package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingContext is the input to the quote engine: allocated counts plus the
// logistics of the event.
type PricingContext struct {
	Speakers         int
	Subwoofers       int
	WiredMics        int
	WirelessMics     int
	MixerTier        ConsolePreference
	WithInstallation bool
	Zone             Zone
	DurationDays     int
	EventStart       time.Time
}

// PricingContextFor derives counts from a composition and fills in logistics.
func PricingContextFor(comp Composition, zone Zone, withInstallation bool, durationDays int, eventStart time.Time) PricingContext {
	return PricingContext{
		Speakers:         comp.CategoryQty(CategorySpeaker),
		Subwoofers:       comp.CategoryQty(CategorySubwoofer),
		WiredMics:        comp.CategoryQty(CategoryMicWired),
		WirelessMics:     comp.CategoryQty(CategoryMicWireless),
		MixerTier:        comp.MixerTier(),
		WithInstallation: withInstallation,
		Zone:             zone,
		DurationDays:     durationDays,
		EventStart:       eventStart,
	}
}

// LineItem is one displayed row of a quote breakdown, already rounded to
// whole currency units.
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// QuoteResult is an immutable priced breakdown. It is never persisted as-is;
// a reservation snapshots the total and the serialized lines.
type QuoteResult struct {
	Total    decimal.Decimal `json:"total"`
	Lines    []LineItem      `json:"lines"`
	IsUrgent bool            `json:"is_urgent"`
}
