// Package planner turns normalized event requirements into a concrete,
// stock-respecting equipment composition. It is pure: it reads an inventory
// snapshot and never fails; shortfalls become warnings on the result.
package planner

import (
	"fmt"
	"sort"

	"github.com/sndrush/booking-api/internal/domain"
)

const (
	defaultGuestCount = 40
	targetSpeakers    = 2
)

// Plan computes the best available composition for the given requirements.
// Identical input against an unchanged snapshot yields identical output.
func Plan(req domain.EventRequirements, inv domain.Inventory) domain.Composition {
	guests := req.GuestCount
	if guests <= 0 {
		guests = defaultGuestCount
	}

	var comp domain.Composition

	targetSubs := 0
	switch {
	case guests <= 50:
		// floor-standing pair carries a small indoor crowd on its own
	case guests <= 120:
		targetSubs = 1
	default:
		targetSubs = 1
		comp.Warnings = append(comp.Warnings,
			fmt.Sprintf("a second subwoofer would suit %d guests but is not in stock", guests))
	}
	if !req.Indoor {
		targetSubs++
	}

	allocateSpeakers(&comp, inv)
	allocateSubwoofers(&comp, inv, targetSubs)
	allocateMics(&comp, inv, req.Mics)
	allocateMixer(&comp, inv, req.Console)

	return comp
}

// allocateSpeakers consumes stock greedily from the highest tier down until
// the target pair is met or stock runs out.
func allocateSpeakers(comp *domain.Composition, inv domain.Inventory) {
	kinds := inv.ByCategory(domain.CategorySpeaker)
	sort.SliceStable(kinds, func(i, j int) bool {
		return kinds[i].TierRank > kinds[j].TierRank
	})

	remaining := targetSpeakers
	for _, kind := range kinds {
		if remaining == 0 {
			break
		}
		take := min(remaining, kind.Available)
		if take == 0 {
			continue
		}
		comp.Items = append(comp.Items, domain.Allocation{
			Kind:     kind.Kind,
			Category: domain.CategorySpeaker,
			Qty:      take,
		})
		remaining -= take
	}
	if remaining > 0 {
		comp.Warnings = append(comp.Warnings,
			fmt.Sprintf("requested speaker count exceeds stock, short by %d", remaining))
	}
}

func allocateSubwoofers(comp *domain.Composition, inv domain.Inventory, target int) {
	if target == 0 {
		return
	}
	available := 0
	kind := ""
	for _, item := range inv.ByCategory(domain.CategorySubwoofer) {
		kind = item.Kind
		available = item.Available
		break
	}
	qty := min(target, available)
	if qty > 0 {
		comp.Items = append(comp.Items, domain.Allocation{
			Kind:     kind,
			Category: domain.CategorySubwoofer,
			Qty:      qty,
		})
	}
	if qty < target {
		comp.Warnings = append(comp.Warnings,
			fmt.Sprintf("subwoofer demand exceeds stock, short by %d", target-qty))
	}
}

func allocateMics(comp *domain.Composition, inv domain.Inventory, pref domain.MicPreference) {
	if pref == domain.MicWired || pref == domain.MicMixed {
		allocateOne(comp, inv, domain.CategoryMicWired, "wired microphone out of stock")
	}
	if pref == domain.MicWireless || pref == domain.MicMixed {
		allocateOne(comp, inv, domain.CategoryMicWireless, "wireless microphone out of stock")
	}
}

func allocateOne(comp *domain.Composition, inv domain.Inventory, cat domain.Category, shortage string) {
	for _, item := range inv.ByCategory(cat) {
		if item.Available > 0 {
			comp.Items = append(comp.Items, domain.Allocation{
				Kind:     item.Kind,
				Category: cat,
				Qty:      1,
			})
			return
		}
	}
	comp.Warnings = append(comp.Warnings, shortage)
}

// allocateMixer resolves the requested tier against stock: requested tier
// first, the other tier as fallback, none as a last resort. It always
// resolves to some valid state.
func allocateMixer(comp *domain.Composition, inv domain.Inventory, pref domain.ConsolePreference) {
	if pref == domain.ConsoleNone || pref == "" {
		return
	}

	requested := domain.KindMixerSmall
	fallback := domain.KindMixerMedium
	if pref == domain.ConsoleMedium {
		requested, fallback = fallback, requested
	}

	for _, kind := range []string{requested, fallback} {
		if inv.Available(kind) > 0 {
			if kind != requested {
				comp.Warnings = append(comp.Warnings,
					fmt.Sprintf("requested %s console unavailable, substituted %s", pref, kind))
			}
			comp.Items = append(comp.Items, domain.Allocation{
				Kind:     kind,
				Category: domain.CategoryMixer,
				Qty:      1,
			})
			return
		}
	}
	comp.Warnings = append(comp.Warnings, "no mixing console in stock")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
