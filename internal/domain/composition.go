package domain

// Allocation is one allocated equipment kind with its quantity.
type Allocation struct {
	Kind     string   `json:"kind"`
	Category Category `json:"category"`
	Qty      int      `json:"qty"`
}

// Composition is a concrete, stock-bounded equipment selection. Items keep
// allocation order (speakers by descending tier, then subwoofer, mics, mixer).
// Unmet demand shows up in Warnings; a composition is never an error.
type Composition struct {
	Items    []Allocation `json:"items"`
	Warnings []string     `json:"warnings,omitempty"`
}

func (c Composition) Qty(kind string) int {
	total := 0
	for _, item := range c.Items {
		if item.Kind == kind {
			total += item.Qty
		}
	}
	return total
}

func (c Composition) CategoryQty(cat Category) int {
	total := 0
	for _, item := range c.Items {
		if item.Category == cat {
			total += item.Qty
		}
	}
	return total
}

// MixerTier returns the tier of the allocated mixer, or ConsoleNone.
func (c Composition) MixerTier() ConsolePreference {
	for _, item := range c.Items {
		if item.Category != CategoryMixer || item.Qty == 0 {
			continue
		}
		if item.Kind == KindMixerMedium {
			return ConsoleMedium
		}
		return ConsoleSmall
	}
	return ConsoleNone
}
