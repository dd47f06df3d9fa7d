package domain

// Category groups equipment kinds by function.
type Category string

const (
	CategorySpeaker     Category = "speaker"
	CategorySubwoofer   Category = "subwoofer"
	CategoryMicWired    Category = "mic_wired"
	CategoryMicWireless Category = "mic_wireless"
	CategoryMixer       Category = "mixer"
)

// InventoryItem is one equipment kind with its stock level. TierRank orders
// kinds of the same category by quality, higher first.
type InventoryItem struct {
	Kind      string
	Category  Category
	TierRank  int
	Available int
}

// Inventory is an immutable stock snapshot injected into the planner.
// It is never mutated during an allocation call.
type Inventory []InventoryItem

func (inv Inventory) ByCategory(cat Category) []InventoryItem {
	var out []InventoryItem
	for _, item := range inv {
		if item.Category == cat {
			out = append(out, item)
		}
	}
	return out
}

func (inv Inventory) Available(kind string) int {
	for _, item := range inv {
		if item.Kind == kind {
			return item.Available
		}
	}
	return 0
}

func (inv Inventory) Find(kind string) (InventoryItem, bool) {
	for _, item := range inv {
		if item.Kind == kind {
			return item, true
		}
	}
	return InventoryItem{}, false
}

const (
	KindSpeakerPro  = "speaker-pro"
	KindSpeakerStd  = "speaker-std"
	KindSubwoofer   = "subwoofer"
	KindMicWired    = "mic-wired"
	KindMicWireless = "mic-wireless"
	KindMixerSmall  = "mixer-small"
	KindMixerMedium = "mixer-medium"
)

// DefaultInventory is the catalog loaded at process start.
func DefaultInventory() Inventory {
	return Inventory{
		{Kind: KindSpeakerPro, Category: CategorySpeaker, TierRank: 2, Available: 2},
		{Kind: KindSpeakerStd, Category: CategorySpeaker, TierRank: 1, Available: 2},
		{Kind: KindSubwoofer, Category: CategorySubwoofer, TierRank: 1, Available: 1},
		{Kind: KindMicWired, Category: CategoryMicWired, TierRank: 1, Available: 1},
		{Kind: KindMicWireless, Category: CategoryMicWireless, TierRank: 1, Available: 1},
		{Kind: KindMixerSmall, Category: CategoryMixer, TierRank: 1, Available: 1},
		{Kind: KindMixerMedium, Category: CategoryMixer, TierRank: 2, Available: 1},
	}
}
