package domain

import "time"

// MicPreference is the requested microphone setup.
type MicPreference string

const (
	MicNone     MicPreference = "none"
	MicWired    MicPreference = "wired"
	MicWireless MicPreference = "wireless"
	MicMixed    MicPreference = "mixed"
)

// ConsolePreference is the requested mixing console tier.
type ConsolePreference string

const (
	ConsoleNone   ConsolePreference = "none"
	ConsoleSmall  ConsolePreference = "small"
	ConsoleMedium ConsolePreference = "medium"
)

// EventRequirements is the normalized output of the upstream requirement
// extractor. The planner applies its own defaults for missing fields and
// does not second-guess upstream parsing beyond that.
type EventRequirements struct {
	GuestCount int
	Indoor     bool
	PostalCode string
	EventStart time.Time
	Mics       MicPreference
	Console    ConsolePreference
	Lighting   bool
}
