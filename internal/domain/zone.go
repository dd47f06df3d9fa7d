package domain

import "strings"

// Zone is the delivery-distance classification derived from a postal code.
// It drives flat round-trip delivery fees.
type Zone string

const (
	ZoneParis  Zone = "paris"
	ZoneNear   Zone = "near"
	ZoneFar    Zone = "far"
	ZonePickup Zone = "pickup"
)

// ZoneForPostalCode classifies a 5-digit postal code by its department
// prefix. Anything malformed or missing means customer pickup.
func ZoneForPostalCode(code string) Zone {
	code = strings.TrimSpace(code)
	if len(code) != 5 {
		return ZonePickup
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ZonePickup
		}
	}
	switch code[:2] {
	case "75":
		return ZoneParis
	case "92", "93", "94":
		return ZoneNear
	case "77", "78", "91", "95":
		return ZoneFar
	default:
		return ZonePickup
	}
}
