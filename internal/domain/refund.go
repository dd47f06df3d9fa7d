package domain

import "time"

// RefundPolicy is the refundable share of the price on cancellation.
type RefundPolicy string

const (
	RefundFull RefundPolicy = "full"
	RefundHalf RefundPolicy = "half"
	RefundNone RefundPolicy = "none"
)

// RefundPolicyAt computes refund eligibility from whole days until the event
// start: more than 7 days full, 3 to 7 days half, under 3 days nothing.
// Always recomputed server-side; a caller-supplied policy is informational.
func RefundPolicyAt(eventStart, now time.Time) RefundPolicy {
	days := int(eventStart.Sub(now).Hours() / 24)
	switch {
	case days > 7:
		return RefundFull
	case days >= 3:
		return RefundHalf
	default:
		return RefundNone
	}
}
