package domain

import "time"

const urgencyWindow = 2 * time.Hour

// IsUrgent reports whether a target datetime falls in the high-demand window:
// any Sunday, Saturday at or after 15:00 local time, or within two hours of
// now. A missing (zero) target is never urgent.
func IsUrgent(target, now time.Time) bool {
	if target.IsZero() {
		return false
	}
	switch target.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		if target.Hour() >= 15 {
			return true
		}
	}
	until := target.Sub(now)
	return until >= 0 && until <= urgencyWindow
}
