// services/streak.go
package services

import (
	"math"
	"time"
)

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextStreak computes the new login streak. Pure and total:
//   - no prior login            → 1
//   - same calendar day         → unchanged (re-login does not double-count)
//   - exactly one day later     → current + 1
//   - gap of two or more days   → reset to 1
//   - lastLogin in the future   → unchanged (clock skew; neither penalize nor advance)
func NextStreak(today time.Time, lastLogin *time.Time, current int) int {
	if current < 0 {
		current = 0
	}
	if lastLogin == nil {
		return 1
	}

	// Round so that DST-shortened or -lengthened days still count as one day.
	dayDiff := int(math.Round(DateOnly(today).Sub(DateOnly(*lastLogin)).Hours() / 24))
	switch {
	case dayDiff == 0:
		return current
	case dayDiff == 1:
		return current + 1
	case dayDiff > 1:
		return 1
	default: // negative: clock skew
		return current
	}
}
