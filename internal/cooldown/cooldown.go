// Package cooldown decides whether a refresh category may run again.
//
// Evaluate is pure: it takes the last refresh instant, the category's
// cooldown window and the current time, and never touches disk. Callers
// run it once before taking the execution lock (advisory, may be stale)
// and once more after acquiring it (authoritative).
package cooldown

import "time"

// MaxFutureSkew is how far ahead of now a recorded refresh may lie and
// still count. A later instant is treated as never refreshed, so a corrupt
// or hand-edited timestamp cannot hold a category shut indefinitely.
const MaxFutureSkew = 5 * time.Minute

// Decision is the outcome of a cooldown evaluation.
type Decision struct {
	Allowed   bool
	Remaining time.Duration
}

// Evaluate computes whether a refresh is permitted at now.
// A zero last means the category was never refreshed. A last more than
// MaxFutureSkew after now is treated the same way.
func Evaluate(last time.Time, cooldown time.Duration, now time.Time) Decision {
	if last.IsZero() || last.Sub(now) > MaxFutureSkew {
		return Decision{Allowed: true}
	}

	remaining := cooldown - now.Sub(last)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   remaining == 0,
		Remaining: remaining,
	}
}

// Seconds returns the remaining wait in whole seconds, truncated.
func (d Decision) Seconds() int {
	return int(d.Remaining / time.Second)
}

// AvailableAt returns when a category refreshed at last becomes
// refreshable again, in loc, rounded up to the next whole minute.
// Returns the zero time for a category that was never refreshed.
func AvailableAt(last time.Time, cooldown time.Duration, loc *time.Location) time.Time {
	if last.IsZero() {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}

	at := last.Add(cooldown).In(loc)
	if at.Second() > 0 || at.Nanosecond() > 0 {
		at = at.Add(time.Minute)
	}
	return time.Date(at.Year(), at.Month(), at.Day(), at.Hour(), at.Minute(), 0, 0, loc)
}
