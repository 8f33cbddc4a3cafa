package refresh

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/cooldown"
	"github.com/rileyhilliard/clusterwatch/internal/health"
)

// State is a step of the refresh state machine.
type State int

const (
	StateIdle State = iota
	StateLockPending
	StateLockDenied
	StateValidating
	StateCooldownRejected
	StateExecuting
	StatePersisting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLockPending:
		return "LockPending"
	case StateLockDenied:
		return "LockDenied"
	case StateValidating:
		return "Validating"
	case StateCooldownRejected:
		return "CooldownRejected"
	case StateExecuting:
		return "Executing"
	case StatePersisting:
		return "Persisting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is how a refresh attempt ended.
type Outcome int

const (
	// OutcomeSucceeded: the collector exited zero and results were saved.
	OutcomeSucceeded Outcome = iota
	// OutcomeDegraded: the collector failed but left parseable output, which was saved.
	OutcomeDegraded
	// OutcomeCooldownActive: the advisory pre-check refused the attempt.
	OutcomeCooldownActive
	// OutcomeLockDenied: another refresh, of any category, holds the lock.
	OutcomeLockDenied
	// OutcomeCooldownRace: a concurrent refresh consumed the cooldown first.
	OutcomeCooldownRace
	// OutcomeCollectorUnavailable: the collection tool could not be found or started.
	OutcomeCollectorUnavailable
	// OutcomeCollectorFailed: the collector failed without usable output.
	OutcomeCollectorFailed
	// OutcomeLockError: the lock could not be taken for a reason other than contention.
	OutcomeLockError
	// OutcomeStateError: refresh state could not be written.
	OutcomeStateError
	// OutcomeUnknownCategory: the category is not configured.
	OutcomeUnknownCategory
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeCooldownActive:
		return "cooldown-active"
	case OutcomeLockDenied:
		return "lock-denied"
	case OutcomeCooldownRace:
		return "cooldown-race"
	case OutcomeCollectorUnavailable:
		return "collector-unavailable"
	case OutcomeCollectorFailed:
		return "collector-failed"
	case OutcomeLockError:
		return "lock-error"
	case OutcomeStateError:
		return "state-error"
	case OutcomeUnknownCategory:
		return "unknown-category"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// OK reports whether results were collected and saved.
func (o Outcome) OK() bool {
	return o == OutcomeSucceeded || o == OutcomeDegraded
}

// Retryable reports whether the user only has to wait and retry.
func (o Outcome) Retryable() bool {
	return o == OutcomeCooldownActive || o == OutcomeLockDenied || o == OutcomeCooldownRace
}

// Result describes one refresh attempt.
type Result struct {
	Category string
	Outcome  Outcome

	// Decision is the last cooldown evaluation of the attempt.
	Decision cooldown.Decision

	// StartedAt is the timestamp persisted for this attempt, zero if none was.
	StartedAt time.Time
	Duration  time.Duration

	ExitCode int
	Stderr   string

	// Summary is set when the category records a health summary and
	// results were saved.
	Summary *health.Summary

	// Unclassified lists reference hosts that reported no recap line.
	Unclassified []string

	// Err carries the underlying error for failure outcomes.
	Err error

	// ReleaseErr is set if releasing the lock reported an error.
	ReleaseErr error

	// Trail is the sequence of states the attempt passed through.
	Trail []State
}

func (r *Result) enter(s State) {
	r.Trail = append(r.Trail, s)
}

// Notice returns the message shown to the user for this result. Each
// outcome has a distinct message so "wait" reads differently from "broken".
func (r Result) Notice() string {
	switch r.Outcome {
	case OutcomeSucceeded:
		if r.Summary != nil {
			return fmt.Sprintf("Refreshed %s: %s", r.Category, summaryCounts(*r.Summary))
		}
		return fmt.Sprintf("Refreshed %s.", r.Category)
	case OutcomeDegraded:
		msg := fmt.Sprintf("Playbook for %s exited with status %d; saved partial results", r.Category, r.ExitCode)
		if r.Summary != nil {
			msg += ": " + summaryCounts(*r.Summary)
		}
		if len(r.Unclassified) > 0 {
			msg += fmt.Sprintf(". Not classified: %s", strings.Join(r.Unclassified, ", "))
		}
		return msg
	case OutcomeCooldownActive:
		return fmt.Sprintf("%s was refreshed recently. Wait %s before refreshing again.", r.Category, formatWait(r.Decision.Remaining))
	case OutcomeLockDenied:
		return "Another refresh is in progress. Try again shortly."
	case OutcomeCooldownRace:
		return fmt.Sprintf("Someone else just refreshed %s. Showing their results.", r.Category)
	case OutcomeCollectorUnavailable:
		return "Couldn't run ansible-playbook. Install it with: pip install ansible"
	case OutcomeCollectorFailed:
		if r.Stderr != "" {
			return fmt.Sprintf("Playbook for %s failed: %s", r.Category, firstLine(r.Stderr))
		}
		return fmt.Sprintf("Playbook for %s failed with no output.", r.Category)
	case OutcomeLockError:
		return "Couldn't take the refresh lock. Check the state directory permissions."
	case OutcomeStateError:
		return fmt.Sprintf("Couldn't save refresh state for %s. Check the state directory permissions.", r.Category)
	case OutcomeUnknownCategory:
		return fmt.Sprintf("Unknown refresh category '%s'.", r.Category)
	default:
		return r.Outcome.String()
	}
}

func summaryCounts(s health.Summary) string {
	return fmt.Sprintf("%d healthy, %d failed, %d unreachable", len(s.Success), len(s.Failed), len(s.Unreachable))
}

// formatWait renders a wait as "4m 30s", or "12s" under a minute.
func formatWait(d time.Duration) string {
	secs := int(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
