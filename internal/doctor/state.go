package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/lock"
	"github.com/rileyhilliard/clusterwatch/internal/state"
)

// StateDirCheck verifies the state directory exists and is writable.
type StateDirCheck struct {
	Dir string
}

func (c *StateDirCheck) Name() string     { return "state_dir" }
func (c *StateDirCheck) Category() string { return "STATE" }

func (c *StateDirCheck) Run() CheckResult {
	info, err := os.Stat(c.Dir)
	if os.IsNotExist(err) {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "State directory does not exist yet: " + c.Dir,
			Suggestion: "It is created on the first refresh, or run 'clusterwatch doctor --fix'",
			Fixable:    true,
		}
	}
	if err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("Can't read state directory: %v", err)}
	}
	if !info.IsDir() {
		return CheckResult{
			Status:     StatusFail,
			Message:    "State path is not a directory: " + c.Dir,
			Suggestion: "Point state_dir at a directory",
		}
	}

	probe, err := os.CreateTemp(c.Dir, ".doctor-*")
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "State directory is not writable: " + c.Dir,
			Suggestion: "Every viewer needs write access to share the lock and cooldowns",
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return CheckResult{Status: StatusPass, Message: "State directory: " + c.Dir}
}

// Fix creates the state directory.
func (c *StateDirCheck) Fix() error {
	return os.MkdirAll(c.Dir, 0755)
}

// LockCheck reports whether a refresh holds the lock right now.
type LockCheck struct {
	Path string
	Now  func() time.Time
}

func (c *LockCheck) Name() string     { return "refresh_lock" }
func (c *LockCheck) Category() string { return "STATE" }

func (c *LockCheck) Run() CheckResult {
	if !lock.IsLocked(c.Path) {
		return CheckResult{Status: StatusPass, Message: "No refresh running"}
	}

	msg := "Refresh in progress, held by " + lock.Holder(c.Path)
	if data, err := os.ReadFile(c.Path); err == nil {
		if info, err := lock.ParseInfo(data); err == nil {
			now := time.Now
			if c.Now != nil {
				now = c.Now
			}
			msg += fmt.Sprintf(" for %s", now().Sub(info.Started).Truncate(time.Second))
		}
	}
	return CheckResult{
		Status:     StatusWarn,
		Message:    msg,
		Suggestion: "Refreshes are refused until it finishes. The lock is dropped when the holder exits.",
	}
}

func (c *LockCheck) Fix() error { return nil }

// TimestampCheck verifies a category's timestamp file is readable.
type TimestampCheck struct {
	Refresh string
	Path      string
}

func (c *TimestampCheck) Name() string     { return "timestamp_" + c.Refresh }
func (c *TimestampCheck) Category() string { return "STATE" }

func (c *TimestampCheck) Run() CheckResult {
	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%s: never refreshed", c.Refresh)}
	}
	if err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s: can't read %s: %v", c.Refresh, filepath.Base(c.Path), err)}
	}
	t, err := state.ParseTimestamp(string(data))
	if err != nil {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s: timestamp file is unreadable, treated as never refreshed", c.Refresh),
			Suggestion: "The next refresh rewrites it",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: last refresh %s", c.Refresh, t.Format(time.RFC3339)),
	}
}

func (c *TimestampCheck) Fix() error { return nil }
