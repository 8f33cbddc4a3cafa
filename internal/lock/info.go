package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Info describes who holds the refresh lock. It is written into the
// lock file while held so other viewers can say who is refreshing.
type Info struct {
	User     string    `json:"user"`
	Hostname string    `json:"hostname"`
	Started  time.Time `json:"started"`
	PID      int       `json:"pid"`
	Purpose  string    `json:"purpose,omitempty"`
}

// NewInfo creates an Info for the current process.
func NewInfo(purpose string) *Info {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}

	return &Info{
		User:     user,
		Hostname: hostname,
		Started:  time.Now(),
		PID:      os.Getpid(),
		Purpose:  purpose,
	}
}

// Age returns how long ago the lock was acquired.
func (i *Info) Age() time.Duration {
	return time.Since(i.Started)
}

// Marshal serializes the Info to JSON.
func (i *Info) Marshal() ([]byte, error) {
	return json.Marshal(i)
}

// ParseInfo deserializes JSON data into an Info.
func ParseInfo(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// String returns a human-readable description of who holds the lock.
func (i *Info) String() string {
	s := fmt.Sprintf("%s@%s (pid %d)", i.User, i.Hostname, i.PID)
	if i.Purpose != "" {
		s += " refreshing " + i.Purpose
	}
	return s
}
