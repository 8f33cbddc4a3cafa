// Package testing provides test doubles for the lock package.
package testing

import (
	"sync"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/lock"
)

// AcquireCall records a call to TryAcquire.
type AcquireCall struct {
	Purpose string
	Success bool
}

// FakeHandle is a lock handed out by FakeLocker.
type FakeHandle struct {
	Purpose string

	mu       sync.Mutex
	releases int
	owner    *FakeLocker
}

// Release frees the fake lock. Extra calls are counted but harmless.
func (h *FakeHandle) Release() error {
	h.mu.Lock()
	h.releases++
	first := h.releases == 1
	h.mu.Unlock()

	if first {
		h.owner.release(h)
	}
	return nil
}

// Releases returns how many times Release was called.
func (h *FakeHandle) Releases() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.releases
}

// FakeLocker simulates the exclusive execution lock in memory. Like the
// real lock it grants at most one handle at a time.
type FakeLocker struct {
	mu sync.Mutex

	ShouldFail bool
	FailError  error
	HeldBy     string // If set, the lock appears held by this holder

	AcquireCalls []AcquireCall
	Handles      []*FakeHandle

	active *FakeHandle
}

// NewFakeLocker creates a fake locker that grants the lock by default.
func NewFakeLocker() *FakeLocker {
	return &FakeLocker{}
}

// TryAcquire grants the lock unless it is held, contended or configured to fail.
func (m *FakeLocker) TryAcquire(purpose string) (lock.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := AcquireCall{Purpose: purpose}

	if m.ShouldFail {
		m.AcquireCalls = append(m.AcquireCalls, call)
		if m.FailError != nil {
			return nil, m.FailError
		}
		return nil, errors.New(errors.ErrLock,
			"Lock acquisition failed",
			"Configured to fail in test")
	}

	if m.HeldBy != "" || m.active != nil {
		holder := m.HeldBy
		if holder == "" {
			holder = "another refresh of " + m.active.Purpose
		}
		m.AcquireCalls = append(m.AcquireCalls, call)
		return nil, errors.WrapWithCode(lock.ErrLocked, errors.ErrLock,
			"Another refresh is in progress",
			"Held by "+holder+". Try again shortly.")
	}

	call.Success = true
	m.AcquireCalls = append(m.AcquireCalls, call)

	h := &FakeHandle{Purpose: purpose, owner: m}
	m.active = h
	m.Handles = append(m.Handles, h)
	return h, nil
}

func (m *FakeLocker) release(h *FakeHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == h {
		m.active = nil
	}
}

// SetFail configures the locker to fail acquisition with err.
func (m *FakeLocker) SetFail(err error) *FakeLocker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShouldFail = true
	m.FailError = err
	return m
}

// SetContention makes the lock appear held by holder until cleared.
func (m *FakeLocker) SetContention(holder string) *FakeLocker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HeldBy = holder
	return m
}

// Held reports whether a handle is currently outstanding.
func (m *FakeLocker) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}

// SuccessfulAcquires returns the number of granted acquisitions.
func (m *FakeLocker) SuccessfulAcquires() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.AcquireCalls {
		if call.Success {
			count++
		}
	}
	return count
}

// TotalReleases sums Release calls across every granted handle.
func (m *FakeLocker) TotalReleases() int {
	m.mu.Lock()
	handles := append([]*FakeHandle(nil), m.Handles...)
	m.mu.Unlock()

	total := 0
	for _, h := range handles {
		total += h.Releases()
	}
	return total
}

// Reset clears all state.
func (m *FakeLocker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AcquireCalls = nil
	m.Handles = nil
	m.ShouldFail = false
	m.FailError = nil
	m.HeldBy = ""
	m.active = nil
}
