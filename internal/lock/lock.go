// Package lock provides the refresh subsystem's exclusive execution lock.
//
// A single lock file guards every refresh category. Acquisition never
// waits: if another process (or another handle in this process) holds
// the lock, TryAcquire fails immediately with ErrLocked so the caller
// can tell the user to try again.
package lock

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
)

// Handle is an acquired lock. Release must be safe to call more than once.
type Handle interface {
	Release() error
}

// Locker acquires the execution lock without blocking.
type Locker interface {
	TryAcquire(purpose string) (Handle, error)
}

// FileLocker implements Locker with an OS advisory lock on a file.
type FileLocker struct {
	Path string
}

// NewFileLocker creates a FileLocker for path.
func NewFileLocker(path string) *FileLocker {
	return &FileLocker{Path: path}
}

// Lock is an acquired file lock.
type Lock struct {
	Path string
	Info *Info

	mu   sync.Mutex
	file *os.File
}

// TryAcquire opens the lock file and attempts a non-blocking exclusive
// lock. It returns an error wrapping ErrLocked when the lock is busy.
func (l *FileLocker) TryAcquire(purpose string) (Handle, error) {
	lk, err := l.Acquire(purpose)
	if err != nil {
		return nil, err
	}
	return lk, nil
}

// Acquire is TryAcquire returning the concrete *Lock.
func (l *FileLocker) Acquire(purpose string) (*Lock, error) {
	if l.Path == "" {
		return nil, errors.New(errors.ErrLock,
			"No lock file configured",
			"Set lock.path in the config file")
	}

	f, err := openLockFile(l.Path)
	if err != nil {
		return nil, err
	}

	if err := tryLock(f); err != nil {
		f.Close()
		if stderrors.Is(err, ErrLocked) {
			return nil, errors.WrapWithCode(ErrLocked, errors.ErrLock,
				"Another refresh is in progress",
				fmt.Sprintf("Held by %s. Try again shortly.", Holder(l.Path)))
		}
		return nil, errors.WrapWithCode(err, errors.ErrLock,
			"Couldn't lock "+l.Path,
			"Check that the filesystem supports advisory locks")
	}

	info := NewInfo(purpose)
	if data, err := info.Marshal(); err == nil {
		// Holder metadata is informational; a failed write does not void the lock.
		if err := f.Truncate(0); err == nil {
			_, _ = f.WriteAt(data, 0)
		}
	}

	return &Lock{Path: l.Path, Info: info, file: f}, nil
}

// Release unlocks and closes the lock file. It is a no-op on a nil lock
// or one that was already released.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	// Cleared before unlocking so no later holder's metadata is erased.
	_ = f.Truncate(0)
	unlockErr := unlock(f)
	closeErr := f.Close()

	if stderrors.Is(closeErr, os.ErrClosed) {
		// The descriptor was already closed, which drops the flock with it.
		return nil
	}
	if unlockErr != nil {
		return errors.WrapWithCode(unlockErr, errors.ErrLock,
			"Couldn't release the refresh lock",
			"The lock is dropped when this process exits")
	}
	if closeErr != nil {
		return errors.WrapWithCode(closeErr, errors.ErrLock,
			"Couldn't close the lock file",
			"The lock is dropped when this process exits")
	}
	return nil
}

// IsLocked reports whether some process currently holds the lock at path.
// It only tests for a holder and never takes the lock, so viewers polling
// it cannot make a real refresh see contention.
func IsLocked(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return held(f)
}

// Holder returns a description of who holds the lock at path, if readable.
func Holder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return "unknown"
	}

	info, err := ParseInfo([]byte(content))
	if err != nil {
		return "unknown"
	}
	return info.String()
}

func openLockFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLock,
			"Couldn't create the lock directory",
			"Check permissions on "+filepath.Dir(path))
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrLock,
			"Couldn't open the lock file",
			"Check permissions on "+path)
	}
	return f, nil
}
