//go:build linux

package lock

import (
	stderrors "errors"
	"os"

	"golang.org/x/sys/unix"
)

// Linux uses open file description locks. They conflict between any two
// opens of the file, in one process or many, and F_OFD_GETLK lets
// viewers test for a holder without ever taking the lock themselves.

func wholeFile(typ int16) *unix.Flock_t {
	return &unix.Flock_t{Type: typ, Whence: 0, Start: 0, Len: 0}
}

func tryLock(f *os.File) error {
	for {
		err := unix.FcntlFlock(f.Fd(), unix.F_OFD_SETLK, wholeFile(unix.F_WRLCK))
		switch {
		case err == nil:
			return nil
		case stderrors.Is(err, unix.EINTR):
			continue
		case stderrors.Is(err, unix.EAGAIN), stderrors.Is(err, unix.EACCES):
			return ErrLocked
		default:
			return err
		}
	}
}

func unlock(f *os.File) error {
	return unix.FcntlFlock(f.Fd(), unix.F_OFD_SETLK, wholeFile(unix.F_UNLCK))
}

// held reports whether another open of the file holds the lock.
func held(f *os.File) bool {
	lk := wholeFile(unix.F_WRLCK)
	if err := unix.FcntlFlock(f.Fd(), unix.F_OFD_GETLK, lk); err != nil {
		return false
	}
	return lk.Type != unix.F_UNLCK
}
