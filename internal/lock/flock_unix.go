//go:build unix && !linux

package lock

import (
	stderrors "errors"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

func tryLock(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		switch {
		case err == nil:
			return nil
		case stderrors.Is(err, unix.EINTR):
			continue
		case stderrors.Is(err, unix.EWOULDBLOCK):
			return ErrLocked
		default:
			return err
		}
	}
}

func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// held decides from holder metadata, because testing a flock means
// taking it. Metadata left by a crashed holder on this host is ignored
// once its pid is gone.
func held(f *os.File) bool {
	data, err := io.ReadAll(f)
	if err != nil {
		return false
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return false
	}
	info, err := ParseInfo([]byte(content))
	if err != nil {
		return false
	}
	if host, err := os.Hostname(); err == nil && host == info.Hostname && info.PID > 0 {
		err := unix.Kill(info.PID, 0)
		return err == nil || stderrors.Is(err, unix.EPERM)
	}
	return true
}
