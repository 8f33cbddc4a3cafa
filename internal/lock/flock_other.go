//go:build !unix

package lock

import "os"

func tryLock(f *os.File) error {
	return ErrUnsupported
}

func unlock(f *os.File) error {
	return nil
}

func held(f *os.File) bool {
	return false
}
