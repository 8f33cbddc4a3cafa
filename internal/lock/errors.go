package lock

import (
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
)

// ErrLocked is returned by TryAcquire when the lock is held by another
// process. It wraps errors.ErrBusy, so contention counts as retryable.
var ErrLocked = fmt.Errorf("lock is held by another process: %w", errors.ErrBusy)

// ErrUnsupported is returned on platforms without advisory file locks.
var ErrUnsupported = stderrors.New("advisory file locks are not supported on this platform")
