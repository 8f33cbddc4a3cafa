package state

import (
	"encoding/json"
	"os"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/health"
)

// SummaryStore persists the health summary of the last inventory refresh.
type SummaryStore struct {
	path string
}

// NewSummaryStore creates a store backed by path.
func NewSummaryStore(path string) *SummaryStore {
	return &SummaryStore{path: path}
}

// Path returns the backing file.
func (s *SummaryStore) Path() string {
	return s.path
}

// Load returns the saved summary. A missing or malformed file yields an
// empty summary.
func (s *SummaryStore) Load() health.Summary {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return health.Empty()
	}

	var summary health.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return health.Empty()
	}
	return summary.Normalize()
}

// Save writes summary, replacing any previous one.
func (s *SummaryStore) Save(summary health.Summary) error {
	data, err := json.Marshal(summary.Normalize())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrState,
			"Couldn't encode health summary",
			"This shouldn't happen - please report this bug!")
	}

	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrState,
			"Couldn't write health summary",
			"Check that the state directory exists and is writable")
	}
	return nil
}
