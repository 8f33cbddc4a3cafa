package state

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
)

// TimestampStore reads and writes the last-refresh instant of each
// category. Files hold plain seconds since the epoch, e.g.
// "1712345678.123456".
type TimestampStore struct {
	paths map[string]string
}

// NewTimestampStore creates a store from a category -> file path mapping.
func NewTimestampStore(paths map[string]string) *TimestampStore {
	copied := make(map[string]string, len(paths))
	for k, v := range paths {
		copied[k] = v
	}
	return &TimestampStore{paths: copied}
}

// Path returns the file backing category, or "" if the category is unknown.
func (s *TimestampStore) Path(category string) string {
	return s.paths[category]
}

// Read returns the last refresh time of category. A missing, empty,
// partially written or malformed file reads as the zero time, meaning
// "never refreshed". Read never fails.
func (s *TimestampStore) Read(category string) time.Time {
	path, ok := s.paths[category]
	if !ok {
		return time.Time{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}
	}

	t, err := ParseTimestamp(string(data))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Write records t as the last refresh time of category.
func (s *TimestampStore) Write(category string, t time.Time) error {
	path, ok := s.paths[category]
	if !ok {
		return errors.New(errors.ErrState,
			fmt.Sprintf("No timestamp file configured for category '%s'", category),
			"Add a timestamp path for this category in the config file")
	}

	if err := writeFileAtomic(path, []byte(FormatTimestamp(t)+"\n"), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrState,
			fmt.Sprintf("Couldn't write refresh timestamp for '%s'", category),
			"Check that the state directory exists and is writable")
	}
	return nil
}

// maxTimestampSeconds bounds float timestamps well inside time.Unix's range.
const maxTimestampSeconds = 1 << 40

// FormatTimestamp renders t as seconds since the epoch with microsecond precision.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}

// ParseTimestamp parses seconds since the epoch. Both plain decimals
// ("1712345678.5") and exponent forms ("1.7123456785e9") are accepted.
// Non-positive and non-finite values are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, ok := parseDecimal(s); ok {
		return t, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f > maxTimestampSeconds {
		return time.Time{}, fmt.Errorf("timestamp out of range: %q", s)
	}

	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))), nil
}

// parseDecimal handles "<digits>[.<digits>]" exactly, without float rounding.
func parseDecimal(s string) (time.Time, bool) {
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" || !allDigits(whole) || !allDigits(frac) {
		return time.Time{}, false
	}

	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	if len(frac) > 9 {
		frac = frac[:9]
	}
	var nsec int64
	if frac != "" {
		nsec, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
	}

	if sec == 0 && nsec == 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, nsec), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
