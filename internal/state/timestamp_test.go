package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TimestampStore, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewTimestampStore(map[string]string{
		"gpu":       filepath.Join(dir, "last_refresh_gpu.txt"),
		"inventory": filepath.Join(dir, "nested", "last_refresh_inventory.txt"),
	})
	return store, dir
}

func TestTimestampStore_ReadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	assert.True(t, store.Read("gpu").IsZero())
	assert.True(t, store.Read("unknown-category").IsZero())
}

func TestTimestampStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ts := time.Unix(1712345678, 123456000)

	require.NoError(t, store.Write("inventory", ts))

	got := store.Read("inventory")
	assert.True(t, ts.Equal(got), "want %v, got %v", ts, got)
	assert.True(t, store.Read("gpu").IsZero(), "categories are independent")
}

func TestTimestampStore_WriteCreatesDirectory(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Write("inventory", time.Unix(1700000000, 0)))

	data, err := os.ReadFile(filepath.Join(dir, "nested", "last_refresh_inventory.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1700000000.000000\n", string(data))
}

func TestTimestampStore_WriteUnknownCategory(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Write("cpu", time.Now())

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrState))
}

func TestTimestampStore_CorruptFileReadsAbsentThenHeals(t *testing.T) {
	store, _ := newTestStore(t)
	path := store.Path("gpu")
	require.NoError(t, os.WriteFile(path, []byte("not-a-number\x00garbage"), 0o644))

	assert.True(t, store.Read("gpu").IsZero())

	ts := time.Unix(1712349999, 500000000)
	require.NoError(t, store.Write("gpu", ts))
	assert.True(t, ts.Equal(store.Read("gpu")))
}

func TestTimestampStore_NoTempFilesLeft(t *testing.T) {
	store, dir := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Write("gpu", time.Unix(int64(1700000000+i), 0)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"last_refresh_gpu.txt"}, names)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "integer seconds", input: "1712345678", want: time.Unix(1712345678, 0)},
		{name: "python time.time output", input: "1712345678.1234567", want: time.Unix(1712345678, 123456700)},
		{name: "trailing newline", input: "1712345678.5\n", want: time.Unix(1712345678, 500000000)},
		{name: "exponent form", input: "1.5e9", want: time.Unix(1500000000, 0)},
		{name: "nanosecond digits truncated", input: "1.1234567891", want: time.Unix(1, 123456789)},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: "  \n", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-12.5", wantErr: true},
		{name: "nan", input: "NaN", wantErr: true},
		{name: "infinity", input: "+Inf", wantErr: true},
		{name: "partial write", input: "17123.", want: time.Unix(17123, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "1712345678.000042", FormatTimestamp(time.Unix(1712345678, 42999)))
}
