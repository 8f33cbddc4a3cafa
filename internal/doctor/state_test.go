package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/clusterwatch/internal/config"
	"github.com/rileyhilliard/clusterwatch/internal/lock"
)

func TestStateDirCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "info")
	check := &StateDirCheck{Dir: dir}

	r := check.Run()
	assert.Equal(t, StatusWarn, r.Status)
	assert.True(t, r.Fixable)

	require.NoError(t, check.Fix())
	assert.Equal(t, StatusPass, check.Run().Status)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Equal(t, StatusFail, (&StateDirCheck{Dir: file}).Run().Status)
}

func TestLockCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".refresh.lock")
	check := &LockCheck{Path: path}

	assert.Equal(t, StatusPass, check.Run().Status)

	lk, err := lock.NewFileLocker(path).Acquire("inventory")
	require.NoError(t, err)
	defer lk.Release()

	check.Now = func() time.Time { return lk.Info.Started.Add(42 * time.Second) }
	r := check.Run()
	assert.Equal(t, StatusWarn, r.Status)
	assert.Contains(t, r.Message, "refreshing inventory")
	assert.Contains(t, r.Message, "for 42s")
}

func TestTimestampCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last_refresh_gpu.txt")
	check := &TimestampCheck{Refresh: "gpu", Path: path}

	r := check.Run()
	assert.Equal(t, StatusPass, r.Status)
	assert.Contains(t, r.Message, "never refreshed")

	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0644))
	assert.Equal(t, StatusWarn, check.Run().Status)

	require.NoError(t, os.WriteFile(path, []byte("1712345678.5"), 0644))
	r = check.Run()
	assert.Equal(t, StatusPass, r.Status)
	assert.Contains(t, r.Message, "last refresh")
}

type fakeLocator struct {
	path string
	err  error
}

func (f fakeLocator) Locate() (string, error) { return f.path, f.err }

func TestAnsibleCheck(t *testing.T) {
	assert.Equal(t, StatusPass, (&AnsibleCheck{Locator: fakeLocator{path: "/usr/bin/ansible-playbook"}}).Run().Status)

	r := (&AnsibleCheck{Locator: fakeLocator{err: errors.New("nope")}}).Run()
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Suggestion, "pip install ansible")
}

func TestFileCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moniter_gpu.yml"), []byte("---"), 0644))

	ok := (&FileCheck{Label: "playbook for gpu", Path: "moniter_gpu.yml", WorkDir: dir}).Run()
	assert.Equal(t, StatusPass, ok.Status)
	assert.Contains(t, ok.Message, "Playbook for gpu")

	missing := (&FileCheck{Label: "playbook for inventory", Path: "moniter_status.yml", WorkDir: dir}).Run()
	assert.Equal(t, StatusFail, missing.Status)

	assert.Equal(t, "file_playbook_for_gpu", (&FileCheck{Label: "playbook for gpu"}).Name())
}

func TestChecks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ApplyDefaults(t.TempDir())

	checks := Checks("", cfg, nil, fakeLocator{path: "/bin/true"})
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name()
	}
	assert.Contains(t, names, "ansible_playbook")
	assert.Contains(t, names, "file_playbook_for_gpu")
	assert.Contains(t, names, "file_playbook_for_inventory")
	assert.Contains(t, names, "refresh_lock")
	assert.Contains(t, names, "timestamp_inventory")

	// A config that failed to load only gets the config checks.
	assert.Len(t, Checks("", nil, errors.New("bad yaml"), nil), 2)
}

func TestConfigValidCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ApplyDefaults(t.TempDir())
	assert.Equal(t, StatusPass, (&ConfigValidCheck{Config: cfg}).Run().Status)

	cfg.Timezone = "Mars/Olympus"
	r := (&ConfigValidCheck{Config: cfg}).Run()
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Suggestion, "Mars/Olympus")

	assert.Equal(t, StatusFail, (&ConfigValidCheck{Err: errors.New("boom")}).Run().Status)
}
