package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "info", cfg.StateDir)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, "hosts.ini", cfg.Ansible.Inventory)
	assert.Equal(t, []string{CategoryGPU, CategoryInventory}, cfg.CategoryNames())
	assert.Equal(t, 5*time.Minute, cfg.Categories[CategoryGPU].Cooldown)
	assert.False(t, cfg.Categories[CategoryGPU].Summary)
	assert.True(t, cfg.Categories[CategoryInventory].Summary)
	assert.Equal(t, "moniter_status.yml", cfg.Categories[CategoryInventory].Playbook)
}

func TestApplyDefaults_DerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyDefaults("/srv/monitor")

	assert.Equal(t, "/srv/monitor/info", cfg.StateDir)
	assert.Equal(t, "/srv/monitor/info/health_status.json", cfg.Summary)
	assert.Equal(t, "/srv/monitor/info/.refresh.lock", cfg.Lock.Path)
	assert.Equal(t, "/srv/monitor", cfg.Ansible.WorkDir)
	assert.Equal(t, map[string]string{
		CategoryGPU:       "/srv/monitor/info/last_refresh_gpu.txt",
		CategoryInventory: "/srv/monitor/info/last_refresh_inventory.txt",
	}, cfg.TimestampPaths())
}

func TestApplyDefaults_AbsolutePathsKept(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StateDir = "/var/lib/clusterwatch"
	cfg.Lock.Path = "/run/clusterwatch.lock"
	cfg.ApplyDefaults("/srv/monitor")

	assert.Equal(t, "/var/lib/clusterwatch", cfg.StateDir)
	assert.Equal(t, "/run/clusterwatch.lock", cfg.Lock.Path)
	assert.Equal(t, "/var/lib/clusterwatch/health_status.json", cfg.Summary)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version: 1
state_dir: state
timezone: UTC
hosts_file: hosts.yaml
ansible:
  path: /opt/ansible/bin/ansible-playbook
  inventory: cluster.ini
categories:
  gpu:
    cooldown: 2m
  inventory:
    playbook: full.yml
    cooldown: 10m
`)
	base := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "state"), cfg.StateDir)
	assert.Equal(t, filepath.Join(base, "hosts.yaml"), cfg.HostsFile)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "/opt/ansible/bin/ansible-playbook", cfg.Ansible.Path)
	assert.Equal(t, "cluster.ini", cfg.Ansible.Inventory)
	assert.Equal(t, base, cfg.Ansible.WorkDir)

	gpu := cfg.Categories[CategoryGPU]
	assert.Equal(t, 2*time.Minute, gpu.Cooldown)
	assert.Equal(t, "moniter_gpu.yml", gpu.Playbook, "unset fields keep their defaults")
	assert.Equal(t, filepath.Join(base, "state", "last_refresh_gpu.txt"), gpu.Timestamp)

	inv := cfg.Categories[CategoryInventory]
	assert.Equal(t, "full.yml", inv.Playbook)
	assert.Equal(t, 10*time.Minute, inv.Cooldown)
	assert.True(t, inv.Summary)

	require.NoError(t, Validate(cfg))
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "version: 1\n")
	t.Setenv("CLUSTERWATCH_TIMEZONE", "UTC")
	t.Setenv("CLUSTERWATCH_CATEGORIES_GPU_COOLDOWN", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 30*time.Second, cfg.Categories[CategoryGPU].Cooldown)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "categories: [unclosed\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_Explicit(t *testing.T) {
	path := writeConfig(t, "version: 1\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = Find(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind_CurrentDirectory(t *testing.T) {
	path := writeConfig(t, "version: 1\n")
	t.Chdir(filepath.Dir(path))
	t.Setenv("HOME", t.TempDir())

	found, err := Find("")
	require.NoError(t, err)
	assert.Equal(t, ConfigFileName, filepath.Base(found))
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)

	assert.Equal(t, "info", filepath.Base(cfg.StateDir))
	assert.Len(t, cfg.Categories, 2)
	require.NoError(t, Validate(cfg))
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "no categories",
			mutate:  func(c *Config) { c.Categories = map[string]CategoryConfig{} },
			wantErr: "No refresh categories",
		},
		{
			name: "zero cooldown",
			mutate: func(c *Config) {
				cat := c.Categories[CategoryGPU]
				cat.Cooldown = 0
				c.Categories[CategoryGPU] = cat
			},
			wantErr: "positive cooldown",
		},
		{
			name: "missing playbook",
			mutate: func(c *Config) {
				cat := c.Categories[CategoryInventory]
				cat.Playbook = " "
				c.Categories[CategoryInventory] = cat
			},
			wantErr: "needs a playbook",
		},
		{
			name: "bad category name",
			mutate: func(c *Config) {
				c.Categories["GPU Fast"] = c.Categories[CategoryGPU]
			},
			wantErr: "must be lowercase",
		},
		{
			name: "shared timestamp file",
			mutate: func(c *Config) {
				gpu := c.Categories[CategoryGPU]
				gpu.Timestamp = "/tmp/ts"
				c.Categories[CategoryGPU] = gpu
				inv := c.Categories[CategoryInventory]
				inv.Timestamp = "/tmp/ts"
				c.Categories[CategoryInventory] = inv
			},
			wantErr: "share the timestamp file",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Timezone = "Mars/Olympus" },
			wantErr: "Unknown timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ApplyDefaults("/srv")
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCategory(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, ValidateCategory(cfg, CategoryGPU))

	err := ValidateCategory(cfg, "cpu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available categories: gpu, inventory")
	assert.Contains(t, err.Error(), "Did you mean 'gpu'?")

	err = ValidateCategory(cfg, "status")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Did you mean")
}
