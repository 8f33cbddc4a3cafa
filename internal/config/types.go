package config

import (
	"path/filepath"
	"sort"
	"time"

	// Embedded zoneinfo so the default Asia/Seoul display zone loads anywhere.
	_ "time/tzdata"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Built-in refresh categories.
const (
	CategoryGPU       = "gpu"
	CategoryInventory = "inventory"
)

// DefaultCooldown is the minimum time between two refreshes of one category.
const DefaultCooldown = 5 * time.Minute

// Config represents the complete .clusterwatch.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// StateDir holds timestamps, the health summary, the lock file and
	// the metric files the playbooks write.
	StateDir string `yaml:"state_dir" mapstructure:"state_dir"`

	// Summary is the health summary file written by inventory refreshes.
	// Defaults to <state_dir>/health_status.json.
	Summary string `yaml:"summary" mapstructure:"summary"`

	// HostsFile is an optional hosts.yaml with the host reference table.
	// When empty the built-in table is used.
	HostsFile string `yaml:"hosts_file" mapstructure:"hosts_file"`

	// Timezone used to display refresh times.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	Lock       LockConfig                `yaml:"lock" mapstructure:"lock"`
	Ansible    AnsibleConfig             `yaml:"ansible" mapstructure:"ansible"`
	Categories map[string]CategoryConfig `yaml:"categories" mapstructure:"categories"`
}

// LockConfig controls the exclusive execution lock.
type LockConfig struct {
	// Path of the lock file. Defaults to <state_dir>/.refresh.lock.
	Path string `yaml:"path" mapstructure:"path"`
}

// AnsibleConfig controls how the collection playbooks run.
type AnsibleConfig struct {
	// Path to ansible-playbook. Empty searches PATH and common locations.
	Path string `yaml:"path" mapstructure:"path"`

	// Inventory is the Ansible inventory file passed with -i.
	Inventory string `yaml:"inventory" mapstructure:"inventory"`

	// WorkDir is where playbooks run. Defaults to the config file's directory.
	WorkDir string `yaml:"workdir" mapstructure:"workdir"`
}

// CategoryConfig defines one independently cooled refresh category.
type CategoryConfig struct {
	// Description shown in status output.
	Description string `yaml:"description" mapstructure:"description"`

	// Playbook run for this category.
	Playbook string `yaml:"playbook" mapstructure:"playbook"`

	// Cooldown is the minimum time between two refreshes.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"`

	// Timestamp file recording the last refresh.
	// Defaults to <state_dir>/last_refresh_<name>.txt.
	Timestamp string `yaml:"timestamp" mapstructure:"timestamp"`

	// Summary makes a refresh parse the playbook recap and save the
	// health summary.
	Summary bool `yaml:"summary" mapstructure:"summary"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		StateDir: "info",
		Timezone: "Asia/Seoul",
		Ansible: AnsibleConfig{
			Inventory: "hosts.ini",
		},
		Categories: map[string]CategoryConfig{
			CategoryGPU: {
				Description: "GPU and CPU load metrics",
				Playbook:    "moniter_gpu.yml",
				Cooldown:    DefaultCooldown,
			},
			CategoryInventory: {
				Description: "Full inventory and health check",
				Playbook:    "moniter_status.yml",
				Cooldown:    DefaultCooldown,
				Summary:     true,
			},
		},
	}
}

// CategoryNames returns the configured category names, sorted.
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyDefaults fills derived paths and resolves relative paths against base.
func (c *Config) ApplyDefaults(base string) {
	if c.StateDir == "" {
		c.StateDir = "info"
	}
	c.StateDir = resolve(base, c.StateDir)

	if c.Summary == "" {
		c.Summary = filepath.Join(c.StateDir, "health_status.json")
	} else {
		c.Summary = resolve(base, c.Summary)
	}

	if c.Lock.Path == "" {
		c.Lock.Path = filepath.Join(c.StateDir, ".refresh.lock")
	} else {
		c.Lock.Path = resolve(base, c.Lock.Path)
	}

	if c.HostsFile != "" {
		c.HostsFile = resolve(base, c.HostsFile)
	}

	if c.Ansible.WorkDir == "" {
		c.Ansible.WorkDir = base
	} else {
		c.Ansible.WorkDir = resolve(base, c.Ansible.WorkDir)
	}

	for name, cat := range c.Categories {
		if cat.Timestamp == "" {
			cat.Timestamp = filepath.Join(c.StateDir, "last_refresh_"+name+".txt")
		} else {
			cat.Timestamp = resolve(base, cat.Timestamp)
		}
		c.Categories[name] = cat
	}
}

// TimestampPaths maps each category to its timestamp file.
func (c *Config) TimestampPaths() map[string]string {
	paths := make(map[string]string, len(c.Categories))
	for name, cat := range c.Categories {
		paths[name] = cat.Timestamp
	}
	return paths
}

// Playbooks maps each category to its playbook.
func (c *Config) Playbooks() map[string]string {
	books := make(map[string]string, len(c.Categories))
	for name, cat := range c.Categories {
		books[name] = cat.Playbook
	}
	return books
}

// Location loads the display timezone, falling back to local time.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func resolve(base, path string) string {
	path = expandHome(path)
	if filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}
