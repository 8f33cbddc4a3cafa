package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".clusterwatch.yaml"
	// GlobalConfigDir is the directory for the per-user config.
	GlobalConfigDir = ".config/clusterwatch"
	// GlobalConfigFile is the per-user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. CLUSTERWATCH_STATE_DIR.
	EnvPrefix = "CLUSTERWATCH"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Create "+ConfigFileName+" or point to one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return parseConfig(v, filepath.Dir(abs), path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .clusterwatch.yaml in current directory
// 3. ~/.config/clusterwatch/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads the config found from explicit, or returns
// defaults rooted at the current directory if none exists.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path != "" {
		return Load(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}
	return parseConfig(newViper(), cwd, "defaults")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, base, source string) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.ApplyDefaults(base)
	return cfg, nil
}

// setDefaults registers every default with viper so env overrides and
// partial category blocks merge with them.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("version", def.Version)
	v.SetDefault("state_dir", def.StateDir)
	v.SetDefault("summary", "")
	v.SetDefault("hosts_file", "")
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("lock.path", "")
	v.SetDefault("ansible.path", "")
	v.SetDefault("ansible.inventory", def.Ansible.Inventory)
	v.SetDefault("ansible.workdir", "")

	for name, cat := range def.Categories {
		prefix := "categories." + name + "."
		v.SetDefault(prefix+"description", cat.Description)
		v.SetDefault(prefix+"playbook", cat.Playbook)
		v.SetDefault(prefix+"cooldown", cat.Cooldown.String())
		v.SetDefault(prefix+"timestamp", "")
		v.SetDefault(prefix+"summary", cat.Summary)
	}
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
