package doctor

import (
	"fmt"

	"github.com/rileyhilliard/clusterwatch/internal/config"
)

// ConfigFileCheck reports which config file is in use.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", err),
			Suggestion: "Check the --config path and file permissions",
		}
	}

	if path == "" {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "No config file found, using built-in defaults",
			Suggestion: "Create " + config.ConfigFileName + " to change playbooks, cooldowns or paths",
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

func (c *ConfigFileCheck) Fix() error { return nil }

// ConfigValidCheck loads and validates the config.
type ConfigValidCheck struct {
	Config *config.Config
	Err    error // load error, if loading failed
}

func (c *ConfigValidCheck) Name() string     { return "config_valid" }
func (c *ConfigValidCheck) Category() string { return "CONFIG" }

func (c *ConfigValidCheck) Run() CheckResult {
	if c.Err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "Failed to load config",
			Suggestion: trimError(c.Err),
		}
	}
	if err := config.Validate(c.Config); err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    "Config is invalid",
			Suggestion: trimError(err),
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%d refresh categories: %v", len(c.Config.Categories), c.Config.CategoryNames()),
	}
}

func (c *ConfigValidCheck) Fix() error { return nil }
