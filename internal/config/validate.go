package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/util"
)

var categoryName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but clusterwatch only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade clusterwatch or lower the version field.")
	}

	if len(cfg.Categories) == 0 {
		return errors.New(errors.ErrConfig,
			"No refresh categories configured",
			"Define at least one entry under 'categories'.")
	}

	timestamps := make(map[string]string)
	for _, name := range cfg.CategoryNames() {
		cat := cfg.Categories[name]
		if err := validateCategory(name, cat); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'categories' section of "+ConfigFileName+".")
		}
		if other, dup := timestamps[cat.Timestamp]; dup && cat.Timestamp != "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Categories '%s' and '%s' share the timestamp file %s", other, name, cat.Timestamp),
				"Each category needs its own timestamp file so cooldowns stay independent.")
		}
		timestamps[cat.Timestamp] = name
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Unknown timezone '%s'", cfg.Timezone),
				"Use an IANA name like Asia/Seoul or UTC.")
		}
	}

	return nil
}

// validateCategory checks a single category definition.
func validateCategory(name string, cat CategoryConfig) error {
	if !categoryName.MatchString(name) {
		return fmt.Errorf("category name '%s' must be lowercase letters, digits, '-' or '_'", name)
	}
	if strings.TrimSpace(cat.Playbook) == "" {
		return fmt.Errorf("category '%s' needs a playbook", name)
	}
	if cat.Cooldown <= 0 {
		return fmt.Errorf("category '%s' needs a positive cooldown (got %s)", name, cat.Cooldown)
	}
	return nil
}

// ValidateCategory checks that name is a configured category.
func ValidateCategory(cfg *Config, name string) error {
	if _, ok := cfg.Categories[name]; ok {
		return nil
	}
	names := cfg.CategoryNames()
	suggestion := fmt.Sprintf("Available categories: %s", util.JoinOrNone(names))
	if similar := util.SuggestSimilar(name, names); len(similar) > 0 {
		suggestion = fmt.Sprintf("Did you mean '%s'? %s", similar[0], suggestion)
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown refresh category '%s'", name),
		suggestion)
}
