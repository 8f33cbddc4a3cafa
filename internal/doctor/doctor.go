package doctor

import (
	"github.com/rileyhilliard/clusterwatch/internal/config"
)

// Checks builds the full diagnostic set for cfg. loadErr is the error
// from loading the config, if any; the checks that need a config are
// skipped when it is set.
func Checks(configPath string, cfg *config.Config, loadErr error, locator Locator) []Check {
	checks := []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigValidCheck{Config: cfg, Err: loadErr},
	}
	if loadErr != nil || cfg == nil {
		return checks
	}

	checks = append(checks, &AnsibleCheck{Locator: locator})
	if cfg.Ansible.Inventory != "" {
		checks = append(checks, &FileCheck{Label: "ansible inventory", Path: cfg.Ansible.Inventory, WorkDir: cfg.Ansible.WorkDir})
	}
	for _, name := range cfg.CategoryNames() {
		checks = append(checks, &FileCheck{
			Label:   "playbook for " + name,
			Path:    cfg.Categories[name].Playbook,
			WorkDir: cfg.Ansible.WorkDir,
		})
	}

	checks = append(checks,
		&StateDirCheck{Dir: cfg.StateDir},
		&LockCheck{Path: cfg.Lock.Path},
	)
	for _, name := range cfg.CategoryNames() {
		checks = append(checks, &TimestampCheck{Refresh: name, Path: cfg.Categories[name].Timestamp})
	}
	return checks
}
