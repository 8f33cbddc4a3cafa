package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/clusterwatch/internal/collect"
)

// Locator finds the collection tool.
type Locator interface {
	Locate() (string, error)
}

// AnsibleCheck verifies ansible-playbook can be found.
type AnsibleCheck struct {
	Locator Locator
}

func (c *AnsibleCheck) Name() string     { return "ansible_playbook" }
func (c *AnsibleCheck) Category() string { return "ANSIBLE" }

func (c *AnsibleCheck) Run() CheckResult {
	path, err := c.Locator.Locate()
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    collect.DefaultBinary + " not found",
			Suggestion: "Install it with: pip install ansible",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s", collect.DefaultBinary, path),
	}
}

func (c *AnsibleCheck) Fix() error { return nil }

// FileCheck verifies a file the playbook run depends on exists.
type FileCheck struct {
	Label   string // e.g. "playbook for gpu"
	Path    string
	WorkDir string // relative paths resolve against this
}

func (c *FileCheck) Name() string     { return "file_" + strings.ReplaceAll(c.Label, " ", "_") }
func (c *FileCheck) Category() string { return "ANSIBLE" }

func (c *FileCheck) Run() CheckResult {
	path := c.Path
	if !filepath.IsAbs(path) && c.WorkDir != "" {
		path = filepath.Join(c.WorkDir, path)
	}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s missing: %s", capitalize(c.Label), path),
			Suggestion: "Refreshes will fail until it exists. Check ansible.workdir in the config.",
		}
	case info.IsDir():
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s is a directory: %s", capitalize(c.Label), path),
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s", capitalize(c.Label), path),
	}
}

func (c *FileCheck) Fix() error { return nil }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// trimError flattens a structured error to one line for a suggestion.
func trimError(err error) string {
	fields := strings.Fields(strings.TrimPrefix(err.Error(), "✗"))
	return strings.Join(fields, " ")
}
