// Package collect runs the external collection action: an Ansible
// playbook that contacts the cluster and leaves metric files behind.
package collect

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
)

// ErrCollectorUnavailable means the collection tool could not be found or started.
var ErrCollectorUnavailable = stderrors.New("collector unavailable")

// Output is what one collection run produced. A non-zero ExitCode is
// not an error; the caller decides what partial output is worth.
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Succeeded reports whether the run exited zero.
func (o Output) Succeeded() bool {
	return o.ExitCode == 0
}

// HasOutput reports whether the run wrote anything to stdout.
func (o Output) HasOutput() bool {
	return len(bytes.TrimSpace(o.Stdout)) > 0
}

// Collector runs the collection action for a refresh category.
// Collect returns an error only when the action could not run at all.
type Collector interface {
	Collect(ctx context.Context, category string) (Output, error)
}

// DefaultBinary is the playbook runner looked up on PATH.
const DefaultBinary = "ansible-playbook"

// waitDelay bounds how long Collect waits for output pipes after the
// playbook is killed.
const waitDelay = 5 * time.Second

// AnsibleCollector runs "ansible-playbook <playbook> -i <inventory>".
type AnsibleCollector struct {
	// Binary is an explicit path to ansible-playbook. When empty the
	// binary is searched on PATH and in common install locations.
	Binary string

	// Inventory is the Ansible inventory file (e.g. hosts.ini).
	Inventory string

	// WorkDir is where the playbook runs; metric files are written relative to it.
	WorkDir string

	// Playbooks maps a refresh category to its playbook.
	Playbooks map[string]string

	// Env is appended to the process environment.
	Env []string

	lookPath func(string) (string, error)
	home     func() (string, error)
}

// NewAnsibleCollector creates a collector with the given playbooks.
func NewAnsibleCollector(inventory, workDir string, playbooks map[string]string) *AnsibleCollector {
	return &AnsibleCollector{
		Inventory: inventory,
		WorkDir:   workDir,
		Playbooks: playbooks,
	}
}

// Collect runs the playbook bound to category and captures its output.
func (c *AnsibleCollector) Collect(ctx context.Context, category string) (Output, error) {
	playbook, ok := c.Playbooks[category]
	if !ok || playbook == "" {
		return Output{ExitCode: -1}, errors.New(errors.ErrConfig,
			fmt.Sprintf("No playbook configured for category '%s'", category),
			"Set categories."+category+".playbook in the config file")
	}

	binary, err := c.Locate()
	if err != nil {
		return Output{ExitCode: -1}, err
	}

	args := []string{playbook}
	if c.Inventory != "" {
		args = append(args, "-i", c.Inventory)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if c.WorkDir != "" {
		cmd.Dir = c.WorkDir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	// Children that outlive a killed playbook may hold the pipes open.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if ctxErr := ctx.Err(); runErr != nil && ctxErr != nil {
		// Output of a killed run is truncated, never a partial result.
		return Output{ExitCode: -1, Stderr: out.Stderr}, errors.WrapWithCode(ctxErr, errors.ErrCollect,
			fmt.Sprintf("Playbook for '%s' was stopped before it finished", category),
			"Refresh again once the cooldown allows it")
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		out.ExitCode = -1
		return out, errors.WrapWithCode(fmt.Errorf("%w: %v", ErrCollectorUnavailable, runErr), errors.ErrCollect,
			"Couldn't start ansible-playbook",
			"Check that "+binary+" is executable and the working directory exists")
	}

	return out, nil
}

// Locate finds the ansible-playbook binary: the explicit Binary, then
// PATH, then common install locations.
func (c *AnsibleCollector) Locate() (string, error) {
	if c.Binary != "" {
		if isExecutable(c.Binary) {
			return c.Binary, nil
		}
		return "", errors.WrapWithCode(ErrCollectorUnavailable, errors.ErrCollect,
			"ansible-playbook not found at "+c.Binary,
			"Fix ansible.path in the config, or remove it to search PATH")
	}

	lookPath := c.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(DefaultBinary); err == nil {
		return path, nil
	}

	for _, candidate := range c.candidates() {
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", errors.WrapWithCode(ErrCollectorUnavailable, errors.ErrCollect,
		"Couldn't find ansible-playbook",
		"Install it with: pip install ansible")
}

func (c *AnsibleCollector) candidates() []string {
	paths := []string{
		"/usr/bin/ansible-playbook",
		"/usr/local/bin/ansible-playbook",
	}

	home := c.home
	if home == nil {
		home = os.UserHomeDir
	}
	if dir, err := home(); err == nil && dir != "" {
		paths = append(paths,
			filepath.Join(dir, ".local", "bin", DefaultBinary),
			filepath.Join(dir, "anaconda3", "bin", DefaultBinary),
			filepath.Join(dir, "miniconda3", "bin", DefaultBinary),
		)
	}

	return append(paths, "/opt/anaconda3/bin/ansible-playbook")
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
