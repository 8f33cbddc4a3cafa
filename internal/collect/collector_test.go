package collect

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script standing in for ansible-playbook.
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "ansible-playbook")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestOutput_Signals(t *testing.T) {
	assert.True(t, Output{ExitCode: 0}.Succeeded())
	assert.False(t, Output{ExitCode: 2}.Succeeded())
	assert.False(t, Output{Stdout: []byte(" \n")}.HasOutput())
	assert.True(t, Output{Stdout: []byte("PLAY RECAP")}.HasOutput())
}

func TestAnsibleCollector_Success(t *testing.T) {
	dir := t.TempDir()
	c := NewAnsibleCollector("hosts.ini", dir, map[string]string{"inventory": "moniter_status.yml"})
	c.Binary = writeScript(t, dir, `echo "args: $*"; echo "host1 : ok=1 changed=0 unreachable=0 failed=0"`)

	out, err := c.Collect(context.Background(), "inventory")

	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, string(out.Stdout), "args: moniter_status.yml -i hosts.ini")
	assert.Contains(t, string(out.Stdout), "host1 : ok=1")
	assert.Empty(t, out.Stderr)
}

func TestAnsibleCollector_NonZeroExitIsNotError(t *testing.T) {
	dir := t.TempDir()
	c := NewAnsibleCollector("hosts.ini", dir, map[string]string{"gpu": "gpu.yml"})
	c.Binary = writeScript(t, dir, `echo "partial"; echo "boom" >&2; exit 4`)

	out, err := c.Collect(context.Background(), "gpu")

	require.NoError(t, err)
	assert.Equal(t, 4, out.ExitCode)
	assert.Equal(t, "partial\n", string(out.Stdout))
	assert.Equal(t, "boom\n", string(out.Stderr))
}

func TestAnsibleCollector_RunsInWorkDir(t *testing.T) {
	dir := t.TempDir()
	work := t.TempDir()
	c := NewAnsibleCollector("", work, map[string]string{"gpu": "gpu.yml"})
	c.Binary = writeScript(t, dir, `pwd`)

	out, err := c.Collect(context.Background(), "gpu")

	require.NoError(t, err)
	assert.Equal(t, filepath.Base(work), filepath.Base(strings.TrimSpace(string(out.Stdout))))
}

func TestAnsibleCollector_Env(t *testing.T) {
	dir := t.TempDir()
	c := NewAnsibleCollector("", dir, map[string]string{"gpu": "gpu.yml"})
	c.Binary = writeScript(t, dir, `echo "$ANSIBLE_FORCE_COLOR"`)
	c.Env = []string{"ANSIBLE_FORCE_COLOR=0"}

	out, err := c.Collect(context.Background(), "gpu")

	require.NoError(t, err)
	assert.Equal(t, "0\n", string(out.Stdout))
}

func TestAnsibleCollector_UnknownCategory(t *testing.T) {
	c := NewAnsibleCollector("hosts.ini", "", map[string]string{"gpu": "gpu.yml"})

	_, err := c.Collect(context.Background(), "inventory")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestAnsibleCollector_ExplicitBinaryMissing(t *testing.T) {
	c := NewAnsibleCollector("hosts.ini", "", map[string]string{"gpu": "gpu.yml"})
	c.Binary = filepath.Join(t.TempDir(), "nope")

	_, err := c.Collect(context.Background(), "gpu")

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrCollectorUnavailable))
	assert.True(t, errors.IsCode(err, errors.ErrCollect))
}

func TestAnsibleCollector_ExplicitBinaryNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ansible-playbook")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))
	c := &AnsibleCollector{Binary: path}

	_, err := c.Locate()

	assert.ErrorIs(t, err, ErrCollectorUnavailable)
}

func TestAnsibleCollector_LocateFromPath(t *testing.T) {
	c := &AnsibleCollector{
		lookPath: func(name string) (string, error) {
			assert.Equal(t, DefaultBinary, name)
			return "/somewhere/bin/ansible-playbook", nil
		},
	}

	path, err := c.Locate()

	require.NoError(t, err)
	assert.Equal(t, "/somewhere/bin/ansible-playbook", path)
}

func TestAnsibleCollector_LocateFromHomeInstall(t *testing.T) {
	for _, p := range []string{"/usr/bin/ansible-playbook", "/usr/local/bin/ansible-playbook"} {
		if isExecutable(p) {
			t.Skip("system ansible-playbook installed; fallback order would pick it first")
		}
	}

	home := t.TempDir()
	bin := filepath.Join(home, ".local", "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	writeScript(t, bin, "exit 0")

	c := &AnsibleCollector{
		lookPath: func(string) (string, error) { return "", stderrors.New("not on PATH") },
		home:     func() (string, error) { return home, nil },
	}

	path, err := c.Locate()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(bin, "ansible-playbook"), path)
}

func TestAnsibleCollector_Candidates(t *testing.T) {
	c := &AnsibleCollector{home: func() (string, error) { return "/home/u", nil }}

	assert.Equal(t, []string{
		"/usr/bin/ansible-playbook",
		"/usr/local/bin/ansible-playbook",
		"/home/u/.local/bin/ansible-playbook",
		"/home/u/anaconda3/bin/ansible-playbook",
		"/home/u/miniconda3/bin/ansible-playbook",
		"/opt/anaconda3/bin/ansible-playbook",
	}, c.candidates())
}

func TestAnsibleCollector_NotFoundHint(t *testing.T) {
	c := &AnsibleCollector{
		lookPath: func(string) (string, error) { return "", stderrors.New("not on PATH") },
		home:     func() (string, error) { return t.TempDir(), nil },
	}
	for _, p := range c.candidates() {
		if isExecutable(p) {
			t.Skip("ansible-playbook installed on this machine")
		}
	}

	_, err := c.Locate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCollectorUnavailable)
	assert.Contains(t, err.Error(), "pip install ansible")
}

func TestAnsibleCollector_CancelledRunIsNotPartialOutput(t *testing.T) {
	dir := t.TempDir()
	c := NewAnsibleCollector("hosts.ini", dir, map[string]string{"inventory": "moniter_status.yml"})
	c.Binary = writeScript(t, dir, `echo "host1 : ok=1 changed=0 unreachable=0 failed=0"; exec sleep 5`)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	out, err := c.Collect(ctx, "inventory")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCollect))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, stderrors.Is(err, ErrCollectorUnavailable))
	assert.Equal(t, -1, out.ExitCode)
	assert.False(t, out.HasOutput(), "truncated stdout must not be parsed as a result")
	assert.Less(t, time.Since(start), 4*time.Second)
}
