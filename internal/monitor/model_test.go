package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/clusterwatch/internal/cooldown"
	"github.com/rileyhilliard/clusterwatch/internal/refresh"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

type fakeSource struct {
	mu        sync.Mutex
	snap      Snapshot
	err       error
	result    refresh.Result
	refreshed []string
	deadlines []bool
}

func (f *fakeSource) Snapshot() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

func (f *fakeSource) Refresh(ctx context.Context, category string) refresh.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, category)
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	res := f.result
	res.Category = category
	return res
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Categories: []refresh.Status{
			{Category: "gpu", Cooldown: 5 * time.Minute, Decision: cooldown.Decision{Allowed: true}},
			{
				Category:    "inventory",
				Cooldown:    5 * time.Minute,
				Last:        time.Date(2024, 4, 5, 19, 34, 38, 0, time.UTC),
				Decision:    cooldown.Decision{Remaining: 90 * time.Second},
				AvailableAt: time.Date(2024, 4, 5, 19, 40, 0, 0, time.UTC),
			},
		},
		Hosts: []ui.HealthRow{
			{Status: "healthy", Name: "host1", Address: "10.0.0.1", Owner: "alice"},
			{Status: "unreachable", Name: "host2", Address: "10.0.0.2", Owner: "bob"},
		},
		Taken: time.Date(2024, 4, 5, 19, 38, 30, 0, time.UTC),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model that has received one snapshot.
func loaded(t *testing.T, src *fakeSource) Model {
	t.Helper()
	m := NewModel(src, time.Second)
	updated, _ := m.Update(snapshotMsg{snap: src.snap})
	return updated.(Model)
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(&fakeSource{}, 0)
	assert.Equal(t, time.Second, m.interval)
	assert.Equal(t, "", m.SelectedCategory())
}

func TestInit_ReturnsCommand(t *testing.T) {
	m := NewModel(&fakeSource{}, time.Second)
	assert.NotNil(t, m.Init())
}

func TestSnapshotCmd_ReadsSource(t *testing.T) {
	src := &fakeSource{snap: sampleSnapshot()}
	m := NewModel(src, time.Second)

	msg := m.snapshotCmd()()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	require.NoError(t, snap.err)
	assert.Len(t, snap.snap.Categories, 2)
}

func TestUpdate_Selection(t *testing.T) {
	src := &fakeSource{snap: sampleSnapshot()}
	m := loaded(t, src)
	assert.Equal(t, "gpu", m.SelectedCategory())

	tests := []struct {
		key  string
		want string
	}{
		{"down", "inventory"},
		{"down", "inventory"},
		{"k", "gpu"},
		{"up", "gpu"},
		{"j", "inventory"},
	}
	for _, tt := range tests {
		updated, _ := m.Update(key(tt.key))
		m = updated.(Model)
		assert.Equal(t, tt.want, m.SelectedCategory(), "after %q", tt.key)
	}
}

func TestUpdate_SnapshotClampsSelection(t *testing.T) {
	src := &fakeSource{snap: sampleSnapshot()}
	m := loaded(t, src)
	updated, _ := m.Update(key("down"))
	m = updated.(Model)

	shrunk := sampleSnapshot()
	shrunk.Categories = shrunk.Categories[:1]
	updated, _ = m.Update(snapshotMsg{snap: shrunk})
	m = updated.(Model)
	assert.Equal(t, "gpu", m.SelectedCategory())
}

func TestUpdate_SnapshotErrorKeepsLastSnapshot(t *testing.T) {
	src := &fakeSource{snap: sampleSnapshot()}
	m := loaded(t, src)

	updated, _ := m.Update(snapshotMsg{err: assert.AnError})
	m = updated.(Model)
	assert.Equal(t, assert.AnError, m.err)
	assert.Len(t, m.snap.Categories, 2)
	assert.Contains(t, m.View(), assert.AnError.Error())
}

func TestUpdate_RefreshRunsSelectedCategory(t *testing.T) {
	src := &fakeSource{snap: sampleSnapshot(), result: refresh.Result{Outcome: refresh.OutcomeSucceeded}}
	m := loaded(t, src)

	updated, cmd := m.Update(key("r"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, "gpu", m.Refreshing())

	// A second press while a refresh runs does nothing.
	updated, cmd = m.Update(key("enter"))
	m = updated.(Model)
	assert.Nil(t, cmd)

	msg := m.refreshCmd("gpu")()
	done, ok := msg.(refreshDoneMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"gpu"}, src.refreshed)
	assert.Equal(t, []bool{false}, src.deadlines, "a dashboard refresh is never cut short")

	updated, cmd = m.Update(done)
	m = updated.(Model)
	assert.NotNil(t, cmd, "a finished refresh re-reads state")
	assert.Equal(t, "", m.Refreshing())
	assert.Equal(t, "ok", m.noticeStatus)
	assert.Equal(t, done.result.Notice(), m.notice)
}

func TestUpdate_RefreshDoneStatus(t *testing.T) {
	tests := []struct {
		outcome refresh.Outcome
		want    string
	}{
		{refresh.OutcomeSucceeded, "ok"},
		{refresh.OutcomeDegraded, "ok"},
		{refresh.OutcomeCooldownActive, "wait"},
		{refresh.OutcomeLockDenied, "wait"},
		{refresh.OutcomeCooldownRace, "wait"},
		{refresh.OutcomeCollectorUnavailable, "error"},
		{refresh.OutcomeCollectorFailed, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			m := loaded(t, &fakeSource{snap: sampleSnapshot()})
			m.refreshing = "gpu"
			updated, _ := m.Update(refreshDoneMsg{result: refresh.Result{Category: "gpu", Outcome: tt.outcome}})
			m = updated.(Model)
			assert.Equal(t, tt.want, m.noticeStatus)
			assert.NotEmpty(t, m.notice)
		})
	}
}

func TestUpdate_RefreshWithoutCategories(t *testing.T) {
	m := NewModel(&fakeSource{}, time.Second)
	updated, cmd := m.Update(key("r"))
	assert.Nil(t, cmd)
	assert.Equal(t, "", updated.(Model).Refreshing())
}

func TestUpdate_SpinnerStopsWhenIdle(t *testing.T) {
	m := loaded(t, &fakeSource{snap: sampleSnapshot()})
	_, cmd := m.Update(spinnerTickMsg(time.Now()))
	assert.Nil(t, cmd)

	m.refreshing = "gpu"
	updated, cmd := m.Update(spinnerTickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, updated.(Model).spinnerFrame)
}

func TestUpdate_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := NewModel(&fakeSource{}, time.Second)
			updated, cmd := m.Update(key(k))
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.Equal(t, "", updated.(Model).View())
		})
	}
}

func TestUpdate_WindowSizeAndHelp(t *testing.T) {
	m := NewModel(&fakeSource{}, time.Second)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 40, m.height)

	assert.Contains(t, m.View(), helpText)
	updated, _ = m.Update(key("?"))
	assert.Contains(t, updated.(Model).View(), "toggle this help")
}

func TestView_Dashboard(t *testing.T) {
	src := &fakeSource{snap: sampleSnapshot()}
	src.snap.LockHeld = true
	src.snap.LockHolder = "alice@head (pid 42) refreshing gpu"
	m := loaded(t, src)

	view := m.View()
	assert.Contains(t, view, "clusterwatch monitor")
	assert.Contains(t, view, "1/2 hosts healthy")
	assert.Contains(t, view, "19:38:30")
	assert.Contains(t, view, "> gpu")
	assert.Contains(t, view, "ready")
	assert.Contains(t, view, "never")
	assert.Contains(t, view, "wait 1m 30s (at 19:40)")
	assert.Contains(t, view, "2024-04-05 19:34:38")
	assert.Contains(t, view, "held by alice@head (pid 42) refreshing gpu")
	assert.Contains(t, view, "host2")
}

func TestView_Loading(t *testing.T) {
	m := NewModel(&fakeSource{}, time.Second)
	view := m.View()
	assert.Contains(t, view, "loading")
	assert.Contains(t, view, "No refresh categories")
	assert.Contains(t, view, "No refresh running")
}

func TestFormatWait(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{500 * time.Millisecond, "1s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 00s"},
		{245 * time.Second, "4m 05s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatWait(tt.in))
	}
}
