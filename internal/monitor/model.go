package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/clusterwatch/internal/refresh"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

// Snapshot is the refresh state at one instant.
type Snapshot struct {
	Categories []refresh.Status
	LockHeld   bool
	LockHolder string
	Hosts      []ui.HealthRow
	Taken      time.Time
}

// Source supplies snapshots and runs refreshes.
type Source interface {
	Snapshot() (Snapshot, error)
	Refresh(ctx context.Context, category string) refresh.Result
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	source   Source
	interval time.Duration

	snap     Snapshot
	err      error
	selected int

	refreshing   string // category being refreshed, "" when idle
	notice       string
	noticeStatus string // "ok", "wait" or "error"

	width        int
	height       int
	spinnerFrame int
	showHelp     bool
	quitting     bool
}

// tickMsg signals a periodic snapshot.
type tickMsg time.Time

// spinnerTickMsg advances the refresh spinner.
type spinnerTickMsg time.Time

// snapshotMsg carries a fresh snapshot.
type snapshotMsg struct {
	snap Snapshot
	err  error
}

// refreshDoneMsg carries the result of a refresh started from the dashboard.
type refreshDoneMsg struct {
	result refresh.Result
}

const spinnerInterval = 120 * time.Millisecond

// NewModel creates a dashboard polling source every interval.
func NewModel(source Source, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	return Model{source: source, interval: interval}
}

// Init starts polling.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.snapshotCmd(), m.tickCmd())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.tickCmd(), m.snapshotCmd())

	case spinnerTickMsg:
		if m.refreshing == "" {
			return m, nil
		}
		m.spinnerFrame++
		return m, m.spinnerTickCmd()

	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			if m.selected >= len(m.snap.Categories) {
				m.selected = len(m.snap.Categories) - 1
			}
			if m.selected < 0 {
				m.selected = 0
			}
		}

	case refreshDoneMsg:
		m.refreshing = ""
		m.notice = msg.result.Notice()
		switch {
		case msg.result.Outcome.OK():
			m.noticeStatus = "ok"
		case msg.result.Outcome.Retryable():
			m.noticeStatus = "wait"
		default:
			m.noticeStatus = "error"
		}
		return m, m.snapshotCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return m, tea.Quit
	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.snap.Categories)-1 {
			m.selected++
		}
	case KeyToggleHelp:
		m.showHelp = !m.showHelp
	case KeyRefresh, KeyRefreshAlt:
		category := m.SelectedCategory()
		if category == "" || m.refreshing != "" {
			return m, nil
		}
		m.refreshing = category
		m.notice = ""
		return m, tea.Batch(m.refreshCmd(category), m.spinnerTickCmd())
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// SelectedCategory returns the highlighted category, or "" if none.
func (m Model) SelectedCategory() string {
	if m.selected < 0 || m.selected >= len(m.snap.Categories) {
		return ""
	}
	return m.snap.Categories[m.selected].Category
}

// Refreshing returns the category being refreshed, or "".
func (m Model) Refreshing() string {
	return m.refreshing
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (m Model) snapshotCmd() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		snap, err := source.Snapshot()
		return snapshotMsg{snap: snap, err: err}
	}
}

// refreshCmd runs a refresh to completion. A started playbook is never
// cancelled, so quitting the dashboard does not cut a collection short.
func (m Model) refreshCmd(category string) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		return refreshDoneMsg{result: source.Refresh(context.Background(), category)}
	}
}

// Run starts the dashboard in the alternate screen and blocks until quit.
func Run(source Source, interval time.Duration) error {
	p := tea.NewProgram(NewModel(source, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
