package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	mutedStyle    = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.SymbolFail + " " + firstLine(m.err.Error())))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderCategories())
	b.WriteString("\n")
	b.WriteString(m.renderLock())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.renderNotice())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Host health"))
	b.WriteString("\n")
	b.WriteString(ui.RenderHealthTable(m.snap.Hosts))

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("clusterwatch monitor")
	if m.snap.Taken.IsZero() {
		return title + mutedStyle.Render(" | loading")
	}
	healthy := 0
	for _, h := range m.snap.Hosts {
		if h.Status == "healthy" {
			healthy++
		}
	}
	stats := fmt.Sprintf(" | %d/%d hosts healthy | %s", healthy, len(m.snap.Hosts), m.snap.Taken.Format("15:04:05"))
	return title + mutedStyle.Render(stats)
}

func (m Model) renderCategories() string {
	if len(m.snap.Categories) == 0 {
		return mutedStyle.Render("No refresh categories")
	}

	var b strings.Builder
	for i, st := range m.snap.Categories {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}

		var state string
		switch {
		case st.Category == m.refreshing:
			frame := spinnerFrames[m.spinnerFrame%len(spinnerFrames)]
			state = lipgloss.NewStyle().Foreground(ui.ColorSecondary).Render(frame + " refreshing")
		case st.Decision.Allowed:
			state = lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.SymbolSuccess + " ready")
		default:
			wait := fmt.Sprintf("%s wait %s", ui.SymbolSkipped, formatWait(st.Decision.Remaining))
			if !st.AvailableAt.IsZero() {
				wait += " (at " + st.AvailableAt.Format("15:04") + ")"
			}
			state = lipgloss.NewStyle().Foreground(ui.ColorWarning).Render(wait)
		}

		last := "never"
		if !st.Last.IsZero() {
			last = st.Last.Format("2006-01-02 15:04:05")
		}

		name := padRight(st.Category, 12)
		if i == m.selected {
			name = selectedStyle.Render(name)
		}
		b.WriteString(cursor + name + padRight(mutedStyle.Render(last), 22) + state + "\n")
	}
	return b.String()
}

func (m Model) renderLock() string {
	if !m.snap.LockHeld {
		return mutedStyle.Render("No refresh running")
	}
	return lipgloss.NewStyle().Foreground(ui.ColorWarning).
		Render("Refresh in progress, held by " + m.snap.LockHolder)
}

func (m Model) renderNotice() string {
	var color lipgloss.Color
	var symbol string
	switch m.noticeStatus {
	case "ok":
		color, symbol = ui.ColorSuccess, ui.SymbolSuccess
	case "wait":
		color, symbol = ui.ColorWarning, ui.SymbolSkipped
	default:
		color, symbol = ui.ColorError, ui.SymbolFail
	}
	return lipgloss.NewStyle().Foreground(color).Render(symbol + " " + m.notice)
}

func (m Model) renderFooter() string {
	if !m.showHelp {
		return mutedStyle.Render(helpText)
	}
	return mutedStyle.Render(strings.Join(helpLong, "\n"))
}

// formatWait renders a remaining cooldown as "4m 30s", rounding up so a
// wait never reads as 0s.
func formatWait(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func firstLine(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "✗"))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
