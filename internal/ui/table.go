package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is focused in CLI output, so the selected row looks like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// CooldownRow is one category in the status output.
type CooldownRow struct {
	Category    string
	LastRefresh string // "never" if absent
	Remaining   string // "" when a refresh is allowed
	AvailableAt string
}

// RenderCooldownTable renders per-category cooldown state.
func RenderCooldownTable(rows []CooldownRow) string {
	if len(rows) == 0 {
		return "No refresh categories configured"
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		state := "ready"
		if r.Remaining != "" {
			state = "wait " + r.Remaining
		}
		cells[i] = []string{r.Category, r.LastRefresh, state, r.AvailableAt}
	}

	return RenderSimpleTable([]TableColumn{
		{Title: "CATEGORY", Width: 12},
		{Title: "LAST REFRESH", Width: 20},
		{Title: "STATE", Width: 14},
		{Title: "AVAILABLE AT", Width: 12},
	}, cells)
}

// HealthRow is one classified host.
type HealthRow struct {
	Status  string // "healthy", "failed" or "unreachable"
	Name    string
	Address string
	Owner   string
}

// RenderHealthTable renders the saved health summary.
func RenderHealthTable(rows []HealthRow) string {
	if len(rows) == 0 {
		return "No health summary yet. Run 'clusterwatch refresh inventory'."
	}

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var b strings.Builder
	b.WriteString(headerStyle.Render("  STATUS        HOST          ADDRESS          OWNER") + "\n")

	for _, row := range rows {
		style := lipgloss.NewStyle().Foreground(StatusColor(row.Status))
		status := style.Render(StatusSymbol(row.Status) + " " + row.Status)

		b.WriteString("  " +
			padRight(status, 14) +
			padRight(row.Name, 14) +
			padRight(mutedStyle.Render(row.Address), 17) +
			row.Owner + "\n")
	}

	return b.String()
}

// HostRow is one entry of the reference table.
type HostRow struct {
	Name     string
	Address  string
	Location string
	Owner    string
}

// RenderHostsTable renders hosts grouped by location, in the order rows
// first mention each location.
func RenderHostsTable(rows []HostRow) string {
	if len(rows) == 0 {
		return "No hosts configured"
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	groups := make(map[string][]HostRow)
	order := []string{}
	for _, row := range rows {
		if _, exists := groups[row.Location]; !exists {
			order = append(order, row.Location)
		}
		groups[row.Location] = append(groups[row.Location], row)
	}

	var b strings.Builder
	for i, loc := range order {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headerStyle.Render(loc) + "\n")
		for _, row := range groups[loc] {
			b.WriteString("  " +
				padRight(row.Name, 14) +
				padRight(mutedStyle.Render(row.Address), 17) +
				row.Owner + "\n")
		}
	}

	return b.String()
}

// DoctorCheckRow represents a row in the doctor diagnostic table.
type DoctorCheckRow struct {
	Status     string // "pass", "warn", "fail"
	Category   string // Check category
	Message    string // Check result message
	Suggestion string // Suggestion for fixing (if failed)
}

// RenderDoctorTable renders doctor check results grouped by category.
func RenderDoctorTable(rows []DoctorCheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	categories := make(map[string][]DoctorCheckRow)
	categoryOrder := []string{}
	for _, row := range rows {
		if _, exists := categories[row.Category]; !exists {
			categoryOrder = append(categoryOrder, row.Category)
		}
		categories[row.Category] = append(categories[row.Category], row)
	}

	var b strings.Builder
	for _, cat := range categoryOrder {
		b.WriteString(headerStyle.Render(cat) + "\n")

		for _, row := range categories[cat] {
			var statusIcon string
			switch row.Status {
			case "pass":
				statusIcon = successStyle.Render(SymbolSuccess)
			case "warn":
				statusIcon = warnStyle.Render(SymbolWarning)
			case "fail":
				statusIcon = errorStyle.Render(SymbolFail)
			default:
				statusIcon = mutedStyle.Render(SymbolPending)
			}

			b.WriteString("  " + statusIcon + " " + row.Message + "\n")

			if row.Suggestion != "" && row.Status != "pass" {
				b.WriteString("    " + mutedStyle.Render(row.Suggestion) + "\n")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
