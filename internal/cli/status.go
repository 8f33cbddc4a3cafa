package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/clusterwatch/internal/health"
	"github.com/rileyhilliard/clusterwatch/internal/inventory"
	"github.com/rileyhilliard/clusterwatch/internal/lock"
	"github.com/rileyhilliard/clusterwatch/internal/refresh"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

// StatusOutput is the --json form of the status command.
type StatusOutput struct {
	Categories []CategoryStatus `json:"categories"`
	Lock       LockStatus       `json:"lock"`
	Health     []HostHealth     `json:"health"`
}

// CategoryStatus is one category's cooldown state.
type CategoryStatus struct {
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	LastRefresh      *time.Time `json:"last_refresh,omitempty"`
	Allowed          bool       `json:"allowed"`
	RemainingSeconds int        `json:"remaining_seconds"`
	AvailableAt      *time.Time `json:"available_at,omitempty"`
}

// LockStatus reports whether a refresh is running right now.
type LockStatus struct {
	Held   bool   `json:"held"`
	Holder string `json:"holder,omitempty"`
}

// HostHealth is one host of the saved health summary.
type HostHealth struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Status  string `json:"status"`
}

func newStatusCmd(flags *globalFlags, d *deps) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cooldowns, the refresh lock and saved host health",
		Long: `Show when each category was last refreshed and when it can be refreshed
again, whether a refresh is running, and the host health saved by the last
inventory refresh.

Examples:
  clusterwatch status
  clusterwatch status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags, d)
			if err != nil {
				if asJSON {
					WriteJSONFromError(cmd.OutOrStdout(), err)
					return &reportedError{code: ExitError, cause: err}
				}
				return err
			}
			out, err := collectStatus(a)
			if err != nil {
				return err
			}
			if asJSON {
				return WriteJSONSuccess(cmd.OutOrStdout(), out)
			}
			renderStatus(cmd.OutOrStdout(), a, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

// collectStatus reads every category's state concurrently. Each read is
// a separate file, so nothing is shared between the goroutines.
func collectStatus(a *app) (StatusOutput, error) {
	names := a.coord.Categories()
	statuses := make([]refresh.Status, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			st, err := a.coord.Status(name)
			statuses[i] = st
			return err
		})
	}

	var lockStatus LockStatus
	g.Go(func() error {
		if lock.IsLocked(a.cfg.Lock.Path) {
			lockStatus = LockStatus{Held: true, Holder: lock.Holder(a.cfg.Lock.Path)}
		}
		return nil
	})

	var summary health.Summary
	g.Go(func() error {
		summary = a.summaries.Load()
		return nil
	})

	if err := g.Wait(); err != nil {
		return StatusOutput{}, err
	}

	out := StatusOutput{Lock: lockStatus, Categories: make([]CategoryStatus, len(statuses))}
	for i, st := range statuses {
		cs := CategoryStatus{
			Name:             st.Category,
			Description:      a.cfg.Categories[st.Category].Description,
			Allowed:          st.Decision.Allowed,
			RemainingSeconds: st.Decision.Seconds(),
		}
		if !st.Last.IsZero() {
			last := st.Last.In(a.loc)
			cs.LastRefresh = &last
		}
		if !st.AvailableAt.IsZero() {
			at := st.AvailableAt
			cs.AvailableAt = &at
		}
		out.Categories[i] = cs
	}
	out.Health = hostHealth(summary, a.inv)
	return out, nil
}

func hostHealth(summary health.Summary, inv *inventory.Inventory) []HostHealth {
	entries := summary.Describe(inv)
	hosts := make([]HostHealth, len(entries))
	for i, e := range entries {
		hosts[i] = HostHealth{
			Name:    e.Name,
			Address: e.Address,
			Owner:   inv.Owner(e.Name),
			Status:  string(e.Status),
		}
	}
	return hosts
}

func renderStatus(w io.Writer, a *app, out StatusOutput) {
	title := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	rows := make([]ui.CooldownRow, len(out.Categories))
	for i, c := range out.Categories {
		row := ui.CooldownRow{Category: c.Name, LastRefresh: "never"}
		if c.LastRefresh != nil {
			row.LastRefresh = c.LastRefresh.Format("2006-01-02 15:04:05")
		}
		if !c.Allowed {
			row.Remaining = formatRemaining(c.RemainingSeconds)
			if c.AvailableAt != nil {
				row.AvailableAt = c.AvailableAt.Format("15:04")
			}
		}
		rows[i] = row
	}

	fmt.Fprintln(w, title.Render("Refresh"))
	fmt.Fprintln(w, ui.RenderCooldownTable(rows))
	if out.Lock.Held {
		style := lipgloss.NewStyle().Foreground(ui.ColorWarning)
		fmt.Fprintln(w, style.Render(fmt.Sprintf("%s Refresh in progress, held by %s", ui.SymbolSkipped, out.Lock.Holder)))
	} else {
		fmt.Fprintln(w, muted.Render("No refresh running"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.Render("Host health"))
	fmt.Fprint(w, renderHealthRows(out.Health))
}

func renderHealth(summary health.Summary, inv *inventory.Inventory) string {
	return renderHealthRows(hostHealth(summary, inv))
}

func renderHealthRows(hosts []HostHealth) string {
	rows := make([]ui.HealthRow, len(hosts))
	for i, h := range hosts {
		rows[i] = ui.HealthRow{Status: h.Status, Name: h.Name, Address: h.Address, Owner: h.Owner}
	}
	out := ui.RenderHealthTable(rows)
	if len(rows) == 0 {
		out += "\n"
	}
	return out
}

// formatRemaining renders whole seconds as "4m 30s".
func formatRemaining(secs int) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}
