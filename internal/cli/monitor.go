package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/lock"
	"github.com/rileyhilliard/clusterwatch/internal/logger"
	"github.com/rileyhilliard/clusterwatch/internal/monitor"
	"github.com/rileyhilliard/clusterwatch/internal/refresh"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

// appSource feeds the dashboard from the same stores the status command reads.
type appSource struct {
	a *app
}

func (s appSource) Snapshot() (monitor.Snapshot, error) {
	snap := monitor.Snapshot{Taken: s.a.coord.Now().In(s.a.loc)}
	for _, name := range s.a.coord.Categories() {
		st, err := s.a.coord.Status(name)
		if err != nil {
			return monitor.Snapshot{}, err
		}
		if !st.Last.IsZero() {
			st.Last = st.Last.In(s.a.loc)
		}
		snap.Categories = append(snap.Categories, st)
	}
	if lock.IsLocked(s.a.cfg.Lock.Path) {
		snap.LockHeld = true
		snap.LockHolder = lock.Holder(s.a.cfg.Lock.Path)
	}
	for _, h := range hostHealth(s.a.summaries.Load(), s.a.inv) {
		snap.Hosts = append(snap.Hosts, ui.HealthRow{Status: h.Status, Name: h.Name, Address: h.Address, Owner: h.Owner})
	}
	return snap, nil
}

func (s appSource) Refresh(ctx context.Context, category string) refresh.Result {
	return s.a.coord.Refresh(ctx, category)
}

func newMonitorCmd(flags *globalFlags, d *deps) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Live dashboard of cooldowns, the refresh lock and host health",
		Long: `Open a full-screen dashboard that polls refresh state and lets you start
a refresh for the selected category. Cooldowns and the refresh lock apply
exactly as they do for 'clusterwatch refresh'.

Examples:
  clusterwatch monitor
  clusterwatch monitor --interval 5s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsTerminal(cmd.OutOrStdout()) {
				return errors.New(errors.ErrConfig,
					"monitor needs an interactive terminal",
					"Use 'clusterwatch status' for scripts and pipes")
			}
			// Log lines would tear the alternate screen.
			if !flags.verbose {
				d.log = logger.Noop()
			}
			a, err := loadApp(flags, d)
			if err != nil {
				return err
			}
			return monitor.Run(appSource{a: a}, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "how often to re-read state")
	return cmd
}
