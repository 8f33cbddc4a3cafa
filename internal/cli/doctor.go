package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/clusterwatch/internal/collect"
	"github.com/rileyhilliard/clusterwatch/internal/config"
	"github.com/rileyhilliard/clusterwatch/internal/doctor"
	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

func newDoctorCmd(flags *globalFlags, d *deps) *cobra.Command {
	var fix, asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose config, Ansible and state directory issues",
		Long: `Run diagnostic checks against the current setup.

Checks:
  - Config file found and valid
  - ansible-playbook installed, inventory and playbooks present
  - State directory writable, refresh lock state, timestamp files readable

Examples:
  clusterwatch doctor
  clusterwatch doctor --fix
  clusterwatch doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loadErr := config.LoadOrDefault(flags.config)

			var locator doctor.Locator
			if cfg != nil {
				ac := collect.NewAnsibleCollector(cfg.Ansible.Inventory, cfg.Ansible.WorkDir, cfg.Playbooks())
				ac.Binary = cfg.Ansible.Path
				locator = ac
			}
			if d.locator != nil {
				locator = d.locator
			}

			checks := doctor.Checks(flags.config, cfg, loadErr, locator)
			results := doctor.RunAll(checks)

			if fix && doctor.FixableCount(results) > 0 {
				if err := doctor.FixAll(checks, results); err != nil {
					return errors.WrapWithCode(err, errors.ErrState,
						"Couldn't fix every issue",
						"Fix the remaining issues by hand")
				}
				results = doctor.RunAll(checks)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := WriteJSONSuccess(w, results); err != nil {
					return err
				}
			} else {
				rows := make([]ui.DoctorCheckRow, len(results))
				for i, r := range results {
					rows[i] = ui.DoctorCheckRow{
						Status:     r.Status.String(),
						Category:   r.Category,
						Message:    r.Message,
						Suggestion: r.Suggestion,
					}
				}
				fmt.Fprint(w, ui.RenderDoctorTable(rows))
				fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(doctor.Summary(results)))
				if n := doctor.FixableCount(results); n > 0 && !fix {
					fmt.Fprintf(w, "Run 'clusterwatch doctor --fix' to fix %d of them.\n", n)
				}
			}

			if doctor.HasFailures(results) {
				return &reportedError{code: ExitError}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "fix what can be fixed automatically")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}
