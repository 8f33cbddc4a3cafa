package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/clusterwatch/internal/config"
	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/refresh"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

func newRefreshCmd(flags *globalFlags, d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [category]",
		Short: "Run the collection playbook for a category",
		Long: `Refresh a category by running its Ansible playbook.

A category can be refreshed once per cooldown window, no matter who asks.
If another refresh of any category is running, this one is refused rather
than queued. Without a category, an interactive terminal shows a picker.

Examples:
  clusterwatch refresh
  clusterwatch refresh gpu
  clusterwatch refresh inventory`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags, d)
			if err != nil {
				return err
			}
			var category string
			if len(args) == 1 {
				category = args[0]
			} else if category, err = pickCategory(a, d.interactive()); err != nil {
				return err
			}
			return refreshCommand(cmd.Context(), a, category, cmd.OutOrStdout())
		},
	}
}

func (d *deps) interactive() bool {
	if d.stdinTTY != nil {
		return d.stdinTTY()
	}
	return ui.IsTerminal(os.Stdin)
}

// pickCategory asks which category to refresh. It needs a terminal on stdin.
func pickCategory(a *app, interactive bool) (string, error) {
	if !interactive {
		return "", errors.New(errors.ErrConfig,
			"No category given",
			"Pick one of: "+strings.Join(a.coord.Categories(), ", ")+" (e.g. clusterwatch refresh gpu)")
	}

	options, err := categoryOptions(a)
	if err != nil {
		return "", err
	}

	var category string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select category to refresh").
				Options(options...).
				Value(&category),
		),
	)
	if err := form.Run(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't get your selection",
			"Try again or use: clusterwatch refresh <category>")
	}
	return category, nil
}

// categoryOptions labels each category with its description and whether
// it can be refreshed right now.
func categoryOptions(a *app) ([]huh.Option[string], error) {
	names := a.coord.Categories()
	options := make([]huh.Option[string], len(names))
	for i, name := range names {
		st, err := a.coord.Status(name)
		if err != nil {
			return nil, err
		}
		label := name
		if desc := a.cfg.Categories[name].Description; desc != "" {
			label += " - " + desc
		}
		if st.Decision.Allowed {
			label += " (ready)"
		} else {
			label += fmt.Sprintf(" (wait %s)", formatRemaining(st.Decision.Seconds()))
		}
		options[i] = huh.NewOption(label, name)
	}
	return options, nil
}

// refreshCommand runs the pre-check and, when allowed, a full refresh.
func refreshCommand(ctx context.Context, a *app, category string, w io.Writer) error {
	if err := config.ValidateCategory(a.cfg, category); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := a.coord.Status(category)
	if err != nil {
		return err
	}
	if !st.Decision.Allowed {
		res := refresh.Result{Category: category, Outcome: refresh.OutcomeCooldownActive, Decision: st.Decision}
		fmt.Fprintf(w, "%s %s Available at %s.\n", ui.SymbolSkipped, res.Notice(), st.AvailableAt.Format("15:04"))
		return &reportedError{code: ExitRetry, cause: errors.New(errors.ErrCooldown, res.Notice(), "")}
	}

	spinner := ui.NewSpinner(w, "Refreshing "+category)
	spinner.Start()
	res := a.coord.Run(ctx, category)

	switch {
	case res.Outcome.OK():
		spinner.Success(res.Notice())
	case res.Outcome.Retryable():
		spinner.Skip(res.Notice())
	default:
		spinner.Fail(res.Notice())
	}

	if res.Summary != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderHealth(*res.Summary, a.inv))
	}

	if res.ReleaseErr != nil {
		a.log.Warn("%v", res.ReleaseErr)
	}
	return resultError(res)
}

// resultError maps a refresh result to the command's exit.
func resultError(res refresh.Result) error {
	switch {
	case res.Outcome.OK():
		return nil
	case res.Outcome.Retryable():
		return &reportedError{code: ExitRetry, cause: res.Err}
	default:
		return &reportedError{code: ExitError, cause: res.Err}
	}
}
