package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/clusterwatch/internal/collect"
	"github.com/rileyhilliard/clusterwatch/internal/doctor"
	"github.com/rileyhilliard/clusterwatch/internal/errors"
	"github.com/rileyhilliard/clusterwatch/internal/logger"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitRetry = 2
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config  string
	verbose bool
	noColor bool
}

// deps lets tests replace process-level collaborators.
type deps struct {
	collector collect.Collector // nil builds an AnsibleCollector from config
	locator   doctor.Locator    // nil locates ansible-playbook from config
	now       func() time.Time
	log       logger.Logger
	stdinTTY  func() bool // nil checks os.Stdin
}

// NewRootCmd builds the clusterwatch command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&deps{})
}

func newRootCmd(d *deps) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "clusterwatch",
		Short: "Cluster health with rate-limited, coordinated refreshes",
		Long: `clusterwatch shows the health of a small lab cluster and refreshes it on
demand by running Ansible playbooks.

Refreshes are shared by everyone looking at the cluster: one lock stops two
refreshes from running at once, and each category has a cooldown so the
hosts are not polled more often than the configured window.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor || os.Getenv("NO_COLOR") != "" || !ui.IsTerminal(cmd.OutOrStdout()) {
				ui.DisableColors()
			}
			if d.log == nil {
				if flags.verbose {
					d.log = logger.NewVerboseLogger("clusterwatch")
				} else {
					d.log = logger.NewEnvLogger("clusterwatch")
				}
			}
		},
	}

	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default: .clusterwatch.yaml, then ~/.config/clusterwatch/config.yaml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every refresh step")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newRefreshCmd(flags, d),
		newStatusCmd(flags, d),
		newHostsCmd(flags, d),
		newDoctorCmd(flags, d),
		newMonitorCmd(flags, d),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	var reported *reportedError
	if stderrors.As(err, &reported) {
		return reported.code
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "✗") {
		msg = "✗ " + msg
	}
	fmt.Fprint(stderr, strings.TrimRight(msg, "\n")+"\n")
	if errors.Retryable(err) {
		return ExitRetry
	}
	return ExitError
}

// reportedError is returned once a command has already told the user what
// went wrong; only the exit code is left to deliver.
type reportedError struct {
	code  int
	cause error
}

func (e *reportedError) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *reportedError) Unwrap() error {
	return e.cause
}
