package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/crepr/am"
	"github.com/teranos/crepr/crepr"
	"github.com/teranos/crepr/display"
)

// ReportMissingCmd lists classes that lack a __repr__
var ReportMissingCmd = &cobra.Command{
	Use:   "report-missing <files...>",
	Short: "List classes without __repr__",
	Long: `Print "<file>: <Class>" for every class that would get a generated
__repr__ but does not define one yet.

Exits 0 unless no file could be loaded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := &crepr.Runner{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
		_, err := runner.ReportMissing(cmd.Context(), args, display.ShouldOutputJSON(cmd))
		return err
	},
}

// WatchCmd re-runs report-missing whenever a file is saved
var WatchCmd = &cobra.Command{
	Use:   "watch <files...>",
	Short: "Report missing __repr__ methods on every save",
	Long: `Watch files and print the classes still lacking __repr__ each time one
of them is written. Stop with Ctrl-C.

The debounce period is read from watch.debounce_ms.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := &crepr.Runner{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
		watcher, err := crepr.NewWatcher(runner, args, cfg.Watch.Debounce())
		if err != nil {
			return err
		}
		return watcher.Run(ctx)
	},
}

func init() {
	ReportMissingCmd.Flags().BoolP("json", "j", false, "Output the classes as JSON")
}
