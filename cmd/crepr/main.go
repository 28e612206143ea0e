package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/crepr/am"
	"github.com/teranos/crepr/cmd/crepr/commands"
	"github.com/teranos/crepr/display"
	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
)

var rootCmd = &cobra.Command{
	Use:   "crepr",
	Short: "crepr - generate __repr__ methods from constructor signatures",
	Long: `crepr - generate __repr__ methods from constructor signatures.

crepr reads Python source files, inspects the __init__ of every top-level
class and writes a __repr__ that echoes the constructor arguments. The
generated method can be previewed, shown as a diff, written in place, or
removed again.

Available commands:
  add             - Generate __repr__ methods
  remove          - Remove generated __repr__ methods
  report-missing  - List classes without __repr__
  watch           - Re-run report-missing on every save
  am              - Manage crepr configuration ("I am")
  version         - Show version information

Examples:
  crepr add models.py --diff        # Preview as a unified diff
  crepr add models.py --inline      # Write the methods in place
  crepr remove models.py --inline   # Remove them again
  crepr report-missing src/*.py     # Classes still without __repr__`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		// Console logger for warnings raised while the config is read
		if err := logger.Initialize(logger.Options{
			Verbosity: verbosity,
			Writer:    cmd.ErrOrStderr(),
		}); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}

		cfg, err := am.Load()
		if err != nil {
			return err
		}

		if err := logger.Initialize(logger.Options{
			JSON:      cfg.Log.JSON,
			Verbosity: verbosity,
			Theme:     cfg.Log.Theme,
			Writer:    cmd.ErrOrStderr(),
		}); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}

		noColor, _ := cmd.Flags().GetBool("no-color")
		display.SetColor(cfg.Output.Color && !noColor && os.Getenv("NO_COLOR") == "")

		logger.Debugw("Configuration loaded", "verbosity", logger.LevelName(verbosity))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON where supported")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(commands.AddCmd)
	rootCmd.AddCommand(commands.RemoveCmd)
	rootCmd.AddCommand(commands.ReportMissingCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		commands.ReportError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
