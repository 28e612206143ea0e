package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/crepr/am"
	"github.com/teranos/crepr/crepr"
	"github.com/teranos/crepr/display"
	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
)

// AddCmd generates __repr__ methods
var AddCmd = &cobra.Command{
	Use:   "add <files...>",
	Short: "Generate __repr__ methods for classes",
	Long: `Generate a __repr__ for every top-level class whose constructor takes
only keyword-capable parameters.

Without a mode flag the proposed methods are listed per class. Classes
with positional-only parameters or *args are skipped.

Examples:
  crepr add models.py
  crepr add models.py --diff
  crepr add models.py --inline --kwarg-splat "..."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

// RemoveCmd removes generated __repr__ methods
var RemoveCmd = &cobra.Command{
	Use:   "remove <files...>",
	Short: "Remove __repr__ methods from classes",
	Long: `Remove the __repr__ of every class whose constructor would qualify for
a generated one. The method text is checked line by line before it is
removed; a file that changed on disk is left untouched.

Examples:
  crepr remove models.py --diff
  crepr remove models.py --inline`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	AddCmd.Flags().StringP("kwarg-splat", "k", am.DefaultKwargSplat, "Text rendered for **kwargs")
	AddCmd.Flags().Bool("ignore-existing", false, "Skip classes that already define __repr__")
	addModeFlags(AddCmd)
	addModeFlags(RemoveCmd)
}

func addModeFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("diff", "d", false, "Show a unified diff")
	cmd.Flags().BoolP("inline", "i", false, "Write the changes in place")
	cmd.Flags().BoolP("print", "p", false, "Print the whole modified file")
	cmd.MarkFlagsMutuallyExclusive("diff", "inline", "print")
}

// modeFromFlags picks the output mode; flag exclusivity is enforced by cobra
func modeFromFlags(cmd *cobra.Command) crepr.Mode {
	if v, _ := cmd.Flags().GetBool("diff"); v {
		return crepr.ModeDiff
	}
	if v, _ := cmd.Flags().GetBool("inline"); v {
		return crepr.ModeInline
	}
	if v, _ := cmd.Flags().GetBool("print"); v {
		return crepr.ModePrint
	}
	return crepr.ModeChanges
}

func newRunner(cmd *cobra.Command) (*crepr.Runner, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, err
	}

	opts := crepr.Options{
		Splat:          cfg.Repr.KwargSplat,
		IgnoreExisting: cfg.Repr.IgnoreExisting,
	}
	if cmd.Flags().Changed("kwarg-splat") {
		opts.Splat, _ = cmd.Flags().GetString("kwarg-splat")
	}
	if cmd.Flags().Changed("ignore-existing") {
		opts.IgnoreExisting, _ = cmd.Flags().GetBool("ignore-existing")
	}
	if opts.Splat == "" {
		return nil, errors.WithHint(errors.New("--kwarg-splat must not be empty"), `use "{}" or "..."`)
	}

	return &crepr.Runner{
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
		Mode:    modeFromFlags(cmd),
		Options: opts,
	}, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	summary, err := runner.Add(cmd.Context(), args)
	finish(cmd, summary, runner.Mode)
	return err
}

func runRemove(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	summary, err := runner.Remove(cmd.Context(), args)
	finish(cmd, summary, runner.Mode)
	return err
}

// finish logs the batch summary, and echoes it as JSON on stderr when requested
func finish(cmd *cobra.Command, s crepr.Summary, mode crepr.Mode) {
	logger.Infow("Batch finished",
		"files", s.Files,
		"loaded", s.Loaded,
		"failed", s.Failed,
		"rejected", s.Rejected,
		logger.FieldChanges, s.Changes,
		logger.FieldMode, mode.String())

	if display.ShouldOutputJSON(cmd) {
		_ = display.OutputJSON(cmd.ErrOrStderr(), s)
	}
}

// ReportError prints a command failure in red with its hints. Per-file
// failures have already been reported by the runner.
func ReportError(w io.Writer, err error) {
	display.Failure(w, "Error: %v", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}
