// Command check-version-tag verifies that a project's declared version
// matches a release tag and that both are PEP-386 compliant.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/crepr/display"
	"github.com/teranos/crepr/errors"
	"github.com/teranos/crepr/logger"
	"github.com/teranos/crepr/versiontag"
)

// errCheckFailed marks a run whose diagnostics have already been printed
var errCheckFailed = errors.New("version check failed")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-version-tag <tag_version> [filename]",
		Short: "Check that the package version matches a release tag",
		Long: `Check that the package version matches a release tag.

The version is read from a "Version:" metadata line, a __version__
assignment, or the [project] table of a pyproject.toml. Without a
filename, PKG-INFO in the single *.egg-info directory is used.

With --from-git the tag pointing at HEAD is used and the only
argument, if any, is the filename.

Examples:
  check-version-tag 1.2.3
  check-version-tag 1.2.3 src/pkg/about.py
  check-version-tag --from-git --strip-v pyproject.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if fromGit, _ := cmd.Flags().GetBool("from-git"); fromGit {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			noColor, _ := cmd.Flags().GetBool("no-color")
			display.SetColor(!noColor && os.Getenv("NO_COLOR") == "")
			return logger.Initialize(logger.Options{Verbosity: verbosity, Writer: cmd.ErrOrStderr()})
		},
		RunE: run,
	}

	cmd.Flags().Bool("from-git", false, "Use the tag that points at HEAD")
	cmd.Flags().Bool("strip-v", false, "Drop a leading v from the tag (v1.2.3 -> 1.2.3)")
	cmd.Flags().BoolP("json", "j", false, "Output the result as JSON")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().CountP("verbose", "v", "Increase output verbosity")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	fromGit, _ := cmd.Flags().GetBool("from-git")
	stripV, _ := cmd.Flags().GetBool("strip-v")

	var tag, file string
	if fromGit {
		if len(args) == 1 {
			file = args[0]
		}
		var err error
		if tag, err = versiontag.TagAtHead("."); err != nil {
			return err
		}
	} else {
		tag = args[0]
		if len(args) == 2 {
			file = args[1]
		}
	}
	if stripV {
		tag = versiontag.StripV(tag)
	}

	if file == "" {
		var err error
		if file, err = versiontag.DefaultFile("."); err != nil {
			return err
		}
	}

	version, err := versiontag.ReadVersion(file)
	if err != nil {
		return err
	}
	logger.Infow("Comparing version with tag", logger.FieldFile, file, "version", version, "tag", tag)

	result := versiontag.Check(version, tag)
	if display.ShouldOutputJSON(cmd) {
		if err := display.OutputJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		for _, problem := range result.Problems {
			display.Failure(cmd.OutOrStdout(), "%s", problem)
		}
	}

	if !result.OK() {
		return errCheckFailed
	}
	return nil
}

func reportError(w io.Writer, err error) {
	if errors.Is(err, errCheckFailed) {
		return
	}
	display.Failure(w, "Error: %v", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		reportError(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
