package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/crepr/am"
	"github.com/teranos/crepr/display"
	"github.com/teranos/crepr/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage crepr configuration",
	Long: `am - Manage crepr configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.config/crepr/crepr.toml)
3. [tool.crepr] in the nearest pyproject.toml
4. Project config (crepr.toml or .crepr.toml, searched upwards)
5. Environment variables (CREPR_* prefix)
6. Command line flags

Examples:
  crepr am show                    # Show current configuration
  crepr am show --format json      # Show configuration in JSON format
  crepr am get repr.kwarg_splat    # Get specific config value
  crepr am where                   # Show where each value comes from
  crepr am init                    # Write crepr.toml with current values`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective crepr configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., repr.kwarg_splat, watch.debounce_ms)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show every setting with its effective value and the source that set it:
a file path, an environment variable, or the built-in default.`,
	RunE: runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to crepr.toml",
	Long: `Write the effective configuration to crepr.toml in the current
directory. An existing file is kept as crepr.toml.back1 (up to three
backups are rotated).`,
	Args: cobra.NoArgs,
	RunE: runAmInit,
}

func init() {
	amShowCmd.Flags().String("format", am.FormatTOML, "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format, _ := cmd.Flags().GetString("format")
	if display.ShouldOutputJSON(cmd) {
		format = am.FormatJSON
	}

	data, err := am.Marshal(cfg, format)
	if err != nil {
		return err
	}
	if format != am.FormatJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "# crepr configuration")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if !am.GetViper().IsSet(key) {
		return errors.WithHintf(
			errors.Newf("configuration key %q not found", key),
			"known keys: %v", am.Keys())
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings := am.Where()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), settings)
	}

	out := cmd.OutOrStdout()
	for _, s := range settings {
		valueStr := fmt.Sprintf("%v", s.Value)
		if len(valueStr) > 50 {
			valueStr = valueStr[:47] + "..."
		}
		fmt.Fprintf(out, "%-22s = %-12s [%s] %s\n", s.Key, valueStr, s.Source, s.SourcePath)
	}
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to resolve working directory")
	}

	path, err := am.WriteProjectConfig(dir, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
