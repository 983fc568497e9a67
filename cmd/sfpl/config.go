package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"sfpl/pkg/config"
	"sfpl/pkg/ui"
)

// configCmd represents the config command. Its subcommands load the
// configuration themselves so a broken file can still be inspected.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage sfpl configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (SFPL_*)
  - .env and ~/.sfpl.env files
  - Configuration file (YAML or TOML)
  - Default values`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Long: `Write the default configuration to .sfpl.yaml, or to the --config path.
A path ending in .toml is written as TOML.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".sfpl.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	ui.PrintSuccess("Wrote " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	// the PIN is tagged out of every encoding
	data, err := yaml.Marshal(loaded)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	loaded, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	var warnings []string
	if dir := loaded.Output.JacketDirectory; dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("jacket directory %s does not exist yet", dir))
		}
	}
	if loaded.Logging.File != "" {
		if _, err := os.Stat(filepath.Dir(loaded.Logging.File)); err != nil {
			warnings = append(warnings, fmt.Sprintf("log directory for %s is not accessible", loaded.Logging.File))
		}
	}

	for _, w := range warnings {
		ui.PrintWarning(w)
	}
	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Catalog", loaded.Site.BaseURL)
	ui.PrintInfo("Era", loaded.Site.Era)
	ui.PrintInfo("Log level", loaded.Logging.Level)
	return nil
}
