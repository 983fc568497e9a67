package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"sfpl/pkg/config"
	"sfpl/pkg/logger"
	"sfpl/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	era        string
	baseURL    string
	barcode    string
	jacketDir  string
	timeout    time.Duration

	// cfg is loaded once before any subcommand runs
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sfpl",
	Short: "Command-line client for the San Francisco Public Library catalog",
	Long: `sfpl searches the SFPL catalog and manages a library card account from the terminal.

Features:
  - Keyword, field and advanced boolean searches, with an interactive browser
  - Checkouts, holds and shelves; place, cancel and renew
  - Branch lookup and opening hours
  - Patron profiles, lists, follows and book details
  - Library card storage in the system keychain or an encrypted file`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile, commandLineFlags(cmd))
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Initialize(&cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		ui.SetColor(cfg.Output.Color)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", describeError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.sfpl.yaml or ~/.config/sfpl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&era, "era", "", "catalog site era (ajax or legacy)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "catalog base URL")
	rootCmd.PersistentFlags().StringVarP(&barcode, "barcode", "b", "", "library card to use from the saved cards")
	rootCmd.PersistentFlags().StringVar(&jacketDir, "jacket-dir", "", "directory for downloaded book jackets")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP request timeout")

	rootCmd.SetVersionTemplate(`sfpl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// commandLineFlags collects the global flags the user actually set
func commandLineFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = value
		}
	}
	set("log-level", logLevel)
	set("no-color", noColor)
	set("era", era)
	set("base-url", baseURL)
	set("barcode", barcode)
	set("jacket-dir", jacketDir)
	set("timeout", timeout)
	return flags
}
