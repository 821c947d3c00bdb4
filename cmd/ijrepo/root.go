// SPDX-License-Identifier: MPL-2.0

// ijrepo materializes an IntelliJ Platform distribution into a local
// ivy-style repository: it downloads the SDK archive, extracts it once into
// a marker-guarded cache, scans the extraction into a synthetic module, and
// writes the ivy descriptor plus the artifact pattern set a consuming build
// needs to resolve against it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ijrepo/internal/config"
	"ijrepo/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// cfg is the merged configuration loaded before any subcommand runs.
	cfg *config.Config

	// rootCmd represents the base command when called without subcommands.
	rootCmd = &cobra.Command{
		Use:   "ijrepo",
		Short: "Materialize IntelliJ Platform SDKs into a local ivy repository",
		Long: TitleStyle.Render("ijrepo") + SubtitleStyle.Render(" - local ivy repositories for IntelliJ Platform SDKs") + `

ijrepo downloads an IntelliJ Platform distribution, extracts it into a
local cache exactly once, and publishes an ivy descriptor over the
extracted jars so a build can depend on the SDK like any other module.

Compile jars come from the distribution's lib directories, bundled plugin
jars join the runtime scope, and a sources jar is attached when the
upstream repository publishes one.

` + SubtitleStyle.Render("Examples:") + `
  ijrepo resolve                          Resolve the configured version
  ijrepo resolve --version 2023.1         Resolve a pinned version
  ijrepo resolve --edition IU             Resolve the ultimate edition
  ijrepo config show                      Show current configuration
  ijrepo cache list                       List cached distributions`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config dir)")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. Called by main; ExitError codes propagate
// to the process exit status.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the configuration and applies the global flags.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFileOverride(cfgFile)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		// Surface config problems but keep going on defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}

	if cfg.Verbose {
		verbose = true
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// render their suggestions; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
