// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ijrepo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ijrepo configuration",
	Long: `Manage ijrepo configuration.

Configuration is stored in:
  - Linux: ~/.config/ijrepo/config.toml
  - macOS: ~/Library/Application Support/ijrepo/config.toml
  - Windows: %APPDATA%\ijrepo\config.toml

Every value can also be set through IJREPO_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Created ")+PathStyle.Render(path))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})
}

func showConfig(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if dir, err := config.ConfigDir(); err == nil {
		cfgPath := filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
		if _, statErr := os.Stat(cfgPath); statErr == nil {
			fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("Config file"), cfgPath)
		} else {
			fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("version"), SuccessStyle.Render(cfg.Version))
	fmt.Fprintf(out, "%s: %s (%s)\n", PathStyle.Render("edition"),
		SuccessStyle.Render(string(cfg.Edition)), cfg.Edition.ModuleName())
	if len(cfg.Plugins) == 0 {
		fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("plugins"), SubtitleStyle.Render("(none configured)"))
	} else {
		fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("plugins"), SuccessStyle.Render(strings.Join(cfg.Plugins, ", ")))
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		if dir, err := config.DefaultCacheDir(); err == nil {
			cacheDir = dir + " " + SubtitleStyle.Render("(default)")
		}
	}
	fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("cache_dir"), cacheDir)

	repoURL := cfg.RepositoryURL
	if repoURL == "" {
		repoURL = SubtitleStyle.Render("(default JetBrains repository)")
	}
	fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("repository_url"), repoURL)
	fmt.Fprintf(out, "%s: %s\n", PathStyle.Render("consumer"), SuccessStyle.Render(cfg.Consumer))
	fmt.Fprintf(out, "%s: %v\n", PathStyle.Render("verbose"), cfg.Verbose)

	return nil
}
