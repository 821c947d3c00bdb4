// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ijrepo/internal/cache"
	"ijrepo/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clean the distribution cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached distributions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCache(cmd)
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove cached archives and extraction roots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cleanCache(cmd)
		},
	})
}

// cacheDirFor resolves the effective cache directory from the loaded
// configuration.
func cacheDirFor() (string, error) {
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return config.DefaultCacheDir()
}

func listCache(cmd *cobra.Command) error {
	dir, err := cacheDirFor()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	m := cache.LoadManifest(dir)
	if len(m.Distributions) == 0 {
		fmt.Fprintln(out, SubtitleStyle.Render("Cache is empty."))
		return nil
	}

	fmt.Fprintln(out, TitleStyle.Render("Cached distributions")+SubtitleStyle.Render(" ("+dir+")"))
	for _, e := range m.Distributions {
		status := SuccessStyle.Render("extracted")
		if _, statErr := os.Stat(filepath.Join(e.Root, cache.MarkerFile)); statErr != nil {
			status = WarningStyle.Render("incomplete")
		}
		fmt.Fprintf(out, "  %s  %s  %s\n",
			SuccessStyle.Render(e.Version), status, SubtitleStyle.Render(e.ExtractedAt.Format("2006-01-02 15:04")))
		fmt.Fprintf(out, "    %s\n", PathStyle.Render(e.Root))
	}
	return nil
}

func cleanCache(cmd *cobra.Command) error {
	dir, err := cacheDirFor()
	if err != nil {
		return err
	}

	m := cache.LoadManifest(dir)
	if len(m.Distributions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Cache is already empty."))
		return nil
	}

	if err := m.Clean(dir); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d distribution(s) from %s\n",
		SuccessStyle.Render("Removed"), len(m.Distributions), PathStyle.Render(dir))
	return nil
}
