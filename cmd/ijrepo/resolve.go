// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ijrepo/internal/config"
	"ijrepo/internal/descriptor"
	"ijrepo/internal/resolve"
)

var (
	flagVersion    string
	flagEdition    string
	flagPlugins    []string
	flagCacheDir   string
	flagRepository string
	flagConsumer   string
	flagSkip       bool

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a distribution and publish its local ivy repository",
		Long: `Resolve a distribution and publish its local ivy repository.

Downloads the configured IntelliJ Platform archive (once), extracts it
into the cache (once), and writes an ivy descriptor covering its compile
jars, the requested plugin jars, and - when published upstream - a
sources jar. Prints the descriptor location and the artifact patterns to
register, in lookup order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd)
		},
	}
)

func init() {
	resolveCmd.Flags().StringVar(&flagVersion, "version", "", `distribution version to resolve ("latest" pins the newest)`)
	resolveCmd.Flags().StringVar(&flagEdition, "edition", "", "distribution edition: IC or IU")
	resolveCmd.Flags().StringSliceVar(&flagPlugins, "plugin", nil, "bundled plugin id to include (repeatable)")
	resolveCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "directory for archives and extraction roots")
	resolveCmd.Flags().StringVar(&flagRepository, "repository-url", "", "upstream repository root override")
	resolveCmd.Flags().StringVar(&flagConsumer, "consumer", "", "consumer id used in descriptor file names")
	resolveCmd.Flags().BoolVar(&flagSkip, "skip-if-configured", false, "skip resolution when the consumer already declares dependencies")
}

// resolveSetup merges flag overrides over the loaded configuration and
// produces the pipeline setup. Flags win over file and environment layers.
func resolveSetup(cmd *cobra.Command) (resolve.Setup, error) {
	merged := *cfg
	if cmd.Flags().Changed("version") {
		merged.Version = flagVersion
	}
	if cmd.Flags().Changed("edition") {
		merged.Edition = config.Edition(flagEdition)
	}
	if cmd.Flags().Changed("plugin") {
		merged.Plugins = flagPlugins
	}
	if cmd.Flags().Changed("cache-dir") {
		merged.CacheDir = flagCacheDir
	}
	if cmd.Flags().Changed("repository-url") {
		merged.RepositoryURL = flagRepository
	}
	if cmd.Flags().Changed("consumer") {
		merged.Consumer = flagConsumer
	}
	if err := merged.Validate(); err != nil {
		return resolve.Setup{}, err
	}

	cacheDir := merged.CacheDir
	if cacheDir == "" {
		var err error
		cacheDir, err = config.DefaultCacheDir()
		if err != nil {
			return resolve.Setup{}, fmt.Errorf("resolving cache directory: %w", err)
		}
	}

	return resolve.Setup{
		Version:           merged.Version,
		ModuleName:        merged.Edition.ModuleName(),
		PluginIDs:         merged.Plugins,
		CacheDir:          cacheDir,
		RepositoryRoot:    merged.RepositoryURL,
		Consumer:          merged.Consumer,
		PriorDependencies: flagSkip,
	}, nil
}

func runResolve(cmd *cobra.Command) error {
	setup, err := resolveSetup(cmd)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	res, err := resolve.New(setup).Run(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	if res.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Dependencies already declared; nothing to resolve."))
		return nil
	}

	printResult(cmd, res)
	return nil
}

func printResult(cmd *cobra.Command, res *resolve.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render("Resolved ")+SuccessStyle.Render(
		fmt.Sprintf("%s %s", res.Module.Name, res.Distribution.Version)))
	fmt.Fprintf(out, "%s: %s\n", SubtitleStyle.Render("channel"), res.Distribution.Channel)
	fmt.Fprintf(out, "%s: %s\n", SubtitleStyle.Render("extracted to"), PathStyle.Render(res.Distribution.RootDir))
	fmt.Fprintf(out, "%s: %s\n", SubtitleStyle.Render("descriptor"), PathStyle.Render(res.DescriptorPath))
	if res.SourcesFile != "" {
		fmt.Fprintf(out, "%s: %s\n", SubtitleStyle.Render("sources"), PathStyle.Render(res.SourcesFile))
	} else {
		fmt.Fprintf(out, "%s: %s\n", SubtitleStyle.Render("sources"), SubtitleStyle.Render("(not published upstream)"))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s (%d artifacts):\n", SubtitleStyle.Render("scopes"), len(res.Module.Artifacts))
	for _, scope := range descriptor.AllScopes() {
		fmt.Fprintf(out, "  %-8s %d\n", scope, len(res.Module.InScope(scope)))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("artifact patterns, in lookup order:"))
	for _, pat := range res.Patterns.Patterns {
		fmt.Fprintf(out, "  %s\n", PathStyle.Render(pat))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("dependencies to declare:"))
	for _, dep := range res.Dependencies {
		fmt.Fprintf(out, "  %s: %s:%s:%s\n", dep.Scope, dep.Group, dep.Name, dep.Version)
	}
}
