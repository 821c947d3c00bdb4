// SPDX-License-Identifier: MPL-2.0

// Package resolve orchestrates one resolution pass: fetch the distribution
// archive, materialize it, scan it into a module, look up sources
// best-effort, and publish the local repository.
//
// Configuration is two-phase. A Setup is pure data and stays mutable until
// Run is invoked; Run executes the pipeline exactly once per build
// invocation and is guarded by the consumer's "no prior dependencies
// declared" condition. Ordering inside Run is strict: materialization
// completes (marker written) before any scan, scanning completes before the
// descriptor is published, and the caller registers the returned patterns
// before resolving coordinates against the synthetic module.
package resolve

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"ijrepo/internal/cache"
	"ijrepo/internal/descriptor"
	"ijrepo/internal/intellij"
	"ijrepo/internal/issue"
	"ijrepo/internal/platform"
	"ijrepo/internal/repository"
)

// ErrAlreadyRan indicates Run was invoked a second time on the same
// Resolver. One resolution pass exists per build invocation.
var ErrAlreadyRan = errors.New("resolution already ran")

type (
	// Setup is the first-phase configuration: user-supplied, mutable up to
	// the Run cutoff, and free of I/O.
	Setup struct {
		// Version to resolve; "latest" pins the newest published version.
		Version string
		// ModuleName is the synthesized module name ("ideaIC", "ideaIU").
		ModuleName string
		// PluginIDs lists bundled plugins contributing runtime jars.
		PluginIDs []string
		// CacheDir holds archives and extraction roots.
		CacheDir string
		// RepositoryRoot overrides the upstream repository; empty selects
		// the default.
		RepositoryRoot string
		// Consumer identifies the consuming project in descriptor names.
		Consumer string
		// PriorDependencies reports that the consuming configuration
		// already declares dependencies; resolution is skipped entirely.
		PriorDependencies bool
	}

	// Distribution is the immutable record of the archive resolved in this
	// pass.
	Distribution struct {
		Version     string
		Channel     intellij.Channel
		ArchiveFile string
		RootDir     string
	}

	// Result is the outcome of one resolution pass.
	Result struct {
		// Skipped is true when the prior-dependencies guard suppressed the
		// pass; all other fields are zero.
		Skipped bool

		Distribution Distribution
		Module       *descriptor.Module
		// DescriptorPath is where the ivy descriptor was written.
		DescriptorPath string
		// Patterns must be registered with the resolver, in order.
		Patterns *repository.PatternSet
		// Dependencies are the two declarations to inject into the
		// consumer's compile and runtime configurations.
		Dependencies []repository.Dependency
		// SourcesFile is the resolved sources jar, or "" when none found.
		SourcesFile string
	}

	// Resolver executes the pipeline for one Setup.
	Resolver struct {
		setup      Setup
		client     *intellij.Client
		cache      *cache.Cache
		hostLibDir string
		logger     *log.Logger
		ran        bool
	}

	// Option configures a Resolver during construction.
	Option func(*Resolver)
)

// WithClient injects a pre-built repository client, bypassing the
// channel-derived default. Used by tests and mirror setups.
func WithClient(c *intellij.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// WithHostLibDir overrides the host companion-library directory.
func WithHostLibDir(dir string) Option {
	return func(r *Resolver) {
		r.hostLibDir = dir
	}
}

// WithLogger overrides the pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver for the given setup. The setup is copied: later
// mutations of the caller's value do not affect the resolver.
func New(setup Setup, opts ...Option) *Resolver {
	r := &Resolver{
		setup:      setup,
		hostLibDir: platform.JDKCompanionLibDir(),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cache = cache.New(cache.WithLogger(r.logger))
	return r
}

// Run executes the resolution pass. It may be called once; a second call
// returns ErrAlreadyRan. When the setup declares prior dependencies the
// pass is skipped and a Result with Skipped set is returned.
func (r *Resolver) Run(ctx context.Context) (*Result, error) {
	if r.ran {
		return nil, ErrAlreadyRan
	}
	r.ran = true

	if r.setup.PriorDependencies {
		r.logger.Debug("consumer already declares dependencies, skipping resolution")
		return &Result{Skipped: true}, nil
	}

	version, client, err := r.resolveVersion(ctx)
	if err != nil {
		return nil, err
	}

	coords := intellij.DistributionCoordinates(r.setup.ModuleName, version)

	archive, err := client.FetchArchive(ctx, coords, r.setup.CacheDir)
	if err != nil {
		return nil, issue.WrapResource(err, "fetch distribution archive", coords.String()).
			Suggest("Check the version exists in the upstream repository",
				"Snapshot versions must contain \"SNAPSHOT\" to select the snapshots channel")
	}

	rootDir, err := r.cache.Materialize(archive)
	if err != nil {
		return nil, issue.WrapResource(err, "materialize distribution archive", archive)
	}
	r.recordManifest(version, archive, rootDir)

	// Best-effort: a miss is informational, never an error.
	sources := client.ResolveSources(ctx, coords, filepath.Join(r.setup.CacheDir, "sources"))
	if !sources.Found {
		r.logger.Info("no sources artifact available", "coordinates", coords.String(), "reason", sources.Reason)
	}

	builder := descriptor.NewBuilder(
		descriptor.WithHostLibDir(r.hostLibDir),
		descriptor.WithLogger(r.logger),
	)
	module, err := builder.Build(rootDir, r.setup.ModuleName, r.setup.PluginIDs, sources.Path, version)
	if err != nil {
		return nil, issue.WrapResource(err, "build module descriptor", rootDir)
	}

	pub := repository.NewPublisher(r.setup.Consumer, repository.WithPublisherLogger(r.logger))

	sourcesParent := ""
	if sources.Found {
		sourcesParent = filepath.Dir(sources.Path)
	}
	patterns, err := pub.Publish(module, rootDir, sourcesParent, r.hostLibDir, r.setup.PluginIDs)
	if err != nil {
		return nil, issue.Wrap(err, "publish module descriptor")
	}

	return &Result{
		Distribution: Distribution{
			Version:     version,
			Channel:     intellij.ChannelFor(version),
			ArchiveFile: archive,
			RootDir:     rootDir,
		},
		Module:         module,
		DescriptorPath: pub.DescriptorPath(module, rootDir),
		Patterns:       patterns,
		Dependencies:   pub.Dependencies(module),
		SourcesFile:    sources.Path,
	}, nil
}

// resolveVersion pins the version to resolve and returns the
// channel-matched client for it. A configured "latest" is resolved against
// the releases metadata first.
func (r *Resolver) resolveVersion(ctx context.Context) (string, *intellij.Client, error) {
	version := r.setup.Version

	if version == "" || version == "latest" {
		client := r.clientFor(intellij.ChannelReleases)
		latest, err := client.ResolveLatest(ctx, r.setup.ModuleName)
		if err != nil {
			return "", nil, issue.Wrap(err, "resolve latest distribution version")
		}
		r.logger.Info("pinned latest version", "version", latest)
		version = latest
	}

	return version, r.clientFor(intellij.ChannelFor(version)), nil
}

// clientFor returns the injected client when present, otherwise one bound
// to the given channel of the configured repository root.
func (r *Resolver) clientFor(channel intellij.Channel) *intellij.Client {
	if r.client != nil {
		return r.client
	}
	var opts []intellij.ClientOption
	if r.setup.RepositoryRoot != "" {
		opts = append(opts, intellij.WithBaseURL(channel.URL(r.setup.RepositoryRoot)))
	}
	opts = append(opts, intellij.WithClientLogger(r.logger))
	return intellij.NewClient(channel, opts...)
}

// recordManifest upserts this distribution into the cache manifest. The
// manifest is advisory; failures are logged and swallowed.
func (r *Resolver) recordManifest(version, archive, rootDir string) {
	m := cache.LoadManifest(r.setup.CacheDir)
	m.Record(cache.ManifestEntry{
		Version:     version,
		Archive:     archive,
		Root:        rootDir,
		ExtractedAt: time.Now().UTC(),
	})
	if err := m.Save(r.setup.CacheDir); err != nil {
		r.logger.Warn("could not update cache manifest", "err", err)
	}
}
