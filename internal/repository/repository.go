// SPDX-License-Identifier: MPL-2.0

// Package repository publishes a synthesized module into an on-disk
// ivy-style repository and computes the filename patterns a dependency
// resolver must register to locate the module's artifacts without any
// remote lookup.
package repository

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"ijrepo/internal/descriptor"
)

type (
	// Publisher writes module descriptors for one consuming project. The
	// consumer id suffixes descriptor file names so several consumers in the
	// same build do not clobber each other's descriptors.
	Publisher struct {
		consumer string
		logger   *log.Logger
	}

	// PublisherOption configures a Publisher during construction.
	PublisherOption func(*Publisher)

	// PatternSet is the ordered list of path patterns the resolver
	// registers. Placeholders follow ivy convention: [artifact],
	// [revision], [classifier], [ext]. Registration order is lookup
	// precedence.
	PatternSet struct {
		Patterns []string
	}

	// Dependency is one injected dependency declaration binding a consumer
	// configuration to a configuration of the synthesized module.
	Dependency struct {
		Group   string
		Name    string
		Version string
		// Scope is the module configuration the consumer configuration of
		// the same name depends on.
		Scope descriptor.Scope
	}
)

// ivy-module XML wire format.
type (
	ivyModule struct {
		XMLName        xml.Name      `xml:"ivy-module"`
		Version        string        `xml:"version,attr"`
		Info           ivyInfo       `xml:"info"`
		Configurations ivyConfList   `xml:"configurations"`
		Publications   ivyPublicList `xml:"publications"`
	}

	ivyInfo struct {
		Organisation string `xml:"organisation,attr"`
		Module       string `xml:"module,attr"`
		Revision     string `xml:"revision,attr"`
	}

	ivyConfList struct {
		Confs []ivyConf `xml:"conf"`
	}

	ivyConf struct {
		Name string `xml:"name,attr"`
	}

	ivyPublicList struct {
		Artifacts []ivyArtifact `xml:"artifact"`
	}

	ivyArtifact struct {
		Name       string `xml:"name,attr"`
		Type       string `xml:"type,attr"`
		Ext        string `xml:"ext,attr"`
		Classifier string `xml:"classifier,attr,omitempty"`
		Conf       string `xml:"conf,attr"`
	}
)

// WithPublisherLogger overrides the logger used for publish diagnostics.
func WithPublisherLogger(l *log.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = l
	}
}

// NewPublisher creates a Publisher for the given consumer id.
func NewPublisher(consumer string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		consumer: consumer,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DescriptorPath returns the deterministic location of the module descriptor
// under repoDir: <repoDir>/<group>/<name>/<version>/ivy-<consumer>.xml.
func (p *Publisher) DescriptorPath(m *descriptor.Module, repoDir string) string {
	return filepath.Join(repoDir, m.Group, m.Name, m.Version, "ivy-"+p.consumer+".xml")
}

// Publish serializes the module descriptor beneath repoDir and returns the
// pattern set the resolver must register. Publishing is a purely local
// transformation; repeated calls overwrite the descriptor (last write wins).
//
// sourcesParent is the directory holding the resolved sources jar, or empty
// when no sources were found; hostLibDir and pluginIDs parameterize the
// trailing patterns.
func (p *Publisher) Publish(m *descriptor.Module, repoDir, sourcesParent, hostLibDir string, pluginIDs []string) (*PatternSet, error) {
	destDir := filepath.Dir(p.DescriptorPath(m, repoDir))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating descriptor dir %s: %w", destDir, err)
	}

	if err := p.writeDescriptor(m, repoDir); err != nil {
		return nil, err
	}

	set := p.patterns(m, repoDir, sourcesParent, hostLibDir, pluginIDs)
	p.logger.Debug("published module descriptor",
		"module", m.Group+":"+m.Name+":"+m.Version, "patterns", len(set.Patterns))
	return set, nil
}

// Dependencies returns the two dependency declarations a consuming project
// injects into its main build configurations: compile against the module's
// compile configuration and runtime against its runtime configuration.
func (p *Publisher) Dependencies(m *descriptor.Module) []Dependency {
	return []Dependency{
		{Group: m.Group, Name: m.Name, Version: m.Version, Scope: descriptor.ScopeCompile},
		{Group: m.Group, Name: m.Name, Version: m.Version, Scope: descriptor.ScopeRuntime},
	}
}

func (p *Publisher) writeDescriptor(m *descriptor.Module, repoDir string) error {
	doc := ivyModule{
		Version: "2.0",
		Info: ivyInfo{
			Organisation: m.Group,
			Module:       m.Name,
			Revision:     m.Version,
		},
	}
	for _, s := range m.Scopes {
		doc.Configurations.Confs = append(doc.Configurations.Confs, ivyConf{Name: string(s)})
	}
	for _, a := range m.Artifacts {
		doc.Publications.Artifacts = append(doc.Publications.Artifacts, ivyArtifact{
			Name:       a.Name,
			Type:       a.Type,
			Ext:        a.Ext,
			Classifier: a.Classifier,
			Conf:       string(a.Scope),
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding module descriptor: %w", err)
	}

	path := p.DescriptorPath(m, repoDir)
	if err := os.WriteFile(path, append([]byte(xml.Header), data...), 0o644); err != nil {
		return fmt.Errorf("writing module descriptor %s: %w", path, err)
	}
	return nil
}

// patterns assembles the registration-ordered pattern list:
// sources-parent pattern (only when sources were found), then the module's
// own consumer-scoped directory, then the distribution's root lib
// directory, then one pattern per bundled plugin, then the host
// companion-library directory.
func (p *Publisher) patterns(m *descriptor.Module, repoDir, sourcesParent, hostLibDir string, pluginIDs []string) *PatternSet {
	var set PatternSet

	if sourcesParent != "" {
		set.Patterns = append(set.Patterns,
			filepath.Join(sourcesParent, "[artifact]-[revision]-[classifier].[ext]"))
	}

	set.Patterns = append(set.Patterns,
		filepath.Join(repoDir, m.Group, m.Name, m.Version, "[artifact]-"+p.consumer+".[ext]"),
		filepath.Join(repoDir, "lib", "[artifact].[ext]"))

	for _, id := range pluginIDs {
		set.Patterns = append(set.Patterns,
			filepath.Join(repoDir, "plugins", id, "lib", "[artifact].[ext]"))
	}

	if hostLibDir != "" {
		set.Patterns = append(set.Patterns, filepath.Join(hostLibDir, "[artifact].[ext]"))
	}

	return &set
}
