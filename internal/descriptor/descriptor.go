// SPDX-License-Identifier: MPL-2.0

// Package descriptor defines the synthetic module model for a materialized
// SDK distribution and the builder that derives it from an extracted tree.
//
// A Module groups the jar files discovered under the distribution root into
// dependency scopes (compile, runtime, sources). The model is built once per
// resolution pass and never mutated after it has been published.
package descriptor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"ijrepo/internal/scan"
)

// Group is the fixed organisation every synthesized module is published under.
const Group = "com.jetbrains"

// Scope names the dependency bucket an artifact belongs to.
type Scope string

const (
	// ScopeCompile holds jars needed at compile time.
	ScopeCompile Scope = "compile"
	// ScopeRuntime holds jars needed only at run time (bundled plugins,
	// host companion libraries).
	ScopeRuntime Scope = "runtime"
	// ScopeSources holds the optional sources jar.
	ScopeSources Scope = "sources"
)

// AllScopes returns every scope a module declares. All three are always
// declared, even when a scope carries zero artifacts, so a consumer can
// depend against a uniform triple-scope module.
func AllScopes() []Scope {
	return []Scope{ScopeCompile, ScopeSources, ScopeRuntime}
}

// Artifact is a single file published under a module scope.
type Artifact struct {
	// SourceFile is the absolute path of the file on disk.
	SourceFile string
	// Name is the file base name with its extension stripped.
	Name string
	// Type and Ext are both "jar" for distribution jars.
	Type string
	Ext  string
	// Classifier is empty except for the sources artifact ("sources").
	Classifier string
	// Scope places the artifact in one of the declared configurations.
	Scope Scope
}

// Module is the synthetic package synthesized from one distribution.
type Module struct {
	Group     string
	Name      string
	Version   string
	Scopes    []Scope
	Artifacts []Artifact
}

// ErrNoCompileArtifacts indicates the scan found no compile-scope jars. A
// module without compile jars is unusable, so this aborts resolution.
var ErrNoCompileArtifacts = errors.New("no compile-scope jars found in distribution")

type (
	// Builder scans a materialized distribution root and classifies the
	// discovered files into a Module.
	Builder struct {
		hostLibDir string
		logger     *log.Logger
	}

	// BuilderOption configures a Builder during construction.
	BuilderOption func(*Builder)
)

// WithHostLibDir sets the host companion-library directory scanned for
// *tools.jar (conventionally the Java installation's sibling lib directory).
// An empty or missing directory contributes nothing.
func WithHostLibDir(dir string) BuilderOption {
	return func(b *Builder) {
		b.hostLibDir = dir
	}
}

// WithLogger overrides the logger used for scan diagnostics.
func WithLogger(l *log.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a Builder. Without options it scans no host library
// directory and logs to the default logger.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build scans rootDir and derives the module for the given name and version.
//
// Inclusion rules, each with a fixed scope:
//  1. lib*/*.jar under rootDir                      -> compile
//  2. plugins/<id>/lib/*.jar per bundled plugin id  -> runtime
//  3. *tools.jar under the host library directory   -> runtime
//  4. sourcesFile, when non-empty                   -> sources (classifier "sources")
//
// Rules 2 and 3 contributing nothing is valid and common. Zero compile
// artifacts is fatal: the resulting module would be unusable.
func (b *Builder) Build(rootDir, name string, pluginIDs []string, sourcesFile, version string) (*Module, error) {
	m := &Module{
		Group:   Group,
		Name:    name,
		Version: version,
		Scopes:  AllScopes(),
	}

	compileJars, err := scan.Glob(rootDir, []string{"lib*/*.jar"})
	if err != nil {
		return nil, fmt.Errorf("scanning compile jars: %w", err)
	}
	if len(compileJars) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoCompileArtifacts, rootDir)
	}
	b.appendJars(m, compileJars, ScopeCompile)

	var pluginPatterns []string
	for _, id := range pluginIDs {
		pluginPatterns = append(pluginPatterns, "plugins/"+id+"/lib/*.jar")
	}
	if len(pluginPatterns) > 0 {
		pluginJars, err := scan.Glob(rootDir, pluginPatterns)
		if err != nil {
			return nil, fmt.Errorf("scanning plugin jars: %w", err)
		}
		b.appendJars(m, pluginJars, ScopeRuntime)
	}

	if b.hostLibDir != "" {
		hostJars, err := scan.Glob(b.hostLibDir, []string{"*tools.jar"})
		if err != nil {
			return nil, fmt.Errorf("scanning host library directory: %w", err)
		}
		b.appendJars(m, hostJars, ScopeRuntime)
	}

	if sourcesFile != "" {
		m.Artifacts = append(m.Artifacts, Artifact{
			SourceFile: sourcesFile,
			Name:       name,
			Type:       "jar",
			Ext:        "jar",
			Classifier: "sources",
			Scope:      ScopeSources,
		})
	}

	return m, nil
}

// appendJars adds one jar artifact per file. Within a scope, artifact names
// must be unique for pattern-based lookup to be unambiguous; a later file
// whose stripped name collides with an earlier one in the same scope is
// dropped with a warning rather than silently shadowing it.
func (b *Builder) appendJars(m *Module, files []string, scope Scope) {
	for _, f := range files {
		name := stripExt(f)
		if prev, dup := m.find(name, scope); dup {
			b.logger.Warn("duplicate artifact name in scope, keeping first",
				"scope", scope, "name", name, "kept", prev.SourceFile, "dropped", f)
			continue
		}
		m.Artifacts = append(m.Artifacts, Artifact{
			SourceFile: f,
			Name:       name,
			Type:       "jar",
			Ext:        "jar",
			Scope:      scope,
		})
	}
}

// find returns the artifact with the given name and scope, if present.
func (m *Module) find(name string, scope Scope) (*Artifact, bool) {
	for i := range m.Artifacts {
		if m.Artifacts[i].Name == name && m.Artifacts[i].Scope == scope {
			return &m.Artifacts[i], true
		}
	}
	return nil, false
}

// InScope returns the artifacts carrying the given scope, in build order.
func (m *Module) InScope(scope Scope) []Artifact {
	var out []Artifact
	for _, a := range m.Artifacts {
		if a.Scope == scope {
			out = append(out, a)
		}
	}
	return out
}

// stripExt returns the file base name with its extension removed.
func stripExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
