// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the per-cache-directory record of materialized
// distributions, kept beside the extraction roots.
const ManifestFile = "manifest.toml"

type (
	// Manifest lists the distributions materialized under one cache
	// directory. It is a convenience record for inspection and cleanup;
	// damage is non-fatal since it is rebuilt on the next materialization.
	Manifest struct {
		Distributions []ManifestEntry `toml:"distribution"`
	}

	// ManifestEntry records one materialized distribution.
	ManifestEntry struct {
		Version     string    `toml:"version"`
		Archive     string    `toml:"archive"`
		Root        string    `toml:"root"`
		ExtractedAt time.Time `toml:"extracted_at"`
	}
)

// LoadManifest reads the manifest in dir. A missing or unreadable manifest
// yields an empty one: the manifest is advisory, never load-bearing.
func LoadManifest(dir string) *Manifest {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return &Manifest{}
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return &Manifest{}
	}
	return &m
}

// Record upserts an entry keyed by extraction root.
func (m *Manifest) Record(e ManifestEntry) {
	for i := range m.Distributions {
		if m.Distributions[i].Root == e.Root {
			m.Distributions[i] = e
			return
		}
	}
	m.Distributions = append(m.Distributions, e)
}

// Save writes the manifest into dir.
func (m *Manifest) Save(dir string) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding cache manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("writing cache manifest: %w", err)
	}
	return nil
}

// Clean removes every recorded extraction root and archive under dir, then
// the manifest itself. Entries whose paths are already gone are skipped.
func (m *Manifest) Clean(dir string) error {
	var errs []error
	for _, e := range m.Distributions {
		if e.Root != "" {
			if err := os.RemoveAll(e.Root); err != nil {
				errs = append(errs, fmt.Errorf("removing %s: %w", e.Root, err))
			}
		}
		if e.Archive != "" {
			if err := os.Remove(e.Archive); err != nil && !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("removing %s: %w", e.Archive, err))
			}
		}
	}
	if err := os.Remove(filepath.Join(dir, ManifestFile)); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("removing manifest: %w", err))
	}
	return errors.Join(errs...)
}
