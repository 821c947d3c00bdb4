// SPDX-License-Identifier: MPL-2.0

// Package cache materializes distribution archives into reusable extraction
// directories.
//
// A marker file distinguishes a fully extracted directory from a missing or
// partial one: the directory's contents are trustworthy iff the marker
// exists. The marker is written last, so a crash mid-extraction leaves no
// marker and the next run re-extracts from scratch.
package cache

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// MarkerFile is the zero-byte sentinel written inside an extraction root
// after the archive's full contents have landed on disk.
const MarkerFile = ".extracted"

type (
	// Cache extracts distribution archives next to where they were
	// downloaded and guards the result with a marker file.
	Cache struct {
		logger *log.Logger
	}

	// Option configures a Cache during construction.
	Option func(*Cache)
)

// WithLogger overrides the logger used for extraction diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New creates a Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RootFor returns the extraction directory for an archive: a sibling
// directory named after the archive's base name minus its ".zip" suffix.
func RootFor(archivePath string) string {
	base := strings.TrimSuffix(filepath.Base(archivePath), ".zip")
	return filepath.Join(filepath.Dir(archivePath), base)
}

// Materialize ensures the archive at archivePath is fully extracted and
// returns the extraction root.
//
// When the marker file is present, the existing directory is returned
// unchanged: repeated calls are idempotent and side-effect free, and files
// altered inside the root after extraction are left alone. When the marker
// is absent (directory missing or partially populated), the directory is
// deleted, recreated, and re-extracted in full before the marker is written.
//
// Extraction I/O errors are fatal; no partially extracted tree ever carries
// a marker.
func (c *Cache) Materialize(archivePath string) (string, error) {
	root := RootFor(archivePath)
	marker := filepath.Join(root, MarkerFile)

	if _, err := os.Stat(marker); err == nil {
		c.logger.Debug("archive already extracted", "root", root)
		return root, nil
	}

	// Stale or partial content must not mix with a fresh extraction.
	if err := os.RemoveAll(root); err != nil {
		return "", fmt.Errorf("removing stale extraction dir %s: %w", root, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("creating extraction dir %s: %w", root, err)
	}

	c.logger.Info("extracting distribution archive", "archive", archivePath, "root", root)
	if err := extractZip(archivePath, root); err != nil {
		return "", fmt.Errorf("extracting %s: %w", archivePath, err)
	}

	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return "", fmt.Errorf("writing extraction marker: %w", err)
	}

	return root, nil
}

// extractZip unpacks the archive's full contents into destDir, rejecting
// entries whose resolved path would escape it.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = r.Close() }() // read-only archive handle

	for _, f := range r.File {
		destPath := filepath.Join(destDir, filepath.FromSlash(f.Name))

		rel, err := filepath.Rel(destDir, destPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("archive entry %q escapes extraction dir", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", rel, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("creating parent of %s: %w", rel, err)
		}
		if err := extractFile(f, destPath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

// extractFile writes a single archive entry to destPath, preserving its mode.
func extractFile(f *zip.File, destPath string) (err error) {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }() // read-only entry handle

	mode := f.Mode()
	if mode == 0 {
		mode = 0o644
	}

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dest.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(dest, rc)
	return err
}
