// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// writeZip creates a zip archive at path containing the given entries.
// Entries with a trailing slash become directories.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		if name[len(name)-1] == '/' {
			if _, err := w.Create(name); err != nil {
				t.Fatal(err)
			}
			continue
		}
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRootFor(t *testing.T) {
	t.Parallel()

	got := RootFor(filepath.Join("downloads", "ideaIC-2023.1.zip"))
	want := filepath.Join("downloads", "ideaIC-2023.1")
	if got != want {
		t.Errorf("RootFor: got %q, want %q", got, want)
	}
}

func TestMaterialize_ExtractsAndMarks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "ideaIC-2023.1.zip")
	writeZip(t, archive, map[string]string{
		"lib/":      "",
		"lib/a.jar": "jar-a",
		"build.txt": "231.8109",
	})

	root, err := New().Materialize(archive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != filepath.Join(dir, "ideaIC-2023.1") {
		t.Errorf("unexpected root %q", root)
	}

	data, err := os.ReadFile(filepath.Join(root, "lib", "a.jar"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "jar-a" {
		t.Errorf("extracted content: got %q", data)
	}

	info, err := os.Stat(filepath.Join(root, MarkerFile))
	if err != nil {
		t.Fatalf("marker missing: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("marker must be zero bytes, got %d", info.Size())
	}
}

func TestMaterialize_IdempotentWithMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "ideaIC-2023.1.zip")
	writeZip(t, archive, map[string]string{"lib/a.jar": "original"})

	c := New()
	root, err := c.Materialize(archive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A manual edit after the marker exists must survive a second call.
	edited := filepath.Join(root, "lib", "a.jar")
	if err := os.WriteFile(edited, []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	root2, err := c.Materialize(archive)
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if root2 != root {
		t.Errorf("second call returned %q, want %q", root2, root)
	}

	data, err := os.ReadFile(edited)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "edited" {
		t.Errorf("manual edit was clobbered: got %q", data)
	}
}

func TestMaterialize_MissingMarkerInvalidatesCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "ideaIC-2023.1.zip")
	writeZip(t, archive, map[string]string{"lib/a.jar": "fresh"})

	c := New()
	root, err := c.Materialize(archive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a partial/stale cache: marker gone, stale file present.
	if err := os.Remove(filepath.Join(root, MarkerFile)); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(root, "stale.txt")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "lib", "a.jar"), []byte("tampered"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Materialize(archive); err != nil {
		t.Fatalf("unexpected error on re-materialization: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived re-materialization")
	}
	data, err := os.ReadFile(filepath.Join(root, "lib", "a.jar"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh" {
		t.Errorf("tampered file not restored: got %q", data)
	}
	if _, err := os.Stat(filepath.Join(root, MarkerFile)); err != nil {
		t.Errorf("marker not recreated: %v", err)
	}
}

func TestMaterialize_RejectsEscapingEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeZip(t, archive, map[string]string{"../escape.txt": "nope"})

	if _, err := New().Materialize(archive); err == nil {
		t.Fatal("expected error for path-escaping archive entry")
	}
	if _, err := os.Stat(filepath.Join(dir, "evil", MarkerFile)); !os.IsNotExist(err) {
		t.Error("failed extraction must not leave a marker")
	}
}

func TestMaterialize_MissingArchiveIsFatal(t *testing.T) {
	t.Parallel()

	if _, err := New().Materialize(filepath.Join(t.TempDir(), "absent.zip")); err == nil {
		t.Fatal("expected error for missing archive")
	}
}
