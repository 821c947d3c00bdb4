// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file (and its parent directories) under dir.
func writeFile(t *testing.T, dir string, rel string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    []string
		patterns []string
		want     []string // relative, slash-separated
	}{
		{
			name:     "lib prefix matches any top-level dir starting with lib",
			files:    []string{"lib/a.jar", "lib-src/b.jar", "libs/c.jar", "other/d.jar"},
			patterns: []string{"lib*/*.jar"},
			want:     []string{"lib-src/b.jar", "lib/a.jar", "libs/c.jar"},
		},
		{
			name:     "plugin lib rule is one level deep only",
			files:    []string{"plugins/git4idea/lib/b.jar", "plugins/git4idea/lib/nested/c.jar"},
			patterns: []string{"plugins/git4idea/lib/*.jar"},
			want:     []string{"plugins/git4idea/lib/b.jar"},
		},
		{
			name:     "union across patterns is deduplicated",
			files:    []string{"lib/a.jar"},
			patterns: []string{"lib*/*.jar", "lib/*.jar"},
			want:     []string{"lib/a.jar"},
		},
		{
			name:     "suffix wildcard",
			files:    []string{"tools.jar", "sa-tools.jar", "tools.txt"},
			patterns: []string{"*tools.jar"},
			want:     []string{"sa-tools.jar", "tools.jar"},
		},
		{
			name:     "no matches yields empty result",
			files:    []string{"lib/a.txt"},
			patterns: []string{"lib*/*.jar"},
			want:     nil,
		},
		{
			name:     "directories are not matched",
			files:    []string{"lib/sub.jar/inner.txt"},
			patterns: []string{"lib*/*.jar"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, dir, f)
			}

			got, err := Glob(dir, tt.patterns)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("got %d matches %v, want %d", len(got), got, len(tt.want))
			}
			for i, w := range tt.want {
				wantAbs := filepath.Join(dir, filepath.FromSlash(w))
				if got[i] != wantAbs {
					t.Errorf("match[%d]: got %q, want %q", i, got[i], wantAbs)
				}
			}
		})
	}
}

func TestGlob_MissingBaseDir(t *testing.T) {
	t.Parallel()

	got, err := Glob(filepath.Join(t.TempDir(), "absent"), []string{"*.jar"})
	if err != nil {
		t.Fatalf("missing base dir must not be an error, got: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestGlob_InvalidPattern(t *testing.T) {
	t.Parallel()

	if _, err := Glob(t.TempDir(), []string{"[unclosed"}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestGlob_BaseDirIsFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "plain.txt")
	if _, err := Glob(path, []string{"*.jar"}); err == nil {
		t.Fatal("expected error when scan root is a file")
	}
}
