// SPDX-License-Identifier: MPL-2.0

package intellij

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchArchive(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/com/jetbrains/intellij/idea/ideaIC/2023.1/ideaIC-2023.1.zip" {
			t.Errorf("unexpected request path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if _, err := w.Write([]byte("zip-bytes")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := NewClient(ChannelReleases, WithBaseURL(srv.URL))
	coords := DistributionCoordinates("ideaIC", "2023.1")

	got, err := client.FetchArchive(context.Background(), coords, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "ideaIC-2023.1.zip") {
		t.Errorf("unexpected archive path %q", got)
	}

	data, err := os.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "zip-bytes" {
		t.Errorf("archive content: got %q", data)
	}

	// Second fetch must hit the local file, not the server.
	if _, err := client.FetchArchive(context.Background(), coords, dir); err != nil {
		t.Fatalf("unexpected error on second fetch: %v", err)
	}
	if hits != 1 {
		t.Errorf("expected 1 server hit, got %d", hits)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".ijrepo-download-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFetchArchive_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewClient(ChannelReleases, WithBaseURL(srv.URL))
	_, err := client.FetchArchive(context.Background(), DistributionCoordinates("ideaIC", "9999.9"), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestFetchArchive_ServerErrorLeavesNoFile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := NewClient(ChannelReleases, WithBaseURL(srv.URL))
	if _, err := client.FetchArchive(context.Background(), DistributionCoordinates("ideaIC", "2023.1"), dir); err == nil {
		t.Fatal("expected error for server failure")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed fetch must leave no files, found %v", entries)
	}
}

func TestResolveLatest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "latest marker wins",
			body: `<metadata>
  <groupId>com.jetbrains.intellij.idea</groupId>
  <artifactId>ideaIC</artifactId>
  <versioning>
    <latest>2023.2</latest>
    <versions><version>2023.1</version><version>2023.2</version></versions>
  </versioning>
</metadata>`,
			want: "2023.2",
		},
		{
			name: "highest version from list",
			body: `<metadata>
  <versioning>
    <versions>
      <version>2022.3.1</version>
      <version>2023.1</version>
      <version>2022.3</version>
    </versions>
  </versioning>
</metadata>`,
			want: "2023.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/com/jetbrains/intellij/idea/ideaIC/maven-metadata.xml" {
					http.NotFound(w, r)
					return
				}
				if _, err := w.Write([]byte(tt.body)); err != nil {
					t.Errorf("writing response: %v", err)
				}
			}))
			defer srv.Close()

			client := NewClient(ChannelReleases, WithBaseURL(srv.URL))
			got, err := client.ResolveLatest(context.Background(), "ideaIC")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveLatest: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveLatest_EmptyMetadata(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(`<metadata><versioning/></metadata>`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(ChannelReleases, WithBaseURL(srv.URL))
	if _, err := client.ResolveLatest(context.Background(), "ideaIC"); err == nil {
		t.Fatal("expected error for metadata without versions")
	}
}

func TestVersionLess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"2022.3", "2023.1", true},
		{"2023.1", "2022.3", false},
		{"2023.1", "2023.1.2", true},
		{"231.8109", "231.9011", true},
		{"LATEST-EAP-SNAPSHOT", "ZZZ", true}, // non-semver falls back to string order
	}
	for _, tt := range tests {
		if got := versionLess(tt.a, tt.b); got != tt.want {
			t.Errorf("versionLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
