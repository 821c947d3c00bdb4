// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != "latest" {
		t.Errorf("default version: got %q", cfg.Version)
	}
	if cfg.Edition != EditionCommunity {
		t.Errorf("default edition: got %q", cfg.Edition)
	}
	if len(cfg.Plugins) != 0 {
		t.Errorf("default plugins: got %v", cfg.Plugins)
	}
	if cfg.Consumer != "default" {
		t.Errorf("default consumer: got %q", cfg.Consumer)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "2023.1"
edition = "IU"
plugins = ["git4idea", "java"]
consumer = "myplugin"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFileOverride(path)
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != "2023.1" || cfg.Edition != EditionUltimate {
		t.Errorf("got version %q edition %q", cfg.Version, cfg.Edition)
	}
	if len(cfg.Plugins) != 2 || cfg.Plugins[0] != "git4idea" {
		t.Errorf("plugins: got %v", cfg.Plugins)
	}
	if cfg.Consumer != "myplugin" {
		t.Errorf("consumer: got %q", cfg.Consumer)
	}
}

func TestLoad_SchemaRejectsBadEdition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`edition = "XX"`), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFileOverride(path)
	t.Cleanup(Reset)

	_, err := Load()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_SchemaRejectsBadPluginID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`plugins = ["../escape"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFileOverride(path)
	t.Cleanup(Reset)

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEditionModuleName(t *testing.T) {
	t.Parallel()

	if got := EditionCommunity.ModuleName(); got != "ideaIC" {
		t.Errorf("IC module name: got %q", got)
	}
	if got := EditionUltimate.ModuleName(); got != "ideaIU" {
		t.Errorf("IU module name: got %q", got)
	}
}

func TestWriteDefault(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second write must refuse to clobber.
	if _, err := WriteDefault(); err == nil {
		t.Fatal("expected error when config file already exists")
	}

	// The written file must load and validate.
	SetConfigFileOverride(path)
	if _, err := Load(); err != nil {
		t.Fatalf("written default config does not load: %v", err)
	}
}
