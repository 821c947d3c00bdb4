// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"

	"ijrepo/pkg/cueutil"
)

//go:embed config_schema.cue
var configSchema string

const (
	// EditionCommunity selects the ideaIC distribution line.
	EditionCommunity Edition = "IC"
	// EditionUltimate selects the ideaIU distribution line.
	EditionUltimate Edition = "IU"
)

// ErrInvalidEdition is returned when an Edition value is not recognized.
var ErrInvalidEdition = errors.New("invalid edition")

type (
	// Edition selects the distribution line a version is resolved against.
	Edition string

	// Config is the resolved tool configuration: file, environment, and
	// flag layers merged, defaults applied, schema-validated.
	Config struct {
		// Version is the distribution version to resolve, or "latest" to
		// pin the newest published version from the repository metadata.
		Version string `json:"version" toml:"version" mapstructure:"version"`

		// Edition is "IC" (community) or "IU" (ultimate).
		Edition Edition `json:"edition" toml:"edition" mapstructure:"edition"`

		// Plugins lists bundled plugin ids whose jars join the runtime
		// scope, e.g. "git4idea". May be empty.
		Plugins []string `json:"plugins" toml:"plugins" mapstructure:"plugins"`

		// CacheDir holds downloaded archives and extraction roots. Empty
		// means the platform cache directory.
		CacheDir string `json:"cache_dir" toml:"cache_dir" mapstructure:"cache_dir"`

		// RepositoryURL overrides the upstream repository root. Empty
		// means the default JetBrains repository.
		RepositoryURL string `json:"repository_url" toml:"repository_url" mapstructure:"repository_url"`

		// Consumer identifies the consuming project in descriptor file
		// names so parallel consumers do not clobber each other.
		Consumer string `json:"consumer" toml:"consumer" mapstructure:"consumer"`

		// Verbose enables debug-level logging.
		Verbose bool `json:"verbose" toml:"verbose" mapstructure:"verbose"`
	}
)

// ModuleName returns the synthesized module name for the edition:
// "ideaIC" or "ideaIU".
func (e Edition) ModuleName() string {
	return "idea" + string(e)
}

// DefaultConfig returns the configuration used when no file, environment,
// or flag overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Version:  "latest",
		Edition:  EditionCommunity,
		Plugins:  []string{},
		Consumer: "default",
	}
}

// Validate checks the configuration against the embedded CUE schema.
func (c *Config) Validate() error {
	if c.Plugins == nil {
		c.Plugins = []string{}
	}
	if err := cueutil.Validate(configSchema, "#Config", c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ErrInvalidConfig is the sentinel wrapped by schema validation failures.
var ErrInvalidConfig = errors.New("invalid config")
