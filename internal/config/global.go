// SPDX-License-Identifier: MPL-2.0

package config

// Test and flag overrides. os.UserHomeDir does not reliably respect the
// HOME environment variable on all platforms, so tests point these at temp
// directories instead of mutating the environment.
var (
	configDirOverride  string
	configFileOverride string
)

// SetConfigDirOverride points ConfigDir at a custom directory.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFileOverride points Load at an explicit config file, as set by
// the --config flag.
func SetConfigFileOverride(path string) {
	configFileOverride = path
}

// Reset clears all overrides. Call from test cleanup.
func Reset() {
	configDirOverride = ""
	configFileOverride = ""
}
