// SPDX-License-Identifier: MPL-2.0

// Package platform locates host-provided filesystem conventions the core
// pipeline depends on.
package platform

import (
	"os"
	"path/filepath"
)

//nolint:gochecknoglobals // Test seam for os.Getenv.
var getenv = os.Getenv

// JDKCompanionLibDir returns the lib directory of the host Java installation,
// the conventional location of companion jars such as tools.jar. For a
// JAVA_HOME pointing inside a jre/ subdirectory the enclosing JDK's lib
// directory is returned, since that is where the companion jars live.
//
// Returns "" when no Java installation is discoverable; callers treat an
// empty or missing directory as "no companion libraries", never as an error.
func JDKCompanionLibDir() string {
	return companionLibDir(getenv("JAVA_HOME"))
}

func companionLibDir(javaHome string) string {
	if javaHome == "" {
		return ""
	}
	home := filepath.Clean(javaHome)
	if filepath.Base(home) == "jre" {
		home = filepath.Dir(home)
	}
	return filepath.Join(home, "lib")
}
