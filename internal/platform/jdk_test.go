// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path/filepath"
	"testing"
)

func TestCompanionLibDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		javaHome string
		want     string
	}{
		{
			name:     "jdk home",
			javaHome: filepath.Join("/opt", "jdk8"),
			want:     filepath.Join("/opt", "jdk8", "lib"),
		},
		{
			name:     "jre inside jdk resolves to enclosing jdk lib",
			javaHome: filepath.Join("/opt", "jdk8", "jre"),
			want:     filepath.Join("/opt", "jdk8", "lib"),
		},
		{
			name:     "unset java home",
			javaHome: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := companionLibDir(tt.javaHome); got != tt.want {
				t.Errorf("companionLibDir(%q) = %q, want %q", tt.javaHome, got, tt.want)
			}
		})
	}
}

func TestJDKCompanionLibDir_UsesEnv(t *testing.T) {
	orig := getenv
	t.Cleanup(func() { getenv = orig })

	getenv = func(key string) string {
		if key == "JAVA_HOME" {
			return filepath.Join("/opt", "jdk17")
		}
		return ""
	}

	if got := JDKCompanionLibDir(); got != filepath.Join("/opt", "jdk17", "lib") {
		t.Errorf("JDKCompanionLibDir() = %q", got)
	}
}
