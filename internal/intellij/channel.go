// SPDX-License-Identifier: MPL-2.0

// Package intellij talks to the upstream IntelliJ artifact repository: it
// selects the release channel for a version string, downloads distribution
// archives by coordinate, resolves version aliases via repository metadata,
// and performs the best-effort lookup of companion sources jars.
package intellij

import "strings"

// DefaultRepositoryURL is the root of the upstream artifact repository.
// Channel-specific indexes live directly beneath it.
const DefaultRepositoryURL = "https://www.jetbrains.com/intellij-repository"

// Channel is the release stream a version is fetched from.
type Channel string

const (
	// ChannelReleases serves stable builds.
	ChannelReleases Channel = "releases"
	// ChannelSnapshots serves EAP and nightly builds.
	ChannelSnapshots Channel = "snapshots"
)

// ChannelFor derives the channel from a version string: any version
// containing "SNAPSHOT" is served from the snapshots index, everything else
// from releases. "LATEST-EAP-SNAPSHOT" therefore selects snapshots and
// "2023.1" selects releases.
func ChannelFor(version string) Channel {
	if strings.Contains(version, "SNAPSHOT") {
		return ChannelSnapshots
	}
	return ChannelReleases
}

// URL returns the channel-selected index URL beneath the given repository
// root.
func (c Channel) URL(repoRoot string) string {
	return strings.TrimRight(repoRoot, "/") + "/" + string(c)
}
