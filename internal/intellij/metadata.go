// SPDX-License-Identifier: MPL-2.0

package intellij

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/mod/semver"
)

// mavenMetadata is the wire format of an artifact-level maven-metadata.xml.
type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// ResolveLatest fetches the version metadata for the given edition name and
// returns the newest published version. The metadata's own latest marker
// wins when present; otherwise the highest entry of the version list is
// chosen by semver ordering where the versions normalize to valid semver,
// with plain string ordering as the tie-break for those that do not.
func (c *Client) ResolveLatest(ctx context.Context, name string) (string, error) {
	coords := DistributionCoordinates(name, "")

	body, err := c.get(ctx, c.baseURL+"/"+coords.MetadataPath())
	if err != nil {
		return "", fmt.Errorf("fetching version metadata for %s: %w", name, err)
	}
	defer func() { _ = body.Close() }() // read-only response body

	var meta mavenMetadata
	if err := xml.NewDecoder(io.LimitReader(body, maxMetadataBytes)).Decode(&meta); err != nil {
		return "", fmt.Errorf("decoding version metadata for %s: %w", name, err)
	}

	if meta.Versioning.Latest != "" {
		return meta.Versioning.Latest, nil
	}
	if len(meta.Versioning.Versions) == 0 {
		return "", fmt.Errorf("version metadata for %s lists no versions", name)
	}

	newest := meta.Versioning.Versions[0]
	for _, v := range meta.Versioning.Versions[1:] {
		if versionLess(newest, v) {
			newest = v
		}
	}
	return newest, nil
}

// versionLess reports whether a orders before b.
func versionLess(a, b string) bool {
	na, nb := "v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v")
	if semver.IsValid(na) && semver.IsValid(nb) {
		return semver.Compare(na, nb) < 0
	}
	return a < b
}
