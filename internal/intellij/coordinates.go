// SPDX-License-Identifier: MPL-2.0

package intellij

import (
	"fmt"
	"strings"
)

// FetchGroup is the coordinate group distribution archives are published
// under in the upstream repository. It differs from the group the local
// module is synthesized under.
const FetchGroup = "com.jetbrains.intellij.idea"

// Coordinates identify one artifact in the upstream repository.
type Coordinates struct {
	Group   string
	Name    string
	Version string
}

// DistributionCoordinates returns the coordinates of the distribution
// archive for an edition name ("ideaIC", "ideaIU") and version.
func DistributionCoordinates(name, version string) Coordinates {
	return Coordinates{
		Group:   FetchGroup,
		Name:    name,
		Version: version,
	}
}

// FileName returns the artifact file name for the given extension and
// optional classifier, e.g. "ideaIC-2023.1.zip" or
// "ideaIC-2023.1-sources.jar".
func (c Coordinates) FileName(ext, classifier string) string {
	if classifier != "" {
		return fmt.Sprintf("%s-%s-%s.%s", c.Name, c.Version, classifier, ext)
	}
	return fmt.Sprintf("%s-%s.%s", c.Name, c.Version, ext)
}

// Path returns the repository-relative path of the artifact in standard
// maven layout.
func (c Coordinates) Path(ext, classifier string) string {
	return c.groupPath() + "/" + c.Name + "/" + c.Version + "/" + c.FileName(ext, classifier)
}

// MetadataPath returns the repository-relative path of the artifact-level
// version metadata.
func (c Coordinates) MetadataPath() string {
	return c.groupPath() + "/" + c.Name + "/maven-metadata.xml"
}

// String renders the conventional group:name:version form.
func (c Coordinates) String() string {
	return c.Group + ":" + c.Name + ":" + c.Version
}

func (c Coordinates) groupPath() string {
	return strings.ReplaceAll(c.Group, ".", "/")
}
