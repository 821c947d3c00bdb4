// SPDX-License-Identifier: MPL-2.0

package intellij

import (
	"context"
)

// SourcesResult is the outcome of a sources-artifact lookup. Sources are a
// convenience, never a requirement: lookups report not-found with a reason
// instead of failing, and the caller decides how loudly to log it.
type SourcesResult struct {
	// Found is true when a sources jar was resolved and downloaded.
	Found bool
	// Path is the local path of the downloaded sources jar when Found.
	Path string
	// Reason explains the miss when not Found.
	Reason string
}

// NotFound builds a miss result with the given reason.
func NotFound(reason string) SourcesResult {
	return SourcesResult{Reason: reason}
}

// ResolveSources attempts to download the "sources"-classified companion jar
// for the given coordinates into destDir. Every failure, network or
// filesystem alike, degrades to a not-found result; this method never
// reports an error.
func (c *Client) ResolveSources(ctx context.Context, coords Coordinates, destDir string) SourcesResult {
	path, err := c.fetchFile(ctx, coords.Path("jar", "sources"), coords.FileName("jar", "sources"), destDir)
	if err != nil {
		return NotFound(err.Error())
	}
	return SourcesResult{Found: true, Path: path}
}
