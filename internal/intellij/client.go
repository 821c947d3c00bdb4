// SPDX-License-Identifier: MPL-2.0

package intellij

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// maxMetadataBytes is the upper bound on metadata response size (1 MB).
// Version metadata documents are tiny; anything larger is malformed or
// hostile.
const maxMetadataBytes = 1 << 20

// ErrArtifactNotFound indicates the repository has no file at the requested
// coordinate path.
var ErrArtifactNotFound = errors.New("artifact not found in repository")

type (
	// Client fetches artifacts from one channel of the upstream repository.
	Client struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxies.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the channel index URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithClientLogger overrides the logger used for download progress messages.
func WithClientLogger(l *log.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a Client for the given channel of the default
// repository. Options can redirect it elsewhere.
func NewClient(channel Channel, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    channel.URL(DefaultRepositoryURL),
		userAgent:  "ijrepo/dev",
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchArchive downloads the distribution archive for the given coordinates
// into destDir and returns its path. An archive already present in destDir
// is returned without a network round trip. Downloads land under a temporary
// name and are renamed into place only when complete, so a crashed run never
// leaves a truncated file at the final path.
func (c *Client) FetchArchive(ctx context.Context, coords Coordinates, destDir string) (string, error) {
	dest := filepath.Join(destDir, coords.FileName("zip", ""))
	if _, err := os.Stat(dest); err == nil {
		c.logger.Debug("archive already downloaded", "archive", dest)
		return dest, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir %s: %w", destDir, err)
	}

	url := c.baseURL + "/" + coords.Path("zip", "")
	c.logger.Info("downloading distribution archive", "coordinates", coords.String(), "url", url)

	if err := c.downloadTo(ctx, url, dest); err != nil {
		return "", fmt.Errorf("fetching archive %s: %w", coords.String(), err)
	}
	return dest, nil
}

// fetchFile downloads the artifact at the given repository-relative path
// into destDir under its coordinate file name.
func (c *Client) fetchFile(ctx context.Context, relPath, fileName, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir %s: %w", destDir, err)
	}
	dest := filepath.Join(destDir, fileName)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := c.downloadTo(ctx, c.baseURL+"/"+relPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// downloadTo streams the response body for url into a temporary file in
// dest's directory and renames it into place when the copy completes, so a
// partial download never occupies the final path.
func (c *Client) downloadTo(ctx context.Context, url, dest string) (err error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }() // read-only response body

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".ijrepo-download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	renamed := false
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return fmt.Errorf("writing download: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("flushing download: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving download into place: %w", err)
	}
	renamed = true
	return nil
}

// get executes a GET request and returns the body for 200 responses.
// 404 maps to ErrArtifactNotFound so callers can branch on absence.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, ErrArtifactNotFound)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
}
