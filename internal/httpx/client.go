package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// UserAgent is sent with every request. Forvo serves a different
// (pronunciation-free) page to unknown clients, so we identify as a
// desktop browser the way the site expects.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_14_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.114 Safari/537.36"

// Client wraps HTTP operations with Forvo-specific configuration.
//
// Client provides:
//   - A browser User-Agent header (required by Forvo)
//   - Timeout handling
//   - Page fetches for the resolver
//   - Audio file downloads streamed to disk
//
// Example usage:
//
//	client := httpx.NewClient()
//
//	// Fetch the word page HTML
//	html, err := client.GetString(ctx, "https://forvo.com/word/cat/")
//
//	// Download one pronunciation clip
//	err = client.DownloadFile(ctx, audioURL, "/path/to/cat_1.mp3")
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client configured for Forvo.
//
// The client is configured with a 60 second timeout and the package
// UserAgent header.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: UserAgent,
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a
// string. Convenience wrapper around Get for fetching HTML.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadFile downloads a file to the specified path.
//
// The file is created (or truncated if it exists) and the content is
// streamed directly to disk. A non-200 response is an error and the
// destination file is not created. No cleanup of a partially written
// file is attempted when the copy itself fails; the caller's download
// flags stay false and the next audit reconciles disk state.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return err
}
