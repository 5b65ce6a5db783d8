// Package httpx provides an HTTP client configured for Forvo requests.
//
// The Client in this package handles:
//   - The browser User-Agent header Forvo requires
//   - Word page fetches for the resolver
//   - Audio clip downloads streamed to disk
//   - Timeout handling
//
// # Basic Usage
//
//	client := httpx.NewClient()
//
//	// Fetch the word page
//	html, err := client.GetString(ctx, "https://forvo.com/word/cat/")
//
//	// Download an audio clip
//	err = client.DownloadFile(ctx, audioURL, "/cache/cat.mp3")
package httpx
