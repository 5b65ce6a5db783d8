// Package config provides configuration management for pronounce-word.
//
// This package handles:
//   - Loading and saving settings from a JSON file
//   - Default configuration values
//   - Conversion to model.PathConfig for slot path computation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Audio cached under ~/.pronounce-word/cache
//	// Metadata persisted in ~/.pronounce-word/word-data.json
//	// At most 20 pronunciation slots per word
//	// 4 concurrent downloads
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Configuration Options
//
// Settings includes options for:
//   - Cache directory and word-data file locations
//   - Per-word slot cap and download concurrency
//   - The randomized delay between remote fetches during batch rebuilds
//   - The playback command template ({file} placeholder)
//   - Optional ID3 tagging of downloaded clips
package config
