package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pronounce-dev/pronounce-word/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Storage locations
	CacheDir     string `json:"cache_dir"`
	WordDataFile string `json:"word_data_file"`
	FileExt      string `json:"file_ext"`

	// Resolution and download settings
	MaxSlots               int     `json:"max_slots"`
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads"`
	RebuildDelayMinSeconds float64 `json:"rebuild_delay_min_seconds"`
	RebuildDelayMaxSeconds float64 `json:"rebuild_delay_max_seconds"`

	// Playback settings
	PlayCommand string `json:"play_command"`

	// Tag settings
	TagDownloads bool `json:"tag_downloads"`
}

// DefaultSettings returns settings with default values.
//
// Defaults put all state under ~/.pronounce-word: downloaded audio in
// cache/ and the word metadata mapping in word-data.json.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, ".pronounce-word")
	return &Settings{
		CacheDir:     filepath.Join(base, "cache"),
		WordDataFile: filepath.Join(base, "word-data.json"),
		FileExt:      model.DefaultFileExt,

		MaxSlots:               20,
		MaxConcurrentDownloads: 4,
		RebuildDelayMinSeconds: 1.0,
		RebuildDelayMaxSeconds: 2.5,

		PlayCommand: `afplay "{file}"`,

		TagDownloads: false,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so first runs
// work without any setup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToPathConfig converts settings to the model.PathConfig used for slot
// path computation.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		CacheDir: s.CacheDir,
		FileExt:  s.FileExt,
	}
}
