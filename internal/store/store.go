// Package store persists the word → WordRecord mapping to a single
// JSON file.
//
// The store owns no business logic: it only serializes and
// deserializes the whole mapping. A missing file on load yields an
// empty mapping (first run), while a corrupt file is an error: the
// caller should refuse to run rather than clobber metadata it could
// not read.
//
//	st := store.New(settings.WordDataFile)
//	words, err := st.Load()
//	// ... mutate words in memory ...
//	err = st.Save(words)
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pronounce-dev/pronounce-word/internal/model"
)

// Store reads and writes the word-data file.
type Store struct {
	path string
}

// New creates a Store for the given word-data file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the word-data file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the word mapping from disk.
//
// A missing file returns an empty, usable mapping and no error.
// Unreadable or unparseable content returns an error.
func (s *Store) Load() (map[string]*model.WordRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*model.WordRecord), nil
		}
		return nil, fmt.Errorf("reading word data: %w", err)
	}

	words := make(map[string]*model.WordRecord)
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("parsing word data %s: %w", s.path, err)
	}

	return words, nil
}

// Save writes the whole word mapping to disk, replacing any previous
// content. Parent directories are created as needed.
func (s *Store) Save(words map[string]*model.WordRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating word data directory: %w", err)
	}

	data, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("encoding word data: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing word data: %w", err)
	}
	return nil
}
