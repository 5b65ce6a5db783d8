package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/pronounce-dev/pronounce-word/internal/fsutil"
)

// DefaultFileExt is the audio file extension used for cached slots.
const DefaultFileExt = ".mp3"

// PathConfig maps (word, slot index) pairs to cache file paths.
//
// Slot 0 of a word maps to "<word><ext>", every other slot i to
// "<word>_<i><ext>". The mapping is deterministic and stable for the
// lifetime of a record: the same word and index always yield the same
// path, which is what makes rebuild-from-filesystem possible.
type PathConfig struct {
	// CacheDir is the directory holding downloaded audio files.
	CacheDir string

	// FileExt is the audio file extension including the leading dot.
	// Empty means DefaultFileExt.
	FileExt string
}

// SlotPath returns the cache file path for the given word and slot index.
//
// The word is sanitized for filesystem safety before being used as a
// filename. Index 0 has no suffix so that single-pronunciation words
// cache as plain "<word>.mp3".
func (c *PathConfig) SlotPath(word string, index int) string {
	suffix := ""
	if index != 0 {
		suffix = fmt.Sprintf("_%d", index)
	}
	return filepath.Join(c.CacheDir, fsutil.SanitizeFileName(word)+suffix+c.ext())
}

func (c *PathConfig) ext() string {
	if c.FileExt == "" {
		return DefaultFileExt
	}
	return c.FileExt
}

// slotFileRe matches cached slot filenames: a word portion without
// underscores, dots or digits, then an optional _<index> suffix.
var slotFileRe = regexp.MustCompile(`^([^_.\d]+)(?:_(\d+))?$`)

// ParseSlotFileName splits a cache filename into its word and slot
// index. It is the inverse of SlotPath for names SlotPath produced.
//
// Returns ok=false for files that do not look like cached slots
// (wrong extension, foreign naming scheme). A missing index suffix
// means slot 0.
func (c *PathConfig) ParseSlotFileName(name string) (word string, index int, ok bool) {
	ext := filepath.Ext(name)
	if ext != c.ext() {
		return "", 0, false
	}
	base := name[:len(name)-len(ext)]
	m := slotFileRe.FindStringSubmatch(base)
	if m == nil {
		return "", 0, false
	}
	word = m[1]
	if m[2] != "" {
		index, _ = strconv.Atoi(m[2])
	}
	return word, index, true
}
