// Package fsutil provides small filesystem helpers shared by the
// cache, metadata and playback code.
package fsutil

import (
	"os"
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in
// file names, keeping the result valid on Windows as well:
//
//   - invalid characters (<>:"/\|?* and control chars) become underscores
//   - trailing dots are removed
//   - runs of whitespace collapse to a single space
//   - trailing whitespace is removed
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// EnsureDir creates a directory and any missing parents with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
