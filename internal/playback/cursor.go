package playback

import (
	"fmt"
	"math/rand"

	"github.com/pronounce-dev/pronounce-word/internal/model"
)

// NextCycleSlot returns the slot to play for cycle mode and advances
// the record's persistent cursor.
//
// numToCycle bounds the cycling window to the first N slots; zero or
// negative means "all pronunciations". The effective window is
// min(numToCycle, NumPronunciations). A cursor at or beyond the window
// (a smaller window than last run, or a record that shrank) resets to
// slot 0 rather than going out of range. After selecting, the cursor
// advances modulo the window, so consecutive invocations wrap
// indefinitely. The cursor persists across runs via the word mapping.
func NextCycleSlot(rec *model.WordRecord, numToCycle int) (int, error) {
	window := rec.NumPronunciations
	if numToCycle > 0 && numToCycle < window {
		window = numToCycle
	}
	if window <= 0 {
		return 0, fmt.Errorf("no pronunciations to cycle through")
	}

	index := rec.CycleIndex
	if index >= window {
		index = 0
	}
	rec.CycleIndex = (index + 1) % window
	return index, nil
}

// RandomSlot returns a uniformly random slot index of rec.
func RandomSlot(rec *model.WordRecord) (int, error) {
	if rec.NumPronunciations <= 0 {
		return 0, fmt.Errorf("no pronunciations to choose from")
	}
	return rand.Intn(rec.NumPronunciations), nil
}

// CheckSlot validates an explicitly requested slot index.
func CheckSlot(rec *model.WordRecord, index int) error {
	if index < 0 || index >= rec.NumPronunciations {
		return fmt.Errorf("pronunciation %d does not exist (have %d)", index, rec.NumPronunciations)
	}
	return nil
}
