package model

import (
	"fmt"
	"strings"
)

// SpeakerInfo describes the speaker who recorded one pronunciation slot.
//
// Both fields are optional; Forvo does not always publish them.
type SpeakerInfo struct {
	// Sex is "m", "f", or the empty string when unknown.
	Sex string `json:"sex"`

	// Location is a free-form location string, e.g. "United States".
	Location string `json:"location"`
}

// WordRecord is the full metadata record for one word.
//
// A record tracks every known pronunciation slot for a word. Slot i is
// described by AudioURLs[i], SpeakerInfo[i], Disabled[i] and
// Downloaded[i]; the four slices are parallel and must all have length
// NumPronunciations (see Validate).
//
// Records are keyed by the normalized word (see NormalizeWord) and are
// serialized to the word-data JSON file between runs, so the field
// names below are part of the on-disk format.
//
// Example:
//
//	rec := model.NewWordRecord(2)
//	rec.AudioURLs[0] = "https://audio00.forvo.com/audios/mp3/abc"
//	rec.AudioURLs[1] = "https://audio00.forvo.com/mp3/def"
//	if err := rec.Validate(); err != nil {
//	    // record is incomplete, re-populate before use
//	}
type WordRecord struct {
	// NumPronunciations is the authoritative count of known slots.
	NumPronunciations int `json:"num_pronunciations"`

	// CycleIndex is the next slot to play in cycle mode.
	// It persists across runs and wraps within the cycling window.
	CycleIndex int `json:"cycle_index"`

	// AudioURLs holds the remote source URL for each slot.
	AudioURLs []string `json:"audio_urls"`

	// SpeakerInfo holds speaker metadata for each slot, parallel to AudioURLs.
	SpeakerInfo []SpeakerInfo `json:"speaker_info"`

	// Disabled marks slots excluded from cycling/selection.
	// Reserved for future curation: current logic never sets it true,
	// but the values round-trip through load/save and rebuilds.
	Disabled []bool `json:"disabled"`

	// Downloaded is true for slots whose audio file is confirmed on disk.
	Downloaded []bool `json:"downloaded"`
}

// NewWordRecord creates an empty record with n pronunciation slots.
//
// All slices are allocated to length n with zero values, so the record
// satisfies Validate immediately. CycleIndex starts at 0.
func NewWordRecord(n int) *WordRecord {
	return &WordRecord{
		NumPronunciations: n,
		AudioURLs:         make([]string, n),
		SpeakerInfo:       make([]SpeakerInfo, n),
		Disabled:          make([]bool, n),
		Downloaded:        make([]bool, n),
	}
}

// Validate checks the parallel-slice invariant: all four slices must
// have length NumPronunciations and NumPronunciations must not be
// negative.
//
// A record that fails Validate is "incomplete" and must be re-populated
// from the remote source before use.
func (r *WordRecord) Validate() error {
	if r.NumPronunciations < 0 {
		return fmt.Errorf("negative pronunciation count %d", r.NumPronunciations)
	}
	if len(r.AudioURLs) != r.NumPronunciations {
		return fmt.Errorf("audio_urls has %d entries, want %d", len(r.AudioURLs), r.NumPronunciations)
	}
	if len(r.SpeakerInfo) != r.NumPronunciations {
		return fmt.Errorf("speaker_info has %d entries, want %d", len(r.SpeakerInfo), r.NumPronunciations)
	}
	if len(r.Disabled) != r.NumPronunciations {
		return fmt.Errorf("disabled has %d entries, want %d", len(r.Disabled), r.NumPronunciations)
	}
	if len(r.Downloaded) != r.NumPronunciations {
		return fmt.Errorf("downloaded has %d entries, want %d", len(r.Downloaded), r.NumPronunciations)
	}
	return nil
}

// RemainingDownloads returns how many slots are not marked downloaded.
func (r *WordRecord) RemainingDownloads() int {
	remaining := 0
	for _, ok := range r.Downloaded {
		if !ok {
			remaining++
		}
	}
	return remaining
}

// AllDownloaded reports whether every slot is marked downloaded.
func (r *WordRecord) AllDownloaded() bool {
	return r.RemainingDownloads() == 0
}

// NormalizeWord returns the canonical record key for a word:
// trimmed of surrounding whitespace and lowercased.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
