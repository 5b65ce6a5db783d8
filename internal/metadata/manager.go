package metadata

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pronounce-dev/pronounce-word/internal/config"
	"github.com/pronounce-dev/pronounce-word/internal/forvo"
	"github.com/pronounce-dev/pronounce-word/internal/fsutil"
	"github.com/pronounce-dev/pronounce-word/internal/model"
	"github.com/pronounce-dev/pronounce-word/internal/progress"
)

// Resolver resolves a word to its ordered pronunciation list.
// *forvo.Resolver satisfies this interface.
type Resolver interface {
	Resolve(ctx context.Context, word string) ([]forvo.Pronunciation, error)
}

// Manager owns the in-memory word → WordRecord mapping.
//
// It is the unit of truth for how many pronunciations a word has and
// which of them are downloaded. The manager creates records from
// resolver output (Populate), reconstructs them from files already on
// disk (RebuildFromFilesystem), and reconciles download flags against
// the filesystem (Audit).
//
// The mapping passed to NewManager is shared with the caller: the
// caller loads it from the store before constructing the manager and
// saves it after the run. Only the single control goroutine mutates
// the mapping; download workers never touch it.
type Manager struct {
	words      map[string]*model.WordRecord
	resolver   Resolver
	paths      *model.PathConfig
	maxSlots   int
	delayMin   float64
	delayMax   float64
	onProgress progress.Func

	// sleep is swapped out in tests so batch rebuilds don't wait.
	sleep func(time.Duration)
}

// NewManager creates a Manager over the given word mapping.
func NewManager(words map[string]*model.WordRecord, resolver Resolver, settings *config.Settings, onProgress progress.Func) *Manager {
	return &Manager{
		words:      words,
		resolver:   resolver,
		paths:      settings.ToPathConfig(),
		maxSlots:   settings.MaxSlots,
		delayMin:   settings.RebuildDelayMinSeconds,
		delayMax:   settings.RebuildDelayMaxSeconds,
		onProgress: onProgress,
		sleep:      time.Sleep,
	}
}

// Record returns the record for a word, or nil when none exists.
func (m *Manager) Record(word string) *model.WordRecord {
	return m.words[model.NormalizeWord(word)]
}

// Remove deletes any record for a word.
func (m *Manager) Remove(word string) {
	delete(m.words, model.NormalizeWord(word))
}

// Populate ensures a complete record exists for word.
//
// If a record already exists, is complete (satisfies the parallel-slice
// invariant) and override is false, Populate is a pure cache hit and
// performs no remote fetch. Otherwise the resolver is consulted and a
// fresh record is built: the slot count is capped at MaxSlots, the URL
// and speaker slices are truncated to match, all download and disabled
// flags start false, and the cycle cursor is carried over from any
// pre-existing record.
//
// When the resolver cannot resolve the word, any partial record is
// cleared and the returned found is false; the error then wraps
// forvo.ErrWordNotFound. Callers that need the word to exist must
// treat that as fatal for the current operation.
func (m *Manager) Populate(ctx context.Context, word string, override bool) (found bool, err error) {
	word = model.NormalizeWord(word)

	rec, exists := m.words[word]
	if exists && !override {
		if err := rec.Validate(); err == nil {
			m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Using cached metadata for %q", word))
			return true, nil
		}
		m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Metadata for %q is inconsistent, re-populating", word))
	}

	m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Populating metadata for %q", word))
	prons, err := m.resolver.Resolve(ctx, word)
	if err != nil {
		m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Clearing metadata for %q", word))
		delete(m.words, word)
		return false, err
	}

	n := len(prons)
	if n > m.maxSlots {
		// cap against pathological pages
		n = m.maxSlots
	}

	fresh := model.NewWordRecord(n)
	for i := 0; i < n; i++ {
		fresh.AudioURLs[i] = prons[i].AudioURL
		fresh.SpeakerInfo[i] = model.SpeakerInfo{
			Sex:      prons[i].SpeakerSex,
			Location: prons[i].SpeakerLocation,
		}
	}
	if exists {
		fresh.CycleIndex = rec.CycleIndex
	}

	m.words[word] = fresh
	m.onProgress.Emit(progress.LevelInfo, fmt.Sprintf("Found %d pronunciations for %q", n, word))
	return true, nil
}

// RebuildFromFilesystem reconstructs word records from the audio files
// already present in the cache directory.
//
// Filenames are grouped by their word portion with the optional _<n>
// suffix as the slot index. For every word without a record (or every
// word, when override is true) the slot count becomes the highest
// observed index plus one; gaps are tolerated, a missing middle index
// is marked not-downloaded, never re-fetched here.
//
// Records built this way know nothing about remote URLs, so each one
// is immediately re-populated from the resolver while preserving the
// download flags collected from disk. A randomized delay
// (RebuildDelayMin/MaxSeconds) is inserted between those remote
// fetches to bound the request rate.
//
// Known consistency risk: if Forvo reordered its pronunciations
// between the original download and this re-fetch, refreshed URLs may
// no longer correspond to the files on disk. URLs are metadata-only,
// so nothing is re-downloaded because of the refresh, but a later
// forced download would fetch the new ordering.
func (m *Manager) RebuildFromFilesystem(ctx context.Context, override bool) error {
	m.onProgress.Emit(progress.LevelVerbose, "Rebuilding word metadata from filesystem")

	entries, err := os.ReadDir(m.paths.CacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Cache directory %s does not exist, nothing to rebuild", m.paths.CacheDir))
			return nil
		}
		return fmt.Errorf("scanning cache directory: %w", err)
	}

	if override {
		// the filesystem becomes the source of truth
		for word := range m.words {
			delete(m.words, word)
		}
	}

	indexSeen := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		word, index, ok := m.paths.ParseSlotFileName(entry.Name())
		if !ok {
			m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Skipping unrecognized cache file %q", entry.Name()))
			continue
		}
		indexSeen[word] = append(indexSeen[word], index)
	}

	for word, indices := range indexSeen {
		if _, exists := m.words[word]; !exists {
			m.words[word] = recordFromIndices(indices)
		}

		rec := m.words[word]
		if len(rec.AudioURLs) >= rec.NumPronunciations {
			continue
		}

		m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Missing URLs for %q, gathering metadata again", word))
		downloaded := append([]bool(nil), rec.Downloaded...)
		if _, err := m.Populate(ctx, word, true); err != nil {
			m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Could not refresh metadata for %q: %v", word, err))
			continue
		}

		// URLs are metadata-only: keep the download state observed on
		// disk, clipped to the refreshed slot count.
		fresh := m.words[word]
		for i := range fresh.Downloaded {
			if i < len(downloaded) {
				fresh.Downloaded[i] = downloaded[i]
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		m.sleep(m.rebuildDelay())
	}

	return nil
}

// Audit re-checks disk presence for every slot of word, overwrites the
// download flags accordingly and returns how many slots are still
// missing. URLs are never touched.
func (m *Manager) Audit(word string) int {
	word = model.NormalizeWord(word)
	rec, ok := m.words[word]
	if !ok {
		return 0
	}

	for i := 0; i < rec.NumPronunciations; i++ {
		rec.Downloaded[i] = fsutil.FileExists(m.paths.SlotPath(word, i))
	}

	remaining := rec.RemainingDownloads()
	m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("%d of %d files cached for %q",
		rec.NumPronunciations-remaining, rec.NumPronunciations, word))
	return remaining
}

// recordFromIndices builds a URL-less record from observed slot
// indices. The record intentionally fails Validate (its URL and
// speaker slices are empty) so it gets re-populated before use.
func recordFromIndices(indices []int) *model.WordRecord {
	maxIndex := 0
	for _, i := range indices {
		if i > maxIndex {
			maxIndex = i
		}
	}

	rec := &model.WordRecord{
		NumPronunciations: maxIndex + 1,
		Disabled:          make([]bool, maxIndex+1),
		Downloaded:        make([]bool, maxIndex+1),
	}
	for _, i := range indices {
		rec.Downloaded[i] = true
	}
	return rec
}

func (m *Manager) rebuildDelay() time.Duration {
	seconds := m.delayMin + rand.Float64()*(m.delayMax-m.delayMin)
	return time.Duration(seconds * float64(time.Second))
}
