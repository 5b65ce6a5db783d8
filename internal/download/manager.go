package download

import (
	"context"
	"fmt"

	"github.com/pronounce-dev/pronounce-word/internal/audio"
	"github.com/pronounce-dev/pronounce-word/internal/fsutil"
	"github.com/pronounce-dev/pronounce-word/internal/model"
	"github.com/pronounce-dev/pronounce-word/internal/progress"
	"golang.org/x/sync/errgroup"
)

// FileFetcher downloads a URL to a local file.
// *httpx.Client satisfies this interface.
type FileFetcher interface {
	DownloadFile(ctx context.Context, url, destPath string) error
}

// Result reports the outcome for one requested slot index.
type Result struct {
	// Index is the slot index this result belongs to.
	Index int

	// OK is true when the slot's file is present after the call,
	// either because the fetch succeeded or because the slot was
	// already downloaded and skipped.
	OK bool

	// Skipped is true when no fetch was attempted because the slot
	// was already marked downloaded.
	Skipped bool
}

// Manager fetches pronunciation audio files for a word's record.
//
// Downloads for distinct slots are independent and run on a bounded
// worker pool. Workers only read the record's URLs and write into
// per-task result cells; the record's download flags are updated in a
// single-threaded merge after the whole batch has completed, so no
// locking is needed and no partial batch state ever becomes visible.
type Manager struct {
	fetcher     FileFetcher
	paths       *model.PathConfig
	concurrency int
	tagger      *audio.Tagger
	onProgress  progress.Func
}

// NewManager creates a download Manager.
//
// concurrency bounds the worker pool for bulk downloads; values below
// 1 are treated as 1. tagger may be nil to disable clip tagging.
func NewManager(fetcher FileFetcher, paths *model.PathConfig, concurrency int, tagger *audio.Tagger, onProgress progress.Func) *Manager {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Manager{
		fetcher:     fetcher,
		paths:       paths,
		concurrency: concurrency,
		tagger:      tagger,
		onProgress:  onProgress,
	}
}

// EnsureIndex synchronously ensures a single slot's file is on disk.
//
// This is the primary-slot call made before playback: if the file
// already exists (and force is false) the slot is just marked
// downloaded. On a successful fetch the flag is set true; on failure
// it is set false and the error is returned; the caller decides
// whether that is fatal.
func (m *Manager) EnsureIndex(ctx context.Context, word string, rec *model.WordRecord, index int, force bool) error {
	if index < 0 || index >= rec.NumPronunciations {
		return fmt.Errorf("pronunciation %d does not exist for %q (have %d)", index, word, rec.NumPronunciations)
	}

	path := m.paths.SlotPath(word, index)
	if !force && fsutil.FileExists(path) {
		m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Found existing %s", path))
		rec.Downloaded[index] = true
		return nil
	}

	if force {
		m.onProgress.Emit(progress.LevelVerbose, "Forcing download")
	} else {
		m.onProgress.Emit(progress.LevelInfo, fmt.Sprintf("File %s not cached, downloading", path))
	}

	err := m.fetchSlot(ctx, word, rec, index)
	rec.Downloaded[index] = err == nil
	return err
}

// Ensure fetches the requested slot indices on a bounded worker pool.
//
// Indices already marked downloaded are skipped unless force is true;
// force resets every targeted flag to false first, guaranteeing a
// fresh write even when a stale file exists on disk. One failed index
// never aborts its siblings. The returned results are in request
// order, one per requested index.
//
// The record's download flags are merged only after every task has
// finished: true iff that index's fetch succeeded, with skipped
// indices retaining their prior value.
func (m *Manager) Ensure(ctx context.Context, word string, rec *model.WordRecord, indices []int, force bool) []Result {
	if force {
		for _, index := range indices {
			if index >= 0 && index < rec.NumPronunciations {
				rec.Downloaded[index] = false
			}
		}
	}

	results := make([]Result, len(indices))
	var targets []int
	for i, index := range indices {
		results[i] = Result{Index: index}
		if index < 0 || index >= rec.NumPronunciations {
			m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Ignoring invalid pronunciation index %d for %q", index, word))
			continue
		}
		if rec.Downloaded[index] {
			results[i].OK = true
			results[i].Skipped = true
			continue
		}
		targets = append(targets, i)
	}

	if len(targets) == 0 {
		m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("No files remaining to download for %q", word))
		return results
	}
	m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Downloading %d files for %q", len(targets), word))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, ri := range targets {
		ri := ri // capture
		g.Go(func() error {
			err := m.fetchSlot(gctx, word, rec, results[ri].Index)
			if err != nil {
				m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Problem downloading pronunciation %d of %q: %v", results[ri].Index, word, err))
			}
			results[ri].OK = err == nil
			return nil // a failed slot never aborts siblings
		})
	}

	// merge flags only after the whole batch has joined
	_ = g.Wait()
	for _, r := range results {
		if !r.Skipped && r.Index >= 0 && r.Index < rec.NumPronunciations {
			rec.Downloaded[r.Index] = r.OK
		}
	}

	return results
}

// RemainingIndices returns the slot indices of rec that are not marked
// downloaded, excluding skip (pass a negative skip to exclude none).
// This is the bulk follow-up set after the primary slot was ensured
// synchronously.
func RemainingIndices(rec *model.WordRecord, skip int) []int {
	var indices []int
	for i := 0; i < rec.NumPronunciations; i++ {
		if i == skip || rec.Downloaded[i] {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}

// AllIndices returns every slot index of rec except skip.
func AllIndices(rec *model.WordRecord, skip int) []int {
	var indices []int
	for i := 0; i < rec.NumPronunciations; i++ {
		if i == skip {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}

// fetchSlot downloads one slot's clip to its deterministic path and
// optionally tags it. It never mutates the record.
func (m *Manager) fetchSlot(ctx context.Context, word string, rec *model.WordRecord, index int) error {
	url := rec.AudioURLs[index]
	if url == "" {
		return fmt.Errorf("no audio URL for pronunciation %d of %q", index, word)
	}

	path := m.paths.SlotPath(word, index)
	m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Downloading %s", url))
	if err := m.fetcher.DownloadFile(ctx, url, path); err != nil {
		return err
	}
	m.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("Download successful, saved to %s", path))

	if m.tagger != nil {
		if err := m.tagger.SaveTags(path, word, rec.SpeakerInfo[index], index); err != nil {
			m.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("Could not tag %s: %v", path, err))
		}
	}
	return nil
}
