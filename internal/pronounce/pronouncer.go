package pronounce

import (
	"context"
	"fmt"
	"sort"

	"github.com/pronounce-dev/pronounce-word/internal/audio"
	"github.com/pronounce-dev/pronounce-word/internal/config"
	"github.com/pronounce-dev/pronounce-word/internal/download"
	"github.com/pronounce-dev/pronounce-word/internal/forvo"
	"github.com/pronounce-dev/pronounce-word/internal/fsutil"
	"github.com/pronounce-dev/pronounce-word/internal/httpx"
	"github.com/pronounce-dev/pronounce-word/internal/metadata"
	"github.com/pronounce-dev/pronounce-word/internal/model"
	"github.com/pronounce-dev/pronounce-word/internal/playback"
	"github.com/pronounce-dev/pronounce-word/internal/progress"
	"github.com/pronounce-dev/pronounce-word/internal/store"
)

// Pronouncer coordinates one word operation per invocation: populate
// metadata, ensure the needed audio file, play it, then opportunistically
// fetch the remaining files.
//
// The lifecycle is Setup → one or more operations → Teardown. Teardown
// persists the word mapping and must run even when an operation failed,
// so newly discovered metadata is never lost:
//
//	p := pronounce.New(settings, onProgress)
//	if err := p.Setup(ctx, false, false, false); err != nil {
//	    return err
//	}
//	defer p.Teardown()
//	return p.Cycle(ctx, "cat", 3)
type Pronouncer struct {
	settings *config.Settings
	st       *store.Store
	resolver metadata.Resolver
	fetcher  download.FileFetcher
	paths    *model.PathConfig

	words     map[string]*model.WordRecord
	meta      *metadata.Manager
	downloads *download.Manager
	player    *playback.Player

	forceDownload bool
	onProgress    progress.Func
}

// New creates a Pronouncer with the real Forvo resolver and HTTP client.
func New(settings *config.Settings, onProgress progress.Func) *Pronouncer {
	client := httpx.NewClient()
	return NewCustom(settings, forvo.NewResolver(client), client, onProgress)
}

// NewCustom creates a Pronouncer with explicit resolver and fetcher
// implementations. Tests use this to avoid the network.
func NewCustom(settings *config.Settings, resolver metadata.Resolver, fetcher download.FileFetcher, onProgress progress.Func) *Pronouncer {
	return &Pronouncer{
		settings:   settings,
		st:         store.New(settings.WordDataFile),
		resolver:   resolver,
		fetcher:    fetcher,
		paths:      settings.ToPathConfig(),
		onProgress: onProgress,
	}
}

// Setup prepares the cache directory, loads the word mapping and wires
// the managers.
//
// A missing word-data file starts an empty mapping; an unreadable or
// corrupt one is a fatal error. When rebuildMetadata is true the cache
// directory scan runs before any other operation; override additionally
// makes the filesystem the source of truth for every word.
// forceDownload makes subsequent operations re-fetch files regardless
// of cache state.
func (p *Pronouncer) Setup(ctx context.Context, rebuildMetadata, override, forceDownload bool) error {
	if err := fsutil.EnsureDir(p.settings.CacheDir); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	words, err := p.st.Load()
	if err != nil {
		return err
	}
	if len(words) == 0 {
		p.onProgress.Emit(progress.LevelWarning, fmt.Sprintf("No word data loaded from %s", p.st.Path()))
	}
	p.words = words

	p.meta = metadata.NewManager(words, p.resolver, p.settings, p.onProgress)

	var tagger *audio.Tagger
	if p.settings.TagDownloads {
		tagger = audio.NewTagger(audio.DefaultTagConfig())
	}
	p.downloads = download.NewManager(p.fetcher, p.paths, p.settings.MaxConcurrentDownloads, tagger, p.onProgress)
	p.player = playback.NewPlayer(p.settings.PlayCommand, p.onProgress)
	p.forceDownload = forceDownload

	if rebuildMetadata {
		return p.meta.RebuildFromFilesystem(ctx, override)
	}
	return nil
}

// Teardown persists the word mapping.
//
// Call it unconditionally, also on error paths: the run may have
// discovered metadata that would otherwise silently regress. A save
// failure is itself fatal for the invocation.
func (p *Pronouncer) Teardown() error {
	if p.words == nil {
		return nil
	}
	return p.st.Save(p.words)
}

// Pronounce plays the pronunciation at an explicit slot index.
//
// The slot's file is ensured synchronously first; failure to obtain it
// is fatal for the invocation. After playback the remaining slots are
// fetched best-effort.
func (p *Pronouncer) Pronounce(ctx context.Context, word string, index int) error {
	word = model.NormalizeWord(word)
	rec, err := p.populate(ctx, word)
	if err != nil {
		return err
	}
	if err := playback.CheckSlot(rec, index); err != nil {
		return err
	}
	return p.playSlot(ctx, word, rec, index)
}

// Cycle plays the next pronunciation in the persistent cycle and
// advances the cursor. numToCycle bounds the cycle to the first N
// slots; zero or negative cycles through all of them.
func (p *Pronouncer) Cycle(ctx context.Context, word string, numToCycle int) error {
	word = model.NormalizeWord(word)
	rec, err := p.populate(ctx, word)
	if err != nil {
		return err
	}
	index, err := playback.NextCycleSlot(rec, numToCycle)
	if err != nil {
		return err
	}
	return p.playSlot(ctx, word, rec, index)
}

// Random plays a uniformly random pronunciation.
func (p *Pronouncer) Random(ctx context.Context, word string) error {
	word = model.NormalizeWord(word)
	rec, err := p.populate(ctx, word)
	if err != nil {
		return err
	}
	index, err := playback.RandomSlot(rec)
	if err != nil {
		return err
	}
	return p.playSlot(ctx, word, rec, index)
}

// OverrideMetadata re-populates one word's metadata from the resolver,
// discarding the cached record, then reconciles download flags with
// the files on disk.
func (p *Pronouncer) OverrideMetadata(ctx context.Context, word string) error {
	word = model.NormalizeWord(word)
	found, err := p.meta.Populate(ctx, word, true)
	if !found {
		return err
	}
	p.meta.Audit(word)
	return nil
}

// ForceDownload re-fetches every pronunciation file for word,
// overwriting whatever is on disk.
func (p *Pronouncer) ForceDownload(ctx context.Context, word string) error {
	word = model.NormalizeWord(word)
	rec, err := p.populate(ctx, word)
	if err != nil {
		return err
	}
	results := p.downloads.Ensure(ctx, word, rec, download.AllIndices(rec, -1), true)
	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed for %q", failed, len(results), word)
	}
	return nil
}

// Lookup ensures metadata exists for word and returns its record
// without playing anything. The TUI uses it to show the slot list
// before any playback.
func (p *Pronouncer) Lookup(ctx context.Context, word string) (*model.WordRecord, error) {
	return p.populate(ctx, model.NormalizeWord(word))
}

// Record returns the cached record for a word, or nil.
func (p *Pronouncer) Record(word string) *model.WordRecord {
	return p.meta.Record(word)
}

// CachedWords returns the sorted list of words in the mapping.
func (p *Pronouncer) CachedWords() []string {
	words := make([]string, 0, len(p.words))
	for w := range p.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// SlotPath returns the cache path of one pronunciation slot.
func (p *Pronouncer) SlotPath(word string, index int) string {
	return p.paths.SlotPath(model.NormalizeWord(word), index)
}

// populate ensures a complete record exists and returns it. The error
// wraps forvo.ErrWordNotFound when the word is unresolvable; callers
// treat that as fatal for the invocation.
func (p *Pronouncer) populate(ctx context.Context, word string) (*model.WordRecord, error) {
	found, err := p.meta.Populate(ctx, word, false)
	if !found {
		return nil, err
	}
	return p.meta.Record(word), nil
}

// playSlot ensures one slot synchronously, plays it, then fetches the
// rest of the word's files best-effort.
func (p *Pronouncer) playSlot(ctx context.Context, word string, rec *model.WordRecord, index int) error {
	if err := p.downloads.EnsureIndex(ctx, word, rec, index, p.forceDownload); err != nil {
		return fmt.Errorf("could not obtain pronunciation %d of %q: %w", index, word, err)
	}
	if err := p.player.Play(ctx, p.paths.SlotPath(word, index)); err != nil {
		return err
	}
	p.ensureRemaining(ctx, word, rec, index)
	return nil
}

// ensureRemaining fetches every still-missing slot after playback.
// Failures here are reported through progress events only; the word
// already played, so the invocation succeeds regardless.
func (p *Pronouncer) ensureRemaining(ctx context.Context, word string, rec *model.WordRecord, skip int) {
	if rec.AllDownloaded() && !p.forceDownload {
		p.onProgress.Emit(progress.LevelVerbose, fmt.Sprintf("No remaining files to download for %q", word))
		return
	}

	// trust disk over stale flags before deciding what to fetch
	remaining := p.meta.Audit(word)
	if remaining == 0 && !p.forceDownload {
		return
	}

	var indices []int
	if p.forceDownload {
		indices = download.AllIndices(rec, skip)
	} else {
		indices = download.RemainingIndices(rec, skip)
	}
	p.downloads.Ensure(ctx, word, rec, indices, p.forceDownload)
}
