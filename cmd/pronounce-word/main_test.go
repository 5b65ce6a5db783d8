package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pronounce-dev/pronounce-word/internal/config"
	"github.com/pronounce-dev/pronounce-word/internal/forvo"
	"github.com/pronounce-dev/pronounce-word/internal/pronounce"
)

type fakeResolver struct {
	prons []forvo.Pronunciation
}

func (f *fakeResolver) Resolve(ctx context.Context, word string) ([]forvo.Pronunciation, error) {
	return f.prons, nil
}

type fakeFetcher struct {
	mu      sync.Mutex
	fetched int
}

func (f *fakeFetcher) DownloadFile(ctx context.Context, url, destPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched++
	return os.WriteFile(destPath, []byte("mp3"), 0644)
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetched
}

func pronList(n int) []forvo.Pronunciation {
	prons := make([]forvo.Pronunciation, n)
	for i := range prons {
		prons[i] = forvo.Pronunciation{
			AudioURL: fmt.Sprintf("https://audio.example.com/%d.mp3", i),
		}
	}
	return prons
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	dir := t.TempDir()
	s := config.DefaultSettings()
	s.CacheDir = filepath.Join(dir, "cache")
	s.WordDataFile = filepath.Join(dir, "word-data.json")
	s.PlayCommand = "true"
	return s
}

func setUp(t *testing.T, s *config.Settings, fetcher *fakeFetcher, rebuild, force bool) *pronounce.Pronouncer {
	t.Helper()
	p := pronounce.NewCustom(s, &fakeResolver{prons: pronList(3)}, fetcher, nil)
	if err := p.Setup(context.Background(), rebuild, false, force); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	return p
}

func TestRunOperationDefaultPlaysFirstSlot(t *testing.T) {
	settings := testSettings(t)
	fetcher := &fakeFetcher{}
	p := setUp(t, settings, fetcher, false, false)

	err := runOperation(context.Background(), p, "cat", runOptions{playN: -1})
	if err != nil {
		t.Fatalf("runOperation() error: %v", err)
	}

	if _, err := os.Stat(p.SlotPath("cat", 0)); err != nil {
		t.Errorf("first slot not on disk: %v", err)
	}
	// The default mode is an explicit play of index 0, not a cycle:
	// the persistent cursor must stay put.
	if got := p.Record("cat").CycleIndex; got != 0 {
		t.Errorf("CycleIndex = %d after default mode, want 0", got)
	}
}

func TestRunOperationForceWithOverride(t *testing.T) {
	settings := testSettings(t)
	fetcher := &fakeFetcher{}
	p := setUp(t, settings, fetcher, false, true)

	err := runOperation(context.Background(), p, "cat", runOptions{
		override: true,
		force:    true,
		playN:    -1,
	})
	if err != nil {
		t.Fatalf("runOperation() error: %v", err)
	}

	// Nothing plays, but -f still fetches every file for the word.
	if got := fetcher.count(); got != 3 {
		t.Errorf("fetched %d files, want 3", got)
	}
	for i := 0; i < 3; i++ {
		if _, err := os.Stat(p.SlotPath("cat", i)); err != nil {
			t.Errorf("slot %d not on disk: %v", i, err)
		}
	}
}

func TestRunOperationForceWithRebuild(t *testing.T) {
	settings := testSettings(t)
	fetcher := &fakeFetcher{}
	p := setUp(t, settings, fetcher, true, true)

	err := runOperation(context.Background(), p, "cat", runOptions{
		rebuild: true,
		force:   true,
		playN:   -1,
	})
	if err != nil {
		t.Fatalf("runOperation() error: %v", err)
	}

	if got := fetcher.count(); got != 3 {
		t.Errorf("fetched %d files, want 3", got)
	}
}

func TestRunOperationRebuildWithoutWordSkipsForce(t *testing.T) {
	settings := testSettings(t)
	fetcher := &fakeFetcher{}
	p := setUp(t, settings, fetcher, true, true)

	err := runOperation(context.Background(), p, "", runOptions{
		rebuild: true,
		force:   true,
		playN:   -1,
	})
	if err != nil {
		t.Fatalf("runOperation() error: %v", err)
	}
	if got := fetcher.count(); got != 0 {
		t.Errorf("fetched %d files with no word given, want 0", got)
	}
}
