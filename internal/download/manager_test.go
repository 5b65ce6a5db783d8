package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/pronounce-dev/pronounce-word/internal/model"
)

// fakeFetcher writes a marker file per download and can be told to
// fail specific URLs.
type fakeFetcher struct {
	mu       sync.Mutex
	fetched  []string
	failURLs map[string]bool
	inflight int
	maxSeen  int
}

func (f *fakeFetcher) DownloadFile(_ context.Context, url, destPath string) error {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.inflight++
	if f.inflight > f.maxSeen {
		f.maxSeen = f.inflight
	}
	fail := f.failURLs[url]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if fail {
		return errors.New("HTTP 403: Forbidden")
	}
	return os.WriteFile(destPath, []byte("mp3"), 0644)
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

func testRecord(n int) *model.WordRecord {
	rec := model.NewWordRecord(n)
	for i := range rec.AudioURLs {
		rec.AudioURLs[i] = fmt.Sprintf("https://audio00.forvo.com/audios/mp3/clip_%d.mp3", i)
	}
	return rec
}

func TestManager_EnsureIndex(t *testing.T) {
	t.Run("fetches a missing slot", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(2)

		if err := mgr.EnsureIndex(context.Background(), "cat", rec, 1, false); err != nil {
			t.Fatalf("EnsureIndex failed: %v", err)
		}
		if !rec.Downloaded[1] {
			t.Error("Downloaded[1] not set after successful fetch")
		}
		if _, err := os.Stat(paths.SlotPath("cat", 1)); err != nil {
			t.Errorf("slot file missing: %v", err)
		}
	})

	t.Run("existing file is not re-fetched", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(1)

		if err := os.WriteFile(paths.SlotPath("cat", 0), []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := mgr.EnsureIndex(context.Background(), "cat", rec, 0, false); err != nil {
			t.Fatalf("EnsureIndex failed: %v", err)
		}
		if fetcher.count() != 0 {
			t.Errorf("fetched %d files, want 0", fetcher.count())
		}
		if !rec.Downloaded[0] {
			t.Error("existing file not marked downloaded")
		}
	})

	t.Run("force re-fetches over an existing file", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(1)
		rec.Downloaded[0] = true

		if err := os.WriteFile(paths.SlotPath("cat", 0), []byte("stale"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := mgr.EnsureIndex(context.Background(), "cat", rec, 0, true); err != nil {
			t.Fatalf("EnsureIndex failed: %v", err)
		}
		if fetcher.count() != 1 {
			t.Errorf("fetched %d files, want 1", fetcher.count())
		}
		data, _ := os.ReadFile(paths.SlotPath("cat", 0))
		if string(data) != "mp3" {
			t.Errorf("file content = %q, want fresh download", data)
		}
	})

	t.Run("failed fetch clears the flag and returns the error", func(t *testing.T) {
		fetcher := &fakeFetcher{failURLs: map[string]bool{
			"https://audio00.forvo.com/audios/mp3/clip_0.mp3": true,
		}}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(1)
		rec.Downloaded[0] = true // stale claim

		if err := mgr.EnsureIndex(context.Background(), "cat", rec, 0, true); err == nil {
			t.Fatal("expected error")
		}
		if rec.Downloaded[0] {
			t.Error("Downloaded[0] still true after failed fetch")
		}
	})

	t.Run("out of range index", func(t *testing.T) {
		mgr := NewManager(&fakeFetcher{}, &model.PathConfig{CacheDir: t.TempDir()}, 4, nil, nil)
		rec := testRecord(2)
		if err := mgr.EnsureIndex(context.Background(), "cat", rec, 5, false); err == nil {
			t.Error("expected error for out-of-range index")
		}
	})
}

func TestManager_Ensure(t *testing.T) {
	t.Run("partial failure affects only its own slot", func(t *testing.T) {
		fetcher := &fakeFetcher{failURLs: map[string]bool{
			"https://audio00.forvo.com/audios/mp3/clip_1.mp3": true,
		}}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(3)

		results := mgr.Ensure(context.Background(), "cat", rec, []int{0, 1, 2}, false)

		wantOK := []bool{true, false, true}
		if len(results) != 3 {
			t.Fatalf("got %d results, want 3", len(results))
		}
		for i, want := range wantOK {
			if results[i].Index != i {
				t.Errorf("results[%d].Index = %d, want %d (request order)", i, results[i].Index, i)
			}
			if results[i].OK != want {
				t.Errorf("results[%d].OK = %v, want %v", i, results[i].OK, want)
			}
			if rec.Downloaded[i] != want {
				t.Errorf("Downloaded[%d] = %v, want %v", i, rec.Downloaded[i], want)
			}
		}
	})

	t.Run("already downloaded slots are skipped", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(3)
		rec.Downloaded[1] = true

		results := mgr.Ensure(context.Background(), "cat", rec, []int{0, 1, 2}, false)

		if fetcher.count() != 2 {
			t.Errorf("fetched %d files, want 2", fetcher.count())
		}
		if !results[1].Skipped || !results[1].OK {
			t.Errorf("results[1] = %+v, want skipped and OK", results[1])
		}
		if !rec.Downloaded[1] {
			t.Error("skipped slot lost its downloaded flag")
		}
	})

	t.Run("force re-fetches every requested slot", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(2)
		rec.Downloaded[0] = true
		rec.Downloaded[1] = true

		results := mgr.Ensure(context.Background(), "cat", rec, []int{0, 1}, true)

		if fetcher.count() != 2 {
			t.Errorf("fetched %d files, want 2", fetcher.count())
		}
		for i, r := range results {
			if r.Skipped {
				t.Errorf("results[%d] skipped despite force", i)
			}
			if !r.OK {
				t.Errorf("results[%d] not OK", i)
			}
		}
	})

	t.Run("concurrency stays within the configured bound", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 2, nil, nil)
		rec := testRecord(8)

		mgr.Ensure(context.Background(), "cat", rec, AllIndices(rec, -1), false)

		if fetcher.maxSeen > 2 {
			t.Errorf("saw %d concurrent downloads, limit is 2", fetcher.maxSeen)
		}
		if fetcher.count() != 8 {
			t.Errorf("fetched %d files, want 8", fetcher.count())
		}
	})

	t.Run("invalid indices are reported, not fetched", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		paths := &model.PathConfig{CacheDir: t.TempDir()}
		mgr := NewManager(fetcher, paths, 4, nil, nil)
		rec := testRecord(1)

		results := mgr.Ensure(context.Background(), "cat", rec, []int{0, 7}, false)
		if fetcher.count() != 1 {
			t.Errorf("fetched %d files, want 1", fetcher.count())
		}
		if results[1].OK {
			t.Error("invalid index reported OK")
		}
	})
}

func TestRemainingIndices(t *testing.T) {
	rec := testRecord(5)
	rec.Downloaded[1] = true
	rec.Downloaded[4] = true

	got := RemainingIndices(rec, 2)
	want := []int{0, 3}
	if len(got) != len(want) {
		t.Fatalf("RemainingIndices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemainingIndices = %v, want %v", got, want)
		}
	}

	all := AllIndices(rec, 0)
	if len(all) != 4 {
		t.Errorf("AllIndices excluded wrong count: %v", all)
	}
}
