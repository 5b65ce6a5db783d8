// Package model defines the core data types for pronounce-word.
//
// The central type is WordRecord, the per-word metadata record that is
// persisted across runs:
//
//	rec := model.NewWordRecord(3)
//	rec.AudioURLs = []string{url0, url1, url2}
//	rec.SpeakerInfo = []model.SpeakerInfo{{Sex: "f", Location: "France"}, {}, {}}
//
// A record holds four parallel slices (AudioURLs, SpeakerInfo, Disabled,
// Downloaded) that must all have length NumPronunciations. Use Validate
// to check this invariant before trusting a record that came from disk.
//
// The package also provides PathConfig, which maps (word, slot index)
// pairs to deterministic file paths inside the cache directory:
//
//	cfg := &model.PathConfig{CacheDir: "/home/me/.pronounce-word/cache"}
//	cfg.SlotPath("cat", 0) // .../cache/cat.mp3
//	cfg.SlotPath("cat", 2) // .../cache/cat_2.mp3
package model
