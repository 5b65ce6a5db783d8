// Package download provides the concurrent fetch logic for
// pronunciation audio files.
//
// # Manager
//
// The Manager ensures that the audio files backing a word's
// pronunciation slots exist on disk:
//
//	manager := download.NewManager(client, paths, 4, nil, onProgress)
//
//	// Primary slot, needed now, synchronously:
//	err := manager.EnsureIndex(ctx, "cat", rec, 2, false)
//
//	// Everything else, after playback has started:
//	manager.Ensure(ctx, "cat", rec, download.RemainingIndices(rec, 2), false)
//
// # Concurrency
//
// Bulk downloads run on an errgroup worker pool bounded by the
// configured concurrency. Each task writes into its own result cell;
// the record's download flags are merged in a single pass after the
// batch joins, so a partially completed batch is never observable.
//
// # Failure Semantics
//
// A failed fetch marks only its own slot as not-downloaded and never
// aborts sibling downloads. No partial-file cleanup is attempted; the
// metadata audit on the next run reconciles flags with disk state.
package download
