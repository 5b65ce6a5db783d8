// Package metadata owns the in-memory word → WordRecord mapping and
// the logic that keeps it consistent.
//
// # Manager
//
// The Manager is the unit of truth for word metadata. It supports
// three operations:
//
//   - Populate: ensure a complete record exists for a word, consulting
//     the Forvo resolver on cache misses (or when overriding).
//   - RebuildFromFilesystem: reconstruct records from audio files
//     already in the cache directory, then refresh their URLs from the
//     resolver while preserving the download flags observed on disk.
//   - Audit: reconcile a record's download flags with the actual
//     files on disk.
//
// # Basic Usage
//
//	words, _ := st.Load()
//	mgr := metadata.NewManager(words, resolver, settings, onProgress)
//
//	found, err := mgr.Populate(ctx, "cat", false)
//	if !found {
//	    // word does not exist on Forvo; err wraps forvo.ErrWordNotFound
//	}
//
// # Ownership
//
// The Manager exclusively owns record contents. The download manager
// receives a record scoped to one word and writes only its download
// flags; the store serializes the mapping without inspecting it.
package metadata
