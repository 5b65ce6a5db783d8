// Package pronounce is the facade over the whole pipeline: metadata
// population, downloads, slot selection and playback.
//
// A Pronouncer handles one CLI invocation. Setup loads the persisted
// word mapping and wires the managers, an operation method does the
// work, and Teardown writes the mapping back no matter how the
// operation ended:
//
//	p := pronounce.New(settings, onProgress)
//	if err := p.Setup(ctx, rebuild, override, force); err != nil {
//	    return err
//	}
//	defer p.Teardown()
//	return p.Cycle(ctx, word, numToCycle)
//
// The operation methods map one-to-one to CLI modes: Pronounce plays
// an explicit slot, Cycle advances the persistent cursor, Random picks
// a slot at random, OverrideMetadata refreshes one word's metadata and
// ForceDownload re-fetches its files.
package pronounce
