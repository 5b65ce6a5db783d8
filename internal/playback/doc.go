// Package playback selects which pronunciation slot to play and
// invokes the OS sound command on its cached file.
//
// # Slot Selection
//
// Three modes mirror the CLI flags:
//
//   - NextCycleSlot: cycle through slots across invocations using the
//     record's persisted cursor, optionally bounded to the first N.
//   - RandomSlot: pick a uniformly random slot.
//   - CheckSlot: validate an explicitly requested index.
//
// # Playing
//
//	player := playback.NewPlayer(settings.PlayCommand, onProgress)
//	err := player.Play(ctx, paths.SlotPath("cat", 2))
//
// The play command is a template with a {file} placeholder run through
// the shell, defaulting to afplay on macOS. Users on other systems
// point it at mpg123, ffplay or similar.
package playback
