// Package audio writes ID3 metadata onto cached pronunciation clips.
//
// Tagging is optional (Settings.TagDownloads) and purely cosmetic:
// clips play fine untagged, but tagged files show the word and speaker
// in media players instead of a bare filename.
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	tagger.SaveTags("/cache/chat_1.mp3", "chat", info, 1)
package audio
