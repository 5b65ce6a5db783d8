package audio

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"
	"github.com/pronounce-dev/pronounce-word/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with pronunciation metadata.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field written to
// cached pronunciation clips.
type TagConfig struct {
	// Title controls the TIT2 frame, set to the word.
	Title TagEditAction

	// Artist controls the TPE1 frame, set to the speaker description
	// ("Female from France") when available.
	Artist TagEditAction

	// TrackNumber controls the TRCK frame, set to the slot index.
	TrackNumber TagEditAction

	// Comments controls the COMM frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration: word and
// speaker frames are written, comments are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Title:       TagModify,
		Artist:      TagModify,
		TrackNumber: TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes ID3 tags to cached pronunciation files.
//
// Forvo clips come with no usable metadata, so media players show bare
// filenames. The Tagger stamps each cached clip with the word it
// pronounces and the speaker who recorded it:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, "chat", rec.SpeakerInfo[1], 1)
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the cached clip at path.
//
// Parameters:
//   - path: the cached MP3 file
//   - word: the pronounced word (becomes the title)
//   - info: speaker metadata for this slot (becomes the artist)
//   - index: slot index (becomes the track number)
//
// Returns an error if the file cannot be opened or saved.
func (t *Tagger) SaveTags(path, word string, info model.SpeakerInfo, index int) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			tag = id3v2.NewEmptyTag()
		} else {
			return err
		}
	}
	defer tag.Close()

	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(word)
	}

	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		if artist := SpeakerDescription(info); artist != "" {
			tag.SetArtist(artist)
		}
	}

	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", index+1))
	}

	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}

	return tag.Save()
}

// SpeakerDescription renders speaker info the way Forvo displays it,
// e.g. "Female from France", "Male", "United States", or "" when both
// fields are empty.
func SpeakerDescription(info model.SpeakerInfo) string {
	var sex string
	switch info.Sex {
	case "m":
		sex = "Male"
	case "f":
		sex = "Female"
	}

	switch {
	case sex != "" && info.Location != "":
		return sex + " from " + info.Location
	case sex != "":
		return sex
	default:
		return info.Location
	}
}
