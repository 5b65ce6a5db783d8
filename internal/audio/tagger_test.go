package audio

import (
	"testing"

	"github.com/pronounce-dev/pronounce-word/internal/model"
)

func TestSpeakerDescription(t *testing.T) {
	tests := []struct {
		name string
		info model.SpeakerInfo
		want string
	}{
		{"sex and location", model.SpeakerInfo{Sex: "f", Location: "France"}, "Female from France"},
		{"male with location", model.SpeakerInfo{Sex: "m", Location: "United States"}, "Male from United States"},
		{"sex only", model.SpeakerInfo{Sex: "m"}, "Male"},
		{"location only", model.SpeakerInfo{Location: "Japan"}, "Japan"},
		{"empty", model.SpeakerInfo{}, ""},
		{"unknown sex ignored", model.SpeakerInfo{Sex: "x", Location: "Peru"}, "Peru"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpeakerDescription(tt.info); got != tt.want {
				t.Errorf("SpeakerDescription(%+v) = %q, want %q", tt.info, got, tt.want)
			}
		})
	}
}

func TestNewTagger_NilConfig(t *testing.T) {
	tagger := NewTagger(nil)
	if tagger.config == nil {
		t.Fatal("nil config was not replaced with defaults")
	}
	if tagger.config.Title != TagModify {
		t.Error("default config should modify the title frame")
	}
}
