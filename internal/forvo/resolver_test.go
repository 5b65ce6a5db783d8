package forvo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// playerHTML builds one pronunciation entry the way Forvo embeds them:
// the second Play argument carries the legacy-host path, the fifth the
// primary one.
func playerHTML(fallback, primary, sex, location string) string {
	from := fmt.Sprintf("(%s)", sex)
	if location != "" {
		from = fmt.Sprintf("(%s from %s)", sex, location)
	}
	return fmt.Sprintf(
		`<div onclick="Play(123,'%s','x',false,'%s')">play</div>
		<span class="from">%s</span>`,
		fallback, primary, from)
}

func TestParsePronunciations(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []Pronunciation
	}{
		{
			name: "primary encoded path",
			html: playerHTML(b64("legacy/cat.mp3"), b64("9/f/cat_9f.mp3"), "Female", "France"),
			want: []Pronunciation{{
				AudioURL:        "https://audio00.forvo.com/audios/mp3/9/f/cat_9f.mp3",
				SpeakerSex:      "f",
				SpeakerLocation: "France",
			}},
		},
		{
			name: "fallback path when primary arg empty",
			html: playerHTML(b64("legacy/cat.mp3"), "", "Male", "United States"),
			want: []Pronunciation{{
				AudioURL:        "https://audio00.forvo.com/mp3/legacy/cat.mp3",
				SpeakerSex:      "m",
				SpeakerLocation: "United States",
			}},
		},
		{
			name: "speaker without location",
			html: playerHTML("", b64("a/b.mp3"), "Male", ""),
			want: []Pronunciation{{
				AudioURL:   "https://audio00.forvo.com/audios/mp3/a/b.mp3",
				SpeakerSex: "m",
			}},
		},
		{
			name: "multiple pronunciations keep page order",
			html: playerHTML("", b64("one.mp3"), "Female", "Canada") +
				playerHTML("", b64("two.mp3"), "Male", "Ireland"),
			want: []Pronunciation{
				{AudioURL: "https://audio00.forvo.com/audios/mp3/one.mp3", SpeakerSex: "f", SpeakerLocation: "Canada"},
				{AudioURL: "https://audio00.forvo.com/audios/mp3/two.mp3", SpeakerSex: "m", SpeakerLocation: "Ireland"},
			},
		},
		{
			name: "undecodable entry dropped",
			html: playerHTML("!!!not-base64!!!", "", "Male", "Spain") +
				playerHTML("", b64("ok.mp3"), "Female", "Italy"),
			want: []Pronunciation{
				{AudioURL: "https://audio00.forvo.com/audios/mp3/ok.mp3", SpeakerSex: "f", SpeakerLocation: "Italy"},
			},
		},
		{
			name: "page without players",
			html: `<html><body>No pronunciations here</body></html>`,
			want: []Pronunciation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePronunciations(tt.html)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d pronunciations, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pronunciation %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

type fakeFetcher struct {
	html string
	err  error
	urls []string
}

func (f *fakeFetcher) GetString(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.html, f.err
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("fetch failure maps to not found", func(t *testing.T) {
		r := NewResolver(&fakeFetcher{err: errors.New("HTTP 404: Not Found")})
		_, err := r.Resolve(context.Background(), "nosuchword")
		if !errors.Is(err, ErrWordNotFound) {
			t.Errorf("err = %v, want ErrWordNotFound", err)
		}
	})

	t.Run("word is path-escaped into the page URL", func(t *testing.T) {
		f := &fakeFetcher{html: ""}
		r := NewResolver(f)
		if _, err := r.Resolve(context.Background(), "straße"); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if len(f.urls) != 1 {
			t.Fatalf("fetched %d URLs, want 1", len(f.urls))
		}
		want := "https://forvo.com/word/stra%C3%9Fe/"
		if f.urls[0] != want {
			t.Errorf("fetched %q, want %q", f.urls[0], want)
		}
	})

	t.Run("successful resolve", func(t *testing.T) {
		f := &fakeFetcher{html: playerHTML("", b64("x/y.mp3"), "Female", "Germany")}
		r := NewResolver(f)
		prons, err := r.Resolve(context.Background(), "hallo")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if len(prons) != 1 {
			t.Fatalf("got %d pronunciations, want 1", len(prons))
		}
		if prons[0].AudioURL != "https://audio00.forvo.com/audios/mp3/x/y.mp3" {
			t.Errorf("AudioURL = %q", prons[0].AudioURL)
		}
	})
}

func TestNormalizeSex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Male", "m"},
		{"Female", "f"},
		{"male", "m"},
		{" f ", "f"},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeSex(tt.input); got != tt.want {
			t.Errorf("normalizeSex(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
