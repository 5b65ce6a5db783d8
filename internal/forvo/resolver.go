package forvo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrWordNotFound is returned when a word cannot be resolved to any
// pronunciations.
//
// This covers both "Forvo has no such word" and resolver-level
// failures (network errors, non-200 responses): callers treat every
// resolution failure the same way, as "the word does not exist".
var ErrWordNotFound = errors.New("word not found")

const (
	wordPageURL      = "https://forvo.com/word/%s/"
	audioURL         = "https://audio00.forvo.com/audios/mp3/%s"
	fallbackAudioURL = "https://audio00.forvo.com/mp3/%s"
)

// playArgsRe matches the Play(...) invocations Forvo embeds for each
// pronunciation, together with the speaker description that follows:
//
//	Play(3974927,'...','<base64 path>',...) ... <span class="from">(Female from France)</span>
//
// Group 1 is the Play argument list, group 2 the speaker sex text and
// group 3 the optional location.
var playArgsRe = regexp.MustCompile(`(?s)Play\((\d+,[^)]*)\).*?<span class="from">\((.+?)(?: from ([^)]+?))?\)`)

// Pronunciation describes one resolved pronunciation slot.
type Pronunciation struct {
	// AudioURL is the direct URL of the MP3 clip.
	AudioURL string

	// SpeakerSex is "m", "f", or "" when Forvo does not say.
	SpeakerSex string

	// SpeakerLocation is the speaker's stated location, possibly empty.
	SpeakerLocation string
}

// PageFetcher fetches a URL and returns the page body.
// *httpx.Client satisfies this interface.
type PageFetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Resolver turns a word into an ordered list of pronunciations by
// scraping the Forvo word page.
//
// The page embeds each clip as an obfuscated Play(...) call whose
// arguments carry base64-encoded path segments. The resolver decodes
// those into direct audio URLs and pairs them with the speaker info
// displayed next to each player.
//
// Example usage:
//
//	resolver := forvo.NewResolver(httpx.NewClient())
//	prons, err := resolver.Resolve(ctx, "cat")
//	if errors.Is(err, forvo.ErrWordNotFound) {
//	    // word does not exist on Forvo
//	}
type Resolver struct {
	client PageFetcher
}

// NewResolver creates a Resolver using the given page fetcher.
func NewResolver(client PageFetcher) *Resolver {
	return &Resolver{client: client}
}

// Resolve fetches the Forvo page for word and returns its
// pronunciations in page order.
//
// Any fetch failure (network error or non-200 status) is reported as
// ErrWordNotFound; the underlying cause is included in the error text.
// A page that parses but contains no pronunciations yields an empty
// slice and no error.
func (r *Resolver) Resolve(ctx context.Context, word string) ([]Pronunciation, error) {
	pageURL := fmt.Sprintf(wordPageURL, url.PathEscape(word))
	html, err := r.client.GetString(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrWordNotFound, pageURL, err)
	}

	return parsePronunciations(html), nil
}

// parsePronunciations extracts pronunciations from word page HTML.
//
// Matches whose Play arguments carry no decodable audio path are
// dropped entirely so the returned slice stays internally consistent:
// one entry per playable clip.
func parsePronunciations(html string) []Pronunciation {
	matches := playArgsRe.FindAllStringSubmatch(html, -1)

	prons := make([]Pronunciation, 0, len(matches))
	for _, m := range matches {
		clipURL, ok := decodeAudioURL(m[1])
		if !ok {
			continue
		}
		prons = append(prons, Pronunciation{
			AudioURL:        clipURL,
			SpeakerSex:      normalizeSex(m[2]),
			SpeakerLocation: strings.TrimSpace(m[3]),
		})
	}
	return prons
}

// decodeAudioURL turns a Play(...) argument list into a clip URL.
//
// The fifth argument, when present, is the base64-encoded path of the
// high-quality MP3; otherwise the second argument carries the path for
// the legacy audio host.
func decodeAudioURL(args string) (string, bool) {
	parts := strings.Split(args, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), "'")
	}

	if len(parts) > 4 && parts[4] != "" {
		if path, err := base64.StdEncoding.DecodeString(parts[4]); err == nil {
			return fmt.Sprintf(audioURL, string(path)), true
		}
	}
	if len(parts) > 1 && parts[1] != "" {
		if path, err := base64.StdEncoding.DecodeString(parts[1]); err == nil {
			return fmt.Sprintf(fallbackAudioURL, string(path)), true
		}
	}
	return "", false
}

// normalizeSex maps Forvo's speaker sex text to "m"/"f".
func normalizeSex(text string) string {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "male", "m":
		return "m"
	case "female", "f":
		return "f"
	}
	return ""
}
