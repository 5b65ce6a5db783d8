// Package forvo resolves words to pronunciation audio URLs by
// scraping forvo.com word pages.
//
// The rest of the program treats this package as an opaque boundary:
// given a word, Resolve returns an ordered list of
// {audio URL, speaker sex, speaker location} descriptors or
// ErrWordNotFound. How the page is fetched and decoded is internal.
//
// # Usage
//
//	resolver := forvo.NewResolver(httpx.NewClient())
//	prons, err := resolver.Resolve(ctx, "hello")
//	if errors.Is(err, forvo.ErrWordNotFound) {
//	    // fatal for the current operation: the word does not exist
//	}
//	for _, p := range prons {
//	    fmt.Println(p.AudioURL, p.SpeakerSex, p.SpeakerLocation)
//	}
//
// # Page Format
//
// Forvo embeds one Play(...) JavaScript call per pronunciation. The
// call's arguments include base64-encoded path segments that, decoded,
// form the direct MP3 URL on Forvo's audio host. Speaker information
// is displayed next to each player as "(Female from France)". Both are
// extracted with a single multiline regular expression.
package forvo
