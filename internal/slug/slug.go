// Package slug derives URL and anchor identifiers from page and heading
// titles. Unicode input is folded to ASCII so accented chapter titles
// produce stable anchors across platforms.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes characters and strips combining marks, turning
// e.g. "é" into "e".
var foldMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts a title into a lower-case, hyphen-separated slug.
// Characters that do not fold to ASCII letters or digits become
// separators; runs of separators collapse to a single hyphen.
func Make(title string) string {
	folded, _, err := transform.String(foldMarks, title)
	if err != nil {
		// Transforms over valid UTF-8 do not fail; fall back to the input.
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Anchor returns the anchor identifier for a heading, matching the IDs
// the renderer assigns so in-page links written by authors resolve.
func Anchor(heading string) string {
	return Make(heading)
}
