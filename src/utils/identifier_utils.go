// backend/src/utils/identifier_utils.go
package utils

import (
	"regexp"
	"strings"
)

// The normalized identifier is the join key between the manifest side and
// the monitoring side, which format share-class names independently. Its
// stability matters more than any other property in the pipeline: two
// labels differing only by punctuation, case, the "Accu"/"Acc" spelling or
// embedded currency placement must collapse to the same key.

var (
	trademarkGlyphRe = regexp.MustCompile(`[®™©]`)
	hedgedRe         = regexp.MustCompile(`([a-z]{3})\s*\(hedged\)`)
	nonLetterRe      = regexp.MustCompile(`[^a-z]`)
)

// NormalizeIdentifier derives the canonical matching key for a share-class
// display name. It is pure and total: a blank label yields the empty
// string, and the function is idempotent for a fixed currency argument.
//
// The currency handling guards against the code appearing twice, once
// embedded in the label and once supplied separately: every embedded
// occurrence is removed before the code is appended exactly once.
func NormalizeIdentifier(label, currency string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}

	name := strings.ToLower(label)
	name = trademarkGlyphRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "class ", "")
	name = strings.ReplaceAll(name, "accu", "acc")

	// "GBP (Hedged)" style annotations become a trailing marker so that a
	// hedged and an unhedged class never share a key.
	hedgedSuffix := ""
	if m := hedgedRe.FindStringSubmatch(name); m != nil {
		hedgedSuffix = m[1] + "hedged"
	}

	name = nonLetterRe.ReplaceAllString(name, "")

	if ccy := strings.ToLower(strings.TrimSpace(currency)); ccy != "" {
		name = strings.ReplaceAll(name, ccy, "") + ccy
	}

	if hedgedSuffix != "" {
		name += hedgedSuffix
	}
	return name
}
