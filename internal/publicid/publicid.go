// Package publicid derives media-host public IDs from free-form product text.
package publicid

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sanitize turns arbitrary text into a token made only of [A-Za-z0-9_-].
//
// The text is NFKD-decomposed and combining diacritical marks are dropped, so
// "Café" becomes "Cafe". Every run of other characters becomes a single
// underscore, and underscores never lead, trail, or repeat.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range norm.NFKD.String(s) {
		if isCombiningMark(r) {
			continue
		}
		if r == '_' || !isIDChar(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(r)
	}

	return b.String()
}

// Choose picks the public ID for a row. The sanitized alt text wins when
// preferAlt is set and it is non-empty, then the sanitized product name, then
// the raw SKU.
func Choose(altText, productName, sku string, preferAlt bool) string {
	if preferAlt {
		if id := Sanitize(altText); id != "" {
			return id
		}
	}
	if id := Sanitize(productName); id != "" {
		return id
	}
	return sku
}

func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

func isIDChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-':
		return true
	}
	return false
}
