package util

import (
	"regexp"
	"strings"
)

// A deck-list quantity such as "4", "4x", "4 x" or "x". An x glued to the
// digits always belongs to the quantity. A spaced or bare x only counts when
// whitespace or the end of the line follows it, so "Xenagos" and
// "2 Xathrid Necromancer" keep their first letter.
var qtyPrefixPattern = regexp.MustCompile(`^[\s\p{Zs}]*(?:\d+(?:[xX]|[\s\p{Zs}]*[xX](?:[\s\p{Zs}]+|$))?|[xX](?:[\s\p{Zs}]+|$))?`)

// StripQuantity removes a leading quantity prefix from a deck-list line and
// trims the surrounding whitespace. Lines without a prefix are only trimmed.
func StripQuantity(line string) string {
	if loc := qtyPrefixPattern.FindStringIndex(line); loc != nil {
		line = line[loc[1]:]
	}
	return strings.TrimSpace(line)
}
