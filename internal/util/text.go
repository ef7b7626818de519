package util

import (
	"bytes"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CardKey is the comparison identity of a card name.
func CardKey(name string) string {
	return cases.Lower(language.Und).String(name)
}

// Normalize turns a raw deck-list line into its display name and key.
// ok is false when nothing but a quantity or whitespace was on the line.
func Normalize(line string) (name, key string, ok bool) {
	name = StripQuantity(line)
	if name == "" {
		return "", "", false
	}
	return name, CardKey(name), true
}

// ScanLines is a bufio.SplitFunc like bufio.ScanLines that also accepts a
// bare "\r" as a line terminator.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// "\r" at the buffer end: need one more byte to tell "\r" from "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// SplitLines splits extracted document text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeSpaces collapses every whitespace run to a single space.
func NormalizeSpaces(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
