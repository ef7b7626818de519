// Package tally counts card names across deck lists and renders the
// frequency report.
package tally

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"mtgtally/internal"
	"mtgtally/internal/util"
)

// ErrInvalidText marks a source line that is not valid UTF-8.
var ErrInvalidText = errors.New("invalid UTF-8 text")

// Longer lines fail the run instead of growing the scan buffer further.
const maxLineBytes = 64 * 1024 * 1024

// Table is a frequency table keyed by card. Entries keep the order in which
// their card was first seen, and the display name of an entry is the first
// spelling seen for it.
type Table struct {
	index   map[string]int
	entries []internal.CardCount
	total   int
}

func NewTable() *Table {
	return &Table{index: map[string]int{}}
}

// Add counts one raw deck-list line. It returns false when the line holds
// no card name.
func (t *Table) Add(line string) bool {
	name, key, ok := util.Normalize(line)
	if !ok {
		return false
	}
	if i, seen := t.index[key]; seen {
		t.entries[i].Count++
	} else {
		t.index[key] = len(t.entries)
		t.entries = append(t.entries, internal.CardCount{Name: name, Count: 1})
	}
	t.total++
	return true
}

// AddReader counts every line of r and returns how many lines were counted.
// name identifies the source in errors.
func (t *Table) AddReader(name string, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	sc.Split(util.ScanLines)

	counted := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !utf8.ValidString(line) {
			return counted, fmt.Errorf("%s line %d: %w", name, lineNo, ErrInvalidText)
		}
		if t.Add(line) {
			counted++
		}
	}
	if err := sc.Err(); err != nil {
		return counted, fmt.Errorf("read %s: %w", name, err)
	}
	return counted, nil
}

// Entries returns a copy of the table in first-seen order.
func (t *Table) Entries() []internal.CardCount {
	out := make([]internal.CardCount, len(t.entries))
	copy(out, t.entries)
	return out
}

// Count returns the total for a card, matched like deck-list lines are.
func (t *Table) Count(card string) int {
	_, key, ok := util.Normalize(card)
	if !ok {
		return 0
	}
	if i, seen := t.index[key]; seen {
		return t.entries[i].Count
	}
	return 0
}

// Total is the number of counted lines, equal to the sum of all entries.
func (t *Table) Total() int { return t.total }

func (t *Table) Len() int { return len(t.entries) }
