package tally

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"time"

	"mtgtally/internal"
)

const (
	DefaultLabel = "MTG card totals"

	timestampLayout = "2006-01-02 15:04"
)

// Report is the thresholded, count-descending view of a table.
type Report struct {
	Label       string
	Threshold   int
	GeneratedAt time.Time
	Entries     []internal.CardCount
}

// BuildReport sorts the table by descending count, keeping first-seen order
// between equal counts, and keeps entries with at least threshold copies.
// A threshold of zero or less keeps everything.
func BuildReport(t *Table, threshold int, label string, at time.Time) Report {
	sorted := t.Entries()
	slices.SortStableFunc(sorted, func(a, b internal.CardCount) int {
		return b.Count - a.Count
	})

	kept := make([]internal.CardCount, 0, len(sorted))
	for _, e := range sorted {
		if e.Count < threshold {
			break
		}
		kept = append(kept, e)
	}

	return Report{Label: label, Threshold: threshold, GeneratedAt: at, Entries: kept}
}

func (r Report) Header() string {
	return fmt.Sprintf("# %s (>= %d copies) written on %s", r.Label, r.Threshold, r.GeneratedAt.Format(timestampLayout))
}

// WriteTo renders the header, a blank line and one line per entry.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintf(bw, "%s\n\n", r.Header())
	for _, e := range r.Entries {
		fmt.Fprintf(bw, "%3d  %s\n", e.Count, e.Name)
	}
	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
