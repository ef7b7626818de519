package tally

import (
	"fmt"
	"io"
)

// Source is one deck list to count.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// Aggregate counts all sources in order into a fresh table. The first source
// that cannot be opened or read aborts the run; no partial table is returned.
func Aggregate(sources []Source) (*Table, error) {
	t := NewTable()
	for _, src := range sources {
		if _, err := t.AddSource(src); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddSource opens src, counts its lines and closes it again.
func (t *Table) AddSource(src Source) (n int, err error) {
	rc, err := src.Open()
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", src.Name(), cerr)
		}
	}()
	return t.AddReader(src.Name(), rc)
}
