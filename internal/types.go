package internal

// SourceKind is the format a deck list is read as, picked by file extension.
type SourceKind string

const (
	SourceText SourceKind = "text"
	SourceHTML SourceKind = "html"
	SourceXLSX SourceKind = "xlsx"
	SourcePDF  SourceKind = "pdf"
)

// CardCount is one row of a frequency table: the display spelling of a card
// and the total number of lines that named it.
type CardCount struct {
	Name  string
	Count int
}

// RunSummary describes one counting run and the report file it produced.
type RunSummary struct {
	Sources   int
	Lines     int
	Distinct  int
	Reported  int
	Threshold int
	Output    string
}
