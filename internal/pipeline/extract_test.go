package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	xunicode "golang.org/x/text/encoding/unicode"

	"mtgtally/internal"
	"mtgtally/internal/tally"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// mkPDF builds a one-page document that shows each line with Tj, moving to
// the next line with T* in between. Lines must not contain parentheses.
func mkPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	var content strings.Builder
	content.WriteString("BT\n")
	for i, l := range lines {
		if i > 0 {
			content.WriteString("T*\n")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", l)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func countFile(t *testing.T, path string) *tally.Table {
	t.Helper()
	table, err := tally.Aggregate([]tally.Source{FileSource{Path: path}})
	require.NoError(t, err)
	return table
}

func TestFileSourceKind(t *testing.T) {
	cases := map[string]internal.SourceKind{
		"deck.txt":   internal.SourceText,
		"deck.dec":   internal.SourceText,
		"deck":       internal.SourceText,
		"deck.HTML":  internal.SourceHTML,
		"deck.htm":   internal.SourceHTML,
		"deck.xlsx":  internal.SourceXLSX,
		"deck.pdf":   internal.SourcePDF,
		"dir/a.Xlsx": internal.SourceXLSX,
	}
	for path, want := range cases {
		require.Equal(t, want, FileSource{Path: path}.Kind(), path)
	}
}

func TestTextSourceUTF8BOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bom.txt", []byte("\xef\xbb\xbf4 Opt\r\nopt\r\n"))
	table := countFile(t, path)
	require.Equal(t, []internal.CardCount{{Name: "Opt", Count: 2}}, table.Entries())
}

func TestTextSourceUTF16(t *testing.T) {
	enc := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewEncoder()
	blob, err := enc.Bytes([]byte("4 Opt\r\n2x Island\r\nOPT\r\n"))
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), "utf16.txt", blob)
	table := countFile(t, path)
	require.Equal(t, []internal.CardCount{{Name: "Opt", Count: 2}, {Name: "Island", Count: 1}}, table.Entries())
}

func TestTextSourceInvalidUTF8(t *testing.T) {
	path := writeFile(t, t.TempDir(), "latin1.txt", []byte("4 Opt\n1 \xc6ther Vial\n"))
	_, err := tally.Aggregate([]tally.Source{FileSource{Path: path}})
	require.ErrorIs(t, err, tally.ErrInvalidText)
	require.Contains(t, err.Error(), path)
}

func TestTextSourceMissing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "gone.txt")}.Open()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseHTMLList(t *testing.T) {
	html := `<html><body><h1>Deck</h1><ul><li>4 Lightning Bolt</li><li> 2x  Opt </li></ul></body></html>`
	lines, err := parseHTML([]byte(html))
	require.NoError(t, err)
	require.Equal(t, []string{"4 Lightning Bolt", "2x Opt"}, lines)
}

func TestParseHTMLTable(t *testing.T) {
	html := `<table><tr><th>Qty</th><th>Card</th></tr><tr><td>4</td><td>Lightning Bolt</td></tr><tr><td>2</td><td>Opt</td></tr></table>`
	lines, err := parseHTML([]byte(html))
	require.NoError(t, err)
	require.Equal(t, []string{"4 Lightning Bolt", "2 Opt"}, lines)
}

func TestParseHTMLNestedList(t *testing.T) {
	html := `<ul><li>Creatures<ul><li>4 Goblin Guide</li></ul></li><li>Land</li></ul>`
	lines, err := parseHTML([]byte(html))
	require.NoError(t, err)
	require.Equal(t, []string{"4 Goblin Guide", "Land"}, lines)
}

func TestParseHTMLFallbackText(t *testing.T) {
	html := `<html><body><p>4 Lightning Bolt<br>2 Opt<br/>Island</p></body></html>`
	lines, err := parseHTML([]byte(html))
	require.NoError(t, err)
	require.Equal(t, []string{"4 Lightning Bolt", "2 Opt", "Island"}, lines)
}

func TestParseXLSX(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{4, "Lightning Bolt"},
		{},
		{"2x", "Opt"},
		{"", "Island"},
	})
	lines, err := parseXLSX(blob)
	require.NoError(t, err)
	require.Equal(t, []string{"4 Lightning Bolt", "2x Opt", "Island"}, lines)
}

func TestXLSXSourceCounts(t *testing.T) {
	blob := mkXLSX(t, [][]any{{4, "Opt"}, {"Opt"}, {1, "Ponder"}})
	path := writeFile(t, t.TempDir(), "deck.xlsx", blob)
	table := countFile(t, path)
	require.Equal(t, 2, table.Count("opt"))
	require.Equal(t, 1, table.Count("Ponder"))
}

func TestXLSXSourceBroken(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.xlsx", []byte("not a zip"))
	_, err := FileSource{Path: path}.Open()
	require.Error(t, err)
	require.Contains(t, err.Error(), "as xlsx")
}

func TestHTMLSourceReadsAll(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.html", []byte(`<ol><li>Opt</li><li>1 Opt</li></ol>`))
	rc, err := FileSource{Path: path}.Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "Opt\n1 Opt", string(body))
}

func TestParsePDF(t *testing.T) {
	lines, err := parsePDF(mkPDF(t, "4x Lightning Bolt", "2 Opt", "Island"))
	require.NoError(t, err)
	require.Equal(t, []string{"4x Lightning Bolt", "2 Opt", "Island"}, lines)
}

func TestPDFSourceCounts(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deck.pdf", mkPDF(t, "4 Opt", "opt", "1 Ponder"))
	table := countFile(t, path)
	require.Equal(t, 2, table.Count("Opt"))
	require.Equal(t, 1, table.Count("ponder"))
	require.Equal(t, 3, table.Total())
}

func TestPDFSourceBroken(t *testing.T) {
	cases := map[string][]byte{
		"garbage":   []byte("4 Lightning Bolt\n"),
		"truncated": mkPDF(t, "4 Opt")[:40],
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "deck.pdf", blob)
			_, err := tally.Aggregate([]tally.Source{FileSource{Path: path}})
			require.Error(t, err)
			require.Contains(t, err.Error(), "as pdf")
			require.Equal(t, 1, strings.Count(err.Error(), path), err.Error())
		})
	}
}
