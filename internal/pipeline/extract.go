package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"mtgtally/internal"
	"mtgtally/internal/util"
)

// FileSource is a deck list on disk. Plain text is streamed; html, xlsx and
// pdf documents are reduced to lines first.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Kind() internal.SourceKind {
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".html", ".htm":
		return internal.SourceHTML
	case ".xlsx":
		return internal.SourceXLSX
	case ".pdf":
		return internal.SourcePDF
	default:
		return internal.SourceText
	}
}

func (s FileSource) Open() (io.ReadCloser, error) {
	kind := s.Kind()
	if kind == internal.SourceText {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, err
		}
		return &textFile{Reader: decodeText(f), f: f}, nil
	}

	blob, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	lines, err := extractLines(kind, blob)
	if err != nil {
		return nil, fmt.Errorf("parse as %s: %w", kind, err)
	}
	return io.NopCloser(strings.NewReader(strings.Join(lines, "\n"))), nil
}

type textFile struct {
	io.Reader
	f *os.File
}

func (t *textFile) Close() error { return t.f.Close() }

// decodeText drops a UTF-8 byte order mark and decodes UTF-16 text that
// starts with one. Anything else passes through untouched.
func decodeText(r io.Reader) io.Reader {
	return transform.NewReader(r, xunicode.BOMOverride(transform.Nop))
}

func extractLines(kind internal.SourceKind, content []byte) ([]string, error) {
	switch kind {
	case internal.SourceHTML:
		return parseHTML(content)
	case internal.SourceXLSX:
		return parseXLSX(content)
	case internal.SourcePDF:
		return parsePDF(content)
	default:
		return util.SplitLines(string(content)), nil
	}
}

func parseHTML(content []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	out := []string{}
	doc.Find("li, tr").Each(func(_ int, sel *goquery.Selection) {
		var line string
		if sel.Is("tr") {
			cells := sel.Find("td")
			if cells.Length() == 0 {
				return
			}
			parts := make([]string, 0, cells.Length())
			cells.Each(func(_ int, cell *goquery.Selection) {
				if text := util.NormalizeSpaces(cell.Text()); text != "" {
					parts = append(parts, text)
				}
			})
			line = strings.Join(parts, " ")
		} else {
			if sel.Find("li").Length() > 0 {
				return
			}
			line = util.NormalizeSpaces(sel.Text())
		}
		if line != "" {
			out = append(out, line)
		}
	})
	if len(out) > 0 {
		return out, nil
	}

	doc.Find("br").ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	return util.SplitLines(doc.Find("body").Text()), nil
}

func parseXLSX(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []string{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				if c = util.NormalizeSpaces(c); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				out = append(out, strings.Join(cells, " "))
			}
		}
	}
	return out, nil
}

func parsePDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		out = append(out, util.SplitLines(text)...)
	}
	return out, nil
}
