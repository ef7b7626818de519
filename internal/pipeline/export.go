package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"mtgtally/internal/tally"
)

// WriteReportFile replaces the file at outputPath with the rendered report.
func WriteReportFile(report tally.Report, outputPath string) (err error) {
	if err := ensureDir(outputPath); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create report %s: %w", outputPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report %s: %w", outputPath, cerr)
		}
	}()

	if _, err := report.WriteTo(f); err != nil {
		return fmt.Errorf("write report %s: %w", outputPath, err)
	}
	return nil
}

// ExportReportToXLSX writes the report as a spreadsheet: the header line in
// A1, column titles in row 3 and one row per card below them.
func ExportReportToXLSX(report tally.Report, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	_ = f.SetCellValue(sheet, "A1", report.Header())
	for i, h := range []string{"count", "card"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, e := range report.Entries {
		r := i + 4
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, e.Count)
		set(2, e.Name)
	}

	if err := ensureDir(outputPath); err != nil {
		return err
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save xlsx %s: %w", outputPath, err)
	}
	return nil
}

func ensureDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", outputPath, err)
	}
	return nil
}
