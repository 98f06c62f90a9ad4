// Package xlsx renders tabular reports as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an .xlsx file.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Row is one data row of a report.
type Row interface {
	CellValues() []interface{}
}

// Write renders headings and rows into a single-sheet workbook and writes it to w.
func Write[T Row](w io.Writer, sheet string, headings []string, rows []T) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(headings))
	for i, h := range headings {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.CellValues()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	if len(headings) > 0 {
		last, err := excelize.ColumnNumberToName(len(headings))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
			return err
		}
	}

	return f.Write(w)
}
