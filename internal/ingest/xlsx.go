// Package ingest loads raw crime-gun source files (dealer DB workbooks,
// unified-schema CSV exports) into the unified event schema.
package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Workbook wraps an open XLSX file.
type Workbook struct {
	file *xlsx.File
}

// OpenWorkbook opens an XLSX file for sheet-by-sheet reading.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open workbook %s", path)
	}
	return &Workbook{file: f}, nil
}

// SheetNames returns the workbook's sheet names in file order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.file.Sheets))
	for i, s := range w.file.Sheets {
		names[i] = s.Name
	}
	return names
}

// SheetRows returns every row of the named sheet as string slices,
// including the header row.
func (w *Workbook) SheetRows(name string) ([][]string, error) {
	sheet, ok := w.file.Sheet[name]
	if !ok {
		return nil, eris.Errorf("ingest: sheet %q not found", name)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
