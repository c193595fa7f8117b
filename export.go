package manorbill

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// ExportContentType is the content type of CSV downloads.
	ExportContentType = "text/csv"
	// ExportContentTypeXLSX is the content type of XLSX downloads.
	ExportContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// defaultExportBase names the download when no origin filename exists.
	defaultExportBase = "edited_sheet"

	exportSheetName = "Sheet1"
)

// EncodeCSV serializes a table to UTF-8 CSV bytes: header row from the
// column names, one line per data row, no index column. Quoting follows
// standard CSV rules, so decoding the result reproduces the table.
func EncodeCSV(t *Table) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(t.Columns())
	record := make([]string, t.NumColumns())
	for i := 0; i < t.NumRows(); i++ {
		for j := 0; j < t.NumColumns(); j++ {
			record[j] = t.At(i, j).String()
		}
		w.Write(record)
	}
	w.Flush()

	return buf.Bytes()
}

// EncodeXLSX serializes a table to a single-sheet XLSX workbook. Numeric
// cells keep their numeric type; missing cells stay blank.
func EncodeXLSX(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, t.NumColumns())
	for j, name := range t.Columns() {
		header[j] = name
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < t.NumRows(); i++ {
		row := make([]interface{}, t.NumColumns())
		for j := 0; j < t.NumColumns(); j++ {
			switch cell := t.At(i, j); cell.Kind() {
			case CellNumber:
				row[j], _ = cell.Float()
			case CellText:
				row[j] = cell.String()
			default:
				row[j] = nil
			}
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(exportSheetName, start, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename derives the CSV download name from the origin filename:
// the last extension segment is stripped and "_edited.csv" appended.
// "invoice.PNG" becomes "invoice_edited.csv"; a name with no extension is
// used whole.
func ExportFilename(origin string) string {
	return exportBase(origin) + "_edited.csv"
}

// ExportFilenameXLSX is ExportFilename for the XLSX download.
func ExportFilenameXLSX(origin string) string {
	return exportBase(origin) + "_edited.xlsx"
}

func exportBase(origin string) string {
	if origin == "" {
		return defaultExportBase
	}
	if i := strings.LastIndex(origin, "."); i >= 0 {
		return origin[:i]
	}
	return origin
}

// ExportCSV serializes the session's current table and derives its download
// filename. Fails with NoActiveSessionError if nothing is loaded.
func (s *Session) ExportCSV() ([]byte, string, error) {
	t, ok := s.Current()
	if !ok {
		return nil, "", &NoActiveSessionError{Op: "export"}
	}
	return EncodeCSV(t), ExportFilename(s.Origin()), nil
}

// ExportXLSX is ExportCSV for the XLSX download format.
func (s *Session) ExportXLSX() ([]byte, string, error) {
	t, ok := s.Current()
	if !ok {
		return nil, "", &NoActiveSessionError{Op: "export"}
	}
	data, err := EncodeXLSX(t)
	if err != nil {
		return nil, "", err
	}
	return data, ExportFilenameXLSX(s.Origin()), nil
}
