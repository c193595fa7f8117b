package manorbill

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/extrame/xls"
)

// XLSDecoder handles legacy XLS files. Only the first sheet is decoded; its
// first row is the header.
type XLSDecoder struct{}

// NewXLSDecoder creates a new XLSDecoder.
func NewXLSDecoder() *XLSDecoder {
	return &XLSDecoder{}
}

func (d *XLSDecoder) Accepts(info StreamInfo) bool {
	if info.Extension == ".xls" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "application/vnd.ms-excel")
}

func (d *XLSDecoder) Decode(reader io.ReadSeeker, info StreamInfo) (*Table, error) {
	// extrame/xls requires a file path, so spool to a temp file first.
	tmpFile, err := os.CreateTemp("", "manorbill-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, reader); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmpFile.Close()

	wb, err := xls.Open(tmpPath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no readable sheet")
	}

	var rows [][]string
	maxRow := int(sheet.MaxRow)
	for rowIdx := 0; rowIdx <= maxRow; rowIdx++ {
		row := sheet.Row(rowIdx)
		if row == nil {
			continue
		}
		var cells []string
		lastCol := row.LastCol()
		for colIdx := 0; colIdx < lastCol; colIdx++ {
			cells = append(cells, row.Col(colIdx))
		}
		rows = append(rows, cells)
	}

	return tableFromSheet(rows)
}
