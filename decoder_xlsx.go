// Copyright 2026 Emerald Labs
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package manorbill

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXDecoder handles XLSX files. Only the first sheet is decoded; its
// first row is the header.
type XLSXDecoder struct{}

// NewXLSXDecoder creates a new XLSXDecoder.
func NewXLSXDecoder() *XLSXDecoder {
	return &XLSXDecoder{}
}

func (d *XLSXDecoder) Accepts(info StreamInfo) bool {
	if info.Extension == ".xlsx" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (d *XLSXDecoder) Decode(reader io.ReadSeeker, info StreamInfo) (*Table, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return tableFromSheet(rows)
}

// tableFromSheet builds a table from sheet rows. Spreadsheet libraries trim
// trailing empty cells per row, so short rows are padded; rows wider than
// the header are rejected.
func tableFromSheet(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, &DecodeError{Reason: "empty sheet"}
	}

	header := rows[0]
	if len(header) == 0 {
		return nil, &DecodeError{Reason: "zero header columns"}
	}

	t := NewTable(header)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+2, len(row), len(header))
		}
		t.appendRaw(row)
	}
	return t, nil
}
