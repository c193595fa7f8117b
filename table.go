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
	"math"
	"strconv"
)

// CellKind identifies the variant held by a Cell.
type CellKind int

const (
	CellMissing CellKind = iota
	CellText
	CellNumber
)

// Cell is a single table value: text, a number, or missing.
// The zero value is a missing cell.
type Cell struct {
	kind   CellKind
	text   string
	number float64
}

// Missing returns the missing cell.
func Missing() Cell {
	return Cell{}
}

// Text returns a text cell holding s.
func Text(s string) Cell {
	return Cell{kind: CellText, text: s}
}

// Number returns a numeric cell holding f.
func Number(f float64) Cell {
	return Cell{kind: CellNumber, number: f}
}

// Kind reports which variant the cell holds.
func (c Cell) Kind() CellKind {
	return c.kind
}

// String renders the cell the way the exporter writes it: missing cells
// render as the empty string, numbers in the shortest form that parses back
// to the same value.
func (c Cell) String() string {
	switch c.kind {
	case CellText:
		return c.text
	case CellNumber:
		return strconv.FormatFloat(c.number, 'g', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric value and whether the cell holds a number.
func (c Cell) Float() (float64, bool) {
	return c.number, c.kind == CellNumber
}

// Equal reports whether two cells hold the same variant and value.
func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case CellText:
		return c.text == o.text
	case CellNumber:
		return c.number == o.number
	default:
		return true
	}
}

// ParseCell converts a raw field into a Cell. An empty field is missing.
// A field becomes a number only when formatting the parsed value reproduces
// the field exactly, so ParseCell followed by String is the identity on any
// non-empty field. "01" and "1.50" therefore stay text.
func ParseCell(field string) Cell {
	if field == "" {
		return Missing()
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(field)
	}
	if strconv.FormatFloat(f, 'g', -1, 64) != field {
		return Text(field)
	}
	return Number(f)
}

// Table is an ordered set of named columns and ordered rows of cells.
// Column names are positional; duplicates are allowed and preserved.
// Every row holds exactly one cell per column.
type Table struct {
	columns []string
	rows    [][]Cell
}

// NewTable creates an empty table with the given column names.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// NumColumns returns the number of declared columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// At returns the cell at the given row and column index.
func (t *Table) At(row, col int) Cell {
	return t.rows[row][col]
}

// Row returns a copy of the cells in the given row.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.rows[i]))
	copy(row, t.rows[i])
	return row
}

// AppendRow adds a row to the table. The row must have exactly one cell per
// declared column.
func (t *Table) AppendRow(cells []Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.columns))
	}
	row := make([]Cell, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// appendRaw adds a row of raw fields, padding short rows with missing cells.
// Used by decoders, which enforce the over-long row policy themselves.
func (t *Table) appendRaw(fields []string) {
	row := make([]Cell, len(t.columns))
	for i := range t.columns {
		if i < len(fields) {
			row[i] = ParseCell(fields[i])
		}
	}
	t.rows = append(t.rows, row)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable(t.columns)
	c.rows = make([][]Cell, len(t.rows))
	for i, row := range t.rows {
		c.rows[i] = make([]Cell, len(row))
		copy(c.rows[i], row)
	}
	return c
}

// Equal reports whether two tables have the same columns in the same order
// and the same cells in the same order.
func (t *Table) Equal(o *Table) bool {
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i, col := range t.columns {
		if o.columns[i] != col {
			return false
		}
	}
	for i, row := range t.rows {
		for j, cell := range row {
			if !cell.Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}
