package manorbill

import "testing"

func TestParseCell(t *testing.T) {
	tests := []struct {
		field string
		kind  CellKind
	}{
		{"", CellMissing},
		{"1", CellNumber},
		{"-2", CellNumber},
		{"3.14", CellNumber},
		{"2.5", CellNumber},
		{"01", CellText},   // formatting would drop the leading zero
		{"1.50", CellText}, // formatting would drop the trailing zero
		{"1e3", CellText},  // formatting would expand to 1000
		{"abc", CellText},
		{"NaN", CellText},
		{"+Inf", CellText},
		{" 1", CellText},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cell := ParseCell(tt.field)
			if cell.Kind() != tt.kind {
				t.Fatalf("ParseCell(%q) kind = %v, want %v", tt.field, cell.Kind(), tt.kind)
			}
			if got := cell.String(); got != tt.field && tt.kind != CellMissing {
				t.Errorf("ParseCell(%q).String() = %q, not identity", tt.field, got)
			}
		})
	}
}

func TestCellEqual(t *testing.T) {
	if !Text("a").Equal(Text("a")) {
		t.Error("equal text cells compared unequal")
	}
	if Text("1").Equal(Number(1)) {
		t.Error("text and number cells compared equal")
	}
	if !Missing().Equal(Missing()) {
		t.Error("missing cells compared unequal")
	}
	if Missing().Equal(Text("")) {
		t.Error("missing and empty text compared equal")
	}
}

func TestTableAppendRow(t *testing.T) {
	tab := NewTable([]string{"A", "B"})

	if err := tab.AppendRow([]Cell{Number(1), Text("x")}); err != nil {
		t.Fatalf("AppendRow() err = %v", err)
	}
	if err := tab.AppendRow([]Cell{Number(1)}); err == nil {
		t.Fatal("AppendRow() with short row expected error, got nil")
	}
	if tab.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", tab.NumRows())
	}
}

func TestTableCloneIsDeep(t *testing.T) {
	tab := NewTable([]string{"A"})
	if err := tab.AppendRow([]Cell{Number(1)}); err != nil {
		t.Fatal(err)
	}

	clone := tab.Clone()
	if err := clone.AppendRow([]Cell{Number(2)}); err != nil {
		t.Fatal(err)
	}

	if tab.NumRows() != 1 {
		t.Errorf("mutating clone changed original: NumRows() = %d", tab.NumRows())
	}
	if !tab.Equal(tab.Clone()) {
		t.Error("clone not equal to original")
	}
}

func TestTableEqualOrderSensitive(t *testing.T) {
	a := NewTable([]string{"A", "B"})
	b := NewTable([]string{"B", "A"})
	if a.Equal(b) {
		t.Error("tables with reordered columns compared equal")
	}
}
