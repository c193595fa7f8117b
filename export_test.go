package manorbill

import (
	"bytes"
	"testing"
)

func TestExportFilename(t *testing.T) {
	tests := []struct {
		origin string
		want   string
	}{
		{"invoice.PNG", "invoice_edited.csv"},
		{"report", "report_edited.csv"},
		{"image_extracted.csv", "image_extracted_edited.csv"},
		{"archive.tar.gz", "archive.tar_edited.csv"},
		{"", "edited_sheet_edited.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := ExportFilename(tt.origin); got != tt.want {
				t.Errorf("ExportFilename(%q) = %q, want %q", tt.origin, got, tt.want)
			}
		})
	}

	if got := ExportFilenameXLSX("invoice.PNG"); got != "invoice_edited.xlsx" {
		t.Errorf("ExportFilenameXLSX = %q, want invoice_edited.xlsx", got)
	}
}

func TestEncodeCSV(t *testing.T) {
	tab := mustTable(t, "A,B\n1,2\n3,4\n")

	got := string(EncodeCSV(tab))
	want := "A,B\n1,2\n3,4\n"
	if got != want {
		t.Errorf("EncodeCSV() = %q, want %q", got, want)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	inputs := []string{
		"A,B\n1,2\n",
		"A,B,C\nfoo,2.5,\n,,\n",
		"X,X\ndup,cols\n",
		"A,B\n\"x,y\",\"l1\nl2\"\n",
		"name,qty\n\"quote \"\" inside\",01\n",
		"OnlyHeader,NoRows\n",
	}

	for _, input := range inputs {
		first, err := DecodeCSVString(input)
		if err != nil {
			t.Fatalf("decode %q: %v", input, err)
		}
		second, err := DecodeCSVString(string(EncodeCSV(first)))
		if err != nil {
			t.Fatalf("re-decode of exported %q: %v", input, err)
		}
		if !first.Equal(second) {
			t.Errorf("export-decode round trip changed table for %q", input)
		}
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	tab := mustTable(t, "A,B,C\n1,text,\n2.5,\"x,y\",01\n")

	data, err := EncodeXLSX(tab)
	if err != nil {
		t.Fatalf("EncodeXLSX() err = %v", err)
	}

	dec := NewXLSXDecoder()
	got, err := dec.Decode(bytes.NewReader(data), StreamInfo{Extension: ".xlsx"})
	if err != nil {
		t.Fatalf("decode exported workbook: %v", err)
	}
	if !got.Equal(tab) {
		t.Error("XLSX export-decode round trip changed table")
	}
}

func TestSessionExportWithoutTable(t *testing.T) {
	s := NewSession()

	if _, _, err := s.ExportCSV(); !IsNoActiveSession(err) {
		t.Errorf("ExportCSV() err = %v, want NoActiveSessionError", err)
	}
	if _, _, err := s.ExportXLSX(); !IsNoActiveSession(err) {
		t.Errorf("ExportXLSX() err = %v, want NoActiveSessionError", err)
	}
}

func TestSessionExportCSV(t *testing.T) {
	s := NewSession()
	s.Load(mustTable(t, "A,B\n1,2\n"), "invoice.PNG")

	data, filename, err := s.ExportCSV()
	if err != nil {
		t.Fatalf("ExportCSV() err = %v", err)
	}
	if filename != "invoice_edited.csv" {
		t.Errorf("filename = %q, want invoice_edited.csv", filename)
	}
	if string(data) != "A,B\n1,2\n" {
		t.Errorf("data = %q, want A,B\\n1,2\\n", data)
	}
}
