package manorbill

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

const japaneseCSV = "名前,値段\nお茶はとてもおいしいです,3.5\n緑茶を毎朝飲みます,4.25\n"

func shiftJISBytes(t *testing.T) []byte {
	t.Helper()
	raw, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(japaneseCSV))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return raw
}

func assertJapaneseTable(t *testing.T, tab *Table) {
	t.Helper()
	cols := tab.Columns()
	if len(cols) != 2 || cols[0] != "名前" || cols[1] != "値段" {
		t.Fatalf("Columns() = %v, want [名前 値段]", cols)
	}
	if tab.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", tab.NumRows())
	}
	if !tab.At(0, 0).Equal(Text("お茶はとてもおいしいです")) || !tab.At(0, 1).Equal(Number(3.5)) {
		t.Errorf("row 0 = [%v %v], want [お茶はとてもおいしいです 3.5]", tab.At(0, 0), tab.At(0, 1))
	}
}

func TestDecodeCSVShiftJISHint(t *testing.T) {
	raw := shiftJISBytes(t)

	dec := NewCSVDecoder()
	tab, err := dec.Decode(bytes.NewReader(raw), StreamInfo{Extension: ".csv", Charset: "cp932"})
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	assertJapaneseTable(t, tab)
}

func TestDecodeCSVShiftJISDetected(t *testing.T) {
	raw := shiftJISBytes(t)

	dec := NewCSVDecoder()
	tab, err := dec.Decode(bytes.NewReader(raw), StreamInfo{Extension: ".csv"})
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	assertJapaneseTable(t, tab)
}

func TestDecodeTextUTF8Passthrough(t *testing.T) {
	const text = "héllo,wörld"
	if got := decodeText([]byte(text), ""); got != text {
		t.Errorf("decodeText without hint = %q, want passthrough", got)
	}
	if got := decodeText([]byte(text), "utf-8"); got != text {
		t.Errorf("decodeText with utf-8 hint = %q, want passthrough", got)
	}
}

func TestLookupEncodingAliases(t *testing.T) {
	known := []string{
		"UTF-8", "Shift_JIS", "shiftjis", "cp932", "ISO-8859-1",
		"latin1", "windows-1252", "EUC-JP", "GBK", "Big5",
	}
	for _, name := range known {
		if lookupEncoding(name) == nil {
			t.Errorf("lookupEncoding(%q) = nil, want encoding", name)
		}
	}
	if enc := lookupEncoding("no-such-charset"); enc != nil {
		t.Errorf("lookupEncoding(no-such-charset) = %v, want nil", enc)
	}
}
