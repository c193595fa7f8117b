package manorbill

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVDecoder handles delimited-text input.
type CSVDecoder struct{}

// NewCSVDecoder creates a new CSVDecoder.
func NewCSVDecoder() *CSVDecoder {
	return &CSVDecoder{}
}

func (d *CSVDecoder) Accepts(info StreamInfo) bool {
	if info.Extension == ".csv" {
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "text/csv") ||
		strings.HasPrefix(mime, "application/csv") ||
		strings.HasPrefix(mime, "text/plain")
}

func (d *CSVDecoder) Decode(reader io.ReadSeeker, info StreamInfo) (*Table, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	// Uploaded files are not guaranteed to be UTF-8.
	text := decodeText(data, info.Charset)

	return decodeCSVText(text)
}

// DecodeCSVString parses sanitized delimited text into a table. It is the
// decode step of the remote conversion path, where the response body is
// already UTF-8 text.
func DecodeCSVString(text string) (*Table, error) {
	t, err := decodeCSVText(text)
	if err != nil {
		if IsDecodeError(err) {
			return nil, err
		}
		return nil, &DecodeError{
			Extension: ".csv",
			MIMEType:  "text/csv",
			Attempts:  []FailedDecodeAttempt{{Decoder: "csv", Err: err}},
		}
	}
	return t, nil
}

// decodeCSVText parses UTF-8 delimited text. The first line declares the
// column names; duplicates are kept positionally. Rows shorter than the
// header are padded with missing cells; rows longer than the header are
// rejected, so decoding is atomic either way.
func decodeCSVText(text string) (*Table, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &DecodeError{Reason: "empty input"}
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // ragged rows handled below

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, &DecodeError{Reason: "no header row"}
	}

	header := records[0]
	if len(header) == 0 {
		return nil, &DecodeError{Reason: "zero header columns"}
	}

	t := NewTable(header)
	for i, record := range records[1:] {
		if len(record) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(record), len(header))
		}
		t.appendRaw(record)
	}
	return t, nil
}
