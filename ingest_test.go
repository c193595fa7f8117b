package manorbill

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestIngestImageEndToEnd walks the full pipeline: image upload, remote
// conversion, sanitize, decode, load, edit, export.
func TestIngestImageEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		io.WriteString(w, "A,B\n1,2\n")
	}))
	defer srv.Close()

	ing := New(WithConversionEndpoint(srv.URL))

	res, err := ing.IngestUpload(context.Background(), "bill.png", []byte("fake-image-bytes"))
	if err != nil {
		t.Fatalf("IngestUpload() err = %v", err)
	}
	if res.Origin != "image_extracted.csv" {
		t.Errorf("Origin = %q, want image_extracted.csv", res.Origin)
	}
	cols := res.Table.Columns()
	if len(cols) != 2 || cols[0] != "A" || cols[1] != "B" {
		t.Fatalf("Columns() = %v, want [A B]", cols)
	}
	if res.Table.NumRows() != 1 {
		t.Fatalf("NumRows() = %d, want 1", res.Table.NumRows())
	}

	sess := NewSession()
	sess.Load(res.Table, res.Origin)

	edited := res.Table.Clone()
	if err := edited.AppendRow([]Cell{Number(3), Number(4)}); err != nil {
		t.Fatal(err)
	}
	if err := sess.CommitEdit(edited); err != nil {
		t.Fatalf("CommitEdit() err = %v", err)
	}

	data, filename, err := sess.ExportCSV()
	if err != nil {
		t.Fatalf("ExportCSV() err = %v", err)
	}
	if filename != "image_extracted_edited.csv" {
		t.Errorf("filename = %q, want image_extracted_edited.csv", filename)
	}
	if string(data) != "A,B\n1,2\n3,4\n" {
		t.Errorf("exported = %q, want A,B\\n1,2\\n3,4\\n", data)
	}
}

func TestIngestImageResponseSanitized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Webhook output with trailing serialization artifacts.
		io.WriteString(w, " A,B\n1,2\n\n  ',\n")
	}))
	defer srv.Close()

	ing := New(WithConversionEndpoint(srv.URL))
	res, err := ing.IngestUpload(context.Background(), "bill.jpg", []byte("fake"))
	if err != nil {
		t.Fatalf("IngestUpload() err = %v", err)
	}
	if !res.Table.Equal(mustTable(t, "A,B\n1,2\n")) {
		t.Error("sanitized webhook response decoded to unexpected table")
	}
}

func TestIngestImageWebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no table found", http.StatusBadGateway)
	}))
	defer srv.Close()

	ing := New(WithConversionEndpoint(srv.URL))
	_, err := ing.IngestUpload(context.Background(), "bill.png", []byte("fake"))
	if !IsTransportError(err) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestIngestImageWithoutEndpoint(t *testing.T) {
	ing := New()

	_, err := ing.IngestUpload(context.Background(), "bill.png", []byte("fake"))
	if err == nil {
		t.Fatal("expected error when no conversion endpoint is configured")
	}
}

func TestIngestImageEmptyWebhookBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "\n\"', \n")
	}))
	defer srv.Close()

	ing := New(WithConversionEndpoint(srv.URL))
	_, err := ing.IngestUpload(context.Background(), "bill.png", []byte("fake"))
	if !IsDecodeError(err) {
		t.Fatalf("err = %v, want DecodeError for empty-after-sanitize body", err)
	}
}
