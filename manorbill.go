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

// Package manorbill turns uploaded bill images and spreadsheet files into
// editable tables and serializes them back to CSV. Images are sent to an
// external conversion service; CSV, XLSX and XLS files are decoded locally.
package manorbill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// PrioritySpecific is for format-specific decoders (XLSX, XLS).
	PrioritySpecific = 0.0
	// PriorityGeneric is for fallback decoders (CSV over plain text).
	PriorityGeneric = 10.0
)

// RemoteOriginName is the provenance filename recorded for tables extracted
// by the remote conversion service, and the base of their export filename.
const RemoteOriginName = "image_extracted.csv"

type registeredDecoder struct {
	decoder  TableDecoder
	priority float64
	name     string
}

// Ingestor is the file-to-table ingest engine.
type Ingestor struct {
	decoders []registeredDecoder
	client   *ConversionClient
}

// IngestResult holds a decoded table and its origin filename, used later to
// derive the export filename.
type IngestResult struct {
	Table  *Table
	Origin string
}

// New creates a new Ingestor with the given options.
func New(opts ...Option) *Ingestor {
	ing := &Ingestor{}
	for _, opt := range opts {
		opt(ing)
	}
	ing.enableBuiltins()
	return ing
}

// RegisterDecoder adds a custom decoder with the given priority.
// Lower priority values are tried first.
func (ing *Ingestor) RegisterDecoder(name string, d TableDecoder, priority float64) {
	ing.decoders = append(ing.decoders, registeredDecoder{
		decoder:  d,
		priority: priority,
		name:     name,
	})
	sort.SliceStable(ing.decoders, func(i, j int) bool {
		return ing.decoders[i].priority < ing.decoders[j].priority
	})
}

// enableBuiltins registers all built-in decoders.
func (ing *Ingestor) enableBuiltins() {
	ing.RegisterDecoder("xlsx", NewXLSXDecoder(), PrioritySpecific)
	ing.RegisterDecoder("xls", NewXLSDecoder(), PrioritySpecific)
	ing.RegisterDecoder("csv", NewCSVDecoder(), PriorityGeneric)
}

// IngestUpload turns one uploaded file into a table. Image uploads go
// through the remote conversion service, then the sanitizer and the CSV
// decoder; everything else is decoded locally. On any failure no table is
// produced.
func (ing *Ingestor) IngestUpload(ctx context.Context, filename string, data []byte) (*IngestResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	info := StreamInfo{
		Extension: ext,
		Filename:  filename,
	}
	info.MIMEType = detectMIMEType(bytes.NewReader(data), ext)

	if isImageInput(info) {
		return ing.ingestRemote(ctx, filename, data, info.MIMEType)
	}

	t, err := ing.DecodeReader(bytes.NewReader(data), info)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Table: t, Origin: filename}, nil
}

// ingestRemote sends the file to the conversion service and decodes the
// sanitized response as CSV.
func (ing *Ingestor) ingestRemote(ctx context.Context, filename string, data []byte, mediaType string) (*IngestResult, error) {
	if ing.client == nil {
		return nil, errors.New("no conversion endpoint configured")
	}
	body, err := ing.client.Convert(ctx, filename, data, mediaType)
	if err != nil {
		return nil, err
	}
	t, err := DecodeCSVString(Sanitize(body))
	if err != nil {
		return nil, err
	}
	return &IngestResult{Table: t, Origin: RemoteOriginName}, nil
}

// DecodeFile decodes a local spreadsheet or CSV file into a table.
func (ing *Ingestor) DecodeFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	info := StreamInfo{
		Extension: ext,
		Filename:  filepath.Base(path),
	}
	info.MIMEType = detectMIMEType(f, ext)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	return ing.DecodeReader(f, info)
}

// DecodeReader dispatches the stream to the first registered decoder that
// accepts it. Failed attempts are collected into the returned DecodeError.
func (ing *Ingestor) DecodeReader(r io.ReadSeeker, info StreamInfo) (*Table, error) {
	var attempts []FailedDecodeAttempt

	for _, rd := range ing.decoders {
		if !rd.decoder.Accepts(info) {
			continue
		}

		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}

		t, err := rd.decoder.Decode(r, info)
		if err != nil {
			attempts = append(attempts, FailedDecodeAttempt{
				Decoder: rd.name,
				Err:     err,
			})
			continue
		}
		return t, nil
	}

	if len(attempts) > 0 {
		return nil, &DecodeError{
			Extension: info.Extension,
			MIMEType:  info.MIMEType,
			Attempts:  attempts,
		}
	}

	return nil, &DecodeError{
		Extension: info.Extension,
		MIMEType:  info.MIMEType,
		Reason:    "unsupported format",
	}
}

// imageExtensions are the upload types routed to the conversion service.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".webp": true,
}

func isImageInput(info StreamInfo) bool {
	if strings.HasPrefix(strings.ToLower(info.MIMEType), "image/") {
		return true
	}
	return imageExtensions[info.Extension]
}

// detectMIMEType detects the MIME type from content and extension.
func detectMIMEType(r io.Reader, ext string) string {
	mtype, err := mimetype.DetectReader(r)
	if err == nil && mtype.String() != "application/octet-stream" {
		return mtype.String()
	}
	return mimeFromExtension(ext)
}

// mimeFromExtension returns a MIME type for the extensions this service
// accepts.
func mimeFromExtension(ext string) string {
	extMap := map[string]string{
		".csv":  "text/csv",
		".txt":  "text/plain",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".xls":  "application/vnd.ms-excel",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".heic": "image/heic",
		".webp": "image/webp",
	}
	if m, ok := extMap[ext]; ok {
		return m
	}
	return "application/octet-stream"
}
