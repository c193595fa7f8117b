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

package webui

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	manorbill "github.com/emeraldlabs/manorbill-go"
)

const (
	maxUploadBytes = 32 << 20

	// Form limits. The grid posts back one field per cell, so these also
	// bound the request size the save handler will walk.
	maxGridCols = 512
	maxGridRows = 100_000
)

type pageData struct {
	Loaded  bool
	Origin  string
	Dirty   bool
	Columns []string
	Rows    [][]string
	Error   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.session(w, r)
	s.renderPage(w, sess, "", http.StatusOK)
}

func (s *Server) renderPage(w http.ResponseWriter, sess *manorbill.Session, errMsg string, status int) {
	data := pageData{Error: errMsg}
	if tab, ok := sess.Current(); ok {
		data.Loaded = true
		data.Origin = sess.Origin()
		data.Dirty = sess.Dirty()
		data.Columns = tab.Columns()
		for i := 0; i < tab.NumRows(); i++ {
			row := make([]string, tab.NumColumns())
			for j := range row {
				row[j] = tab.At(i, j).String()
			}
			data.Rows = append(data.Rows, row)
		}
		// One spare blank row so the user can append without a separate
		// control. Fully blank rows are dropped again on save.
		data.Rows = append(data.Rows, make([]string, tab.NumColumns()))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

// renderError re-renders the page with a user-facing message and the
// status code the failure maps to.
func (s *Server) renderError(w http.ResponseWriter, sess *manorbill.Session, err error) {
	s.renderPage(w, sess, userMessage(err), statusFor(err))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.session(w, r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.renderError(w, sess, fmt.Errorf("read upload: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderError(w, sess, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.renderError(w, sess, fmt.Errorf("read upload: %w", err))
		return
	}

	res, err := s.ingestor.IngestUpload(r.Context(), header.Filename, data)
	if err != nil {
		s.logger.Warn("ingest failed", "filename", header.Filename, "error", err)
		s.renderError(w, sess, err)
		return
	}

	sess.Load(res.Table, res.Origin)
	s.logger.Info("table loaded",
		"origin", res.Origin,
		"rows", res.Table.NumRows(),
		"cols", res.Table.NumColumns(),
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.session(w, r)

	if err := r.ParseForm(); err != nil {
		s.renderError(w, sess, fmt.Errorf("read form: %w", err))
		return
	}
	tab, err := tableFromForm(r.PostForm)
	if err != nil {
		s.renderError(w, sess, err)
		return
	}
	if err := sess.CommitEdit(tab); err != nil {
		s.renderError(w, sess, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.session(w, r)

	data, filename, err := sess.ExportCSV()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	serveAttachment(w, data, filename, manorbill.ExportContentType)
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.session(w, r)

	data, filename, err := sess.ExportXLSX()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	serveAttachment(w, data, filename, manorbill.ExportContentTypeXLSX)
}

func serveAttachment(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// tableFromForm rebuilds the table from the posted grid. Header fields
// are named col<j>, cells cell<i>_<j>; hidden rows/cols fields carry the
// grid shape. Rows left entirely blank are dropped.
func tableFromForm(form url.Values) (*manorbill.Table, error) {
	rows, err := strconv.Atoi(form.Get("rows"))
	if err != nil || rows < 0 || rows > maxGridRows {
		return nil, fmt.Errorf("invalid row count %q", form.Get("rows"))
	}
	cols, err := strconv.Atoi(form.Get("cols"))
	if err != nil || cols < 1 || cols > maxGridCols {
		return nil, fmt.Errorf("invalid column count %q", form.Get("cols"))
	}

	columns := make([]string, cols)
	for j := range columns {
		columns[j] = form.Get(fmt.Sprintf("col%d", j))
	}

	tab := manorbill.NewTable(columns)
	for i := 0; i < rows; i++ {
		cells := make([]manorbill.Cell, cols)
		blank := true
		for j := range cells {
			v := form.Get(fmt.Sprintf("cell%d_%d", i, j))
			cells[j] = manorbill.ParseCell(v)
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if err := tab.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return tab, nil
}

func statusFor(err error) int {
	switch {
	case manorbill.IsTransportError(err):
		return http.StatusBadGateway
	case manorbill.IsDecodeError(err):
		return http.StatusUnprocessableEntity
	case manorbill.IsNoActiveSession(err):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func userMessage(err error) string {
	var transportErr *manorbill.TransportError
	if errors.As(err, &transportErr) {
		return "The conversion service could not be reached: " + transportErr.Error()
	}
	var decodeErr *manorbill.DecodeError
	if errors.As(err, &decodeErr) {
		return "The file could not be read as a table: " + decodeErr.Error()
	}
	if manorbill.IsNoActiveSession(err) {
		return "Upload a file before editing or downloading."
	}
	return err.Error()
}
