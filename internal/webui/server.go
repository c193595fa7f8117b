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

// Package webui serves the single-page upload/edit/download UI on top of
// the manorbill ingest core. It is a thin, explicitly-sequenced driver: all
// table logic lives in the root package.
package webui

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	manorbill "github.com/emeraldlabs/manorbill-go"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the web UI for the ingest/edit/export pipeline.
type Server struct {
	ingestor  *manorbill.Ingestor
	sessions  *sessionManager
	templates *template.Template
	logger    *slog.Logger
	router    chi.Router
}

// NewServer builds the server around an ingest engine.
func NewServer(ing *manorbill.Ingestor, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		ingestor:  ing,
		sessions:  newSessionManager(),
		templates: tmpl,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Post("/save", s.handleSave)
	r.Get("/download", s.handleDownloadCSV)
	r.Get("/download/xlsx", s.handleDownloadXLSX)

	s.router = r
	return s, nil
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the UI on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("serving web ui", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
