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

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	manorbill "github.com/emeraldlabs/manorbill-go"
	"github.com/emeraldlabs/manorbill-go/internal/webui"
)

var version = "dev"

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	var (
		addr        string
		webhook     string
		output      string
		showVersion bool
	)

	flag.StringVar(&addr, "addr", envOr("MANORBILL_ADDR", ":8080"), "Listen address for the web UI")
	flag.StringVar(&webhook, "webhook", os.Getenv("MANORBILL_WEBHOOK_URL"), "Conversion webhook URL for image uploads")
	flag.StringVar(&output, "o", "", "Output file for one-shot conversion (default: stdout)")
	flag.StringVar(&output, "output", "", "Output file for one-shot conversion (default: stdout)")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: manorbill [flags] [source]\n\n")
		fmt.Fprintf(os.Stderr, "Turn bill images and spreadsheets into editable CSV tables.\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  source    File to convert once and exit (serves the web UI if omitted)\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("manorbill %s\n", version)
		os.Exit(0)
	}

	var opts []manorbill.Option
	if webhook != "" {
		opts = append(opts, manorbill.WithConversionEndpoint(webhook))
	}
	ing := manorbill.New(opts...)

	if args := flag.Args(); len(args) > 0 {
		if err := convertOnce(ing, args[0], output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	server, err := webui.NewServer(ing, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := server.Start(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// convertOnce reads one file, runs it through the ingest pipeline and
// writes the resulting CSV.
func convertOnce(ing *manorbill.Ingestor, source, output string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}

	res, err := ing.IngestUpload(context.Background(), filepath.Base(source), data)
	if err != nil {
		return err
	}

	csvData := manorbill.EncodeCSV(res.Table)
	if output != "" {
		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		return os.WriteFile(output, csvData, 0o644)
	}
	_, err = os.Stdout.Write(csvData)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
