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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// DefaultConvertTimeout bounds a single conversion request.
const DefaultConvertTimeout = 60 * time.Second

// ConversionClient submits files to the external conversion service and
// returns the raw response body as text. One outbound request per call; no
// retries, at-most-once from the caller's perspective.
type ConversionClient struct {
	endpoint   string
	httpClient *http.Client
}

// ClientOption configures a ConversionClient.
type ClientOption func(*ConversionClient)

// WithHTTPClient replaces the underlying HTTP client, including its timeout.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cc *ConversionClient) {
		cc.httpClient = c
	}
}

// NewConversionClient creates a client for the given endpoint URL.
func NewConversionClient(endpoint string, opts ...ClientOption) *ConversionClient {
	c := &ConversionClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultConvertTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Convert POSTs the file as a multipart form field named "file" and returns
// the full response body as text, unparsed. The media type is advisory and
// passed through unmodified. Any network failure, timeout, or non-2xx
// status yields a TransportError and no data.
func (c *ConversionClient) Convert(ctx context.Context, filename string, data []byte, mediaType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file content")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	if mediaType != "" {
		h.Set("Content-Type", mediaType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// A partially-read response is never surfaced as data.
		return "", &TransportError{URL: c.endpoint, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{URL: c.endpoint, Status: resp.StatusCode}
	}

	return string(body), nil
}
