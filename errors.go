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
	"errors"
	"fmt"
	"strings"
)

// FailedDecodeAttempt records a decoder that accepted the input but failed.
type FailedDecodeAttempt struct {
	Decoder string
	Err     error
}

// DecodeError is returned when input could not be parsed into a well-formed
// Table: empty content, malformed structure, or an unrecognized format.
// No partial table is ever produced alongside it.
type DecodeError struct {
	Extension string
	MIMEType  string
	Reason    string
	Attempts  []FailedDecodeAttempt
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode failed")
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Extension != "" {
		fmt.Fprintf(&b, " extension=%q", e.Extension)
	}
	if e.MIMEType != "" {
		fmt.Fprintf(&b, " mime=%q", e.MIMEType)
	}
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %v", a.Decoder, a.Err)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	if len(e.Attempts) > 0 {
		return e.Attempts[len(e.Attempts)-1].Err
	}
	return nil
}

// TransportError is returned on network or HTTP failure talking to the
// external conversion service, including timeouts. It is never retried by
// the core.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("conversion service")
	if e.URL != "" {
		fmt.Fprintf(&b, " %s", e.URL)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NoActiveSessionError is returned when an edit-commit or export is
// attempted before any table has been loaded.
type NoActiveSessionError struct {
	Op string
}

func (e *NoActiveSessionError) Error() string {
	if e.Op == "" {
		return "no active session"
	}
	return fmt.Sprintf("%s: no active session", e.Op)
}

// IsDecodeError reports whether the error is a DecodeError.
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// IsTransportError reports whether the error is a TransportError.
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsNoActiveSession reports whether the error is a NoActiveSessionError.
func IsNoActiveSession(err error) bool {
	var target *NoActiveSessionError
	return errors.As(err, &target)
}
