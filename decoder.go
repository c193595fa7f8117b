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

import "io"

// StreamInfo holds metadata about the input being decoded.
type StreamInfo struct {
	MIMEType  string
	Extension string
	Charset   string
	Filename  string
}

// TableDecoder is the interface all format decoders implement.
type TableDecoder interface {
	// Accepts returns true if this decoder can handle the given input.
	// It MUST NOT change the read position of reader.
	Accepts(info StreamInfo) bool

	// Decode parses the stream into a complete Table. On error no table
	// is returned; decoding is atomic.
	Decode(reader io.ReadSeeker, info StreamInfo) (*Table, error)
}
