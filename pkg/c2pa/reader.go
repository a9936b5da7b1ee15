// Copyright 2025 The c2pa-go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package c2pa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/duggaraju/c2pa-go/pkg/credential"
	"github.com/duggaraju/c2pa-go/pkg/engine"
	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/stream"
	"github.com/duggaraju/c2pa-go/pkg/tracing"
)

// Reader is the credential of one asset and its validation report.
type Reader struct {
	r        *engine.Reader
	detached bool
}

// ReaderFromStream reads the credential embedded in the asset r.
func ReaderFromStream(format string, r io.ReadSeeker) (*Reader, error) {
	return readStream(format, r, nil)
}

// ReaderFromFile reads the credential of the file at path: the embedded one,
// or the sidecar at SidecarPath(path) when nothing is embedded.
func ReaderFromFile(path string) (*Reader, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	reader, err := readStream(format, f, nil)
	var e *Error
	if err == nil || !errors.As(err, &e) || e.Code != ffi.ErrNotFound {
		return reader, err
	}

	raw, rerr := os.ReadFile(SidecarPath(path))
	if rerr != nil {
		if errors.Is(rerr, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read sidecar for %s: %w", path, rerr)
	}
	return readStream(format, f, raw)
}

// readStream reads the embedded credential, or validates detached against
// the whole stream when it is non-nil.
func readStream(format string, r io.ReadSeeker, detached []byte) (*Reader, error) {
	var reader *Reader
	err := tracing.Run(context.Background(), "c2pa.read", map[string]interface{}{
		"format":   format,
		"detached": detached != nil,
	}, func(context.Context) error {
		s, err := stream.New(r)
		if err != nil {
			return &Error{Op: "read", Code: ffi.ErrInvalidArgument, Message: err.Error()}
		}
		defer s.Close()

		var er *engine.Reader
		if detached != nil {
			er, err = engine.ReadDetached(format, s.Native(), detached)
		} else {
			er, err = engine.Read(format, s.Native())
		}
		if err != nil {
			return &Error{Op: "read", Code: ffi.CodeOf(err, ffi.ErrGeneric), Message: err.Error()}
		}
		reader = &Reader{r: er, detached: detached != nil}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// JSON returns the manifest store report as indented JSON.
func (r *Reader) JSON() (string, error) {
	return r.r.JSON()
}

// Report returns the manifest store report.
func (r *Reader) Report() *credential.Report {
	return r.r.Report()
}

// Credential returns the parsed credential.
func (r *Reader) Credential() *credential.Credential {
	return r.r.Credential()
}

// ManifestBytes returns the credential bytes.
func (r *Reader) ManifestBytes() []byte {
	return r.r.Raw()
}

// Valid reports whether every validation check passed.
func (r *Reader) Valid() bool {
	return r.r.Report().Valid()
}

// Detached reports whether the credential came from a sidecar file.
func (r *Reader) Detached() bool {
	return r.detached
}
