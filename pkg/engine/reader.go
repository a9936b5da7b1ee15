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

package engine

import (
	"errors"

	"github.com/duggaraju/c2pa-go/pkg/credential"
	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/hashing"
)

// Reader is the credential found at the end of an asset stream.
type Reader struct {
	raw    []byte
	cred   *credential.Credential
	report *credential.Report
}

// Read locates the embedded credential in in and validates it against the
// asset bytes before it. Failures carry an ffi code: ErrNotFound when the
// stream has no credential, ErrManifest when it cannot be decoded and the
// host's own code when a callback fails. An empty format skips the format
// check.
func Read(format string, in *ffi.Stream) (*Reader, error) {
	if !in.Valid() {
		return nil, fail(ffi.ErrInvalidHandle, "stream handle is not valid")
	}
	if format != "" {
		if _, ok := NormalizeFormat(format); !ok {
			return nil, fail(ffi.ErrUnsupportedFormat, "unsupported asset format %q", format)
		}
	}

	size, err := seek(in, "input", 0, ffi.SeekEnd)
	if err != nil {
		return nil, err
	}
	if size < int64(credential.FooterSize) {
		return nil, fail(ffi.ErrNotFound, "%w", credential.ErrNoCredential)
	}

	footer := make([]byte, credential.FooterSize)
	if _, err := seek(in, "input", size-int64(credential.FooterSize), ffi.SeekStart); err != nil {
		return nil, err
	}
	if err := readFull(in, "input", footer); err != nil {
		return nil, err
	}
	n, err := credential.ParseFooter(footer, size)
	if err != nil {
		if errors.Is(err, credential.ErrNoCredential) {
			return nil, fail(ffi.ErrNotFound, "%w", err)
		}
		return nil, fail(ffi.ErrManifest, "%w", err)
	}

	assetSize := size - int64(credential.FooterSize) - n
	raw := make([]byte, n)
	if _, err := seek(in, "input", assetSize, ffi.SeekStart); err != nil {
		return nil, err
	}
	if err := readFull(in, "input", raw); err != nil {
		return nil, err
	}

	return load(in, raw, assetSize)
}

// ReadDetached validates a credential kept outside the asset, such as a
// sidecar file, against the whole of in.
func ReadDetached(format string, in *ffi.Stream, raw []byte) (*Reader, error) {
	if !in.Valid() {
		return nil, fail(ffi.ErrInvalidHandle, "stream handle is not valid")
	}
	if format != "" {
		if _, ok := NormalizeFormat(format); !ok {
			return nil, fail(ffi.ErrUnsupportedFormat, "unsupported asset format %q", format)
		}
	}
	return load(in, raw, -1)
}

// load parses raw and hashes the first assetSize bytes of in, or all of
// it when assetSize is -1.
func load(in *ffi.Stream, raw []byte, assetSize int64) (*Reader, error) {
	cred, err := credential.Parse(raw)
	if err != nil {
		return nil, fail(ffi.ErrManifest, "invalid credential: %w", err)
	}
	claim, err := cred.Claim()
	if err != nil {
		return nil, fail(ffi.ErrManifest, "invalid credential: %w", err)
	}

	h, err := hashing.Create(claim.Asset.Algorithm())
	if err != nil {
		return nil, fail(ffi.ErrUnsupported, "%w", err)
	}
	if _, err := seek(in, "input", 0, ffi.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, defaultChunkSize)
	if _, err := pump(in, "input", buf, assetSize, func(p []byte) error {
		_, werr := h.Write(p)
		return werr
	}); err != nil {
		return nil, err
	}

	report, err := credential.NewReport(cred, h.Compute())
	if err != nil {
		return nil, fail(ffi.ErrManifest, "%w", err)
	}
	return &Reader{raw: raw, cred: cred, report: report}, nil
}

// JSON returns the report for the credential.
func (r *Reader) JSON() (string, error) {
	return r.report.JSON()
}

// Report returns the parsed report.
func (r *Reader) Report() *credential.Report {
	return r.report
}

// Credential returns the embedded credential.
func (r *Reader) Credential() *credential.Credential {
	return r.cred
}

// Raw returns the credential bytes as embedded.
func (r *Reader) Raw() []byte {
	return r.raw
}
