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
	"fmt"
	"io"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
)

// fail attaches code to a formatted error. Host codes travel through it
// unchanged.
func fail(code ffi.Result, format string, args ...any) error {
	return ffi.NewCodeError(code, fmt.Errorf(format, args...))
}

func seek(s *ffi.Stream, what string, offset int64, mode ffi.SeekMode) (int64, error) {
	r := s.Seek(offset, mode)
	if r < 0 {
		return 0, fail(r, "seek %s: %s", what, r)
	}
	return int64(r), nil
}

// pump reads s to the end in chunks of len(buf), handing each chunk to sink.
// A limit of -1 reads until the host reports end of stream.
func pump(s *ffi.Stream, what string, buf []byte, limit int64, sink func([]byte) error) (int64, error) {
	var total int64
	for limit < 0 || total < limit {
		chunk := buf
		if limit >= 0 && int64(len(chunk)) > limit-total {
			chunk = chunk[:limit-total]
		}
		r := s.Read(chunk)
		if r < 0 {
			return total, fail(r, "read %s: %s", what, r)
		}
		if r == 0 {
			if limit >= 0 {
				return total, fail(ffi.ErrIO, "read %s: %w", what, io.ErrUnexpectedEOF)
			}
			break
		}
		if err := sink(chunk[:r]); err != nil {
			return total, err
		}
		total += int64(r)
	}
	return total, nil
}

// readFull reads exactly len(buf) bytes.
func readFull(s *ffi.Stream, what string, buf []byte) error {
	for off := 0; off < len(buf); {
		r := s.Read(buf[off:])
		if r < 0 {
			return fail(r, "read %s: %s", what, r)
		}
		if r == 0 {
			return fail(ffi.ErrIO, "read %s: %w", what, io.ErrUnexpectedEOF)
		}
		off += int(r)
	}
	return nil
}

// writeAll retries partial writes until p is consumed. A write that makes no
// progress fails with ErrIO.
func writeAll(s *ffi.Stream, p []byte) (int64, error) {
	var total int64
	for len(p) > 0 {
		r := s.Write(p)
		if r < 0 {
			return total, fail(r, "write output: %s", r)
		}
		if r == 0 {
			return total, fail(ffi.ErrIO, "write output: %w", io.ErrShortWrite)
		}
		p = p[r:]
		total += int64(r)
	}
	return total, nil
}
