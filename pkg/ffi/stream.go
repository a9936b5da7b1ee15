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

package ffi

import (
	"io"
	"sync/atomic"
)

// SeekMode selects the origin of a seek. The values match io.SeekStart,
// io.SeekCurrent and io.SeekEnd.
type SeekMode int

const (
	SeekStart   SeekMode = io.SeekStart
	SeekCurrent SeekMode = io.SeekCurrent
	SeekEnd     SeekMode = io.SeekEnd
)

func (m SeekMode) valid() bool {
	return m == SeekStart || m == SeekCurrent || m == SeekEnd
}

// ReadFunc fills up to len(buf) bytes and returns the count, 0 at end of
// data, or a negative code.
type ReadFunc func(ctx Context, buf []byte) Result

// WriteFunc consumes up to len(buf) bytes and returns the count accepted or a
// negative code.
type WriteFunc func(ctx Context, buf []byte) Result

// SeekFunc moves the stream position and returns the new absolute position or
// a negative code.
type SeekFunc func(ctx Context, offset int64, mode SeekMode) Result

// FlushFunc commits buffered output and returns 0 or a negative code.
type FlushFunc func(ctx Context) Result

// StreamCallbacks is the table through which the engine reaches a host stream.
type StreamCallbacks struct {
	Read  ReadFunc
	Write WriteFunc
	Seek  SeekFunc
	Flush FlushFunc
}

// Complete reports whether every entry of the table is set.
func (c StreamCallbacks) Complete() bool {
	return c.Read != nil && c.Write != nil && c.Seek != nil && c.Flush != nil
}

// Stream is the engine's view of a host stream: an opaque context plus the
// callback table it was created with.
type Stream struct {
	ctx      Context
	cb       StreamCallbacks
	released atomic.Bool
}

// CreateStream binds ctx to cb. It returns nil when ctx is zero or the table
// is incomplete.
func CreateStream(ctx Context, cb StreamCallbacks) *Stream {
	if ctx == 0 || !cb.Complete() {
		return nil
	}
	return &Stream{ctx: ctx, cb: cb}
}

// Context returns the token the stream was created with.
func (s *Stream) Context() Context {
	return s.ctx
}

// Valid reports whether s can still be called.
func (s *Stream) Valid() bool {
	return s != nil && !s.released.Load()
}

// Read asks the host for up to len(buf) bytes. A host that reports more than
// it was asked for yields ErrContractViolation.
func (s *Stream) Read(buf []byte) Result {
	if !s.Valid() {
		return ErrInvalidHandle
	}
	return bounded(s.cb.Read(s.ctx, buf), len(buf))
}

// Write hands buf to the host and returns the number of bytes it accepted.
func (s *Stream) Write(buf []byte) Result {
	if !s.Valid() {
		return ErrInvalidHandle
	}
	return bounded(s.cb.Write(s.ctx, buf), len(buf))
}

// Seek moves the host stream and returns the new absolute position.
func (s *Stream) Seek(offset int64, mode SeekMode) Result {
	if !s.Valid() {
		return ErrInvalidHandle
	}
	if !mode.valid() {
		return ErrInvalidArgument
	}
	return s.cb.Seek(s.ctx, offset, mode)
}

// Flush asks the host to commit buffered output.
func (s *Stream) Flush() Result {
	if !s.Valid() {
		return ErrInvalidHandle
	}
	r := s.cb.Flush(s.ctx)
	if r > 0 {
		return 0
	}
	return r
}

// Release frees the native side of the stream. It reports false when the
// stream was already released. The host context is not touched.
func (s *Stream) Release() bool {
	if s == nil {
		return false
	}
	return s.released.CompareAndSwap(false, true)
}

func bounded(r Result, size int) Result {
	if r > Result(size) {
		return ErrContractViolation
	}
	return r
}
