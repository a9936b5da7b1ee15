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

package stream

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/handle"
)

// Callbacks is the default callback table. Each entry resolves the context
// to the host value registered with New and calls into it.
var Callbacks = ffi.StreamCallbacks{
	Read:  Read,
	Write: Write,
	Seek:  Seek,
	Flush: Flush,
}

var current atomic.Pointer[ffi.StreamCallbacks]

func init() {
	cb := Callbacks
	current.Store(&cb)
}

// Override replaces entries of the callback table used by streams created
// from now on. Nil entries keep the default. Streams that already exist keep
// the table they were created with. The returned function restores the
// previous table.
func Override(cb ffi.StreamCallbacks) (restore func()) {
	merged := Callbacks
	if cb.Read != nil {
		merged.Read = cb.Read
	}
	if cb.Write != nil {
		merged.Write = cb.Write
	}
	if cb.Seek != nil {
		merged.Seek = cb.Seek
	}
	if cb.Flush != nil {
		merged.Flush = cb.Flush
	}
	prev := current.Swap(&merged)
	return func() { current.Store(prev) }
}

func table() ffi.StreamCallbacks {
	return *current.Load()
}

// Lookup resolves ctx to the host value of a live stream.
func Lookup(ctx ffi.Context) (any, bool) {
	s, ok := lookup(ctx)
	if !ok {
		return nil, false
	}
	return s.rw, true
}

func lookup(ctx ffi.Context) (*Stream, bool) {
	v, ok := handle.Handle(ctx).Lookup()
	if !ok {
		return nil, false
	}
	s, ok := v.(*Stream)
	return s, ok
}

// hostError keeps err on s and returns the code the engine sees.
func hostError(s *Stream, err error) ffi.Result {
	s.record(err)
	return ffi.CodeOf(err, ffi.ErrIO)
}

// Read fills buf from the host reader behind ctx.
// It returns the count, 0 at end of data, or a negative code.
func Read(ctx ffi.Context, buf []byte) ffi.Result {
	s, ok := lookup(ctx)
	if !ok {
		return ffi.ErrInvalidHandle
	}
	r, ok := s.rw.(io.Reader)
	if !ok {
		return ffi.ErrUnsupported
	}
	n, err := r.Read(buf)
	if n > 0 {
		// Any error comes back on the next call.
		return ffi.Result(n)
	}
	if err == nil || errors.Is(err, io.EOF) {
		return 0
	}
	return hostError(s, err)
}

// Write hands buf to the host writer behind ctx and reports how much of it
// was accepted.
func Write(ctx ffi.Context, buf []byte) ffi.Result {
	s, ok := lookup(ctx)
	if !ok {
		return ffi.ErrInvalidHandle
	}
	w, ok := s.rw.(io.Writer)
	if !ok {
		return ffi.ErrUnsupported
	}
	n, err := w.Write(buf)
	if n > 0 {
		return ffi.Result(n)
	}
	if err != nil {
		return hostError(s, err)
	}
	return 0
}

// Seek moves the host stream behind ctx and returns the new absolute position.
func Seek(ctx ffi.Context, offset int64, mode ffi.SeekMode) ffi.Result {
	s, ok := lookup(ctx)
	if !ok {
		return ffi.ErrInvalidHandle
	}
	sk, ok := s.rw.(io.Seeker)
	if !ok {
		return ffi.ErrUnsupported
	}
	pos, err := sk.Seek(offset, int(mode))
	if err != nil {
		return hostError(s, err)
	}
	return ffi.Result(pos)
}

type syncer interface {
	Sync() error
}

type flusher interface {
	Flush() error
}

// Flush commits buffered output of the host stream behind ctx. Hosts without
// a Sync or Flush method have nothing to commit.
func Flush(ctx ffi.Context) ffi.Result {
	s, ok := lookup(ctx)
	if !ok {
		return ffi.ErrInvalidHandle
	}
	var err error
	switch f := s.rw.(type) {
	case syncer:
		err = f.Sync()
	case flusher:
		err = f.Flush()
	}
	if err != nil {
		return hostError(s, err)
	}
	return 0
}
