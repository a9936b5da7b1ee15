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

// Package stream exposes host readers and writers to the signing engine.
//
// A Stream registers a host value under a fresh handle and binds that handle
// to the current callback table. The engine only ever holds the resulting
// ffi.Stream; every read, write, seek or flush it issues comes back through
// the callbacks in this package, which resolve the handle and call the host
// value's io methods.
package stream

import (
	"errors"
	"sync"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/handle"
)

var (
	// ErrNilStream is returned when New is given a nil value.
	ErrNilStream = errors.New("stream: nil host stream")
	// ErrCreate is returned when the engine rejects the stream.
	ErrCreate = errors.New("stream: engine refused to create stream")
)

// Stream binds a host value to an engine stream for the duration of one
// operation. The host value is borrowed, never closed.
type Stream struct {
	rw     any
	handle handle.Handle
	native *ffi.Stream
	once   sync.Once

	mu  sync.Mutex
	err error
}

// New registers rw and creates its engine stream. rw should implement the
// io interfaces the operation needs: io.Reader and io.Seeker for input,
// io.Writer and io.Seeker for output. Missing capabilities are reported to
// the engine as ffi.ErrUnsupported when it uses them.
func New(rw any) (*Stream, error) {
	if rw == nil {
		return nil, ErrNilStream
	}
	s := &Stream{rw: rw}
	s.handle = handle.New(s)
	s.native = ffi.CreateStream(ffi.Context(s.handle), table())
	if s.native == nil {
		s.handle.Delete()
		return nil, ErrCreate
	}
	return s, nil
}

// Native returns the engine side of the stream.
func (s *Stream) Native() *ffi.Stream {
	return s.native
}

// Context returns the handle the engine sees.
func (s *Stream) Context() ffi.Context {
	return ffi.Context(s.handle)
}

// Host returns the wrapped host value.
func (s *Stream) Host() any {
	return s.rw
}

// Err returns the last error the host value reported through a callback,
// or nil. The engine only sees its code.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Close releases the engine stream and the handle. It is safe to call more
// than once; only the first call has an effect.
func (s *Stream) Close() error {
	s.once.Do(func() {
		s.native.Release()
		s.handle.Delete()
	})
	return nil
}
