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

// Package handle provides opaque integer tokens that identify host-side
// resources while they are borrowed by the signing engine.
//
// A Handle is the only thing the engine ever sees of a host stream or signer.
// The engine stores it and hands it back to the host callbacks, which resolve
// it through the table kept here. Tokens are never addresses: they are
// monotonically increasing counters, and zero is never issued so it can serve
// as the "no handle" sentinel.
package handle

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Handle is an opaque token for a host value registered with New.
type Handle uintptr

var (
	table sync.Map // map[Handle]any
	next  atomic.Uintptr
	live  atomic.Int64
)

// New registers v and returns a fresh handle for it.
// The handle stays valid until Delete is called. New panics if v is nil.
func New(v any) Handle {
	if v == nil {
		panic("handle: cannot register a nil value")
	}
	h := Handle(next.Add(1))
	if h == 0 {
		panic("handle: token space exhausted")
	}
	table.Store(h, v)
	live.Add(1)
	return h
}

// Lookup returns the value registered for h and whether h is live.
func (h Handle) Lookup() (any, bool) {
	if h == 0 {
		return nil, false
	}
	return table.Load(h)
}

// Value returns the value registered for h. It panics if h is not live.
func (h Handle) Value() any {
	v, ok := h.Lookup()
	if !ok {
		panic(fmt.Sprintf("handle: invalid handle %d", uintptr(h)))
	}
	return v
}

// Delete invalidates h. Deleting a handle twice is a lifetime bug and panics.
func (h Handle) Delete() {
	if _, ok := table.LoadAndDelete(h); !ok {
		panic(fmt.Sprintf("handle: delete of invalid handle %d", uintptr(h)))
	}
	live.Add(-1)
}

// Live reports the number of registered handles. Tests use it to check that
// every handle created for an operation was released.
func Live() int64 {
	return live.Load()
}
