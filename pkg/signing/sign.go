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

package signing

import (
	"sync/atomic"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/handle"
)

var current atomic.Pointer[ffi.SignFunc]

func init() {
	fn := ffi.SignFunc(Callback)
	current.Store(&fn)
}

// Override replaces the sign callback used by adapters created from now on.
// A nil fn restores the default. Existing adapters keep the callback they were
// created with. The returned function restores the previous callback.
func Override(fn ffi.SignFunc) (restore func()) {
	if fn == nil {
		fn = Callback
	}
	prev := current.Swap(&fn)
	return func() { current.Store(prev) }
}

func callback() ffi.SignFunc {
	return *current.Load()
}

// Lookup resolves ctx to the Signer of a live adapter.
func Lookup(ctx ffi.Context) (Signer, bool) {
	a, ok := lookup(ctx)
	if !ok {
		return nil, false
	}
	return a.signer, true
}

func lookup(ctx ffi.Context) (*Adapter, bool) {
	v, ok := handle.Handle(ctx).Lookup()
	if !ok {
		return nil, false
	}
	a, ok := v.(*Adapter)
	return a, ok
}

// Callback is the default sign callback. It signs data with the Signer behind
// ctx and copies the signature into out.
//
// A signature that does not fit yields ffi.ErrBufferTooSmall and out is left
// untouched. Signer errors yield the code they carry, or ffi.ErrSignature,
// and are kept on the adapter for Err.
func Callback(ctx ffi.Context, data []byte, out []byte) ffi.Result {
	a, ok := lookup(ctx)
	if !ok {
		return ffi.ErrInvalidHandle
	}
	sig, err := a.signer.Sign(data)
	if err != nil {
		a.record(err)
		return ffi.CodeOf(err, ffi.ErrSignature)
	}
	if len(sig) > len(out) {
		return ffi.ErrBufferTooSmall
	}
	return ffi.Result(copy(out, sig))
}
