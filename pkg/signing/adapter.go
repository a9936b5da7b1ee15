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
	"errors"
	"sync"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/handle"
)

var (
	// ErrNilSigner is returned when NewAdapter is given a nil Signer.
	ErrNilSigner = errors.New("signing: nil signer")
	// ErrCreate is returned when the engine rejects the signer.
	ErrCreate = errors.New("signing: engine refused to create signer")
)

// Ensure Adapter implements Signer at compile time.
var _ Signer = (*Adapter)(nil)

// Adapter exposes a Signer to the engine. It may be created once and used for
// any number of sign operations until Close is called.
type Adapter struct {
	signer Signer
	handle handle.Handle
	native *ffi.Signer
	once   sync.Once

	mu  sync.Mutex
	err error
}

// NewAdapter registers s and creates its engine signer with s's algorithm,
// time-stamp URL and certificate chain. Neither is validated here.
func NewAdapter(s Signer) (*Adapter, error) {
	if s == nil {
		return nil, ErrNilSigner
	}
	a := &Adapter{signer: s}
	a.handle = handle.New(a)
	a.native = ffi.CreateSigner(ffi.Context(a.handle), callback(), s.Alg(), s.TimeStampURL(), s.Certificates())
	if a.native == nil {
		a.handle.Delete()
		return nil, ErrCreate
	}
	return a, nil
}

// Native returns the engine side of the signer.
func (a *Adapter) Native() *ffi.Signer {
	return a.native
}

// Context returns the handle the engine sees.
func (a *Adapter) Context() ffi.Context {
	return ffi.Context(a.handle)
}

func (a *Adapter) Sign(data []byte) ([]byte, error) {
	return a.signer.Sign(data)
}

func (a *Adapter) Alg() SigningAlg {
	return a.signer.Alg()
}

func (a *Adapter) TimeStampURL() string {
	return a.signer.TimeStampURL()
}

func (a *Adapter) Certificates() []byte {
	return a.signer.Certificates()
}

// Err returns the error of the last failed Sign issued by the engine, or
// nil. ResetErr clears it.
func (a *Adapter) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// ResetErr forgets the recorded error.
func (a *Adapter) ResetErr() {
	a.record(nil)
}

func (a *Adapter) record(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

// Close releases the engine signer and the handle. Only the first call has
// an effect. The wrapped Signer is not closed.
func (a *Adapter) Close() error {
	a.once.Do(func() {
		a.native.Release()
		a.handle.Delete()
	})
	return nil
}
