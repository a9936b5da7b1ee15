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

import "sync/atomic"

// SignFunc signs data into out and returns the signature length or a negative
// code. data is only valid for the duration of the call.
type SignFunc func(ctx Context, data []byte, out []byte) Result

// Signer is the engine's view of a host signer.
type Signer struct {
	ctx      Context
	cb       SignFunc
	alg      SigningAlg
	tsaURL   string
	certs    []byte
	released atomic.Bool
}

// CreateSigner binds ctx to cb together with the signing parameters. The
// algorithm and certificate chain are stored as given; the engine validates
// them when it signs. It returns nil when ctx is zero or cb is nil.
func CreateSigner(ctx Context, cb SignFunc, alg SigningAlg, tsaURL string, certs []byte) *Signer {
	if ctx == 0 || cb == nil {
		return nil
	}
	return &Signer{
		ctx:    ctx,
		cb:     cb,
		alg:    alg,
		tsaURL: tsaURL,
		certs:  append([]byte(nil), certs...),
	}
}

// Context returns the token the signer was created with.
func (s *Signer) Context() Context {
	return s.ctx
}

// Valid reports whether s can still be called.
func (s *Signer) Valid() bool {
	return s != nil && !s.released.Load()
}

func (s *Signer) Alg() SigningAlg {
	return s.alg
}

func (s *Signer) TSAURL() string {
	return s.tsaURL
}

// Certificates returns the certificate chain bytes, PEM or DER.
func (s *Signer) Certificates() []byte {
	return s.certs
}

// ReserveSize is the size of the buffer the engine passes to Sign.
func (s *Signer) ReserveSize() int {
	return s.alg.ReserveSize()
}

// Sign asks the host to sign data into out.
func (s *Signer) Sign(data []byte, out []byte) Result {
	if !s.Valid() {
		return ErrInvalidHandle
	}
	return bounded(s.cb(s.ctx, data, out), len(out))
}

// Release frees the native side of the signer. It reports false when the
// signer was already released.
func (s *Signer) Release() bool {
	if s == nil {
		return false
	}
	return s.released.CompareAndSwap(false, true)
}
