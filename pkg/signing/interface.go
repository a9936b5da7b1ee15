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

import "github.com/duggaraju/c2pa-go/pkg/ffi"

// SigningAlg identifies the signature algorithm a Signer produces.
//
//nolint:revive
type SigningAlg = ffi.SigningAlg

const (
	Es256   = ffi.Es256
	Es384   = ffi.Es384
	Es512   = ffi.Es512
	Ps256   = ffi.Ps256
	Ps384   = ffi.Ps384
	Ps512   = ffi.Ps512
	Ed25519 = ffi.Ed25519
)

// Signer signs the bytes the engine asks it to sign.
//
// Each implementation may manage key material differently: in memory, in a
// key file, or on a hardware token.
type Signer interface {
	// Sign returns the signature over data. data must not be retained.
	Sign(data []byte) ([]byte, error)

	// Alg is the algorithm of the signatures Sign returns.
	Alg() SigningAlg

	// TimeStampURL is the time-stamp authority to use, or "" for none.
	TimeStampURL() string

	// Certificates is the signer's certificate chain, leaf first, PEM or DER.
	Certificates() []byte
}

// ParseAlgorithm parses an algorithm name such as "es256" or "ED25519".
func ParseAlgorithm(name string) (SigningAlg, error) {
	return ffi.ParseSigningAlg(name)
}
