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
	"crypto"
	"fmt"
	"strings"
)

// SigningAlg identifies the signature algorithm a signer produces.
type SigningAlg int

const (
	Es256 SigningAlg = iota
	Es384
	Es512
	Ps256
	Ps384
	Ps512
	Ed25519
)

var algNames = [...]string{"es256", "es384", "es512", "ps256", "ps384", "ps512", "ed25519"}

// String returns the lower-case algorithm name, e.g. "es256".
func (a SigningAlg) String() string {
	if a < 0 || int(a) >= len(algNames) {
		return fmt.Sprintf("SigningAlg(%d)", int(a))
	}
	return algNames[a]
}

// Valid reports whether a is one of the defined algorithms.
func (a SigningAlg) Valid() bool {
	return a >= 0 && int(a) < len(algNames)
}

// ReserveSize is the largest signature a produces, and the size of the
// output buffer the engine hands to the signer.
func (a SigningAlg) ReserveSize() int {
	switch a {
	case Es256, Ed25519:
		return 64
	case Es384:
		return 96
	case Es512:
		return 132
	case Ps256, Ps384, Ps512:
		// RSA moduli up to 4096 bits.
		return 512
	default:
		return 0
	}
}

// Hash is the digest a signs over. Ed25519 signs the message itself and
// reports crypto.Hash(0).
func (a SigningAlg) Hash() crypto.Hash {
	switch a {
	case Es256, Ps256:
		return crypto.SHA256
	case Es384, Ps384:
		return crypto.SHA384
	case Es512, Ps512:
		return crypto.SHA512
	default:
		return crypto.Hash(0)
	}
}

// ParseSigningAlg parses an algorithm name, case-insensitively.
func ParseSigningAlg(s string) (SigningAlg, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range algNames {
		if n == name {
			return SigningAlg(i), nil
		}
	}
	return 0, fmt.Errorf("unknown signing algorithm %q", s)
}
