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

// Package hashing computes the asset digests a content credential binds to.
//
// Engines are looked up by algorithm name in a registry that holds sha256,
// sha384, sha512 and blake2b by default. The names double as the keys of the
// in-toto digest set written into the credential subject.
package hashing

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Digest is a computed hash paired with the name of the algorithm that
// produced it. Its bytes are copied in and out.
type Digest struct {
	algorithm string
	value     []byte
}

// NewDigest copies value into a new Digest.
func NewDigest(algorithm string, value []byte) Digest {
	return Digest{algorithm: algorithm, value: bytes.Clone(value)}
}

// ParseDigest builds a Digest from a lower-case hex value.
func ParseDigest(algorithm, hexValue string) (Digest, error) {
	value, err := hex.DecodeString(hexValue)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid %s digest: %w", algorithm, err)
	}
	return Digest{algorithm: algorithm, value: value}, nil
}

// Algorithm returns the algorithm name, e.g. "sha256".
func (d Digest) Algorithm() string {
	return d.algorithm
}

// Value returns a copy of the raw digest bytes.
func (d Digest) Value() []byte {
	return bytes.Clone(d.value)
}

// Hex returns the lower-case hex encoding of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.value)
}

// Size returns the digest length in bytes.
func (d Digest) Size() int {
	return len(d.value)
}

// String formats the digest as "algorithm:hex".
func (d Digest) String() string {
	return fmt.Sprintf("%s:%s", d.algorithm, d.Hex())
}

// Equal reports whether both digests use the same algorithm and value.
func (d Digest) Equal(other Digest) bool {
	return d.algorithm == other.algorithm && bytes.Equal(d.value, other.value)
}
