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

package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"sort"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// DefaultAlgorithm is used when a builder does not choose one.
const DefaultAlgorithm = "sha256"

// Factory creates a fresh hash.Hash.
type Factory func() (hash.Hash, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{
		"sha256": func() (hash.Hash, error) { return sha256.New(), nil },
		"sha384": func() (hash.Hash, error) { return sha512.New384(), nil },
		"sha512": func() (hash.Hash, error) { return sha512.New(), nil },
		// 512-bit BLAKE2b with no key.
		"blake2b": func() (hash.Hash, error) { return blake2b.New512(nil) },
	}
)

// Register adds an algorithm. Names are case-sensitive and may not be
// registered twice.
func Register(algorithm string, factory Factory) error {
	if algorithm == "" {
		return fmt.Errorf("algorithm name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[algorithm]; exists {
		return fmt.Errorf("hash algorithm %q already registered", algorithm)
	}
	registry[algorithm] = factory
	return nil
}

// Unregister removes an algorithm. It exists for tests.
func Unregister(algorithm string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[algorithm]; !exists {
		return fmt.Errorf("hash algorithm %q not registered", algorithm)
	}
	delete(registry, algorithm)
	return nil
}

// IsSupported reports whether algorithm is registered.
func IsSupported(algorithm string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[algorithm]
	return ok
}

// SupportedAlgorithms returns the registered names, sorted.
func SupportedAlgorithms() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Engine hashes a stream of bytes incrementally. It implements io.Writer so
// it can sit behind io.Copy or io.TeeReader.
type Engine struct {
	name string
	h    hash.Hash
	n    int64
}

// Create returns an Engine for algorithm.
func Create(algorithm string) (*Engine, error) {
	mu.RLock()
	factory, ok := registry[algorithm]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %s (supported: %v)",
			algorithm, SupportedAlgorithms())
	}

	h, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create hash engine for %q: %w", algorithm, err)
	}
	return &Engine{name: algorithm, h: h}, nil
}

// Write feeds p into the hash. It never fails.
func (e *Engine) Write(p []byte) (int, error) {
	e.h.Write(p)
	e.n += int64(len(p))
	return len(p), nil
}

// Reset discards everything written so far.
func (e *Engine) Reset() {
	e.h.Reset()
	e.n = 0
}

// Written returns the number of bytes hashed since creation or Reset.
func (e *Engine) Written() int64 {
	return e.n
}

// Compute returns the digest of everything written. The engine state is
// left untouched.
func (e *Engine) Compute() Digest {
	return Digest{algorithm: e.name, value: e.h.Sum(nil)}
}

// DigestName returns the algorithm name.
func (e *Engine) DigestName() string {
	return e.name
}

// DigestSize returns the digest length in bytes.
func (e *Engine) DigestSize() int {
	return e.h.Size()
}

// Sum hashes all of r with algorithm.
func Sum(algorithm string, r io.Reader) (Digest, error) {
	e, err := Create(algorithm)
	if err != nil {
		return Digest{}, err
	}
	if _, err := io.Copy(e, r); err != nil {
		return Digest{}, err
	}
	return e.Compute(), nil
}
