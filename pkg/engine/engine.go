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

// Package engine is the signing engine the bridge drives.
//
// The engine only sees ffi values: streams and signers are opaque contexts
// plus callback tables, and every outcome is an ffi.Result. It reads the
// asset through the input stream, binds its digest and the manifest into a
// credential, asks the signer for a signature and writes the asset followed
// by the credential trailer to the output stream. All callbacks run on the
// calling goroutine.
package engine

import (
	"bytes"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/duggaraju/c2pa-go/pkg/config"
	"github.com/duggaraju/c2pa-go/pkg/credential"
	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/hashing"
	"github.com/duggaraju/c2pa-go/pkg/utils"
)

// Version is the engine version reported to hosts.
const Version = "0.4.0"

const defaultChunkSize = 64 * 1024

// Option configures a Builder.
type Option func(*Builder)

// WithHashAlgorithm selects the asset digest algorithm (sha256, sha384,
// sha512 or blake2b).
func WithHashAlgorithm(name string) Option {
	return func(b *Builder) { b.hashAlg = name }
}

// WithNoEmbed makes Sign write the asset without the credential trailer.
func WithNoEmbed(noEmbed bool) Option {
	return func(b *Builder) { b.noEmbed = noEmbed }
}

// WithGenerator sets the claim generator used when the manifest names none.
func WithGenerator(generator string) Option {
	return func(b *Builder) { b.generator = generator }
}

// WithClock replaces time.Now for the credential creation time.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithChunkSize sets the size of the reads issued to the input stream.
func WithChunkSize(n int) Option {
	return func(b *Builder) { b.chunkSize = n }
}

// Builder signs assets. One Builder runs one Sign at a time; a concurrent
// Sign on the same Builder returns ErrBusy. Distinct Builders are
// independent.
type Builder struct {
	busy sync.Mutex

	mu         sync.Mutex
	hashAlg    string
	noEmbed    bool
	generator  string
	now        func() time.Time
	chunkSize  int
	lastErr    string
	credential []byte
}

// New returns a Builder.
func New(opts ...Option) (*Builder, error) {
	b := &Builder{
		hashAlg:   hashing.DefaultAlgorithm,
		generator: utils.ClaimGenerator + "/" + Version,
		now:       time.Now,
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if !hashing.IsSupported(b.hashAlg) {
		return nil, fmt.Errorf("unsupported hash algorithm %q (supported: %v)",
			b.hashAlg, hashing.SupportedAlgorithms())
	}
	if b.chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", b.chunkSize)
	}
	if b.now == nil {
		return nil, errors.New("clock cannot be nil")
	}
	return b, nil
}

// SetNoEmbed changes whether the next Sign embeds its credential.
func (b *Builder) SetNoEmbed(noEmbed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.noEmbed = noEmbed
}

// LastError describes the most recent failure, or is empty.
func (b *Builder) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Credential returns the credential produced by the most recent successful
// Sign. It is available with and without embedding.
func (b *Builder) Credential() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.credential)
}

type settings struct {
	hashAlg   string
	noEmbed   bool
	generator string
	now       func() time.Time
	chunkSize int
}

func (b *Builder) begin() settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastErr = ""
	b.credential = nil
	return settings{
		hashAlg:   b.hashAlg,
		noEmbed:   b.noEmbed,
		generator: b.generator,
		now:       b.now,
		chunkSize: b.chunkSize,
	}
}

func (b *Builder) finish(cred []byte, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.lastErr = err.Error()
		return
	}
	b.credential = cred
}

// Sign reads the asset from in, signs a credential over it with signer and
// writes the signed asset to out. It returns the number of bytes written, or
// a negative code. Codes returned by host callbacks are passed back
// unchanged, and a failed read never reaches the signer.
func (b *Builder) Sign(format string, in, out *ffi.Stream, signer *ffi.Signer, manifest []byte) ffi.Result {
	r, _ := b.SignWithCredential(format, in, out, signer, manifest)
	return r
}

// SignWithCredential is Sign that also returns the credential this call
// produced, or nil when it failed.
func (b *Builder) SignWithCredential(format string, in, out *ffi.Stream, signer *ffi.Signer, manifest []byte) (ffi.Result, []byte) {
	if !in.Valid() || !out.Valid() || !signer.Valid() {
		err := fail(ffi.ErrInvalidHandle, "stream or signer handle is not valid")
		b.finish(nil, err)
		return ffi.ErrInvalidHandle, nil
	}
	if !b.busy.TryLock() {
		return ffi.ErrBusy, nil
	}
	defer b.busy.Unlock()

	s := &session{settings: b.begin(), in: in, out: out, signer: signer}
	n, cred, err := s.run(format, manifest)
	b.finish(cred, err)
	if err != nil {
		return ffi.CodeOf(err, ffi.ErrGeneric), nil
	}
	return ffi.Result(n), bytes.Clone(cred)
}

// session is the state of one Sign call.
type session struct {
	settings
	in, out *ffi.Stream
	signer  *ffi.Signer
}

func (s *session) run(format string, manifest []byte) (int64, []byte, error) {
	name, ok := NormalizeFormat(format)
	if !ok {
		return 0, nil, fail(ffi.ErrUnsupportedFormat, "unsupported asset format %q", format)
	}

	definition, err := parseManifest(manifest)
	if err != nil {
		return 0, nil, err
	}

	digest, size, err := s.hashInput()
	if err != nil {
		return 0, nil, err
	}

	chain, err := parseChain(s.signer.Certificates())
	if err != nil {
		return 0, nil, err
	}

	claim := &credential.Claim{
		Generator:    s.generator,
		Format:       name,
		InstanceID:   credential.NewInstanceID(),
		Manifest:     definition,
		Asset:        digest,
		Alg:          s.signer.Alg(),
		TimeStampURL: s.signer.TSAURL(),
		Created:      s.now(),
	}
	if g, ok := definition["claim_generator"].(string); ok && g != "" {
		claim.Generator = g
	}
	if t, ok := definition["title"].(string); ok {
		claim.Title = t
	}

	cred, err := s.sign(claim, chain)
	if err != nil {
		return 0, nil, err
	}

	n, err := s.writeOutput(digest, size, cred)
	if err != nil {
		return n, nil, err
	}
	return n, cred, nil
}

func parseManifest(manifest []byte) (map[string]any, error) {
	var definition map[string]any
	if err := json.Unmarshal(manifest, &definition); err != nil {
		return nil, fail(ffi.ErrManifest, "manifest is not a JSON object: %w", err)
	}
	if definition == nil {
		return nil, fail(ffi.ErrManifest, "manifest is not a JSON object")
	}
	return definition, nil
}

func (s *session) hashInput() (hashing.Digest, int64, error) {
	if _, err := s.seekInput(); err != nil {
		return hashing.Digest{}, 0, err
	}
	h, err := hashing.Create(s.hashAlg)
	if err != nil {
		return hashing.Digest{}, 0, fail(ffi.ErrInvalidArgument, "%w", err)
	}
	buf := make([]byte, s.chunkSize)
	n, err := pump(s.in, "input", buf, -1, func(p []byte) error {
		_, werr := h.Write(p)
		return werr
	})
	if err != nil {
		return hashing.Digest{}, 0, err
	}
	return h.Compute(), n, nil
}

func (s *session) seekInput() (int64, error) {
	return seek(s.in, "input", 0, ffi.SeekStart)
}

func parseChain(raw []byte) ([]*x509.Certificate, error) {
	if len(raw) == 0 {
		return nil, fail(ffi.ErrSignature, "signer has no certificate chain")
	}
	certs, err := config.ParseCertificates(raw)
	if err != nil {
		return nil, fail(ffi.ErrSignature, "invalid signer certificate chain: %w", err)
	}
	if len(certs) == 0 {
		return nil, fail(ffi.ErrSignature, "signer has no certificate chain")
	}
	return certs, nil
}

func (s *session) sign(claim *credential.Claim, chain []*x509.Certificate) ([]byte, error) {
	if !claim.Alg.Valid() {
		return nil, fail(ffi.ErrInvalidArgument, "unsupported signing algorithm %s", claim.Alg)
	}
	payload, err := claim.MarshalStatement()
	if err != nil {
		return nil, fail(ffi.ErrManifest, "failed to build statement: %w", err)
	}

	sig := make([]byte, s.signer.ReserveSize())
	r := s.signer.Sign(credential.PAE(payload), sig)
	if r < 0 {
		return nil, fail(r, "signer failed: %s", r)
	}
	if r == 0 {
		return nil, fail(ffi.ErrSignature, "signer returned an empty signature")
	}

	cred, err := credential.Assemble(payload, sig[:r], chain)
	if err != nil {
		return nil, fail(ffi.ErrSignature, "failed to assemble credential: %w", err)
	}
	data, err := cred.Marshal()
	if err != nil {
		return nil, fail(ffi.ErrGeneric, "%w", err)
	}
	return data, nil
}

// writeOutput copies the asset a second time, checking it did not change
// since it was hashed, and appends the credential unless embedding is off.
func (s *session) writeOutput(digest hashing.Digest, size int64, cred []byte) (int64, error) {
	if _, err := seek(s.out, "output", 0, ffi.SeekStart); err != nil {
		return 0, err
	}
	if _, err := s.seekInput(); err != nil {
		return 0, err
	}

	h, err := hashing.Create(s.hashAlg)
	if err != nil {
		return 0, fail(ffi.ErrInvalidArgument, "%w", err)
	}
	var written int64
	buf := make([]byte, s.chunkSize)
	copied, err := pump(s.in, "input", buf, -1, func(p []byte) error {
		h.Write(p)
		n, werr := writeAll(s.out, p)
		written += n
		return werr
	})
	if err != nil {
		return written, err
	}
	if copied != size || !h.Compute().Equal(digest) {
		return written, fail(ffi.ErrIO, "input changed while signing")
	}

	if !s.noEmbed {
		n, err := writeAll(s.out, credential.Trailer(cred))
		written += n
		if err != nil {
			return written, err
		}
	}

	if r := s.out.Flush(); r < 0 {
		return written, fail(r, "flush output: %s", r)
	}
	return written, nil
}
