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

package c2pa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/duggaraju/c2pa-go/pkg/engine"
	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/logging"
	"github.com/duggaraju/c2pa-go/pkg/signing"
	"github.com/duggaraju/c2pa-go/pkg/stream"
	"github.com/duggaraju/c2pa-go/pkg/tracing"
)

// ErrClosed is returned by operations on a closed Builder.
var ErrClosed = errors.New("c2pa: builder is closed")

// Option configures a Builder.
type Option func(*builderOptions)

type builderOptions struct {
	logger logging.Logger
	engine []engine.Option
}

// WithLogger sets the logger used for sign operations.
func WithLogger(l logging.Logger) Option {
	return func(o *builderOptions) { o.logger = l }
}

// WithHashAlgorithm selects the asset digest algorithm.
func WithHashAlgorithm(name string) Option {
	return func(o *builderOptions) { o.engine = append(o.engine, engine.WithHashAlgorithm(name)) }
}

// WithGenerator sets the claim generator recorded when the manifest has none.
func WithGenerator(generator string) Option {
	return func(o *builderOptions) { o.engine = append(o.engine, engine.WithGenerator(generator)) }
}

// WithClock replaces time.Now for the credential creation time.
func WithClock(now func() time.Time) Option {
	return func(o *builderOptions) { o.engine = append(o.engine, engine.WithClock(now)) }
}

// SignResult describes a successful sign.
type SignResult struct {
	// Size is the number of bytes written to the output.
	Size int64
	// Manifest is the credential the engine produced, embedded or not.
	Manifest []byte
}

// Builder signs assets with one manifest definition. It may sign many
// assets, one at a time.
type Builder struct {
	eng      *engine.Builder
	manifest []byte
	logger   logging.Logger

	mu      sync.Mutex
	lastErr string
	closed  bool
}

// BuilderFromJSON returns a Builder for the manifest definition manifest,
// which must be a JSON object.
func BuilderFromJSON(manifest string, opts ...Option) (*Builder, error) {
	var def map[string]any
	if err := json.Unmarshal([]byte(manifest), &def); err != nil || def == nil {
		msg := "manifest definition must be a JSON object"
		if err != nil {
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		return nil, &Error{Op: "builder", Code: ffi.ErrManifest, Message: msg}
	}

	o := builderOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	eng, err := engine.New(o.engine...)
	if err != nil {
		return nil, &Error{Op: "builder", Code: ffi.ErrInvalidArgument, Message: err.Error()}
	}
	return &Builder{
		eng:      eng,
		manifest: []byte(manifest),
		logger:   logging.EnsureLogger(o.logger),
	}, nil
}

// SetNoEmbed makes later signs write the asset without its credential. The
// credential is still returned in SignResult.Manifest.
func (b *Builder) SetNoEmbed() {
	b.eng.SetNoEmbed(true)
}

// LastError describes the most recent failure of this Builder.
func (b *Builder) LastError() string {
	b.mu.Lock()
	local := b.lastErr
	b.mu.Unlock()
	if local != "" {
		return local
	}
	return b.eng.LastError()
}

func (b *Builder) setLastError(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastErr = msg
}

func (b *Builder) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Close releases the Builder. Later calls fail with ErrInvalidHandle.
func (b *Builder) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// BuildAndSign signs the asset read from input with signer and writes the
// signed asset to output. input and output are host values wrapped for the
// engine: input needs io.Reader and io.Seeker, output io.Writer and
// io.Seeker. A long-lived *signing.Adapter is used as is; any other signer
// gets an adapter for this call. Everything created here is released before
// returning. The result is the engine's: bytes written, or a negative code.
func (b *Builder) BuildAndSign(format string, input, output any, signer signing.Signer) ffi.Result {
	r, _ := b.buildAndSign(format, input, output, signer)
	return r
}

func (b *Builder) buildAndSign(format string, input, output any, signer signing.Signer) (ffi.Result, []byte) {
	if b.isClosed() {
		b.setLastError(ErrClosed.Error())
		return ffi.ErrInvalidHandle, nil
	}
	b.setLastError("")
	if signer == nil {
		b.setLastError(signing.ErrNilSigner.Error())
		return ffi.ErrInvalidArgument, nil
	}

	in, err := stream.New(input)
	if err != nil {
		b.setLastError(fmt.Sprintf("input: %v", err))
		return ffi.ErrInvalidArgument, nil
	}
	defer in.Close()

	out, err := stream.New(output)
	if err != nil {
		b.setLastError(fmt.Sprintf("output: %v", err))
		return ffi.ErrInvalidArgument, nil
	}
	defer out.Close()

	adapter, ok := signer.(*signing.Adapter)
	if ok {
		adapter.ResetErr()
	} else {
		adapter, err = signing.NewAdapter(signer)
		if err != nil {
			b.setLastError(err.Error())
			return ffi.ErrInvalidArgument, nil
		}
		defer adapter.Close()
	}

	r, cred := b.eng.SignWithCredential(format, in.Native(), out.Native(), adapter.Native(), b.manifest)
	if !r.OK() {
		if herr := hostError(in, out, adapter); herr != nil {
			b.setLastError(fmt.Sprintf("%s: %v", b.eng.LastError(), herr))
		}
	}
	return r, cred
}

// hostError returns the first error a host value reported during the call.
func hostError(in, out *stream.Stream, adapter *signing.Adapter) error {
	if err := in.Err(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := out.Err(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := adapter.Err(); err != nil {
		return fmt.Errorf("signer: %w", err)
	}
	return nil
}

// Sign is BuildAndSign for Go streams. A negative result becomes an *Error
// carrying the code and the engine's description.
func (b *Builder) Sign(ctx context.Context, format string, input io.ReadSeeker, output io.WriteSeeker, signer signing.Signer) (*SignResult, error) {
	attrs := map[string]interface{}{"format": format}
	if signer != nil {
		attrs["alg"] = signer.Alg().String()
	}

	var res *SignResult
	err := tracing.Run(ctx, "c2pa.sign", attrs, func(context.Context) error {
		start := time.Now()
		r, cred := b.buildAndSign(format, input, output, signer)
		log := b.logger.WithFields(map[string]interface{}{
			"format":   format,
			"result":   int64(r),
			"duration": time.Since(start).String(),
		})
		if !r.OK() {
			msg := b.LastError()
			log.Debug("sign failed: %s", msg)
			return &Error{Op: "sign", Code: r, Message: msg}
		}
		res = &SignResult{Size: int64(r), Manifest: cred}
		log.Debug("signed asset, %d bytes written, %d byte credential", res.Size, len(res.Manifest))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SignFile signs the file at in into the file at out. The format is taken
// from the extension of in. A failed sign leaves whatever was written to out
// in place.
func (b *Builder) SignFile(ctx context.Context, in, out string, signer signing.Signer) (*SignResult, error) {
	format, err := formatOf(in)
	if err != nil {
		return nil, err
	}

	input, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", in, err)
	}
	defer input.Close()

	output, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", out, err)
	}

	res, err := b.Sign(ctx, format, input, output, signer)
	if cerr := output.Close(); cerr != nil && err == nil {
		return nil, fmt.Errorf("failed to close file %s: %w", out, cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sign file %s: %w", in, err)
	}
	return res, nil
}

// WriteSidecar writes manifest next to asset at SidecarPath(asset).
func WriteSidecar(asset string, manifest []byte) (string, error) {
	path := SidecarPath(asset)
	if err := os.WriteFile(path, manifest, 0644); err != nil {
		return "", fmt.Errorf("failed to write sidecar %s: %w", path, err)
	}
	return path, nil
}
