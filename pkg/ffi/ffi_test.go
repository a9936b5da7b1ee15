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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCallbacks(read, write, seek, flush Result) StreamCallbacks {
	return StreamCallbacks{
		Read:  func(Context, []byte) Result { return read },
		Write: func(Context, []byte) Result { return write },
		Seek:  func(Context, int64, SeekMode) Result { return seek },
		Flush: func(Context) Result { return flush },
	}
}

func TestCreateStream(t *testing.T) {
	full := fixedCallbacks(0, 0, 0, 0)
	partial := full
	partial.Flush = nil

	tests := []struct {
		name string
		ctx  Context
		cb   StreamCallbacks
		ok   bool
	}{
		{"valid", 7, full, true},
		{"zero context", 0, full, false},
		{"incomplete table", 7, partial, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CreateStream(tt.ctx, tt.cb)
			if tt.ok {
				require.NotNil(t, s)
				assert.Equal(t, tt.ctx, s.Context())
			} else {
				assert.Nil(t, s)
			}
		})
	}
}

func TestStreamForwardsContext(t *testing.T) {
	var seen []Context
	cb := StreamCallbacks{
		Read:  func(c Context, _ []byte) Result { seen = append(seen, c); return 0 },
		Write: func(c Context, _ []byte) Result { seen = append(seen, c); return 0 },
		Seek:  func(c Context, _ int64, _ SeekMode) Result { seen = append(seen, c); return 0 },
		Flush: func(c Context) Result { seen = append(seen, c); return 0 },
	}
	s := CreateStream(42, cb)
	require.NotNil(t, s)

	s.Read(make([]byte, 4))
	s.Write([]byte("x"))
	s.Seek(0, SeekStart)
	s.Flush()
	assert.Equal(t, []Context{42, 42, 42, 42}, seen)
}

func TestStreamContractGuard(t *testing.T) {
	tests := []struct {
		name string
		host Result
		size int
		want Result
	}{
		{"within bounds", 3, 4, 3},
		{"exact", 4, 4, 4},
		{"end of data", 0, 4, 0},
		{"over-report", 5, 4, ErrContractViolation},
		{"host code", -42, 4, -42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CreateStream(1, fixedCallbacks(tt.host, tt.host, 0, 0))
			require.NotNil(t, s)
			assert.Equal(t, tt.want, s.Read(make([]byte, tt.size)))
			assert.Equal(t, tt.want, s.Write(make([]byte, tt.size)))
		})
	}
}

func TestStreamSeekRejectsUnknownMode(t *testing.T) {
	s := CreateStream(1, fixedCallbacks(0, 0, 10, 0))
	require.NotNil(t, s)
	assert.Equal(t, Result(10), s.Seek(10, SeekStart))
	assert.Equal(t, ErrInvalidArgument, s.Seek(0, SeekMode(9)))
}

func TestStreamRelease(t *testing.T) {
	s := CreateStream(1, fixedCallbacks(1, 1, 0, 0))
	require.NotNil(t, s)
	assert.True(t, s.Release())
	assert.False(t, s.Release())
	assert.False(t, s.Valid())
	assert.Equal(t, ErrInvalidHandle, s.Read(make([]byte, 1)))
	assert.Equal(t, ErrInvalidHandle, s.Flush())

	var nilStream *Stream
	assert.False(t, nilStream.Release())
	assert.Equal(t, ErrInvalidHandle, nilStream.Seek(0, SeekStart))
}

func TestCreateSigner(t *testing.T) {
	sign := func(_ Context, _ []byte, out []byte) Result {
		return Result(copy(out, "sig"))
	}
	certs := []byte("chain")

	s := CreateSigner(9, sign, Es384, "http://tsa.example", certs)
	require.NotNil(t, s)
	certs[0] = 'X'
	assert.Equal(t, []byte("chain"), s.Certificates())
	assert.Equal(t, Es384, s.Alg())
	assert.Equal(t, "http://tsa.example", s.TSAURL())
	assert.Equal(t, 96, s.ReserveSize())

	out := make([]byte, s.ReserveSize())
	assert.Equal(t, Result(3), s.Sign([]byte("data"), out))
	assert.Equal(t, "sig", string(out[:3]))

	assert.Nil(t, CreateSigner(0, sign, Es256, "", nil))
	assert.Nil(t, CreateSigner(9, nil, Es256, "", nil))
}

func TestSignerGuardsAndRelease(t *testing.T) {
	over := CreateSigner(1, func(Context, []byte, []byte) Result { return 100 }, Es256, "", nil)
	require.NotNil(t, over)
	assert.Equal(t, ErrContractViolation, over.Sign(nil, make([]byte, 64)))

	assert.True(t, over.Release())
	assert.False(t, over.Release())
	assert.Equal(t, ErrInvalidHandle, over.Sign(nil, make([]byte, 64)))
}

func TestSigningAlg(t *testing.T) {
	for _, a := range []SigningAlg{Es256, Es384, Es512, Ps256, Ps384, Ps512, Ed25519} {
		parsed, err := ParseSigningAlg(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
		assert.True(t, a.Valid())
		assert.Positive(t, a.ReserveSize())
	}

	parsed, err := ParseSigningAlg(" PS256 ")
	require.NoError(t, err)
	assert.Equal(t, Ps256, parsed)

	_, err = ParseSigningAlg("rsa1024")
	assert.Error(t, err)
	assert.False(t, SigningAlg(99).Valid())
	assert.Equal(t, 0, SigningAlg(99).ReserveSize())

	assert.Equal(t, crypto.SHA256, Es256.Hash())
	assert.Equal(t, crypto.SHA384, Ps384.Hash())
	assert.Equal(t, crypto.SHA512, Es512.Hash())
	assert.Equal(t, crypto.Hash(0), Ed25519.Hash())
}

func TestCodeOf(t *testing.T) {
	base := errors.New("disk gone")
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"plain error", base, ErrIO},
		{"code error", NewCodeError(-42, base), -42},
		{"wrapped code error", fmt.Errorf("outer: %w", NewCodeError(ErrBusy, base)), ErrBusy},
		{"non-negative code", NewCodeError(5, base), ErrGeneric},
		{"nil", nil, ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err, ErrIO))
		})
	}

	ce := NewCodeError(ErrSignature, base)
	assert.ErrorIs(t, ce, base)
	assert.Contains(t, ce.Error(), "signing failure")
	assert.Contains(t, ce.Error(), "disk gone")
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "12", Result(12).String())
	assert.Equal(t, "invalid handle (-4)", ErrInvalidHandle.String())
	assert.Equal(t, "error code -99", Result(-99).String())
	assert.True(t, Result(0).OK())
	assert.False(t, ErrIO.OK())
}
