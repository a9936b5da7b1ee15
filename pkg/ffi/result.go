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

// Package ffi defines the calling contract between host code and the signing
// engine: opaque contexts, result codes, and the callback tables through which
// the engine reaches host streams and signers.
//
// Nothing in this package knows what a context refers to. A Stream or Signer
// created here only stores the context token and the callback table bound to
// it, and forwards every engine call through that table.
package ffi

import (
	"errors"
	"fmt"
)

// Context is the opaque token a host hands to the engine for one resource.
type Context uintptr

// Result is the engine's result convention: a non-negative value is a byte
// count or a stream position, a negative value is an error code.
type Result int64

// Reserved error codes. Host callbacks may return any negative value; every
// layer passes it through unchanged.
const (
	ErrGeneric           Result = -1
	ErrIO                Result = -2
	ErrUnsupported       Result = -3
	ErrInvalidHandle     Result = -4
	ErrBufferTooSmall    Result = -5
	ErrSignature         Result = -6
	ErrContractViolation Result = -7
	ErrInvalidArgument   Result = -8
	ErrUnsupportedFormat Result = -9
	ErrManifest          Result = -10
	ErrNotFound          Result = -11
	ErrBusy              Result = -12
)

var resultNames = map[Result]string{
	ErrGeneric:           "generic failure",
	ErrIO:                "i/o failure",
	ErrUnsupported:       "operation not supported",
	ErrInvalidHandle:     "invalid handle",
	ErrBufferTooSmall:    "buffer too small",
	ErrSignature:         "signing failure",
	ErrContractViolation: "callback contract violation",
	ErrInvalidArgument:   "invalid argument",
	ErrUnsupportedFormat: "unsupported asset format",
	ErrManifest:          "invalid manifest",
	ErrNotFound:          "no content credential found",
	ErrBusy:              "builder already in use",
}

// OK reports whether r is a success value.
func (r Result) OK() bool {
	return r >= 0
}

// String describes r. Success values print as plain numbers.
func (r Result) String() string {
	if r >= 0 {
		return fmt.Sprintf("%d", int64(r))
	}
	if name, ok := resultNames[r]; ok {
		return fmt.Sprintf("%s (%d)", name, int64(r))
	}
	return fmt.Sprintf("error code %d", int64(r))
}

// CodeError lets host code choose the exact negative code a callback
// reports to the engine.
type CodeError struct {
	Code Result
	Err  error
}

// NewCodeError wraps err with code. Non-negative codes are replaced with ErrGeneric.
func NewCodeError(code Result, err error) *CodeError {
	if code >= 0 {
		code = ErrGeneric
	}
	return &CodeError{Code: code, Err: err}
}

func (e *CodeError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *CodeError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code carried by a CodeError in err's chain, or fallback.
// A nil err yields fallback as well; callers only ask on failure paths.
func CodeOf(err error, fallback Result) Result {
	var ce *CodeError
	if errors.As(err, &ce) && ce.Code < 0 {
		return ce.Code
	}
	return fallback
}
