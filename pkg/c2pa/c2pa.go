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

// Package c2pa drives the signing engine from Go.
//
// A Builder holds a manifest definition. BuildAndSign hands the engine a
// host input, a host output and a host signer for one blocking call and
// returns the engine's result code unchanged; Sign and SignFile wrap it in Go
// errors. Readers report the credential found in a signed asset.
package c2pa

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/duggaraju/c2pa-go/pkg/engine"
	"github.com/duggaraju/c2pa-go/pkg/ffi"
)

// SidecarExt is the extension of a detached credential file.
const SidecarExt = ".c2pa"

// Version returns the engine version.
func Version() string {
	return engine.Version
}

// Error is a failed engine call. Code is the result the engine returned,
// including codes chosen by host callbacks.
type Error struct {
	Op      string
	Code    ffi.Result
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Op == "" {
		return "c2pa: " + msg
	}
	return fmt.Sprintf("c2pa: %s: %s", e.Op, msg)
}

// Unwrap exposes Code so ffi.CodeOf works on driver errors.
func (e *Error) Unwrap() error {
	return &ffi.CodeError{Code: e.Code}
}

// SidecarPath returns where a detached credential for asset is stored:
// the asset path with its extension replaced by SidecarExt.
func SidecarPath(asset string) string {
	return strings.TrimSuffix(asset, filepath.Ext(asset)) + SidecarExt
}

func formatOf(path string) (string, error) {
	format, ok := engine.FormatFromPath(path)
	if !ok {
		return "", &Error{
			Op:      "format",
			Code:    ffi.ErrUnsupportedFormat,
			Message: fmt.Sprintf("cannot infer asset format from %q", path),
		}
	}
	return format, nil
}
