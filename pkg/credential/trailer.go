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

package credential

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Embedded credentials are appended to the asset as
//
//	credential JSON || uint64 big-endian length || "C2PACRED"
//
// so a reader finds them from the end of the stream without understanding
// the asset format.
const (
	Magic      = "C2PACRED"
	FooterSize = 8 + len(Magic)
)

// ErrNoCredential is returned when a stream does not end in a credential footer.
var ErrNoCredential = errors.New("no embedded credential found")

// Trailer returns the bytes appended to an asset to embed data.
func Trailer(data []byte) []byte {
	out := make([]byte, 0, len(data)+FooterSize)
	out = append(out, data...)
	out = binary.BigEndian.AppendUint64(out, uint64(len(data)))
	return append(out, Magic...)
}

// ParseFooter validates the last FooterSize bytes of a stream of total
// length size and returns the credential length.
func ParseFooter(footer []byte, size int64) (int64, error) {
	if size < int64(FooterSize) || len(footer) != FooterSize || !bytes.Equal(footer[8:], []byte(Magic)) {
		return 0, ErrNoCredential
	}
	n := binary.BigEndian.Uint64(footer[:8])
	if n == 0 || n > uint64(size-int64(FooterSize)) {
		return 0, fmt.Errorf("credential length %d does not fit a %d byte stream", n, size)
	}
	return int64(n), nil
}
