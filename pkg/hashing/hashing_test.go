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
	"bytes"
	"crypto/sha256"
	"hash"
	"strings"
	"testing"
)

func TestEngine_KnownVectors(t *testing.T) {
	tests := []struct {
		algorithm string
		want      string
	}{
		{"sha256", "88d4266fd4e6338d13b845fcf289579d209c897823b9217da3e161936f031589"},
		{"sha384", "1165b3406ff0b52a3d24721f785462ca2276c9f454a116c2b2ba20171a7905ea5a026682eb659c4d5f115c363aa3c79b"},
		{"sha512", "d8022f2060ad6efd297ab73dcc5355c9b214054b0d1776a136a669d26a7d3b14f73aa0d0ebff19ee333368f0164b6419a96da49e3e481753e7e96b716bdccb6f"},
		{"blake2b", "26bc14024d5d6818ad7c4dee519353c290e38b6535f16f62b6ce5c6ff346c354542496f89b84eacffa1da51f0ac5e643f965637cc24e0b3f819bdae05f3932b0"},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			e, err := Create(tt.algorithm)
			if err != nil {
				t.Fatalf("Create(%q) error = %v", tt.algorithm, err)
			}
			// Split writes must hash like one write.
			e.Write([]byte("ab"))
			e.Write([]byte("cd"))

			d := e.Compute()
			if d.Hex() != tt.want {
				t.Errorf("Compute() = %q, want %q", d.Hex(), tt.want)
			}
			if d.Algorithm() != tt.algorithm {
				t.Errorf("Algorithm() = %q, want %q", d.Algorithm(), tt.algorithm)
			}
			if d.Size() != e.DigestSize() {
				t.Errorf("Size() = %d, DigestSize() = %d", d.Size(), e.DigestSize())
			}
			if e.Written() != 4 {
				t.Errorf("Written() = %d, want 4", e.Written())
			}
		})
	}
}

func TestEngine_Reset(t *testing.T) {
	e, err := Create(DefaultAlgorithm)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	e.Write([]byte("junk"))
	e.Reset()
	e.Write([]byte("abcd"))

	want := "88d4266fd4e6338d13b845fcf289579d209c897823b9217da3e161936f031589"
	if got := e.Compute().Hex(); got != want {
		t.Errorf("Compute() after Reset() = %q, want %q", got, want)
	}
}

func TestSum(t *testing.T) {
	d, err := Sum("sha256", strings.NewReader("abcd"))
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	parsed, err := ParseDigest("sha256", "88d4266fd4e6338d13b845fcf289579d209c897823b9217da3e161936f031589")
	if err != nil {
		t.Fatalf("ParseDigest() error = %v", err)
	}
	if !d.Equal(parsed) {
		t.Errorf("Sum() = %s, want %s", d, parsed)
	}

	if _, err := Sum("md5", strings.NewReader("abcd")); err == nil {
		t.Error("Sum(md5) expected error")
	}
}

func TestRegistry(t *testing.T) {
	if !IsSupported("blake2b") {
		t.Fatal("blake2b should be registered by default")
	}
	if IsSupported("custom") {
		t.Fatal("custom should not be registered yet")
	}

	factory := func() (hash.Hash, error) { return sha256.New(), nil }
	if err := Register("custom", factory); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	t.Cleanup(func() { _ = Unregister("custom") })

	if err := Register("custom", factory); err == nil {
		t.Error("duplicate Register() expected error")
	}
	if err := Register("", factory); err == nil {
		t.Error("Register(\"\") expected error")
	}
	if err := Register("nil", nil); err == nil {
		t.Error("Register(nil factory) expected error")
	}

	names := SupportedAlgorithms()
	want := []string{"blake2b", "custom", "sha256", "sha384", "sha512"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("SupportedAlgorithms() = %v, want %v", names, want)
	}
	if err := Unregister("missing"); err == nil {
		t.Error("Unregister(missing) expected error")
	}
}

func TestDigest_CopiesValue(t *testing.T) {
	raw := []byte{1, 2, 3}
	d := NewDigest("sha256", raw)
	raw[0] = 9
	if d.Value()[0] != 1 {
		t.Error("NewDigest() did not copy its input")
	}
	v := d.Value()
	v[1] = 9
	if !bytes.Equal(d.Value(), []byte{1, 2, 3}) {
		t.Error("Value() exposed internal state")
	}
	if d.String() != "sha256:010203" {
		t.Errorf("String() = %q", d.String())
	}
	if d.Equal(NewDigest("sha512", []byte{1, 2, 3})) {
		t.Error("digests with different algorithms compared equal")
	}
	if _, err := ParseDigest("sha256", "zz"); err == nil {
		t.Error("ParseDigest(zz) expected error")
	}
}
