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

package pkcs11

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		wantErr   bool
		wantToken string
		wantLabel string
		wantID    string
		wantSlot  int
	}{
		{
			name:      "token and object",
			uri:       "pkcs11:token=mytoken;object=mykey",
			wantToken: "mytoken",
			wantLabel: "mykey",
			wantSlot:  -1,
		},
		{
			name:      "percent encoded",
			uri:       "pkcs11:token=Software%20PKCS%2311%20softtoken;id=%01%02",
			wantToken: "Software PKCS#11 softtoken",
			wantID:    "\x01\x02",
			wantSlot:  -1,
		},
		{
			name:      "slot and type with query",
			uri:       "pkcs11:slot-id=3;object=sign;type=private?module-name=softhsm2&pin-value=1234",
			wantLabel: "sign",
			wantSlot:  3,
		},
		{name: "missing prefix", uri: "token=mytoken;object=k", wantErr: true},
		{name: "no key", uri: "pkcs11:token=mytoken", wantErr: true},
		{name: "bad slot", uri: "pkcs11:slot-id=abc;object=k", wantErr: true},
		{name: "bad type", uri: "pkcs11:object=k;type=bogus", wantErr: true},
		{name: "both pins", uri: "pkcs11:object=k?pin-value=1&pin-source=/tmp/pin", wantErr: true},
		{name: "relative module path", uri: "pkcs11:object=k?module-path=lib.so", wantErr: true},
		{name: "attribute without value", uri: "pkcs11:object", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := ParseURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := uri.TokenLabel(); got != tt.wantToken {
				t.Errorf("TokenLabel() = %q, want %q", got, tt.wantToken)
			}
			if got := uri.KeyLabel(); got != tt.wantLabel {
				t.Errorf("KeyLabel() = %q, want %q", got, tt.wantLabel)
			}
			if got := string(uri.KeyID()); got != tt.wantID {
				t.Errorf("KeyID() = %q, want %q", got, tt.wantID)
			}
			if got := uri.SlotID(); got != tt.wantSlot {
				t.Errorf("SlotID() = %d, want %d", got, tt.wantSlot)
			}
		})
	}
}

func TestURI_PIN(t *testing.T) {
	pinFile := filepath.Join(t.TempDir(), "pin")
	if err := os.WriteFile(pinFile, []byte("4321\n"), 0600); err != nil {
		t.Fatalf("Failed to write PIN file: %v", err)
	}

	tests := []struct {
		name    string
		uri     string
		env     string
		want    string
		wantErr bool
	}{
		{name: "pin-value", uri: "pkcs11:object=k?pin-value=1234", want: "1234"},
		{name: "pin-source file", uri: "pkcs11:object=k?pin-source=file:" + pinFile, want: "4321"},
		{name: "pin-source path", uri: "pkcs11:object=k?pin-source=" + pinFile, want: "4321"},
		{name: "environment", uri: "pkcs11:object=k", env: "9999", want: "9999"},
		{name: "unsupported scheme", uri: "pkcs11:object=k?pin-source=https://example.com/pin", wantErr: true},
		{name: "missing file", uri: "pkcs11:object=k?pin-source=/nonexistent/pin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PKCS11_PIN", tt.env)
			uri, err := ParseURI(tt.uri)
			if err != nil {
				t.Fatalf("ParseURI() error = %v", err)
			}
			got, err := uri.PIN()
			if (err != nil) != tt.wantErr {
				t.Fatalf("PIN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PIN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURI_Module(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "libsofthsm2.so")
	if err := os.WriteFile(lib, []byte("module"), 0644); err != nil {
		t.Fatalf("Failed to write module: %v", err)
	}

	tests := []struct {
		name    string
		uri     string
		dirs    []string
		want    string
		wantErr bool
	}{
		{name: "module-path file", uri: "pkcs11:object=k?module-path=" + lib, want: lib},
		{name: "module-path directory", uri: "pkcs11:object=k?module-path=" + dir + "&module-name=SoftHSM", want: lib},
		{name: "module-name in dirs", uri: "pkcs11:object=k?module-name=softhsm2", dirs: []string{"/nonexistent", dir}, want: lib},
		{name: "module-name not found", uri: "pkcs11:object=k?module-name=opensc", dirs: []string{dir}, wantErr: true},
		{name: "nothing specified", uri: "pkcs11:object=k", dirs: []string{dir}, wantErr: true},
		{name: "missing module-path", uri: "pkcs11:object=k?module-path=/nonexistent/lib.so", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := ParseURI(tt.uri)
			if err != nil {
				t.Fatalf("ParseURI() error = %v", err)
			}
			got, err := uri.Module(tt.dirs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Module() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Module() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignerConfig_Validate(t *testing.T) {
	chain := filepath.Join(t.TempDir(), "chain.pem")
	if err := os.WriteFile(chain, []byte("placeholder"), 0644); err != nil {
		t.Fatalf("Failed to write chain: %v", err)
	}

	tests := []struct {
		name    string
		cfg     SignerConfig
		wantErr bool
	}{
		{name: "valid", cfg: SignerConfig{URI: "pkcs11:token=t;object=k", CertificateChainPaths: []string{chain}}},
		{name: "no URI", cfg: SignerConfig{CertificateChainPaths: []string{chain}}, wantErr: true},
		{name: "bad URI", cfg: SignerConfig{URI: "token=t", CertificateChainPaths: []string{chain}}, wantErr: true},
		{name: "no chain", cfg: SignerConfig{URI: "pkcs11:token=t;object=k"}, wantErr: true},
		{name: "missing chain", cfg: SignerConfig{URI: "pkcs11:token=t;object=k", CertificateChainPaths: []string{"/nonexistent.pem"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if _, nerr := NewSigner(tt.cfg); nerr == nil {
				t.Error("NewSigner() accepted an invalid configuration")
			}
		})
	}
}
