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

package key

import (
	"crypto/elliptic"
	"path/filepath"
	"testing"

	"github.com/duggaraju/c2pa-go/internal/testutil"
)

func TestKeySignerConfig_Validate(t *testing.T) {
	valid := func(t *testing.T) KeySignerConfig {
		return writeSignerFiles(t, testutil.ECDSAKey(t, elliptic.P256()))
	}

	tests := []struct {
		name    string
		mutate  func(cfg *KeySignerConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(*KeySignerConfig) {}},
		{name: "valid with algorithm", mutate: func(cfg *KeySignerConfig) { cfg.Algorithm = "ES256" }},
		{name: "missing key file", mutate: func(cfg *KeySignerConfig) { cfg.Path = filepath.Join(t.TempDir(), "missing.pem") }, wantErr: true},
		{name: "no chain", mutate: func(cfg *KeySignerConfig) { cfg.CertificateChainPaths = nil }, wantErr: true},
		{name: "missing chain file", mutate: func(cfg *KeySignerConfig) { cfg.CertificateChainPaths = []string{"/nonexistent/chain.pem"} }, wantErr: true},
		{name: "bad algorithm", mutate: func(cfg *KeySignerConfig) { cfg.Algorithm = "md5" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
