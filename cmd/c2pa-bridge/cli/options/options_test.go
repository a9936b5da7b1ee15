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

package options

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/duggaraju/c2pa-go/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFlags_Validate(t *testing.T) {
	valid := func() AssetFlags {
		return AssetFlags{OutputDir: "out", HashAlgorithm: "sha256", Parallel: 2}
	}

	tests := []struct {
		name    string
		mutate  func(o *AssetFlags)
		inputs  []string
		wantErr bool
	}{
		{name: "output dir", mutate: func(*AssetFlags) {}, inputs: []string{"a.jpg", "b.png"}},
		{name: "single output", mutate: func(o *AssetFlags) { o.OutputDir = ""; o.Output = "x.jpg" }, inputs: []string{"a.jpg"}},
		{name: "no inputs", mutate: func(*AssetFlags) {}, wantErr: true},
		{name: "no destination", mutate: func(o *AssetFlags) { o.OutputDir = "" }, inputs: []string{"a.jpg"}, wantErr: true},
		{name: "output with many inputs", mutate: func(o *AssetFlags) { o.OutputDir = ""; o.Output = "x.jpg" }, inputs: []string{"a.jpg", "b.jpg"}, wantErr: true},
		{name: "zero parallel", mutate: func(o *AssetFlags) { o.Parallel = 0 }, inputs: []string{"a.jpg"}, wantErr: true},
		{name: "bad hash", mutate: func(o *AssetFlags) { o.HashAlgorithm = "md5" }, inputs: []string{"a.jpg"}, wantErr: true},
		{name: "no-embed without sidecar", mutate: func(o *AssetFlags) { o.NoEmbed = true }, inputs: []string{"a.jpg"}, wantErr: true},
		{name: "no-embed with sidecar", mutate: func(o *AssetFlags) { o.NoEmbed = true; o.Sidecar = true }, inputs: []string{"a.jpg"}},
		{name: "same base name in output dir", mutate: func(*AssetFlags) {}, inputs: []string{"x/a.png", "y/a.png"}, wantErr: true},
		{name: "same input twice", mutate: func(*AssetFlags) {}, inputs: []string{"a.png", "./a.png"}, wantErr: true},
		{name: "distinct base names", mutate: func(*AssetFlags) {}, inputs: []string{"x/a.png", "x/b.png", "y/c.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(&o)
			err := o.Validate(tt.inputs)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssetFlags_OutputPathAndManifest(t *testing.T) {
	o := AssetFlags{OutputDir: "signed"}
	assert.Equal(t, filepath.Join("signed", "photo.jpg"), o.OutputPath("/in/photo.jpg"))
	o = AssetFlags{Output: "single.jpg"}
	assert.Equal(t, "single.jpg", o.OutputPath("/in/photo.jpg"))

	m, err := o.Manifest()
	require.NoError(t, err)
	assert.Equal(t, DefaultManifest, m)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"x"}`), 0644))
	o.ManifestPath = path
	m, err = o.Manifest()
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, m)

	o.ManifestPath = filepath.Join(t.TempDir(), "missing.json")
	_, err = o.Manifest()
	assert.Error(t, err)
}

func TestApplyConfigPrecedence(t *testing.T) {
	o := &KeySignOptions{}
	root := &RootOptions{}
	cmd := &cobra.Command{Use: "key"}
	root.AddFlags(cmd)
	o.AddFlags(cmd)

	cfg := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
parallel: 3
output-dir: /tmp/signed
hash-algorithm: sha512
cert-chain:
  - leaf.pem
  - ca.pem
timeout: 30s
log-level: debug
`), 0644))
	t.Setenv("C2PA_BRIDGE_HASH_ALGORITHM", "sha384")

	require.NoError(t, cmd.ParseFlags([]string{"--parallel", "5", "--config", cfg}))
	v, err := NewViper(root.ConfigFile)
	require.NoError(t, err)
	require.NoError(t, ApplyConfig(v, cmd.Flags()))

	assert.Equal(t, 5, o.Parallel, "command line wins")
	assert.Equal(t, "sha384", o.HashAlgorithm, "environment beats the config file")
	assert.Equal(t, "/tmp/signed", o.OutputDir)
	assert.Equal(t, []string{"leaf.pem", "ca.pem"}, o.CertificateChain)
	assert.Equal(t, 30*time.Second, root.Timeout)
	assert.Equal(t, logging.LevelDebug, root.NewLogger().GetLevel())
}

func TestNewViperErrors(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("parallel: [unclosed"), 0644))
	_, err = NewViper(bad)
	assert.Error(t, err)
}

func TestApplyConfigInvalidValue(t *testing.T) {
	o := &AssetFlags{}
	cmd := &cobra.Command{Use: "sign"}
	o.AddFlags(cmd)
	t.Setenv("C2PA_BRIDGE_PARALLEL", "many")

	v, err := NewViper("")
	require.NoError(t, err)
	assert.ErrorContains(t, ApplyConfig(v, cmd.Flags()), "parallel")
}

func TestSignerConfigs(t *testing.T) {
	k := KeySignOptions{PrivateKeyPath: "k.pem", Password: "pw"}
	k.CertificateChain = []string{"c.pem"}
	k.TimestampURL = "http://tsa.example"
	cfg := k.SignerConfig()
	assert.Equal(t, "k.pem", cfg.Path)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, []string{"c.pem"}, cfg.CertificateChainPaths)
	assert.Equal(t, "http://tsa.example", cfg.TimestampURL)

	p := PKCS11SignOptions{URI: "pkcs11:object=k", ModulePaths: []string{"/lib"}}
	p.Algorithm = "es384"
	pcfg := p.SignerConfig()
	assert.Equal(t, "pkcs11:object=k", pcfg.URI)
	assert.Equal(t, []string{"/lib"}, pcfg.ModulePaths)
	assert.Equal(t, "es384", pcfg.Algorithm)
}
