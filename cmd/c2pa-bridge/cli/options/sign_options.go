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
	"github.com/duggaraju/c2pa-go/pkg/config"
	"github.com/duggaraju/c2pa-go/pkg/signing/key"
	"github.com/duggaraju/c2pa-go/pkg/signing/pkcs11"
	"github.com/spf13/cobra"
)

// KeySignOptions sign with a private key file.
type KeySignOptions struct {
	AssetFlags
	CertificateFlags
	PrivateKeyPath string // --private-key
	Password       string // --password
}

// AddFlags registers the key signing flags.
func (o *KeySignOptions) AddFlags(cmd *cobra.Command) {
	AddAllFlags(cmd, &o.AssetFlags, &o.CertificateFlags)
	cmd.Flags().StringVarP(&o.PrivateKeyPath, "private-key", "k", "", "PEM private key file [required]")
	_ = cmd.MarkFlagRequired("private-key")
	cmd.Flags().StringVar(&o.Password, "password", "", "password of an encrypted private key")
}

// SignerConfig converts the flags to a key signer configuration.
func (o *KeySignOptions) SignerConfig() key.KeySignerConfig {
	return key.KeySignerConfig{
		KeyConfig:             config.KeyConfig{Path: o.PrivateKeyPath, Password: o.Password},
		CertificateChainPaths: o.CertificateChain,
		TimestampURL:          o.TimestampURL,
		Algorithm:             o.Algorithm,
	}
}

// PKCS11SignOptions sign with a key on a PKCS#11 token.
type PKCS11SignOptions struct {
	AssetFlags
	CertificateFlags
	URI         string   // --pkcs11-uri
	ModulePaths []string // --module-paths
}

// AddFlags registers the PKCS#11 signing flags.
func (o *PKCS11SignOptions) AddFlags(cmd *cobra.Command) {
	AddAllFlags(cmd, &o.AssetFlags, &o.CertificateFlags)
	cmd.Flags().StringVar(&o.URI, "pkcs11-uri", "", "RFC 7512 URI of the signing key [required]")
	_ = cmd.MarkFlagRequired("pkcs11-uri")
	cmd.Flags().StringSliceVar(&o.ModulePaths, "module-paths", nil, "directories searched for the PKCS#11 module")
}

// SignerConfig converts the flags to a PKCS#11 signer configuration.
func (o *PKCS11SignOptions) SignerConfig() pkcs11.SignerConfig {
	return pkcs11.SignerConfig{
		URI:                   o.URI,
		ModulePaths:           o.ModulePaths,
		CertificateChainPaths: o.CertificateChain,
		TimestampURL:          o.TimestampURL,
		Algorithm:             o.Algorithm,
	}
}

// ReadOptions control the read command.
type ReadOptions struct {
	RequireValid bool // --require-valid
}

// AddFlags registers the read flags.
func (o *ReadOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.RequireValid, "require-valid", false, "exit with status 2 when validation fails")
}
