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

// Package pkcs11 signs content credentials with a key held on a PKCS#11
// token. The key never leaves the token: the engine's signing requests reach
// it through a crypto11 session.
package pkcs11

import (
	"crypto"
	"fmt"

	"github.com/ThalesIgnite/crypto11"
	"github.com/duggaraju/c2pa-go/pkg/config"
	"github.com/duggaraju/c2pa-go/pkg/signing"
	"github.com/duggaraju/c2pa-go/pkg/utils"
)

// SignerConfig configures a PKCS#11 Signer.
type SignerConfig struct {
	URI                   string   // URI is the PKCS#11 URI identifying the token and key. [required]
	ModulePaths           []string // ModulePaths are directories searched for the module library.
	CertificateChainPaths []string // CertificateChainPaths are PEM files, signing certificate first. [required]
	TimestampURL          string   // TimestampURL is the time-stamp authority, or "".
	Algorithm             string   // Algorithm overrides the one derived from the key.
}

// Validate checks the configuration without touching the token.
func (c *SignerConfig) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("PKCS#11 URI is required")
	}
	if _, err := ParseURI(c.URI); err != nil {
		return err
	}
	if len(c.CertificateChainPaths) == 0 {
		return fmt.Errorf("at least one certificate chain file is required")
	}
	return utils.ValidateMultiple("certificate chain", c.CertificateChainPaths, utils.PathTypeFile)
}

// Ensure Signer implements signing.Signer at compile time.
var _ signing.Signer = (*Signer)(nil)

// Signer signs with a PKCS#11 key. Close it to end the token session.
type Signer struct {
	*signing.CryptoSigner
	ctx *crypto11.Context
}

// NewSigner opens the token named by cfg.URI, finds the key and checks it
// against the signing certificate.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	uri, err := ParseURI(cfg.URI)
	if err != nil {
		return nil, err
	}

	certs, err := config.LoadCertificateChain(cfg.CertificateChainPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate chain: %w", err)
	}
	chain, err := config.MarshalCertificateChain(certs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode certificate chain: %w", err)
	}

	ctx, err := openContext(uri, cfg.ModulePaths)
	if err != nil {
		return nil, err
	}

	key, err := findKey(ctx, uri)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	if err := config.ValidatePublicKeysMatch(key.Public(), certs[0].PublicKey); err != nil {
		ctx.Close()
		return nil, fmt.Errorf("signing certificate does not match token key: %w", err)
	}

	alg, err := resolveAlgorithm(key.Public(), cfg.Algorithm)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	cs, err := signing.NewCryptoSigner(key, alg, chain, cfg.TimestampURL)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	return &Signer{CryptoSigner: cs, ctx: ctx}, nil
}

func openContext(uri *URI, modulePaths []string) (*crypto11.Context, error) {
	modulePath, err := uri.Module(modulePaths)
	if err != nil {
		return nil, fmt.Errorf("failed to find PKCS#11 module: %w", err)
	}
	pin, err := uri.PIN()
	if err != nil {
		return nil, err
	}

	cfg := &crypto11.Config{Path: modulePath, Pin: pin}
	switch {
	case uri.TokenLabel() != "":
		cfg.TokenLabel = uri.TokenLabel()
	case uri.SlotID() >= 0:
		slot := uri.SlotID()
		cfg.SlotNumber = &slot
	default:
		return nil, fmt.Errorf("PKCS#11 URI must name a token or slot-id")
	}

	ctx, err := crypto11.Configure(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure PKCS#11 context: %w", err)
	}
	return ctx, nil
}

// findKey looks the key up by id, then by label.
func findKey(ctx *crypto11.Context, uri *URI) (crypto11.Signer, error) {
	if id := uri.KeyID(); id != nil {
		key, err := ctx.FindKeyPair(id, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to find key pair by id: %w", err)
		}
		if key != nil {
			return key, nil
		}
	}
	if label := uri.KeyLabel(); label != "" {
		key, err := ctx.FindKeyPair(nil, []byte(label))
		if err != nil {
			return nil, fmt.Errorf("failed to find key pair %q: %w", label, err)
		}
		if key != nil {
			return key, nil
		}
	}
	return nil, fmt.Errorf("no key pair matching the PKCS#11 URI was found")
}

func resolveAlgorithm(pub crypto.PublicKey, name string) (signing.SigningAlg, error) {
	if name == "" {
		return signing.AlgorithmForKey(pub)
	}
	return signing.ParseAlgorithm(name)
}

// Close ends the token session.
func (s *Signer) Close() error {
	if s.ctx == nil {
		return nil
	}
	err := s.ctx.Close()
	s.ctx = nil
	return err
}
