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
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	"github.com/duggaraju/c2pa-go/pkg/config"
	"github.com/duggaraju/c2pa-go/pkg/signing"
	sigstoresig "github.com/sigstore/sigstore/pkg/signature"
)

// Ensure LocalKeySigner implements signing.Signer at compile time.
var _ signing.Signer = (*LocalKeySigner)(nil)

// LocalKeySigner signs content credentials using a private key file and the
// certificate chain issued for it.
type LocalKeySigner struct {
	config    KeySignerConfig
	signer    sigstoresig.Signer
	publicKey crypto.PublicKey
	alg       signing.SigningAlg
	chain     []byte
	keyHint   string
}

// NewLocalKeySigner creates a new private key signer with the given configuration.
//
// Loads the private key and certificate chain, checks that the signing
// certificate belongs to the key and that the algorithm fits the key.
func NewLocalKeySigner(cfg KeySignerConfig) (*LocalKeySigner, error) {
	privateKey, err := cfg.LoadPrivateKey()
	if err != nil {
		return nil, err
	}
	publicKey := privateKey.Public()

	alg, err := resolveAlgorithm(publicKey, cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	certs, err := config.LoadCertificateChain(cfg.CertificateChainPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate chain: %w", err)
	}
	if err := config.ValidatePublicKeysMatch(publicKey, certs[0].PublicKey); err != nil {
		return nil, fmt.Errorf("signing certificate does not match private key: %w", err)
	}
	chain, err := config.MarshalCertificateChain(certs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode certificate chain: %w", err)
	}

	signer, err := loadSigner(privateKey, alg)
	if err != nil {
		return nil, err
	}

	keyHint, err := signing.ComputeKeyHint(publicKey)
	if err != nil {
		return nil, err
	}

	return &LocalKeySigner{
		config:    cfg,
		signer:    signer,
		publicKey: publicKey,
		alg:       alg,
		chain:     chain,
		keyHint:   keyHint,
	}, nil
}

func resolveAlgorithm(publicKey crypto.PublicKey, name string) (signing.SigningAlg, error) {
	if name == "" {
		return signing.AlgorithmForKey(publicKey)
	}
	alg, err := signing.ParseAlgorithm(name)
	if err != nil {
		return 0, err
	}
	if err := signing.CheckKeyAlgorithm(publicKey, alg); err != nil {
		return 0, err
	}
	return alg, nil
}

func loadSigner(privateKey crypto.Signer, alg signing.SigningAlg) (sigstoresig.Signer, error) {
	hashFunc := signing.HashFunc(alg)
	switch k := privateKey.(type) {
	case *ecdsa.PrivateKey:
		return sigstoresig.LoadECDSASigner(k, hashFunc)
	case *rsa.PrivateKey:
		return sigstoresig.LoadRSAPSSSigner(k, hashFunc, &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
	case ed25519.PrivateKey:
		return sigstoresig.LoadED25519Signer(k)
	default:
		return nil, fmt.Errorf("unsupported private key type: %T", privateKey)
	}
}

// Sign signs data with the private key. ECDSA signatures are returned in
// fixed-width r||s form.
func (s *LocalKeySigner) Sign(data []byte) ([]byte, error) {
	sig, err := s.signer.SignMessage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	if pub, ok := s.publicKey.(*ecdsa.PublicKey); ok {
		return signing.ECDSAToRaw(sig, pub.Curve)
	}
	return sig, nil
}

func (s *LocalKeySigner) Alg() signing.SigningAlg {
	return s.alg
}

func (s *LocalKeySigner) TimeStampURL() string {
	return s.config.TimestampURL
}

// Certificates returns the PEM certificate chain, signing certificate first.
func (s *LocalKeySigner) Certificates() []byte {
	return s.chain
}

// PublicKey returns the public half of the signing key.
func (s *LocalKeySigner) PublicKey() crypto.PublicKey {
	return s.publicKey
}

// KeyHint identifies the signing key: the hex SHA-256 of its PEM public key.
func (s *LocalKeySigner) KeyHint() string {
	return s.keyHint
}
