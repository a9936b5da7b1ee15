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

// Package config loads the key and certificate files a host signer is
// configured with.
package config

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// ErrNoCertificates is returned when a chain file holds no certificate.
var ErrNoCertificates = errors.New("no certificates found")

// KeyConfig names a PEM private key file.
type KeyConfig struct {
	Path string
	// Password decrypts an encrypted key. It must be empty for plain keys.
	Password string
}

// LoadPrivateKey reads the key at Path. PKCS8, SEC1 and PKCS1 keys are
// accepted, and sigstore or cosign encrypted keys when Password is set.
func (c *KeyConfig) LoadPrivateKey() (crypto.Signer, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("key path is required")
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", c.Path)
	}

	var pf cryptoutils.PassFunc
	if strings.HasPrefix(block.Type, "ENCRYPTED") {
		password := []byte(c.Password)
		pf = func(bool) ([]byte, error) { return password, nil }
	} else if c.Password != "" {
		return nil, fmt.Errorf("password provided but key is not encrypted")
	}

	key, err := cryptoutils.UnmarshalPEMToPrivateKey(data, pf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("private key of type %T cannot sign", key)
	}
	return signer, nil
}

// ValidatePublicKeysMatch fails unless both keys are the same key.
func ValidatePublicKeysMatch(expected, actual crypto.PublicKey) error {
	if err := cryptoutils.EqualKeys(expected, actual); err != nil {
		return fmt.Errorf("public keys do not match: %w", err)
	}
	return nil
}

// LoadCertificateChain reads every certificate in paths, in order. The
// first one is the signing certificate.
func LoadCertificateChain(paths []string) ([]*x509.Certificate, error) {
	var chain []*x509.Certificate
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read certificate file %s: %w", path, err)
		}
		certs, err := ParseCertificates(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificates from %s: %w", path, err)
		}
		chain = append(chain, certs...)
	}
	if len(chain) == 0 {
		return nil, ErrNoCertificates
	}
	return chain, nil
}

// ParseCertificates parses a PEM chain or concatenated DER certificates.
func ParseCertificates(data []byte) ([]*x509.Certificate, error) {
	var (
		certs []*x509.Certificate
		err   error
	)
	if bytes.Contains(data, []byte("-----BEGIN")) {
		certs, err = cryptoutils.UnmarshalCertificatesFromPEM(data)
	} else {
		certs, err = x509.ParseCertificates(data)
	}
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, ErrNoCertificates
	}
	return certs, nil
}

// MarshalCertificateChain encodes certs as PEM, in order.
func MarshalCertificateChain(certs []*x509.Certificate) ([]byte, error) {
	return cryptoutils.MarshalCertificatesToPEM(certs)
}
