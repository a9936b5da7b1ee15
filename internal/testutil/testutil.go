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

// Package testutil generates keys, certificates and fake signers for tests.
package testutil

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
)

// ECDSAKey generates a key on curve.
func ECDSAKey(t testing.TB, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate ECDSA key: %v", err)
	}
	return key
}

// SelfSignedCert returns a self-signed certificate for key.
func SelfSignedCert(t testing.TB, key crypto.Signer) *x509.Certificate {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject: pkix.Name{
			CommonName:   "c2pa-go test signer",
			Organization: []string{"Test Org"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageEmailProtection},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}
	return cert
}

// ChainPEM encodes certs as a PEM chain.
func ChainPEM(certs ...*x509.Certificate) []byte {
	var buf bytes.Buffer
	for _, c := range certs {
		_ = pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: c.Raw})
	}
	return buf.Bytes()
}

// WriteKeyFile writes key as a PKCS8 PEM file under dir and returns its path.
func WriteKeyFile(t testing.TB, dir string, key crypto.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal private key: %v", err)
	}
	path := filepath.Join(dir, "signer.key")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}
	return path
}

// WriteCertFile writes certs as a PEM chain under dir and returns its path.
func WriteCertFile(t testing.TB, dir string, certs ...*x509.Certificate) string {
	t.Helper()
	path := filepath.Join(dir, "chain.pem")
	if err := os.WriteFile(path, ChainPEM(certs...), 0644); err != nil {
		t.Fatalf("failed to write certificate file: %v", err)
	}
	return path
}

// FixedSigner returns the same signature for every input and counts calls.
type FixedSigner struct {
	Signature []byte
	Chain     []byte
	Algorithm ffi.SigningAlg
	TSA       string
	Err       error

	calls atomic.Int64
}

// NewFixedSigner returns an es256 FixedSigner with a 64-byte signature and a
// fresh self-signed P-256 certificate.
func NewFixedSigner(t testing.TB) *FixedSigner {
	t.Helper()
	key := ECDSAKey(t, elliptic.P256())
	return &FixedSigner{
		Signature: bytes.Repeat([]byte{0x5a}, 64),
		Chain:     ChainPEM(SelfSignedCert(t, key)),
		Algorithm: ffi.Es256,
	}
}

func (s *FixedSigner) Sign([]byte) ([]byte, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Signature, nil
}

func (s *FixedSigner) Alg() ffi.SigningAlg  { return s.Algorithm }
func (s *FixedSigner) TimeStampURL() string { return s.TSA }
func (s *FixedSigner) Certificates() []byte { return s.Chain }

// Calls reports how many times Sign ran.
func (s *FixedSigner) Calls() int64 {
	return s.calls.Load()
}
