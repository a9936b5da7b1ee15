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

package signing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// SignFunc produces a signature over data.
type SignFunc func(data []byte) ([]byte, error)

// CallbackSigner is a Signer backed by a function, for hosts that keep their
// key material outside of Go (a remote KMS, a separate process).
type CallbackSigner struct {
	fn     SignFunc
	alg    SigningAlg
	certs  []byte
	tsaURL string
}

// NewCallbackSigner returns a Signer that calls fn for every signature.
func NewCallbackSigner(fn SignFunc, alg SigningAlg, certs []byte, tsaURL string) *CallbackSigner {
	return &CallbackSigner{fn: fn, alg: alg, certs: certs, tsaURL: tsaURL}
}

func (s *CallbackSigner) Sign(data []byte) ([]byte, error) {
	if s.fn == nil {
		return nil, fmt.Errorf("callback signer has no sign function")
	}
	return s.fn(data)
}

func (s *CallbackSigner) Alg() SigningAlg      { return s.alg }
func (s *CallbackSigner) TimeStampURL() string { return s.tsaURL }
func (s *CallbackSigner) Certificates() []byte { return s.certs }

// CryptoSigner is a Signer over any crypto.Signer: an in-memory key, a
// PKCS#11 object or a KMS client.
//
// ECDSA signatures are returned as fixed-width r||s, RSA signatures use PSS
// with a salt as long as the digest, Ed25519 signs the message directly.
type CryptoSigner struct {
	key    crypto.Signer
	alg    SigningAlg
	certs  []byte
	tsaURL string
}

// NewCryptoSigner checks that alg can be produced with key and returns the
// Signer.
func NewCryptoSigner(key crypto.Signer, alg SigningAlg, certs []byte, tsaURL string) (*CryptoSigner, error) {
	if key == nil {
		return nil, fmt.Errorf("crypto signer requires a key")
	}
	if err := CheckKeyAlgorithm(key.Public(), alg); err != nil {
		return nil, err
	}
	return &CryptoSigner{key: key, alg: alg, certs: certs, tsaURL: tsaURL}, nil
}

func (s *CryptoSigner) Sign(data []byte) ([]byte, error) {
	hash := HashFunc(s.alg)
	digest := ComputeDigest(data, hash)

	var opts crypto.SignerOpts = hash
	if _, ok := s.key.Public().(*rsa.PublicKey); ok {
		opts = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: hash}
	}

	sig, err := s.key.Sign(rand.Reader, digest, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	if pub, ok := s.key.Public().(*ecdsa.PublicKey); ok {
		return ECDSAToRaw(sig, pub.Curve)
	}
	return sig, nil
}

func (s *CryptoSigner) Alg() SigningAlg      { return s.alg }
func (s *CryptoSigner) TimeStampURL() string { return s.tsaURL }
func (s *CryptoSigner) Certificates() []byte { return s.certs }

// Public returns the public key of the underlying signer.
func (s *CryptoSigner) Public() crypto.PublicKey {
	return s.key.Public()
}
