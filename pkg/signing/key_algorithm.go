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

// Package signing connects host signers to the signing engine and provides
// signing utilities and key algorithm detection functions.
package signing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// AlgorithmForKey determines the default signing algorithm for a public key.
// This function supports ECDSA (P-256, P-384, P-521), RSA and Ed25519 keys.
// RSA keys map to RSA-PSS with a hash sized to the modulus.
func AlgorithmForKey(pubKey crypto.PublicKey) (SigningAlg, error) {
	switch k := pubKey.(type) {
	case *ecdsa.PublicKey:
		switch k.Curve {
		case elliptic.P256():
			return Es256, nil
		case elliptic.P384():
			return Es384, nil
		case elliptic.P521():
			return Es512, nil
		default:
			return 0, fmt.Errorf("unsupported ECDSA curve: %s", k.Curve.Params().Name)
		}
	case *rsa.PublicKey:
		bitSize := k.N.BitLen()
		switch {
		case bitSize < 2048:
			return 0, fmt.Errorf("RSA key too small: %d bits", bitSize)
		case bitSize <= 2048:
			return Ps256, nil
		case bitSize <= 3072:
			return Ps384, nil
		case bitSize <= 4096:
			return Ps512, nil
		default:
			return 0, fmt.Errorf("RSA key too large: %d bits", bitSize)
		}
	case ed25519.PublicKey:
		return Ed25519, nil
	default:
		return 0, fmt.Errorf("unsupported key type: %T", pubKey)
	}
}

// CheckKeyAlgorithm returns an error if alg cannot be produced with pubKey.
func CheckKeyAlgorithm(pubKey crypto.PublicKey, alg SigningAlg) error {
	switch k := pubKey.(type) {
	case *ecdsa.PublicKey:
		want, err := AlgorithmForKey(k)
		if err != nil {
			return err
		}
		if alg != want {
			return fmt.Errorf("algorithm %s does not match %s key", alg, k.Curve.Params().Name)
		}
	case *rsa.PublicKey:
		if alg != Ps256 && alg != Ps384 && alg != Ps512 {
			return fmt.Errorf("algorithm %s cannot be used with an RSA key", alg)
		}
		if k.Size() > alg.ReserveSize() {
			return fmt.Errorf("RSA key of %d bits is too large", k.N.BitLen())
		}
	case ed25519.PublicKey:
		if alg != Ed25519 {
			return fmt.Errorf("algorithm %s cannot be used with an Ed25519 key", alg)
		}
	default:
		return fmt.Errorf("unsupported key type: %T", pubKey)
	}
	return nil
}

// HashFunc returns the digest algorithm alg signs over. Ed25519 signs the
// message itself and yields crypto.Hash(0).
func HashFunc(alg SigningAlg) crypto.Hash {
	return alg.Hash()
}

// KeyTypeToString names the family of a public key.
func KeyTypeToString(pubKey crypto.PublicKey) string {
	switch pubKey.(type) {
	case *ecdsa.PublicKey:
		return "ECDSA"
	case *rsa.PublicKey:
		return "RSA"
	case ed25519.PublicKey:
		return "ED25519"
	default:
		return ""
	}
}

// ComputeKeyHint computes a key hint from a public key.
// The hint is the SHA256 hash of the PEM-encoded public key, hex-encoded.
func ComputeKeyHint(pubKey crypto.PublicKey) (string, error) {
	pubKeyPEM, err := cryptoutils.MarshalPublicKeyToPEM(pubKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key to PEM: %w", err)
	}

	hashedBytes := sha256.Sum256(pubKeyPEM)
	return hex.EncodeToString(hashedBytes[:]), nil
}
