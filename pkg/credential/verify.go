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

package credential

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	sigstoresig "github.com/sigstore/sigstore/pkg/signature"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/signing"
)

// VerifySignature checks a signature produced under alg. ECDSA signatures
// are the fixed-width r||s form signers return, RSA signatures are PSS with
// the salt length equal to the hash length.
func VerifySignature(publicKey crypto.PublicKey, alg ffi.SigningAlg, message, signature []byte) error {
	verifier, err := newVerifier(publicKey, alg)
	if err != nil {
		return err
	}
	if _, ok := publicKey.(*ecdsa.PublicKey); ok {
		if signature, err = signing.RawToECDSA(signature); err != nil {
			return err
		}
	}
	if err := verifier.VerifySignature(bytes.NewReader(signature), bytes.NewReader(message)); err != nil {
		return fmt.Errorf("%s signature verification failed: %w", alg, err)
	}
	return nil
}

// newVerifier loads the sigstore verifier for publicKey, refusing an alg
// that does not belong to the key type.
func newVerifier(publicKey crypto.PublicKey, alg ffi.SigningAlg) (sigstoresig.Verifier, error) {
	switch key := publicKey.(type) {
	case *ecdsa.PublicKey:
		switch alg {
		case ffi.Es256, ffi.Es384, ffi.Es512:
		default:
			return nil, fmt.Errorf("algorithm %s does not match an ECDSA key", alg)
		}
		return sigstoresig.LoadECDSAVerifier(key, alg.Hash())
	case *rsa.PublicKey:
		switch alg {
		case ffi.Ps256, ffi.Ps384, ffi.Ps512:
		default:
			return nil, fmt.Errorf("algorithm %s does not match an RSA key", alg)
		}
		opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash}
		return sigstoresig.LoadRSAPSSVerifier(key, alg.Hash(), opts)
	case ed25519.PublicKey:
		if alg != ffi.Ed25519 {
			return nil, fmt.Errorf("algorithm %s does not match an Ed25519 key", alg)
		}
		return sigstoresig.LoadED25519Verifier(key)
	default:
		return nil, fmt.Errorf("unsupported public key type for verification: %T", publicKey)
	}
}
