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
	"encoding/base64"
	"fmt"

	"github.com/duggaraju/c2pa-go/pkg/utils"
	dsselib "github.com/secure-systems-lab/go-securesystemslib/dsse"
	protodsse "github.com/sigstore/protobuf-specs/gen/pb-go/dsse"
	"github.com/sigstore/sigstore-go/pkg/bundle"
)

// PAE returns the DSSE pre-authentication encoding of a statement payload.
// This is the exact byte string handed to the signer.
func PAE(payload []byte) []byte {
	return dsselib.PAE(utils.InTotoJSONPayloadType, payload)
}

// Envelope wraps a single-signature DSSE envelope.
//
// go-securesystemslib/dsse is the form sigstore-go hands back from
// bundle.Envelope().RawEnvelope(); ToProtobuf converts to the Sigstore
// protobuf form stored in bundles.
type Envelope struct {
	raw *dsselib.Envelope
}

// NewEnvelope wraps payload and its signature. Both are base64-encoded as
// DSSE requires. The key id is left empty.
func NewEnvelope(payload, signature []byte) *Envelope {
	return &Envelope{raw: &dsselib.Envelope{
		PayloadType: utils.InTotoJSONPayloadType,
		Payload:     base64.StdEncoding.EncodeToString(payload),
		Signatures: []dsselib.Signature{
			{Sig: base64.StdEncoding.EncodeToString(signature)},
		},
	}}
}

// ExtractFromBundle returns the DSSE envelope carried by bndl.
func ExtractFromBundle(bndl *bundle.Bundle) (*Envelope, error) {
	envelope, err := bndl.Envelope()
	if err != nil {
		return nil, fmt.Errorf("failed to extract envelope from bundle: %w", err)
	}
	raw := envelope.RawEnvelope()
	if raw == nil {
		return nil, fmt.Errorf("bundle does not contain a DSSE envelope")
	}
	return &Envelope{raw: raw}, nil
}

// Validate checks the payload type and that exactly one signature is present.
func (e *Envelope) Validate() error {
	if e.raw.PayloadType != utils.InTotoJSONPayloadType {
		return fmt.Errorf("expected DSSE payload %s, but got %s",
			utils.InTotoJSONPayloadType, e.raw.PayloadType)
	}
	switch len(e.raw.Signatures) {
	case 0:
		return fmt.Errorf("no signatures found in envelope")
	case 1:
		return nil
	default:
		return fmt.Errorf("multiple signatures not supported")
	}
}

// DecodePayload returns the raw statement bytes.
func (e *Envelope) DecodePayload() ([]byte, error) {
	if e.raw.Payload == "" {
		return nil, fmt.Errorf("envelope payload is empty")
	}
	payload, err := base64.StdEncoding.DecodeString(e.raw.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return payload, nil
}

// DecodeSignature returns the raw bytes of the first signature.
func (e *Envelope) DecodeSignature() ([]byte, error) {
	if len(e.raw.Signatures) == 0 {
		return nil, fmt.Errorf("no signatures found in envelope")
	}
	sig := e.raw.Signatures[0].Sig
	if sig == "" {
		return nil, fmt.Errorf("signature is empty")
	}
	decoded, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return decoded, nil
}

// RawEnvelope returns the underlying go-securesystemslib envelope.
func (e *Envelope) RawEnvelope() *dsselib.Envelope {
	return e.raw
}

// ToProtobuf converts the envelope to the Sigstore protobuf form, which
// stores payload and signatures as raw bytes.
func (e *Envelope) ToProtobuf() (*protodsse.Envelope, error) {
	payload, err := e.DecodePayload()
	if err != nil {
		return nil, err
	}

	signatures := make([]*protodsse.Signature, len(e.raw.Signatures))
	for i, sig := range e.raw.Signatures {
		raw, err := base64.StdEncoding.DecodeString(sig.Sig)
		if err != nil {
			return nil, fmt.Errorf("failed to decode signature %d: %w", i, err)
		}
		signatures[i] = &protodsse.Signature{Sig: raw, Keyid: sig.KeyID}
	}

	return &protodsse.Envelope{
		Payload:     payload,
		PayloadType: e.raw.PayloadType,
		Signatures:  signatures,
	}, nil
}
