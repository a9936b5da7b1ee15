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
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/duggaraju/c2pa-go/pkg/utils"
	protobundle "github.com/sigstore/protobuf-specs/gen/pb-go/bundle/v1"
	protocommon "github.com/sigstore/protobuf-specs/gen/pb-go/common/v1"
	"github.com/sigstore/sigstore-go/pkg/bundle"
	"google.golang.org/protobuf/encoding/protojson"
)

// ErrNoCertificate is returned when a credential carries no signing certificate.
var ErrNoCertificate = errors.New("credential has no signing certificate")

// Credential is a signed claim in its Sigstore bundle container.
//
// The protobuf bundle is serialized directly: sigstore-go's bundle.NewBundle
// rejects v0.3 bundles that carry an X509 certificate chain.
type Credential struct {
	pb *protobundle.Bundle
}

// Assemble packs a signed statement and the certificate chain, signing
// certificate first, into a Credential.
func Assemble(payload, signature []byte, chain []*x509.Certificate) (*Credential, error) {
	if len(chain) == 0 {
		return nil, ErrNoCertificate
	}
	envelope, err := NewEnvelope(payload, signature).ToProtobuf()
	if err != nil {
		return nil, fmt.Errorf("failed to convert envelope to protobuf: %w", err)
	}

	certificates := make([]*protocommon.X509Certificate, 0, len(chain))
	for _, cert := range chain {
		certificates = append(certificates, &protocommon.X509Certificate{RawBytes: cert.Raw})
	}

	return &Credential{pb: &protobundle.Bundle{
		MediaType: utils.BundleMediaType,
		VerificationMaterial: &protobundle.VerificationMaterial{
			Content: &protobundle.VerificationMaterial_X509CertificateChain{
				X509CertificateChain: &protocommon.X509CertificateChain{
					Certificates: certificates,
				},
			},
		},
		Content: &protobundle.Bundle_DsseEnvelope{DsseEnvelope: envelope},
	}}, nil
}

// Parse reads a credential from its JSON encoding.
func Parse(data []byte) (*Credential, error) {
	pb := &protobundle.Bundle{}
	opts := protojson.UnmarshalOptions{
		// Allow unknown fields for compatibility
		DiscardUnknown: true,
	}
	if err := opts.Unmarshal(data, pb); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bundle: %w", err)
	}
	if pb.GetMediaType() != utils.BundleMediaType {
		return nil, fmt.Errorf("unsupported bundle media type %q", pb.GetMediaType())
	}
	if pb.GetDsseEnvelope() == nil {
		return nil, fmt.Errorf("bundle does not contain a DSSE envelope")
	}
	return &Credential{pb: pb}, nil
}

// Marshal returns the JSON encoding embedded in assets.
func (c *Credential) Marshal() ([]byte, error) {
	data, err := protojson.Marshal(c.pb)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bundle to JSON: %w", err)
	}
	return data, nil
}

// Bundle returns the protobuf bundle.
func (c *Credential) Bundle() *protobundle.Bundle {
	return c.pb
}

// Envelope returns the DSSE envelope through the sigstore-go bundle view.
func (c *Credential) Envelope() (*Envelope, error) {
	return ExtractFromBundle(&bundle.Bundle{Bundle: c.pb})
}

// Certificates returns the certificate chain, signing certificate first.
func (c *Credential) Certificates() ([]*x509.Certificate, error) {
	vm := c.pb.GetVerificationMaterial()
	var raws [][]byte
	switch {
	case vm.GetX509CertificateChain() != nil:
		for _, cert := range vm.GetX509CertificateChain().GetCertificates() {
			raws = append(raws, cert.GetRawBytes())
		}
	case vm.GetCertificate() != nil:
		raws = append(raws, vm.GetCertificate().GetRawBytes())
	}
	if len(raws) == 0 {
		return nil, ErrNoCertificate
	}

	certs := make([]*x509.Certificate, 0, len(raws))
	for i, raw := range raws {
		cert, err := x509.ParseCertificate(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate %d: %w", i, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

// Claim decodes the signed statement.
func (c *Credential) Claim() (*Claim, error) {
	envelope, err := c.Envelope()
	if err != nil {
		return nil, err
	}
	if err := envelope.Validate(); err != nil {
		return nil, err
	}
	payload, err := envelope.DecodePayload()
	if err != nil {
		return nil, err
	}
	return ParseStatement(payload)
}

// Verify checks the envelope signature against the signing certificate's
// key. It does not evaluate the certificate chain.
func (c *Credential) Verify() error {
	envelope, err := c.Envelope()
	if err != nil {
		return err
	}
	if err := envelope.Validate(); err != nil {
		return err
	}
	payload, err := envelope.DecodePayload()
	if err != nil {
		return err
	}
	sig, err := envelope.DecodeSignature()
	if err != nil {
		return err
	}
	claim, err := ParseStatement(payload)
	if err != nil {
		return err
	}
	certs, err := c.Certificates()
	if err != nil {
		return err
	}
	return VerifySignature(certs[0].PublicKey, claim.Alg, PAE(payload), sig)
}
