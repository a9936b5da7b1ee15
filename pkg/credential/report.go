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
	"encoding/json"
	"time"

	"github.com/duggaraju/c2pa-go/pkg/hashing"
)

// Validation status codes reported by a reader.
const (
	StatusAssetHashMatch     = "assetHash.match"
	StatusAssetHashMismatch  = "assetHash.mismatch"
	StatusSignatureValidated = "claimSignature.validated"
	StatusSignatureMismatch  = "claimSignature.mismatch"
	StatusCredentialInvalid  = "signingCredential.invalid"
)

// Report is the JSON document a reader returns for an asset.
type Report struct {
	ActiveManifest   string                    `json:"active_manifest"`
	Manifests        map[string]ManifestReport `json:"manifests"`
	ValidationStatus []Status                  `json:"validation_status,omitempty"`
}

// ManifestReport describes one credential.
type ManifestReport struct {
	ClaimGenerator string         `json:"claim_generator"`
	Title          string         `json:"title,omitempty"`
	Format         string         `json:"format"`
	InstanceID     string         `json:"instance_id"`
	Manifest       map[string]any `json:"manifest"`
	AssetHash      AssetHash      `json:"asset_hash"`
	SignatureInfo  SignatureInfo  `json:"signature_info"`
}

// AssetHash is the digest a credential is bound to.
type AssetHash struct {
	Alg  string `json:"alg"`
	Hash string `json:"hash"`
}

// SignatureInfo summarizes the signing certificate.
type SignatureInfo struct {
	Alg              string    `json:"alg"`
	Issuer           string    `json:"issuer,omitempty"`
	CommonName       string    `json:"common_name,omitempty"`
	CertSerialNumber string    `json:"cert_serial_number,omitempty"`
	TimeStampURL     string    `json:"tsa_url,omitempty"`
	Time             time.Time `json:"time"`
}

// Status is one validation result.
type Status struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation,omitempty"`
}

// NewReport describes c, checking it against actual, the digest of the
// asset bytes the credential was found with.
func NewReport(c *Credential, actual hashing.Digest) (*Report, error) {
	claim, err := c.Claim()
	if err != nil {
		return nil, err
	}

	m := ManifestReport{
		ClaimGenerator: claim.Generator,
		Title:          claim.Title,
		Format:         claim.Format,
		InstanceID:     claim.InstanceID,
		Manifest:       claim.Manifest,
		AssetHash:      AssetHash{Alg: claim.Asset.Algorithm(), Hash: claim.Asset.Hex()},
		SignatureInfo: SignatureInfo{
			Alg:          claim.Alg.String(),
			TimeStampURL: claim.TimeStampURL,
			Time:         claim.Created,
		},
	}

	var status []Status
	if certs, err := c.Certificates(); err != nil {
		status = append(status, Status{Code: StatusCredentialInvalid, Explanation: err.Error()})
	} else {
		leaf := certs[0]
		m.SignatureInfo.Issuer = leaf.Issuer.CommonName
		m.SignatureInfo.CommonName = leaf.Subject.CommonName
		m.SignatureInfo.CertSerialNumber = leaf.SerialNumber.String()
	}

	if actual.Equal(claim.Asset) {
		status = append(status, Status{Code: StatusAssetHashMatch})
	} else {
		status = append(status, Status{
			Code:        StatusAssetHashMismatch,
			Explanation: "asset digest " + actual.String() + " does not match " + claim.Asset.String(),
		})
	}

	if err := c.Verify(); err != nil {
		status = append(status, Status{Code: StatusSignatureMismatch, Explanation: err.Error()})
	} else {
		status = append(status, Status{Code: StatusSignatureValidated})
	}

	return &Report{
		ActiveManifest:   claim.InstanceID,
		Manifests:        map[string]ManifestReport{claim.InstanceID: m},
		ValidationStatus: status,
	}, nil
}

// Valid reports whether every status is a success code.
func (r *Report) Valid() bool {
	for _, s := range r.ValidationStatus {
		switch s.Code {
		case StatusAssetHashMatch, StatusSignatureValidated:
		default:
			return false
		}
	}
	return true
}

// JSON returns the indented report.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
