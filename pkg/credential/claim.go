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

// Package credential defines the content credential the engine embeds in a
// signed asset.
//
// A credential is an in-toto statement whose subject is the asset digest and
// whose predicate carries the manifest definition. The statement is signed
// over its DSSE pre-authentication encoding, and the envelope travels in a
// Sigstore bundle together with the signing certificate chain.
//
// The structure follows the in-toto attestation format with:
//   - subject: the credential instance id and the asset digest
//   - predicateType: identifies this as a content credential (v1)
//   - predicate: generator, format, manifest, signature algorithm and time
package credential

import (
	"fmt"
	"time"

	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/hashing"
	"github.com/duggaraju/c2pa-go/pkg/utils"
	"github.com/google/uuid"
	intoto "github.com/in-toto/attestation/go/v1"
	"google.golang.org/protobuf/encoding/protojson"
	structpb "google.golang.org/protobuf/types/known/structpb"
)

// Claim is what one credential asserts about one asset.
type Claim struct {
	Generator    string
	Title        string
	Format       string
	InstanceID   string
	Manifest     map[string]any
	Asset        hashing.Digest
	Alg          ffi.SigningAlg
	TimeStampURL string
	Created      time.Time
}

// NewInstanceID returns a fresh XMP instance id.
func NewInstanceID() string {
	return "xmp:iid:" + uuid.NewString()
}

// Statement builds the in-toto statement for c.
func (c *Claim) Statement() (*intoto.Statement, error) {
	if c.Asset.Size() == 0 {
		return nil, fmt.Errorf("claim has no asset digest")
	}
	if c.InstanceID == "" {
		return nil, fmt.Errorf("claim has no instance id")
	}

	subject := &intoto.ResourceDescriptor{
		Name: c.InstanceID,
		Digest: map[string]string{
			c.Asset.Algorithm(): c.Asset.Hex(),
		},
	}

	manifest := c.Manifest
	if manifest == nil {
		manifest = map[string]any{}
	}
	predicateMap := map[string]any{
		"claim_generator":     c.Generator,
		"format":              c.Format,
		"instance_id":         c.InstanceID,
		"manifest":            manifest,
		"signature_algorithm": c.Alg.String(),
		"created":             c.Created.UTC().Format(time.RFC3339),
	}
	if c.Title != "" {
		predicateMap["title"] = c.Title
	}
	if c.TimeStampURL != "" {
		predicateMap["tsa_url"] = c.TimeStampURL
	}

	predicate, err := structpb.NewStruct(predicateMap)
	if err != nil {
		return nil, fmt.Errorf("failed to build predicate struct: %w", err)
	}

	return &intoto.Statement{
		Type:          utils.InTotoStatementType,
		Subject:       []*intoto.ResourceDescriptor{subject},
		PredicateType: utils.PredicateType,
		Predicate:     predicate,
	}, nil
}

// MarshalStatement returns the statement JSON that gets signed.
func (c *Claim) MarshalStatement() ([]byte, error) {
	statement, err := c.Statement()
	if err != nil {
		return nil, err
	}
	// JSON names give the standard "_type" and "predicateType" keys.
	opts := protojson.MarshalOptions{
		UseProtoNames:   false,
		EmitUnpopulated: false,
	}
	return opts.Marshal(statement)
}

// ParseStatement reads a claim back from statement JSON.
func ParseStatement(payload []byte) (*Claim, error) {
	statement := &intoto.Statement{}
	opts := protojson.UnmarshalOptions{DiscardUnknown: false}
	if err := opts.Unmarshal(payload, statement); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statement: %w", err)
	}

	if statement.GetType() != utils.InTotoStatementType {
		return nil, fmt.Errorf("expected in-toto %s payload, but got %s",
			utils.InTotoStatementType, statement.GetType())
	}
	if statement.GetPredicateType() != utils.PredicateType {
		return nil, fmt.Errorf("expected predicate type %s, but got %s",
			utils.PredicateType, statement.GetPredicateType())
	}
	if len(statement.GetSubject()) != 1 {
		return nil, fmt.Errorf("expected exactly one subject, got %d", len(statement.GetSubject()))
	}
	subject := statement.GetSubject()[0]
	if len(subject.GetDigest()) != 1 {
		return nil, fmt.Errorf("expected exactly one subject digest, got %d", len(subject.GetDigest()))
	}

	c := &Claim{InstanceID: subject.GetName()}
	for alg, value := range subject.GetDigest() {
		d, err := hashing.ParseDigest(alg, value)
		if err != nil {
			return nil, err
		}
		c.Asset = d
	}

	if statement.GetPredicate() == nil {
		return nil, fmt.Errorf("statement has no predicate")
	}
	p := statement.GetPredicate().AsMap()

	c.Generator, _ = p["claim_generator"].(string)
	c.Title, _ = p["title"].(string)
	c.Format, _ = p["format"].(string)
	c.TimeStampURL, _ = p["tsa_url"].(string)
	c.Manifest, _ = p["manifest"].(map[string]any)

	algName, _ := p["signature_algorithm"].(string)
	alg, err := ffi.ParseSigningAlg(algName)
	if err != nil {
		return nil, fmt.Errorf("invalid predicate: %w", err)
	}
	c.Alg = alg

	if created, ok := p["created"].(string); ok && created != "" {
		t, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("invalid predicate created time: %w", err)
		}
		c.Created = t
	}
	return c, nil
}
