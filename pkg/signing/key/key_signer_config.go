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
	"fmt"

	"github.com/duggaraju/c2pa-go/pkg/config"
	"github.com/duggaraju/c2pa-go/pkg/signing"
	"github.com/duggaraju/c2pa-go/pkg/utils"
)

// KeySignerConfig holds configuration for creating a local key signer.
//
//nolint:revive
type KeySignerConfig struct {
	// KeyConfig provides private key loading functionality.
	config.KeyConfig

	// CertificateChainPaths lists the PEM files of the certificate chain,
	// signing certificate first.
	CertificateChainPaths []string

	// TimestampURL is the time-stamp authority, or "" for none.
	TimestampURL string

	// Algorithm overrides the algorithm derived from the key, e.g. "ps384".
	Algorithm string
}

// Validate checks that the configured files exist and the algorithm parses.
func (c *KeySignerConfig) Validate() error {
	if err := utils.ValidateFileExists("private key", c.Path); err != nil {
		return err
	}
	if len(c.CertificateChainPaths) == 0 {
		return fmt.Errorf("at least one certificate chain file is required")
	}
	if err := utils.ValidateMultiple("certificate chain", c.CertificateChainPaths, utils.PathTypeFile); err != nil {
		return err
	}
	if c.Algorithm != "" {
		if _, err := signing.ParseAlgorithm(c.Algorithm); err != nil {
			return err
		}
	}
	return nil
}
