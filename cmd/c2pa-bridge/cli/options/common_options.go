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

package options

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/duggaraju/c2pa-go/pkg/hashing"
	"github.com/spf13/cobra"
)

// FlagAdder is a flag group that registers itself on a command.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// AddAllFlags registers several flag groups.
func AddAllFlags(cmd *cobra.Command, groups ...FlagAdder) {
	for _, g := range groups {
		g.AddFlags(cmd)
	}
}

// DefaultManifest is the manifest definition used without --manifest.
const DefaultManifest = "{}"

// AssetFlags select where signed assets go and what they carry.
type AssetFlags struct {
	Output        string // --output
	OutputDir     string // --output-dir
	ManifestPath  string // --manifest
	HashAlgorithm string // --hash-algorithm
	NoEmbed       bool   // --no-embed
	Sidecar       bool   // --sidecar
	Parallel      int    // --parallel
}

// AddFlags registers the asset flags.
func (o *AssetFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "signed output file, for a single input")
	cmd.Flags().StringVar(&o.OutputDir, "output-dir", "", "directory receiving signed copies of every input")
	cmd.MarkFlagsMutuallyExclusive("output", "output-dir")
	cmd.Flags().StringVarP(&o.ManifestPath, "manifest", "m", "", "manifest definition JSON file (default \"{}\")")
	_ = cmd.MarkFlagFilename("manifest", "json")
	cmd.Flags().StringVar(&o.HashAlgorithm, "hash-algorithm", hashing.DefaultAlgorithm,
		fmt.Sprintf("asset digest algorithm %v", hashing.SupportedAlgorithms()))
	cmd.Flags().BoolVar(&o.NoEmbed, "no-embed", false, "do not embed the credential in the output")
	cmd.Flags().BoolVar(&o.Sidecar, "sidecar", false, "also write the credential to a .c2pa file next to the output")
	cmd.Flags().IntVar(&o.Parallel, "parallel", runtime.NumCPU(), "number of assets signed concurrently")
}

// Validate checks the flags against the inputs they apply to.
func (o *AssetFlags) Validate(inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	if o.Output == "" && o.OutputDir == "" {
		return fmt.Errorf("one of --output or --output-dir is required")
	}
	if o.Output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output takes a single input, got %d; use --output-dir", len(inputs))
	}
	if o.Parallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", o.Parallel)
	}
	if !hashing.IsSupported(o.HashAlgorithm) {
		return fmt.Errorf("unsupported hash algorithm %q", o.HashAlgorithm)
	}
	if o.NoEmbed && !o.Sidecar {
		return fmt.Errorf("--no-embed requires --sidecar, or the credential is lost")
	}
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := filepath.Clean(o.OutputPath(in))
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("inputs %s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in
	}
	return nil
}

// OutputPath returns where the signed copy of input goes.
func (o *AssetFlags) OutputPath(input string) string {
	if o.Output != "" {
		return o.Output
	}
	return filepath.Join(o.OutputDir, filepath.Base(input))
}

// Manifest returns the manifest definition: the file named by --manifest,
// or DefaultManifest.
func (o *AssetFlags) Manifest() (string, error) {
	if o.ManifestPath == "" {
		return DefaultManifest, nil
	}
	data, err := os.ReadFile(o.ManifestPath)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest file: %w", err)
	}
	return string(data), nil
}

// CertificateFlags name the signing certificate chain.
type CertificateFlags struct {
	CertificateChain []string // --cert-chain
	TimestampURL     string   // --tsa-url
	Algorithm        string   // --algorithm
}

// AddFlags registers the certificate flags.
func (o *CertificateFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.CertificateChain, "cert-chain", "c", nil,
		"PEM certificate chain files, signing certificate first [required]")
	_ = cmd.MarkFlagRequired("cert-chain")
	cmd.Flags().StringVar(&o.TimestampURL, "tsa-url", "", "time-stamp authority URL recorded in the credential")
	cmd.Flags().StringVar(&o.Algorithm, "algorithm", "", "signature algorithm; derived from the key when empty")
}
