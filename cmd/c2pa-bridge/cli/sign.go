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

package cli

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/duggaraju/c2pa-go/cmd/c2pa-bridge/cli/options"
	"github.com/duggaraju/c2pa-go/pkg/c2pa"
	"github.com/duggaraju/c2pa-go/pkg/signing"
	"github.com/duggaraju/c2pa-go/pkg/signing/key"
	"github.com/duggaraju/c2pa-go/pkg/signing/pkcs11"
	"github.com/duggaraju/c2pa-go/pkg/utils"
	"github.com/spf13/cobra"
)

func (a *app) signCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign PKI_METHOD",
		Short: "Sign assets.",
		Long: `Sign assets.

    Every INPUT is copied to its output with a signed content credential
    embedded after the asset data. The credential binds the asset digest to
    the manifest definition given with --manifest. The asset format is taken
    from the input file extension.`,
	}
	cmd.AddCommand(a.keySignCommand())
	cmd.AddCommand(a.pkcs11SignCommand())
	return cmd
}

func (a *app) keySignCommand() *cobra.Command {
	o := &options.KeySignOptions{}
	cmd := &cobra.Command{
		Use:   "key [OPTIONS] INPUT...",
		Short: "Sign with a private key file.",
		Long: `Sign with a private key file.

    The key is given with --private-key and its certificate chain with
    --cert-chain; the signing certificate must belong to the key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return exitf(2, "%v", err)
			}
			signer, err := key.NewLocalKeySigner(o.SignerConfig())
			if err != nil {
				return err
			}
			a.logger.Debug("signing with key %s (%s)", o.PrivateKeyPath, signer.Alg())
			return a.signAll(cmd, &o.AssetFlags, signer, args)
		},
	}
	o.AddFlags(cmd)
	return cmd
}

func (a *app) pkcs11SignCommand() *cobra.Command {
	o := &options.PKCS11SignOptions{}
	cmd := &cobra.Command{
		Use:   "pkcs11 [OPTIONS] INPUT...",
		Short: "Sign with a key on a PKCS#11 token.",
		Long: `Sign with a key on a PKCS#11 token.

    The key is named by an RFC 7512 URI given with --pkcs11-uri. The PIN comes
    from the URI (pin-value or pin-source) or the PKCS11_PIN variable.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return exitf(2, "%v", err)
			}
			signer, err := pkcs11.NewSigner(o.SignerConfig())
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", utils.MaskPKCS11URI(o.URI), err)
			}
			defer signer.Close()
			a.logger.Debug("signing with token key %s (%s)", utils.MaskPKCS11URI(o.URI), signer.Alg())
			return a.signAll(cmd, &o.AssetFlags, signer, args)
		},
	}
	o.AddFlags(cmd)
	return cmd
}

// signAll signs inputs concurrently. Every sign gets its own Builder, and
// the builder registers signer under a handle of its own for that call.
func (a *app) signAll(cmd *cobra.Command, o *options.AssetFlags, signer signing.Signer, inputs []string) error {
	manifest, err := o.Manifest()
	if err != nil {
		return err
	}
	if o.OutputDir != "" {
		if err := os.MkdirAll(o.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	for _, in := range inputs {
		if err := utils.ValidateOutputFile("output", o.OutputPath(in), in); err != nil {
			return exitf(2, "%v", err)
		}
	}

	ctx, cancel := a.timeoutContext(cmd)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Parallel)
	for _, in := range inputs {
		g.Go(func() error {
			return a.signOne(ctx, cmd, o, manifest, signer, in)
		})
	}
	return g.Wait()
}

func (a *app) signOne(ctx context.Context, cmd *cobra.Command, o *options.AssetFlags, manifest string, signer signing.Signer, in string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out := o.OutputPath(in)
	log := a.logger.WithFields(map[string]interface{}{"input": in, "output": out})

	b, err := c2pa.BuilderFromJSON(manifest, c2pa.WithLogger(log), c2pa.WithHashAlgorithm(o.HashAlgorithm))
	if err != nil {
		return err
	}
	defer b.Close()
	if o.NoEmbed {
		b.SetNoEmbed()
	}

	res, err := b.SignFile(ctx, in, out, signer)
	if err != nil {
		return err
	}
	if o.Sidecar {
		path, err := c2pa.WriteSidecar(out, res.Manifest)
		if err != nil {
			return err
		}
		log.Debug("wrote sidecar %s", path)
	}
	a.printf(cmd, "Signed file %s, manifest bytes: %d\n", out, len(res.Manifest))
	return nil
}
