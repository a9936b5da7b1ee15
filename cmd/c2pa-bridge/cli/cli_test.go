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
	"bytes"
	"crypto/elliptic"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/duggaraju/c2pa-go/internal/testutil"
	"github.com/duggaraju/c2pa-go/pkg/c2pa"
	"github.com/duggaraju/c2pa-go/pkg/credential"
	"github.com/duggaraju/c2pa-go/pkg/ffi"
	"github.com/duggaraju/c2pa-go/pkg/signing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signFixture struct {
	dir, key, chain string
}

func newSignFixture(t *testing.T) signFixture {
	t.Helper()
	dir := t.TempDir()
	key := testutil.ECDSAKey(t, elliptic.P256())
	return signFixture{
		dir:   dir,
		key:   testutil.WriteKeyFile(t, dir, key),
		chain: testutil.WriteCertFile(t, dir, testutil.SelfSignedCert(t, key)),
	}
}

func (f signFixture) writeAsset(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	data := bytes.Repeat([]byte{0xab, 0xcd}, size/2)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "silent"))
	err := cmd.Execute()
	return out.String(), err
}

func statusCodes(t *testing.T, report string) []string {
	t.Helper()
	var r credential.Report
	require.NoError(t, json.Unmarshal([]byte(report), &r))
	var codes []string
	for _, s := range r.ValidationStatus {
		codes = append(codes, s.Code)
	}
	return codes
}

func TestSignKeyAndRead(t *testing.T) {
	f := newSignFixture(t)
	in := f.writeAsset(t, "photo.jpg", 1000)
	out := filepath.Join(f.dir, "signed.jpg")
	manifest := filepath.Join(f.dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{"title":"Photo"}`), 0644))

	text, err := run(t, "sign", "key", "-k", f.key, "-c", f.chain, "-o", out, "-m", manifest, in)
	require.NoError(t, err)
	assert.Contains(t, text, "Signed file "+out)

	report, err := run(t, "read", out, "--require-valid")
	require.NoError(t, err)
	assert.Contains(t, report, `"title": "Photo"`)
	assert.Equal(t, []string{credential.StatusAssetHashMatch, credential.StatusSignatureValidated}, statusCodes(t, report))
}

func TestSignManyIntoDirectory(t *testing.T) {
	f := newSignFixture(t)
	inputs := []string{
		f.writeAsset(t, "a.png", 64),
		f.writeAsset(t, "b.gif", 128),
		f.writeAsset(t, "c.wav", 256),
	}
	outDir := filepath.Join(f.dir, "signed")

	args := append([]string{"sign", "key", "-k", f.key, "-c", f.chain, "--output-dir", outDir, "--parallel", "2"}, inputs...)
	_, err := run(t, args...)
	require.NoError(t, err)

	for _, in := range inputs {
		_, err := run(t, "read", filepath.Join(outDir, filepath.Base(in)), "--require-valid")
		assert.NoError(t, err, in)
	}
}

func TestSignParallelUsesOneHandlePerSign(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight = map[ffi.Context]int{}
		contexts = map[ffi.Context]bool{}
		maxOnOne int
	)
	restore := signing.Override(func(ctx ffi.Context, data, out []byte) ffi.Result {
		mu.Lock()
		inFlight[ctx]++
		contexts[ctx] = true
		maxOnOne = max(maxOnOne, inFlight[ctx])
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)
		r := signing.Callback(ctx, data, out)

		mu.Lock()
		inFlight[ctx]--
		mu.Unlock()
		return r
	})
	defer restore()

	f := newSignFixture(t)
	var inputs []string
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		inputs = append(inputs, f.writeAsset(t, name, 64))
	}
	outDir := filepath.Join(f.dir, "signed")
	args := append([]string{"sign", "key", "-k", f.key, "-c", f.chain, "--output-dir", outDir, "--parallel", "4"}, inputs...)
	_, err := run(t, args...)
	require.NoError(t, err)

	assert.Equal(t, 1, maxOnOne, "a signer handle served concurrent signs")
	assert.Len(t, contexts, len(inputs))
}

func TestSignRejectsCollidingOutputs(t *testing.T) {
	f := newSignFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(f.dir, "x"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.dir, "y"), 0755))
	first := f.writeAsset(t, filepath.Join("x", "a.png"), 32)
	second := f.writeAsset(t, filepath.Join("y", "a.png"), 32)
	outDir := filepath.Join(f.dir, "signed")

	_, err := run(t, "sign", "key", "-k", f.key, "-c", f.chain, "--output-dir", outDir, "--parallel", "2", first, second)
	var ec *exitError
	require.True(t, errors.As(err, &ec), "got %v", err)
	assert.Equal(t, 2, ec.ExitCode())
	assert.NoDirExists(t, outDir)
}

func TestSignNoEmbedWritesSidecar(t *testing.T) {
	f := newSignFixture(t)
	in := f.writeAsset(t, "doc.pdf", 300)
	out := filepath.Join(f.dir, "doc-signed.pdf")

	_, err := run(t, "sign", "key", "-k", f.key, "-c", f.chain, "-o", out, "--no-embed", "--sidecar", in)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.dir, "doc-signed.c2pa"))

	report, err := run(t, "read", out, "--require-valid")
	require.NoError(t, err)
	assert.Contains(t, statusCodes(t, report), credential.StatusAssetHashMatch)
}

func TestReadRequireValidFailsOnTamper(t *testing.T) {
	f := newSignFixture(t)
	in := f.writeAsset(t, "photo.png", 200)
	out := filepath.Join(f.dir, "signed.png")
	_, err := run(t, "sign", "key", "-k", f.key, "-c", f.chain, "-o", out, in)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	data[0] ^= 0xff
	require.NoError(t, os.WriteFile(out, data, 0644))

	report, err := run(t, "read", out)
	require.NoError(t, err)
	assert.Contains(t, statusCodes(t, report), credential.StatusAssetHashMismatch)

	_, err = run(t, "read", out, "--require-valid")
	var ec *exitError
	require.True(t, errors.As(err, &ec), "got %v", err)
	assert.Equal(t, 2, ec.ExitCode())
}

func TestSignRejectsBadArguments(t *testing.T) {
	f := newSignFixture(t)
	in := f.writeAsset(t, "photo.jpg", 10)

	tests := []struct {
		name string
		args []string
	}{
		{name: "output is input", args: []string{"sign", "key", "-k", f.key, "-c", f.chain, "-o", in, in}},
		{name: "no destination", args: []string{"sign", "key", "-k", f.key, "-c", f.chain, in}},
		{name: "no-embed alone", args: []string{"sign", "key", "-k", f.key, "-c", f.chain, "-o", in + ".out.jpg", "--no-embed", in}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			var ec *exitError
			require.True(t, errors.As(err, &ec), "got %v", err)
			assert.Equal(t, 2, ec.ExitCode())
		})
	}

	_, err := run(t, "sign", "key", "-c", f.chain, "-o", "x.jpg", in)
	assert.ErrorContains(t, err, "private-key")
}

func TestReadWithoutCredential(t *testing.T) {
	f := newSignFixture(t)
	in := f.writeAsset(t, "plain.jpg", 50)
	_, err := run(t, "read", in)
	assert.ErrorContains(t, err, "no content credential found")
}

func TestVersionReportsEngine(t *testing.T) {
	text, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, text, "Engine version: "+c2pa.Version())
}
