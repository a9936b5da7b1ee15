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

package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}

func TestValidateFileExists(t *testing.T) {
	dir := t.TempDir()
	file := writeTempFile(t, dir, "asset.jpg")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid file", path: file},
		{name: "empty path", path: "", wantErr: true},
		{name: "non-existent file", path: "/nonexistent/file.txt", wantErr: true},
		{name: "directory instead of file", path: dir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileExists("test file", tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileExists() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFolderExists(t *testing.T) {
	dir := t.TempDir()
	file := writeTempFile(t, dir, "asset.jpg")

	if err := ValidateFolderExists("out", dir); err != nil {
		t.Errorf("ValidateFolderExists(dir) error = %v", err)
	}
	if err := ValidateFolderExists("out", file); err == nil {
		t.Error("ValidateFolderExists(file) expected error")
	}
}

func TestValidateMultiple(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.pem")
	b := writeTempFile(t, dir, "b.pem")

	tests := []struct {
		name    string
		paths   []string
		wantErr bool
	}{
		{name: "all valid", paths: []string{a, b}},
		{name: "none", paths: nil},
		{name: "empty entry", paths: []string{a, ""}, wantErr: true},
		{name: "missing entry", paths: []string{a, filepath.Join(dir, "c.pem")}, wantErr: true},
		{name: "directory entry", paths: []string{dir}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMultiple("chain", tt.paths, PathTypeFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMultiple() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOptionalFile(t *testing.T) {
	if err := ValidateOptionalFile("config", ""); err != nil {
		t.Errorf("ValidateOptionalFile(\"\") error = %v", err)
	}
	if err := ValidateOptionalFile("config", "/nonexistent/config.yaml"); err == nil {
		t.Error("ValidateOptionalFile(missing) expected error")
	}
}

func TestValidateOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTempFile(t, dir, "in.jpg")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "new file", path: filepath.Join(dir, "out.jpg")},
		{name: "existing file is overwritten", path: writeTempFile(t, dir, "old.jpg")},
		{name: "empty", path: "", wantErr: true},
		{name: "directory", path: dir, wantErr: true},
		{name: "missing parent", path: filepath.Join(dir, "missing", "out.jpg"), wantErr: true},
		{name: "same as input", path: input, wantErr: true},
		{name: "same as input via relative segments", path: filepath.Join(dir, ".", "in.jpg"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFile("output", tt.path, input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
