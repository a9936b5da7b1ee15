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

// Package utils holds small helpers shared by the signers and the CLI:
// path checks for configuration values, secret masking and the credential
// constants.
package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PathType is the kind of filesystem entry a configuration value must name.
type PathType int

const (
	// PathTypeFile expects a regular file.
	PathTypeFile PathType = iota
	// PathTypeFolder expects a directory.
	PathTypeFolder
	// PathTypeAny accepts either.
	PathTypeAny
)

func validatePath(fieldName, path string, pathType PathType) error {
	if path == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s %q does not exist", fieldName, path)
		}
		return fmt.Errorf("checking %s %q: %w", fieldName, path, err)
	}

	switch pathType {
	case PathTypeFile:
		if info.IsDir() {
			return fmt.Errorf("%s %q is a directory, expected file", fieldName, path)
		}
	case PathTypeFolder:
		if !info.IsDir() {
			return fmt.Errorf("%s %q is a file, expected directory", fieldName, path)
		}
	}
	return nil
}

// ValidateMultiple validates every path in paths, rejecting empty entries.
// The first failure is returned.
func ValidateMultiple(fieldName string, paths []string, pathType PathType) error {
	for i, path := range paths {
		if path == "" {
			return fmt.Errorf("%s contains empty path at index %d", fieldName, i)
		}
		if err := validatePath(fmt.Sprintf("%s[%d]", fieldName, i), path, pathType); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFileExists validates that path exists and is not a directory.
func ValidateFileExists(fieldName, path string) error {
	return validatePath(fieldName, path, PathTypeFile)
}

// ValidateFolderExists validates that path exists and is a directory.
func ValidateFolderExists(fieldName, path string) error {
	return validatePath(fieldName, path, PathTypeFolder)
}

// ValidateOptionalFile is ValidateFileExists for values that may be left empty.
func ValidateOptionalFile(fieldName, path string) error {
	if path == "" {
		return nil
	}
	return ValidateFileExists(fieldName, path)
}

// ValidateOutputFile checks that path can receive a signed asset: it is set,
// is not a directory, its parent directory exists and it differs from input.
func ValidateOutputFile(fieldName, path, input string) error {
	if path == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s %q is a directory, expected file", fieldName, path)
	}
	if err := ValidateFolderExists(fieldName+" directory", filepath.Dir(path)); err != nil {
		return err
	}
	if input != "" && sameFile(path, input) {
		return fmt.Errorf("%s %q must differ from the input", fieldName, path)
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
