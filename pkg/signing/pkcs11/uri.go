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

package pkcs11

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultModulePaths are standard PKCS#11 module search paths for various Linux distributions.
var DefaultModulePaths = []string{
	"/usr/lib64/pkcs11/",                 // Fedora, RHEL, openSUSE
	"/usr/lib/pkcs11/",                   // Fedora 32-bit, ArchLinux
	"/usr/lib/x86_64-linux-gnu/softhsm/", // Ubuntu/Debian x86_64
	"/usr/lib/softhsm/",                  // Ubuntu/Debian (older or 32-bit)
	"/usr/local/lib/softhsm/",            // Homebrew on macOS
}

var validObjectTypes = map[string]bool{
	"public": true, "private": true, "cert": true, "secret-key": true, "data": true,
}

// URI is a parsed RFC 7512 PKCS#11 URI naming the token and key that sign.
type URI struct {
	path  map[string]string
	query map[string]string
}

// ParseURI parses a PKCS#11 URI. The URI must name a key by id or object
// label; signing needs both a token and a key.
func ParseURI(raw string) (*URI, error) {
	rest, ok := strings.CutPrefix(raw, "pkcs11:")
	if !ok {
		return nil, fmt.Errorf("malformed pkcs11 URI: missing 'pkcs11:' prefix: %s", raw)
	}

	u := &URI{path: map[string]string{}, query: map[string]string{}}
	pathPart, queryPart, hasQuery := strings.Cut(rest, "?")
	if err := parseAttributes(pathPart, ";", u.path); err != nil {
		return nil, fmt.Errorf("malformed pkcs11 URI path: %w", err)
	}
	if hasQuery {
		if err := parseAttributes(queryPart, "&", u.query); err != nil {
			return nil, fmt.Errorf("malformed pkcs11 URI query: %w", err)
		}
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func parseAttributes(s, sep string, into map[string]string) error {
	if s == "" {
		return nil
	}
	for _, part := range strings.Split(s, sep) {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" {
			return fmt.Errorf("attribute %q has no value", part)
		}
		decoded, err := url.PathUnescape(value)
		if err != nil {
			return fmt.Errorf("failed to decode attribute %s: %w", key, err)
		}
		into[key] = decoded
	}
	return nil
}

func (u *URI) validate() error {
	if slot, ok := u.path["slot-id"]; ok {
		if _, err := strconv.ParseUint(slot, 10, 32); err != nil {
			return fmt.Errorf("slot-id must be a 32-bit number: %s", slot)
		}
	}
	if typ, ok := u.path["type"]; ok && !validObjectTypes[typ] {
		return fmt.Errorf("invalid type '%s'", typ)
	}
	_, hasSource := u.query["pin-source"]
	_, hasValue := u.query["pin-value"]
	if hasSource && hasValue {
		return fmt.Errorf("URI must not contain both pin-source and pin-value")
	}
	if mp, ok := u.query["module-path"]; ok && !filepath.IsAbs(mp) {
		return fmt.Errorf("path %s of module-path attribute must be absolute", mp)
	}
	if u.path["id"] == "" && u.path["object"] == "" {
		return fmt.Errorf("PKCS#11 URI must name a key with 'id' or 'object'")
	}
	return nil
}

// TokenLabel returns the token attribute.
func (u *URI) TokenLabel() string {
	return u.path["token"]
}

// KeyID returns the raw id attribute, or nil.
func (u *URI) KeyID() []byte {
	if id, ok := u.path["id"]; ok && id != "" {
		return []byte(id)
	}
	return nil
}

// KeyLabel returns the object attribute.
func (u *URI) KeyLabel() string {
	return u.path["object"]
}

// SlotID returns the slot-id attribute, or -1 when absent.
func (u *URI) SlotID() int {
	slot, ok := u.path["slot-id"]
	if !ok {
		return -1
	}
	// validate already checked the range.
	n, _ := strconv.ParseUint(slot, 10, 32)
	return int(n)
}

// PIN resolves the PIN from pin-value, pin-source (a file), or the
// PKCS11_PIN environment variable, in that order. An empty PIN is not an error.
func (u *URI) PIN() (string, error) {
	if v, ok := u.query["pin-value"]; ok {
		return v, nil
	}
	if src, ok := u.query["pin-source"]; ok {
		loc, err := url.Parse(src)
		if err != nil {
			return "", fmt.Errorf("failed to parse pin-source URI: %w", err)
		}
		if loc.Scheme != "" && loc.Scheme != "file" {
			return "", fmt.Errorf("PIN URI scheme %s is not supported", loc.Scheme)
		}
		if !filepath.IsAbs(loc.Path) {
			return "", fmt.Errorf("PIN URI path '%s' is not absolute", loc.Path)
		}
		data, err := os.ReadFile(loc.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read PIN from file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv("PKCS11_PIN"), nil
}

// Module locates the PKCS#11 library: module-path if it names a file,
// otherwise a file whose name contains module-name in module-path (when it
// is a directory) or in dirs.
func (u *URI) Module(dirs []string) (string, error) {
	if mp, ok := u.query["module-path"]; ok {
		info, err := os.Stat(mp)
		if err != nil {
			return "", fmt.Errorf("module-path error: %w", err)
		}
		if info.Mode().IsRegular() {
			return mp, nil
		}
		if !info.IsDir() {
			return "", fmt.Errorf("module-path '%s' points to an invalid file type", mp)
		}
		dirs = []string{mp}
	}

	name, ok := u.query["module-name"]
	if !ok {
		return "", fmt.Errorf("module-name attribute is not set")
	}
	name = strings.ToLower(name)
	if len(dirs) == 0 {
		dirs = DefaultModulePaths
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && strings.Contains(strings.ToLower(e.Name()), name) {
				return filepath.Join(dir, e.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("no module '%s' could be found in %v", name, dirs)
}
