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
	"net/url"
	"strings"
)

// MaskToken masks a secret for logging, keeping four runes at each end of
// long values.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	r := []rune(token)
	if len(r) <= 8 {
		return "***"
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}

// MaskPKCS11URI hides the pin-value query attribute of a PKCS#11 URI.
func MaskPKCS11URI(uri string) string {
	path, query, ok := strings.Cut(uri, "?")
	if !ok {
		return uri
	}
	parts := strings.Split(query, "&")
	for i, p := range parts {
		if k, v, found := strings.Cut(p, "="); found && k == "pin-value" {
			if decoded, err := url.PathUnescape(v); err == nil {
				v = decoded
			}
			parts[i] = k + "=" + MaskToken(v)
		}
	}
	return path + "?" + strings.Join(parts, "&")
}
