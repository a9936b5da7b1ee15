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

package engine

import (
	"path/filepath"
	"strings"
)

// formats maps every accepted format tag, extension or MIME type, to the
// canonical name recorded in the credential.
var formats = map[string]string{
	"jpeg": "jpeg", "jpg": "jpeg", "image/jpeg": "jpeg",
	"png": "png", "image/png": "png",
	"gif": "gif", "image/gif": "gif",
	"tiff": "tiff", "tif": "tiff", "image/tiff": "tiff",
	"webp": "webp", "image/webp": "webp",
	"heic": "heic", "image/heic": "heic",
	"heif": "heif", "image/heif": "heif",
	"avif": "avif", "image/avif": "avif",
	"svg": "svg", "image/svg+xml": "svg",
	"pdf": "pdf", "application/pdf": "pdf",
	"mp4": "mp4", "video/mp4": "mp4",
	"mov": "mov", "video/quicktime": "mov",
	"m4a": "m4a", "audio/mp4": "m4a",
	"wav": "wav", "audio/wav": "wav", "audio/x-wav": "wav",
	"mp3": "mp3", "audio/mpeg": "mp3",
}

// NormalizeFormat returns the canonical name of an asset format tag. Tags
// are case-insensitive and may carry a leading dot.
func NormalizeFormat(format string) (string, bool) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	name, ok := formats[key]
	return name, ok
}

// FormatFromPath derives the format tag from a file extension.
func FormatFromPath(path string) (string, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", false
	}
	return NormalizeFormat(ext)
}
