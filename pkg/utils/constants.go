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

const (
	InTotoJSONPayloadType = "application/vnd.in-toto+json"
	InTotoStatementType   = "https://in-toto.io/Statement/v1"
	PredicateType         = "https://c2pa.org/credential/v1"
	BundleMediaType       = "application/vnd.dev.sigstore.bundle.v0.3+json"

	// ClaimGenerator identifies this module in every credential it writes.
	ClaimGenerator = "c2pa-go"
)
