// Copyright The HCert Project Authors.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hexutil converts losslessly between raw byte sequences and
// hexadecimal text. Used for diagnostics of key identifiers and for
// byte-level test vectors.
package hexutil

import (
	"encoding/hex"
	"strings"
	"unicode"
)

// Encode returns the lowercase hexadecimal form of b.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

// Decode parses hexadecimal text into raw bytes. An optional 0x prefix
// and embedded whitespace are tolerated, so wire dumps can be pasted
// verbatim.
func Decode(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}

// MustDecode is Decode for static test vectors; it panics on malformed
// input.
func MustDecode(s string) []byte {
	b, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}
