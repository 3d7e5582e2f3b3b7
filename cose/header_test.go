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

package cose

import (
	"testing"
)

func TestResolveAlgorithmCodes(t *testing.T) {
	tests := []struct {
		code any
		want Algorithm
	}{
		// standard COSE negative encodings
		{int64(-7), AlgorithmES256},
		{int64(-37), AlgorithmPS256},
		{int64(-18), AlgorithmEd25519},
		// raw argument forms
		{uint64(6), AlgorithmES256},
		{uint64(36), AlgorithmPS256},
		{uint64(17), AlgorithmEd25519},
	}
	for _, tt := range tests {
		got, err := resolveAlgorithm(tt.code)
		if err != nil {
			t.Fatalf("resolveAlgorithm(%v) error = %v", tt.code, err)
		}
		if got != tt.want {
			t.Fatalf("resolveAlgorithm(%v) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestResolveAlgorithmRejectsUnknown(t *testing.T) {
	for _, code := range []any{int64(-8), uint64(0), uint64(99), "ES256", 1.5} {
		if _, err := resolveAlgorithm(code); err == nil {
			t.Fatalf("resolveAlgorithm(%v) expected error", code)
		}
	}
}

func TestHeaderFromBytesRequiresMap(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0x01}, mustMarshal(t, "not a map")} {
		if _, err := headerFromBytes(data); err == nil {
			t.Fatalf("headerFromBytes(%x) expected error", data)
		}
	}
}

func TestHeaderFromMapNeverResolvesUnknownToError(t *testing.T) {
	// unprotected headers are optional evidence: absent or bogus
	// algorithm evidence stays unknown instead of failing
	for _, m := range []map[any]any{
		{},
		{uint64(1): "bogus"},
		{uint64(1): uint64(99)},
	} {
		h := headerFromMap(m)
		if h.Algorithm != AlgorithmUnknown {
			t.Fatalf("headerFromMap(%v).Algorithm = %v, want unknown", m, h.Algorithm)
		}
	}
}

func TestKeyIDString(t *testing.T) {
	h := &Header{KeyID: []byte{0xde, 0xad, 0xbe, 0xef}}
	if got := h.KeyIDString(); got != "deadbeef" {
		t.Fatalf("KeyIDString() = %q, want %q", got, "deadbeef")
	}
}
