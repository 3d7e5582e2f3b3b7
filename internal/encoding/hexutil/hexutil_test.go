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

package hexutil

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xab, 0xff}
	got, err := Decode(Encode(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("round trip = %x, want %x", got, raw)
	}
}

func TestDecodeNormalizesInput(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"de ad be ef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"de\tad\nbe ef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := Decode(tt.in)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", tt.in, err)
		}
		if !bytes.Equal(got, tt.want) {
			t.Fatalf("Decode(%q) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestDecodeRejectsMalformedText(t *testing.T) {
	for _, in := range []string{"zz", "abc"} {
		if _, err := Decode(in); err == nil {
			t.Fatalf("Decode(%q) expected error", in)
		}
	}
}

func TestMustDecodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustDecode should panic on malformed input")
		}
	}()
	MustDecode("not hex")
}
