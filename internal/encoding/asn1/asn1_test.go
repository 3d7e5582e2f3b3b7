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

package asn1

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/hcertproject/hcert-core-go/internal/encoding/hexutil"
)

func TestSignatureToDERGoldenVectors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		der  string
	}{
		{
			// high bit of s set, so s gets a zero-byte prefix
			name: "high bit needs padding",
			raw:  strings.Repeat("11", 32) + "80" + strings.Repeat("22", 31),
			der:  "3045" + "0220" + strings.Repeat("11", 32) + "0221" + "00" + "80" + strings.Repeat("22", 31),
		},
		{
			// leading zeros of r are not part of the INTEGER encoding
			name: "leading zeros stripped",
			raw:  strings.Repeat("00", 31) + "05" + strings.Repeat("7f", 32),
			der:  "3025" + "020105" + "0220" + strings.Repeat("7f", 32),
		},
		{
			name: "zero integers",
			raw:  strings.Repeat("00", 64),
			der:  "3006020100020100",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignatureToDER(hexutil.MustDecode(tt.raw))
			if err != nil {
				t.Fatalf("SignatureToDER() error = %v", err)
			}
			want := hexutil.MustDecode(tt.der)
			if !bytes.Equal(got, want) {
				t.Fatalf("SignatureToDER() = %x, want %x", got, want)
			}
		})
	}
}

func TestSignatureToDERRejectsBadWidth(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, make([]byte, 63)} {
		if _, err := SignatureToDER(raw); err == nil {
			t.Fatalf("SignatureToDER(%d bytes) expected error", len(raw))
		}
	}
}

// TestSignatureToDERVerifiable checks the conversion against the
// generic ECDSA verifier: a fresh raw signature must verify after
// re-encoding.
func TestSignatureToDERVerifiable(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	digest := sha256.Sum256([]byte("signed content"))
	r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	raw := make([]byte, 64)
	r.FillBytes(raw[:32])
	s.FillBytes(raw[32:])

	der, err := SignatureToDER(raw)
	if err != nil {
		t.Fatalf("SignatureToDER() error = %v", err)
	}
	if !ecdsa.VerifyASN1(&key.PublicKey, digest[:], der) {
		t.Fatal("re-encoded signature did not verify")
	}
}
