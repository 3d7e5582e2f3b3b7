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

// Package asn1 re-encodes fixed-width ECDSA signatures in DER.
//
// COSE carries ECDSA signatures as the plain concatenation r‖s of two
// equal-width big-endian unsigned integers, while generic verification
// primitives expect the ASN.1 SEQUENCE-of-INTEGERs form. The encoding
// must be exact-byte-correct: a deviation makes verification fail
// silently rather than crash.
//
// Reference: RFC 8152 §8.1, SEC 1 §C.5.
package asn1

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// SignatureToDER converts a raw r‖s signature to the DER form
//
//	SEQUENCE { r INTEGER, s INTEGER }
//
// Each half is read as a big-endian unsigned integer; leading zero
// octets are minimized and a zero octet is prefixed whenever the high
// bit would otherwise be misread as a sign bit.
func SignatureToDER(sig []byte) ([]byte, error) {
	if len(sig) == 0 || len(sig)%2 != 0 {
		return nil, fmt.Errorf("asn1: signature length %d is not an even r‖s split", len(sig))
	}
	n := len(sig) / 2
	r := new(big.Int).SetBytes(sig[:n])
	s := new(big.Int).SetBytes(sig[n:])

	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.Bytes()
}
