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
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/hcertproject/hcert-core-go/internal/encoding/hexutil"
)

// Header is the normalized algorithm and key-identifier pair decoded
// from an envelope header block.
type Header struct {
	// Algorithm is the resolved signature algorithm. AlgorithmUnknown
	// only occurs for unprotected headers; a protected header either
	// resolves (defaulting to Ed25519 when the entry is absent) or
	// fails decoding.
	Algorithm Algorithm

	// KeyID identifies the signing key. Often a truncated certificate
	// digest; opaque to this package.
	KeyID []byte

	// raw retains the exact protected-header bytes as they appeared on
	// the wire. Required to reconstruct the signed structure; nil for
	// unprotected headers.
	raw []byte
}

// KeyIDString returns the key identifier as hexadecimal text for
// diagnostics.
func (h *Header) KeyIDString() string {
	return hexutil.Encode(h.KeyID)
}

// headerFromBytes builds a Header from the byte-wrapped map form used
// by protected headers. An absent algorithm entry defaults to Ed25519;
// an unrecognized algorithm code fails.
func headerFromBytes(data []byte) (*Header, error) {
	if len(data) == 0 {
		return nil, newDecodeError("protected header map is absent", nil)
	}
	var m map[any]any
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, newDecodeError("protected header is not a CBOR map", err)
	}
	h := &Header{
		Algorithm: AlgorithmEd25519,
		raw:       data,
	}
	if v, ok := headerValue(m, headerLabelAlgorithm); ok {
		alg, err := resolveAlgorithm(v)
		if err != nil {
			return nil, err
		}
		h.Algorithm = alg
	}
	h.KeyID = headerKeyID(m)
	return h, nil
}

// headerFromMap builds a Header from the bare map form used by
// unprotected headers. The unprotected header is optional evidence
// only, so an absent or unrecognized algorithm yields AlgorithmUnknown
// instead of failing.
func headerFromMap(m map[any]any) *Header {
	h := &Header{}
	if v, ok := headerValue(m, headerLabelAlgorithm); ok {
		if alg, err := resolveAlgorithm(v); err == nil {
			h.Algorithm = alg
		}
	}
	h.KeyID = headerKeyID(m)
	return h
}

// headerValue looks up a small-integer header label. CBOR decoding
// surfaces unsigned keys as uint64 and negative keys as int64, so both
// spellings are tried.
func headerValue(m map[any]any, label int64) (any, bool) {
	if v, ok := m[uint64(label)]; ok {
		return v, true
	}
	if v, ok := m[int64(label)]; ok {
		return v, true
	}
	return nil, false
}

func headerKeyID(m map[any]any) []byte {
	v, ok := headerValue(m, headerLabelKeyID)
	if !ok {
		return nil
	}
	kid, ok := v.([]byte)
	if !ok {
		return nil
	}
	return kid
}

// resolveAlgorithm maps a wire algorithm code to an Algorithm. Negative
// integers are normalized to their CBOR argument first, so -7 and 6
// both resolve to ES256.
func resolveAlgorithm(v any) (Algorithm, error) {
	code, ok := asInt(v)
	if !ok {
		return AlgorithmUnknown, newDecodeError(fmt.Sprintf("algorithm value %v is not an integer", v), nil)
	}
	if code < 0 {
		code = -1 - code
	}
	switch code {
	case algCodeES256:
		return AlgorithmES256, nil
	case algCodePS256:
		return AlgorithmPS256, nil
	case algCodeEd25519:
		return AlgorithmEd25519, nil
	}
	return AlgorithmUnknown, newDecodeError(fmt.Sprintf("unrecognized algorithm code %d", code), nil)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		if n > 1<<62 {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	}
	return 0, false
}
