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
)

// Envelope is a decoded signing envelope. It is built once per Decode
// call and not mutated afterwards.
type Envelope struct {
	// Type is the signed message structure the envelope was decoded
	// from. Only EnvelopeTypeSign1 verifies.
	Type EnvelopeType

	// Protected is the signature-covered header. Always present.
	Protected *Header

	// Unprotected is the uncovered header carried alongside the
	// signature. Present only for the tagged wire shape.
	Unprotected *Header

	// Payload is the enclosed certificate payload. For a byte-string
	// payload these are the enclosed bytes; for a structured payload,
	// its raw CBOR encoding.
	Payload []byte

	// Signature is the raw signature byte string. For COSE_Sign bodies
	// this is the first signature of the signatures array.
	Signature []byte
}

// body is the fixed 4-element sequence shared by both wire shapes.
type body struct {
	_           struct{} `cbor:",toarray"`
	Protected   []byte
	Unprotected cbor.RawMessage
	Payload     cbor.RawMessage
	Signature   cbor.RawMessage
}

// coseSignature is one entry of a COSE_Sign signatures array.
type coseSignature struct {
	_           struct{} `cbor:",toarray"`
	Protected   []byte
	Unprotected cbor.RawMessage
	Signature   []byte
}

// Decode parses a raw byte buffer into an Envelope.
//
// The buffer is first decoded strictly as a tagged COSE_Sign1 or
// COSE_Sign structure. When that does not match — encoders vary in
// whether they wrap the structure in a recognized tag — the top-level
// value is re-read as a bare 4-element sequence in the same field
// order, with no unprotected header and the type fixed to single
// signer. No partial envelope is ever returned.
func Decode(data []byte) (*Envelope, error) {
	if env, err := decodeTagged(data); err == nil {
		return env, nil
	}
	return decodeBare(data)
}

// decodeTagged decodes the tagged wire shape.
func decodeTagged(data []byte) (*Envelope, error) {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return nil, newDecodeError("buffer is not a tagged CBOR item", err)
	}
	var typ EnvelopeType
	switch tag.Number {
	case cborTagSign1:
		typ = EnvelopeTypeSign1
	case cborTagSign:
		typ = EnvelopeTypeSign
	default:
		return nil, newDecodeError(fmt.Sprintf("unrecognized envelope tag %d", tag.Number), nil)
	}

	var b body
	if err := cbor.Unmarshal(tag.Content, &b); err != nil {
		return nil, newDecodeError("envelope body is not a 4-element sequence", err)
	}
	env, err := buildEnvelope(typ, &b)
	if err != nil {
		return nil, err
	}

	var m map[any]any
	if err := cbor.Unmarshal(b.Unprotected, &m); err != nil {
		return nil, newDecodeError("unprotected header is not a CBOR map", err)
	}
	env.Unprotected = headerFromMap(m)
	return env, nil
}

// decodeBare decodes the untagged wire shape. The second element is
// carried for field alignment only and is not read as a header.
func decodeBare(data []byte) (*Envelope, error) {
	var b body
	if err := cbor.Unmarshal(data, &b); err != nil {
		return nil, newDecodeError("buffer is not a signing envelope", err)
	}
	return buildEnvelope(EnvelopeTypeSign1, &b)
}

// buildEnvelope assembles the fields common to both wire shapes.
func buildEnvelope(typ EnvelopeType, b *body) (*Envelope, error) {
	protected, err := headerFromBytes(b.Protected)
	if err != nil {
		return nil, err
	}
	sig, err := extractSignature(b.Signature)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Type:      typ,
		Protected: protected,
		Payload:   decodePayload(b.Payload),
		Signature: sig,
	}, nil
}

// decodePayload unwraps a byte-string payload; a structured payload is
// kept as its raw CBOR encoding.
func decodePayload(raw cbor.RawMessage) []byte {
	var payload []byte
	if err := cbor.Unmarshal(raw, &payload); err == nil {
		return payload
	}
	return []byte(raw)
}

// extractSignature reads the signature byte string, descending into the
// first entry of a COSE_Sign signatures array when present.
func extractSignature(raw cbor.RawMessage) ([]byte, error) {
	var sig []byte
	if err := cbor.Unmarshal(raw, &sig); err == nil {
		if len(sig) == 0 {
			return nil, newDecodeError("signature is empty", nil)
		}
		return sig, nil
	}

	var sigs []coseSignature
	if err := cbor.Unmarshal(raw, &sigs); err == nil && len(sigs) > 0 {
		if len(sigs[0].Signature) == 0 {
			return nil, newDecodeError("signature is empty", nil)
		}
		return sigs[0].Signature, nil
	}
	return nil, newDecodeError("signature byte string is not extractable", nil)
}

// KeyID returns the resolved key identifier. When both headers carry
// one, the protected header's value wins.
func (e *Envelope) KeyID() []byte {
	var kid []byte
	if e.Unprotected != nil {
		kid = e.Unprotected.KeyID
	}
	if len(e.Protected.KeyID) > 0 {
		kid = e.Protected.KeyID
	}
	return kid
}
