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
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"

	"github.com/fxamacker/cbor/v2"

	"github.com/hcertproject/hcert-core-go/internal/encoding/asn1"
)

// rawES256SignatureSize is the fixed width of an r‖s signature over
// P-256: two 32-byte big-endian unsigned integers.
const rawES256SignatureSize = 64

// VerificationResult classifies the outcome of signature verification.
type VerificationResult int

const (
	// ResultValid means the signature verified against the supplied key.
	ResultValid VerificationResult = iota + 1

	// ResultInvalid means the signature did not verify, or the envelope
	// type does not support verification.
	ResultInvalid

	// ResultUnsupportedAlgorithm means the protected header resolved to
	// an algorithm this package cannot verify.
	ResultUnsupportedAlgorithm

	// ResultPrimitiveError means the verification machinery itself
	// failed before the signature could be checked: wrong key type,
	// malformed signature width, unreconstructable signed structure.
	ResultPrimitiveError
)

// String returns a short description of the result.
func (r VerificationResult) String() string {
	switch r {
	case ResultValid:
		return "valid"
	case ResultInvalid:
		return "invalid"
	case ResultUnsupportedAlgorithm:
		return "unsupported algorithm"
	case ResultPrimitiveError:
		return "verification primitive error"
	}
	return "unknown"
}

// sigStructure is the Sig_structure for single-signer messages.
// Reference: RFC 8152 §4.4.
type sigStructure struct {
	_             struct{} `cbor:",toarray"`
	Context       string
	BodyProtected []byte
	ExternalAAD   []byte
	Payload       []byte
}

// SignedBytes reconstructs the exact byte sequence that was originally
// signed: the CBOR encoding of ["Signature1", protected-header bytes,
// empty external data, payload].
func (e *Envelope) SignedBytes() ([]byte, error) {
	if e.Protected == nil || len(e.Protected.raw) == 0 {
		return nil, newDecodeError("protected header raw bytes were not retained", nil)
	}
	payload := e.Payload
	if payload == nil {
		payload = []byte{}
	}
	return cbor.Marshal(sigStructure{
		Context:       "Signature1",
		BodyProtected: e.Protected.raw,
		ExternalAAD:   []byte{},
		Payload:       payload,
	})
}

// Verify checks the envelope signature against the supplied public key.
//
// Only the single-signer envelope type is supported; anything else
// resolves to ResultInvalid without touching the key. The verification
// algorithm and signature encoding are chosen from the protected
// header: ES256 signatures arrive as fixed-width r‖s and are converted
// to DER before verification, PS256 signatures are used as-is.
func (e *Envelope) Verify(pub crypto.PublicKey) VerificationResult {
	if e.Type != EnvelopeTypeSign1 {
		return ResultInvalid
	}
	toBeSigned, err := e.SignedBytes()
	if err != nil {
		return ResultPrimitiveError
	}

	switch e.Protected.Algorithm {
	case AlgorithmES256:
		key, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return ResultPrimitiveError
		}
		if len(e.Signature) != rawES256SignatureSize {
			return ResultPrimitiveError
		}
		der, err := asn1.SignatureToDER(e.Signature)
		if err != nil {
			return ResultPrimitiveError
		}
		digest := sha256.Sum256(toBeSigned)
		if ecdsa.VerifyASN1(key, digest[:], der) {
			return ResultValid
		}
		return ResultInvalid

	case AlgorithmPS256:
		key, ok := pub.(*rsa.PublicKey)
		if !ok {
			return ResultPrimitiveError
		}
		digest := sha256.Sum256(toBeSigned)
		opts := &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
			Hash:       crypto.SHA256,
		}
		if err := rsa.VerifyPSS(key, crypto.SHA256, digest[:], e.Signature, opts); err != nil {
			return ResultInvalid
		}
		return ResultValid
	}
	return ResultUnsupportedAlgorithm
}

// Valid is the fail-closed convenience over Verify: every outcome other
// than ResultValid collapses to false, so callers cannot confuse a
// broken verifier with a good signature.
func (e *Envelope) Valid(pub crypto.PublicKey) bool {
	return e.Verify(pub) == ResultValid
}
