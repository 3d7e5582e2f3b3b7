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

// Package cose decodes and verifies CBOR signing envelopes carrying
// health-certificate payloads.
//
// Decode parses a raw byte buffer into an Envelope, accepting both the
// tagged COSE_Sign1/COSE_Sign wire shape and the bare untagged 4-tuple
// some encoders emit. Envelope.Verify checks the enclosed signature
// against a caller-supplied public key; trust-anchor selection, key
// retrieval and revocation are the caller's concern.
package cose

// CBOR tag numbers for the recognized signed message types.
// Reference: RFC 8152 §2, Table 1.
const (
	cborTagSign1 = 18
	cborTagSign  = 98
)

// Header parameter labels.
// Reference: RFC 8152 §3.1, Table 2.
const (
	headerLabelAlgorithm int64 = 1
	headerLabelKeyID     int64 = 4
)

// Algorithm codes as they appear on the wire, normalized to the CBOR
// negative-integer argument (value = -1 - argument), so the standard
// COSE encodings -7 (ES256) and -37 (PS256) resolve through the same
// table as the raw positive forms.
const (
	algCodeES256   = 6
	algCodePS256   = 36
	algCodeEd25519 = 17
)

// Algorithm identifies the signature algorithm resolved from a header.
type Algorithm int

const (
	// AlgorithmUnknown marks a header that carried no algorithm
	// evidence. It never verifies.
	AlgorithmUnknown Algorithm = iota

	// AlgorithmES256 is ECDSA over P-256 with SHA-256.
	AlgorithmES256

	// AlgorithmPS256 is RSASSA-PSS with SHA-256.
	AlgorithmPS256

	// AlgorithmEd25519 is EdDSA over Curve25519. It is the documented
	// default for a protected header lacking an algorithm entry, but it
	// is not a supported verification algorithm.
	AlgorithmEd25519
)

// String returns the JOSE-style name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmES256:
		return "ES256"
	case AlgorithmPS256:
		return "PS256"
	case AlgorithmEd25519:
		return "Ed25519"
	}
	return "unknown"
}

// EnvelopeType distinguishes the signed message structures of RFC 8152.
type EnvelopeType int

const (
	// EnvelopeTypeSign1 is the single-signer COSE_Sign1 structure.
	EnvelopeTypeSign1 EnvelopeType = iota + 1

	// EnvelopeTypeSign is the multi-signer COSE_Sign structure. It is
	// decoded by reading its first signature only; full multi-signature
	// support is deliberately deferred, and such envelopes never verify.
	EnvelopeTypeSign
)

// String returns the RFC 8152 name of the envelope type.
func (t EnvelopeType) String() string {
	switch t {
	case EnvelopeTypeSign1:
		return "COSE_Sign1"
	case EnvelopeTypeSign:
		return "COSE_Sign"
	}
	return "unknown"
}
