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

package rule

// Rule is one business rule of a loaded rule set. Rule sets are
// replaced wholesale on update, never mutated in place.
type Rule struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	// Logic is the rule's expression tree as decoded JSON. It is opaque
	// to the engine and interpreted only by the injected Evaluator.
	Logic any `json:"logic"`
}

// Outcome classifies the result of a rule check.
type Outcome int

const (
	// OutcomePassed means every loaded rule evaluated to true.
	OutcomePassed Outcome = iota

	// OutcomeJSONError means the certificate payload could not be
	// serialized into the evaluation context; no rule was evaluated.
	OutcomeJSONError

	// OutcomeTestsFailed means a rule deterministically evaluated to
	// false.
	OutcomeTestsFailed

	// OutcomeTestCouldNotBePerformed means a rule's expression failed
	// to evaluate. An operational problem (rule authoring bug, schema
	// mismatch), distinct from a substantive compliance failure.
	OutcomeTestCouldNotBePerformed
)

// String returns the wire name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "PASSED"
	case OutcomeJSONError:
		return "JSON_ERROR"
	case OutcomeTestsFailed:
		return "TESTS_FAILED"
	case OutcomeTestCouldNotBePerformed:
		return "TEST_COULD_NOT_BE_PERFORMED"
	}
	return "UNKNOWN"
}

// Verdict is the result of checking a certificate against the loaded
// rule set. Suitable for direct serialization in a caller-facing API
// response.
type Verdict struct {
	Outcome Outcome `json:"outcome"`

	// FailedRules maps rule id to description for OutcomeTestsFailed.
	// Evaluation stops at the first failing rule, so the map carries at
	// most one entry.
	FailedRules map[string]string `json:"failedRules,omitempty"`

	// UndeterminedRule names the rule whose expression could not be
	// evaluated, for OutcomeTestCouldNotBePerformed.
	UndeterminedRule string `json:"undeterminedRule,omitempty"`
}

// Passed reports whether the certificate satisfied every rule.
func (v Verdict) Passed() bool {
	return v.Outcome == OutcomePassed
}
