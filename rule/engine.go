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

// Package rule evaluates business rules against a verified
// health-certificate payload to decide acceptance.
//
// The engine holds the current rule set and value sets as an immutable
// snapshot behind an atomic pointer: UpdateData swaps the snapshot
// wholesale, so a concurrent CheckRules always observes rules and value
// sets from the same update. The rule-logic evaluator is an injected
// capability, which keeps the engine's control flow (ordering,
// short-circuiting, error classification) testable in isolation.
package rule

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrRuleParsing is returned by UpdateData when the supplied rules
// document is not a sequence of rule objects.
var ErrRuleParsing = errors.New("rule parsing failed")

// Acceptance-criteria keys read from the value sets, with the default
// applied when a key is absent. The partial-vaccination offset defaults
// to a sentinel meaning "practically unlimited".
const (
	keyAcceptanceCriteria          = "acceptance-criteria"
	keyVaccineImmunity             = "vaccine-immunity"
	keySingleVaccineValidityOffset = "single-vaccine-validity-offset"
	keyPCRTestValidity             = "pcr-test-validity"
	keyRATTestValidity             = "rat-test-validity"

	unlimitedValidity = math.MaxInt32
)

// Evaluator resolves a rule's logic expression against the evaluation
// context. Implementations must treat both arguments as read-only.
type Evaluator interface {
	Evaluate(logic any, data any) (bool, error)
}

// snapshot is one immutable generation of rule data. Rules and value
// sets always travel together; a half-updated state never exists.
type snapshot struct {
	rules     []Rule
	valueSets map[string]any
}

// Engine checks certificates against the currently loaded rule set.
type Engine struct {
	eval    Evaluator
	log     *zap.Logger
	now     func() time.Time
	current atomic.Pointer[snapshot]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger for debug-level evaluation tracing. All
// outcomes are still returned as values; nothing depends on logging.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates an engine with an empty rule set. eval must not be
// nil.
func NewEngine(eval Evaluator, opts ...Option) *Engine {
	e := &Engine{
		eval: eval,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.current.Store(&snapshot{valueSets: map[string]any{}})
	return e
}

// UpdateData replaces the held rule set and value sets in one atomic
// swap. The rules document must be a JSON sequence of rule objects or
// the update fails with ErrRuleParsing and the previous data stays
// live. Value sets are accepted unconditionally: a document that does
// not parse is stored empty and every derived constant falls back to
// its default.
func (e *Engine) UpdateData(rulesJSON, valueSetsJSON []byte) error {
	var rules []Rule
	if err := json.Unmarshal(rulesJSON, &rules); err != nil {
		return fmt.Errorf("%w: %v", ErrRuleParsing, err)
	}
	if rules == nil {
		return fmt.Errorf("%w: rules document is not a sequence", ErrRuleParsing)
	}

	valueSets := map[string]any{}
	if err := json.Unmarshal(valueSetsJSON, &valueSets); err != nil {
		e.log.Debug("value sets did not parse, derived constants fall back to defaults",
			zap.Error(err))
		valueSets = map[string]any{}
	}

	e.current.Store(&snapshot{
		rules:     rules,
		valueSets: valueSets,
	})
	e.log.Debug("rule data updated", zap.Int("rules", len(rules)))
	return nil
}

// VaccineImmunity returns the maximum vaccine-immunity validity in
// days.
func (e *Engine) VaccineImmunity() int {
	return e.acceptanceCriterion(keyVaccineImmunity, 0)
}

// SingleVaccineValidityOffset returns the days after the first shot
// from which a partial vaccination counts as valid.
func (e *Engine) SingleVaccineValidityOffset() int {
	return e.acceptanceCriterion(keySingleVaccineValidityOffset, unlimitedValidity)
}

// PCRTestValidity returns the PCR test validity window in hours.
func (e *Engine) PCRTestValidity() int {
	return e.acceptanceCriterion(keyPCRTestValidity, 0)
}

// RATTestValidity returns the rapid-antigen test validity window in
// hours.
func (e *Engine) RATTestValidity() int {
	return e.acceptanceCriterion(keyRATTestValidity, 0)
}

func (e *Engine) acceptanceCriterion(key string, def int) int {
	criteria, ok := e.current.Load().valueSets[keyAcceptanceCriteria].(map[string]any)
	if !ok {
		return def
	}
	switch v := criteria[key].(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return def
}

// CheckRules checks the certificate against the loaded rules at the
// current time.
func (e *Engine) CheckRules(certificate any) Verdict {
	return e.CheckRulesAt(certificate, e.now())
}

// CheckRulesAt checks the certificate against the loaded rules at the
// given validation time.
//
// Rules are evaluated in the order they were loaded. The first rule
// whose expression fails to evaluate aborts the check as
// indeterminate; the first rule that evaluates to false ends it as
// failed. Later rules are never evaluated, so exactly one rule is
// reported either way.
func (e *Engine) CheckRulesAt(certificate any, validationClock time.Time) Verdict {
	snap := e.current.Load()

	data, err := buildContext(certificate, validationClock, snap.valueSets)
	if err != nil {
		e.log.Debug("certificate payload did not serialize", zap.Error(err))
		return Verdict{Outcome: OutcomeJSONError}
	}

	failed := map[string]string{}
	for _, r := range snap.rules {
		ok, err := e.eval.Evaluate(r.Logic, data)
		if err != nil {
			e.log.Debug("rule could not be evaluated",
				zap.String("rule", r.ID), zap.Error(err))
			return Verdict{
				Outcome:          OutcomeTestCouldNotBePerformed,
				UndeterminedRule: r.ID,
			}
		}
		if !ok {
			e.log.Debug("rule failed", zap.String("rule", r.ID))
			failed[r.ID] = r.Description
			break
		}
	}

	if len(failed) > 0 {
		return Verdict{
			Outcome:     OutcomeTestsFailed,
			FailedRules: failed,
		}
	}
	return Verdict{Outcome: OutcomePassed}
}
