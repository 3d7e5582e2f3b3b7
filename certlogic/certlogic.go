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

// Package certlogic evaluates the JsonLogic-style expression trees used
// by health-certificate business rules.
//
// Expressions are decoded JSON values: literals evaluate to themselves,
// a single-key object applies the named operator to its arguments.
// Timestamp operands are ISO-8601 strings or the result of plusTime,
// and comparisons between them are time-zone aware. Any structural
// problem — unknown operator, bad arity, operands of the wrong kind —
// is an evaluation error, which the rule engine reports as an
// indeterminate check rather than a failed one.
package certlogic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Evaluator implements the rule engine's Evaluator capability.
type Evaluator struct{}

// Evaluate applies logic to data and resolves the result to a boolean
// by JsonLogic truthiness.
func (Evaluator) Evaluate(logic any, data any) (bool, error) {
	v, err := apply(logic, data)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

func apply(expr any, data any) (any, error) {
	switch e := expr.(type) {
	case nil, bool, string, float64, int64, int:
		return e, nil
	case []any:
		out := make([]any, len(e))
		for i, item := range e {
			v, err := apply(item, data)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		if len(e) != 1 {
			return nil, fmt.Errorf("certlogic: expression object must have exactly one operator, got %d", len(e))
		}
		for op, args := range e {
			return applyOperation(op, args, data)
		}
	}
	return nil, fmt.Errorf("certlogic: unsupported expression of type %T", expr)
}

func applyOperation(op string, rawArgs any, data any) (any, error) {
	switch op {
	case "var":
		path, ok := rawArgs.(string)
		if !ok {
			return nil, fmt.Errorf("certlogic: var expects a string path, got %T", rawArgs)
		}
		return resolveVar(path, data), nil
	case "if":
		return applyIf(rawArgs, data)
	case "and":
		return applyAnd(rawArgs, data)
	case "or":
		return applyOr(rawArgs, data)
	}

	args, err := evalArgs(op, rawArgs, data)
	if err != nil {
		return nil, err
	}
	switch op {
	case "!":
		if len(args) != 1 {
			return nil, arityError(op, "1", len(args))
		}
		return !truthy(args[0]), nil
	case "===":
		if len(args) != 2 {
			return nil, arityError(op, "2", len(args))
		}
		return strictEqual(args[0], args[1]), nil
	case "in":
		if len(args) != 2 {
			return nil, arityError(op, "2", len(args))
		}
		return contains(args[1], args[0])
	case "+":
		return sum(args)
	case "<", ">", "<=", ">=":
		return compareChain(op, args)
	case "after", "before", "not-after", "not-before":
		return compareTimeChain(op, args)
	case "plusTime":
		return plusTime(args)
	}
	return nil, fmt.Errorf("certlogic: unknown operator %q", op)
}

func evalArgs(op string, rawArgs any, data any) ([]any, error) {
	list, ok := rawArgs.([]any)
	if !ok {
		return nil, fmt.Errorf("certlogic: %s expects an argument array, got %T", op, rawArgs)
	}
	args := make([]any, len(list))
	for i, item := range list {
		v, err := apply(item, data)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// applyIf is the ternary conditional. Only the taken branch is
// evaluated.
func applyIf(rawArgs any, data any) (any, error) {
	list, ok := rawArgs.([]any)
	if !ok || len(list) < 2 || len(list) > 3 {
		return nil, fmt.Errorf("certlogic: if expects [guard, then, else?]")
	}
	guard, err := apply(list[0], data)
	if err != nil {
		return nil, err
	}
	if truthy(guard) {
		return apply(list[1], data)
	}
	if len(list) == 3 {
		return apply(list[2], data)
	}
	return nil, nil
}

// applyAnd returns the first falsy operand, or the last operand.
// Operands after the first falsy one are not evaluated.
func applyAnd(rawArgs any, data any) (any, error) {
	list, ok := rawArgs.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("certlogic: and expects a non-empty argument array")
	}
	var v any
	var err error
	for _, item := range list {
		v, err = apply(item, data)
		if err != nil {
			return nil, err
		}
		if !truthy(v) {
			return v, nil
		}
	}
	return v, nil
}

// applyOr returns the first truthy operand, or the last operand.
func applyOr(rawArgs any, data any) (any, error) {
	list, ok := rawArgs.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("certlogic: or expects a non-empty argument array")
	}
	var v any
	var err error
	for _, item := range list {
		v, err = apply(item, data)
		if err != nil {
			return nil, err
		}
		if truthy(v) {
			return v, nil
		}
	}
	return v, nil
}

// resolveVar walks a dot-separated path through maps and arrays. A
// missing segment resolves to nil; the empty path is the whole data
// value.
func resolveVar(path string, data any) any {
	if path == "" {
		return data
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]any:
			current = c[segment]
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil
			}
			current = c[idx]
		default:
			return nil
		}
	}
	return current
}

func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, ok := asNumber(a); ok {
		nb, ok := asNumber(b)
		return ok && na == nb
	}
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && va == vb
	case bool:
		vb, ok := b.(bool)
		return ok && va == vb
	}
	return false
}

func contains(haystack, needle any) (bool, error) {
	switch h := haystack.(type) {
	case []any:
		for _, item := range h {
			if strictEqual(item, needle) {
				return true, nil
			}
		}
		return false, nil
	case string:
		n, ok := needle.(string)
		if !ok {
			return false, fmt.Errorf("certlogic: in expects a string needle for a string haystack, got %T", needle)
		}
		return strings.Contains(h, n), nil
	}
	return false, fmt.Errorf("certlogic: in expects an array or string haystack, got %T", haystack)
}

func sum(args []any) (any, error) {
	var total float64
	for _, a := range args {
		n, ok := asNumber(a)
		if !ok {
			return nil, fmt.Errorf("certlogic: + expects numeric operands, got %T", a)
		}
		total += n
	}
	return total, nil
}

// compareChain compares 2 or 3 operands pairwise: numerically when all
// operands are numbers, by instant when all parse as timestamps.
func compareChain(op string, args []any) (any, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, arityError(op, "2 or 3", len(args))
	}
	if allNumbers(args) {
		for i := 0; i < len(args)-1; i++ {
			a, _ := asNumber(args[i])
			b, _ := asNumber(args[i+1])
			if !compareFloats(op, a, b) {
				return false, nil
			}
		}
		return true, nil
	}
	return compareTimeChain(timeOperator(op), args)
}

// compareTimeChain compares 2 or 3 timestamp operands pairwise.
func compareTimeChain(op string, args []any) (any, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, arityError(op, "2 or 3", len(args))
	}
	times := make([]time.Time, len(args))
	for i, a := range args {
		t, err := asTime(a)
		if err != nil {
			return nil, err
		}
		times[i] = t
	}
	for i := 0; i < len(times)-1; i++ {
		if !compareTimes(op, times[i], times[i+1]) {
			return false, nil
		}
	}
	return true, nil
}

// plusTime shifts a timestamp by an amount of days, hours, months or
// years. The result stays a timestamp value for later comparisons.
func plusTime(args []any) (any, error) {
	if len(args) != 3 {
		return nil, arityError("plusTime", "3", len(args))
	}
	t, err := asTime(args[0])
	if err != nil {
		return nil, err
	}
	n, ok := asNumber(args[1])
	if !ok {
		return nil, fmt.Errorf("certlogic: plusTime expects a numeric amount, got %T", args[1])
	}
	amount := int(n)
	unit, ok := args[2].(string)
	if !ok {
		return nil, fmt.Errorf("certlogic: plusTime expects a string unit, got %T", args[2])
	}
	switch unit {
	case "hour":
		return t.Add(time.Duration(amount) * time.Hour), nil
	case "day":
		return t.AddDate(0, 0, amount), nil
	case "month":
		return t.AddDate(0, amount, 0), nil
	case "year":
		return t.AddDate(amount, 0, 0), nil
	}
	return nil, fmt.Errorf("certlogic: plusTime unit %q is not one of hour, day, month, year", unit)
}

func compareFloats(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}

func compareTimes(op string, a, b time.Time) bool {
	switch op {
	case "after":
		return a.After(b)
	case "before":
		return a.Before(b)
	case "not-after":
		return !a.After(b)
	case "not-before":
		return !a.Before(b)
	}
	return false
}

func timeOperator(op string) string {
	switch op {
	case "<":
		return "before"
	case ">":
		return "after"
	case "<=":
		return "not-after"
	case ">=":
		return "not-before"
	}
	return op
}

func arityError(op, want string, got int) error {
	return fmt.Errorf("certlogic: %s expects %s operands, got %d", op, want, got)
}
