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

import (
	"time"

	json "github.com/goccy/go-json"
)

// Context field names as rule expressions address them.
const (
	contextValidationClock = "validationClock"
	contextStartOfDay      = "validationClockAtStartOfDay"
	contextValueSets       = "valueSets"
	contextPayload         = "payload"
)

// buildContext assembles the evaluation context for one rule check:
// the validation clock and its UTC-midnight truncation as ISO-8601
// strings, the current value sets, and the certificate in its canonical
// JSON form. Constructed fresh per check, never persisted.
func buildContext(certificate any, validationClock time.Time, valueSets map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(certificate)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	utc := validationClock.UTC()
	startOfDay := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	return map[string]any{
		contextValidationClock: validationClock.Format(time.RFC3339),
		contextStartOfDay:      startOfDay.Format(time.RFC3339),
		contextValueSets:       valueSets,
		contextPayload:         payload,
	}, nil
}
