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

import "fmt"

// DecodeError is used when a signing envelope cannot be decoded.
type DecodeError struct {
	msg string
	err error
}

// newDecodeError creates a DecodeError with the message and an optional
// underlying cause.
func newDecodeError(msg string, err error) *DecodeError {
	return &DecodeError{
		msg: msg,
		err: err,
	}
}

// Error returns the error message.
func (e *DecodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	if e.msg != "" {
		return e.msg
	}
	return "signing envelope is malformed"
}

// Unwrap returns the underlying cause, if any.
func (e *DecodeError) Unwrap() error {
	return e.err
}
