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

// Package testhelper implements utility routines required for writing
// unit tests. The testhelper should only be used in unit tests.
package testhelper

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"sync"
)

var (
	ecdsaKey *ecdsa.PrivateKey
	rsaKey   *rsa.PrivateKey
)

var setupKeysOnce sync.Once

// GetECDSAKey returns a P-256 signing key, generated once per test
// binary.
func GetECDSAKey() *ecdsa.PrivateKey {
	setupKeys()
	return ecdsaKey
}

// GetRSAKey returns a 2048-bit RSA signing key, generated once per test
// binary.
func GetRSAKey() *rsa.PrivateKey {
	setupKeys()
	return rsaKey
}

func setupKeys() {
	setupKeysOnce.Do(func() {
		var err error
		ecdsaKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			panic(err)
		}
		rsaKey, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
	})
}
