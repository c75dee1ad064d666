/*

SPDX-Copyright: Copyright (c) the gitgate contributors
SPDX-License-Identifier: Apache-2.0
Copyright 2018 the gitgate contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and limitations under the License.

*/
package cache

import (
	"time"

	"github.com/koding/cache"

	"github.com/gitgate/gitgate/envvars"
)

type Cache interface {
	Get(string) (interface{}, error)
	Set(string, interface{}) error
	Delete(string) error
}

// Default creates an in-memory cache with the configured
// expiration period.
func Default() Cache {
	return NewTTL(time.Duration(envvars.Env.Cache.CacheTTL))
}

// NewTTL returns an in-memory cache with the specified
// ttl expiration period.
func NewTTL(t time.Duration) Cache {
	return cache.NewMemoryWithTTL(t)
}
