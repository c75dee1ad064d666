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
package set

import (
	"encoding/json"
	"sort"
)

// Set is a collection of unique strings
type Set map[string]bool

// Empty creates an empty set
func Empty() Set {
	return make(map[string]bool)
}

// New creates a new set with the provided values
func New(keys ...string) Set {
	s := Empty()
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts an element into the set
func (s Set) Add(key string) {
	s[key] = true
}

// AddAll inserts all elements into the set
func (s Set) AddAll(input Set) {
	for k := range input {
		s.Add(k)
	}
}

// Remove deletes an element from the set
func (s Set) Remove(key string) {
	delete(s, key)
}

// Contains tests whether an element is a member of the set
func (s Set) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Copy returns an independent set with the same members
func (s Set) Copy() Set {
	res := Empty()
	res.AddAll(s)
	return res
}

// Keys returns the sorted members of the set
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var keys []string
	err := json.Unmarshal(data, &keys)
	if err != nil {
		return err
	}
	*s = New(keys...)
	return nil
}
