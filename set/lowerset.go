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

	"github.com/gitgate/gitgate/strings/lowercase"
)

// LowerSet is a collection of unique lowercase strings. Membership
// lists (team members, repository owners) are stored as LowerSets so
// that "Alice" and "alice" are the same principal.
type LowerSet map[lowercase.String]bool

// EmptyLower creates an empty lowerset
func EmptyLower() LowerSet {
	return make(map[lowercase.String]bool)
}

// NewLower creates a new lowerset with the provided values
func NewLower(keys ...string) LowerSet {
	s := EmptyLower()
	for _, k := range keys {
		s.AddString(k)
	}
	return s
}

// Add inserts an element into the lowerset
func (s LowerSet) Add(key lowercase.String) {
	s[key] = true
}

func (s LowerSet) AddString(key string) {
	s[lowercase.Create(key)] = true
}

// AddAll inserts all elements from another lowerset
func (s LowerSet) AddAll(input LowerSet) {
	for k := range input {
		s.Add(k)
	}
}

// Remove deletes an element from the lowerset
func (s LowerSet) Remove(key lowercase.String) {
	delete(s, key)
}

func (s LowerSet) RemoveString(key string) {
	delete(s, lowercase.Create(key))
}

// Contains tests whether an element is a member of the lowerset
func (s LowerSet) Contains(key lowercase.String) bool {
	_, ok := s[key]
	return ok
}

// ContainsString tests whether an element is a member of the lowerset
func (s LowerSet) ContainsString(key string) bool {
	_, ok := s[lowercase.Create(key)]
	return ok
}

// Copy returns an independent lowerset with the same members
func (s LowerSet) Copy() LowerSet {
	res := EmptyLower()
	res.AddAll(s)
	return res
}

// Keys returns the sorted members of the lowerset
func (s LowerSet) Keys() lowercase.Slice {
	l := len(s)
	if l == 0 {
		return nil
	}
	lst := make(lowercase.Slice, 0, l)
	for k := range s {
		lst = append(lst, k)
	}
	sort.Slice(lst, func(i, j int) bool {
		return lst[i].String() < lst[j].String()
	})
	return lst
}

func (s LowerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys().ToStringSlice())
}

func (s *LowerSet) UnmarshalJSON(data []byte) error {
	var keys []string
	err := json.Unmarshal(data, &keys)
	if err != nil {
		return err
	}
	*s = NewLower(keys...)
	return nil
}
