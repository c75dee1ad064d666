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
	"reflect"
	"testing"

	"github.com/gitgate/gitgate/strings/lowercase"
)

func TestLowerAddContains(t *testing.T) {
	s := EmptyLower()
	s.AddString("Foo")
	s.AddString("Bar")
	s.AddString("foo")
	if len(s) != 2 {
		t.Error("Duplicate keys were not collapsed", s)
	}
	if !s.ContainsString("FOO") {
		t.Error("Set is missing value 'FOO'")
	}
	if !s.Contains(lowercase.Create("bar")) {
		t.Error("Set is missing value 'bar'")
	}
	if s.ContainsString("baz") {
		t.Error("Set is not missing value 'baz'")
	}
}

func TestLowerRemove(t *testing.T) {
	s := NewLower("Foo", "Bar")
	s.RemoveString("FOO")
	if s.ContainsString("foo") {
		t.Error("Set still contains removed value 'foo'")
	}
	if !s.ContainsString("bar") {
		t.Error("Set is missing value 'bar'")
	}
}

func TestLowerCopy(t *testing.T) {
	s := NewLower("a", "b")
	c := s.Copy()
	c.AddString("c")
	if s.ContainsString("c") {
		t.Error("Copy is not independent of the original")
	}
}

func TestLowerKeysSorted(t *testing.T) {
	s := NewLower("zed", "Alpha", "mike")
	keys := s.Keys().ToStringSlice()
	want := []string{"alpha", "mike", "zed"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

func TestLowerJSON(t *testing.T) {
	s := NewLower("B", "a")
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["a","b"]` {
		t.Errorf("Unexpected JSON %s", data)
	}
	var back LowerSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.ContainsString("a") || !back.ContainsString("b") {
		t.Error("Round trip lost members")
	}
}
