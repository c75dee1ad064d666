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
package lowercase

import (
	"encoding/json"
	"testing"
)

func TestCreate(t *testing.T) {
	if Create("AliCE").String() != "alice" {
		t.Error("Create did not lowercase input")
	}
	if !Create("").Empty() {
		t.Error("Empty string should report Empty")
	}
}

func TestSlice(t *testing.T) {
	s := CreateSlice("Foo", "BAR")
	out := s.ToStringSlice()
	if len(out) != 2 || out[0] != "foo" || out[1] != "bar" {
		t.Errorf("Unexpected slice contents %v", out)
	}
}

func TestMapKeyMarshal(t *testing.T) {
	m := map[String]int{Create("Admins"): 1}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"admins":1}` {
		t.Errorf("Unexpected JSON %s", data)
	}
	var back map[String]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back[Create("ADMINS")] != 1 {
		t.Error("Unmarshal did not restore lowercase key")
	}
}
