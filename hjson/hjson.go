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

// Package hjson marshals structs to and from human json. The
// underlying library only speaks generic maps, so values make a
// round trip through encoding/json to honor struct tags.
package hjson

import (
	"encoding/json"

	hjson "github.com/hjson/hjson-go"
)

func Unmarshal(data []byte, v interface{}) error {
	var raw interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return err
	}
	text, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(text, v)
}

func Marshal(v interface{}) ([]byte, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var raw interface{}
	if err := json.Unmarshal(text, &raw); err != nil {
		return nil, err
	}
	return hjson.Marshal(raw)
}
