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
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// The realm file is a git-style config document: named sections with
// repeated key = value lines. It is plain text and may be edited by
// hand; the parser therefore tolerates comments, blank lines, and
// arbitrary indentation.
//
//	[user "james"]
//		password = secret
//		role = "#admin"
//		repository = RW+:~james/myrepo

type section struct {
	kind   string
	name   string
	keys   []string
	values map[string][]string
}

func newSection(kind, name string) *section {
	return &section{
		kind:   kind,
		name:   name,
		values: make(map[string][]string),
	}
}

// add records a value under the key. Lookups are case-insensitive
// but the first spelling seen is the one written back out.
func (s *section) add(key, value string) {
	k := strings.ToLower(key)
	if _, ok := s.values[k]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[k] = append(s.values[k], value)
}

func (s *section) addAll(key string, values []string) {
	for _, v := range values {
		s.add(key, v)
	}
}

// get returns the first value for the key, or the empty string.
func (s *section) get(key string) string {
	vs := s.values[strings.ToLower(key)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func (s *section) getBool(key string) bool {
	v := strings.ToLower(s.get(key))
	return v == "true" || v == "yes" || v == "on" || v == "1"
}

// list returns every value recorded for the key, in file order.
func (s *section) list(key string) []string {
	return s.values[strings.ToLower(key)]
}

var headerRe = regexp.MustCompile(`^\[([a-zA-Z][a-zA-Z0-9]*)(?:\s+"((?:[^"\\]|\\.)*)")?\]$`)

// parseSections reads a realm document into its sections. Keys seen
// before any section header are a format error, as is an unparsable
// section header.
func parseSections(data []byte) ([]*section, error) {
	var sections []*section
	var current *section

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			m := headerRe.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("line %d: malformed section header %q", lineno, line)
			}
			current = newSection(strings.ToLower(m[1]), unescapeValue(m[2]))
			sections = append(sections, current)
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: key outside of any section", lineno)
		}
		key, value := splitKeyValue(line)
		current.add(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

func splitKeyValue(line string) (string, string) {
	i := strings.Index(line, "=")
	if i < 0 {
		// a bare key is an implicit "true"
		return strings.TrimSpace(line), "true"
	}
	key := strings.TrimSpace(line[:i])
	raw := strings.TrimSpace(line[i+1:])
	return key, parseValue(raw)
}

func parseValue(raw string) string {
	if strings.HasPrefix(raw, `"`) {
		body := raw[1:]
		escaped := false
		for i := 0; i < len(body); i++ {
			if escaped {
				escaped = false
				continue
			}
			switch body[i] {
			case '\\':
				escaped = true
			case '"':
				// anything past the closing quote is a
				// trailing comment
				return unescapeValue(body[:i])
			}
		}
		// unterminated quote, take the rest as the value
		return unescapeValue(body)
	}
	// an unquoted # or ; starts a trailing comment
	if i := strings.IndexAny(raw, "#;"); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return raw
}

func unescapeValue(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	escaped := false
	for _, r := range v {
		if escaped {
			switch r {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// needsQuoting reports whether a value must be quoted to survive a
// parse; role tokens such as "#admin" would otherwise read back as
// comments.
func needsQuoting(v string) bool {
	if v == "" {
		return false
	}
	if strings.ContainsAny(v, "#;\"\\\n\t") {
		return true
	}
	return v[0] == ' ' || v[len(v)-1] == ' '
}

func escapeValue(v string) string {
	v = strings.Replace(v, `\`, `\\`, -1)
	v = strings.Replace(v, `"`, `\"`, -1)
	v = strings.Replace(v, "\n", `\n`, -1)
	v = strings.Replace(v, "\t", `\t`, -1)
	return v
}

// serializeSections renders sections back into document form. Output
// is deterministic: sections and keys keep their insertion order.
func serializeSections(sections []*section) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.name == "" {
			fmt.Fprintf(w, "[%s]\n", s.kind)
		} else {
			fmt.Fprintf(w, "[%s \"%s\"]\n", s.kind, escapeValue(s.name))
		}
		for _, key := range s.keys {
			for _, value := range s.values[strings.ToLower(key)] {
				if needsQuoting(value) {
					fmt.Fprintf(w, "\t%s = \"%s\"\n", key, escapeValue(value))
				} else {
					fmt.Fprintf(w, "\t%s = %s\n", key, value)
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes()
}
