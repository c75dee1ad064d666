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
package model

import (
	"strings"
	"time"

	"github.com/gitgate/gitgate/set"
)

// Repo is a repository's access configuration. Repository names are
// path-like and compared case-insensitively.
type Repo struct {
	Name                 string                `json:"name"`
	Owners               set.LowerSet          `json:"owners"`
	AccessRestriction    AccessRestrictionType `json:"accessRestriction"`
	AuthorizationControl AuthorizationControl  `json:"authorizationControl"`
	Frozen               bool                  `json:"frozen,omitempty"`
	FederationStrategy   string                `json:"federationStrategy,omitempty"`
	LastGC               time.Time             `json:"lastGC,omitempty"`
	GCThreshold          string                `json:"gcThreshold,omitempty"`
	GCPeriod             int                   `json:"gcPeriod,omitempty"`
}

func NewRepo(name string) *Repo {
	return &Repo{
		Name:   name,
		Owners: set.EmptyLower(),
	}
}

func (r *Repo) AddOwner(login string) {
	if r.Owners == nil {
		r.Owners = set.EmptyLower()
	}
	r.Owners.AddString(login)
}

func (r *Repo) IsOwner(login string) bool {
	if login == "" || r.Owners == nil {
		return false
	}
	return r.Owners.ContainsString(login)
}

// IsPersonalRepository reports whether the repository lives in any
// user's personal namespace ("~login/...").
func (r *Repo) IsPersonalRepository() bool {
	return strings.HasPrefix(r.Name, "~")
}

// IsUsersPersonalRepository reports whether the repository lives in
// the personal namespace of the given user.
func (r *Repo) IsUsersPersonalRepository(login string) bool {
	return login != "" && strings.EqualFold(FirstPathElement(r.Name), "~"+login)
}

func (r *Repo) Copy() *Repo {
	dup := *r
	dup.Owners = r.Owners.Copy()
	return &dup
}

// FirstPathElement returns the project path of a repository name,
// e.g. "~james" for "~james/myrepo".
func FirstPathElement(name string) string {
	name = strings.TrimPrefix(name, "/")
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i]
	}
	return name
}
