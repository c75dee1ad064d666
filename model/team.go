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
	"github.com/gitgate/gitgate/set"
	"github.com/gitgate/gitgate/strings/lowercase"
)

// Team is a named group of users. The realm store owns the canonical
// team record; team objects attached to users are snapshots.
type Team struct {
	Name               string                                  `json:"name"`
	CanAdmin           bool                                    `json:"canAdmin,omitempty"`
	CanFork            bool                                    `json:"canFork,omitempty"`
	CanCreate          bool                                    `json:"canCreate,omitempty"`
	Users              set.LowerSet                            `json:"users"`
	Permissions        map[lowercase.String]AccessPermission   `json:"permissions"`
	MailingLists       set.Set                                 `json:"mailingLists,omitempty"`
	PreReceiveScripts  []string                                `json:"preReceiveScripts,omitempty"`
	PostReceiveScripts []string                                `json:"postReceiveScripts,omitempty"`
}

func NewTeam(name string) *Team {
	return &Team{
		Name:         name,
		Users:        set.EmptyLower(),
		Permissions:  make(map[lowercase.String]AccessPermission),
		MailingLists: set.Empty(),
	}
}

func (t *Team) AddUser(login string) {
	if t.Users == nil {
		t.Users = set.EmptyLower()
	}
	t.Users.AddString(login)
}

func (t *Team) RemoveUser(login string) {
	if t.Users != nil {
		t.Users.RemoveString(login)
	}
}

func (t *Team) HasUser(login string) bool {
	return t.Users != nil && t.Users.ContainsString(login)
}

// HasRepositoryPermission reports whether the team holds a discrete
// permission for the repository that exceeds NONE.
func (t *Team) HasRepositoryPermission(repository string) bool {
	p, ok := t.Permissions[lowercase.Create(repository)]
	return ok && p.Exceeds(PermissionNone)
}

// SetRepositoryPermission installs a discrete permission; a NONE
// permission removes the entry instead.
func (t *Team) SetRepositoryPermission(repository string, p AccessPermission) {
	if t.Permissions == nil {
		t.Permissions = make(map[lowercase.String]AccessPermission)
	}
	key := lowercase.Create(repository)
	if p == PermissionNone {
		delete(t.Permissions, key)
	} else {
		t.Permissions[key] = p
	}
}

// RemoveRepositoryPermission strips the permission entry for the
// repository and returns the prior level.
func (t *Team) RemoveRepositoryPermission(repository string) AccessPermission {
	key := lowercase.Create(repository)
	p := t.Permissions[key]
	delete(t.Permissions, key)
	return p
}

// AddRepositoryRole installs a permission from its persisted
// "<code>:<repository>" form.
func (t *Team) AddRepositoryRole(role string) {
	p := PermissionFromRole(role)
	repository := RepositoryFromRole(role)
	t.SetRepositoryPermission(repository, p)
}

// RepositoryPermission resolves the team's contribution to a user's
// effective permission on the repository. Only explicit, coherent
// permissions count; implicit levels are resolved once at the user.
func (t *Team) RepositoryPermission(r *Repo) AccessPermission {
	if t.CanAdmin {
		return maxAssignable(r)
	}
	p, ok := t.Permissions[lowercase.Create(r.Name)]
	if !ok || !r.AccessRestriction.IsValidPermission(p) {
		return PermissionNone
	}
	return clamp(p, maxAssignable(r))
}

func (t *Team) Copy() *Team {
	dup := *t
	dup.Users = t.Users.Copy()
	dup.Permissions = make(map[lowercase.String]AccessPermission, len(t.Permissions))
	for k, v := range t.Permissions {
		dup.Permissions[k] = v
	}
	dup.MailingLists = t.MailingLists.Copy()
	dup.PreReceiveScripts = append([]string(nil), t.PreReceiveScripts...)
	dup.PostReceiveScripts = append([]string(nil), t.PostReceiveScripts...)
	return &dup
}

// maxAssignable is the ceiling for any effective permission on the
// repository. Frozen repositories cap at CLONE so that no push can
// be resolved against them.
func maxAssignable(r *Repo) AccessPermission {
	if r.Frozen {
		return PermissionClone
	}
	return PermissionRewind
}

func clamp(p, max AccessPermission) AccessPermission {
	if p.AtMost(max) {
		return p
	}
	return max
}
