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

	"github.com/gitgate/gitgate/set"
	"github.com/gitgate/gitgate/strings/lowercase"
)

// ExternalAccount is the password sentinel stored for accounts whose
// credentials live in an external identity provider. It never
// verifies against any supplied password.
const ExternalAccount = "#externalAccount"

// AccountType identifies where an account's credentials are managed.
type AccountType string

const (
	AccountLocal   AccountType = "LOCAL"
	AccountLDAP    AccountType = "LDAP"
	AccountPAM     AccountType = "PAM"
	AccountWindows AccountType = "WINDOWS"
)

func AccountTypeFromName(name string) AccountType {
	switch strings.ToUpper(name) {
	case "LDAP":
		return AccountLDAP
	case "PAM":
		return AccountPAM
	case "WINDOWS":
		return AccountWindows
	default:
		return AccountLocal
	}
}

func (a AccountType) IsLocal() bool {
	return a == "" || a == AccountLocal
}

// User is an identity record. Login is the case-insensitive unique
// key. Teams are snapshots attached by the realm store; the store
// owns the canonical team records.
type User struct {
	Login                 string                                `json:"login"`
	Password              string                                `json:"-"`
	Cookie                string                                `json:"-"`
	DisplayName           string                                `json:"displayName,omitempty"`
	Email                 string                                `json:"email,omitempty"`
	Type                  AccountType                           `json:"type,omitempty"`
	Disabled              bool                                  `json:"disabled,omitempty"`
	CanAdmin              bool                                  `json:"canAdmin,omitempty"`
	CanFork               bool                                  `json:"canFork,omitempty"`
	CanCreate             bool                                  `json:"canCreate,omitempty"`
	ExcludeFromFederation bool                                  `json:"excludeFromFederation,omitempty"`
	Permissions           map[lowercase.String]AccessPermission `json:"permissions"`
	Teams                 []*Team                               `json:"teams,omitempty"`
	Starred               set.LowerSet                          `json:"starred,omitempty"`
}

func NewUser(login string) *User {
	return &User{
		Login:       strings.ToLower(login),
		Type:        AccountLocal,
		Permissions: make(map[lowercase.String]AccessPermission),
		Starred:     set.EmptyLower(),
	}
}

func (u *User) IsLocalAccount() bool {
	return u.Type.IsLocal()
}

// IsAdmin reports server-wide administrator status, granted directly
// or through any team.
func (u *User) IsAdmin() bool {
	if u.CanAdmin {
		return true
	}
	for _, t := range u.Teams {
		if t.CanAdmin {
			return true
		}
	}
	return false
}

func (u *User) IsTeamMember(name string) bool {
	for _, t := range u.Teams {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func (u *User) TeamNames() set.LowerSet {
	names := set.EmptyLower()
	for _, t := range u.Teams {
		names.AddString(t.Name)
	}
	return names
}

// HasRepositoryPermission reports whether the user holds a discrete
// permission for the repository that exceeds NONE.
func (u *User) HasRepositoryPermission(repository string) bool {
	p, ok := u.Permissions[lowercase.Create(repository)]
	return ok && p.Exceeds(PermissionNone)
}

// SetRepositoryPermission installs a discrete permission; a NONE
// permission removes the entry instead.
func (u *User) SetRepositoryPermission(repository string, p AccessPermission) {
	if u.Permissions == nil {
		u.Permissions = make(map[lowercase.String]AccessPermission)
	}
	key := lowercase.Create(repository)
	if p == PermissionNone {
		delete(u.Permissions, key)
	} else {
		u.Permissions[key] = p
	}
}

// RemoveRepositoryPermission strips the permission entry for the
// repository and returns the prior level.
func (u *User) RemoveRepositoryPermission(repository string) AccessPermission {
	key := lowercase.Create(repository)
	p := u.Permissions[key]
	delete(u.Permissions, key)
	return p
}

// AddRepositoryRole installs a permission from its persisted
// "<code>:<repository>" form.
func (u *User) AddRepositoryRole(role string) {
	p := PermissionFromRole(role)
	repository := RepositoryFromRole(role)
	u.SetRepositoryPermission(repository, p)
}

// RepositoryPermission resolves the user's effective permission on a
// repository: explicit permission first, then the highest team
// permission, then ownership, administrator, and authorization-level
// shortcuts, and finally the level implied by the restriction.
func (u *User) RepositoryPermission(r *Repo) AccessPermission {
	max := maxAssignable(r)

	if r.AccessRestriction == RestrictionNone {
		// unrestricted repository
		return max
	}
	if u.IsAdmin() {
		return max
	}
	if r.IsOwner(u.Login) || r.IsUsersPersonalRepository(u.Login) {
		return max
	}
	if r.AuthorizationControl == AuthorizationAuthenticated {
		// AUTHENTICATED authorizes every logged-in user
		return max
	}

	if p, ok := u.Permissions[lowercase.Create(r.Name)]; ok {
		if r.AccessRestriction.IsValidPermission(p) {
			return clamp(p, max)
		}
	}

	permission := PermissionNone
	for _, t := range u.Teams {
		if p := t.RepositoryPermission(r); p.Exceeds(permission) {
			permission = p
		}
	}
	if permission != PermissionNone {
		return permission
	}

	// no explicit or team grant, fall back to the level the
	// restriction itself implies
	switch r.AccessRestriction {
	case RestrictionClone:
		return PermissionView
	case RestrictionPush:
		return PermissionClone
	default:
		return PermissionNone
	}
}

func (u *User) canAccess(r *Repo, ifRestriction AccessRestrictionType, required AccessPermission) bool {
	if r.AccessRestriction.AtLeast(ifRestriction) {
		return u.RepositoryPermission(r).AtLeast(required)
	}
	return true
}

func (u *User) CanView(r *Repo) bool {
	return u.canAccess(r, RestrictionView, PermissionView)
}

func (u *User) CanClone(r *Repo) bool {
	return u.canAccess(r, RestrictionClone, PermissionClone)
}

func (u *User) CanPush(r *Repo) bool {
	if r.Frozen {
		return false
	}
	return u.canAccess(r, RestrictionPush, PermissionPush)
}

// CanCreateRepo reports whether the user may create the named
// repository on push. Only administrators may create repositories in
// another user's personal namespace.
func (u *User) CanCreateRepo(name string) bool {
	if u.IsAdmin() {
		return true
	}
	project := FirstPathElement(name)
	if strings.HasPrefix(project, "~") && !strings.EqualFold(project, "~"+u.Login) {
		return false
	}
	if u.CanCreate {
		return true
	}
	for _, t := range u.Teams {
		if t.CanCreate {
			return true
		}
	}
	return false
}

func (u *User) Copy() *User {
	dup := *u
	dup.Permissions = make(map[lowercase.String]AccessPermission, len(u.Permissions))
	for k, v := range u.Permissions {
		dup.Permissions[k] = v
	}
	dup.Teams = make([]*Team, 0, len(u.Teams))
	for _, t := range u.Teams {
		dup.Teams = append(dup.Teams, t.Copy())
	}
	dup.Starred = u.Starred.Copy()
	return &dup
}
