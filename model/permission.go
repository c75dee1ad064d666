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
	"fmt"
	"strings"
)

// AccessPermission is an ordered access level for a (principal,
// repository) pair. Each level carries a short code that is used in
// persisted role strings of the form "<code>:<repository>".
type AccessPermission int

const (
	PermissionNone AccessPermission = iota
	PermissionExclude
	PermissionView
	PermissionClone
	PermissionPush
	PermissionCreate
	PermissionDelete
	PermissionRewind
)

// PermissionOwner is the permission implicitly held by a repository
// owner. It is an alias for the highest assignable level.
const PermissionOwner = PermissionRewind

var permissionCodes = map[AccessPermission]string{
	PermissionNone:    "N",
	PermissionExclude: "X",
	PermissionView:    "V",
	PermissionClone:   "R",
	PermissionPush:    "RW",
	PermissionCreate:  "RWC",
	PermissionDelete:  "RWD",
	PermissionRewind:  "RW+",
}

func (p AccessPermission) Code() string {
	if code, ok := permissionCodes[p]; ok {
		return code
	}
	return "N"
}

func (p AccessPermission) String() string {
	return p.Code()
}

func (p AccessPermission) AtMost(other AccessPermission) bool {
	return p <= other
}

func (p AccessPermission) AtLeast(other AccessPermission) bool {
	return p >= other
}

func (p AccessPermission) Exceeds(other AccessPermission) bool {
	return p > other
}

// AsRole renders the persisted form, e.g. "RW+:~james/myrepo".
func (p AccessPermission) AsRole(repository string) string {
	return p.Code() + ":" + repository
}

func (p AccessPermission) MarshalText() ([]byte, error) {
	return []byte(p.Code()), nil
}

func (p *AccessPermission) UnmarshalText(data []byte) error {
	perm, err := PermissionFromCode(string(data))
	if err != nil {
		return err
	}
	*p = perm
	return nil
}

// PermissionFromCode resolves a short permission code, matched
// case-insensitively.
func PermissionFromCode(code string) (AccessPermission, error) {
	for perm, c := range permissionCodes {
		if strings.EqualFold(c, code) {
			return perm, nil
		}
	}
	return PermissionNone, fmt.Errorf("unknown permission code %q", code)
}

// PermissionFromRole extracts the permission from a persisted role
// string. A role without a code separator is a legacy role and is
// assumed to grant full permissions.
func PermissionFromRole(role string) AccessPermission {
	fields := strings.SplitN(role, ":", 2)
	if len(fields) == 1 {
		return PermissionRewind
	}
	perm, err := PermissionFromCode(fields[0])
	if err != nil {
		return PermissionNone
	}
	return perm
}

// RepositoryFromRole extracts the repository name from a persisted
// role string.
func RepositoryFromRole(role string) string {
	fields := strings.SplitN(role, ":", 2)
	if len(fields) == 1 {
		return role
	}
	return fields[1]
}

// AccessRestrictionType is a repository-level floor specifying the
// minimum permission a principal must hold to perform any action.
// NONE is unrestricted; VIEW restricts even metadata reads.
type AccessRestrictionType int

const (
	RestrictionNone AccessRestrictionType = iota
	RestrictionPush
	RestrictionClone
	RestrictionView
)

var restrictionNames = map[AccessRestrictionType]string{
	RestrictionNone:  "NONE",
	RestrictionPush:  "PUSH",
	RestrictionClone: "CLONE",
	RestrictionView:  "VIEW",
}

func (t AccessRestrictionType) String() string {
	return restrictionNames[t]
}

func (t AccessRestrictionType) AtLeast(other AccessRestrictionType) bool {
	return t >= other
}

func (t AccessRestrictionType) Exceeds(other AccessRestrictionType) bool {
	return t > other
}

// IsValidPermission reports whether assigning the discrete permission
// is coherent with this restriction level. A permission that cannot
// satisfy the restriction's floor is meaningless and rejected at
// assignment time.
func (t AccessRestrictionType) IsValidPermission(p AccessPermission) bool {
	switch t {
	case RestrictionView:
		// all discrete permissions are valid
		return p.AtLeast(PermissionView)
	case RestrictionClone:
		return p.AtLeast(PermissionClone)
	case RestrictionPush:
		return p.AtLeast(PermissionPush)
	default:
		// unrestricted repositories have no use for discrete permissions
		return false
	}
}

func (t AccessRestrictionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *AccessRestrictionType) UnmarshalText(data []byte) error {
	*t = RestrictionFromName(string(data))
	return nil
}

// RestrictionFromName resolves a restriction name, defaulting to NONE
// for unknown input.
func RestrictionFromName(name string) AccessRestrictionType {
	for t, n := range restrictionNames {
		if strings.EqualFold(n, name) {
			return t
		}
	}
	return RestrictionNone
}

// AuthorizationControl determines whether any authenticated user
// satisfies a repository's restriction or only named principals do.
type AuthorizationControl int

const (
	AuthorizationAuthenticated AuthorizationControl = iota
	AuthorizationNamed
)

var authorizationNames = map[AuthorizationControl]string{
	AuthorizationAuthenticated: "AUTHENTICATED",
	AuthorizationNamed:         "NAMED",
}

func (a AuthorizationControl) String() string {
	return authorizationNames[a]
}

func (a AuthorizationControl) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AuthorizationControl) UnmarshalText(data []byte) error {
	*a = AuthorizationFromName(string(data))
	return nil
}

// AuthorizationFromName resolves an authorization-control name,
// defaulting to NAMED for unknown input.
func AuthorizationFromName(name string) AuthorizationControl {
	if strings.EqualFold(name, "AUTHENTICATED") {
		return AuthorizationAuthenticated
	}
	return AuthorizationNamed
}
