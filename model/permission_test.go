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
	"testing"
)

var allPermissions = []AccessPermission{
	PermissionNone, PermissionExclude, PermissionView, PermissionClone,
	PermissionPush, PermissionCreate, PermissionDelete, PermissionRewind,
}

func TestPermissionOrdering(t *testing.T) {
	if !PermissionRewind.Exceeds(PermissionPush) {
		t.Error("RW+ should exceed RW")
	}
	if !PermissionClone.AtLeast(PermissionClone) {
		t.Error("AtLeast should be inclusive")
	}
	if PermissionView.AtLeast(PermissionClone) {
		t.Error("V should not be at least R")
	}
	if !PermissionExclude.AtMost(PermissionView) {
		t.Error("X should be at most V")
	}
}

func TestPermissionRoleRoundTrip(t *testing.T) {
	for _, p := range allPermissions {
		role := p.AsRole("~james/myrepo")
		if PermissionFromRole(role) != p {
			t.Errorf("Role %q did not round trip", role)
		}
		if RepositoryFromRole(role) != "~james/myrepo" {
			t.Errorf("Role %q lost the repository name", role)
		}
	}
}

func TestLegacyRole(t *testing.T) {
	// a role with no code grants full permissions
	if PermissionFromRole("myrepo") != PermissionRewind {
		t.Error("Legacy role should resolve to RW+")
	}
	if RepositoryFromRole("myrepo") != "myrepo" {
		t.Error("Legacy role should be its own repository name")
	}
}

func TestPermissionFromCode(t *testing.T) {
	p, err := PermissionFromCode("rw+")
	if err != nil || p != PermissionRewind {
		t.Errorf("Code lookup should be case-insensitive, got %v, %v", p, err)
	}
	if _, err := PermissionFromCode("ZZ"); err == nil {
		t.Error("Unknown code should be an error")
	}
}

// Every restriction accepts exactly the permissions that meet its
// floor; NONE-restricted repositories reject all discrete permissions.
func TestIsValidPermission(t *testing.T) {
	floors := map[AccessRestrictionType]AccessPermission{
		RestrictionView:  PermissionView,
		RestrictionClone: PermissionClone,
		RestrictionPush:  PermissionPush,
	}
	for restriction, floor := range floors {
		for _, p := range allPermissions {
			want := p.AtLeast(floor)
			if got := restriction.IsValidPermission(p); got != want {
				t.Errorf("%s.IsValidPermission(%s) = %v, want %v", restriction, p, got, want)
			}
		}
	}
	for _, p := range allPermissions {
		if RestrictionNone.IsValidPermission(p) {
			t.Errorf("NONE restriction should reject %s", p)
		}
	}
}

func TestRestrictionFromName(t *testing.T) {
	if RestrictionFromName("view") != RestrictionView {
		t.Error("Name lookup should be case-insensitive")
	}
	if RestrictionFromName("bogus") != RestrictionNone {
		t.Error("Unknown restriction should default to NONE")
	}
}

func TestAuthorizationFromName(t *testing.T) {
	if AuthorizationFromName("authenticated") != AuthorizationAuthenticated {
		t.Error("Name lookup should be case-insensitive")
	}
	if AuthorizationFromName("anything-else") != AuthorizationNamed {
		t.Error("Unknown authorization should default to NAMED")
	}
}
