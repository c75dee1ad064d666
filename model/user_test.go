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

	"github.com/gitgate/gitgate/strings/lowercase"
)

func restrictedRepo(name string, restriction AccessRestrictionType) *Repo {
	r := NewRepo(name)
	r.AccessRestriction = restriction
	r.AuthorizationControl = AuthorizationNamed
	return r
}

func TestExplicitPermission(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionClone)
	u := NewUser("alice")
	u.SetRepositoryPermission("Project/Code", PermissionClone)

	if !u.CanClone(r) {
		t.Error("alice should clone with an explicit R grant")
	}
	if u.CanPush(r) {
		t.Error("alice should not push with only an R grant")
	}
}

func TestNoPermission(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionClone)
	u := NewUser("mallory")
	if u.CanClone(r) {
		t.Error("mallory should not clone a CLONE-restricted repository")
	}
	// CLONE restriction implies view access for everyone
	if !u.CanView(r) {
		t.Error("CLONE restriction should still imply view access")
	}
}

func TestTeamPermission(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionPush)
	team := NewTeam("devs")
	team.SetRepositoryPermission("project/code", PermissionPush)
	u := NewUser("bob")
	u.Teams = append(u.Teams, team)

	if !u.CanPush(r) {
		t.Error("bob should push through team permission")
	}
}

func TestIncoherentPermissionIgnored(t *testing.T) {
	// a CLONE-level grant cannot satisfy a PUSH-restricted repository
	r := restrictedRepo("project/code", RestrictionPush)
	u := NewUser("carol")
	u.SetRepositoryPermission("project/code", PermissionClone)

	if u.CanPush(r) {
		t.Error("incoherent grant should not allow push")
	}
	// the PUSH restriction still implies clone for everyone
	if !u.CanClone(r) {
		t.Error("PUSH restriction should imply clone access")
	}
}

func TestOwnerAccess(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionView)
	r.AddOwner("dave")
	u := NewUser("Dave")
	if !u.CanPush(r) {
		t.Error("owner should have push access")
	}
}

func TestPersonalNamespaceAccess(t *testing.T) {
	r := restrictedRepo("~erin/notes", RestrictionView)
	u := NewUser("erin")
	if !u.CanPush(r) {
		t.Error("user should have full access to a personal repository")
	}
	other := NewUser("frank")
	if other.CanView(r) {
		t.Error("other users should not view a VIEW-restricted personal repository")
	}
}

func TestAdminBypass(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionView)
	u := NewUser("root")
	u.CanAdmin = true
	if !u.CanPush(r) {
		t.Error("administrator should have push access")
	}
}

func TestTeamAdmin(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionView)
	team := NewTeam("admins")
	team.CanAdmin = true
	u := NewUser("grace")
	u.Teams = append(u.Teams, team)
	if !u.IsAdmin() {
		t.Error("team admin membership should grant admin")
	}
	if !u.CanPush(r) {
		t.Error("team admin should have push access")
	}
}

func TestAuthorizationAuthenticated(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionClone)
	r.AuthorizationControl = AuthorizationAuthenticated
	u := NewUser("heidi")
	if !u.CanClone(r) {
		t.Error("AUTHENTICATED control should authorize any user")
	}
}

func TestFrozenRepository(t *testing.T) {
	r := restrictedRepo("project/code", RestrictionPush)
	r.Frozen = true
	u := NewUser("ivan")
	u.SetRepositoryPermission("project/code", PermissionRewind)
	if u.CanPush(r) {
		t.Error("frozen repository should deny pushes even to RW+ holders")
	}
	if !u.CanClone(r) {
		t.Error("frozen repository should still allow clones")
	}
}

func TestUnrestrictedRepository(t *testing.T) {
	r := restrictedRepo("public/stuff", RestrictionNone)
	u := NewUser("judy")
	if !u.CanPush(r) {
		t.Error("NONE restriction should allow anyone to push")
	}
}

func TestCanCreateRepo(t *testing.T) {
	u := NewUser("kim")
	if u.CanCreateRepo("project/new") {
		t.Error("user without create role should not create")
	}
	u.CanCreate = true
	if !u.CanCreateRepo("project/new") {
		t.Error("create role should allow creating a common repository")
	}
	if !u.CanCreateRepo("~kim/new") {
		t.Error("create role should allow creating in own namespace")
	}
	if u.CanCreateRepo("~leo/new") {
		t.Error("create role should not allow another user's namespace")
	}
	admin := NewUser("root")
	admin.CanAdmin = true
	if !admin.CanCreateRepo("~kim/new") {
		t.Error("administrator should create anywhere")
	}
}

func TestUserCopyIsDeep(t *testing.T) {
	team := NewTeam("devs")
	team.AddUser("lena")
	u := NewUser("lena")
	u.SetRepositoryPermission("project/code", PermissionPush)
	u.Teams = append(u.Teams, team)
	u.Starred.AddString("project/code")

	dup := u.Copy()
	dup.SetRepositoryPermission("project/code", PermissionClone)
	dup.Teams[0].Name = "renamed"
	dup.Starred.AddString("other")

	if u.Permissions[lowercase.Create("project/code")] != PermissionPush {
		t.Error("copy mutation leaked into the original permissions")
	}
	if u.Teams[0].Name != "devs" {
		t.Error("copy mutation leaked into the original team")
	}
	if u.Starred.ContainsString("other") {
		t.Error("copy mutation leaked into the original starred set")
	}
}

func TestTeamRoleRoundTrip(t *testing.T) {
	team := NewTeam("devs")
	team.AddRepositoryRole("RW:project/code")
	if !team.HasRepositoryPermission("Project/Code") {
		t.Error("team should hold the added permission")
	}
	if p := team.RemoveRepositoryPermission("project/code"); p != PermissionPush {
		t.Errorf("removed permission should be RW, got %s", p)
	}
	if team.HasRepositoryPermission("project/code") {
		t.Error("permission should be removed")
	}
}
