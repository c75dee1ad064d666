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
package realm

import (
	"context"

	"github.com/gitgate/gitgate/model"
)

// Realm is the authoritative store of user and team records and
// their permissions. Lookups return deep copies; mutating a returned
// model never affects stored state until an explicit update call.
// Mutators return false on persistence failure and leave the durable
// state unchanged.
type Realm interface {
	// GetUser gets a user by login, or nil.
	GetUser(login string) *model.User

	// GetUserByCookie gets a user by session cookie value, or nil.
	GetUserByCookie(cookie string) *model.User

	// UpdateUser upserts a user record keyed by its own login.
	UpdateUser(u *model.User) bool

	// UpdateUserLogin upserts a user record keyed by a previous
	// login, allowing rename. Team memberships referenced by the
	// incoming model are reconciled on both sides.
	UpdateUserLogin(login string, u *model.User) bool

	// DeleteUser removes a user and severs its team memberships.
	DeleteUser(login string) bool

	// GetAllLogins returns the sorted list of all user logins.
	GetAllLogins() []string

	// GetAllUsers returns sorted deep copies of all user records.
	GetAllUsers() []*model.User

	// GetTeam gets a team by name, or nil.
	GetTeam(name string) *model.Team

	// UpdateTeam upserts a team record keyed by its own name.
	UpdateTeam(t *model.Team) bool

	// UpdateTeamName upserts a team record keyed by a previous
	// name, allowing rename.
	UpdateTeamName(name string, t *model.Team) bool

	// DeleteTeam removes a team record.
	DeleteTeam(name string) bool

	// GetAllTeamNames returns the sorted list of all team names.
	GetAllTeamNames() []string

	// GetAllTeams returns sorted deep copies of all team records.
	GetAllTeams() []*model.Team

	// LoginsForRepository returns every user holding a discrete
	// permission exceeding NONE for the repository.
	LoginsForRepository(repository string) []string

	// TeamNamesForRepository returns every team holding a discrete
	// permission exceeding NONE for the repository.
	TeamNamesForRepository(repository string) []string

	// RenameRepositoryRole moves every discrete permission keyed to
	// the old repository name to the new name.
	RenameRepositoryRole(oldName, newName string) bool

	// DeleteRepositoryRole strips the repository's permission entry
	// from every user and team.
	DeleteRepositoryRole(repository string) bool
}

const key = "realm"

// Setter defines a context that enables setting values.
type Setter interface {
	Set(string, interface{})
}

// FromContext returns the Realm associated with this context.
func FromContext(c context.Context) Realm {
	return c.Value(key).(Realm)
}

// ToContext adds the Realm to this context if it supports
// the Setter interface.
func ToContext(c Setter, r Realm) {
	c.Set(key, r)
}
