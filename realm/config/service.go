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

// Package config implements the realm interface on top of a single
// git-style config file. The file is reloaded when its modification
// time changes, so it may be edited by hand while the server runs.
package config

import (
	"crypto/sha256"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/strings/lowercase"
)

const (
	sectionUser = "user"
	sectionTeam = "team"

	roleAdmin        = "#admin"
	roleCreate       = "#create"
	roleFork         = "#fork"
	roleNotFederated = "#notfederated"
	// roleNone keeps a record with no capabilities from serializing
	// as an empty section and being dropped on the next parse.
	roleNone = "#none"
)

// Service is a file-backed realm. All state lives in a single
// document; every public method takes one coarse lock, refreshes the
// in-memory maps when the file changed on disk, and, for mutators,
// rewrites the whole document atomically.
type Service struct {
	sync.Mutex

	path string

	users   map[string]*model.User
	cookies map[string]string
	teams   map[string]*model.Team

	lastModified time.Time
	lastSize     int64
	forceReload  bool
}

// New creates a realm backed by the file at path. The file need not
// exist yet; it is created on the first mutation.
func New(path string) realm.Realm {
	return &Service{
		path:        path,
		users:       make(map[string]*model.User),
		cookies:     make(map[string]string),
		teams:       make(map[string]*model.Team),
		forceReload: true,
	}
}

func (s *Service) GetUser(login string) *model.User {
	s.Lock()
	defer s.Unlock()
	s.read()
	u := s.users[strings.ToLower(login)]
	if u == nil {
		return nil
	}
	return u.Copy()
}

func (s *Service) GetUserByCookie(cookie string) *model.User {
	s.Lock()
	defer s.Unlock()
	if cookie == "" {
		return nil
	}
	s.read()
	login, ok := s.cookies[cookie]
	if !ok {
		return nil
	}
	u := s.users[login]
	if u == nil {
		return nil
	}
	return u.Copy()
}

func (s *Service) UpdateUser(u *model.User) bool {
	return s.UpdateUserLogin(u.Login, u)
}

// UpdateUserLogin stores the user under its own login, keyed by the
// previous login so renames carry their record over. Team membership
// is reconciled in both directions: teams named on the model gain the
// user, teams the model dropped lose it.
func (s *Service) UpdateUserLogin(login string, u *model.User) bool {
	s.Lock()
	defer s.Unlock()
	s.read()

	oldKey := strings.ToLower(login)
	newKey := strings.ToLower(u.Login)
	delete(s.users, oldKey)

	stored := u.Copy()
	stored.Login = newKey
	if stored.Cookie == "" && stored.Password != "" {
		stored.Cookie = cookieFor(stored.Login, stored.Password)
	}
	s.users[newKey] = stored

	wanted := stored.TeamNames()
	for name := range wanted {
		key := name.String()
		team := s.teams[key]
		if team == nil {
			team = model.NewTeam(key)
			s.teams[key] = team
		}
		team.RemoveUser(oldKey)
		team.AddUser(newKey)
	}
	for _, team := range s.teams {
		if !wanted.ContainsString(team.Name) {
			team.RemoveUser(oldKey)
			team.RemoveUser(newKey)
		}
	}

	return s.commit()
}

func (s *Service) DeleteUser(login string) bool {
	s.Lock()
	defer s.Unlock()
	s.read()

	key := strings.ToLower(login)
	if _, ok := s.users[key]; !ok {
		return false
	}
	delete(s.users, key)
	for _, team := range s.teams {
		team.RemoveUser(key)
	}
	return s.commit()
}

func (s *Service) GetAllLogins() []string {
	s.Lock()
	defer s.Unlock()
	s.read()
	logins := make([]string, 0, len(s.users))
	for login := range s.users {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}

func (s *Service) GetAllUsers() []*model.User {
	s.Lock()
	defer s.Unlock()
	s.read()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.Copy())
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Login < users[j].Login
	})
	return users
}

func (s *Service) GetTeam(name string) *model.Team {
	s.Lock()
	defer s.Unlock()
	s.read()
	t := s.teams[strings.ToLower(name)]
	if t == nil {
		return nil
	}
	return t.Copy()
}

func (s *Service) UpdateTeam(t *model.Team) bool {
	return s.UpdateTeamName(t.Name, t)
}

func (s *Service) UpdateTeamName(name string, t *model.Team) bool {
	s.Lock()
	defer s.Unlock()
	s.read()

	delete(s.teams, strings.ToLower(name))
	s.teams[strings.ToLower(t.Name)] = t.Copy()
	return s.commit()
}

func (s *Service) DeleteTeam(name string) bool {
	s.Lock()
	defer s.Unlock()
	s.read()

	key := strings.ToLower(name)
	if _, ok := s.teams[key]; !ok {
		return false
	}
	delete(s.teams, key)
	return s.commit()
}

func (s *Service) GetAllTeamNames() []string {
	s.Lock()
	defer s.Unlock()
	s.read()
	names := make([]string, 0, len(s.teams))
	for name := range s.teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) GetAllTeams() []*model.Team {
	s.Lock()
	defer s.Unlock()
	s.read()
	teams := make([]*model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		teams = append(teams, t.Copy())
	}
	sort.Slice(teams, func(i, j int) bool {
		return strings.ToLower(teams[i].Name) < strings.ToLower(teams[j].Name)
	})
	return teams
}

func (s *Service) LoginsForRepository(repository string) []string {
	s.Lock()
	defer s.Unlock()
	s.read()
	var logins []string
	for login, u := range s.users {
		if u.HasRepositoryPermission(repository) {
			logins = append(logins, login)
		}
	}
	sort.Strings(logins)
	return logins
}

func (s *Service) TeamNamesForRepository(repository string) []string {
	s.Lock()
	defer s.Unlock()
	s.read()
	var names []string
	for _, t := range s.teams {
		if t.HasRepositoryPermission(repository) {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *Service) RenameRepositoryRole(oldName, newName string) bool {
	s.Lock()
	defer s.Unlock()
	s.read()

	touched := false
	for _, u := range s.users {
		if u.HasRepositoryPermission(oldName) {
			p := u.RemoveRepositoryPermission(oldName)
			u.SetRepositoryPermission(newName, p)
			touched = true
		}
	}
	for _, t := range s.teams {
		if t.HasRepositoryPermission(oldName) {
			p := t.RemoveRepositoryPermission(oldName)
			t.SetRepositoryPermission(newName, p)
			touched = true
		}
	}
	if !touched {
		return true
	}
	return s.commit()
}

func (s *Service) DeleteRepositoryRole(repository string) bool {
	s.Lock()
	defer s.Unlock()
	s.read()

	touched := false
	for _, u := range s.users {
		if u.HasRepositoryPermission(repository) {
			u.RemoveRepositoryPermission(repository)
			touched = true
		}
	}
	for _, t := range s.teams {
		if t.HasRepositoryPermission(repository) {
			t.RemoveRepositoryPermission(repository)
			touched = true
		}
	}
	if !touched {
		return true
	}
	return s.commit()
}

// commit persists the in-memory state. On failure the in-memory maps
// are stale, so the next read is forced to reload from the intact
// on-disk document, discarding the failed mutation.
func (s *Service) commit() bool {
	if err := s.write(); err != nil {
		log.Errorf("writing realm file %s: %s", s.path, err)
		s.forceReload = true
		return false
	}
	s.index()
	return true
}

// read refreshes the in-memory maps when the on-disk document has
// changed, or when a prior failed write demands it. A document that
// fails to parse is ignored and the current maps stay in effect.
func (s *Service) read() {
	info, err := os.Stat(s.path)
	if err != nil {
		if s.forceReload {
			// the durable state is an absent file, so a failed
			// first write leaves the realm empty
			s.users = make(map[string]*model.User)
			s.teams = make(map[string]*model.Team)
			s.lastModified = time.Time{}
			s.lastSize = 0
			s.forceReload = false
			s.index()
		}
		return
	}
	if !s.forceReload && info.ModTime().Equal(s.lastModified) && info.Size() == s.lastSize {
		return
	}

	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		log.Errorf("reading realm file %s: %s", s.path, err)
		return
	}
	sections, err := parseSections(data)
	if err != nil {
		log.Errorf("parsing realm file %s: %s", s.path, err)
		return
	}

	users := make(map[string]*model.User)
	teams := make(map[string]*model.Team)
	for _, sec := range sections {
		switch sec.kind {
		case sectionUser:
			u := parseUser(sec)
			users[u.Login] = u
		case sectionTeam:
			t := parseTeam(sec)
			teams[strings.ToLower(t.Name)] = t
		default:
			log.Warnf("realm file %s: ignoring unknown section %q", s.path, sec.kind)
		}
	}

	s.users = users
	s.teams = teams
	s.lastModified = info.ModTime()
	s.lastSize = info.Size()
	s.forceReload = false
	s.index()
}

// index rebuilds the cookie lookup and attaches canonical team
// records to their members.
func (s *Service) index() {
	s.cookies = make(map[string]string)
	for login, u := range s.users {
		u.Teams = nil
		if u.Cookie != "" {
			s.cookies[u.Cookie] = login
		}
	}
	names := make([]string, 0, len(s.teams))
	for name := range s.teams {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := s.teams[name]
		for member := range t.Users {
			if u, ok := s.users[member.String()]; ok {
				u.Teams = append(u.Teams, t)
			}
		}
	}
}

// write serializes the realm into a temp file and renames it over the
// live document, so readers never observe a partial write.
func (s *Service) write() error {
	sections := make([]*section, 0, len(s.users)+len(s.teams))

	logins := make([]string, 0, len(s.users))
	for login := range s.users {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	for _, login := range logins {
		sections = append(sections, serializeUser(s.users[login]))
	}

	names := make([]string, 0, len(s.teams))
	for name := range s.teams {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sections = append(sections, serializeTeam(s.teams[name]))
	}

	tmp := s.path + ".tmp"
	if err := ioutil.WriteFile(tmp, serializeSections(sections), 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return err
	}
	s.lastModified = info.ModTime()
	s.lastSize = info.Size()
	s.forceReload = false
	return nil
}

func parseUser(sec *section) *model.User {
	u := model.NewUser(sec.name)
	u.Password = sec.get("password")
	u.Cookie = sec.get("cookie")
	u.DisplayName = sec.get("displayName")
	u.Email = sec.get("emailAddress")
	u.Type = model.AccountTypeFromName(sec.get("accountType"))
	u.Disabled = sec.getBool("disabled")
	for _, role := range sec.list("role") {
		switch strings.ToLower(role) {
		case roleAdmin:
			u.CanAdmin = true
		case roleCreate:
			u.CanCreate = true
		case roleFork:
			u.CanFork = true
		case roleNotFederated:
			u.ExcludeFromFederation = true
		case roleNone:
			// marker only
		default:
			// legacy role granting full repository access
			u.AddRepositoryRole(role)
		}
	}
	for _, role := range sec.list("repository") {
		u.AddRepositoryRole(role)
	}
	for _, name := range sec.list("starred") {
		u.Starred.AddString(name)
	}
	if u.Cookie == "" && u.Password != "" {
		u.Cookie = cookieFor(u.Login, u.Password)
	}
	return u
}

func parseTeam(sec *section) *model.Team {
	t := model.NewTeam(sec.name)
	for _, role := range sec.list("role") {
		switch strings.ToLower(role) {
		case roleAdmin:
			t.CanAdmin = true
		case roleCreate:
			t.CanCreate = true
		case roleFork:
			t.CanFork = true
		case roleNone:
			// marker only
		default:
			t.AddRepositoryRole(role)
		}
	}
	for _, role := range sec.list("repository") {
		t.AddRepositoryRole(role)
	}
	for _, login := range sec.list("user") {
		t.AddUser(login)
	}
	for _, addr := range sec.list("mailingList") {
		t.MailingLists.Add(addr)
	}
	t.PreReceiveScripts = append(t.PreReceiveScripts, sec.list("preReceiveScript")...)
	t.PostReceiveScripts = append(t.PostReceiveScripts, sec.list("postReceiveScript")...)
	return t
}

func serializeUser(u *model.User) *section {
	sec := newSection(sectionUser, u.Login)
	password := u.Password
	if !u.IsLocalAccount() {
		// external credentials are never persisted here
		password = model.ExternalAccount
	}
	if password != "" {
		sec.add("password", password)
	}
	if u.Cookie != "" {
		sec.add("cookie", u.Cookie)
	}
	if u.DisplayName != "" {
		sec.add("displayName", u.DisplayName)
	}
	if u.Email != "" {
		sec.add("emailAddress", u.Email)
	}
	if !u.IsLocalAccount() {
		sec.add("accountType", string(u.Type))
	}
	if u.Disabled {
		sec.add("disabled", "true")
	}

	var roles []string
	if u.CanAdmin {
		roles = append(roles, roleAdmin)
	}
	if u.CanCreate {
		roles = append(roles, roleCreate)
	}
	if u.CanFork {
		roles = append(roles, roleFork)
	}
	if u.ExcludeFromFederation {
		roles = append(roles, roleNotFederated)
	}
	if len(roles) == 0 {
		roles = append(roles, roleNone)
	}
	sec.addAll("role", roles)

	sec.addAll("repository", repositoryRoles(u.Permissions))
	sec.addAll("starred", u.Starred.Keys().ToStringSlice())
	return sec
}

func serializeTeam(t *model.Team) *section {
	sec := newSection(sectionTeam, t.Name)

	var roles []string
	if t.CanAdmin {
		roles = append(roles, roleAdmin)
	}
	if t.CanCreate {
		roles = append(roles, roleCreate)
	}
	if t.CanFork {
		roles = append(roles, roleFork)
	}
	if len(roles) == 0 {
		roles = append(roles, roleNone)
	}
	sec.addAll("role", roles)

	sec.addAll("repository", repositoryRoles(t.Permissions))
	sec.addAll("user", t.Users.Keys().ToStringSlice())
	sec.addAll("mailingList", t.MailingLists.Keys())
	sec.addAll("preReceiveScript", t.PreReceiveScripts)
	sec.addAll("postReceiveScript", t.PostReceiveScripts)
	return sec
}

func repositoryRoles(permissions map[lowercase.String]model.AccessPermission) []string {
	roles := make([]string, 0, len(permissions))
	for repository, p := range permissions {
		roles = append(roles, p.AsRole(repository.String()))
	}
	sort.Strings(roles)
	return roles
}

// cookieFor derives a stable session cookie for users created before
// cookies were issued explicitly.
func cookieFor(login, password string) string {
	sum := sha256.Sum256([]byte(login + password))
	return fmt.Sprintf("%x", sum)
}
