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
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/gitgate/gitgate/auth"
	"github.com/gitgate/gitgate/exterror"
	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/router/middleware/session"
)

// userInput is a user record plus the write-only credential fields
// that never appear in responses.
type userInput struct {
	Login       string `json:"login"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Type        string `json:"type,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
	CanAdmin    bool   `json:"canAdmin,omitempty"`
	CanFork     bool   `json:"canFork,omitempty"`
	CanCreate   bool   `json:"canCreate,omitempty"`

	// permission codes keyed by repository name, e.g. {"docs": "RW+"}
	Permissions map[string]string `json:"permissions,omitempty"`
	Teams       []string          `json:"teams,omitempty"`
}

// GetSelf gets the currently authenticated user.
func GetSelf(c *gin.Context) {
	IndentedJSON(c, http.StatusOK, session.User(c))
}

// GetAllUsers lists every user record.
func GetAllUsers(c *gin.Context) {
	IndentedJSON(c, http.StatusOK, realm.FromContext(c).GetAllUsers())
}

// GetUser gets one user record by login.
func GetUser(c *gin.Context) {
	login := c.Param("login")
	u := realm.FromContext(c).GetUser(login)
	if u == nil {
		c.Error(exterror.NotFound(errors.Errorf("user %s not found", login)))
		return
	}
	IndentedJSON(c, http.StatusOK, u)
}

// PostUser creates a user record.
func PostUser(c *gin.Context) {
	rlm := realm.FromContext(c)
	in := new(userInput)
	if err := c.BindJSON(in); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	if in.Login == "" {
		c.Error(exterror.Create(http.StatusBadRequest, errors.New("login is required")))
		return
	}
	if rlm.GetUser(in.Login) != nil {
		c.Error(exterror.Create(http.StatusConflict,
			errors.Errorf("user %s already exists", in.Login)))
		return
	}
	u, err := buildUser(c, in)
	if err != nil {
		c.Error(err)
		return
	}
	if !rlm.UpdateUser(u) {
		c.Error(exterror.Append(errors.New("realm write failed"),
			fmt.Sprintf("Creating user %s", in.Login)))
		return
	}
	IndentedJSON(c, http.StatusCreated, rlm.GetUser(u.Login))
}

// PutUser updates a user record keyed by its current login; a
// different login in the body renames the account.
func PutUser(c *gin.Context) {
	login := c.Param("login")
	rlm := realm.FromContext(c)
	existing := rlm.GetUser(login)
	if existing == nil {
		c.Error(exterror.NotFound(errors.Errorf("user %s not found", login)))
		return
	}
	in := new(userInput)
	if err := c.BindJSON(in); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	if in.Login == "" {
		in.Login = login
	}
	u, err := buildUser(c, in)
	if err != nil {
		c.Error(err)
		return
	}
	if in.Password == "" {
		// keep the stored credential on profile-only updates
		u.Password = existing.Password
		u.Cookie = existing.Cookie
	}
	if !rlm.UpdateUserLogin(login, u) {
		c.Error(exterror.Append(errors.New("realm write failed"),
			fmt.Sprintf("Updating user %s", login)))
		return
	}
	IndentedJSON(c, http.StatusOK, rlm.GetUser(u.Login))
}

// DeleteUser removes a user record and severs its team memberships.
func DeleteUser(c *gin.Context) {
	login := c.Param("login")
	if !realm.FromContext(c).DeleteUser(login) {
		c.Error(exterror.NotFound(errors.Errorf("user %s not found", login)))
		return
	}
	c.String(http.StatusNoContent, "")
}

func buildUser(c *gin.Context, in *userInput) (*model.User, error) {
	u := model.NewUser(in.Login)
	u.DisplayName = in.DisplayName
	u.Email = in.Email
	u.Type = model.AccountTypeFromName(in.Type)
	u.Disabled = in.Disabled
	u.CanAdmin = in.CanAdmin
	u.CanFork = in.CanFork
	u.CanCreate = in.CanCreate

	if in.Password != "" {
		if !u.IsLocalAccount() {
			return nil, exterror.Create(http.StatusBadRequest,
				errors.New("external accounts cannot hold a local password"))
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, exterror.Append(err, "Hashing password")
		}
		u.Password = hash
		u.Cookie = auth.GenerateCookie()
	}

	for repository, code := range in.Permissions {
		p, err := model.PermissionFromCode(code)
		if err != nil {
			return nil, exterror.Create(http.StatusBadRequest, err)
		}
		if err := checkPermissionCoherence(c, repository, p); err != nil {
			return nil, err
		}
		u.SetRepositoryPermission(repository, p)
	}

	rlm := realm.FromContext(c)
	for _, name := range in.Teams {
		team := rlm.GetTeam(name)
		if team == nil {
			return nil, exterror.Create(http.StatusBadRequest,
				errors.Errorf("team %s not found", name))
		}
		u.Teams = append(u.Teams, team)
	}
	return u, nil
}
