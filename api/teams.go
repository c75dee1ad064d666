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

	"github.com/gitgate/gitgate/exterror"
	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
)

type teamInput struct {
	Name      string `json:"name"`
	CanAdmin  bool   `json:"canAdmin,omitempty"`
	CanFork   bool   `json:"canFork,omitempty"`
	CanCreate bool   `json:"canCreate,omitempty"`

	Users []string `json:"users,omitempty"`
	// permission codes keyed by repository name
	Permissions        map[string]string `json:"permissions,omitempty"`
	MailingLists       []string          `json:"mailingLists,omitempty"`
	PreReceiveScripts  []string          `json:"preReceiveScripts,omitempty"`
	PostReceiveScripts []string          `json:"postReceiveScripts,omitempty"`
}

// GetAllTeams lists every team record.
func GetAllTeams(c *gin.Context) {
	IndentedJSON(c, http.StatusOK, realm.FromContext(c).GetAllTeams())
}

// GetTeam gets one team record by name.
func GetTeam(c *gin.Context) {
	name := c.Param("name")
	t := realm.FromContext(c).GetTeam(name)
	if t == nil {
		c.Error(exterror.NotFound(errors.Errorf("team %s not found", name)))
		return
	}
	IndentedJSON(c, http.StatusOK, t)
}

// PostTeam creates a team record.
func PostTeam(c *gin.Context) {
	rlm := realm.FromContext(c)
	in := new(teamInput)
	if err := c.BindJSON(in); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	if in.Name == "" {
		c.Error(exterror.Create(http.StatusBadRequest, errors.New("name is required")))
		return
	}
	if rlm.GetTeam(in.Name) != nil {
		c.Error(exterror.Create(http.StatusConflict,
			errors.Errorf("team %s already exists", in.Name)))
		return
	}
	t, err := buildTeam(c, in)
	if err != nil {
		c.Error(err)
		return
	}
	if !rlm.UpdateTeam(t) {
		c.Error(exterror.Append(errors.New("realm write failed"),
			fmt.Sprintf("Creating team %s", in.Name)))
		return
	}
	IndentedJSON(c, http.StatusCreated, rlm.GetTeam(t.Name))
}

// PutTeam updates a team record keyed by its current name; a
// different name in the body renames the team.
func PutTeam(c *gin.Context) {
	name := c.Param("name")
	rlm := realm.FromContext(c)
	if rlm.GetTeam(name) == nil {
		c.Error(exterror.NotFound(errors.Errorf("team %s not found", name)))
		return
	}
	in := new(teamInput)
	if err := c.BindJSON(in); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	if in.Name == "" {
		in.Name = name
	}
	t, err := buildTeam(c, in)
	if err != nil {
		c.Error(err)
		return
	}
	if !rlm.UpdateTeamName(name, t) {
		c.Error(exterror.Append(errors.New("realm write failed"),
			fmt.Sprintf("Updating team %s", name)))
		return
	}
	IndentedJSON(c, http.StatusOK, rlm.GetTeam(t.Name))
}

// DeleteTeam removes a team record.
func DeleteTeam(c *gin.Context) {
	name := c.Param("name")
	if !realm.FromContext(c).DeleteTeam(name) {
		c.Error(exterror.NotFound(errors.Errorf("team %s not found", name)))
		return
	}
	c.String(http.StatusNoContent, "")
}

func buildTeam(c *gin.Context, in *teamInput) (*model.Team, error) {
	t := model.NewTeam(in.Name)
	t.CanAdmin = in.CanAdmin
	t.CanFork = in.CanFork
	t.CanCreate = in.CanCreate
	for _, login := range in.Users {
		t.AddUser(login)
	}
	for repository, code := range in.Permissions {
		p, err := model.PermissionFromCode(code)
		if err != nil {
			return nil, exterror.Create(http.StatusBadRequest, err)
		}
		if err := checkPermissionCoherence(c, repository, p); err != nil {
			return nil, err
		}
		t.SetRepositoryPermission(repository, p)
	}
	for _, addr := range in.MailingLists {
		t.MailingLists.Add(addr)
	}
	t.PreReceiveScripts = in.PreReceiveScripts
	t.PostReceiveScripts = in.PostReceiveScripts
	return t, nil
}
