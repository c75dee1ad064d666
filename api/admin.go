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
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-jsonpointer"
	"github.com/pkg/errors"

	"github.com/gitgate/gitgate/audit"
	"github.com/gitgate/gitgate/exterror"
	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/repos"
)

type roleRename struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// RenameRepositoryRole moves every discrete permission from one
// repository name to another, across all users and teams.
func RenameRepositoryRole(c *gin.Context) {
	in := new(roleRename)
	if err := c.BindJSON(in); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	if in.Old == "" || in.New == "" {
		c.Error(exterror.Create(http.StatusBadRequest,
			errors.New("old and new repository names are required")))
		return
	}
	if !realm.FromContext(c).RenameRepositoryRole(
		repos.Normalize(in.Old), repos.Normalize(in.New)) {
		c.Error(exterror.Append(errors.New("realm write failed"), "Renaming repository role"))
		return
	}
	c.String(http.StatusNoContent, "")
}

// DeleteRepositoryRole strips a repository's discrete permission from
// every user and team, leaving the principals in place.
func DeleteRepositoryRole(c *gin.Context) {
	name := repos.Normalize(c.Param("name"))
	if !realm.FromContext(c).DeleteRepositoryRole(name) {
		c.Error(exterror.Append(errors.New("realm write failed"), "Deleting repository role"))
		return
	}
	c.String(http.StatusNoContent, "")
}

// GetConfigurationSubtree returns the named fragment of every
// repository's configuration document, keyed by repository.
func GetConfigurationSubtree(c *gin.Context) {
	path := c.Param("path")
	all, err := repos.FromContext(c).All()
	if err != nil {
		c.Error(exterror.Append(err, "Listing repositories"))
		return
	}
	body := make(map[string]interface{})
	for _, r := range all {
		body[r.Name] = configSubtree(r, path)
	}
	IndentedJSON(c, http.StatusOK, body)
}

func configSubtree(r *model.Repo, path string) interface{} {
	text, err := json.Marshal(r)
	if err != nil {
		return err.Error()
	}
	var doc interface{}
	if err := json.Unmarshal(text, &doc); err != nil {
		return err.Error()
	}
	node, err := jsonpointer.Get(doc, path)
	if err != nil {
		return err.Error()
	}
	return node
}

// GetAuditTrail returns recent access decisions, optionally filtered
// to one repository.
func GetAuditTrail(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		c.Error(exterror.Create(http.StatusBadRequest, errors.New("invalid limit")))
		return
	}

	var events []*audit.Event
	if repo := c.Query("repo"); repo != "" {
		events, err = audit.FromContext(c).ListRepo(repos.Normalize(repo), limit)
	} else {
		events, err = audit.FromContext(c).List(limit)
	}
	if err != nil {
		c.Error(exterror.Append(err, "Listing audit events"))
		return
	}
	IndentedJSON(c, http.StatusOK, events)
}

// checkPermissionCoherence rejects a discrete permission that cannot
// satisfy the target repository's restriction floor. Repositories
// with no stored configuration are not validated.
func checkPermissionCoherence(c *gin.Context, repository string, p model.AccessPermission) error {
	r, err := repos.FromContext(c).Get(repos.Normalize(repository))
	if err != nil {
		return nil
	}
	if r.AccessRestriction == model.RestrictionNone {
		return nil
	}
	if !r.AccessRestriction.IsValidPermission(p) {
		return exterror.Create(http.StatusBadRequest,
			errors.Errorf("permission %s cannot satisfy the %s restriction on %s",
				p.Code(), r.AccessRestriction, r.Name))
	}
	return nil
}
