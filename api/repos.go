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
	"github.com/gitgate/gitgate/repos"
)

// GetAllRepos lists every repository access configuration.
func GetAllRepos(c *gin.Context) {
	all, err := repos.FromContext(c).All()
	if err != nil {
		c.Error(exterror.Append(err, "Listing repositories"))
		return
	}
	IndentedJSON(c, http.StatusOK, all)
}

// GetRepo gets one repository's access configuration.
func GetRepo(c *gin.Context) {
	name := repos.Normalize(c.Param("name"))
	r, err := getRepo(c, name)
	if err != nil {
		c.Error(err)
		return
	}
	IndentedJSON(c, http.StatusOK, r)
}

// PostRepo provisions a repository with an explicit configuration.
func PostRepo(c *gin.Context) {
	in := new(model.Repo)
	if err := c.BindJSON(in); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	in.Name = repos.Normalize(in.Name)
	if err := repos.ValidateName(in.Name); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	if err := repos.FromContext(c).Create(in); err != nil {
		c.Error(exterror.Append(err, fmt.Sprintf("Creating repository %s", in.Name)))
		return
	}
	IndentedJSON(c, http.StatusCreated, in)
}

// PutRepo replaces a repository's access configuration. The name in
// the path wins over any name in the body.
func PutRepo(c *gin.Context) {
	name := repos.Normalize(c.Param("name"))
	if _, err := getRepo(c, name); err != nil {
		c.Error(err)
		return
	}
	in := new(model.Repo)
	if err := c.BindJSON(in); err != nil {
		c.Error(exterror.Create(http.StatusBadRequest, err))
		return
	}
	in.Name = name
	if err := repos.FromContext(c).Update(in); err != nil {
		c.Error(exterror.Append(err, fmt.Sprintf("Updating repository %s", name)))
		return
	}
	IndentedJSON(c, http.StatusOK, in)
}

// DeleteRepo removes a repository's access configuration and strips
// its discrete permissions from every principal.
func DeleteRepo(c *gin.Context) {
	name := repos.Normalize(c.Param("name"))
	if err := repos.FromContext(c).Delete(name); err != nil {
		if err == repos.ErrNotFound {
			c.Error(exterror.NotFound(errors.Errorf("repository %s not found", name)))
			return
		}
		c.Error(exterror.Append(err, fmt.Sprintf("Deleting repository %s", name)))
		return
	}
	if !realm.FromContext(c).DeleteRepositoryRole(name) {
		c.Error(exterror.Append(errors.New("realm write failed"),
			fmt.Sprintf("Stripping permissions for %s", name)))
		return
	}
	c.String(http.StatusNoContent, "")
}

// GetRepoPrincipals lists the users and teams holding a discrete
// permission on the repository.
func GetRepoPrincipals(c *gin.Context) {
	name := repos.Normalize(c.Param("name"))
	if _, err := getRepo(c, name); err != nil {
		c.Error(err)
		return
	}
	rlm := realm.FromContext(c)
	IndentedJSON(c, http.StatusOK, gin.H{
		"users": rlm.LoginsForRepository(name),
		"teams": rlm.TeamNamesForRepository(name),
	})
}

func getRepo(c *gin.Context, name string) (*model.Repo, error) {
	r, err := repos.FromContext(c).Get(name)
	if err == repos.ErrNotFound {
		return nil, exterror.NotFound(errors.Errorf("repository %s not found", name))
	}
	if err != nil {
		return nil, exterror.Append(err, fmt.Sprintf("Getting repository %s", name))
	}
	return r, nil
}
