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

// Package web serves the git smart-HTTP surface: every request is
// named, classified, and authorized before a byte reaches the
// backend.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gitgate/gitgate/audit"
	"github.com/gitgate/gitgate/auth"
	"github.com/gitgate/gitgate/exterror"
	"github.com/gitgate/gitgate/gc"
	"github.com/gitgate/gitgate/logstats"
	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/repos"
)

// GitFilter guards the git wire protocol. Every decision branch ends
// in a terminal response; only repository auto-creation mutates state
// before the request is handed to Next.
type GitFilter struct {
	Auth  auth.Strategy
	GC    *gc.Coordinator
	Repos repos.Manager
	Audit audit.Store
	Next  http.Handler

	ServiceEnabled       bool
	AllowCreateOnPush    bool
	DefaultRestriction   model.AccessRestrictionType
	DefaultAuthorization model.AuthorizationControl
}

// Handle processes one git request end to end.
func (f *GitFilter) Handle(c *gin.Context) {
	path := c.Param("path")
	if path == "" {
		path = c.Request.URL.Path
	}
	name, rest := extractRepoName(path)
	if name == "" {
		c.String(http.StatusNotFound, "not found")
		return
	}
	name = repos.Normalize(name)
	action := classifyAction(rest, c.Query("service"))

	if f.GC.IsCollecting(name) {
		f.reject(c, exterror.Locked(errors.New("repository under maintenance")), &audit.Event{
			Repo:   name,
			Action: action,
			Result: audit.ResultLocked,
			Reason: "maintenance in progress",
		})
		return
	}

	user, err := f.Auth.Authenticate(c.Request)
	if err != nil {
		f.challenge(c, name, action, err.Error())
		return
	}
	login := ""
	if user != nil {
		login = user.Login
	}

	repo, err := f.Repos.Get(name)
	if err == repos.ErrNotFound {
		repo = f.createOnPush(c, name, action, user)
		if repo == nil {
			return
		}
	} else if err != nil {
		log.Errorf("loading repository %s: %s", name, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	if !IsActionAllowed(f.ServiceEnabled, repo, action) {
		f.reject(c, exterror.Forbidden(errors.New("access denied")), &audit.Event{
			Login:  login,
			Repo:   name,
			Action: action,
			Result: audit.ResultDenied,
			Reason: "operation not permitted on this repository",
		})
		return
	}

	if RequiresAuthentication(repo, action) {
		if user == nil {
			f.challenge(c, name, action, "authentication required")
			return
		}
		if !CanAccess(repo, user, action) {
			f.deny(c, repo, &audit.Event{
				Login:  login,
				Repo:   name,
				Action: action,
				Result: audit.ResultDenied,
				Reason: "insufficient permission",
			})
			return
		}
	}

	f.pass(c, user)
}

// createOnPush handles a request for a repository with no stored
// configuration. It either provisions the repository and returns its
// model, or finishes the request and returns nil.
func (f *GitFilter) createOnPush(c *gin.Context, name, action string, user *model.User) *model.Repo {
	login := ""
	if user != nil {
		login = user.Login
	}
	if action != ActionReceivePack || !f.AllowCreateOnPush {
		f.reject(c, exterror.NotFound(errors.New("not found")), &audit.Event{
			Login:  login,
			Repo:   name,
			Action: action,
			Result: audit.ResultDenied,
			Reason: "repository not found",
		})
		return nil
	}
	if user == nil {
		// creation permission cannot be checked for an anonymous
		// pusher, so demand credentials before touching anything
		f.challenge(c, name, action, "authentication required to create repository")
		return nil
	}
	if err := repos.ValidateName(name); err != nil {
		f.reject(c, exterror.NotFound(errors.New("not found")), &audit.Event{
			Login:  login,
			Repo:   name,
			Action: action,
			Result: audit.ResultDenied,
			Reason: err.Error(),
		})
		return nil
	}
	if !user.CanCreateRepo(name) {
		f.reject(c, exterror.NotFound(errors.New("not found")), &audit.Event{
			Login:  login,
			Repo:   name,
			Action: action,
			Result: audit.ResultDenied,
			Reason: "not permitted to create repository",
		})
		return nil
	}

	repo := model.NewRepo(name)
	repo.AddOwner(user.Login)
	if repo.IsUsersPersonalRepository(user.Login) {
		// personal repositories are private regardless of the
		// server-wide defaults
		repo.AccessRestriction = model.RestrictionView
		repo.AuthorizationControl = model.AuthorizationNamed
	} else {
		repo.AccessRestriction = f.DefaultRestriction
		repo.AuthorizationControl = f.DefaultAuthorization
	}
	if err := f.Repos.Create(repo); err != nil {
		log.Errorf("creating repository %s for %s: %s", name, user.Login, err)
		f.reject(c, exterror.NotFound(errors.New("not found")), &audit.Event{
			Login:  login,
			Repo:   name,
			Action: action,
			Result: audit.ResultDenied,
			Reason: "repository creation failed",
		})
		return nil
	}

	log.Infof("created repository %s for %s on first push", name, user.Login)
	logstats.RecordCreate(name)
	f.record(c, &audit.Event{
		Login:  login,
		Repo:   name,
		Action: action,
		Result: audit.ResultCreated,
	})
	return repo
}

// challenge finishes the request with an authentication demand.
func (f *GitFilter) challenge(c *gin.Context, name, action, reason string) {
	log.Warnf("challenging %s on %s: %s", action, name, reason)
	logstats.RecordChallenge(name)
	f.record(c, &audit.Event{
		Repo:   name,
		Action: action,
		Result: audit.ResultChallenged,
		Reason: reason,
	})
	c.Header("WWW-Authenticate", `Basic realm="gitgate"`)
	c.String(http.StatusUnauthorized, "authentication required")
	c.Abort()
}

// deny finishes the request after a permission check failed. A
// view-restricted repository must be indistinguishable from a
// missing one to callers without access.
func (f *GitFilter) deny(c *gin.Context, repo *model.Repo, event *audit.Event) {
	ext := exterror.Forbidden(errors.New("access denied"))
	if repo.AccessRestriction == model.RestrictionView {
		ext = exterror.NotFound(errors.New("not found"))
	}
	f.reject(c, ext, event)
}

func (f *GitFilter) reject(c *gin.Context, ext exterror.ExtError, event *audit.Event) {
	log.Warnf("rejected %s on %s for %q: %s", event.Action, event.Repo, event.Login, event.Reason)
	logstats.RecordDenial(event.Repo)
	f.record(c, event)
	c.String(ext.Status, ext.Error())
	c.Abort()
}

// pass hands the authorized request to the backend with the resolved
// identity attached.
func (f *GitFilter) pass(c *gin.Context, user *model.User) {
	if user != nil {
		c.Set("user", user)
		c.Request.Header.Set("X-Forwarded-User", user.Login)
		logstats.RecordUser(user.Login)
	} else {
		c.Request.Header.Del("X-Forwarded-User")
	}
	logstats.RecordGrant()
	f.Next.ServeHTTP(c.Writer, c.Request)
}

func (f *GitFilter) record(c *gin.Context, event *audit.Event) {
	event.Addr = c.ClientIP()
	if err := f.Audit.Record(event); err != nil {
		log.Errorf("recording audit event: %s", err)
	}
}
