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
package router

import (
	"net/http"
	"net/http/pprof"
	rpprof "runtime/pprof"
	"time"

	"github.com/gitgate/gitgate/api"
	"github.com/gitgate/gitgate/audit"
	"github.com/gitgate/gitgate/auth"
	"github.com/gitgate/gitgate/envvars"
	"github.com/gitgate/gitgate/gc"
	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/repos"
	"github.com/gitgate/gitgate/router/middleware"
	"github.com/gitgate/gitgate/router/middleware/session"
	"github.com/gitgate/gitgate/web"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the services the router wires into every request.
type Deps struct {
	Realm realm.Realm
	Repos repos.Manager
	GC    *gc.Coordinator
	Audit audit.Store

	// Backend receives git requests that pass the access filter.
	Backend http.Handler
}

// Load creates a new HTTP handler
func Load(d Deps) http.Handler {
	e := gin.New()
	sunlight := envvars.Env.Monitor.Sunlight
	e.Use(middleware.Recovery(sunlight))

	e.Use(middleware.Ginrus(logrus.StandardLogger(), time.RFC3339, true))
	e.Use(middleware.Realm(d.Realm))
	e.Use(middleware.Repos(d.Repos))
	e.Use(middleware.Audit(d.Audit))
	e.Use(middleware.ExtError())
	if sunlight {
		e.Use(middleware.Version)
	}
	e.Use(session.SetUser)

	e.POST("/login", api.Login)
	e.GET("/logout", api.Logout)

	e.GET("/api/user", session.UserMust, api.GetSelf)
	e.GET("/api/user/token", session.UserMust, api.GetUserToken)

	adminGroup := e.Group("/api/admin", session.UserMust, session.AdminMust)
	adminGroup.GET("users", api.GetAllUsers)
	adminGroup.POST("users", api.PostUser)
	adminGroup.GET("users/:login", api.GetUser)
	adminGroup.PUT("users/:login", api.PutUser)
	adminGroup.DELETE("users/:login", api.DeleteUser)

	adminGroup.GET("teams", api.GetAllTeams)
	adminGroup.POST("teams", api.PostTeam)
	adminGroup.GET("teams/:name", api.GetTeam)
	adminGroup.PUT("teams/:name", api.PutTeam)
	adminGroup.DELETE("teams/:name", api.DeleteTeam)

	adminGroup.GET("repos", api.GetAllRepos)
	adminGroup.POST("repos", api.PostRepo)
	adminGroup.GET("repo/*name", api.GetRepo)
	adminGroup.PUT("repo/*name", api.PutRepo)
	adminGroup.DELETE("repo/*name", api.DeleteRepo)
	adminGroup.GET("principals/*name", api.GetRepoPrincipals)

	adminGroup.PUT("roles", api.RenameRepositoryRole)
	adminGroup.DELETE("roles/*name", api.DeleteRepositoryRole)

	adminGroup.GET("audit", api.GetAuditTrail)
	adminGroup.GET("config/subtree/*path", api.GetConfigurationSubtree)

	if sunlight {
		e.GET("/version", web.Version)
		e.GET("/debug/pprof/", gin.WrapF(pprof.Index))
		e.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		e.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		e.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		e.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
		for _, p := range rpprof.Profiles() {
			e.GET("/debug/pprof/"+p.Name(), gin.WrapH(pprof.Handler(p.Name())))
		}
	}

	filter := gitFilter(d)
	e.NoRoute(filter.Handle)

	return e
}

func gitFilter(d Deps) *web.GitFilter {
	strategies := []auth.Strategy{
		auth.Basic(d.Realm),
		auth.Cookie(d.Realm),
	}
	if envvars.Env.Git.RequireClientCert {
		strategies = append([]auth.Strategy{auth.ClientCert(d.Realm)}, strategies...)
	}
	return &web.GitFilter{
		Auth:  auth.Chain(strategies...),
		GC:    d.GC,
		Repos: d.Repos,
		Audit: d.Audit,
		Next:  d.Backend,

		ServiceEnabled:       envvars.Env.Git.EnableService,
		AllowCreateOnPush:    envvars.Env.Git.AllowCreateOnPush,
		DefaultRestriction:   model.RestrictionFromName(envvars.Env.Git.DefaultRestriction),
		DefaultAuthorization: model.AuthorizationFromName(envvars.Env.Git.DefaultAuthorization),
	}
}
