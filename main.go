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
package main

import (
	"flag"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gitgate/gitgate/audit"
	"github.com/gitgate/gitgate/audit/datastore"
	"github.com/gitgate/gitgate/cache"
	"github.com/gitgate/gitgate/envvars"
	"github.com/gitgate/gitgate/gc"
	"github.com/gitgate/gitgate/logstats"
	"github.com/gitgate/gitgate/realm/config"
	"github.com/gitgate/gitgate/repos"
	"github.com/gitgate/gitgate/router"
	"github.com/gitgate/gitgate/version"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func setLogLevel(level string) {
	switch level {
	case "panic":
		logrus.SetLevel(logrus.PanicLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.Fatal("Unrecognized log level ", level)
	}
}

// backend returns the handler that serves requests cleared by the
// access filter. When no downstream is configured every cleared
// request answers 502, which keeps the filter testable on its own.
func backend() http.Handler {
	if envvars.Env.Git.BackendURL == "" {
		logrus.Warn("GIT_BACKEND_URL is not set, git requests will not be served")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no git backend configured", http.StatusBadGateway)
		})
	}
	target, err := url.Parse(envvars.Env.Git.BackendURL)
	if err != nil {
		logrus.Fatal("Parsing GIT_BACKEND_URL: ", err)
	}
	return httputil.NewSingleHostReverseProxy(target)
}

func auditStore() audit.Store {
	if envvars.Env.Db.Driver == "" {
		return audit.Discard()
	}
	return datastore.Get()
}

func startService() {

	err := envvars.Validate()
	if err != nil {
		logrus.Fatal(err)
	}

	setLogLevel(envvars.Env.Monitor.LogLevel)

	rlm := config.New(envvars.Env.Realm.File)
	manager := repos.NewFS(envvars.Env.Git.RepoRoot, cache.Default())

	logstats.Start(manager)

	handler := router.Load(router.Deps{
		Realm:   rlm,
		Repos:   manager,
		GC:      gc.NewCoordinator(),
		Audit:   auditStore(),
		Backend: backend(),
	})

	logrus.Infof("Starting %s service on %s", envvars.Env.Branding.ShortName, time.Now().Format(time.RFC1123))

	if envvars.Env.Server.Cert != "" {
		logrus.Fatal(
			http.ListenAndServeTLS(envvars.Env.Server.Addr, envvars.Env.Server.Cert, envvars.Env.Server.Key, handler),
		)
	} else {
		logrus.Fatal(
			http.ListenAndServe(envvars.Env.Server.Addr, handler),
		)
	}

}

func main() {
	ver := flag.Bool("version", false, "print version")
	env := flag.Bool("env", false, "print environment variables")
	help := flag.Bool("help", false, "print help information")
	flag.Parse()
	if *help {
		flag.PrintDefaults()
	} else if *ver {
		fmt.Println(version.Version)
	} else if *env {
		envvars.Usage()
	} else {
		startService()
	}
}
