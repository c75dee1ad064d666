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
package envvars

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gitgate/gitgate/set"

	"github.com/ianschenck/envflag"
	"github.com/mspiegel/go-multierror"
)

type EnvValues struct {
	// Server configuration
	Server struct {
		Addr   string
		Cert   string
		Key    string
		Secret string
	}
	// Realm (user/team) store configuration
	Realm struct {
		File string
	}
	// Git hosting configuration
	Git struct {
		RepoRoot             string
		BackendURL           string
		EnableService        bool
		AllowCreateOnPush    bool
		DefaultRestriction   string
		DefaultAuthorization string
		RequireClientCert    bool
	}
	// Audit database configuration
	Db struct {
		Driver     string
		Datasource string
	}
	// External (user-facing) customization
	Branding struct {
		Name      string
		ShortName string
	}
	// Logging/debug config
	Monitor struct {
		LogLevel  string
		Sunlight  bool
		UaList    string
		LogPeriod time.Duration
	}
	// Caching config
	Cache struct {
		CacheTTL time.Duration
	}
	// Values used by the integration runner
	Test struct {
		AdminLogin    string
		AdminPassword string
	}
}

var Env EnvValues

var logLevels = set.New("debug", "info", "warn", "error", "fatal", "panic")

var restrictions = set.New("NONE", "PUSH", "CLONE", "VIEW")

var authorizations = set.New("AUTHENTICATED", "NAMED")

func init() {
	configure()
}

func configure() {
	envflag.StringVar(&Env.Server.Addr, "SERVER_ADDR", ":8000", "Server ip address and port")
	envflag.StringVar(&Env.Server.Cert, "SERVER_CERT", "", "Path to SSL certificate")
	envflag.StringVar(&Env.Server.Key, "SERVER_KEY", "", "SSL certificate key")
	envflag.StringVar(&Env.Server.Secret, "SERVER_SECRET", "", "Secret for signing API session tokens. Required")

	envflag.StringVar(&Env.Realm.File, "REALM_FILE", "users.conf", "Path to the user/team realm file")

	envflag.StringVar(&Env.Git.RepoRoot, "GIT_REPO_ROOT", "repositories", "Root directory of hosted repositories")
	envflag.StringVar(&Env.Git.BackendURL, "GIT_BACKEND_URL", "", "URL of the downstream git smart-http backend")
	envflag.BoolVar(&Env.Git.EnableService, "GIT_ENABLE_SERVICE", true, "Serve git-upload-pack and git-receive-pack")
	envflag.BoolVar(&Env.Git.AllowCreateOnPush, "GIT_ALLOW_CREATE_ON_PUSH", true, "Create missing repositories on push")
	envflag.StringVar(&Env.Git.DefaultRestriction, "GIT_DEFAULT_ACCESS_RESTRICTION", "PUSH", "One of NONE|PUSH|CLONE|VIEW")
	envflag.StringVar(&Env.Git.DefaultAuthorization, "GIT_DEFAULT_AUTHORIZATION_CONTROL", "NAMED", "One of AUTHENTICATED|NAMED")
	envflag.BoolVar(&Env.Git.RequireClientCert, "GIT_REQUIRE_CLIENT_CERT", false, "Require a client TLS certificate for git operations")

	envflag.StringVar(&Env.Db.Driver, "DB_DRIVER", "sqlite3", "One of sqlite3|postgres|mysql")
	envflag.StringVar(&Env.Db.Datasource, "DB_SOURCE", "gitgate.sqlite", "Audit database data source")

	envflag.StringVar(&Env.Branding.Name, "BRANDING_NAME", "gitgate", "Branding of this service")
	envflag.StringVar(&Env.Branding.ShortName, "BRANDING_SHORT_NAME", "gitgate", "Abbreviated branding of this service")

	envflag.StringVar(&Env.Monitor.LogLevel, "LOG_LEVEL", "info", "One of debug|info|warn|error|fatal|panic")
	envflag.BoolVar(&Env.Monitor.Sunlight, "GITGATE_SUNLIGHT", false, "Exposes additional endpoints")
	envflag.StringVar(&Env.Monitor.UaList, "BLACKLIST_USER_AGENTS", "", "Skip logging of these agents")
	envflag.DurationVar(&Env.Monitor.LogPeriod, "LOG_STATS_PERIOD", 0, "Period logging of statistics")

	envflag.DurationVar(&Env.Cache.CacheTTL, "CACHE_TTL", time.Minute*15, "Cache length for repository configurations")

	envflag.StringVar(&Env.Test.AdminLogin, "TEST_ADMIN_LOGIN", "", "Administrator login for the integration runner")
	envflag.StringVar(&Env.Test.AdminPassword, "TEST_ADMIN_PASSWORD", "", "Administrator password for the integration runner")

	envflag.Parse()

	Env.Monitor.LogLevel = strings.ToLower(Env.Monitor.LogLevel)
	Env.Git.DefaultRestriction = strings.ToUpper(Env.Git.DefaultRestriction)
	Env.Git.DefaultAuthorization = strings.ToUpper(Env.Git.DefaultAuthorization)
	Env.Git.BackendURL = strings.TrimRight(Env.Git.BackendURL, "/")
}

func Usage() {
	envflag.EnvironmentFlags.PrintDefaults()
}

func Validate() error {
	var errs error
	if Env.Server.Secret == "" {
		err := errors.New("Missing required environment variable SERVER_SECRET")
		errs = multierror.Append(errs, err)
	}
	if Env.Realm.File == "" {
		err := errors.New("Environment variable REALM_FILE is empty")
		errs = multierror.Append(errs, err)
	}
	if Env.Db.Driver == "" {
		err := errors.New("Missing required environment variable DB_DRIVER")
		errs = multierror.Append(errs, err)
	}
	if Env.Db.Datasource == "" {
		err := errors.New("Missing required environment variable DB_SOURCE")
		errs = multierror.Append(errs, err)
	}
	if (Env.Server.Cert != "" && Env.Server.Key == "") || (Env.Server.Cert == "" && Env.Server.Key != "") {
		err := errors.New("Both server SSL certificate and SSL key must be specified for SSL.")
		errs = multierror.Append(errs, err)
	}
	if !logLevels.Contains(Env.Monitor.LogLevel) {
		err := fmt.Errorf("Environment variable LOG_LEVEL '%s' must be one of: %s",
			Env.Monitor.LogLevel,
			"'debug', 'info', 'warn', 'error', 'fatal', 'panic'")
		errs = multierror.Append(errs, err)
	}
	if !restrictions.Contains(Env.Git.DefaultRestriction) {
		err := fmt.Errorf("Environment variable GIT_DEFAULT_ACCESS_RESTRICTION '%s' must be one of: %s",
			Env.Git.DefaultRestriction, "'NONE', 'PUSH', 'CLONE', 'VIEW'")
		errs = multierror.Append(errs, err)
	}
	if !authorizations.Contains(Env.Git.DefaultAuthorization) {
		err := fmt.Errorf("Environment variable GIT_DEFAULT_AUTHORIZATION_CONTROL '%s' must be one of: %s",
			Env.Git.DefaultAuthorization, "'AUTHENTICATED', 'NAMED'")
		errs = multierror.Append(errs, err)
	}
	return errs
}
