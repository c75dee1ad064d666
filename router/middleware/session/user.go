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
package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/gitgate/gitgate/envvars"
	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/shared/token"
)

func User(c *gin.Context) *model.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return u
}

func UserMust(c *gin.Context) {
	user := User(c)
	switch {
	case user == nil:
		c.String(http.StatusUnauthorized,
			"You must be logged in and authorized to use this endpoint")
		c.Abort()
	default:
		c.Next()
	}
}

func AdminMust(c *gin.Context) {
	user := User(c)
	switch {
	case user == nil:
		c.String(http.StatusUnauthorized,
			"You must be logged in and authorized to use this endpoint")
		c.Abort()
	case !user.IsAdmin():
		c.String(http.StatusForbidden,
			"You must be an administrator to use this endpoint")
		c.Abort()
	default:
		c.Next()
	}
}

func SetUser(c *gin.Context) {
	var user *model.User

	// authenticates the user via an authentication cookie
	// or an auth token.
	t, err := token.ParseRequest(c.Request, func(t *token.Token) (string, error) {
		user = realm.FromContext(c).GetUser(t.Text)
		if user == nil {
			return "", errors.Errorf("unknown login %s", t.Text)
		}
		if user.Disabled {
			return "", errors.Errorf("account %s is disabled", t.Text)
		}
		return envvars.Env.Server.Secret, nil
	})

	if err == nil {
		c.Set("user", user)

		// if this is a session token (ie not the API token)
		// this means the user is accessing with a web browser,
		// so we should implement CSRF protection measures.
		if t.Kind == token.SessToken {
			err = token.CheckCsrf(c.Request, func(t *token.Token) (string, error) {
				return envvars.Env.Server.Secret, nil
			})
			// if csrf token validation fails, exit immediately
			// with a not authorized error.
			if err != nil {
				c.String(http.StatusUnauthorized,
					"You must be logged in and authorized to use this endpoint")
				c.Abort()
				return
			}
		}
	}
	c.Next()
}
