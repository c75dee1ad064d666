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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gitgate/gitgate/auth"
	"github.com/gitgate/gitgate/envvars"
	"github.com/gitgate/gitgate/exterror"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/router/middleware/session"
	"github.com/gitgate/gitgate/shared/token"
)

const sessionDuration = 72 * time.Hour

// Login verifies realm credentials and opens a browser session. The
// response carries the session token, a csrf token, and the user
// record.
func Login(c *gin.Context) {
	login := c.PostForm("login")
	password := c.PostForm("password")

	u := realm.FromContext(c).GetUser(login)
	if u == nil || u.Disabled || !auth.VerifyPassword(u, password) {
		log.Warnf("failed login attempt for %q from %s", login, c.ClientIP())
		c.Error(exterror.Unauthorized(errors.New("invalid credentials")))
		return
	}

	secret := envvars.Env.Server.Secret
	exp := time.Now().Add(sessionDuration).Unix()
	sess, err := token.New(token.SessToken, u.Login).SignExpires(secret, exp)
	if err != nil {
		c.Error(exterror.Append(err, "Signing session token"))
		return
	}
	csrf, err := token.New(token.CsrfToken, u.Login).Sign(secret)
	if err != nil {
		c.Error(exterror.Append(err, "Signing csrf token"))
		return
	}

	c.SetCookie("user_sess", sess, int(sessionDuration/time.Second), "/", "", false, true)
	IndentedJSON(c, http.StatusOK, gin.H{
		"access_token": sess,
		"csrf":         csrf,
		"user":         u,
	})
}

// Logout discards the browser session.
func Logout(c *gin.Context) {
	c.SetCookie("user_sess", "", -1, "/", "", false, true)
	c.String(http.StatusOK, "")
}

// GetUserToken mints a long-lived API token for the session user.
func GetUserToken(c *gin.Context) {
	u := session.User(c)
	t, err := token.New(token.UserToken, u.Login).Sign(envvars.Env.Server.Secret)
	if err != nil {
		c.Error(exterror.Append(err, "Signing user token"))
		return
	}
	IndentedJSON(c, http.StatusOK, gin.H{"access_token": t})
}
