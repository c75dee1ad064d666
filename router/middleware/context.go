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
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gitgate/gitgate/audit"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/repos"
)

// Realm attaches the realm store to every request context.
func Realm(r realm.Realm) gin.HandlerFunc {
	return func(c *gin.Context) {
		realm.ToContext(c, r)
		c.Next()
	}
}

// Repos attaches the repository manager to every request context.
func Repos(m repos.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		repos.ToContext(c, m)
		c.Next()
	}
}

// Audit attaches the audit store to every request context.
func Audit(s audit.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		audit.ToContext(c, s)
		c.Next()
	}
}

