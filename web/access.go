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
package web

import (
	"strings"

	"github.com/gitgate/gitgate/model"
)

// Git smart-HTTP actions.
const (
	ActionUploadPack  = "git-upload-pack"
	ActionReceivePack = "git-receive-pack"
)

// Known protocol suffixes, longest first. The repository name is
// everything before the first suffix found in the request path.
var gitSuffixes = []string{
	"/git-receive-pack",
	"/git-upload-pack",
	"/info/refs",
	"/objects",
	"/HEAD",
}

// extractRepoName splits a request path into the repository name and
// the remaining protocol suffix. A path with no known suffix is a
// bare repository reference.
func extractRepoName(path string) (string, string) {
	for _, suffix := range gitSuffixes {
		if i := strings.Index(path, suffix); i >= 0 {
			return strings.Trim(path[:i], "/"), path[i:]
		}
	}
	return strings.Trim(path, "/"), ""
}

// classifyAction maps the protocol suffix and the smart-HTTP
// discovery parameter to an action. Unrecognized suffixes take the
// read path, which authenticates before serving anything.
func classifyAction(rest, service string) string {
	switch {
	case strings.HasPrefix(rest, "/git-receive-pack"):
		return ActionReceivePack
	case strings.HasPrefix(rest, "/git-upload-pack"):
		return ActionUploadPack
	case service == ActionReceivePack:
		return ActionReceivePack
	case service == ActionUploadPack:
		return ActionUploadPack
	default:
		return ActionUploadPack
	}
}

// RequiresAuthentication reports whether the repository's restriction
// level demands a named identity for the action. Reads need
// credentials from CLONE upward, writes from PUSH upward.
func RequiresAuthentication(r *model.Repo, action string) bool {
	if action == ActionReceivePack {
		return r.AccessRestriction.AtLeast(model.RestrictionPush)
	}
	return r.AccessRestriction.AtLeast(model.RestrictionClone)
}

// IsActionAllowed performs the identity-independent structural
// checks: the git service must be enabled, and a frozen repository
// accepts no pushes from anyone.
func IsActionAllowed(serviceEnabled bool, r *model.Repo, action string) bool {
	if !serviceEnabled {
		return false
	}
	if action == ActionReceivePack && r.Frozen {
		return false
	}
	return true
}

// CanAccess is the identity-aware permission check. Administrators,
// owners, and team grants are folded in by the model's permission
// resolution.
func CanAccess(r *model.Repo, u *model.User, action string) bool {
	if action == ActionReceivePack {
		return u.CanPush(r)
	}
	return u.CanClone(r)
}
