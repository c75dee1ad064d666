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

// Package repos manages repository access configurations.
package repos

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/gitgate/gitgate/model"
)

// ErrNotFound reports a repository with no stored configuration.
var ErrNotFound = errors.New("repository not found")

// Manager is the store of repository access configurations.
type Manager interface {
	// Get returns the configuration for a repository, or ErrNotFound.
	Get(name string) (*model.Repo, error)

	// Create stores the configuration for a new repository and
	// provisions its directory on disk.
	Create(r *model.Repo) error

	// Update replaces a repository's stored configuration.
	Update(r *model.Repo) error

	// Delete removes a repository's stored configuration.
	Delete(name string) error

	// All returns every stored configuration, sorted by name.
	All() ([]*model.Repo, error)
}

var namePattern = regexp.MustCompile(`^~?[a-zA-Z0-9][a-zA-Z0-9._-]*(/[a-zA-Z0-9~][a-zA-Z0-9._-]*)*$`)

// ValidateName rejects repository names that could escape the
// repository root or collide with the metadata files.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("empty repository name")
	}
	if strings.Contains(name, "..") {
		return errors.Errorf("invalid repository name %q", name)
	}
	if !namePattern.MatchString(name) {
		return errors.Errorf("invalid repository name %q", name)
	}
	return nil
}

// Normalize maps a request-path repository name to its stored key:
// lowercased, no surrounding slashes, no .git suffix.
func Normalize(name string) string {
	name = strings.Trim(name, "/")
	name = strings.TrimSuffix(name, ".git")
	return strings.ToLower(name)
}

const key = "repos"

// Setter defines a context that enables setting values.
type Setter interface {
	Set(string, interface{})
}

// FromContext returns the Manager associated with this context.
func FromContext(c context.Context) Manager {
	return c.Value(key).(Manager)
}

// ToContext adds the Manager to this context if it supports
// the Setter interface.
func ToContext(c Setter, m Manager) {
	c.Set(key, m)
}
