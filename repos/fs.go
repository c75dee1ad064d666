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
package repos

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/gitgate/gitgate/cache"
	"github.com/gitgate/gitgate/hjson"
	"github.com/gitgate/gitgate/model"
)

// configFile is the access configuration document inside each bare
// repository directory. The document is human json so operators can
// edit it in place.
const configFile = "gitgate.hjson"

type fsManager struct {
	root  string
	cache cache.Cache
}

// NewFS returns a Manager that keeps each repository's configuration
// in a document inside its bare directory under root. Lookups are
// cached; mutations refresh the cache.
func NewFS(root string, c cache.Cache) Manager {
	return &fsManager{root: root, cache: c}
}

func (m *fsManager) path(name string) string {
	return filepath.Join(m.root, filepath.FromSlash(Normalize(name))+".git", configFile)
}

func (m *fsManager) Get(name string) (*model.Repo, error) {
	key := Normalize(name)
	if cached, err := m.cache.Get(key); err == nil {
		return cached.(*model.Repo).Copy(), nil
	}

	data, err := ioutil.ReadFile(m.path(name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading configuration for %s", name)
	}
	r := new(model.Repo)
	if err := hjson.Unmarshal(data, r); err != nil {
		return nil, errors.Wrapf(err, "parsing configuration for %s", name)
	}
	if r.Name == "" {
		r.Name = key
	}
	m.cache.Set(key, r.Copy())
	return r, nil
}

func (m *fsManager) Create(r *model.Repo) error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if _, err := m.Get(r.Name); err == nil {
		return errors.Errorf("repository %s already exists", r.Name)
	} else if err != ErrNotFound {
		return err
	}
	path := m.path(r.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrapf(err, "provisioning %s", r.Name)
	}
	return m.store(r)
}

func (m *fsManager) Update(r *model.Repo) error {
	if _, err := m.Get(r.Name); err != nil {
		return err
	}
	return m.store(r)
}

func (m *fsManager) store(r *model.Repo) error {
	data, err := hjson.Marshal(r)
	if err != nil {
		return errors.Wrapf(err, "encoding configuration for %s", r.Name)
	}
	if err := ioutil.WriteFile(m.path(r.Name), data, 0640); err != nil {
		return errors.Wrapf(err, "writing configuration for %s", r.Name)
	}
	m.cache.Set(Normalize(r.Name), r.Copy())
	return nil
}

func (m *fsManager) Delete(name string) error {
	if err := os.Remove(m.path(name)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return errors.Wrapf(err, "deleting configuration for %s", name)
	}
	m.cache.Delete(Normalize(name))
	return nil
}

func (m *fsManager) All() ([]*model.Repo, error) {
	var all []*model.Repo
	err := filepath.Walk(m.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == m.root {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() || info.Name() != configFile {
			return nil
		}
		rel, err := filepath.Rel(m.root, filepath.Dir(path))
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".git")
		r, err := m.Get(name)
		if err != nil {
			return err
		}
		all = append(all, r)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing repository configurations")
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all, nil
}
