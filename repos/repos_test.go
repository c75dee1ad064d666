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
	"testing"
	"time"

	"github.com/gitgate/gitgate/cache"
	"github.com/gitgate/gitgate/model"
)

func tempManager(t *testing.T) (Manager, func()) {
	dir, err := ioutil.TempDir("", "repos")
	if err != nil {
		t.Fatal(err)
	}
	return NewFS(dir, cache.NewTTL(time.Minute)), func() { os.RemoveAll(dir) }
}

func TestValidateName(t *testing.T) {
	valid := []string{
		"myrepo",
		"myrepo.git",
		"~james/myrepo",
		"project/sub/repo",
		"a-b_c.d",
	}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("%q should be valid: %s", name, err)
		}
	}
	invalid := []string{
		"",
		"/absolute",
		"../escape",
		"a/../b",
		"a//b",
		"-leading",
		"a\\b",
		"spaced name",
	}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("%q should be invalid", name)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"/MyRepo.git/":   "myrepo",
		"~James/MyRepo":  "~james/myrepo",
		"docs":           "docs",
		"group/repo.git": "group/repo",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestCreateGetUpdate(t *testing.T) {
	m, cleanup := tempManager(t)
	defer cleanup()

	r := model.NewRepo("~james/myrepo")
	r.AccessRestriction = model.RestrictionView
	r.AuthorizationControl = model.AuthorizationNamed
	r.AddOwner("james")
	if err := m.Create(r); err != nil {
		t.Fatalf("create: %s", err)
	}
	if err := m.Create(r); err == nil {
		t.Error("duplicate create must fail")
	}

	got, err := m.Get("~James/MyRepo.git")
	if err != nil {
		t.Fatalf("get: %s", err)
	}
	if got.AccessRestriction != model.RestrictionView {
		t.Errorf("restriction lost: %v", got.AccessRestriction)
	}
	if !got.IsOwner("james") {
		t.Error("owner lost")
	}

	got.Frozen = true
	if err := m.Update(got); err != nil {
		t.Fatalf("update: %s", err)
	}
	again, err := m.Get("~james/myrepo")
	if err != nil {
		t.Fatal(err)
	}
	if !again.Frozen {
		t.Error("update not visible")
	}
}

func TestGetMissing(t *testing.T) {
	m, cleanup := tempManager(t)
	defer cleanup()

	if _, err := m.Get("nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := m.Update(model.NewRepo("nope")); err != ErrNotFound {
		t.Errorf("update of missing repo: got %v", err)
	}
	if err := m.Delete("nope"); err != ErrNotFound {
		t.Errorf("delete of missing repo: got %v", err)
	}
}

func TestCachedCopiesAreIndependent(t *testing.T) {
	m, cleanup := tempManager(t)
	defer cleanup()

	r := model.NewRepo("shared")
	r.AddOwner("james")
	if err := m.Create(r); err != nil {
		t.Fatal(err)
	}

	first, _ := m.Get("shared")
	first.AddOwner("mallory")

	second, _ := m.Get("shared")
	if second.IsOwner("mallory") {
		t.Error("mutating a returned copy leaked into the cache")
	}
}

func TestAll(t *testing.T) {
	m, cleanup := tempManager(t)
	defer cleanup()

	for _, name := range []string{"zeta", "alpha", "~james/personal"} {
		if err := m.Create(model.NewRepo(name)); err != nil {
			t.Fatal(err)
		}
	}
	all, err := m.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 repos, got %d", len(all))
	}
	if all[0].Name != "alpha" || all[2].Name != "~james/personal" {
		t.Errorf("not sorted: %v", []string{all[0].Name, all[1].Name, all[2].Name})
	}
}
