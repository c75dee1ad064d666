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
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/franela/goblin"
	"github.com/gin-gonic/gin"

	"github.com/gitgate/gitgate/audit"
	"github.com/gitgate/gitgate/auth"
	"github.com/gitgate/gitgate/cache"
	"github.com/gitgate/gitgate/gc"
	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/realm/config"
	"github.com/gitgate/gitgate/repos"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	engine    *gin.Engine
	rlm       realm.Realm
	manager   repos.Manager
	collector *gc.Coordinator
	passed    *bool
	dir       string
}

func (f *fixture) cleanup() {
	os.RemoveAll(f.dir)
}

func (f *fixture) request(method, target, login, password string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, nil)
	if login != "" {
		r.SetBasicAuth(login, password)
	}
	*f.passed = false
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, r)
	return w
}

func setup(t *testing.T) *fixture {
	dir, err := ioutil.TempDir("", "web")
	if err != nil {
		t.Fatal(err)
	}

	rlm := config.New(filepath.Join(dir, "users.conf"))
	addTestUser := func(login string, mutate func(*model.User)) {
		u := model.NewUser(login)
		u.Password = "secret"
		if mutate != nil {
			mutate(u)
		}
		if !rlm.UpdateUser(u) {
			t.Fatalf("adding user %s failed", login)
		}
	}
	addTestUser("reader", func(u *model.User) {
		u.SetRepositoryPermission("private", model.PermissionClone)
	})
	addTestUser("stranger", nil)
	addTestUser("creator", func(u *model.User) {
		u.CanCreate = true
	})
	addTestUser("boss", func(u *model.User) {
		u.CanAdmin = true
	})

	manager := repos.NewFS(filepath.Join(dir, "repositories"), cache.NewTTL(time.Minute))
	addTestRepo := func(name string, restriction model.AccessRestrictionType) {
		r := model.NewRepo(name)
		r.AccessRestriction = restriction
		r.AuthorizationControl = model.AuthorizationNamed
		if err := manager.Create(r); err != nil {
			t.Fatalf("adding repo %s failed: %s", name, err)
		}
	}
	addTestRepo("open", model.RestrictionNone)
	addTestRepo("private", model.RestrictionClone)
	addTestRepo("vault", model.RestrictionView)

	passed := false
	collector := gc.NewCoordinator()
	filter := &GitFilter{
		Auth:                 auth.Chain(auth.Basic(rlm), auth.Cookie(rlm)),
		GC:                   collector,
		Repos:                manager,
		Audit:                audit.Discard(),
		Next:                 http.HandlerFunc(func(http.ResponseWriter, *http.Request) { passed = true }),
		ServiceEnabled:       true,
		AllowCreateOnPush:    true,
		DefaultRestriction:   model.RestrictionPush,
		DefaultAuthorization: model.AuthorizationAuthenticated,
	}
	engine := gin.New()
	engine.Any("/*path", filter.Handle)

	return &fixture{
		engine:    engine,
		rlm:       rlm,
		manager:   manager,
		collector: collector,
		passed:    &passed,
		dir:       dir,
	}
}

func TestGitFilter(t *testing.T) {

	g := goblin.Goblin(t)
	g.Describe("Git filter", func() {

		var f *fixture
		g.BeforeEach(func() {
			f = setup(t)
		})
		g.AfterEach(func() {
			f.cleanup()
		})

		g.Describe("on a restricted repository", func() {

			g.It("Should challenge anonymous reads", func() {
				w := f.request("GET", "/private.git/info/refs?service=git-upload-pack", "", "")
				g.Assert(w.Code).Equal(http.StatusUnauthorized)
				g.Assert(w.Header().Get("WWW-Authenticate") != "").IsTrue()
				g.Assert(*f.passed).IsFalse()
			})

			g.It("Should forbid users without permission", func() {
				w := f.request("GET", "/private.git/info/refs?service=git-upload-pack", "stranger", "secret")
				g.Assert(w.Code).Equal(http.StatusForbidden)
				g.Assert(*f.passed).IsFalse()
			})

			g.It("Should pass users with permission", func() {
				w := f.request("GET", "/private.git/info/refs?service=git-upload-pack", "reader", "secret")
				g.Assert(w.Code).Equal(http.StatusOK)
				g.Assert(*f.passed).IsTrue()
			})

			g.It("Should pass administrators", func() {
				w := f.request("GET", "/private.git/info/refs?service=git-upload-pack", "boss", "secret")
				g.Assert(w.Code).Equal(http.StatusOK)
				g.Assert(*f.passed).IsTrue()
			})

			g.It("Should challenge bad credentials", func() {
				w := f.request("GET", "/private.git/info/refs?service=git-upload-pack", "reader", "wrong")
				g.Assert(w.Code).Equal(http.StatusUnauthorized)
				g.Assert(*f.passed).IsFalse()
			})
		})

		g.Describe("on an unrestricted repository", func() {

			g.It("Should pass anonymous reads", func() {
				w := f.request("GET", "/open.git/info/refs?service=git-upload-pack", "", "")
				g.Assert(w.Code).Equal(http.StatusOK)
				g.Assert(*f.passed).IsTrue()
			})
		})

		g.Describe("on a view-restricted repository", func() {

			g.It("Should hide the repository from denied users", func() {
				w := f.request("GET", "/vault.git/info/refs?service=git-upload-pack", "stranger", "secret")
				g.Assert(w.Code).Equal(http.StatusNotFound)
				g.Assert(w.Body.String()).Equal("not found")
				g.Assert(*f.passed).IsFalse()
			})
		})

		g.Describe("repository creation on push", func() {

			g.It("Should challenge anonymous pushers without creating", func() {
				w := f.request("POST", "/newrepo.git/git-receive-pack", "", "")
				g.Assert(w.Code).Equal(http.StatusUnauthorized)
				_, err := f.manager.Get("newrepo")
				g.Assert(err).Equal(repos.ErrNotFound)
			})

			g.It("Should create for users with create permission", func() {
				w := f.request("POST", "/newrepo.git/git-receive-pack", "creator", "secret")
				g.Assert(w.Code).Equal(http.StatusOK)
				g.Assert(*f.passed).IsTrue()
				created, err := f.manager.Get("newrepo")
				g.Assert(err == nil).IsTrue()
				g.Assert(created.IsOwner("creator")).IsTrue()
				g.Assert(created.AccessRestriction).Equal(model.RestrictionPush)
			})

			g.It("Should default personal repositories to private", func() {
				w := f.request("POST", "/~creator/stuff.git/git-receive-pack", "creator", "secret")
				g.Assert(w.Code).Equal(http.StatusOK)
				created, err := f.manager.Get("~creator/stuff")
				g.Assert(err == nil).IsTrue()
				g.Assert(created.AccessRestriction).Equal(model.RestrictionView)
				g.Assert(created.AuthorizationControl).Equal(model.AuthorizationNamed)
			})

			g.It("Should refuse users without create permission", func() {
				w := f.request("POST", "/newrepo.git/git-receive-pack", "stranger", "secret")
				g.Assert(w.Code).Equal(http.StatusNotFound)
				_, err := f.manager.Get("newrepo")
				g.Assert(err).Equal(repos.ErrNotFound)
			})

			g.It("Should not create on reads", func() {
				w := f.request("GET", "/newrepo.git/info/refs?service=git-upload-pack", "creator", "secret")
				g.Assert(w.Code).Equal(http.StatusNotFound)
				_, err := f.manager.Get("newrepo")
				g.Assert(err).Equal(repos.ErrNotFound)
			})
		})

		g.Describe("during maintenance", func() {

			g.It("Should reject every request for the locked repository", func() {
				g.Assert(f.collector.TryAcquire("open")).IsTrue()
				w := f.request("GET", "/open.git/info/refs?service=git-upload-pack", "boss", "secret")
				g.Assert(w.Code).Equal(http.StatusForbidden)
				g.Assert(w.Body.String()).Equal("repository under maintenance")
				g.Assert(*f.passed).IsFalse()
			})

			g.It("Should leave other repositories reachable", func() {
				g.Assert(f.collector.TryAcquire("open")).IsTrue()
				w := f.request("GET", "/private.git/info/refs?service=git-upload-pack", "reader", "secret")
				g.Assert(w.Code).Equal(http.StatusOK)
				g.Assert(*f.passed).IsTrue()
			})

			g.It("Should recover after release", func() {
				g.Assert(f.collector.TryAcquire("open")).IsTrue()
				f.collector.Release("open")
				w := f.request("GET", "/open.git/info/refs?service=git-upload-pack", "", "")
				g.Assert(w.Code).Equal(http.StatusOK)
				g.Assert(*f.passed).IsTrue()
			})
		})

		g.Describe("frozen repositories", func() {

			g.It("Should refuse pushes even from administrators", func() {
				r, err := f.manager.Get("open")
				g.Assert(err == nil).IsTrue()
				r.Frozen = true
				g.Assert(f.manager.Update(r) == nil).IsTrue()
				w := f.request("POST", "/open.git/git-receive-pack", "boss", "secret")
				g.Assert(w.Code).Equal(http.StatusForbidden)
				g.Assert(*f.passed).IsFalse()
			})
		})
	})
}
