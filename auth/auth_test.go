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
package auth

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
	"github.com/gitgate/gitgate/realm/config"
)

func tempRealm(t *testing.T) (realm.Realm, func()) {
	dir, err := ioutil.TempDir("", "auth")
	if err != nil {
		t.Fatal(err)
	}
	return config.New(filepath.Join(dir, "users.conf")), func() { os.RemoveAll(dir) }
}

func addUser(t *testing.T, rlm realm.Realm, login, password string) *model.User {
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	u := model.NewUser(login)
	u.Password = hash
	if !rlm.UpdateUser(u) {
		t.Fatal("update user failed")
	}
	return rlm.GetUser(login)
}

func TestBasicAuth(t *testing.T) {
	rlm, cleanup := tempRealm(t)
	defer cleanup()
	addUser(t, rlm, "james", "secret")

	strategy := Basic(rlm)

	r := httptest.NewRequest(http.MethodGet, "/repo.git/info/refs", nil)
	r.SetBasicAuth("james", "secret")
	u, err := strategy.Authenticate(r)
	if err != nil || u == nil || u.Login != "james" {
		t.Fatalf("expected james, got %v (%v)", u, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/repo.git/info/refs", nil)
	r.SetBasicAuth("james", "wrong")
	if _, err := strategy.Authenticate(r); err == nil {
		t.Error("wrong password must be rejected")
	}

	r = httptest.NewRequest(http.MethodGet, "/repo.git/info/refs", nil)
	r.SetBasicAuth("nobody", "secret")
	if _, err := strategy.Authenticate(r); err == nil {
		t.Error("unknown user must be rejected")
	}

	r = httptest.NewRequest(http.MethodGet, "/repo.git/info/refs", nil)
	if u, err := strategy.Authenticate(r); u != nil || err != nil {
		t.Error("request without credentials must be anonymous")
	}
}

func TestBasicAuthDisabledAccount(t *testing.T) {
	rlm, cleanup := tempRealm(t)
	defer cleanup()
	u := addUser(t, rlm, "james", "secret")
	u.Disabled = true
	rlm.UpdateUser(u)

	r := httptest.NewRequest(http.MethodGet, "/repo.git/info/refs", nil)
	r.SetBasicAuth("james", "secret")
	if _, err := Basic(rlm).Authenticate(r); err == nil {
		t.Error("disabled account must be rejected")
	}
}

func TestCleartextPassword(t *testing.T) {
	u := model.NewUser("legacy")
	u.Password = "plain"
	if !VerifyPassword(u, "plain") {
		t.Error("cleartext credential must verify")
	}
	if VerifyPassword(u, "other") {
		t.Error("wrong cleartext must not verify")
	}
}

func TestExternalAccountNeverVerifies(t *testing.T) {
	u := model.NewUser("ldapuser")
	u.Password = model.ExternalAccount
	if VerifyPassword(u, model.ExternalAccount) {
		t.Error("sentinel must never verify, even against itself")
	}
	if VerifyPassword(u, "anything") {
		t.Error("sentinel must never verify")
	}
}

func TestCookieStrategy(t *testing.T) {
	rlm, cleanup := tempRealm(t)
	defer cleanup()
	stored := addUser(t, rlm, "carol", "secret")
	if stored.Cookie == "" {
		t.Fatal("expected a derived cookie")
	}

	strategy := Cookie(rlm)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: stored.Cookie})
	u, err := strategy.Authenticate(r)
	if err != nil || u == nil || u.Login != "carol" {
		t.Fatalf("expected carol, got %v (%v)", u, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bogus"})
	if _, err := strategy.Authenticate(r); err == nil {
		t.Error("unknown cookie must be rejected")
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if u, err := strategy.Authenticate(r); u != nil || err != nil {
		t.Error("request without cookie must be anonymous")
	}
}

func TestChain(t *testing.T) {
	rlm, cleanup := tempRealm(t)
	defer cleanup()
	stored := addUser(t, rlm, "dave", "secret")

	strategy := Chain(Basic(rlm), Cookie(rlm))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: stored.Cookie})
	u, err := strategy.Authenticate(r)
	if err != nil || u == nil || u.Login != "dave" {
		t.Fatalf("cookie fallback failed: %v (%v)", u, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if u, err := strategy.Authenticate(r); u != nil || err != nil {
		t.Error("empty chain result must be anonymous")
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.SetBasicAuth("dave", "wrong")
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: stored.Cookie})
	if _, err := strategy.Authenticate(r); err == nil {
		t.Error("a definite rejection must not fall through to later strategies")
	}
}

func TestGenerateCookie(t *testing.T) {
	a, b := GenerateCookie(), GenerateCookie()
	if a == "" || a == b {
		t.Error("cookies must be unique and non-empty")
	}
}
