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

// Package auth resolves the identity behind a git HTTP request.
package auth

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/gitgate/gitgate/model"
	"github.com/gitgate/gitgate/realm"
)

// SessionCookie carries a realm session between browser requests.
const SessionCookie = "gitgate_sess"

var errBadCredentials = errors.New("invalid credentials")

// Strategy extracts and verifies an identity from a request. A nil
// user with a nil error means the request carries no credentials the
// strategy understands; an error means credentials were presented
// and rejected.
type Strategy interface {
	Authenticate(r *http.Request) (*model.User, error)
}

type chain struct {
	strategies []Strategy
}

// Chain tries each strategy in order. The first definite answer,
// either an identity or a rejection, wins.
func Chain(strategies ...Strategy) Strategy {
	return &chain{strategies: strategies}
}

func (c *chain) Authenticate(r *http.Request) (*model.User, error) {
	for _, s := range c.strategies {
		u, err := s.Authenticate(r)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	return nil, nil
}

type basic struct {
	realm realm.Realm
}

// Basic authenticates HTTP Basic credentials against the realm.
func Basic(rlm realm.Realm) Strategy {
	return &basic{realm: rlm}
}

func (b *basic) Authenticate(r *http.Request) (*model.User, error) {
	login, password, ok := r.BasicAuth()
	if !ok {
		return nil, nil
	}
	u := b.realm.GetUser(login)
	if u == nil {
		return nil, errors.Wrapf(errBadCredentials, "unknown user %s", login)
	}
	if u.Disabled {
		return nil, errors.Errorf("account %s is disabled", u.Login)
	}
	if !VerifyPassword(u, password) {
		return nil, errors.Wrapf(errBadCredentials, "password rejected for %s", u.Login)
	}
	return u, nil
}

type cookie struct {
	realm realm.Realm
}

// Cookie authenticates the realm session cookie.
func Cookie(rlm realm.Realm) Strategy {
	return &cookie{realm: rlm}
}

func (s *cookie) Authenticate(r *http.Request) (*model.User, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	u := s.realm.GetUserByCookie(c.Value)
	if u == nil {
		return nil, errors.Wrap(errBadCredentials, "unknown session cookie")
	}
	if u.Disabled {
		return nil, errors.Errorf("account %s is disabled", u.Login)
	}
	return u, nil
}

type clientCert struct {
	realm realm.Realm
}

// ClientCert authenticates a verified TLS client certificate whose
// common name is a realm login.
func ClientCert(rlm realm.Realm) Strategy {
	return &clientCert{realm: rlm}
}

func (s *clientCert) Authenticate(r *http.Request) (*model.User, error) {
	if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
		return nil, nil
	}
	login := r.TLS.PeerCertificates[0].Subject.CommonName
	if login == "" {
		return nil, nil
	}
	u := s.realm.GetUser(login)
	if u == nil {
		return nil, errors.Wrapf(errBadCredentials, "no account for certificate %s", login)
	}
	if u.Disabled {
		return nil, errors.Errorf("account %s is disabled", u.Login)
	}
	return u, nil
}
