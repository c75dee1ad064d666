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
package token

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

type SecretFunc func(*Token) (string, error)

const (
	UserToken = "user"
	SessToken = "sess"
	CsrfToken = "csrf"
)

// SignerAlgo is the default algorithm used to sign JWT tokens.
const SignerAlgo = "HS256"

type Token struct {
	Kind string
	Text string
}

func parse(raw string, fn SecretFunc) (*Token, error) {
	token := &Token{}
	parsed, err := jwt.Parse(raw, keyFunc(token, fn))
	if err != nil {
		return nil, err
	} else if !parsed.Valid {
		return nil, jwt.ValidationError{}
	}
	return token, nil
}

// ParseRequest extracts a token from the Authorization header, the
// access_token query parameter, or the session cookie.
func ParseRequest(r *http.Request, fn SecretFunc) (*Token, error) {
	var raw string
	bearer := r.Header.Get("Authorization")
	switch {
	case len(bearer) > 0:
		fmt.Sscanf(bearer, "Bearer %s", &raw)
	case len(r.FormValue("access_token")) > 0:
		raw = r.FormValue("access_token")
	default:
		cookie, err := r.Cookie("user_sess")
		if err != nil {
			return nil, errors.Wrap(err, "token not found")
		}
		raw = cookie.Value
	}
	return parse(raw, fn)
}

// CheckCsrf validates the X-CSRF-TOKEN header on state-changing
// requests made with a session cookie.
func CheckCsrf(r *http.Request, fn SecretFunc) error {
	// only POST, PUT, PATCH and DELETE alter state
	switch r.Method {
	case "GET", "HEAD", "OPTIONS":
		return nil
	}
	raw := r.Header.Get("X-CSRF-TOKEN")
	token, err := parse(raw, fn)
	if err != nil {
		return err
	}
	if token.Kind != CsrfToken {
		return errors.New("invalid csrf token")
	}
	return nil
}

func New(kind, text string) *Token {
	return &Token{Kind: kind, Text: text}
}

// Sign signs the token using the given secret hash
// and returns the string value.
func (t *Token) Sign(secret string) (string, error) {
	return t.SignExpires(secret, 0)
}

// SignExpires signs the token using the given secret hash
// with an expiration date.
func (t *Token) SignExpires(secret string, exp int64) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["type"] = t.Kind
	claims["text"] = t.Text
	if exp > 0 {
		claims["exp"] = float64(exp)
	}
	return token.SignedString([]byte(secret))
}

func keyFunc(token *Token, fn SecretFunc) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if !strings.HasPrefix(t.Method.Alg(), "HS") {
			return nil, jwt.ErrSignatureInvalid
		}
		claims := t.Claims.(jwt.MapClaims)
		kindv, ok := claims["type"]
		if !ok {
			return nil, jwt.ValidationError{}
		}
		token.Kind, _ = kindv.(string)

		textv, ok := claims["text"]
		if !ok {
			return nil, jwt.ValidationError{}
		}
		token.Text, _ = textv.(string)

		secret, err := fn(token)
		return []byte(secret), err
	}
}
