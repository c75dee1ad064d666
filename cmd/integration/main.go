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

// Command integration exercises a running service end to end: it logs
// in as an administrator, provisions a user and a restricted
// repository through the admin API, verifies the git access filter
// enforces the restriction, and cleans up after itself.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gitgate/gitgate/envvars"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

var (
	addr          = envvars.Env.Server.Addr
	adminLogin    = envvars.Env.Test.AdminLogin
	adminPassword = envvars.Env.Test.AdminPassword
	serviceToken  string
	baseURL       string
)

func init() {
	rand.Seed(time.Now().UnixNano())
	if len(addr) == 0 {
		log.Fatal("SERVER_ADDR environment variable must be defined")
	}
	if len(adminLogin) == 0 || len(adminPassword) == 0 {
		log.Fatal("TEST_ADMIN_LOGIN and TEST_ADMIN_PASSWORD environment variables must be defined")
	}
	baseURL = addr
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "http://localhost" + addr
	}
}

func request(method, path string, body interface{}) (*http.Response, []byte) {
	var reader *bytes.Reader
	if body != nil {
		text, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("Marshaling %s %s body: %v", method, path, err)
		}
		reader = bytes.NewReader(text)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		log.Fatalf("Building %s %s: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+serviceToken)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Performing %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	text, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Reading %s %s response: %v", method, path, err)
	}
	return resp, text
}

func expect(method, path string, body interface{}, status int) []byte {
	resp, text := request(method, path, body)
	if resp.StatusCode != status {
		log.Fatalf("%s %s returned %d, expected %d: %s", method, path, resp.StatusCode, status, text)
	}
	return text
}

func login() {
	form := url.Values{}
	form.Set("login", adminLogin)
	form.Set("password", adminPassword)
	resp, err := http.PostForm(baseURL+"/login", form)
	if err != nil {
		log.Fatal("Performing login: ", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Login returned %d", resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Fatal("Decoding login response: ", err)
	}
	if body.AccessToken == "" {
		log.Fatal("Login response is missing the access token")
	}
	serviceToken = body.AccessToken
}

func gitStatus(repo, login, password string) int {
	req, err := http.NewRequest("GET", baseURL+"/"+repo+".git/info/refs?service=git-upload-pack", nil)
	if err != nil {
		log.Fatal("Building git request: ", err)
	}
	if login != "" {
		req.SetBasicAuth(login, password)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal("Performing git request: ", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func main() {
	suffix := rand.Intn(100000)
	userName := fmt.Sprintf("it-user-%d", suffix)
	repoName := fmt.Sprintf("it-repo-%d", suffix)

	login()
	log.Info("Service login successful")

	expect("POST", "/api/admin/users", map[string]interface{}{
		"login":    userName,
		"password": "integration",
		"permissions": map[string]string{
			repoName: "R",
		},
	}, http.StatusCreated)
	log.Info("Created user ", userName)

	expect("POST", "/api/admin/repos", map[string]interface{}{
		"name":                 repoName,
		"accessRestriction":    "CLONE",
		"authorizationControl": "NAMED",
	}, http.StatusCreated)
	log.Info("Created repository ", repoName)

	if status := gitStatus(repoName, "", ""); status != http.StatusUnauthorized {
		log.Fatalf("Anonymous clone of %s returned %d, expected 401", repoName, status)
	}
	log.Info("Anonymous clone was challenged")

	if status := gitStatus(repoName, userName, "integration"); status == http.StatusUnauthorized ||
		status == http.StatusForbidden || status == http.StatusNotFound {
		log.Fatalf("Authorized clone of %s was refused with %d", repoName, status)
	}
	log.Info("Authorized clone cleared the access filter")

	if status := gitStatus(repoName, userName, "wrong-password"); status != http.StatusUnauthorized {
		log.Fatalf("Clone with a bad password returned %d, expected 401", status)
	}
	log.Info("Bad credentials were challenged")

	text := expect("GET", "/api/admin/audit?repo="+repoName, nil, http.StatusOK)
	var events []map[string]interface{}
	if err := json.Unmarshal(text, &events); err != nil {
		log.Fatal("Decoding audit trail: ", err)
	}
	log.Infof("Audit trail holds %d events for %s", len(events), repoName)

	expect("DELETE", "/api/admin/users/"+userName, nil, http.StatusNoContent)
	expect("DELETE", "/api/admin/repo/"+repoName, nil, http.StatusNoContent)
	log.Info("Cleanup complete")
}
