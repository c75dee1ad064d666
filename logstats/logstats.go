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

// Package logstats periodically logs access-control activity
// counters.
package logstats

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gitgate/gitgate/envvars"
	"github.com/gitgate/gitgate/repos"
	"github.com/gitgate/gitgate/set"
)

var (
	lock       = sync.Mutex{}
	users      = set.Empty()
	challenged = set.Empty()
	denied     = set.Empty()
	created    = set.Empty()
	grants     = 0
)

func RecordUser(login string) {
	lock.Lock()
	users.Add(login)
	lock.Unlock()
}

func RecordChallenge(repo string) {
	lock.Lock()
	challenged.Add(repo)
	lock.Unlock()
}

func RecordDenial(repo string) {
	lock.Lock()
	denied.Add(repo)
	lock.Unlock()
}

func RecordCreate(repo string) {
	lock.Lock()
	created.Add(repo)
	lock.Unlock()
}

func RecordGrant() {
	lock.Lock()
	grants++
	lock.Unlock()
}

func resetStats() {
	users = set.Empty()
	challenged = set.Empty()
	denied = set.Empty()
	created = set.Empty()
	grants = 0
}

func writeLog(manager repos.Manager) {
	all, err := manager.All()
	if err != nil {
		log.Error("Periodic logging unable to fetch repository list ", err)
	} else {
		log.Infof("Serving %d repositories", len(all))
	}
	log.Infof("Granted %d requests in last period", grants)
	log.Infof("Saw %d distinct users in last period", len(users))
	log.Infof("Challenged requests on %d repositories in last period", len(challenged))
	log.Infof("Denied requests on %d repositories in last period", len(denied))
	log.Infof("Created %d repositories in last period", len(created))
}

func logTask(manager repos.Manager) {
	period := envvars.Env.Monitor.LogPeriod
	if period == 0 {
		return
	}
	t := time.NewTicker(period)
	for {
		lock.Lock()
		writeLog(manager)
		resetStats()
		lock.Unlock()
		<-t.C
	}
}

func Start(manager repos.Manager) {
	go logTask(manager)
}
