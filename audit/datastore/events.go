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
package datastore

import (
	"time"

	"github.com/russross/meddler"

	"github.com/gitgate/gitgate/audit"
)

const eventTable = "audit_events"

func (db *datastore) Record(event *audit.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	return meddler.Insert(db, eventTable, event)
}

func (db *datastore) List(limit int) ([]*audit.Event, error) {
	var events = []*audit.Event{}
	var err = meddler.QueryAll(db, &events, eventListQuery[db.curDB], limit)
	return events, err
}

func (db *datastore) ListRepo(repo string, limit int) ([]*audit.Event, error) {
	var events = []*audit.Event{}
	var err = meddler.QueryAll(db, &events, eventRepoQuery[db.curDB], repo, limit)
	return events, err
}

var eventListQuery = map[string]string{
	POSTGRES: `
	SELECT *
	FROM audit_events
	ORDER BY event_id DESC
	LIMIT $1
	`,
	MYSQL: `
	SELECT *
	FROM audit_events
	ORDER BY event_id DESC
	LIMIT ?
	`,
	SQLITE: `
	SELECT *
	FROM audit_events
	ORDER BY event_id DESC
	LIMIT ?
	`,
}

var eventRepoQuery = map[string]string{
	POSTGRES: `
	SELECT *
	FROM audit_events
	WHERE event_repo=$1
	ORDER BY event_id DESC
	LIMIT $2
	`,
	MYSQL: `
	SELECT *
	FROM audit_events
	WHERE event_repo= ?
	ORDER BY event_id DESC
	LIMIT ?
	`,
	SQLITE: `
	SELECT *
	FROM audit_events
	WHERE event_repo= ?
	ORDER BY event_id DESC
	LIMIT ?
	`,
}
