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
	migrate "github.com/rubenv/sql-migrate"
)

var migrations = map[string]*migrate.MemoryMigrationSource{
	SQLITE: {
		Migrations: []*migrate.Migration{
			{
				Id: "001_create_audit_events",
				Up: []string{`
CREATE TABLE IF NOT EXISTS audit_events (
 event_id        INTEGER PRIMARY KEY AUTOINCREMENT,
 event_timestamp INTEGER,
 event_login     TEXT,
 event_repo      TEXT,
 event_action    TEXT,
 event_result    TEXT,
 event_reason    TEXT,
 event_addr      TEXT
);`,
					`CREATE INDEX IF NOT EXISTS ix_audit_repo ON audit_events (event_repo);`,
				},
				Down: []string{`DROP TABLE audit_events;`},
			},
		},
	},
	MYSQL: {
		Migrations: []*migrate.Migration{
			{
				Id: "001_create_audit_events",
				Up: []string{`
CREATE TABLE IF NOT EXISTS audit_events (
 event_id        INTEGER PRIMARY KEY AUTO_INCREMENT,
 event_timestamp INTEGER,
 event_login     VARCHAR(255),
 event_repo      VARCHAR(500),
 event_action    VARCHAR(50),
 event_result    VARCHAR(50),
 event_reason    VARCHAR(1000),
 event_addr      VARCHAR(100)
);`,
					`CREATE INDEX ix_audit_repo ON audit_events (event_repo);`,
				},
				Down: []string{`DROP TABLE audit_events;`},
			},
		},
	},
	POSTGRES: {
		Migrations: []*migrate.Migration{
			{
				Id: "001_create_audit_events",
				Up: []string{`
CREATE TABLE IF NOT EXISTS audit_events (
 event_id        SERIAL PRIMARY KEY,
 event_timestamp INTEGER,
 event_login     VARCHAR(255),
 event_repo      VARCHAR(500),
 event_action    VARCHAR(50),
 event_result    VARCHAR(50),
 event_reason    VARCHAR(1000),
 event_addr      VARCHAR(100)
);`,
					`CREATE INDEX IF NOT EXISTS ix_audit_repo ON audit_events (event_repo);`,
				},
				Down: []string{`DROP TABLE audit_events;`},
			},
		},
	},
}
