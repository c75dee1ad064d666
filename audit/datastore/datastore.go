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

// Package datastore implements the audit trail on a SQL database.
package datastore

import (
	"database/sql"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	// bindings for meddler
	_ "github.com/go-sql-driver/mysql"
	// bindings for meddler
	_ "github.com/lib/pq"
	// bindings for meddler
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/russross/meddler"

	"github.com/gitgate/gitgate/audit"
	"github.com/gitgate/gitgate/envvars"
)

const (
	POSTGRES = "postgres"
	MYSQL    = "mysql"
	SQLITE   = "sqlite3"
)

type datastore struct {
	*sql.DB
	curDB string
}

var once sync.Once
var cachedStore audit.Store

func Get() audit.Store {
	once.Do(func() {
		cachedStore = create(envvars.Env.Db.Driver, envvars.Env.Db.Datasource)
	})
	return cachedStore
}

// creates a database connection for the given driver and datasource
// and returns a new Store.
func create(driver, config string) audit.Store {
	db := Open(driver, config)
	return From(db, driver)
}

// From returns a Store using an existing database connection.
func From(db *sql.DB, driver string) audit.Store {
	return &datastore{db, driver}
}

// Open opens a new database connection with the specified
// driver and connection string, and applies pending migrations.
func Open(driver, config string) *sql.DB {
	db, err := sql.Open(driver, config)
	if err != nil {
		log.Errorln(err)
		log.Fatalln("database connection failed")
	}

	setupMeddler(driver)

	log.Debugf("Driver %s", driver)
	log.Debugf("Data Source %s", config)

	if err = pingDatabase(db); err != nil {
		log.Errorln(err)
		log.Fatalln("database ping attempts failed")
	}
	if err = setupDatabase(driver, db); err != nil {
		log.Errorln(err)
		log.Fatalln("migration failed")
	}
	return db
}

// helper function to ping the database with backoff to ensure
// a connection can be established before we proceed with the
// database setup and migration.
func pingDatabase(db *sql.DB) (err error) {
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			return
		}
		log.Infof("database ping failed. retry in 1s. %s", err)
		time.Sleep(time.Second)
	}
	return
}

func setupDatabase(driver string, db *sql.DB) error {
	_, err := migrate.Exec(db, driver, migrations[driver], migrate.Up)
	return err
}

// helper function to setup the meddler default driver
// based on the selected driver name.
func setupMeddler(driver string) {
	switch driver {
	case SQLITE:
		meddler.Default = meddler.SQLite
	case MYSQL:
		meddler.Default = meddler.MySQL
	case POSTGRES:
		meddler.Default = meddler.PostgreSQL
	}
}
