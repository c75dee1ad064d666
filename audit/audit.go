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

// Package audit records access decisions for later review.
package audit

import (
	"context"
)

// Decision outcomes.
const (
	ResultGranted    = "granted"
	ResultDenied     = "denied"
	ResultChallenged = "challenged"
	ResultLocked     = "locked"
	ResultCreated    = "created"
)

// Event is one access decision. Login is empty for anonymous
// requests.
type Event struct {
	ID        int64  `json:"id"        meddler:"event_id,pk"`
	Timestamp int64  `json:"timestamp" meddler:"event_timestamp"`
	Login     string `json:"login"     meddler:"event_login"`
	Repo      string `json:"repo"      meddler:"event_repo"`
	Action    string `json:"action"    meddler:"event_action"`
	Result    string `json:"result"    meddler:"event_result"`
	Reason    string `json:"reason"    meddler:"event_reason"`
	Addr      string `json:"addr"      meddler:"event_addr"`
}

// Store persists access decisions.
type Store interface {
	// Record stores one decision.
	Record(*Event) error

	// List returns the most recent decisions, newest first.
	List(limit int) ([]*Event, error)

	// ListRepo returns the most recent decisions for one
	// repository, newest first.
	ListRepo(repo string, limit int) ([]*Event, error)
}

type discard struct{}

// Discard is the Store used when no database is configured; it drops
// every event.
func Discard() Store {
	return discard{}
}

func (discard) Record(*Event) error { return nil }

func (discard) List(int) ([]*Event, error) { return []*Event{}, nil }

func (discard) ListRepo(string, int) ([]*Event, error) { return []*Event{}, nil }

const key = "audit"

// Setter defines a context that enables setting values.
type Setter interface {
	Set(string, interface{})
}

// FromContext returns the Store associated with this context.
func FromContext(c context.Context) Store {
	return c.Value(key).(Store)
}

// ToContext adds the Store to this context if it supports
// the Setter interface.
func ToContext(c Setter, s Store) {
	c.Set(key, s)
}
