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

// Package gc coordinates repository garbage collection with request
// processing. While a repository is being collected every request
// against it is rejected rather than blocked; GC runs are periodic
// and bounded and git clients retry.
package gc

import (
	"strings"
	"sync"
)

// Status is the per-repository collection state. A repository with
// no recorded status is implicitly Ready.
type Status int

const (
	Ready Status = iota
	Collecting
)

func (s Status) Exceeds(other Status) bool {
	return s > other
}

func (s Status) String() string {
	if s == Collecting {
		return "COLLECTING"
	}
	return "READY"
}

// Coordinator is a per-repository mutual-exclusion lock keyed by
// lowercased repository name. The lock is held only for the instant
// of the state transition, never across the GC run itself.
type Coordinator struct {
	mu     sync.Mutex
	status map[string]Status
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		status: make(map[string]Status),
	}
}

// TryAcquire atomically moves the repository from Ready to
// Collecting. It returns false if another caller already holds the
// repository.
func (c *Coordinator) TryAcquire(repository string) bool {
	key := strings.ToLower(repository)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status[key].Exceeds(Ready) {
		// already collecting
		return false
	}
	c.status[key] = Collecting
	return true
}

// IsCollecting is the non-blocking query used by the request filter
// to short-circuit requests against a locked repository.
func (c *Coordinator) IsCollecting(repository string) bool {
	key := strings.ToLower(repository)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status[key] == Collecting
}

// Release unconditionally resets the repository to Ready. Callers
// must defer it around the GC run so a failed collection cannot
// permanently wedge the repository. Releasing an already-Ready
// repository is a no-op.
func (c *Coordinator) Release(repository string) {
	key := strings.ToLower(repository)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[key] = Ready
}
