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
package gc

import (
	"sync"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	c := NewCoordinator()
	if c.IsCollecting("repo1") {
		t.Error("unknown repository should be ready")
	}
	if !c.TryAcquire("repo1") {
		t.Fatal("first acquire should succeed")
	}
	if !c.IsCollecting("repo1") {
		t.Error("repository should be collecting after acquire")
	}
	if c.TryAcquire("repo1") {
		t.Error("second acquire should fail")
	}
	c.Release("repo1")
	if c.IsCollecting("repo1") {
		t.Error("repository should be ready after release")
	}
	if !c.TryAcquire("repo1") {
		t.Error("acquire should succeed after release")
	}
}

func TestCaseInsensitiveKeys(t *testing.T) {
	c := NewCoordinator()
	if !c.TryAcquire("MyRepo") {
		t.Fatal("acquire failed")
	}
	if !c.IsCollecting("myrepo") {
		t.Error("keys should be case-insensitive")
	}
	if c.TryAcquire("MYREPO") {
		t.Error("acquire on a different casing should fail")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	c := NewCoordinator()
	c.Release("never-acquired")
	c.Release("never-acquired")
	if c.IsCollecting("never-acquired") {
		t.Error("released repository should be ready")
	}
}

func TestIndependentRepositories(t *testing.T) {
	c := NewCoordinator()
	if !c.TryAcquire("repo1") {
		t.Fatal("acquire failed")
	}
	if c.IsCollecting("repo2") {
		t.Error("repo2 should be unaffected by repo1's lock")
	}
	if !c.TryAcquire("repo2") {
		t.Error("repo2 acquire should succeed while repo1 is held")
	}
}

// Exactly one of many concurrent acquires may win.
func TestConcurrentAcquire(t *testing.T) {
	c := NewCoordinator()
	const callers = 64
	var wg sync.WaitGroup
	wins := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.TryAcquire("contested") {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)
	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly one winner, got %d", count)
	}
}

func TestStatusOrdering(t *testing.T) {
	if !Collecting.Exceeds(Ready) {
		t.Error("COLLECTING should exceed READY")
	}
	if Ready.Exceeds(Collecting) {
		t.Error("READY should not exceed COLLECTING")
	}
}
