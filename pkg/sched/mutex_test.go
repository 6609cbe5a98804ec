// Copyright 2025 The eduOS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sched

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMutexUncontended(t *testing.T) {
	s := newTestScheduler()
	m := s.NewMutex()

	// An uncontended mutex never blocks, so the boot task may take it.
	m.Lock()
	m.Unlock()
	m.Lock()
	m.Unlock()
}

func TestMutexExclusion(t *testing.T) {
	const (
		workers = 3
		rounds  = 4
	)
	s := newTestScheduler()
	m := s.NewMutex()

	counter := 0
	for i := 0; i < workers; i++ {
		s.Spawn(func() {
			for n := 0; n < rounds; n++ {
				m.Lock()
				// Yield mid-update: without the mutex another worker
				// would interleave and the final count would come up
				// short.
				v := counter
				s.Reschedule()
				counter = v + 1
				m.Unlock()
				s.Reschedule()
			}
		}, NormalPriority)
	}

	drain(s)

	if want := workers * rounds; counter != want {
		t.Errorf("counter = %d, want %d; critical section was interleaved", counter, want)
	}
}

func TestMutexPriorityHandoff(t *testing.T) {
	s := newTestScheduler()
	m := s.NewMutex()

	var trace []string
	s.Spawn(func() {
		m.Lock()

		// The normal priority waiter queues on the mutex first.
		s.Spawn(func() {
			m.Lock()
			trace = append(trace, "normal waiter")
			m.Unlock()
		}, NormalPriority)
		s.Reschedule()

		// The high priority waiter arrives second.
		s.Spawn(func() {
			m.Lock()
			trace = append(trace, "high waiter")
			m.Unlock()
		}, HighPriority)
		s.Reschedule()

		m.Unlock()
		s.Reschedule()
	}, NormalPriority)

	drain(s)

	// The lock is handed off by priority, not arrival order.
	want := []string{"high waiter", "normal waiter"}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("handoff order (-want +got):\n%s", diff)
	}
}

func TestMutexBlocksWaiter(t *testing.T) {
	s := newTestScheduler()
	m := s.NewMutex()

	var trace []string
	s.Spawn(func() {
		m.Lock()
		trace = append(trace, "holder: locked")
		s.Spawn(func() {
			trace = append(trace, "waiter: acquiring")
			m.Lock()
			trace = append(trace, "waiter: acquired")
			m.Unlock()
		}, NormalPriority)

		// Yield twice while holding the lock; the waiter must not get
		// past Lock until we release it.
		s.Reschedule()
		s.Reschedule()
		trace = append(trace, "holder: unlocking")
		m.Unlock()
	}, NormalPriority)

	drain(s)

	want := []string{
		"holder: locked",
		"waiter: acquiring",
		"holder: unlocking",
		"waiter: acquired",
	}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("lock trace (-want +got):\n%s", diff)
	}
}
