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

import "github.com/jbreitbart/eduOS-rs/pkg/sync"

// Mutex is a mutual exclusion primitive for tasks. A task that fails to
// acquire the lock blocks and yields the core instead of spinning; Unlock
// hands the lock to the highest priority waiter.
//
// In principle a binary semaphore.
type Mutex struct {
	s *Scheduler

	// mu guards the fields below. It is only ever held for a few
	// instructions, standing in for the interrupt-save spinlock of a
	// native kernel.
	mu       sync.Mutex
	unlocked bool
	waiters  priorityTaskQueue
}

// NewMutex returns an unlocked mutex whose waiters are managed by s.
func (s *Scheduler) NewMutex() *Mutex {
	return &Mutex{s: s, unlocked: true}
}

// Lock acquires the mutex, blocking the current task until it is
// available.
func (m *Mutex) Lock() {
	for {
		m.mu.Lock()
		if m.unlocked {
			m.unlocked = false
			m.mu.Unlock()
			return
		}

		// Queue ourselves and give up the core; Unlock wakes us for
		// another attempt.
		t := m.s.BlockCurrent()
		m.waiters.push(t)
		m.mu.Unlock()
		m.s.Reschedule()
	}
}

// Unlock releases the mutex and wakes the highest priority waiter, if any.
func (m *Mutex) Unlock() {
	m.mu.Lock()
	m.unlocked = true
	t := m.waiters.pop()
	m.mu.Unlock()

	if t != nil {
		m.s.Wakeup(t)
	}
}
