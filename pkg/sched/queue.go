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

import "github.com/jbreitbart/eduOS-rs/pkg/ilist"

// priorityTaskQueue holds ready or waiting tasks, one FIFO list per
// priority, with a bitmap for O(1) highest-priority lookup.
//
// Not safe for concurrent use; callers hold the owning lock.
type priorityTaskQueue struct {
	queues [numPriorities]ilist.List
	bitmap uint32
}

// push appends t to the list for its priority.
func (q *priorityTaskQueue) push(t *Task) {
	if t.prio >= numPriorities {
		panic("sched: task priority out of range")
	}
	q.queues[t.prio].PushBack(t)
	q.bitmap |= 1 << t.prio
}

// popFrom removes the first task of the given priority.
func (q *priorityTaskQueue) popFrom(prio Priority) *Task {
	e := q.queues[prio].Front()
	if e == nil {
		return nil
	}
	q.queues[prio].Remove(e)
	if q.queues[prio].Empty() {
		q.bitmap &^= 1 << prio
	}
	return e.(*Task)
}

// pop removes the highest priority task, or returns nil.
func (q *priorityTaskQueue) pop() *Task {
	return q.popWithPriority(0)
}

// popWithPriority removes the highest priority task whose priority is at
// least min, or returns nil.
func (q *priorityTaskQueue) popWithPriority(min Priority) *Task {
	for prio := numPriorities - 1; prio >= min && prio < numPriorities; prio-- {
		if q.bitmap&(1<<prio) != 0 {
			return q.popFrom(prio)
		}
	}
	return nil
}

// empty returns true iff no task is queued.
func (q *priorityTaskQueue) empty() bool {
	return q.bitmap == 0
}
