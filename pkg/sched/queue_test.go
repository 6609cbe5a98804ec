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

import "testing"

func TestQueuePriorityOrder(t *testing.T) {
	var q priorityTaskQueue
	q.push(newTask(1, StatusReady, LowPriority))
	q.push(newTask(2, StatusReady, HighPriority))
	q.push(newTask(3, StatusReady, NormalPriority))

	for i, want := range []TaskID{2, 3, 1} {
		got := q.pop()
		if got == nil || got.id != want {
			t.Fatalf("pop %d: got %v, want task %d", i, got, want)
		}
	}
	if !q.empty() {
		t.Errorf("queue not empty after draining")
	}
	if q.pop() != nil {
		t.Errorf("pop of an empty queue returned a task")
	}
}

func TestQueueFIFOWithinPriority(t *testing.T) {
	var q priorityTaskQueue
	for id := TaskID(1); id <= 4; id++ {
		q.push(newTask(id, StatusReady, NormalPriority))
	}

	for want := TaskID(1); want <= 4; want++ {
		got := q.pop()
		if got == nil || got.id != want {
			t.Fatalf("got %v, want task %d", got, want)
		}
	}
}

func TestQueuePopWithPriority(t *testing.T) {
	var q priorityTaskQueue
	q.push(newTask(1, StatusReady, LowPriority))

	// Nothing at or above normal priority.
	if got := q.popWithPriority(NormalPriority); got != nil {
		t.Errorf("popWithPriority(normal) = task %d, want nil", got.id)
	}
	if q.empty() {
		t.Errorf("failed pop drained the queue")
	}

	q.push(newTask(2, StatusReady, HighPriority))
	if got := q.popWithPriority(NormalPriority); got == nil || got.id != 2 {
		t.Errorf("popWithPriority(normal) = %v, want task 2", got)
	}
	if got := q.popWithPriority(LowPriority); got == nil || got.id != 1 {
		t.Errorf("popWithPriority(low) = %v, want task 1", got)
	}
}

func TestQueuePushInvalidPriorityPanics(t *testing.T) {
	var q priorityTaskQueue
	defer func() {
		if recover() == nil {
			t.Errorf("push with out-of-range priority did not panic")
		}
	}()
	q.push(newTask(1, StatusReady, numPriorities))
}
