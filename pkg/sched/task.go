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
	"reflect"

	"github.com/jbreitbart/eduOS-rs/pkg/arch"
	"github.com/jbreitbart/eduOS-rs/pkg/hostarch"
	"github.com/jbreitbart/eduOS-rs/pkg/ilist"
)

// TaskID identifies a task.
type TaskID uint64

// Priority is a task's scheduling priority. Higher values run first.
type Priority uint8

// Task priorities.
const (
	// LowPriority is the lowest spawnable priority, shared with the idle
	// task.
	LowPriority Priority = iota + 1

	// NormalPriority is the default priority.
	NormalPriority

	// HighPriority runs ahead of everything else.
	HighPriority

	numPriorities
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus int

// Task states.
const (
	// StatusInvalid marks a retired control block awaiting cleanup or
	// reuse.
	StatusInvalid TaskStatus = iota

	// StatusReady means the task sits in the ready queue.
	StatusReady

	// StatusRunning means the task owns the core.
	StatusRunning

	// StatusBlocked means the task waits on a synchronization object.
	StatusBlocked

	// StatusFinished means the task has exited but its stack is still
	// live; it is retired on the next reschedule.
	StatusFinished

	// StatusIdle marks the boot task, which runs when nothing else can.
	StatusIdle
)

func (s TaskStatus) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusBlocked:
		return "blocked"
	case StatusFinished:
		return "finished"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Task is a task control block.
//
// A Task is owned by exactly one Scheduler. Its linked list entry threads
// it through either the ready queue or one wait queue, never both.
type Task struct {
	ilist.Entry

	// id is immutable after creation.
	id TaskID

	// The fields below are protected by the scheduler's mutex.
	status           TaskStatus
	prio             Priority
	stack            arch.Stack
	lastStackPointer hostarch.Addr
	entry            func()

	// park carries the task's continuation: the goroutine backing the
	// task waits on it while the task is switched out. Buffered so the
	// switching task never blocks on the handoff.
	park chan struct{}
}

func newTask(id TaskID, status TaskStatus, prio Priority) *Task {
	return &Task{
		id:     id,
		status: status,
		prio:   prio,
		park:   make(chan struct{}, 1),
	}
}

// ID returns the task's identifier.
func (t *Task) ID() TaskID {
	return t.id
}

// StackPointer returns the stack pointer recorded at the task's last
// suspension. It points at the top of the task's context frame.
func (t *Task) StackPointer() hostarch.Addr {
	return t.lastStackPointer
}

// Stack returns the task's kernel stack bounds.
func (t *Task) Stack() arch.Stack {
	return t.stack
}

// unpark resumes the task's continuation.
func (t *Task) unpark() {
	t.park <- struct{}{}
}

// parkWait suspends the calling continuation until unpark.
func (t *Task) parkWait() {
	<-t.park
}

// run is the entry trampoline backing a spawned task. The bootstrap frame
// makes the first switch into the task "return" to its entry point; this is
// the continuation-level mirror of that return. A task function that runs
// off its end exits cleanly instead of returning into garbage.
func (t *Task) run(s *Scheduler) {
	t.parkWait()
	t.entry()
	s.Exit()
}

// entryAddr returns the entry point address recorded in a task's bootstrap
// frame for the given function.
func entryAddr(fn func()) hostarch.Addr {
	return hostarch.Addr(reflect.ValueOf(fn).Pointer())
}
