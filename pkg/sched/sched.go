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

// Package sched implements the cooperative task scheduler on top of the
// ring0 switching core.
//
// The scheduler is single core: exactly one task runs at a time, and the
// core changes hands only when the running task calls Reschedule (directly
// or through Exit or a blocking primitive). Each task pairs an
// architectural context, a frame on its private kernel stack, with a
// continuation that carries the "returns later" control flow of the switch
// call.
package sched

import (
	"time"

	"github.com/google/btree"

	"github.com/jbreitbart/eduOS-rs/pkg/arch"
	"github.com/jbreitbart/eduOS-rs/pkg/atomicbitops"
	"github.com/jbreitbart/eduOS-rs/pkg/hostarch"
	"github.com/jbreitbart/eduOS-rs/pkg/log"
	"github.com/jbreitbart/eduOS-rs/pkg/ring0"
	"github.com/jbreitbart/eduOS-rs/pkg/sync"
)

// taskTableDegree is the btree degree of the task table.
const taskTableDegree = 8

// Scheduler owns the task set of one core.
type Scheduler struct {
	// mu protects the scheduling state: task statuses, the ready queue,
	// the finished list and the task table. It stands in for the
	// interrupt-save spinlocks a native kernel would use; it is never
	// held across a context switch.
	mu sync.Mutex

	// cpu is the core this scheduler runs.
	cpu *ring0.CPU

	// current is the task owning the core.
	current *Task

	// idle is the boot task, run when nothing else is ready.
	idle *Task

	// ready holds runnable tasks.
	ready priorityTaskQueue

	// finished holds retired task ids. Retirement is deferred one
	// reschedule because the exiting task's stack carries the frame the
	// final switch away from it uses.
	finished []TaskID

	// tasks maps task ids to control blocks, ordered by id.
	tasks *btree.BTreeG[*Task]

	// numTasks counts spawned, not yet exited tasks.
	numTasks atomicbitops.Uint32

	// tidCounter generates task ids.
	tidCounter atomicbitops.Uint64

	// idleLog rate limits the "nothing to schedule" debug spam an idle
	// loop would otherwise produce.
	idleLog log.Logger
}

// NewScheduler returns a scheduler for cpu and adopts the calling
// continuation as the boot task. The boot task doubles as the idle task;
// it is the first task and implicitly has id 0.
func NewScheduler(cpu *ring0.CPU) *Scheduler {
	s := &Scheduler{
		cpu: cpu,
		tasks: btree.NewG[*Task](taskTableDegree, func(a, b *Task) bool {
			return a.id < b.id
		}),
		idleLog: log.BasicRateLimitedLogger(time.Second),
	}

	idle := newTask(s.allocTID(), StatusIdle, LowPriority)
	idle.stack = cpu.Memory().AllocStack(arch.DefaultStackSize)
	idle.lastStackPointer = idle.stack.Top

	// Replace the temporary boot stack with the boot task's kernel
	// stack, both on the core and in the privileged stack record.
	cpu.Registers().RSP = idle.stack.Top
	cpu.Kernel().SetKernelStack(idle.stack.Top)

	s.idle = idle
	s.current = idle
	s.tasks.ReplaceOrInsert(idle)
	return s
}

// allocTID returns an unused task id.
//
// Preconditions: s.mu is held, except during NewScheduler.
func (s *Scheduler) allocTID() TaskID {
	for {
		id := TaskID(s.tidCounter.Add(1) - 1)
		if _, ok := s.tasks.Get(&Task{id: id}); !ok {
			return id
		}
	}
}

// Spawn creates a task running fn at the given priority and makes it
// ready. A retired control block is reused if one is available, keeping
// its id and stack.
func (s *Scheduler) Spawn(fn func(), prio Priority) TaskID {
	if prio < LowPriority || prio >= numPriorities {
		panic("sched: invalid task priority")
	}

	s.mu.Lock()
	var t *Task
	if len(s.finished) > 0 {
		id := s.finished[0]
		s.finished = s.finished[1:]

		log.Debugf("reuse existing task control block")

		var ok bool
		t, ok = s.tasks.Get(&Task{id: id})
		if !ok {
			panic("sched: retired task vanished from the task table")
		}
		t.status = StatusReady
		t.prio = prio
		t.lastStackPointer = 0
	} else {
		log.Debugf("create new task control block")

		t = newTask(s.allocTID(), StatusReady, prio)
		t.stack = s.cpu.Memory().AllocStack(arch.DefaultStackSize)
		s.tasks.ReplaceOrInsert(t)
	}

	t.entry = fn
	t.lastStackPointer = arch.NewStackFrame(s.cpu.Memory(), t.stack, entryAddr(fn))
	s.ready.push(t)
	s.mu.Unlock()

	go t.run(s)

	s.numTasks.Add(1)
	log.Infof("create task with id %d", t.id)
	return t.id
}

// Exit terminates the current task and yields the core. The task's control
// block and stack stay live until a later reschedule retires them. The
// call returns only so the backing continuation can unwind; the task is
// never scheduled again.
func (s *Scheduler) Exit() {
	s.mu.Lock()
	if s.current.status == StatusIdle {
		s.mu.Unlock()
		panic("sched: unable to terminate idle task")
	}
	log.Infof("finish task with id %d", s.current.id)
	s.current.status = StatusFinished
	s.mu.Unlock()

	s.numTasks.Add(^uint32(0))
	s.Reschedule()
}

// BlockCurrent marks the current task blocked and returns it, so the
// caller can queue it on a wait list before rescheduling. The task keeps
// running until the caller yields.
func (s *Scheduler) BlockCurrent() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.status != StatusRunning {
		panic("sched: unable to block task " + s.current.status.String())
	}
	log.Debugf("block task %d", s.current.id)
	s.current.status = StatusBlocked
	return s.current
}

// Wakeup makes a blocked task ready again. Waking a task that is not
// blocked is a no-op.
func (s *Scheduler) Wakeup(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.status == StatusBlocked {
		log.Debugf("wakeup task %d", t.id)
		t.status = StatusReady
		s.ready.push(t)
	}
}

// nextTask picks the task to run next, or nil to keep the current one.
//
// Preconditions: s.mu is held.
func (s *Scheduler) nextTask() *Task {
	// A running task is only displaced by equal or higher priority; a
	// task that can no longer run takes anything.
	min := LowPriority
	if s.current.status == StatusRunning {
		min = s.current.prio
	}

	if t := s.ready.popWithPriority(min); t != nil {
		t.status = StatusRunning
		return t
	}

	if s.current.status != StatusRunning && s.current.status != StatusIdle {
		// The current task cannot continue and nothing else is ready,
		// so fall back to the idle task.
		return s.idle
	}
	return nil
}

// Schedule picks the next task and switches to it. No-op if the current
// task should keep running.
//
// The switch suspends the calling task mid-Schedule; when the task is
// eventually switched back to, the call returns.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	next := s.nextTask()
	if next == nil {
		s.mu.Unlock()
		if s.current == s.idle {
			s.idleLog.Debugf("no runnable task, idling")
		}
		return
	}

	old := s.current
	switch old.status {
	case StatusRunning:
		old.status = StatusReady
		s.ready.push(old)
	case StatusFinished:
		// Retire later: the stack still holds the frame the switch
		// below saves.
		old.status = StatusInvalid
		s.finished = append(s.finished, old.id)
	}
	retired := old.status == StatusInvalid

	newStack := next.lastStackPointer
	s.current = next
	s.mu.Unlock()

	log.Debugf("switch task from %d to %d", old.id, next.id)
	s.cpu.Switch(&old.lastStackPointer, newStack)

	// The architectural switch is done; hand the core to the incoming
	// continuation. A retired task never parks, its continuation unwinds
	// through Exit instead.
	next.unpark()
	if retired {
		return
	}
	old.parkWait()
}

// cleanupTasks retires at most one finished task, dropping it from the
// task table and unmapping its stack.
func (s *Scheduler) cleanupTasks() {
	s.mu.Lock()
	if len(s.finished) == 0 {
		s.mu.Unlock()
		return
	}
	id := s.finished[0]
	s.finished = s.finished[1:]
	t, ok := s.tasks.Delete(&Task{id: id})
	s.mu.Unlock()

	if !ok {
		log.Infof("unable to drop task %d", id)
		return
	}
	s.cpu.Memory().FreeStack(t.stack)
	log.Debugf("drop task %d", id)
}

// Reschedule gives up the core voluntarily. The caller resumes when the
// scheduler picks it again. Since someone wants to give up the core, there
// is time to clean up retired tasks first.
func (s *Scheduler) Reschedule() {
	s.cleanupTasks()
	s.Schedule()
}

// CurrentTaskID returns the id of the current task.
func (s *Scheduler) CurrentTaskID() TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.id
}

// CurrentPriority returns the priority of the current task.
func (s *Scheduler) CurrentPriority() Priority {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.prio
}

// PriorityOf returns the priority of the task with the given id, or
// NormalPriority if no such task exists.
func (s *Scheduler) PriorityOf(id TaskID) Priority {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks.Get(&Task{id: id}); ok {
		return t.prio
	}
	log.Infof("didn't find task %d", id)
	return NormalPriority
}

// NumberOfTasks returns the number of spawned tasks that have not exited.
// The boot task is not counted.
func (s *Scheduler) NumberOfTasks() int {
	return int(s.numTasks.Load())
}

// KernelStack returns the stack top of the current task, i.e. the value
// the privileged stack record holds while that task runs unprivileged.
func (s *Scheduler) KernelStack() hostarch.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.stack.Top
}

// CPU returns the core this scheduler runs.
func (s *Scheduler) CPU() *ring0.CPU {
	return s.cpu
}
