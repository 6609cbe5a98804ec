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

package ring0

import (
	"github.com/jbreitbart/eduOS-rs/pkg/arch"
	"github.com/jbreitbart/eduOS-rs/pkg/arch/fpu"
	"github.com/jbreitbart/eduOS-rs/pkg/hostarch"
)

// Kernel is a global kernel object.
//
// This contains state shared across CPUs. In this single core model there
// is exactly one CPU, but the split between Kernel and CPU state follows
// the hardware.
type Kernel struct {
	// tss is the task state segment. Its rsp0 field is the stack the
	// hardware loads on a privilege level transition; every context
	// switch must keep it pointing at the running task's kernel stack.
	tss TaskState64

	// fpu is the lazy floating point controller.
	fpu fpu.Controller
}

// KernelOpts has initialization options for the kernel.
type KernelOpts struct {
	// FPU is the lazy floating point controller; if nil, a CR0 model is
	// used.
	FPU fpu.Controller
}

// KernelStackNotifier is told about the new kernel stack on every context
// switch, after the stack pointer has changed and before the incoming
// task's registers are restored.
//
// The notifier runs on the incoming task's stack. It may use caller saved
// registers per the calling convention, and must not depend on any register
// from the suspended frame: those are reloaded wholesale after it returns.
type KernelStackNotifier interface {
	// SetKernelStack records sp as the current privileged stack.
	SetKernelStack(sp hostarch.Addr)
}

// CPU is the per-CPU state of the modeled core.
type CPU struct {
	// kernel is the kernel this CPU belongs to.
	kernel *Kernel

	// mem is the address space holding the kernel stacks.
	mem *arch.Memory

	// registers is the architectural register file.
	registers arch.Registers

	// notifier is invoked once per switch. Defaults to the kernel TSS.
	notifier KernelStackNotifier
}

// TaskState64 is the 64-bit task state segment, reduced to the fields the
// switching core touches. The hardware consults rsp0 when an interrupt or
// exception arrives while the core runs unprivileged.
type TaskState64 struct {
	rsp0Lo, rsp0Hi uint32
	ist1Lo, ist1Hi uint32
	ioPerm         uint16
}

// setRSP0 stores sp split across the two rsp0 halves.
func (t *TaskState64) setRSP0(sp hostarch.Addr) {
	t.rsp0Lo = uint32(sp)
	t.rsp0Hi = uint32(sp >> 32)
}

// RSP0 returns the recorded privileged stack pointer.
func (t *TaskState64) RSP0() hostarch.Addr {
	return hostarch.Addr(t.rsp0Hi)<<32 | hostarch.Addr(t.rsp0Lo)
}
