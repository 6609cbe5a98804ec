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

// New returns a new kernel.
func New(opts KernelOpts) *Kernel {
	k := &Kernel{fpu: opts.FPU}
	if k.fpu == nil {
		k.fpu = fpu.NewCR0()
	}
	// Block the entire I/O address range, following the convention of
	// placing the permission bitmap base past the end of the TSS.
	k.tss.ioPerm = 0xffff
	return k
}

// SetKernelStack implements KernelStackNotifier.SetKernelStack by updating
// the TSS rsp0 and ist1 records.
func (k *Kernel) SetKernelStack(sp hostarch.Addr) {
	k.tss.setRSP0(sp)
	k.tss.ist1Lo = k.tss.rsp0Lo
	k.tss.ist1Hi = k.tss.rsp0Hi
}

// TSS returns the kernel's task state segment.
func (k *Kernel) TSS() *TaskState64 {
	return &k.tss
}

// FPU returns the lazy floating point controller.
func (k *Kernel) FPU() fpu.Controller {
	return k.fpu
}

// NewCPU returns a CPU attached to k, executing out of mem.
//
// notifier receives the kernel stack update on every switch; passing nil
// selects the kernel's own TSS.
func (k *Kernel) NewCPU(mem *arch.Memory, notifier KernelStackNotifier) *CPU {
	c := &CPU{
		kernel:   k,
		mem:      mem,
		notifier: notifier,
	}
	if c.notifier == nil {
		c.notifier = k
	}
	c.registers.RFlags = arch.KernelFlagsSet
	return c
}

// Registers returns the CPU's register file. Callers mutate it directly;
// the running task owns every register in it.
func (c *CPU) Registers() *arch.Registers {
	return &c.registers
}

// Memory returns the address space the CPU executes out of.
func (c *CPU) Memory() *arch.Memory {
	return c.mem
}

// Kernel returns the kernel this CPU belongs to.
func (c *CPU) Kernel() *Kernel {
	return c.kernel
}
