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

package arch

import (
	"fmt"

	"github.com/jbreitbart/eduOS-rs/pkg/hostarch"
)

// The context frame is the record a context switch leaves at the top of the
// suspended task's stack. The layout is a fixed ABI: SaveContext pushes it,
// RestoreContext pops it, and NewStackFrame synthesizes it for a task that
// has never run. All three must agree word for word.
//
// Push order (descending addresses), mirroring pushfq followed by the
// 64-bit extension of pusha:
//
//	RIP (resume address)
//	RFLAGS
//	RAX, RCX, RDX, RBX
//	RSP as it was on entry, before any push
//	RBP, RSI, RDI
//	R8 ... R15
//
// Word offsets below are relative to the frame stack pointer, i.e. the
// value recorded for the suspended task, which always points at the last
// word pushed (R15).
const (
	frameR15 = iota
	frameR14
	frameR13
	frameR12
	frameR11
	frameR10
	frameR9
	frameR8
	frameRDI
	frameRSI
	frameRBP
	frameRSP
	frameRBX
	frameRDX
	frameRCX
	frameRAX
	frameRFlags
	frameRIP

	// FrameWords is the number of words in a context frame.
	FrameWords

	// FrameSize is the size of a context frame in bytes.
	FrameSize = FrameWords * hostarch.WordSize
)

// pusher pushes words onto a stack in memory.
type pusher struct {
	mem *Memory
	sp  hostarch.Addr
}

func (p *pusher) push(val uint64) {
	p.sp -= hostarch.WordSize
	p.mem.WriteWord(p.sp, val)
}

// popper pops words off a stack in memory.
type popper struct {
	mem *Memory
	sp  hostarch.Addr
}

func (p *popper) pop() uint64 {
	val := p.mem.ReadWord(p.sp)
	p.sp += hostarch.WordSize
	return val
}

// SaveContext pushes a context frame holding regs onto the stack regs.RSP
// points into, and returns the new stack pointer. The returned pointer is
// what a later RestoreContext consumes; regs.RSP is updated to match.
func SaveContext(mem *Memory, regs *Registers) hostarch.Addr {
	entrySP := regs.RSP
	p := pusher{mem: mem, sp: entrySP}

	p.push(uint64(regs.RIP))
	p.push(regs.RFlags)
	p.push(regs.RAX)
	p.push(regs.RCX)
	p.push(regs.RDX)
	p.push(regs.RBX)
	p.push(uint64(entrySP))
	p.push(regs.RBP)
	p.push(regs.RSI)
	p.push(regs.RDI)
	p.push(regs.R8)
	p.push(regs.R9)
	p.push(regs.R10)
	p.push(regs.R11)
	p.push(regs.R12)
	p.push(regs.R13)
	p.push(regs.R14)
	p.push(regs.R15)

	regs.RSP = p.sp
	return p.sp
}

// RestoreContext pops the context frame at sp into regs and returns the
// resume address from the frame. On return regs.RSP is the stack pointer as
// it was before the matching SaveContext, and regs.RIP is the resume
// address.
//
// The saved stack pointer inside the frame must point at the word following
// the frame; anything else means the frame was corrupted or sp does not
// point at a frame, and the model faults.
func RestoreContext(mem *Memory, sp hostarch.Addr, regs *Registers) hostarch.Addr {
	p := popper{mem: mem, sp: sp}

	regs.R15 = p.pop()
	regs.R14 = p.pop()
	regs.R13 = p.pop()
	regs.R12 = p.pop()
	regs.R11 = p.pop()
	regs.R10 = p.pop()
	regs.R9 = p.pop()
	regs.R8 = p.pop()
	regs.RDI = p.pop()
	regs.RSI = p.pop()
	regs.RBP = p.pop()
	savedRSP := hostarch.Addr(p.pop())
	regs.RBX = p.pop()
	regs.RDX = p.pop()
	regs.RCX = p.pop()
	regs.RAX = p.pop()
	regs.RFlags = p.pop()
	regs.RIP = hostarch.Addr(p.pop())

	if savedRSP != p.sp {
		panic(fmt.Sprintf("arch: corrupted context frame at %v: saved RSP %v, frame end %v", sp, savedRSP, p.sp))
	}

	regs.RSP = savedRSP
	return regs.RIP
}

// NewStackFrame builds the bootstrap frame for a task that has never run.
// The frame has the exact shape SaveContext produces: zeroed general
// purpose registers, KernelFlagsSet flags, and entry in the resume address
// slot, so that the first switch into the task "returns" to its entry
// point. It returns the stack pointer to record for the task.
func NewStackFrame(mem *Memory, stack Stack, entry hostarch.Addr) hostarch.Addr {
	regs := Registers{
		RIP:    entry,
		RSP:    stack.Top,
		RFlags: KernelFlagsSet,
	}
	return SaveContext(mem, &regs)
}
