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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jbreitbart/eduOS-rs/pkg/hostarch"
)

// fingerprint returns a register file with a distinct value in every
// register, derived from seed.
func fingerprint(seed uint64, sp hostarch.Addr) Registers {
	return Registers{
		RAX:    seed ^ 0xa0,
		RBX:    seed ^ 0xb0,
		RCX:    seed ^ 0xc0,
		RDX:    seed ^ 0xd0,
		RSI:    seed ^ 0x51,
		RDI:    seed ^ 0xd1,
		RBP:    seed ^ 0xb9,
		R8:     seed ^ 0x08,
		R9:     seed ^ 0x09,
		R10:    seed ^ 0x10,
		R11:    seed ^ 0x11,
		R12:    seed ^ 0x12,
		R13:    seed ^ 0x13,
		R14:    seed ^ 0x14,
		R15:    seed ^ 0x15,
		RFlags: KernelFlagsSet | (seed & 0x0c0),
		RIP:    hostarch.Addr(seed ^ 0xf00),
		RSP:    sp,
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	mem := NewMemory()
	stack := mem.AllocStack(DefaultStackSize)

	regs := fingerprint(0x1234, stack.Top)
	want := regs

	sp := SaveContext(mem, &regs)
	if got, wantSP := sp, stack.Top-FrameSize; got != wantSP {
		t.Errorf("SaveContext returned %v, want %v", got, wantSP)
	}
	if regs.RSP != sp {
		t.Errorf("SaveContext left RSP at %v, want %v", regs.RSP, sp)
	}

	// Clobber everything, then restore.
	regs = Registers{}
	rip := RestoreContext(mem, sp, &regs)

	if diff := cmp.Diff(want, regs); diff != "" {
		t.Errorf("restored registers differ (-want +got):\n%s", diff)
	}
	if rip != want.RIP {
		t.Errorf("RestoreContext returned resume address %v, want %v", rip, want.RIP)
	}
}

func TestFrameLayout(t *testing.T) {
	mem := NewMemory()
	stack := mem.AllocStack(DefaultStackSize)

	regs := fingerprint(0xbeef, stack.Top)
	sp := SaveContext(mem, &regs)

	word := func(off int) uint64 {
		return mem.ReadWord(sp + hostarch.Addr(off*hostarch.WordSize))
	}

	// The layout is an ABI shared with hand-built bootstrap frames; pin
	// every slot.
	for _, tc := range []struct {
		name string
		off  int
		want uint64
	}{
		{"R15", frameR15, regs.R15},
		{"R14", frameR14, regs.R14},
		{"R13", frameR13, regs.R13},
		{"R12", frameR12, regs.R12},
		{"R11", frameR11, regs.R11},
		{"R10", frameR10, regs.R10},
		{"R9", frameR9, regs.R9},
		{"R8", frameR8, regs.R8},
		{"RDI", frameRDI, regs.RDI},
		{"RSI", frameRSI, regs.RSI},
		{"RBP", frameRBP, regs.RBP},
		{"RSP", frameRSP, uint64(stack.Top)},
		{"RBX", frameRBX, regs.RBX},
		{"RDX", frameRDX, regs.RDX},
		{"RCX", frameRCX, regs.RCX},
		{"RAX", frameRAX, regs.RAX},
		{"RFLAGS", frameRFlags, regs.RFlags},
		{"RIP", frameRIP, uint64(regs.RIP)},
	} {
		if got := word(tc.off); got != tc.want {
			t.Errorf("frame slot %s (offset %d): got %#x, want %#x", tc.name, tc.off, got, tc.want)
		}
	}
}

func TestNewStackFrameMatchesSaveShape(t *testing.T) {
	mem := NewMemory()
	stack := mem.AllocStack(DefaultStackSize)

	const entry hostarch.Addr = 0x1122334455667788 // a value, not a mapped address
	sp := NewStackFrame(mem, stack, entry)

	if want := stack.Top - FrameSize; sp != want {
		t.Fatalf("bootstrap frame pointer: got %v, want %v", sp, want)
	}

	var regs Registers
	rip := RestoreContext(mem, sp, &regs)
	if rip != entry {
		t.Errorf("bootstrap resume address: got %v, want %v", rip, entry)
	}
	want := Registers{
		RFlags: KernelFlagsSet,
		RIP:    entry,
		RSP:    stack.Top,
	}
	if diff := cmp.Diff(want, regs); diff != "" {
		t.Errorf("bootstrap registers differ (-want +got):\n%s", diff)
	}
}

func TestRestoreCorruptFrameFaults(t *testing.T) {
	mem := NewMemory()
	stack := mem.AllocStack(DefaultStackSize)

	regs := fingerprint(0x77, stack.Top)
	sp := SaveContext(mem, &regs)

	// Smash the saved stack pointer slot.
	mem.WriteWord(sp+frameRSP*hostarch.WordSize, 0xdead0000)

	defer func() {
		if recover() == nil {
			t.Errorf("RestoreContext of a corrupted frame did not fault")
		}
	}()
	RestoreContext(mem, sp, &regs)
}

func TestRestoreUnmappedFaults(t *testing.T) {
	mem := NewMemory()
	var regs Registers

	defer func() {
		if recover() == nil {
			t.Errorf("RestoreContext of an unmapped address did not fault")
		}
	}()
	RestoreContext(mem, 0x1000, &regs)
}
