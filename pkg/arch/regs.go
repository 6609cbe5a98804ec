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

import "github.com/jbreitbart/eduOS-rs/pkg/hostarch"

// RFLAGS bits.
const (
	// RFlagsReserved is the always-set reserved bit.
	RFlagsReserved uint64 = 1 << 1

	// RFlagsIF is the interrupt enable flag.
	RFlagsIF uint64 = 1 << 9

	// RFlagsIOPL0 is the lowest I/O privilege level.
	RFlagsIOPL0 uint64 = 3 << 12
)

// KernelFlagsSet is the flags value a kernel task starts with: reserved bit
// set, interrupts enabled.
const KernelFlagsSet = RFlagsReserved | RFlagsIF

// Registers is the amd64 general purpose register file, plus the flags
// register, instruction pointer and stack pointer.
type Registers struct {
	RAX    uint64
	RBX    uint64
	RCX    uint64
	RDX    uint64
	RSI    uint64
	RDI    uint64
	RBP    uint64
	R8     uint64
	R9     uint64
	R10    uint64
	R11    uint64
	R12    uint64
	R13    uint64
	R14    uint64
	R15    uint64
	RFlags uint64
	RIP    hostarch.Addr
	RSP    hostarch.Addr
}
