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
	"github.com/jbreitbart/eduOS-rs/pkg/sync"
)

// DefaultStackSize is the size of a kernel task stack.
const DefaultStackSize = 2 * hostarch.PageSize

// stackAreaBase is the virtual address at which stack allocation starts.
// Stacks grow down from the top of each region; regions are separated by an
// unmapped guard page so that an overflow faults instead of corrupting a
// neighboring stack.
const stackAreaBase hostarch.Addr = 0x0000_4000_0000_0000

// Stack describes one mapped stack region. Bottom is the lowest mapped
// address, Top is one past the highest. Top is the initial stack pointer.
type Stack struct {
	Bottom hostarch.Addr
	Top    hostarch.Addr
}

// Size returns the size of the stack region in bytes.
func (s Stack) Size() uint64 {
	return uint64(s.Top - s.Bottom)
}

// Contains returns true iff addr lies within the stack region.
func (s Stack) Contains(addr hostarch.Addr) bool {
	return addr >= s.Bottom && addr < s.Top
}

// region is a mapped range backed by word storage.
type region struct {
	stack  Stack
	words  []uint64
	mapped bool
}

// Memory is the modeled address space holding the kernel stacks. Accesses
// are word granular; an access to an unmapped or misaligned address panics,
// which is the model's analogue of a general protection fault.
type Memory struct {
	mu      sync.Mutex
	regions []*region
	next    hostarch.Addr
}

// NewMemory returns an empty address space.
func NewMemory() *Memory {
	return &Memory{next: stackAreaBase}
}

// AllocStack maps a new stack region of the given size. The size is rounded
// up to a whole number of pages.
func (m *Memory) AllocStack(size uint64) Stack {
	m.mu.Lock()
	defer m.mu.Unlock()

	length := uint64(hostarch.Addr(size).MustRoundUp())
	bottom := m.next
	top, ok := bottom.AddLength(length)
	if !ok {
		panic("arch: stack area exhausted")
	}
	// Guard page between consecutive stacks.
	m.next = top + hostarch.PageSize

	r := &region{
		stack:  Stack{Bottom: bottom, Top: top},
		words:  make([]uint64, length/hostarch.WordSize),
		mapped: true,
	}
	m.regions = append(m.regions, r)
	return r.stack
}

// FreeStack unmaps the given stack region. Subsequent accesses fault.
func (m *Memory) FreeStack(s Stack) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		if r.stack == s && r.mapped {
			r.mapped = false
			r.words = nil
			return
		}
	}
	panic(fmt.Sprintf("arch: FreeStack of unmapped region %v", s))
}

// find returns the mapped region containing addr, or nil.
func (m *Memory) find(addr hostarch.Addr) *region {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.regions {
		if r.mapped && r.stack.Contains(addr) {
			return r
		}
	}
	return nil
}

// ReadWord reads the machine word at addr.
func (m *Memory) ReadWord(addr hostarch.Addr) uint64 {
	r := m.check(addr, "read")
	return r.words[(addr-r.stack.Bottom)/hostarch.WordSize]
}

// WriteWord writes the machine word at addr.
func (m *Memory) WriteWord(addr hostarch.Addr, val uint64) {
	r := m.check(addr, "write")
	r.words[(addr-r.stack.Bottom)/hostarch.WordSize] = val
}

func (m *Memory) check(addr hostarch.Addr, op string) *region {
	if !addr.IsWordAligned() {
		panic(fmt.Sprintf("arch: misaligned %s at %v", op, addr))
	}
	r := m.find(addr)
	if r == nil {
		panic(fmt.Sprintf("arch: page fault on %s at %v", op, addr))
	}
	return r
}
