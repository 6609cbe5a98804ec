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

// Package fpu provides lazy floating point state management.
//
// Floating point and vector state is not saved eagerly on a context switch.
// Instead every switch marks the state dirty, which arms a device-not-
// available trap on the next floating point instruction; the trap handler
// reloads the incoming task's state and clears the mark. This package owns
// the mark.
package fpu

import "github.com/jbreitbart/eduOS-rs/pkg/atomicbitops"

// Controller is the capability the context switch uses to defer floating
// point state restoration. Exactly one switch-side producer (MarkDirty) and
// one trap-side consumer (Clear) exist; IsDirty is for inspection.
type Controller interface {
	// MarkDirty marks the floating point state as needing a reload before
	// first use. Called once per context switch.
	MarkDirty()

	// IsDirty returns true iff a reload is pending.
	IsDirty() bool

	// Clear acknowledges the reload. Called by the device-not-available
	// trap handler after restoring state.
	Clear()
}

// CR0 bits.
const (
	// CR0PE is protection enable.
	CR0PE uint64 = 1 << 0

	// CR0MP is monitor coprocessor.
	CR0MP uint64 = 1 << 1

	// CR0TS is the task switched bit. While set, floating point
	// instructions raise device-not-available.
	CR0TS uint64 = 1 << 3

	// CR0ET is extension type (always set).
	CR0ET uint64 = 1 << 4

	// CR0NE is numeric error reporting.
	CR0NE uint64 = 1 << 5

	// CR0WP is write protect.
	CR0WP uint64 = 1 << 16

	// CR0PG is paging enable.
	CR0PG uint64 = 1 << 31
)

// kernelCR0 is the baseline control register value of a running kernel.
const kernelCR0 = CR0PE | CR0MP | CR0ET | CR0NE | CR0WP | CR0PG

// CR0 models the core-local control register whose TS bit drives lazy
// floating point restoration. It implements Controller.
type CR0 struct {
	value atomicbitops.Uint64
}

// NewCR0 returns a CR0 with the baseline kernel bits set and TS clear.
func NewCR0() *CR0 {
	c := &CR0{}
	c.value.Store(kernelCR0)
	return c
}

// MarkDirty implements Controller.MarkDirty by setting CR0.TS.
func (c *CR0) MarkDirty() {
	for {
		old := c.value.Load()
		if c.value.CompareAndSwap(old, old|CR0TS) {
			return
		}
	}
}

// IsDirty implements Controller.IsDirty.
func (c *CR0) IsDirty() bool {
	return c.value.Load()&CR0TS != 0
}

// Clear implements Controller.Clear by executing the model's clts.
func (c *CR0) Clear() {
	for {
		old := c.value.Load()
		if c.value.CompareAndSwap(old, old&^CR0TS) {
			return
		}
	}
}

// Value returns the full register value.
func (c *CR0) Value() uint64 {
	return c.value.Load()
}
