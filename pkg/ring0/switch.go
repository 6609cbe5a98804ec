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
	"github.com/jbreitbart/eduOS-rs/pkg/hostarch"
)

// Switch suspends the running context and resumes the one newStack points
// at.
//
// The running register file is pushed as a context frame onto the current
// stack, the resulting stack pointer is stored through oldStack, and the
// frame at newStack is popped back into the register file. In between, the
// TSS notifier is told about the new stack and the lazy floating point flag
// is armed. On return the register file belongs to the resumed task and RIP
// holds its resume address, which is a genuine suspension point or, for a
// task that has never run, its entry point.
//
// From the suspended context's point of view the call does not return until
// some later switch names its frame in newStack. Switching a context to
// itself is a full, harmless round trip.
//
// Preconditions:
//   - The caller has arranged mutual exclusion; no second switch may begin
//     on this CPU before this one completes.
//   - newStack points at a well formed context frame.
//   - oldStack is exclusively owned for the duration of the switch.
func (c *CPU) Switch(oldStack *hostarch.Addr, newStack hostarch.Addr) {
	// Save the outgoing context and publish its frame pointer. After this
	// store the suspended context is resumable by anyone holding oldStack.
	*oldStack = arch.SaveContext(c.mem, &c.registers)

	// Switch stacks. From here on the incoming task's stack is live.
	c.registers.RSP = newStack

	// The privileged stack record must follow before anything can fault
	// on the new stack.
	c.notifier.SetKernelStack(newStack)

	// Arm the device-not-available trap so the incoming task reloads
	// floating point state on first use.
	c.kernel.fpu.MarkDirty()

	// Restore the incoming context. This reloads every register saved in
	// the frame, so nothing the notifier clobbered survives.
	arch.RestoreContext(c.mem, newStack, &c.registers)
}
