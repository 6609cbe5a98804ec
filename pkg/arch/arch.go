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

// Package arch models the architectural state of an amd64 core: the general
// purpose register file, the flags register, and the kernel stacks that hold
// saved execution contexts.
//
// The machine is modeled rather than native. Registers live in an explicit
// Registers struct, and stacks live in an explicit Memory, so that every
// word a context switch pushes or pops is visible to tests. The context
// frame layout is a fixed ABI shared by SaveContext, RestoreContext and
// NewStackFrame; any code that builds a frame by hand must match it exactly.
package arch
