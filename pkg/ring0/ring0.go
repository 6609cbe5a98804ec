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

// Package ring0 provides the privileged core of the cooperative switching
// mechanism: the context switch primitive, the task state segment holding
// the kernel stack pointer consulted on privilege transitions, and the lazy
// floating point flag toggled on every switch.
//
// The package operates on the modeled machine from pkg/arch. Correctness is
// a caller contract: exactly one switch may be in progress per CPU, and the
// resume pointer must name a well formed context frame. Violations fault
// the model instead of returning errors, matching the hardware.
package ring0
