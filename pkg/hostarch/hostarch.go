// Copyright 2024 The eduOS Authors.
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

// Package hostarch contains virtual address primitives and constants for
// the modeled machine.
package hostarch

// Machine constants.
const (
	// WordSize is the size of a machine word in bytes.
	WordSize = 8

	// PageShift is log2(PageSize).
	PageShift = 12

	// PageSize is the system page size.
	PageSize = 1 << PageShift

	// PageMask is the mask for the lower bits of an address within a page.
	PageMask = PageSize - 1
)
