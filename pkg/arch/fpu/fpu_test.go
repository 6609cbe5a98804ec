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

package fpu

import "testing"

func TestCR0MarkClear(t *testing.T) {
	c := NewCR0()
	if c.IsDirty() {
		t.Errorf("fresh CR0 has TS set")
	}

	c.MarkDirty()
	if !c.IsDirty() {
		t.Errorf("MarkDirty did not set TS")
	}

	// Marking twice is fine; every switch marks unconditionally.
	c.MarkDirty()
	if !c.IsDirty() {
		t.Errorf("second MarkDirty cleared TS")
	}

	c.Clear()
	if c.IsDirty() {
		t.Errorf("Clear did not clear TS")
	}
}

func TestCR0PreservesKernelBits(t *testing.T) {
	c := NewCR0()
	base := c.Value()
	if base&CR0PE == 0 || base&CR0PG == 0 {
		t.Fatalf("baseline CR0 %#x missing PE or PG", base)
	}

	c.MarkDirty()
	if got := c.Value(); got != base|CR0TS {
		t.Errorf("after MarkDirty: got %#x, want %#x", got, base|CR0TS)
	}
	c.Clear()
	if got := c.Value(); got != base {
		t.Errorf("after Clear: got %#x, want %#x", got, base)
	}
}
