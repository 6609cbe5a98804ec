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

package ilist

import "testing"

type testEntry struct {
	Entry
	value int
}

func values(l *List) []int {
	var vs []int
	for e := l.Front(); e != nil; e = e.Next() {
		vs = append(vs, e.(*testEntry).value)
	}
	return vs
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestZeroEmpty(t *testing.T) {
	var l List
	if !l.Empty() {
		t.Errorf("zero list is not empty")
	}
	if l.Front() != nil {
		t.Errorf("Front() is not nil")
	}
	if l.Back() != nil {
		t.Errorf("Back() is not nil")
	}
	if l.Len() != 0 {
		t.Errorf("Len() is not zero")
	}
}

func TestPushBack(t *testing.T) {
	var l List
	for i := 0; i < 10; i++ {
		l.PushBack(&testEntry{value: i})
	}

	if got := values(&l); !equal(got, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Errorf("wrong order after PushBack: %v", got)
	}
	if l.Len() != 10 {
		t.Errorf("Len() = %d, want 10", l.Len())
	}
	if l.Front().(*testEntry).value != 0 || l.Back().(*testEntry).value != 9 {
		t.Errorf("wrong front/back: %v/%v", l.Front(), l.Back())
	}
}

func TestPushFront(t *testing.T) {
	var l List
	for i := 0; i < 10; i++ {
		l.PushFront(&testEntry{value: i})
	}

	if got := values(&l); !equal(got, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}) {
		t.Errorf("wrong order after PushFront: %v", got)
	}
}

func TestRemove(t *testing.T) {
	var l List
	var es [5]*testEntry
	for i := range es {
		es[i] = &testEntry{value: i}
		l.PushBack(es[i])
	}

	// Middle, then head, then tail.
	l.Remove(es[2])
	if got := values(&l); !equal(got, []int{0, 1, 3, 4}) {
		t.Errorf("after removing middle: %v", got)
	}
	l.Remove(es[0])
	if got := values(&l); !equal(got, []int{1, 3, 4}) {
		t.Errorf("after removing head: %v", got)
	}
	l.Remove(es[4])
	if got := values(&l); !equal(got, []int{1, 3}) {
		t.Errorf("after removing tail: %v", got)
	}

	l.Remove(es[1])
	l.Remove(es[3])
	if !l.Empty() {
		t.Errorf("list not empty after removing everything")
	}
}

func TestReset(t *testing.T) {
	var l List
	l.PushBack(&testEntry{value: 1})
	l.PushBack(&testEntry{value: 2})
	l.Reset()
	if !l.Empty() || l.Len() != 0 {
		t.Errorf("list not empty after Reset")
	}
}
