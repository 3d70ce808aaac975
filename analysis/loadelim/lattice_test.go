// Copyright The Loadelim Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package loadelim

import "testing"

func TestAbstractFieldRoundTrip(t *testing.T) {
	a := NewArena(8)
	o := StructuralOracle{}
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	var f *AbstractField
	f = f.Extend(a, o, obj, val)

	got, found := f.Lookup(o, obj)
	if !found || got != val {
		t.Fatalf("Lookup after Extend = (%v, %v), want (%v, true)", got, found, val)
	}
}

func TestAbstractFieldKillIsIdentityPreservingWhenNoAlias(t *testing.T) {
	a := NewArena(8)
	o := StructuralOracle{}
	obj := newNode(1, OpAllocate)
	other := newNode(2, OpAllocate)
	val := newNode(3, OpParameter)

	var f *AbstractField
	f = f.Extend(a, o, obj, val)

	killed := f.Kill(a, o, other)
	if killed != f {
		t.Fatalf("Kill on a disjoint object must return the same pointer, got a new one")
	}
}

func TestAbstractFieldKillRemovesMayAliasingEntry(t *testing.T) {
	a := NewArena(8)
	o := StructuralOracle{}
	obj := newNode(1, OpParameter) // not a fresh allocation: alias-ambiguous
	val := newNode(2, OpParameter)

	var f *AbstractField
	f = f.Extend(a, o, obj, val)
	killed := f.Kill(a, o, obj)

	if _, found := killed.Lookup(o, obj); found {
		t.Fatalf("fact survived a Kill on a must-aliasing key")
	}
}

func TestAbstractFieldMergeIsIntersection(t *testing.T) {
	a := NewArena(8)
	o := StructuralOracle{}
	obj := newNode(1, OpAllocate)
	val1 := newNode(2, OpParameter)
	val2 := newNode(3, OpParameter)

	var f1, f2 *AbstractField
	f1 = f1.Extend(a, o, obj, val1)
	f2 = f2.Extend(a, o, obj, val2)

	merged := f1.Merge(a, f2)
	if _, found := merged.Lookup(o, obj); found {
		t.Fatalf("merge of disagreeing facts must drop the fact entirely, found one")
	}
}

func TestAbstractFieldMergeIsCommutative(t *testing.T) {
	a := NewArena(8)
	o := StructuralOracle{}
	obj1 := newNode(1, OpAllocate)
	obj2 := newNode(2, OpAllocate)
	val1 := newNode(3, OpParameter)
	val2 := newNode(4, OpParameter)

	var f1, f2 *AbstractField
	f1 = f1.Extend(a, o, obj1, val1)
	f1 = f1.Extend(a, o, obj2, val2)
	f2 = f2.Extend(a, o, obj1, val1)

	ab := f1.Merge(a, f2)
	ba := f2.Merge(a, f1)
	if !ab.Equals(ba) {
		t.Fatalf("Merge is not commutative: a.Merge(b) != b.Merge(a)")
	}
}

func TestAbstractElementsRingEvictsOldestOnOverflow(t *testing.T) {
	a := NewArena(32)
	o := StructuralOracle{}
	index := newNode(100, OpParameter)

	var e *AbstractElements
	objects := make([]*testNode, ElementsRingCapacity+1)
	for i := range objects {
		objects[i] = newNode(i+1, OpAllocate)
		e = e.Extend(a, o, objects[i], index, objects[i])
	}

	if _, found := e.Lookup(o, objects[0], index); found {
		t.Fatalf("oldest fact should have been evicted once the ring overflowed")
	}
	if _, found := e.Lookup(o, objects[len(objects)-1], index); !found {
		t.Fatalf("most recently written fact should still be present")
	}
	if len(e.facts()) != ElementsRingCapacity {
		t.Fatalf("ring holds %d facts, want %d", len(e.facts()), ElementsRingCapacity)
	}
}

func TestAbstractElementsKillIsIdentityPreservingWhenNoAlias(t *testing.T) {
	a := NewArena(8)
	o := StructuralOracle{}
	obj := newNode(1, OpAllocate)
	other := newNode(2, OpAllocate)
	index := newNode(3, OpParameter)
	val := newNode(4, OpParameter)

	var e *AbstractElements
	e = e.Extend(a, o, obj, index, val)

	killed := e.Kill(a, o, other, index)
	if killed != e {
		t.Fatalf("Kill on a disjoint object must return the same pointer")
	}
}

func TestAbstractStateMergeAbsenceIsBottom(t *testing.T) {
	a := NewArena(8)
	o := StructuralOracle{}
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	known := AbstractState{}.AddField(a, o, 0, obj, val)
	unknown := emptyState() // no elements ring at all

	merged := known.Merge(a, unknown)
	if _, found := merged.LookupField(o, 0, obj); found {
		t.Fatalf("merging with an all-absent state must not retain any fact")
	}
}

func TestAliasOracleStructuralRules(t *testing.T) {
	o := StructuralOracle{}

	alloc1 := newNode(1, OpAllocate)
	alloc2 := newNode(2, OpAllocate)
	param := newNode(3, OpParameter)
	unknown := newNode(4, OpOther)

	t.Run("identical node must-aliases itself", func(t *testing.T) {
		if got := o.Alias(alloc1, alloc1); got != MustAlias {
			t.Fatalf("Alias(x, x) = %v, want MustAlias", got)
		}
	})

	t.Run("two fresh allocations never alias", func(t *testing.T) {
		if got := o.Alias(alloc1, alloc2); got != NoAlias {
			t.Fatalf("Alias(alloc, alloc) = %v, want NoAlias", got)
		}
	})

	t.Run("a fresh allocation never aliases a parameter", func(t *testing.T) {
		if got := o.Alias(alloc1, param); got != NoAlias {
			t.Fatalf("Alias(alloc, param) = %v, want NoAlias", got)
		}
	})

	t.Run("two unrelated opaque nodes may alias", func(t *testing.T) {
		if got := o.Alias(param, unknown); got != MayAlias {
			t.Fatalf("Alias(param, opaque) = %v, want MayAlias", got)
		}
	})

	t.Run("disjoint types never alias", func(t *testing.T) {
		a := newNode(5, OpParameter)
		b := newNode(6, OpParameter)
		a.typ = testType("A")
		b.typ = testType("B")
		if got := o.Alias(a, b); got != NoAlias {
			t.Fatalf("Alias of disjoint types = %v, want NoAlias", got)
		}
	})

	t.Run("FinishRegion is transparent to aliasing", func(t *testing.T) {
		wrapped := withValues(newNode(7, OpFinishRegion), alloc1)
		if got := o.Alias(wrapped, alloc2); got != NoAlias {
			t.Fatalf("Alias through FinishRegion = %v, want NoAlias", got)
		}
	})
}
