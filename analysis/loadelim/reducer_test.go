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

func TestReduceLoadFieldForwardsStoredValue(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	store := withEffect(withValues(fieldAccess(newNode(3, OpStoreField), 0), obj, val), start)
	load := withEffect(withValues(fieldAccess(newNode(4, OpLoadField), 0), obj), store)

	reduceAll(r, start, store)
	red := r.Reduce(load)

	if red.Kind != KindReplace || red.Value != val {
		t.Fatalf("Reduce(load) = %+v, want Replace(%v)", red, val)
	}
}

func TestReduceLoadFieldMissesAcrossMayAliasingStore(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpParameter) // not fresh: may-aliases other
	other := newNode(2, OpParameter)
	val := newNode(3, OpParameter)
	unrelated := newNode(4, OpParameter)

	store := withEffect(withValues(fieldAccess(newNode(5, OpStoreField), 0), obj, val), start)
	// A second, unrelated store to a may-aliasing object must invalidate it.
	store2 := withEffect(withValues(fieldAccess(newNode(6, OpStoreField), 0), other, unrelated), store)
	load := withEffect(withValues(fieldAccess(newNode(7, OpLoadField), 0), obj), store2)

	reduceAll(r, start, store, store2)
	red := r.Reduce(load)

	if red.Kind == KindReplace {
		t.Fatalf("Reduce(load) = %+v, want no replacement after a may-aliasing store", red)
	}
}

func TestReduceStoreFieldElidesRedundantStore(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	store1 := withEffect(withValues(fieldAccess(newNode(3, OpStoreField), 0), obj, val), start)
	store2 := withEffect(withValues(fieldAccess(newNode(4, OpStoreField), 0), obj, val), store1)

	reduceAll(r, start, store1)
	red := r.Reduce(store2)

	if red.Kind != KindReplace || red.Value != store1 {
		t.Fatalf("Reduce(store2) = %+v, want Replace(store1) since the value did not change", red)
	}
}

func TestReduceStoreFieldToUntrackedRepresentationResetsState(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)
	other := newNode(3, OpParameter)

	store1 := withEffect(withValues(fieldAccess(newNode(4, OpStoreField), 0), obj, val), start)
	untracked := withValues(newNode(5, OpStoreField), obj, other)
	untracked.operator.Representation = RepWord8 // untracked, per the slot mapping
	untracked = withEffect(untracked, store1)

	reduceAll(r, start, store1)
	r.Reduce(untracked)

	state, ok := r.States.Get(untracked)
	if !ok {
		t.Fatalf("expected a recorded state after reducing an untracked store")
	}
	if _, found := state.LookupField(r.Oracle, 0, obj); found {
		t.Fatalf("an untracked store must conservatively reset to the empty state")
	}
}

func TestReduceCheckMapsElidesRepeatedCheck(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	fixedMap := newNode(2, OpHeapConstant)

	check1 := withEffect(withValues(newNode(3, OpCheckMaps), obj, fixedMap), start)
	check2 := withEffect(withValues(newNode(4, OpCheckMaps), obj, fixedMap), check1)

	reduceAll(r, start, check1)
	red := r.Reduce(check2)

	if red.Kind != KindReplace || red.Value != check1 {
		t.Fatalf("Reduce(check2) = %+v, want Replace(check1)", red)
	}
}

// A CheckMaps whose single map doesn't match the recorded fact must still
// overwrite that fact with the map it just checked; otherwise a later
// CheckMaps against the stale map wrongly matches and gets eliminated, even
// though the map in between proved the object no longer carries it.
func TestReduceCheckMapsCorrectsAStaleFactOnMismatch(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	map1 := newNode(2, OpHeapConstant)
	map2 := newNode(3, OpHeapConstant)

	check1 := withEffect(withValues(newNode(4, OpCheckMaps), obj, map1), start)
	check2 := withEffect(withValues(newNode(5, OpCheckMaps), obj, map2), check1)
	check3 := withEffect(withValues(newNode(6, OpCheckMaps), obj, map1), check2)

	reduceAll(r, start, check1)

	red2 := r.Reduce(check2)
	if red2.Kind == KindReplace {
		t.Fatalf("Reduce(check2) = %+v, a mismatched map must not be eliminated", red2)
	}

	red3 := r.Reduce(check3)
	if red3.Kind == KindReplace {
		t.Fatalf("Reduce(check3) = %+v, the stale map1 fact must not survive check2's mismatch", red3)
	}
}

func TestReduceLoadElementForwardsMustAliasedStore(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	index := newNode(2, OpParameter)
	val := newNode(3, OpParameter)

	store := withEffect(withValues(newNode(4, OpStoreElement), obj, index, val), start)
	store.operator.Representation = RepTagged
	load := withEffect(withValues(newNode(5, OpLoadElement), obj, index), store)

	reduceAll(r, start, store)
	red := r.Reduce(load)

	if red.Kind != KindReplace || red.Value != val {
		t.Fatalf("Reduce(load) = %+v, want Replace(%v)", red, val)
	}
}

func TestReduceStoreElementDropsFactWhenRepresentationTruncates(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	index := newNode(2, OpParameter)
	val := newNode(3, OpParameter)

	store := withEffect(withValues(newNode(4, OpStoreElement), obj, index, val), start)
	store.operator.Representation = RepWord8 // truncating: does not preserve full value
	load := withEffect(withValues(newNode(5, OpLoadElement), obj, index), store)

	reduceAll(r, start, store)
	red := r.Reduce(load)

	if red.Kind == KindReplace {
		t.Fatalf("Reduce(load) = %+v, a truncating store must not be forwarded", red)
	}
}

func TestReduceMergeDropsFieldFactOnDisagreement(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val1 := newNode(2, OpParameter)
	val2 := newNode(3, OpParameter)

	branch1 := withEffect(withValues(fieldAccess(newNode(4, OpStoreField), 0), obj, val1), start)
	branch2 := withEffect(withValues(fieldAccess(newNode(5, OpStoreField), 0), obj, val2), start)
	merge := withEffects(newNode(6, OpEffectPhi), branch1, branch2)

	reduceAll(r, start, branch1, branch2)
	r.Reduce(merge)

	state, ok := r.States.Get(merge)
	if !ok {
		t.Fatalf("expected a recorded state for the merge node")
	}
	if _, found := state.LookupField(r.Oracle, 0, obj); found {
		t.Fatalf("disagreeing branch facts must not survive the merge")
	}
}

func TestReduceMergeKeepsFieldFactOnAgreement(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	branch1 := withEffect(withValues(fieldAccess(newNode(4, OpStoreField), 0), obj, val), start)
	branch2 := withEffect(withValues(fieldAccess(newNode(5, OpStoreField), 0), obj, val), start)
	merge := withEffects(newNode(6, OpEffectPhi), branch1, branch2)
	load := withEffect(withValues(fieldAccess(newNode(7, OpLoadField), 0), obj), merge)

	reduceAll(r, start, branch1, branch2)
	r.Reduce(merge)
	red := r.Reduce(load)

	if red.Kind != KindReplace || red.Value != val {
		t.Fatalf("Reduce(load) = %+v, want Replace(%v) when both branches agree", red, val)
	}
}

func TestComputeLoopStateBailsOnUnrecognizedWrite(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	storeBeforeLoop := withEffect(withValues(fieldAccess(newNode(3, OpStoreField), 0), obj, val), start)

	loopControl := newNode(4, OpLoop)
	unknownWrite := newNode(5, OpCheckMaps) // not handled by the per-opcode loop summary
	phi := withControl(withEffects(newNode(6, OpEffectPhi), storeBeforeLoop, unknownWrite), loopControl)

	reduceAll(r, start, storeBeforeLoop)
	red := r.Reduce(phi)

	if red.Kind != KindChanged {
		t.Fatalf("Reduce(phi) = %+v, want Changed", red)
	}
	state, ok := r.States.Get(phi)
	if !ok {
		t.Fatalf("expected a recorded state for the loop phi")
	}
	if _, found := state.LookupField(r.Oracle, 0, obj); found {
		t.Fatalf("an unrecognized write in the loop body must bail to the empty state")
	}
}

func TestComputeLoopStateAppliesPreciseKillsWithoutBailing(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	fixedMap := newNode(2, OpHeapConstant)
	elements := newNode(3, OpAllocate)

	storeMap := withEffect(withValues(fieldAccess(newNode(4, OpStoreField), 0), obj, fixedMap), start)
	storeElements := withEffect(withValues(fieldAccess(newNode(5, OpStoreField), 2), obj, elements), storeMap)

	loopControl := newNode(6, OpLoop)
	grow := withValues(newNode(7, OpMaybeGrowFastElements), obj)
	phi := withControl(withEffects(newNode(8, OpEffectPhi), storeElements, grow), loopControl)

	reduceAll(r, start, storeMap, storeElements)
	r.Reduce(phi)

	state, ok := r.States.Get(phi)
	if !ok {
		t.Fatalf("expected a recorded state for the loop phi")
	}
	if _, found := state.LookupField(r.Oracle, 2, obj); found {
		t.Fatalf("MaybeGrowFastElements must kill the elements-pointer slot")
	}
	if got, found := state.LookupField(r.Oracle, 0, obj); !found || got != fixedMap {
		t.Fatalf("MaybeGrowFastElements must not disturb an unrelated slot, got (%v, %v)", got, found)
	}
}

// A loop body that only reads a field, never writes it, must not disturb
// any fact present in the entry state: LoadField is a read, so it has to
// reach the loop summary's NoWrite fast path rather than the catch-all
// "unrecognized write" bail.
func TestComputeLoopStatePreservesFactsAcrossAnOrdinaryFieldRead(t *testing.T) {
	r := NewReducer(StructuralOracle{}, 8)
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	storeBeforeLoop := withEffect(withValues(fieldAccess(newNode(3, OpStoreField), 0), obj, val), start)

	loopControl := newNode(4, OpLoop)
	fieldRead := noWrite(withValues(fieldAccess(newNode(5, OpLoadField), 0), obj))
	phi := withControl(withEffects(newNode(6, OpEffectPhi), storeBeforeLoop, fieldRead), loopControl)

	reduceAll(r, start, storeBeforeLoop)
	red := r.Reduce(phi)

	if red.Kind != KindChanged {
		t.Fatalf("Reduce(phi) = %+v, want Changed", red)
	}
	state, ok := r.States.Get(phi)
	if !ok {
		t.Fatalf("expected a recorded state for the loop phi")
	}
	if got, found := state.LookupField(r.Oracle, 0, obj); !found || got != val {
		t.Fatalf("an ordinary field read in the loop body must not invalidate the entry state's facts, got (%v, %v)", got, found)
	}
}
