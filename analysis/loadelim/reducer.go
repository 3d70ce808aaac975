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

// Reducer runs the per-opcode dispatch against a StateTable, producing
// Reductions the host graph (or the worklist driver, see drive.go)
// consumes.
//
// A Reducer instance is private to one pass over one function: it owns the
// arena and state table for that function and is not meant to outlive, or
// be shared across, that one run.
type Reducer struct {
	Oracle Oracle
	Arena  *Arena
	States *StateTable
}

// NewReducer returns a Reducer ready to analyze a function with roughly
// nodeCount nodes, using oracle for alias queries.
func NewReducer(oracle Oracle, nodeCount int) *Reducer {
	return &Reducer{
		Oracle: oracle,
		Arena:  NewArena(nodeCount),
		States: NewStateTable(nodeCount),
	}
}

// UpdateState is the canonical way handlers emit Changed: it records state
// for node only if it differs from the prior recorded state by Equals, and
// returns Changed(node) exactly in that case.
func (r *Reducer) UpdateState(node Node, state AbstractState) Reduction {
	if prior, ok := r.States.Get(node); ok && prior.Equals(state) {
		return NoChange()
	}
	r.States.Set(node, state)
	return Changed(node)
}

// Reduce dispatches on node's opcode and returns the resulting Reduction.
// It is the top-level entry point the worklist driver calls once per node
// visited.
//
//gocyclo:ignore
func (r *Reducer) Reduce(node Node) Reduction {
	switch node.Op() {
	case OpStart:
		return r.UpdateState(node, emptyState())
	case OpCheckMaps:
		return r.doCheckMaps(node)
	case OpEnsureWritableFastElements:
		return r.doEnsureWritableFastElements(node)
	case OpMaybeGrowFastElements:
		return r.doMaybeGrowFastElements(node)
	case OpTransitionElementsKind:
		return r.doTransitionElementsKind(node)
	case OpLoadField:
		return r.doLoadField(node)
	case OpStoreField:
		return r.doStoreField(node)
	case OpLoadElement:
		return r.doLoadElement(node)
	case OpStoreElement:
		return r.doStoreElement(node)
	case OpStoreTypedElement:
		return r.doStoreTypedElement(node)
	case OpEffectPhi:
		return r.doEffectPhi(node)
	default:
		return r.doOther(node)
	}
}

// effectState fetches the recorded state at the node's sole effect input.
// Every handler but Start and EffectPhi shares this prologue: if the
// predecessor has not yet been analyzed, return NoChange and let the
// fixed-point revisit this node later.
func (r *Reducer) effectState(node Node) (AbstractState, bool) {
	if node.EffectInputCount() != 1 {
		return AbstractState{}, false
	}
	pred := node.GetEffectInput(0)
	return r.States.Get(pred)
}

func (r *Reducer) doCheckMaps(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	maps := make([]Node, 0, node.ValueInputCount()-1)
	for i := 1; i < node.ValueInputCount(); i++ {
		maps = append(maps, node.GetValueInput(i))
	}
	if known, found := state.LookupField(r.Oracle, 0, object); found {
		for _, m := range maps {
			if known == m {
				return Replace(node.GetEffectInput(0))
			}
		}
	}
	if len(maps) == 1 {
		state = state.AddField(r.Arena, r.Oracle, 0, object, maps[0])
	}
	return r.UpdateState(node, state)
}

func (r *Reducer) doEnsureWritableFastElements(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	elements := node.GetValueInput(1)
	fixedArrayMap := node.Operator().TargetMap

	if known, found := state.LookupField(r.Oracle, 0, elements); found && known == fixedArrayMap {
		return Replace(elements)
	}

	state = state.AddField(r.Arena, r.Oracle, 0, node, fixedArrayMap)
	state = state.KillField(r.Arena, r.Oracle, 2, object)
	state = state.AddField(r.Arena, r.Oracle, 2, object, node)
	return r.UpdateState(node, state)
}

func (r *Reducer) doMaybeGrowFastElements(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	op := node.Operator()

	elementsMap := op.TargetMap
	state = state.AddField(r.Arena, r.Oracle, 0, node, elementsMap)

	if op.GrowFlags&FlagArrayObject != 0 {
		state = state.KillField(r.Arena, r.Oracle, 3, object)
	}
	state = state.KillField(r.Arena, r.Oracle, 2, object)
	state = state.AddField(r.Arena, r.Oracle, 2, object, node)
	return r.UpdateState(node, state)
}

func (r *Reducer) doTransitionElementsKind(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	op := node.Operator()

	known, found := state.LookupField(r.Oracle, 0, object)
	if found && known == op.TargetMap {
		return Replace(node.GetEffectInput(0))
	}

	state = state.KillField(r.Arena, r.Oracle, 0, object)
	if found && known == op.SourceMap {
		state = state.AddField(r.Arena, r.Oracle, 0, object, op.TargetMap)
	}
	if op.Transition == SlowTransition {
		state = state.KillField(r.Arena, r.Oracle, 2, object)
	}
	return r.UpdateState(node, state)
}

func (r *Reducer) doLoadField(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	slot := slotFor(node.Operator())
	if slot == untrackedSlot {
		return r.UpdateState(node, state)
	}

	if replacement, found := state.LookupField(r.Oracle, slot, object); found &&
		!replacement.Dead() && replacement.Type().Is(node.Type()) {
		return Replace(replacement)
	}

	state = state.AddField(r.Arena, r.Oracle, slot, object, node)
	return r.UpdateState(node, state)
}

func (r *Reducer) doStoreField(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	newValue := node.GetValueInput(1)
	slot := slotFor(node.Operator())

	if slot == untrackedSlot {
		return r.UpdateState(node, emptyState())
	}

	if current, found := state.LookupField(r.Oracle, slot, object); found && current == newValue {
		return Replace(node.GetEffectInput(0))
	}

	state = state.KillField(r.Arena, r.Oracle, slot, object)
	state = state.AddField(r.Arena, r.Oracle, slot, object, newValue)
	return r.UpdateState(node, state)
}

func (r *Reducer) doLoadElement(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	index := node.GetValueInput(1)

	if replacement, found := state.LookupElement(r.Oracle, object, index); found &&
		!replacement.Dead() && replacement.Type().Is(node.Type()) {
		return Replace(replacement)
	}

	state = state.AddElement(r.Arena, r.Oracle, object, index, node)
	return r.UpdateState(node, state)
}

func (r *Reducer) doStoreElement(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	object := node.GetValueInput(0)
	index := node.GetValueInput(1)
	newValue := node.GetValueInput(2)

	if current, found := state.LookupElement(r.Oracle, object, index); found && current == newValue {
		return Replace(node.GetEffectInput(0))
	}

	state = state.KillElement(r.Arena, r.Oracle, object, index)
	if PreservesFullValue(node.Operator().Representation) {
		state = state.AddElement(r.Arena, r.Oracle, object, index, newValue)
	}
	return r.UpdateState(node, state)
}

func (r *Reducer) doStoreTypedElement(node Node) Reduction {
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	return r.UpdateState(node, state)
}

// doEffectPhi handles EffectPhi over Merge or Loop control nodes.
func (r *Reducer) doEffectPhi(node Node) Reduction {
	control := node.GetControlInput()
	if control != nil && control.Op() == OpLoop {
		return r.doLoopEffectPhi(node)
	}
	return r.doMergeEffectPhi(node)
}

func (r *Reducer) doMergeEffectPhi(node Node) Reduction {
	n := node.EffectInputCount()
	if n == 0 {
		return NoChange()
	}
	first, ok := r.States.Get(node.GetEffectInput(0))
	if !ok {
		return NoChange()
	}
	state := first
	for i := 1; i < n; i++ {
		other, ok := r.States.Get(node.GetEffectInput(i))
		if !ok {
			return NoChange()
		}
		state = state.Merge(r.Arena, other)
	}
	return r.UpdateState(node, state)
}

func (r *Reducer) doLoopEffectPhi(node Node) Reduction {
	entryState, ok := r.States.Get(node.GetEffectInput(0))
	if !ok {
		return NoChange()
	}
	headerState := r.ComputeLoopState(node, entryState)
	return r.UpdateState(node, headerState)
}

// doOther implements the fallback "Other nodes" rule: any effectful node
// the reducer has no specific handler for either passes the incoming state
// through unchanged (NoWrite) or invalidates it entirely.
func (r *Reducer) doOther(node Node) Reduction {
	op := node.Operator()
	if op.EffectInputCount != 1 || op.EffectOutputCount != 1 {
		return NoChange()
	}
	state, ok := r.effectState(node)
	if !ok {
		return NoChange()
	}
	if !op.Properties.NoWrite {
		state = emptyState()
	}
	return r.UpdateState(node, state)
}
