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

// ComputeLoopState summarizes a loop's body into a single conservative
// state: a breadth-first scan of the effect predecessors reachable from
// every non-entry input of the loop-phi, applied as a sequence of kills to
// the entry state. The phi itself is pre-marked visited to bound the walk.
func (r *Reducer) ComputeLoopState(phi Node, entry AbstractState) AbstractState {
	visited := map[Node]bool{phi: true}
	var queue []Node
	for i := 1; i < phi.EffectInputCount(); i++ {
		in := phi.GetEffectInput(i)
		if !visited[in] {
			visited[in] = true
			queue = append(queue, in)
		}
	}

	state := entry
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if !node.Operator().Properties.NoWrite {
			var bail bool
			state, bail = r.applyLoopWrite(state, node)
			if bail {
				return emptyState()
			}
		}

		for i := 0; i < node.EffectInputCount(); i++ {
			pred := node.GetEffectInput(i)
			if !visited[pred] {
				visited[pred] = true
				queue = append(queue, pred)
			}
		}
	}
	return state
}

// applyLoopWrite applies the conservative per-opcode kill rules for one
// writing node encountered during the loop-body scan. The second return
// value is true when the scan must bail to empty_state outright.
func (r *Reducer) applyLoopWrite(state AbstractState, node Node) (AbstractState, bool) {
	switch node.Op() {
	case OpEnsureWritableFastElements:
		object := node.GetValueInput(0)
		return state.KillField(r.Arena, r.Oracle, 2, object), false

	case OpMaybeGrowFastElements:
		object := node.GetValueInput(0)
		if node.Operator().GrowFlags&FlagArrayObject != 0 {
			state = state.KillField(r.Arena, r.Oracle, 3, object)
		}
		return state.KillField(r.Arena, r.Oracle, 2, object), false

	case OpTransitionElementsKind:
		object := node.GetValueInput(0)
		state = state.KillField(r.Arena, r.Oracle, 0, object)
		return state.KillField(r.Arena, r.Oracle, 2, object), false

	case OpStoreField:
		object := node.GetValueInput(0)
		slot := slotFor(node.Operator())
		if slot == untrackedSlot {
			return emptyState(), true
		}
		return state.KillField(r.Arena, r.Oracle, slot, object), false

	case OpStoreElement:
		object := node.GetValueInput(0)
		index := node.GetValueInput(1)
		return state.KillElement(r.Arena, r.Oracle, object, index), false

	case OpStoreBuffer, OpStoreTypedElement:
		return state, false

	default:
		return emptyState(), true
	}
}
