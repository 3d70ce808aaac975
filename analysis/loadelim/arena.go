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

// Arena is a bump allocator for the immutable lattice values the pass
// produces. Allocations are O(1) and individual values are never freed;
// the entire arena is dropped at the end of a pass.
//
// Go already owns these objects on its GC heap, so this isn't managing raw
// memory; it exists to batch-allocate the small fixed-size slices
// AbstractState needs in slabs instead of one at a time.
type Arena struct {
	// slabs holds one pre-sized backing slice per allocation size class.
	// Growing past a slab's capacity starts a fresh slab rather than
	// reallocating the old one, so pointers already handed out from a slab
	// stay valid for the lifetime of the arena.
	stateSlabs   [][]AbstractState
	elementSlabs [][]AbstractElements
	fieldSlabs   [][]AbstractField

	slabSize int
}

// NewArena returns an empty arena sized for a function with roughly
// nodeCount effect-producing nodes.
func NewArena(nodeCount int) *Arena {
	if nodeCount < 8 {
		nodeCount = 8
	}
	return &Arena{slabSize: nodeCount}
}

// newState allocates a fresh zero-valued AbstractState in the arena and
// returns a pointer to it that remains valid for the arena's lifetime.
func (a *Arena) newState() *AbstractState {
	if len(a.stateSlabs) == 0 || isFull(a.stateSlabs[len(a.stateSlabs)-1]) {
		a.stateSlabs = append(a.stateSlabs, make([]AbstractState, 0, a.slabSize))
	}
	i := len(a.stateSlabs) - 1
	a.stateSlabs[i] = append(a.stateSlabs[i], AbstractState{})
	return &a.stateSlabs[i][len(a.stateSlabs[i])-1]
}

// newElements allocates a fresh zero-valued AbstractElements ring.
func (a *Arena) newElements() *AbstractElements {
	if len(a.elementSlabs) == 0 || isFull(a.elementSlabs[len(a.elementSlabs)-1]) {
		a.elementSlabs = append(a.elementSlabs, make([]AbstractElements, 0, a.slabSize))
	}
	i := len(a.elementSlabs) - 1
	a.elementSlabs[i] = append(a.elementSlabs[i], AbstractElements{})
	return &a.elementSlabs[i][len(a.elementSlabs[i])-1]
}

// newField allocates a fresh zero-valued AbstractField.
func (a *Arena) newField() *AbstractField {
	if len(a.fieldSlabs) == 0 || isFull(a.fieldSlabs[len(a.fieldSlabs)-1]) {
		a.fieldSlabs = append(a.fieldSlabs, make([]AbstractField, 0, a.slabSize))
	}
	i := len(a.fieldSlabs) - 1
	a.fieldSlabs[i] = append(a.fieldSlabs[i], AbstractField{})
	return &a.fieldSlabs[i][len(a.fieldSlabs[i])-1]
}

func isFull[T any](s []T) bool {
	return len(s) == cap(s)
}
