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

// MaxTrackedFields is the number of field slots AbstractState tracks.
const MaxTrackedFields = 32

// AbstractState is the tuple (elements, fields[MaxTrackedFields]). A nil
// pointer in either axis means "no information" (absence is bottom: "no
// guarantees"). The zero value is the empty state.
type AbstractState struct {
	elements *AbstractElements
	fields   [MaxTrackedFields]*AbstractField
}

// emptyState returns the state with no elements and no field facts: the
// value used at graph entry and whenever an opaque side effect is
// encountered.
func emptyState() AbstractState {
	return AbstractState{}
}

// LookupElement delegates to the elements ring.
func (s AbstractState) LookupElement(o Oracle, object, index Node) (Node, bool) {
	return s.elements.Lookup(o, object, index)
}

// LookupField delegates to the field slot, if the slot is in range.
func (s AbstractState) LookupField(o Oracle, slot int, object Node) (Node, bool) {
	if slot < 0 || slot >= MaxTrackedFields {
		return nil, false
	}
	return s.fields[slot].Lookup(o, object)
}

// AddElement returns a new state with (object, index, value) recorded.
func (s AbstractState) AddElement(a *Arena, o Oracle, object, index, value Node) AbstractState {
	s.elements = s.elements.Extend(a, o, object, index, value)
	return s
}

// AddField returns a new state with (object, value) recorded in slot.
func (s AbstractState) AddField(a *Arena, o Oracle, slot int, object, value Node) AbstractState {
	if slot < 0 || slot >= MaxTrackedFields {
		return s
	}
	s.fields[slot] = s.fields[slot].Extend(a, o, object, value)
	return s
}

// KillElement returns a new state with every element fact that may-aliases
// (object, index) removed.
func (s AbstractState) KillElement(a *Arena, o Oracle, object, index Node) AbstractState {
	s.elements = s.elements.Kill(a, o, object, index)
	return s
}

// KillElementsOnObject returns a new state with every element fact whose
// object may-aliases object removed, regardless of index.
func (s AbstractState) KillElementsOnObject(a *Arena, o Oracle, object Node) AbstractState {
	s.elements = s.elements.KillObject(a, o, object)
	return s
}

// KillField returns a new state with every fact in slot that may-aliases
// object removed.
func (s AbstractState) KillField(a *Arena, o Oracle, slot int, object Node) AbstractState {
	if slot < 0 || slot >= MaxTrackedFields {
		return s
	}
	s.fields[slot] = s.fields[slot].Kill(a, o, object)
	return s
}

// Merge returns the elementwise meet of s and other over the fact-subset
// lattice. If either state is missing information on an axis (nil), the
// result is missing on that axis too.
func (s AbstractState) Merge(a *Arena, other AbstractState) AbstractState {
	var result AbstractState
	if s.elements != nil && other.elements != nil {
		result.elements = s.elements.Merge(a, other.elements)
	}
	for i := 0; i < MaxTrackedFields; i++ {
		if s.fields[i] != nil && other.fields[i] != nil {
			result.fields[i] = s.fields[i].Merge(a, other.fields[i])
		}
	}
	return result
}

// Equals reports whether s and other agree on every axis.
func (s AbstractState) Equals(other AbstractState) bool {
	if !s.elements.Equals(other.elements) {
		return false
	}
	for i := 0; i < MaxTrackedFields; i++ {
		if !s.fields[i].Equals(other.fields[i]) {
			return false
		}
	}
	return true
}

// StateTable is the per-node state map: a dense vector indexed by node id,
// holding the post-state produced at each effect-producing node. A missing
// entry means the node has not yet been analyzed.
type StateTable struct {
	entries []*AbstractState
}

// NewStateTable returns a table sized for nodeCount node ids.
func NewStateTable(nodeCount int) *StateTable {
	return &StateTable{entries: make([]*AbstractState, nodeCount)}
}

// Get returns the recorded state for node, or (zero, false) if absent.
func (t *StateTable) Get(node Node) (AbstractState, bool) {
	id := node.ID()
	if id < 0 || id >= len(t.entries) || t.entries[id] == nil {
		return AbstractState{}, false
	}
	return *t.entries[id], true
}

// Set records state for node, growing the table if necessary.
func (t *StateTable) Set(node Node, state AbstractState) {
	id := node.ID()
	if id >= len(t.entries) {
		grown := make([]*AbstractState, id+1)
		copy(grown, t.entries)
		t.entries = grown
	}
	t.entries[id] = &state
}
