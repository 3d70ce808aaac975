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

// ElementsRingCapacity is the number of element facts AbstractElements can
// hold at once.
const ElementsRingCapacity = 8

// elementFact is a single (object, index, value) triple.
type elementFact struct {
	object Node
	index  Node
	value  Node
}

func (f elementFact) empty() bool { return f.object == nil }

// AbstractElements is a bounded ring buffer of element facts.
type AbstractElements struct {
	entries [ElementsRingCapacity]elementFact
	cursor  int
}

// Lookup returns the value of any entry whose object and index both
// must-alias the queries, or (nil, false) if there is none.
func (e *AbstractElements) Lookup(o Oracle, object, index Node) (Node, bool) {
	if e == nil {
		return nil, false
	}
	for _, f := range e.entries {
		if f.empty() {
			continue
		}
		if mustAlias(o, f.object, object) && mustAlias(o, f.index, index) {
			return f.value, true
		}
	}
	return nil, false
}

// Extend returns a new ring with (object, index, value) recorded, first
// killing any existing fact that may-aliases the key.
func (e *AbstractElements) Extend(a *Arena, o Oracle, object, index, value Node) *AbstractElements {
	killed := e.Kill(a, o, object, index)
	result := a.newElements()
	if killed != nil {
		*result = *killed
	}
	result.entries[result.cursor] = elementFact{object: object, index: index, value: value}
	result.cursor = (result.cursor + 1) % ElementsRingCapacity
	return result
}

// Kill removes every entry that may-aliases (object, index) on both
// coordinates, preserving entries distinguishable on at least one
// coordinate. Identity-preserving when nothing may-alias.
func (e *AbstractElements) Kill(a *Arena, o Oracle, object, index Node) *AbstractElements {
	if e == nil {
		return nil
	}
	anyHit := false
	for _, f := range e.entries {
		if f.empty() {
			continue
		}
		if mayAlias(o, f.object, object) && mayAlias(o, f.index, index) {
			anyHit = true
			break
		}
	}
	if !anyHit {
		return e
	}
	result := a.newElements()
	n := 0
	for _, f := range e.entries {
		if f.empty() {
			continue
		}
		if mayAlias(o, f.object, object) && mayAlias(o, f.index, index) {
			continue
		}
		result.entries[n] = f
		n++
	}
	result.cursor = n % ElementsRingCapacity
	return result
}

// KillObject removes every entry whose object may-aliases object,
// regardless of index, for writers whose index is unknown or irrelevant.
// Its only caller is AbstractState.KillElementsOnObject; the loop summary
// uses Kill through KillElement instead.
func (e *AbstractElements) KillObject(a *Arena, o Oracle, object Node) *AbstractElements {
	if e == nil {
		return nil
	}
	anyHit := false
	for _, f := range e.entries {
		if !f.empty() && mayAlias(o, f.object, object) {
			anyHit = true
			break
		}
	}
	if !anyHit {
		return e
	}
	result := a.newElements()
	n := 0
	for _, f := range e.entries {
		if f.empty() || mayAlias(o, f.object, object) {
			continue
		}
		result.entries[n] = f
		n++
	}
	result.cursor = n % ElementsRingCapacity
	return result
}

// facts returns the non-empty facts, for Equals/Merge.
func (e *AbstractElements) facts() []elementFact {
	if e == nil {
		return nil
	}
	out := make([]elementFact, 0, ElementsRingCapacity)
	for _, f := range e.entries {
		if !f.empty() {
			out = append(out, f)
		}
	}
	return out
}

func sameFact(a, b elementFact) bool {
	return a.object == b.object && a.index == b.index && a.value == b.value
}

// Equals reports whether the two rings contain the same set of facts, by
// node identity, irrespective of order or cursor position.
func (e *AbstractElements) Equals(other *AbstractElements) bool {
	af, bf := e.facts(), other.facts()
	if len(af) != len(bf) {
		return false
	}
	return containsAll(af, bf) && containsAll(bf, af)
}

func containsAll(haystack, needles []elementFact) bool {
	for _, n := range needles {
		found := false
		for _, h := range haystack {
			if sameFact(h, n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Merge returns the greatest lower bound of e and other in the fact-subset
// lattice: the facts present, identically, in both.
func (e *AbstractElements) Merge(a *Arena, other *AbstractElements) *AbstractElements {
	if e.Equals(other) {
		return e
	}
	result := a.newElements()
	n := 0
	for _, f := range e.facts() {
		for _, g := range other.facts() {
			if sameFact(f, g) {
				result.entries[n] = f
				n++
				break
			}
		}
	}
	result.cursor = n % ElementsRingCapacity
	return result
}
