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

// fieldFact is a single (object, value) pair held in one field slot.
type fieldFact struct {
	object Node
	value  Node
}

// AbstractField is the set of (object, value) facts held in one field slot.
// Implemented as a small unordered slice; linear scan is acceptable since
// in practice a slot rarely tracks more than a handful of distinct
// objects.
type AbstractField struct {
	entries []fieldFact
}

// Lookup returns the value associated with the first key that must-aliases
// object, or (nil, false).
func (f *AbstractField) Lookup(o Oracle, object Node) (Node, bool) {
	if f == nil {
		return nil, false
	}
	for _, e := range f.entries {
		if mustAlias(o, e.object, object) {
			return e.value, true
		}
	}
	return nil, false
}

// Extend returns a new field with (object, value) recorded, replacing any
// prior entry for the same must-alias class via a prior Kill.
func (f *AbstractField) Extend(a *Arena, o Oracle, object, value Node) *AbstractField {
	killed := f.Kill(a, o, object)
	result := a.newField()
	var prior []fieldFact
	if killed != nil {
		prior = killed.entries
	}
	result.entries = append(append([]fieldFact(nil), prior...), fieldFact{object: object, value: value})
	return result
}

// Kill returns a new field retaining only entries whose key does not
// may-alias object. Identity-preserving when nothing may-alias.
func (f *AbstractField) Kill(a *Arena, o Oracle, object Node) *AbstractField {
	if f == nil {
		return nil
	}
	anyHit := false
	for _, e := range f.entries {
		if mayAlias(o, e.object, object) {
			anyHit = true
			break
		}
	}
	if !anyHit {
		return f
	}
	result := a.newField()
	for _, e := range f.entries {
		if !mayAlias(o, e.object, object) {
			result.entries = append(result.entries, e)
		}
	}
	return result
}

func (f *AbstractField) len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// Equals reports pointwise equality of (object, value) pairs by node
// identity, order-independent.
func (f *AbstractField) Equals(other *AbstractField) bool {
	if f.len() != other.len() {
		return false
	}
	return fieldContainsAll(f, other) && fieldContainsAll(other, f)
}

func fieldContainsAll(haystack, needles *AbstractField) bool {
	if needles == nil {
		return true
	}
	for _, n := range needles.entries {
		found := false
		if haystack != nil {
			for _, h := range haystack.entries {
				if h.object == n.object && h.value == n.value {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Merge returns the pointwise intersection of f and other's facts.
func (f *AbstractField) Merge(a *Arena, other *AbstractField) *AbstractField {
	if f.Equals(other) {
		return f
	}
	result := a.newField()
	if f == nil || other == nil {
		return result
	}
	for _, e := range f.entries {
		for _, o := range other.entries {
			if e.object == o.object && e.value == o.value {
				result.entries = append(result.entries, e)
				break
			}
		}
	}
	return result
}
