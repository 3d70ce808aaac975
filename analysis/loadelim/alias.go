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

// AliasResult is the three-valued outcome of the alias oracle.
type AliasResult int

const (
	// NoAlias means a and b are provably disjoint memory locations.
	NoAlias AliasResult = iota
	// MayAlias means a and b might be the same memory location.
	MayAlias
	// MustAlias means a and b are provably the same memory location.
	MustAlias
)

// Oracle answers alias queries between two value nodes.
type Oracle interface {
	Alias(a, b Node) AliasResult
}

// StructuralOracle is a pure, total alias oracle. It never inspects
// anything beyond node identity, opcode, and static type.
type StructuralOracle struct{}

// Alias implements Oracle.
func (StructuralOracle) Alias(a, b Node) AliasResult {
	return structuralAlias(a, b)
}

func structuralAlias(a, b Node) AliasResult {
	a = stripFinishRegion(a)
	b = stripFinishRegion(b)

	if a == b {
		return MustAlias
	}
	if !a.Type().Maybe(b.Type()) {
		return NoAlias
	}
	if isFreshAllocation(a) && cannotAliasFreshAllocation(b) {
		return NoAlias
	}
	if isFreshAllocation(b) && cannotAliasFreshAllocation(a) {
		return NoAlias
	}
	return MayAlias
}

func stripFinishRegion(n Node) Node {
	for n.Op() == OpFinishRegion {
		n = n.GetValueInput(0)
	}
	return n
}

func isFreshAllocation(n Node) bool {
	return n.Op() == OpAllocate
}

// cannotAliasFreshAllocation reports whether n is one of the kinds of value
// that a freshly-allocated object is guaranteed not to alias: another fresh
// allocation, a compile-time heap constant, or a function parameter.
func cannotAliasFreshAllocation(n Node) bool {
	switch n.Op() {
	case OpAllocate, OpHeapConstant, OpParameter:
		return true
	default:
		return false
	}
}

// MayAliasBool reports whether the result is anything other than NoAlias.
func MayAliasBool(r AliasResult) bool { return r != NoAlias }

// MustAliasBool reports whether the result is exactly MustAlias.
func MustAliasBool(r AliasResult) bool { return r == MustAlias }

func mayAlias(o Oracle, a, b Node) bool {
	return MayAliasBool(o.Alias(a, b))
}

func mustAlias(o Oracle, a, b Node) bool {
	return MustAliasBool(o.Alias(a, b))
}
