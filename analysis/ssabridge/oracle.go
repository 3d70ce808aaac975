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

package ssabridge

import (
	"golang.org/x/tools/go/pointer"
	"golang.org/x/tools/go/ssa"

	"github.com/sea-of-nodes/loadelim/analysis/lang"
	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
)

// PointerBackedOracle refines loadelim.StructuralOracle's verdicts using a
// whole-program Andersen-style points-to analysis: a structural NoAlias
// stands (the pointer analysis can only narrow MayAlias, never widen a
// provable disjointness), but a structural MayAlias between two nodes that
// both carry an ssa.Value is downgraded to NoAlias when their points-to
// sets are disjoint.
type PointerBackedOracle struct {
	Result *pointer.Result
}

// Alias implements loadelim.Oracle.
func (o PointerBackedOracle) Alias(a, b loadelim.Node) loadelim.AliasResult {
	structural := loadelim.StructuralOracle{}.Alias(a, b)
	if structural != loadelim.MayAlias {
		return structural
	}

	av, aok := ssaValueOf(a)
	bv, bok := ssaValueOf(b)
	if !aok || !bok {
		return loadelim.MayAlias
	}

	aPtrs := lang.FindAllPointers(o.Result, av)
	bPtrs := lang.FindAllPointers(o.Result, bv)
	if len(aPtrs) == 0 || len(bPtrs) == 0 {
		return loadelim.MayAlias
	}

	mayAlias := false
	for _, ap := range aPtrs {
		for _, bp := range bPtrs {
			if ap.MayAlias(bp) {
				mayAlias = true
			}
		}
	}
	if !mayAlias {
		return loadelim.NoAlias
	}
	if len(aPtrs) == 1 && len(bPtrs) == 1 && singletonIdenticalPointsTo(aPtrs[0], bPtrs[0]) {
		return loadelim.MustAlias
	}
	return loadelim.MayAlias
}

// singletonIdenticalPointsTo reports whether a and b each point to exactly
// one allocation label, and it's the same label in both sets. This is the
// only case in which a may-alias verdict from the points-to sets can be
// safely sharpened to a must-alias one: any ambiguity in either set leaves
// room for the two pointers to resolve to different objects at runtime.
func singletonIdenticalPointsTo(a, b pointer.Pointer) bool {
	aLabels := a.PointsTo().Labels()
	bLabels := b.PointsTo().Labels()
	if len(aLabels) != 1 || len(bLabels) != 1 {
		return false
	}
	return aLabels[0].Value() == bLabels[0].Value()
}

// ssaValueOf recovers the ssa.Value a ssabridge node wraps, if any. Purely
// synthetic nodes (Start, EffectPhi, Loop) have none.
func ssaValueOf(n loadelim.Node) (ssa.Value, bool) {
	sn, ok := n.(*node)
	if !ok || sn.value == nil {
		return nil, false
	}
	return sn.value, true
}
