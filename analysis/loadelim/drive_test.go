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

// fakeGraph records ReplaceWithValue calls for inspection, standing in for
// a front end's real rewrite sink.
type fakeGraph struct {
	replaced map[Node]Node
}

func (g *fakeGraph) ReplaceWithValue(node Node, value Node, effect Node) {
	if g.replaced == nil {
		g.replaced = map[Node]Node{}
	}
	g.replaced[node] = value
}

func TestRunDrivesChainToFixedPointAndReportsRedundancy(t *testing.T) {
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	store := withEffect(withValues(fieldAccess(newNode(3, OpStoreField), 0), obj, val), start)
	load := withEffect(withValues(fieldAccess(newNode(4, OpLoadField), 0), obj), store)

	users := func(n Node) []Node {
		switch n {
		case start:
			return []Node{store}
		case store:
			return []Node{load}
		default:
			return nil
		}
	}

	r := NewReducer(StructuralOracle{}, 8)
	result := Run(r, start, users)

	replacement, redundant := result.Redundant[load]
	if !redundant || replacement != val {
		t.Fatalf("Run() did not report load as redundant in favor of %v, got %v (redundant=%v)", val, replacement, redundant)
	}
	if _, ok := result.Redundant[store]; ok {
		t.Fatalf("the initial store must not be reported as redundant")
	}
	if _, ok := result.States.Get(start); !ok {
		t.Fatalf("start must have a recorded state after Run")
	}
}

func TestApplyReplaysRedundantNodesAgainstTheSink(t *testing.T) {
	start := newNode(0, OpStart)
	obj := newNode(1, OpAllocate)
	val := newNode(2, OpParameter)

	store := withEffect(withValues(fieldAccess(newNode(3, OpStoreField), 0), obj, val), start)
	load := withEffect(withValues(fieldAccess(newNode(4, OpLoadField), 0), obj), store)

	users := func(n Node) []Node {
		if n == start {
			return []Node{store}
		}
		if n == store {
			return []Node{load}
		}
		return nil
	}

	r := NewReducer(StructuralOracle{}, 8)
	result := Run(r, start, users)

	sink := &fakeGraph{}
	Apply(sink, result.Redundant, func(Node) Node { return start })

	if sink.replaced[load] != val {
		t.Fatalf("Apply did not replay the load's replacement onto the sink")
	}
}
