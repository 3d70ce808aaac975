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
	"golang.org/x/tools/go/ssa"

	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
)

// fieldRef records that an ssa.FieldAddr computed a field address into slot
// of object, so that the UnOp/Store instruction consuming it can be
// rewritten as a LoadField/StoreField.
type fieldRef struct {
	object *node
	slot   int
}

// indexRef is fieldRef's analog for ssa.IndexAddr.
type indexRef struct {
	object *node
	index  *node
}

// Graph is a loadelim.Graph built from one go/ssa function. It owns every
// node created for that function and is the rewrite sink the driver applies
// its redundancy findings to.
type Graph struct {
	Fn *ssa.Function

	nodes   []*node
	byValue map[ssa.Value]*node

	fieldAddrs map[ssa.Value]fieldRef
	indexAddrs map[ssa.Value]indexRef

	start *node

	// users is filled lazily by Users, memoizing the reverse-edge map
	// computed from every node's value/effect/control inputs.
	users map[loadelim.Node][]loadelim.Node

	// Redundant records every node ReplaceWithValue has spliced out, with
	// its replacement. AnalyzeFunction leaves it empty; Rewrite fills it
	// from a loadelim.Result.
	Redundant map[loadelim.Node]loadelim.Node
}

func newGraph(fn *ssa.Function) *Graph {
	return &Graph{
		Fn:         fn,
		byValue:    map[ssa.Value]*node{},
		fieldAddrs: map[ssa.Value]fieldRef{},
		indexAddrs: map[ssa.Value]indexRef{},
		Redundant:  map[loadelim.Node]loadelim.Node{},
	}
}

func (g *Graph) newNode(op loadelim.Opcode, operator *loadelim.Operator) *node {
	n := &node{id: len(g.nodes), op: op, operator: operator}
	g.nodes = append(g.nodes, n)
	return n
}

// Start returns the function's Start node, the seed for loadelim.Run.
func (g *Graph) Start() loadelim.Node { return g.start }

// Nodes returns every node in id order, for callers that need to iterate
// the whole graph (reporting, rendering).
func (g *Graph) Nodes() []*node { return g.nodes }

// nodeFor returns the node representing ssa.Value v, synthesizing a leaf
// node on first use for a value the builder never explicitly modeled (for
// example a ssa.Global or ssa.Const feeding a field or index address).
func (g *Graph) nodeFor(v ssa.Value) *node {
	if n, ok := g.byValue[v]; ok {
		return n
	}
	n := g.newNode(classifyLeaf(v), &loadelim.Operator{})
	n.value = v
	g.byValue[v] = n
	return n
}

func classifyLeaf(v ssa.Value) loadelim.Opcode {
	switch v.(type) {
	case *ssa.Parameter, *ssa.FreeVar:
		return loadelim.OpParameter
	case *ssa.Global, *ssa.Const, *ssa.Function, *ssa.Builtin:
		return loadelim.OpHeapConstant
	default:
		return loadelim.OpUnknown
	}
}

// Users returns every node that consumes n's value or effect output,
// computing and memoizing the full reverse-edge map on first call.
func (g *Graph) Users(n loadelim.Node) []loadelim.Node {
	if g.users == nil {
		g.users = map[loadelim.Node][]loadelim.Node{}
		for _, other := range g.nodes {
			for i := 0; i < other.ValueInputCount(); i++ {
				in := other.GetValueInput(i)
				g.users[in] = append(g.users[in], other)
			}
			for i := 0; i < other.EffectInputCount(); i++ {
				in := other.GetEffectInput(i)
				g.users[in] = append(g.users[in], other)
			}
			if c := other.GetControlInput(); c != nil {
				g.users[c] = append(g.users[c], other)
			}
		}
	}
	return g.users[n]
}

// ReplaceWithValue implements loadelim.Graph: it marks node dead and
// splices value to replace it everywhere node was used as a value, and
// effect to replace it everywhere node was used as an effect input.
func (g *Graph) ReplaceWithValue(n loadelim.Node, value loadelim.Node, effect loadelim.Node) {
	target, ok := n.(*node)
	if !ok {
		return
	}
	target.dead = true
	g.Redundant[n] = value

	for _, other := range g.nodes {
		for i, in := range other.values {
			if in == loadelim.Node(target) {
				other.values[i] = value
			}
		}
		if effect != nil {
			for i, in := range other.effects {
				if in == loadelim.Node(target) {
					other.effects[i] = effect
				}
			}
		}
	}
}
