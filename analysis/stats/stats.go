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

// Package stats aggregates the outcome of a loadelim run over one function
// into counts suitable for a build-time report: how many loads and stores
// were found redundant, and a structural estimate of the function's loop
// nesting from the shape of its effect graph.
package stats

import (
	"fmt"
	"sort"

	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/ssa"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
	"github.com/sea-of-nodes/loadelim/analysis/ssabridge"
	"github.com/sea-of-nodes/loadelim/internal/graphutil"
)

// FunctionStats summarizes one ssabridge.AnalyzeFunction run.
type FunctionStats struct {
	Function string

	Nodes           int
	RedundantLoads  int
	RedundantStores int
	RedundantOther  int

	// LoopNestingDepth counts the effect graph's non-trivial strongly
	// connected components, an approximation of how many loops (including
	// nested ones) the function's effect chain passes through.
	LoopNestingDepth int

	// HasCycle mirrors LoopNestingDepth>0, confirmed independently by
	// attempting a topological sort of the same graph.
	HasCycle bool
}

// Summarize builds a FunctionStats for name from the graph ssabridge built
// and the fixed-point result computed over it.
func Summarize(name string, g *ssabridge.Graph, result loadelim.Result) FunctionStats {
	s := FunctionStats{Function: name, Nodes: len(g.Nodes())}

	for n := range result.Redundant {
		switch n.Op() {
		case loadelim.OpLoadField, loadelim.OpLoadElement:
			s.RedundantLoads++
		case loadelim.OpStoreField, loadelim.OpStoreElement, loadelim.OpStoreTypedElement, loadelim.OpStoreBuffer:
			s.RedundantStores++
		default:
			s.RedundantOther++
		}
	}

	for _, scc := range effectPredecessorSCCs(g) {
		if len(scc) > 1 {
			s.LoopNestingDepth++
		}
	}

	if _, err := topo.Sort(effectGraph(g)); err != nil {
		s.HasCycle = true
	}

	return s
}

// Report aggregates a set of per-function stats into a stable, sorted
// summary line per function, for printing.
func Report(all []FunctionStats) []string {
	sorted := make([]FunctionStats, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Function < sorted[j].Function })

	lines := make([]string, 0, len(sorted))
	for _, s := range sorted {
		lines = append(lines, formatLine(s))
	}
	return lines
}

func formatLine(s FunctionStats) string {
	return fmt.Sprintf("%s: nodes=%d redundant_loads=%d redundant_stores=%d redundant_other=%d loop_nesting=%d",
		s.Function, s.Nodes, s.RedundantLoads, s.RedundantStores, s.RedundantOther, s.LoopNestingDepth)
}

// effectPredecessorSCCs runs the zero-dependency Tarjan implementation over
// the effect graph, with a node's successors being its effect-input
// predecessors; a non-trivial component corresponds to a loop in the
// function's control flow.
func effectPredecessorSCCs(g *ssabridge.Graph) [][]loadelim.Node {
	nodes := g.Nodes()
	ns := make([]loadelim.Node, len(nodes))
	for i, n := range nodes {
		ns[i] = n
	}
	successors := func(n loadelim.Node) []loadelim.Node {
		var out []loadelim.Node
		for i := 0; i < n.EffectInputCount(); i++ {
			out = append(out, n.GetEffectInput(i))
		}
		return out
	}
	return graphutil.StronglyConnectedComponents(ns, successors)
}

// effectGraph builds a graphutil.EGraph mirroring the same effect-predecessor
// relation, for consumers that want Gonum's graph algorithms directly.
func effectGraph(g *ssabridge.Graph) graphutil.EGraph {
	nodes := g.Nodes()
	ids := make([]int64, len(nodes))
	labels := map[int64]string{}
	edges := map[int64][]int64{}
	for i, n := range nodes {
		id := int64(n.ID())
		ids[i] = id
		labels[id] = n.Op().String()
		var out []int64
		for j := 0; j < n.EffectInputCount(); j++ {
			out = append(out, int64(n.GetEffectInput(j).ID()))
		}
		edges[id] = out
	}
	return graphutil.NewEffectGraphIterator(ids, labels, edges)
}

// CallTree builds a simple call tree rooted at root, following cg's call
// edges and labelling each node with the callee's name. A function already
// present among its own ancestors is not descended into again, so a
// recursive or mutually-recursive call graph still produces a finite tree.
func CallTree(cg *callgraph.Graph, root *ssa.Function) *graphutil.Tree[string] {
	rootNode := cg.Nodes[root]
	tree := graphutil.NewTree(root.String())
	if rootNode != nil {
		buildCallTree(tree, rootNode, map[*ssa.Function]bool{root: true})
	}
	return tree
}

func buildCallTree(parent *graphutil.Tree[string], n *callgraph.Node, onPath map[*ssa.Function]bool) {
	for _, edge := range n.Out {
		callee := edge.Callee.Func
		if onPath[callee] {
			continue
		}
		child := parent.AddChild(callee.String())
		onPath[callee] = true
		buildCallTree(child, edge.Callee, onPath)
		delete(onPath, callee)
	}
}
