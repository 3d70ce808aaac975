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

package graphutil

import (
	"sort"

	"golang.org/x/tools/go/callgraph"
	"gonum.org/v1/gonum/graph"
)

// EGraph is a generic adjacency-list graph usable both with the yourbasic/graph
// algorithms (via the Order/Visit iterator methods) and with Gonum's
// graph.Graph. NewCallgraphIterator builds one from a callgraph.Graph;
// NewEffectGraphIterator builds one from any (nodes, successors) pair, which
// is what lets the same cycle- and component-finding code serve both call
// graphs and the effect graph.
type EGraph struct {
	// The order of the graph
	order int

	// IDMap maps from node IDs to ENodes
	IDMap map[int64]ENode

	// Keys are all the node IDs
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]bool
}

// ENode is a graph node: an integer id with a label used only for printing.
type ENode struct {
	Num   int64
	Label string
}

// ID returns the id of the node
func (n ENode) ID() int64 { return n.Num }

func (n ENode) String() string { return n.Label }

// NewCallgraphIterator returns a new call graph iterator where node ids correspond the Node.ID of each callgraph node
func NewCallgraphIterator(cg *callgraph.Graph) EGraph {
	ids := make([]int64, 0, len(cg.Nodes))
	labels := map[int64]string{}
	edges := map[int64][]int64{}
	for _, node := range cg.Nodes {
		id := int64(node.ID)
		ids = append(ids, id)
		labels[id] = node.String()
		var out []int64
		for _, e := range node.Out {
			if e.Callee != nil {
				out = append(out, int64(e.Callee.ID))
			}
		}
		edges[id] = out
	}
	return NewEffectGraphIterator(ids, labels, edges)
}

// NewEffectGraphIterator builds an EGraph from an explicit id set, a label per
// id (used only for String()), and an adjacency list. Ids with no entry in
// labels or edges are isolated nodes with an empty label.
func NewEffectGraphIterator(ids []int64, labels map[int64]string, edges map[int64][]int64) EGraph {
	n := len(ids)
	idmap := make(map[int64]ENode, n)
	edgeMap := make(map[int64]map[int64]bool, n)
	keys := make([]int64, n)
	copy(keys, ids)

	for _, id := range ids {
		idmap[id] = ENode{Num: id, Label: labels[id]}
		m := map[int64]bool{}
		for _, out := range edges[id] {
			m[out] = true
		}
		edgeMap[id] = m
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return EGraph{
		order: n,
		IDMap: idmap,
		Edges: edgeMap,
		Keys:  keys,
	}
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and the IDMap entries for kept nodes are the same as in original, so node labels stay
// consistent across subgraphs.
func Subgraph(original EGraph, include []int64) EGraph {
	idmap := make(map[int64]ENode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return EGraph{
		order: original.Order(),
		IDMap: idmap,
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the EGraph
func (c EGraph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the EGraph
func (c EGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (c EGraph) Node(v int64) graph.Node {
	return c.IDMap[v]
}

// Nodes returns the set of nodes in the graph
func (c EGraph) Nodes() graph.Nodes {
	keys := make([]int64, len(c.IDMap))

	i := 0
	for k := range c.IDMap {
		keys[i] = k
		i++
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   0,
	}
}

// From returns the set of nodes reachable from the id
func (c EGraph) From(id int64) graph.Nodes {
	var keys []int64

	for out := range c.Edges[id] {
		keys = append(keys, out)
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   0,
	}
}

// To returns the set of nodes that have an edge to the id
func (c EGraph) To(id int64) graph.Nodes {
	var keys []int64

	for src, outs := range c.Edges {
		if outs[id] {
			keys = append(keys, src)
		}
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   0,
	}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers, in either
// direction.
func (c EGraph) HasEdgeBetween(xid, yid int64) bool {
	xe := c.Edges[xid]
	ye := c.Edges[yid]
	return xe[yid] || ye[xid]
}

// HasEdgeFromTo returns whether there is a directed edge from uid to vid, satisfying Gonum's graph.Directed.
func (c EGraph) HasEdgeFromTo(uid, vid int64) bool {
	return c.Edges[uid][vid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c EGraph) Edge(uid, vid int64) graph.Edge {
	ue := c.Edges[uid]
	if ue != nil {
		if ue[vid] {
			return CEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
		}
	}
	return nil
}

// *************** Nodes implementation **********************

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]ENode

	// ids is the set of node ids in the iterator
	// invariant: len(ids) = len(nodes)
	ids []int64

	// cur is the current index of the iterator. The current node is nodes[ids[cur]]
	// invariant: 0 <= cur < len(nodes)
	cur int
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the length of the node set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the id of the current node in the set
func (ns *NodeSet) Reset() {
	ns.cur = 0
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// CEdge implements the graph.Edge interface
type CEdge struct {
	from ENode
	to   ENode
}

// From returns the origin of the edge
func (e CEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e CEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e CEdge) ReversedEdge() graph.Edge {
	return CEdge{from: e.to, to: e.from}
}
