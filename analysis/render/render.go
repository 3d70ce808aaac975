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

// Package render draws the effect graph ssabridge builds for one function as
// a Graphviz SVG, so a developer can see which loads and stores a run of
// loadelim found redundant and where the loop back-edges are.
package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/browser"

	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
	"github.com/sea-of-nodes/loadelim/analysis/ssabridge"
	"github.com/sea-of-nodes/loadelim/internal/graphutil"
)

// SVG renders g's effect graph, as it stood after result was computed, to an
// SVG document. Nodes loadelim found redundant are filled gray; edges that
// graphutil's elementary-cycle search identifies as part of a loop are drawn
// in red.
func SVG(name string, g *ssabridge.Graph, result loadelim.Result) ([]byte, error) {
	gv := graphviz.New()
	defer gv.Close()

	dotGraph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("creating graphviz graph: %w", err)
	}
	defer dotGraph.Close()
	dotGraph.SetLabel(name)

	nodes := g.Nodes()
	gvNodes := make(map[int]*cgraph.Node, len(nodes))
	for _, n := range nodes {
		gvn, err := dotGraph.CreateNode(fmt.Sprintf("n%d", n.ID()))
		if err != nil {
			return nil, fmt.Errorf("creating node %d: %w", n.ID(), err)
		}
		gvn.SetLabel(n.Op().String())
		if _, ok := result.Redundant[loadelim.Node(n)]; ok {
			gvn.SetStyle(cgraph.FilledNodeStyle)
			gvn.SetFillColor("lightgray")
		}
		gvNodes[n.ID()] = gvn
	}

	back := loopBackEdges(g)
	edgeNum := 0
	for _, n := range nodes {
		for i := 0; i < n.EffectInputCount(); i++ {
			pred := n.GetEffectInput(i)
			from, to := gvNodes[pred.ID()], gvNodes[n.ID()]
			if from == nil || to == nil {
				continue
			}
			edgeNum++
			e, err := dotGraph.CreateEdge(fmt.Sprintf("e%d", edgeNum), from, to)
			if err != nil {
				return nil, fmt.Errorf("creating edge: %w", err)
			}
			if back[edgeKey{from: pred.ID(), to: n.ID()}] {
				e.SetColor("red")
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(dotGraph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("rendering SVG: %w", err)
	}
	return buf.Bytes(), nil
}

// OpenInBrowser writes svg to a temporary file and opens it with the host's
// default browser.
func OpenInBrowser(svg []byte) error {
	f, err := os.CreateTemp("", "loadelim-*.svg")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	if _, err := f.Write(svg); err != nil {
		f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return browser.OpenFile(name)
}

type edgeKey struct{ from, to int }

// loopBackEdges finds every edge that participates in some elementary cycle
// of the effect-predecessor relation and reports it in both directions, so
// the caller can look it up regardless of which way it walked the edge.
func loopBackEdges(g *ssabridge.Graph) map[edgeKey]bool {
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
	eg := graphutil.NewEffectGraphIterator(ids, labels, edges)

	result := map[edgeKey]bool{}
	for _, cycle := range graphutil.FindAllElementaryCycles(eg) {
		for i := 0; i+1 < len(cycle); i++ {
			a, b := int(cycle[i]), int(cycle[i+1])
			result[edgeKey{from: a, to: b}] = true
			result[edgeKey{from: b, to: a}] = true
		}
	}
	return result
}
