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

	"github.com/sea-of-nodes/loadelim/analysis/config"
	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
)

// AnalyzeFunction builds fn's effect graph and runs the load-elimination
// pass over it to a fixed point. ptrResult may be nil, in which case the
// pass uses loadelim.StructuralOracle regardless of cfg.UsePointerAnalysis;
// callers that want the pointer-analysis-backed oracle must supply the
// whole-program pointer.Result computed for the enclosing program.
func AnalyzeFunction(fn *ssa.Function, cfg *config.Config, ptrResult *pointer.Result) (*Graph, loadelim.Result, error) {
	g, err := BuildGraph(fn, cfg)
	if err != nil {
		return nil, loadelim.Result{}, err
	}

	var oracle loadelim.Oracle = loadelim.StructuralOracle{}
	if cfg.UsePointerAnalysis && ptrResult != nil {
		oracle = PointerBackedOracle{Result: ptrResult}
	}

	reducer := loadelim.NewReducer(oracle, len(g.nodes))
	result := loadelim.Run(reducer, g.Start(), g.Users)
	return g, result, nil
}

// Rewrite applies result's findings back onto g, physically replacing every
// redundant load, store, and check with its recorded replacement.
func Rewrite(g *Graph, result loadelim.Result) {
	loadelim.Apply(g, result.Redundant, func(n loadelim.Node) loadelim.Node {
		sn, ok := n.(*node)
		if !ok || len(sn.effects) == 0 {
			return nil
		}
		return sn.effects[0]
	})
}
