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

package stats

import (
	"path"
	"runtime"
	"testing"

	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/sea-of-nodes/loadelim/analysis/ssabridge"
	"github.com/sea-of-nodes/loadelim/analysis/utils"
)

func fixtureDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return path.Join(path.Dir(filename), "../testdata/src/loadelim/basic")
}

func findFunction(t *testing.T, program *ssa.Program, name string) *ssa.Function {
	t.Helper()
	for f := range ssautil.AllFunctions(program) {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("could not find function %s in the fixture program", name)
	return nil
}

func TestSummarizeCountsRedundantLoad(t *testing.T) {
	program, cfg := utils.LoadTest(t, fixtureDir(), nil)
	fn := findFunction(t, program, "RedundantLoad")

	g, result, err := ssabridge.AnalyzeFunction(fn, cfg, nil)
	if err != nil {
		t.Fatalf("AnalyzeFunction error = %v", err)
	}

	s := Summarize("RedundantLoad", g, result)
	if s.RedundantLoads == 0 {
		t.Errorf("expected at least one redundant load, got %+v", s)
	}
	if s.LoopNestingDepth != 0 {
		t.Errorf("RedundantLoad has no loops, got loop nesting depth %d", s.LoopNestingDepth)
	}
	if s.HasCycle {
		t.Errorf("RedundantLoad's effect graph should be acyclic")
	}
}

func TestSummarizeDetectsLoopNesting(t *testing.T) {
	program, cfg := utils.LoadTest(t, fixtureDir(), nil)
	fn := findFunction(t, program, "LoopStore")

	g, result, err := ssabridge.AnalyzeFunction(fn, cfg, nil)
	if err != nil {
		t.Fatalf("AnalyzeFunction error = %v", err)
	}

	s := Summarize("LoopStore", g, result)
	if s.LoopNestingDepth == 0 {
		t.Errorf("expected LoopStore's effect graph to contain a non-trivial SCC, got %+v", s)
	}
	if !s.HasCycle {
		t.Errorf("expected LoopStore's effect graph to be reported cyclic")
	}
}

func TestReportIsSortedByFunctionName(t *testing.T) {
	lines := Report([]FunctionStats{
		{Function: "Zeta"},
		{Function: "Alpha"},
	})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != formatLine(FunctionStats{Function: "Alpha"}) {
		t.Errorf("expected Alpha first, got %q", lines[0])
	}
}

func TestCallTreeFollowsCallEdgesAndStopsOnRecursion(t *testing.T) {
	program, _ := utils.LoadTest(t, fixtureDir(), nil)
	main := findFunction(t, program, "main")

	cg := cha.CallGraph(program)
	tree := CallTree(cg, main)

	if tree.Label != main.String() {
		t.Fatalf("expected root label %q, got %q", main.String(), tree.Label)
	}
	if len(tree.Children) == 0 {
		t.Errorf("expected main to have at least one call edge in its tree")
	}
}
