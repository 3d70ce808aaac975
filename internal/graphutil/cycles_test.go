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

package graphutil_test

import (
	"path"
	"runtime"
	"testing"

	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/ssa"

	"github.com/sea-of-nodes/loadelim/analysis"
	"github.com/sea-of-nodes/loadelim/internal/graphutil"
)

func TestFindAllElementaryCyclesOnCallgraph(t *testing.T) {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "testdata/trivial")

	loaded, err := analysis.LoadProgram(nil, "", ssa.BuilderMode(0), []string{path.Join(dir, "main.go")})
	if err != nil {
		t.Fatalf("failed to load test: %v", err)
	}

	cg := cha.CallGraph(loaded.Program)
	iterator := graphutil.NewCallgraphIterator(cg)

	cycles := graphutil.FindAllElementaryCycles(iterator)
	if len(cycles) == 0 {
		t.Fatalf("expected at least one elementary cycle in a graph with f1->f2->f1")
	}
	for _, cycle := range cycles {
		if len(cycle) < 2 {
			t.Errorf("cycle %v is too short to be elementary", cycle)
		}
	}
}

func TestFindAllElementaryCyclesOnEffectGraph(t *testing.T) {
	// 0 -> 1 -> 2 -> 0 is a single elementary cycle; 3 is isolated.
	ids := []int64{0, 1, 2, 3}
	labels := map[int64]string{0: "a", 1: "b", 2: "c", 3: "d"}
	edges := map[int64][]int64{
		0: {1},
		1: {2},
		2: {0},
	}
	g := graphutil.NewEffectGraphIterator(ids, labels, edges)

	cycles := graphutil.FindAllElementaryCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("expected exactly one elementary cycle, got %d: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 4 {
		t.Errorf("expected the cycle to revisit its start node, got %v", cycles[0])
	}
}
