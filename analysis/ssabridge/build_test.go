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
	"path"
	"runtime"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

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

func analyze(t *testing.T, name string) (*Graph, map[string]bool) {
	t.Helper()
	program, cfg := utils.LoadTest(t, fixtureDir(), nil)
	fn := findFunction(t, program, name)

	g, result, err := AnalyzeFunction(fn, cfg, nil)
	if err != nil {
		t.Fatalf("AnalyzeFunction(%s) error = %v", name, err)
	}

	ops := map[string]bool{}
	for n := range result.Redundant {
		ops[n.Op().String()] = true
	}
	return g, ops
}

func TestBuildGraphEliminatesRedundantLoadAfterStore(t *testing.T) {
	_, ops := analyze(t, "RedundantLoad")
	if !ops["LoadField"] {
		t.Errorf("expected a LoadField to be found redundant, got %v", ops)
	}
}

func TestBuildGraphForwardsAcrossNoAliasingStore(t *testing.T) {
	_, ops := analyze(t, "AliasedStores")
	if !ops["LoadField"] {
		t.Errorf("expected the load through the first allocation to be forwarded, got %v", ops)
	}
}

func TestBuildGraphTracksFieldStoresInsideALoop(t *testing.T) {
	g, ops := analyze(t, "LoopStore")
	if g.Start() == nil {
		t.Fatalf("expected a non-nil start node")
	}
	if !ops["LoadField"] {
		t.Errorf("expected the in-iteration field load to be forwarded, got %v", ops)
	}
}

func TestBuildGraphSurvivesAnEmptyLoopBody(t *testing.T) {
	_, ops := analyze(t, "ReadAfterEmptyLoop")
	if !ops["LoadField"] {
		t.Errorf("expected the field read after the loop to be forwarded from before it, got %v", ops)
	}
}

func TestBuildGraphDoesNotWipeStateAcrossANoWriteCall(t *testing.T) {
	_, ops := analyze(t, "OpaqueCall")
	if !ops["LoadField"] {
		t.Errorf("expected the field load after the no-write call to still be forwarded, got %v", ops)
	}
}
