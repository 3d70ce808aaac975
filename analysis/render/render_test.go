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

package render

import (
	"bytes"
	"path"
	"runtime"
	"testing"

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

func TestSVGRendersAnSVGDocument(t *testing.T) {
	program, cfg := utils.LoadTest(t, fixtureDir(), nil)
	fn := findFunction(t, program, "LoopStore")

	g, result, err := ssabridge.AnalyzeFunction(fn, cfg, nil)
	if err != nil {
		t.Fatalf("AnalyzeFunction error = %v", err)
	}

	svg, err := SVG("LoopStore", g, result)
	if err != nil {
		t.Fatalf("SVG error = %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("expected output to contain an <svg> element, got %d bytes", len(svg))
	}
}
