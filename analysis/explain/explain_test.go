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

package explain

import (
	"bytes"
	"path"
	"runtime"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/sea-of-nodes/loadelim/analysis/config"
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

func TestAnnotateAddsEliminatedComment(t *testing.T) {
	dir := fixtureDir()
	program, cfg := utils.LoadTest(t, dir, nil)
	fn := findFunction(t, program, "RedundantLoad")

	_, result, err := ssabridge.AnalyzeFunction(fn, cfg, nil)
	if err != nil {
		t.Fatalf("AnalyzeFunction error = %v", err)
	}

	out, err := Annotate(dir, fn, result)
	if err != nil {
		t.Fatalf("Annotate error = %v", err)
	}
	if !bytes.Contains(out, []byte("loadelim:eliminated")) {
		t.Errorf("expected annotated source to contain a loadelim:eliminated comment, got:\n%s", out)
	}
}

func TestAnnotateErrorsWithoutRedundantNodes(t *testing.T) {
	dir := fixtureDir()
	program, _ := utils.LoadTest(t, dir, nil)
	fn := findFunction(t, program, "main")

	cfg, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("error loading global config: %s", err)
	}
	_, result, err := ssabridge.AnalyzeFunction(fn, cfg, nil)
	if err != nil {
		t.Fatalf("AnalyzeFunction error = %v", err)
	}

	if _, err := Annotate(dir, fn, result); err == nil {
		t.Errorf("expected an error annotating a function with no redundant nodes")
	}
}
