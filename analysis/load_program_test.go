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

package analysis

import (
	"path"
	"runtime"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

func TestLoadProgram(t *testing.T) {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "testdata/src/loadelim/basic")

	loaded, err := LoadProgram(nil, "", ssa.BuilderMode(0), []string{path.Join(dir, "main.go")})
	if err != nil {
		t.Fatalf("error loading program: %s", err)
	}

	if loaded.Program == nil {
		t.Fatalf("expected a non-nil ssa.Program")
	}

	var found []*ssa.Function
	names := []string{"RedundantLoad", "AliasedStores", "LoopStore", "ReadAfterEmptyLoop", "OpaqueCall"}
	for f := range ssaFuncsByName(loaded.Program, names...) {
		found = append(found, f)
	}
	if len(found) != len(names) {
		t.Errorf("expected to find all %d fixture functions, found %d", len(names), len(found))
	}
}

func ssaFuncsByName(program *ssa.Program, names ...string) map[*ssa.Function]bool {
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	result := map[*ssa.Function]bool{}
	for f := range ssautil.AllFunctions(program) {
		if want[f.Name()] {
			result[f] = true
		}
	}
	return result
}
