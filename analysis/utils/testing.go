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

// Package utils provides small helpers shared by the analysis packages'
// test suites.
package utils

import (
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/ssa"

	"github.com/sea-of-nodes/loadelim/analysis"
	"github.com/sea-of-nodes/loadelim/analysis/config"
)

// LoadTest loads the program rooted at dir/main.go (plus any extraFiles,
// relative to dir) along with dir/config.yaml, failing t if either step
// errors. It is the standard fixture loader for tests under
// analysis/testdata/src/.
func LoadTest(t *testing.T, dir string, extraFiles []string) (*ssa.Program, *config.Config) {
	t.Helper()
	loaded, cfg := LoadTestProgram(t, dir, extraFiles)
	return loaded.Program, cfg
}

// LoadTestProgram is LoadTest but returns the full analysis.LoadedProgram,
// for tests that also need its AstPackages or Directives.
func LoadTestProgram(t *testing.T, dir string, extraFiles []string) (analysis.LoadedProgram, *config.Config) {
	t.Helper()

	configFile := filepath.Join(dir, "config.yaml")
	config.SetGlobalConfig(configFile)

	files := []string{filepath.Join(dir, "main.go")}
	for _, extraFile := range extraFiles {
		files = append(files, filepath.Join(dir, extraFile))
	}

	loaded, err := analysis.LoadProgram(nil, "", ssa.BuilderMode(0), files)
	if err != nil {
		t.Fatalf("error loading program: %s", err)
	}
	cfg, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("error loading global config: %s", err)
	}
	return loaded, cfg
}
