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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(filename, []byte(contents), 0600); err != nil {
		t.Fatalf("could not write test config: %v", err)
	}
	return filename
}

func TestNewDefaultSetsExpectedDefaults(t *testing.T) {
	cfg := NewDefault()
	if cfg.MaxDepth != DefaultMaxCallDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, DefaultMaxCallDepth)
	}
	if cfg.MaxTrackedFields != DefaultMaxTrackedFields {
		t.Errorf("MaxTrackedFields = %d, want %d", cfg.MaxTrackedFields, DefaultMaxTrackedFields)
	}
	if cfg.ElementsRingCapacity != DefaultElementsRingCapacity {
		t.Errorf("ElementsRingCapacity = %d, want %d", cfg.ElementsRingCapacity, DefaultElementsRingCapacity)
	}
	if cfg.LogLevel != int(InfoLevel) {
		t.Errorf("LogLevel = %d, want %d", cfg.LogLevel, int(InfoLevel))
	}
	if cfg.UsePointerAnalysis {
		t.Errorf("UsePointerAnalysis = true, want false by default")
	}
}

func TestLoadParsesOptionsAndNoWriteFunctions(t *testing.T) {
	filename := writeConfig(t, `
log-level: 5
pkg-filter: example.com/myapp
use-pointer-analysis: true
max-tracked-fields: 16
no-write-functions:
  - package: fmt
    method: Sprintf
  - package: strings
`)

	cfg, err := Load(filename)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != 5 {
		t.Errorf("LogLevel = %d, want 5", cfg.LogLevel)
	}
	if !cfg.UsePointerAnalysis {
		t.Errorf("UsePointerAnalysis = false, want true")
	}
	if cfg.MaxTrackedFields != 16 {
		t.Errorf("MaxTrackedFields = %d, want 16", cfg.MaxTrackedFields)
	}
	if !cfg.IsNoWriteFunction(CodeIdentifier{Package: "fmt", Method: "Sprintf"}) {
		t.Errorf("expected fmt.Sprintf to be a no-write function")
	}
	if cfg.IsNoWriteFunction(CodeIdentifier{Package: "fmt", Method: "Fprintf"}) {
		t.Errorf("did not expect fmt.Fprintf to be a no-write function")
	}
	if !cfg.IsNoWriteFunction(CodeIdentifier{Package: "strings", Method: "Join"}) {
		t.Errorf("expected every strings function to be a no-write function")
	}
}

func TestLoadFillsInDefaultsForZeroValues(t *testing.T) {
	filename := writeConfig(t, `pkg-filter: ""`)

	cfg, err := Load(filename)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != int(InfoLevel) {
		t.Errorf("LogLevel = %d, want the Info default", cfg.LogLevel)
	}
	if cfg.MaxDepth != DefaultMaxCallDepth {
		t.Errorf("MaxDepth = %d, want the default", cfg.MaxDepth)
	}
	if cfg.MaxTrackedFields != DefaultMaxTrackedFields {
		t.Errorf("MaxTrackedFields = %d, want the default", cfg.MaxTrackedFields)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Errorf("Load() on a missing file returned a nil error")
	}
}

func TestMatchPkgFilter(t *testing.T) {
	cfg := NewDefault()
	if !cfg.MatchPkgFilter("example.com/anything") {
		t.Errorf("an empty PkgFilter should match anything")
	}

	filename := writeConfig(t, "pkg-filter: example.com/myapp")
	cfg, err := Load(filename)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.MatchPkgFilter("example.com/myapp/internal/foo") {
		t.Errorf("expected PkgFilter to match a package under its prefix")
	}
	if cfg.MatchPkgFilter("example.com/other") {
		t.Errorf("did not expect PkgFilter to match an unrelated package")
	}
}

func TestExceedsMaxDepth(t *testing.T) {
	cfg := NewDefault()
	cfg.MaxDepth = -1
	if cfg.ExceedsMaxDepth(1000) {
		t.Errorf("a negative MaxDepth must never be exceeded")
	}
	cfg.MaxDepth = 3
	if cfg.ExceedsMaxDepth(3) {
		t.Errorf("ExceedsMaxDepth(3) with MaxDepth=3 should be false")
	}
	if !cfg.ExceedsMaxDepth(4) {
		t.Errorf("ExceedsMaxDepth(4) with MaxDepth=3 should be true")
	}
}

func TestVerbose(t *testing.T) {
	cfg := NewDefault()
	cfg.LogLevel = int(InfoLevel)
	if cfg.Verbose() {
		t.Errorf("Info level should not be verbose")
	}
	cfg.LogLevel = int(DebugLevel)
	if !cfg.Verbose() {
		t.Errorf("Debug level should be verbose")
	}
}
