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
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/sea-of-nodes/loadelim/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config holds every setting that controls one run of the pass over a
// program. To add a setting, add a field here (or to Options, for settings
// that other tools built against this package may also want to share) and
// give it a yaml tag. A field not present in the config file keeps its
// default from NewDefault.
type Config struct {
	Options

	sourceFile string

	// if PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// NoWriteFunctions lists external functions known, ahead of analysis,
	// not to write through any pointer they are passed. The front end
	// consults this when it encounters a call it cannot otherwise classify,
	// instead of always falling back to the conservative opaque write.
	NoWriteFunctions []CodeIdentifier `yaml:"no-write-functions"`
}

// Options groups the settings that are plain scalars, as opposed to the
// lists of CodeIdentifier specs above.
type Options struct {
	// ReportsDir is the directory where all the reports (rendered graphs,
	// summaries) will be stored. If the config file does not specify a
	// ReportsDir but requests a report, one is created next to the config
	// file.
	ReportsDir string `yaml:"reports-dir"`

	// PkgFilter restricts analysis to functions whose package matches this
	// prefix (or regex, if it compiles as one).
	PkgFilter string `yaml:"pkg-filter"`

	// MaxDepth limits how many call-graph levels the front end will descend
	// from an entry point when building a function's effect graph. Default
	// is -1, which disables the limit; zero or negative values after
	// loading are both treated as disabled.
	MaxDepth int `yaml:"max-depth"`

	// MaxTrackedFields overrides how many field slots AbstractState tracks.
	// Must be a positive multiple the front end's slot mapping can target;
	// 0 means use the pass's built-in default.
	MaxTrackedFields int `yaml:"max-tracked-fields"`

	// ElementsRingCapacity overrides how many element facts AbstractElements
	// holds before evicting the oldest. 0 means use the built-in default.
	ElementsRingCapacity int `yaml:"elements-ring-capacity"`

	// UsePointerAnalysis enables the pointer-analysis-backed alias oracle
	// instead of the purely structural one.
	UsePointerAnalysis bool `yaml:"use-pointer-analysis"`

	// ReportSummaries, if true, writes one report per analyzed function to
	// ReportsDir summarizing how many loads/stores/checks were eliminated.
	ReportSummaries bool `yaml:"report-summaries"`

	// LogLevel controls the verbosity of the tool.
	LogLevel int `yaml:"log-level"`

	// SilenceWarn suppresses warning-level log output.
	SilenceWarn bool `yaml:"silence-warn"`
}

// DefaultMaxTrackedFields and DefaultElementsRingCapacity mirror the pass's
// own loadelim.MaxTrackedFields / loadelim.ElementsRingCapacity constants.
// They are restated here, rather than imported, so that this package does
// not need to depend on the pass core just to describe its own defaults.
const (
	DefaultMaxTrackedFields     = 32
	DefaultElementsRingCapacity = 8
)

// NewDefault returns a config with every setting at its default value.
func NewDefault() *Config {
	return &Config{
		NoWriteFunctions: nil,
		Options: Options{
			ReportsDir:           "",
			PkgFilter:            "",
			MaxDepth:             DefaultMaxCallDepth,
			MaxTrackedFields:     DefaultMaxTrackedFields,
			ElementsRingCapacity: DefaultElementsRingCapacity,
			UsePointerAnalysis:   false,
			ReportSummaries:      false,
			LogLevel:             int(InfoLevel),
			SilenceWarn:          false,
		},
	}
}

// Load reads a configuration from a yaml file.
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	cfg.sourceFile = filename

	if cfg.ReportSummaries {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}

	// If LogLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	// Set the MaxDepth default if it is <= 0
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxCallDepth
	}
	if cfg.MaxTrackedFields <= 0 {
		cfg.MaxTrackedFields = DefaultMaxTrackedFields
	}
	if cfg.ElementsRingCapacity <= 0 {
		cfg.ElementsRingCapacity = DefaultElementsRingCapacity
	}

	if cfg.PkgFilter != "" {
		if r, err := regexp.Compile(cfg.PkgFilter); err == nil {
			cfg.pkgFilterRegex = r
		}
	}

	funcutil.MapInPlace(cfg.NoWriteFunctions, compileRegexes)

	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
		return nil
	}
	err := os.Mkdir(c.ReportsDir, 0750)
	if err != nil && !os.IsExist(err) {
		return fmt.Errorf("could not create directory %s", c.ReportsDir)
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPkgFilter returns true if pkgname matches the package filter set in
// the config file. If no package filter has been set, it matches anything.
// If the filter was set but could not be compiled as a regex, this falls
// back to a prefix match.
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	}
	return true
}

// IsNoWriteFunction returns true if cid matches one of the functions listed
// in NoWriteFunctions.
func (c Config) IsNoWriteFunction(cid CodeIdentifier) bool {
	return ExistsCid(c.NoWriteFunctions, cid.equalOnNonEmptyFields)
}

// Verbose returns true if the configuration verbosity setting is larger
// than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsMaxDepth returns true if d exceeds the maximum depth parameter of
// the configuration. If the configuration setting is <= 0, this is always
// false.
func (c Config) ExceedsMaxDepth(d int) bool {
	if c.MaxDepth <= 0 {
		return false
	}
	return d > c.MaxDepth
}
