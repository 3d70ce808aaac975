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

// loadelim runs the load-elimination pass over every function reachable
// from the given package path(s) and reports, per function, how many loads
// and stores it found redundant.
//
// Usage:
//
//	loadelim [options] <package path(s)>
//
// Examples:
//
//	Run over a package, printing per-function stats:
//	    loadelim -config=config.yaml ./mypackage
//	Render the effect graph for one function to a browser tab:
//	    loadelim -func=Foo -svg=foo.svg -open ./mypackage
//	Annotate the source of one function with what was eliminated:
//	    loadelim -func=Foo -explain ./mypackage
//	Sharpen the alias oracle with a whole-program pointer analysis:
//	    loadelim -config=config.yaml -pointer ./mypackage
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/pointer"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/sea-of-nodes/loadelim/analysis"
	"github.com/sea-of-nodes/loadelim/analysis/config"
	"github.com/sea-of-nodes/loadelim/analysis/explain"
	"github.com/sea-of-nodes/loadelim/analysis/lang"
	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
	"github.com/sea-of-nodes/loadelim/analysis/render"
	"github.com/sea-of-nodes/loadelim/analysis/ssabridge"
	"github.com/sea-of-nodes/loadelim/analysis/stats"
	"github.com/sea-of-nodes/loadelim/internal/formatutil"
	"github.com/sea-of-nodes/loadelim/internal/funcutil"
	"github.com/sea-of-nodes/loadelim/internal/graphutil"
)

var (
	configPath = flag.String("config", "", "config file path for the analysis (default: built-in defaults)")
	funcName   = flag.String("func", "", "restrict the run to the function with this name")
	svgOut     = flag.String("svg", "", "write the effect graph for -func to this SVG file")
	openSVG    = flag.Bool("open", false, "open the rendered SVG (requires -svg and -func) in the browser")
	explainSrc = flag.Bool("explain", false, "print -func's source annotated with what loadelim eliminated")
	rewrite    = flag.Bool("rewrite", false, "physically splice eliminated loads and stores out of the SSA graph before reporting")
	reachable  = flag.Bool("reachable", false, "restrict the run to functions reachable from main/init, via a CHA call graph")
	callTree   = flag.Bool("calltree", false, "print -func's call tree before its stats")
	usePointer = flag.Bool("pointer", false, "sharpen the alias oracle with a whole-program pointer analysis (requires cfg.UsePointerAnalysis and a main package)")
)

const usage = `loadelim: load-elimination pass for Go programs
Usage:
  loadelim [options] <package path(s)>
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.NewDefault()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			errExit(fmt.Errorf("loading config %s: %w", *configPath, err))
		}
	}
	logger := config.NewLogGroup(cfg)

	logger.Infof("%s", formatutil.Faint("Reading sources"))
	loaded, err := analysis.LoadProgram(nil, "", ssa.BuilderMode(0), flag.Args())
	if err != nil {
		errExit(fmt.Errorf("could not load program: %w", err))
	}

	var cg *callgraph.Graph
	if *reachable || *callTree {
		cg = cha.CallGraph(loaded.Program)
	}

	var ptrResult *pointer.Result
	if *usePointer {
		if !cfg.UsePointerAnalysis {
			errExit(fmt.Errorf("-pointer requires cfg.UsePointerAnalysis to be set in the config"))
		}
		logger.Infof("%s", formatutil.Faint("Running whole-program pointer analysis"))
		ptrResult, err = lang.DoPointerAnalysis(loaded.Program, func(fn *ssa.Function) bool { return true }, false)
		if err != nil {
			errExit(fmt.Errorf("pointer analysis failed: %w", err))
		}
	}

	var wanted map[string]bool
	if *reachable {
		reachableFns := lang.CallGraphReachable(cg, false, false)
		wanted = make(map[string]bool, len(reachableFns))
		for f, ok := range reachableFns {
			wanted[f.String()] = ok
		}
		names := funcutil.SetToOrderedSlice(wanted)
		logger.Infof("%s", formatutil.Faint(fmt.Sprintf("Restricting to %d functions reachable from main/init", len(names))))
	}

	logger.Infof("%s", formatutil.Faint("Running load elimination"))

	var targets []*ssa.Function
	for fn := range ssautil.AllFunctions(loaded.Program) {
		if fn.Blocks == nil {
			continue
		}
		if *funcName != "" && fn.Name() != *funcName {
			continue
		}
		if wanted != nil && !wanted[fn.String()] {
			continue
		}
		targets = append(targets, fn)
	}

	// Each function gets its own graph, arena, and state table, so analyzing
	// them is embarrassingly parallel; MapParallel fans the work out across
	// GOMAXPROCS goroutines and hands results back in the original order.
	analyzed := funcutil.MapParallel(targets, func(fn *ssa.Function) functionAnalysis {
		g, result, err := ssabridge.AnalyzeFunction(fn, cfg, ptrResult)
		return functionAnalysis{fn: fn, g: g, result: result, err: err}
	}, runtime.GOMAXPROCS(0))

	var all []stats.FunctionStats
	for _, fa := range analyzed {
		if fa.err != nil {
			logger.Warnf("%s", formatutil.Red(fmt.Sprintf("skipping %s: %v", fa.fn.Name(), fa.err)))
			continue
		}

		if *rewrite {
			ssabridge.Rewrite(fa.g, fa.result)
		}

		all = append(all, stats.Summarize(fa.fn.Name(), fa.g, fa.result))

		if *funcName != "" && fa.fn.Name() == *funcName {
			if err := handleFunction(fa.fn, cg, fa.g, fa.result); err != nil {
				errExit(err)
			}
		}
	}

	for _, line := range stats.Report(all) {
		fmt.Println(line)
	}
}

// functionAnalysis is one function's result from the parallel analysis
// phase, carried back out to the sequential reporting loop.
type functionAnalysis struct {
	fn     *ssa.Function
	g      *ssabridge.Graph
	result loadelim.Result
	err    error
}

// handleFunction runs the -svg/-open/-explain/-calltree outputs for the one
// function the run was restricted to.
func handleFunction(fn *ssa.Function, cg *callgraph.Graph, g *ssabridge.Graph, result loadelim.Result) error {
	if *callTree {
		printCallTree(stats.CallTree(cg, fn), 0)
	}

	if *svgOut != "" {
		svg, err := render.SVG(fn.Name(), g, result)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", fn.Name(), err)
		}
		if err := os.WriteFile(*svgOut, svg, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", *svgOut, err)
		}
		if *openSVG {
			if err := render.OpenInBrowser(svg); err != nil {
				return fmt.Errorf("opening %s: %w", *svgOut, err)
			}
		}
	}

	if *explainSrc {
		dir := filepath.Dir(fn.Prog.Fset.Position(fn.Pos()).Filename)
		out, err := explain.Annotate(dir, fn, result)
		if err != nil {
			return fmt.Errorf("explaining %s: %w", fn.Name(), err)
		}
		fmt.Print(string(out))
	}

	return nil
}

// printCallTree prints t depth-first, indenting each level by two spaces.
func printCallTree(t *graphutil.Tree[string], depth int) {
	fmt.Println(strings.Repeat("  ", depth) + graphutil.Label(t))
	for _, child := range t.Children {
		printCallTree(child, depth+1)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(2)
}
