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

// Package explain annotates a function's source with the outcome of a
// loadelim run: every statement that produced a load, store, or check found
// redundant gets a trailing "// loadelim:eliminated" comment naming what it
// was forwarded from. It re-parses the package with github.com/dave/dst so
// the rest of the file's formatting and comments survive untouched.
package explain

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/decorator/resolver/gopackages"
	"github.com/dave/dst/dstutil"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"

	"github.com/sea-of-nodes/loadelim/analysis"
	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
	"github.com/sea-of-nodes/loadelim/analysis/ssabridge"
)

// Annotate loads the package rooted at dir with github.com/dave/dst, finds
// the file containing fn's declaration, appends a trailing comment to every
// statement result marks redundant, and returns that one file's annotated
// source. It returns an error if fn has no redundant node with a source
// position to anchor on.
func Annotate(dir string, fn *ssa.Function, result loadelim.Result) ([]byte, error) {
	notes := notesByLine(fn, result)
	if len(notes) == 0 {
		return nil, fmt.Errorf("explain: %s has no redundant node with a source position", fn.Name())
	}

	cfg := &packages.Config{Mode: analysis.PkgLoadMode, Tests: false}
	pkgs, err := decorator.Load(cfg, dir)
	if err != nil {
		return nil, fmt.Errorf("explain: loading %s: %w", dir, err)
	}

	target := filepath.Base(fn.Prog.Fset.Position(fn.Pos()).Filename)

	for _, pkg := range pkgs {
		for _, dstFile := range pkg.Syntax {
			astNode, ok := pkg.Decorator.Ast.Nodes[dstFile].(*ast.File)
			if !ok {
				continue
			}
			filename := pkg.Fset.Position(astNode.Pos()).Filename
			if filepath.Base(filename) != target {
				continue
			}

			annotate(pkg.Decorator, pkg.Fset, dstFile, notes)

			var buf bytes.Buffer
			r := decorator.NewRestorerWithImports(dir, gopackages.New(dir))
			if err := r.Fprint(&buf, dstFile); err != nil {
				return nil, fmt.Errorf("explain: printing %s: %w", filename, err)
			}
			return buf.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("explain: could not find source file %s in package at %s", target, dir)
}

// notesByLine collects one note per redundant node that carries a source
// position, keyed by the line its instruction was emitted on.
func notesByLine(fn *ssa.Function, result loadelim.Result) map[int]string {
	fset := fn.Prog.Fset
	notes := map[int]string{}
	for n, replacement := range result.Redundant {
		p, ok := n.(ssabridge.Positioned)
		if !ok {
			continue
		}
		pos := p.Pos()
		if pos == token.NoPos {
			continue
		}
		line := fset.Position(pos).Line
		notes[line] = fmt.Sprintf("loadelim:eliminated %s, forwarded from %s", n.Op(), replacement.Op())
	}
	return notes
}

// annotate walks file in post-order, appending the note for its line (if
// any) as a trailing comment on the innermost enclosing statement. A note is
// consumed after its first match so a nested statement on the same line
// doesn't receive a duplicate comment.
func annotate(dec *decorator.Decorator, fset *token.FileSet, file *dst.File, notes map[int]string) {
	dstutil.Apply(file, nil, func(c *dstutil.Cursor) bool {
		stmt, ok := c.Node().(dst.Stmt)
		if !ok {
			return true
		}
		astNode, ok := dec.Ast.Nodes[stmt]
		if !ok {
			return true
		}
		line := fset.Position(astNode.End()).Line
		note, ok := notes[line]
		if !ok {
			return true
		}
		stmt.Decorations().End.Append("// " + note)
		delete(notes, line)
		return true
	})
}
