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
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/sea-of-nodes/loadelim/analysis/lang"
	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
)

// Positioned is implemented by nodes that can report the source position
// they were built from, for callers such as analysis/explain that annotate
// a function's source with the outcome of a run.
type Positioned interface {
	Pos() token.Pos
}

// node is the ssabridge implementation of loadelim.Node. One node wraps
// either a real ssa.Instruction (for effect-chain members) or stands for a
// purely synthetic point in the graph (Start, EffectPhi, Loop).
type node struct {
	id       int
	op       loadelim.Opcode
	operator *loadelim.Operator
	typ      loadelim.Type
	dead     bool

	// value is the ssa.Value this node corresponds to, for nodes that
	// produce a value the rest of the function can reference (Allocate,
	// LoadField, LoadElement, Parameter, HeapConstant, opaque writes with a
	// result). nil for pure control nodes (Start, EffectPhi, Loop).
	value ssa.Value

	values  []loadelim.Node
	effects []loadelim.Node
	control loadelim.Node
}

func (n *node) ID() int             { return n.id }
func (n *node) Op() loadelim.Opcode { return n.op }

func (n *node) Operator() *loadelim.Operator { return n.operator }

func (n *node) Type() loadelim.Type {
	if n.typ != nil {
		return n.typ
	}
	if n.value != nil && lang.CanType(n.value) {
		return typeOf(n.value.Type())
	}
	return typeOf(nil)
}

func (n *node) Dead() bool { return n.dead }

// Pos reports the source position of the ssa.Value this node wraps, or
// token.NoPos for a synthetic control node with no value.
func (n *node) Pos() token.Pos {
	if n.value == nil {
		return token.NoPos
	}
	return n.value.Pos()
}

func (n *node) GetValueInput(i int) loadelim.Node  { return n.values[i] }
func (n *node) GetEffectInput(i int) loadelim.Node { return n.effects[i] }
func (n *node) GetControlInput() loadelim.Node     { return n.control }

func (n *node) ValueInputCount() int  { return len(n.values) }
func (n *node) EffectInputCount() int { return len(n.effects) }
