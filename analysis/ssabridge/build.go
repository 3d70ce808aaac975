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

	"github.com/sea-of-nodes/loadelim/analysis/config"
	"github.com/sea-of-nodes/loadelim/analysis/lang"
	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
)

// BuildGraph walks fn's basic blocks in order and produces a loadelim.Graph
// whose effect chain mirrors fn's stores, loads, and opaque calls. Struct
// field accesses recovered from an ssa.FieldAddr become LoadField/StoreField
// nodes; slice/array/map element accesses recovered from an ssa.IndexAddr
// become LoadElement/StoreElement nodes. Everything else that can write
// through a pointer but isn't one of those two shapes (a call to a function
// not listed in cfg.NoWriteFunctions, a Send, a MapUpdate) becomes a single
// opaque effectful node that the pass's "Other nodes" rule conservatively
// invalidates every tracked fact across.
//
// BuildGraph approximates real field offsets as the field's declaration
// index times loadelim.PointerSize: it has no access to the target's actual
// struct layout, only to go/types. This keeps field accesses pointer-sized
// and 8-byte aligned, satisfying SlotForAccess, at the cost of not matching
// an actual compiler's offsets; since the pass only ever compares two
// accesses' slots for equality, this is sound for the purpose here.
func BuildGraph(fn *ssa.Function, cfg *config.Config) (*Graph, error) {
	g := newGraph(fn)
	g.start = g.newNode(loadelim.OpStart, &loadelim.Operator{
		Opcode:            loadelim.OpStart,
		EffectOutputCount: 1,
		Properties:        loadelim.Properties{NoWrite: true},
	})

	for _, p := range fn.Params {
		n := g.newNode(loadelim.OpParameter, &loadelim.Operator{Opcode: loadelim.OpParameter})
		n.value = p
		g.byValue[p] = n
	}
	for _, fv := range fn.FreeVars {
		n := g.newNode(loadelim.OpParameter, &loadelim.Operator{Opcode: loadelim.OpParameter})
		n.value = fv
		g.byValue[fv] = n
	}

	blockEntry := make([]*node, len(fn.Blocks))
	blockExit := make([]*node, len(fn.Blocks))

	for _, b := range fn.Blocks {
		if len(b.Preds) == 0 {
			blockEntry[b.Index] = g.start
			continue
		}
		ph := g.newNode(loadelim.OpEffectPhi, &loadelim.Operator{
			Opcode:           loadelim.OpEffectPhi,
			EffectInputCount: len(b.Preds),
			Properties:       loadelim.Properties{NoWrite: true},
		})
		blockEntry[b.Index] = ph
	}

	b := &builder{g: g, cfg: cfg}
	for _, blk := range fn.Blocks {
		current := blockEntry[blk.Index]
		for _, instr := range blk.Instrs {
			current = b.visit(current, instr)
		}
		blockExit[blk.Index] = current
	}

	for _, blk := range fn.Blocks {
		ph := blockEntry[blk.Index]
		if ph == g.start {
			continue
		}

		isLoop := false
		for _, pred := range blk.Preds {
			if lang.IsBackEdge(pred, blk) {
				isLoop = true
			}
		}

		var inputs []loadelim.Node
		if isLoop {
			var forward, back []loadelim.Node
			for _, pred := range blk.Preds {
				in := loadelim.Node(blockExit[pred.Index])
				if lang.IsBackEdge(pred, blk) {
					back = append(back, in)
				} else {
					forward = append(forward, in)
				}
			}
			inputs = append(forward, back...)
			ph.control = g.newNode(loadelim.OpLoop, &loadelim.Operator{
				Opcode:     loadelim.OpLoop,
				Properties: loadelim.Properties{NoWrite: true},
			})
		} else {
			for _, pred := range blk.Preds {
				inputs = append(inputs, loadelim.Node(blockExit[pred.Index]))
			}
			if len(blk.Preds) > 1 {
				ph.control = g.newNode(loadelim.OpMerge, &loadelim.Operator{
					Opcode:     loadelim.OpMerge,
					Properties: loadelim.Properties{NoWrite: true},
				})
			}
		}
		ph.effects = inputs
		ph.operator.EffectInputCount = len(inputs)
	}

	return g, nil
}

// builder holds the per-function state threaded through the instruction
// walk: the graph under construction and the config governing opaque-call
// classification.
type builder struct {
	g   *Graph
	cfg *config.Config
}

// visit appends at most one effect node for instr and returns the effect
// chain's new tail. Instructions that do not touch memory through a pointer
// the pass can reason about (arithmetic, control flow, value phis,
// interface conversions) return current unchanged.
//
//gocyclo:ignore
func (b *builder) visit(current *node, instr ssa.Instruction) *node {
	g := b.g
	switch v := instr.(type) {
	case *ssa.Alloc:
		return b.allocate(current, v)
	case *ssa.MakeSlice:
		return b.allocate(current, v)
	case *ssa.MakeMap:
		return b.allocate(current, v)
	case *ssa.MakeChan:
		return b.allocate(current, v)

	case *ssa.FieldAddr:
		object := g.nodeFor(v.X)
		g.fieldAddrs[v] = fieldRef{object: object, slot: v.Field * loadelim.PointerSize}
		return current

	case *ssa.IndexAddr:
		object := g.nodeFor(v.X)
		index := g.nodeFor(v.Index)
		g.indexAddrs[v] = indexRef{object: object, index: index}
		return current

	case *ssa.UnOp:
		if v.Op != token.MUL {
			return current
		}
		if fr, ok := g.fieldAddrs[v.X]; ok {
			n := g.newNode(loadelim.OpLoadField, &loadelim.Operator{
				Opcode:            loadelim.OpLoadField,
				EffectInputCount:  1,
				EffectOutputCount: 1,
				ValueInputCount:   1,
				Representation:    loadelim.RepTagged,
				Offset:            fr.slot,
				Properties:        loadelim.Properties{NoWrite: true},
			})
			n.value = v
			n.values = []loadelim.Node{fr.object}
			n.effects = []loadelim.Node{current}
			g.byValue[v] = n
			return n
		}
		if ir, ok := g.indexAddrs[v.X]; ok {
			n := g.newNode(loadelim.OpLoadElement, &loadelim.Operator{
				Opcode:            loadelim.OpLoadElement,
				EffectInputCount:  1,
				EffectOutputCount: 1,
				ValueInputCount:   2,
				Representation:    loadelim.RepTagged,
				Properties:        loadelim.Properties{NoWrite: true},
			})
			n.value = v
			n.values = []loadelim.Node{ir.object, ir.index}
			n.effects = []loadelim.Node{current}
			g.byValue[v] = n
			return n
		}
		return b.opaqueRead(current, v)

	case *ssa.Store:
		if fr, ok := g.fieldAddrs[v.Addr]; ok {
			n := g.newNode(loadelim.OpStoreField, &loadelim.Operator{
				Opcode:            loadelim.OpStoreField,
				EffectInputCount:  1,
				EffectOutputCount: 1,
				ValueInputCount:   2,
				Representation:    loadelim.RepTagged,
				Offset:            fr.slot,
			})
			n.values = []loadelim.Node{fr.object, g.nodeFor(v.Val)}
			n.effects = []loadelim.Node{current}
			return n
		}
		if ir, ok := g.indexAddrs[v.Addr]; ok {
			n := g.newNode(loadelim.OpStoreElement, &loadelim.Operator{
				Opcode:            loadelim.OpStoreElement,
				EffectInputCount:  1,
				EffectOutputCount: 1,
				ValueInputCount:   3,
				Representation:    loadelim.RepTagged,
			})
			n.values = []loadelim.Node{ir.object, ir.index, g.nodeFor(v.Val)}
			n.effects = []loadelim.Node{current}
			return n
		}
		return b.opaqueWrite(current, nil)

	case *ssa.Call:
		return b.call(current, v)
	case *ssa.Defer:
		return b.opaqueWrite(current, nil)
	case *ssa.Go:
		return b.opaqueWrite(current, nil)
	case *ssa.MapUpdate:
		return b.opaqueWrite(current, nil)
	case *ssa.Send:
		return b.opaqueWrite(current, nil)
	case *ssa.RunDefers:
		return b.opaqueWrite(current, nil)

	default:
		return current
	}
}

// allocate models Alloc/MakeSlice/MakeMap/MakeChan uniformly: each produces
// a value provably disjoint from anything already tracked, so unlike a
// generic opaque write it is marked NoWrite and never invalidates the
// incoming state (see the "Other nodes" rule in loadelim's Reducer).
func (b *builder) allocate(current *node, v ssa.Value) *node {
	n := b.g.newNode(loadelim.OpAllocate, &loadelim.Operator{
		Opcode:            loadelim.OpAllocate,
		EffectInputCount:  1,
		EffectOutputCount: 1,
		Properties:        loadelim.Properties{NoWrite: true},
	})
	n.value = v
	n.effects = []loadelim.Node{current}
	b.g.byValue[v] = n
	return n
}

// opaqueRead models a load through a pointer the builder could not resolve
// to a tracked field or element access. It cannot write, so it is NoWrite,
// but it also cannot be forwarded from recorded state since no field/
// element fact was ever recorded against it.
func (b *builder) opaqueRead(current *node, v ssa.Value) *node {
	n := b.g.newNode(loadelim.OpUnknown, &loadelim.Operator{
		Opcode:            loadelim.OpUnknown,
		EffectInputCount:  1,
		EffectOutputCount: 1,
		Properties:        loadelim.Properties{NoWrite: true},
	})
	n.value = v
	n.effects = []loadelim.Node{current}
	b.g.byValue[v] = n
	return n
}

// opaqueWrite models any effectful instruction the builder does not
// specifically understand: it conservatively invalidates every tracked
// fact, per the "Other nodes" rule.
func (b *builder) opaqueWrite(current *node, v ssa.Value) *node {
	n := b.g.newNode(loadelim.OpUnknown, &loadelim.Operator{
		Opcode:            loadelim.OpUnknown,
		EffectInputCount:  1,
		EffectOutputCount: 1,
	})
	n.effects = []loadelim.Node{current}
	if v != nil {
		n.value = v
		b.g.byValue[v] = n
	}
	return n
}

// call classifies an ssa.Call against cfg.NoWriteFunctions and produces an
// opaque node whose NoWrite property reflects that classification. Calls
// through an interface method or a non-constant function value cannot be
// classified and are always treated as writing.
func (b *builder) call(current *node, v *ssa.Call) *node {
	noWrite := false
	if cid, ok := calleeIdentifier(v); ok {
		noWrite = b.cfg.IsNoWriteFunction(cid)
	}
	n := b.g.newNode(loadelim.OpUnknown, &loadelim.Operator{
		Opcode:            loadelim.OpUnknown,
		EffectInputCount:  1,
		EffectOutputCount: 1,
		Properties:        loadelim.Properties{NoWrite: noWrite},
	})
	n.value = v
	n.effects = []loadelim.Node{current}
	b.g.byValue[v] = n
	return n
}

// calleeIdentifier derives a config.CodeIdentifier for a direct call's
// static callee, so it can be checked against cfg.NoWriteFunctions.
func calleeIdentifier(call *ssa.Call) (config.CodeIdentifier, bool) {
	callee := call.Common().StaticCallee()
	if callee == nil {
		return config.CodeIdentifier{}, false
	}
	pkg := lang.PackageNameFromFunction(callee)
	cid := config.CodeIdentifier{Package: pkg, Method: callee.Name()}
	if recv := callee.Signature.Recv(); recv != nil {
		cid.Receiver = lang.ReceiverStr(recv.Type())
	}
	return cid, true
}
