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

// Package loadelim implements a load-elimination optimization pass over an
// effect-ordered sea-of-nodes graph. The pass itself knows nothing about any
// concrete IR: it operates purely through the Node and Graph interfaces
// below. A front end (see the ssabridge package) is responsible for
// producing a Graph from a real program.
package loadelim

// Opcode identifies the operation a Node performs.
type Opcode int

// The opcode space the reducer dispatches on. Front ends that do not have a
// native notion of some of these (e.g. Allocate) map their own instructions
// onto this set; see ssabridge.
const (
	OpUnknown Opcode = iota

	OpStart
	OpDead
	OpMerge
	OpLoop
	OpEffectPhi

	OpAllocate
	OpHeapConstant
	OpParameter
	OpFinishRegion

	OpCheckMaps
	OpEnsureWritableFastElements
	OpMaybeGrowFastElements
	OpTransitionElementsKind

	OpLoadField
	OpStoreField
	OpLoadElement
	OpStoreElement
	OpStoreTypedElement
	OpStoreBuffer

	// OpOther is not a real opcode tag returned by any node; the reducer
	// treats any opcode not explicitly listed above as falling into the
	// generic "Other nodes" case of the dispatch.
	OpOther
)

func (o Opcode) String() string {
	switch o {
	case OpStart:
		return "Start"
	case OpDead:
		return "Dead"
	case OpMerge:
		return "Merge"
	case OpLoop:
		return "Loop"
	case OpEffectPhi:
		return "EffectPhi"
	case OpAllocate:
		return "Allocate"
	case OpHeapConstant:
		return "HeapConstant"
	case OpParameter:
		return "Parameter"
	case OpFinishRegion:
		return "FinishRegion"
	case OpCheckMaps:
		return "CheckMaps"
	case OpEnsureWritableFastElements:
		return "EnsureWritableFastElements"
	case OpMaybeGrowFastElements:
		return "MaybeGrowFastElements"
	case OpTransitionElementsKind:
		return "TransitionElementsKind"
	case OpLoadField:
		return "LoadField"
	case OpStoreField:
		return "StoreField"
	case OpLoadElement:
		return "LoadElement"
	case OpStoreElement:
		return "StoreElement"
	case OpStoreTypedElement:
		return "StoreTypedElement"
	case OpStoreBuffer:
		return "StoreBuffer"
	default:
		return "Other"
	}
}

// Representation is the closed enumeration of machine representations a
// field or element access can carry.
type Representation int

const (
	RepNone Representation = iota
	RepBit
	RepWord8
	RepWord16
	RepWord32
	RepWord64
	RepFloat32
	RepFloat64
	RepSimd128
	RepTaggedSigned
	RepTaggedPointer
	RepTagged
)

// ElementsTransition classifies whether TransitionElementsKind may
// reallocate the backing store.
type ElementsTransition int

const (
	FastTransition ElementsTransition = iota
	SlowTransition
)

// GrowFastElementsFlags is a bitset carried by MaybeGrowFastElements.
type GrowFastElementsFlags int

const (
	FlagDoubleElements GrowFastElementsFlags = 1 << iota
	FlagArrayObject
)

// Type is the static type query interface required of a node's type.
type Type interface {
	// Is reports whether this type is a subtype of other.
	Is(other Type) bool
	// Maybe reports whether this type's set of runtime values intersects
	// other's (a non-empty intersection).
	Maybe(other Type) bool
}

// Properties describes static, non-input facts about an operator.
type Properties struct {
	NoWrite bool
}

// Operator is the fixed descriptor shared by every node with the same
// opcode and static configuration (representation, flags, transition kind).
type Operator struct {
	Opcode            Opcode
	EffectInputCount  int
	EffectOutputCount int
	ValueInputCount   int
	ControlInputCount int
	Properties        Properties

	// Representation is set for LoadField/StoreField/LoadElement/StoreElement
	// and is consumed by the slot mapping and the StoreElement truncation
	// policy.
	Representation Representation

	// Offset is the byte offset of a field access, consumed by the slot
	// mapping.
	Offset int

	// GrowFlags carries GrowFastElementsFlags for MaybeGrowFastElements.
	GrowFlags GrowFastElementsFlags

	// Transition carries the ElementsTransition for TransitionElementsKind.
	Transition ElementsTransition

	// SourceMap/TargetMap are opaque map identities for
	// TransitionElementsKind; they are compared to other nodes by identity,
	// like any other Node.
	SourceMap Node
	TargetMap Node
}

// Node is a handle to one value/effect-producing point in the graph. The
// pass only ever compares nodes by identity (==) or through the alias
// oracle; it never inspects a node's internal shape beyond what this
// interface exposes.
type Node interface {
	// ID is a stable small integer, used to key the per-node state table.
	ID() int
	// Op returns the node's opcode tag.
	Op() Opcode
	// Operator returns the node's operator descriptor.
	Operator() *Operator
	// Type returns the node's static type.
	Type() Type
	// Dead reports whether the node has already been removed from the graph.
	Dead() bool

	// GetValueInput returns the i-th value input.
	GetValueInput(i int) Node
	// GetEffectInput returns the i-th effect input.
	GetEffectInput(i int) Node
	// GetControlInput returns the node's (sole) control input, or nil.
	GetControlInput() Node

	// ValueInputCount, EffectInputCount mirror the corresponding Operator
	// fields for convenience at call sites that only have a Node.
	ValueInputCount() int
	EffectInputCount() int
}

// Graph is the minimal rewrite sink the pass requires from its host.
type Graph interface {
	// ReplaceWithValue redirects every value use of node to value and every
	// effect use of node to effect.
	ReplaceWithValue(node Node, value Node, effect Node)
}
