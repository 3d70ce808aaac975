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

package loadelim

// PointerSize is the machine pointer size in bytes. The pass assumes a
// 64-bit target; ssabridge builds each Operator.Offset as a struct field's
// index times PointerSize, so SlotForAccess maps it back to that index.
const PointerSize = 8

// untrackedSlot is returned by SlotForAccess when the representation or
// offset does not correspond to a tracked field slot.
const untrackedSlot = -1

// SlotForAccess maps a machine representation and a byte offset to the
// tracked slot index, or untrackedSlot.
//
//gocyclo:ignore
func SlotForAccess(rep Representation, offset int) int {
	switch rep {
	case RepNone, RepBit:
		panic("loadelim: unreachable machine representation in slot mapping")
	case RepWord8, RepWord16, RepFloat32:
		return untrackedSlot
	case RepWord32, RepWord64:
		if rep == pointerWordRepresentation() {
			return trackedSlot(offset)
		}
		return untrackedSlot
	case RepFloat64, RepSimd128:
		return untrackedSlot
	case RepTaggedSigned, RepTaggedPointer, RepTagged:
		return trackedSlot(offset)
	default:
		panic("loadelim: unreachable machine representation in slot mapping")
	}
}

func trackedSlot(offset int) int {
	if offset < 0 || offset%PointerSize != 0 {
		panic("loadelim: tagged field access is not pointer-aligned")
	}
	slot := offset / PointerSize
	if slot >= MaxTrackedFields {
		return untrackedSlot
	}
	return slot
}

// pointerWordRepresentation returns the Word32/Word64 representation that
// matches the target's pointer size.
func pointerWordRepresentation() Representation {
	if PointerSize == 4 {
		return RepWord32
	}
	return RepWord64
}

// PreservesFullValue reports whether rep preserves the full value of a
// stored node under the StoreElement truncation policy: only
// pointer-tagged or 64-bit float representations qualify.
func PreservesFullValue(rep Representation) bool {
	switch rep {
	case RepTaggedSigned, RepTaggedPointer, RepTagged, RepFloat64:
		return true
	default:
		return false
	}
}

// slotFor returns the tracked slot for a field-accessing operator, derived
// from its representation and byte offset via the slot mapping.
func slotFor(op *Operator) int {
	return SlotForAccess(op.Representation, op.Offset)
}
