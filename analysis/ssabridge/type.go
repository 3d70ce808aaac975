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

// Package ssabridge builds a loadelim.Graph over a single go/ssa function,
// so the load-elimination pass can run directly on real Go programs loaded
// through golang.org/x/tools/go/ssa.
package ssabridge

import (
	"go/types"

	"github.com/sea-of-nodes/loadelim/analysis/loadelim"
)

// ssaType adapts a go/types.Type to loadelim.Type.
type ssaType struct {
	t types.Type
}

func typeOf(t types.Type) loadelim.Type {
	if t == nil {
		return ssaType{t: types.Typ[types.Invalid]}
	}
	return ssaType{t: t}
}

// Is reports subtyping, approximated as identity or assignability: the
// pass only ever uses Is to decide whether a replacement value's static
// type is narrow enough to stand in for the node it replaces.
func (s ssaType) Is(other loadelim.Type) bool {
	o := other.(ssaType)
	if types.Identical(s.t, o.t) {
		return true
	}
	return types.AssignableTo(s.t, o.t)
}

// Maybe reports whether the two types' value sets could overlap. Interface
// types are treated as possibly overlapping with anything, since without a
// full implements-check this is the only sound answer; otherwise two types
// overlap only if they are identical.
func (s ssaType) Maybe(other loadelim.Type) bool {
	o := other.(ssaType)
	if types.Identical(s.t, o.t) {
		return true
	}
	if isInterface(s.t) || isInterface(o.t) {
		return true
	}
	return false
}

func isInterface(t types.Type) bool {
	_, ok := t.Underlying().(*types.Interface)
	return ok
}
