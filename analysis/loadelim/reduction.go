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

// ReductionKind tags the variant held by a Reduction.
type ReductionKind int

const (
	// KindNoChange means no rewrite; the driver will not re-mark users.
	KindNoChange ReductionKind = iota
	// KindChanged means the post-state attached to the node differs from
	// the previously recorded one; the driver re-marks users.
	KindChanged
	// KindReplace means the node is semantically redundant and should be
	// replaced by Value.
	KindReplace
)

// Reduction is the tagged result every reducer handler returns.
type Reduction struct {
	Kind  ReductionKind
	Node  Node // set when Kind == KindChanged
	Value Node // set when Kind == KindReplace
}

// NoChange builds a Reduction signaling no progress.
func NoChange() Reduction { return Reduction{Kind: KindNoChange} }

// Changed builds a Reduction signaling that node's recorded state changed.
func Changed(node Node) Reduction { return Reduction{Kind: KindChanged, Node: node} }

// Replace builds a Reduction signaling that the node should be replaced by
// value.
func Replace(value Node) Reduction { return Reduction{Kind: KindReplace, Value: value} }
