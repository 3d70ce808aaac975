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

// Users reports the nodes that consume node's value or effect output. A
// front end supplies this since the pass core has no notion of a use list
// of its own.
type Users func(node Node) []Node

// Result is the outcome of running the pass to a fixed point over one
// function: the final recorded state for every visited node, and the set
// of nodes the reducer reported redundant.
type Result struct {
	States    *StateTable
	Redundant map[Node]Node // node -> replacement value
}

// Run drives the Reducer to a fixed point over the effect-reachable nodes
// of a function, starting from start (the Start node): the reducer is
// invoked repeatedly by this outer worklist driver until no handler
// reports Changed.
//
// It follows the same forward-iterative worklist idiom used elsewhere in
// this codebase: a pending queue seeded with the start node, re-enqueuing
// a node's users whenever its recorded state changes, until the queue
// drains.
func Run(r *Reducer, start Node, users Users) Result {
	result := Result{States: r.States, Redundant: map[Node]Node{}}

	queue := []Node{start}
	queued := map[Node]bool{start: true}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		queued[node] = false

		if node.Dead() {
			continue
		}
		if _, alreadyRedundant := result.Redundant[node]; alreadyRedundant {
			continue
		}

		red := r.Reduce(node)
		switch red.Kind {
		case KindNoChange:
			// nothing to propagate
		case KindChanged:
			for _, u := range users(red.Node) {
				if !queued[u] {
					queued[u] = true
					queue = append(queue, u)
				}
			}
		case KindReplace:
			result.Redundant[node] = red.Value
			for _, u := range users(node) {
				if !queued[u] {
					queued[u] = true
					queue = append(queue, u)
				}
			}
		}
	}
	return result
}

// Apply replays result.Redundant against sink, performing the physical
// graph rewrite the core pass only ever describes. incomingEffect supplies,
// for a redundant node with an effect output, the effect value its users
// should be redirected to.
func Apply(sink Graph, redundant map[Node]Node, incomingEffect func(node Node) Node) {
	for node, value := range redundant {
		var effect Node
		if node.EffectInputCount() > 0 {
			effect = incomingEffect(node)
		}
		sink.ReplaceWithValue(node, value, effect)
	}
}
