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

package main

import "fmt"

// Box is a small heap object with a scalar field and a pointer field, used
// to exercise both LoadField/StoreField and the alias oracle's
// fresh-allocation rule.
type Box struct {
	A int
	B *Box
}

// RedundantLoad stores into b.A and immediately reads it back; the read
// should be eliminated in favor of the stored value.
func RedundantLoad(b *Box) int {
	b.A = 1
	return b.A
}

// AliasedStores writes through two provably distinct allocations and reads
// back through the first; the second store must not be seen to kill the
// first's fact.
func AliasedStores() int {
	a := &Box{}
	b := &Box{}
	a.A = 1
	b.A = 2
	return a.A
}

// LoopStore writes and rereads the same field on every iteration of a loop,
// exercising forwarding across the EffectPhi a loop header introduces.
func LoopStore(b *Box, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		b.A = i
		sum += b.A
	}
	return sum
}

// ReadAfterEmptyLoop stores a field before a loop whose body writes nothing
// the pass recognizes, then reads the field back after the loop. The loop
// state summarizer must walk the (empty) loop body without bailing, so the
// fact established before the loop survives to the read.
func ReadAfterEmptyLoop(b *Box, n int) int {
	b.A = 5
	for i := 0; i < n; i++ {
		_ = i
	}
	return b.A
}

// OpaqueCall calls a function listed as a no-write function in the test
// config, then rereads the field it stored just before the call.
func OpaqueCall(b *Box) int {
	b.A = 7
	fmt.Sprintf("%d", b.A)
	return b.A
}

// TwoParams stores through p, then through q, then rereads p. The
// structural oracle must treat p and q as may-aliasing (they are both bare
// parameters of the same type, and neither is a fresh allocation), so it
// has to assume q's store could have overwritten whatever p.A held and
// cannot forward the read. A pointer analysis that resolves p and q to the
// two distinct allocations passed at this function's sole call site can
// prove they never alias, letting the read be forwarded instead.
func TwoParams(p, q *Box) int {
	p.A = 9
	q.A = 10
	return p.A
}

func main() {
	b := &Box{A: 1}
	fmt.Println(RedundantLoad(b))
	fmt.Println(AliasedStores())
	fmt.Println(LoopStore(b, 3))
	fmt.Println(ReadAfterEmptyLoop(b, 3))
	fmt.Println(OpaqueCall(b))
	fmt.Println(TwoParams(&Box{}, &Box{}))
}
