// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package circuit

// Builder is a linear, exclusively owned resource that accumulates gates and
// allocates wire indices while a circuit is under construction. It is
// consumed by Finalize, after which it must not be used again.
type Builder struct {
	gates      []Gate
	partyOf    map[WireId]PartyTag
	numContrib int
	numEval    int
	zero       *WireId
	one        *WireId
	finalized  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		partyOf: make(map[WireId]PartyTag),
	}
}

func (b *Builder) checkLive() {
	if b.finalized {
		panic(ErrBuilderFinalized)
	}
}

func (b *Builder) checkWire(w WireId) {
	if int(w) < 0 || int(w) >= len(b.gates) {
		panic(ErrUnknownWire)
	}
}

func (b *Builder) alloc(g Gate) WireId {
	id := WireId(len(b.gates))
	g.Out = id
	b.gates = append(b.gates, g)
	return id
}

// PushInputContrib allocates a new wire carrying a private contributor input
// bit and returns its WireId.
func (b *Builder) PushInputContrib() WireId {
	b.checkLive()
	id := b.alloc(Gate{Op: OpInContrib})
	b.partyOf[id] = Contributor
	b.numContrib++
	return id
}

// PushInputEval allocates a new wire carrying a private evaluator input bit
// and returns its WireId.
func (b *Builder) PushInputEval() WireId {
	b.checkLive()
	id := b.alloc(Gate{Op: OpInEval})
	b.partyOf[id] = Evaluator
	b.numEval++
	return id
}

// PushXor appends a free XOR gate and returns its output wire.
func (b *Builder) PushXor(a, x WireId) WireId {
	b.checkLive()
	b.checkWire(a)
	b.checkWire(x)
	return b.alloc(Gate{Op: OpXor, In: [2]WireId{a, x}})
}

// PushAnd appends the sole non-free AND gate and returns its output wire.
func (b *Builder) PushAnd(a, x WireId) WireId {
	b.checkLive()
	b.checkWire(a)
	b.checkWire(x)
	return b.alloc(Gate{Op: OpAnd, In: [2]WireId{a, x}})
}

// PushNot appends a NOT gate (Xor(a, one_wire), but recorded explicitly) and
// returns its output wire.
func (b *Builder) PushNot(a WireId) WireId {
	b.checkLive()
	b.checkWire(a)
	return b.alloc(Gate{Op: OpNot, In: [2]WireId{a, 0}})
}

// ConstZero returns a cached WireId fixed to 0, synthesizing it on first use
// as Xor(0, 0) against wire 0. If no wire has been allocated yet, it first
// pushes a throwaway contributor input wire to anchor the XOR, so wire 0
// exists; that extra wire becomes part of NumContribInputs() like any other
// contributor input.
func (b *Builder) ConstZero() WireId {
	b.checkLive()
	if b.zero != nil {
		return *b.zero
	}
	if len(b.gates) == 0 {
		// No existing wire to XOR against; allocate a throwaway contributor
		// input wire purely to anchor the zero/one constants.
		b.PushInputContrib()
	}
	w := b.PushXor(0, 0)
	b.zero = &w
	return w
}

// ConstOne returns a cached WireId fixed to 1, synthesized as Not(const_zero()).
func (b *Builder) ConstOne() WireId {
	b.checkLive()
	if b.one != nil {
		return *b.one
	}
	z := b.ConstZero()
	w := b.PushNot(z)
	b.one = &w
	return w
}

// Finalize consumes the builder and produces an immutable Circuit whose
// output bit vector is given, in order, by outputs.
func (b *Builder) Finalize(outputs []WireId) *Circuit {
	b.checkLive()
	if len(outputs) == 0 {
		panic(ErrNoOutputs)
	}
	for _, w := range outputs {
		b.checkWire(w)
	}
	partyOf := make(map[WireId]PartyTag, len(b.partyOf))
	for w, p := range b.partyOf {
		partyOf[w] = p
	}
	c := &Circuit{
		gates:      b.gates,
		outputs:    append([]WireId(nil), outputs...),
		partyOf:    partyOf,
		numContrib: b.numContrib,
		numEval:    b.numEval,
		numWires:   len(b.gates),
	}
	b.finalized = true
	return c
}
