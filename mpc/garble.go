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

// This file implements Free-XOR garbling with a point-and-permute garbled
// table for AND gates. XOR and NOT gates require no garbled table at all:
// XOR composes labels linearly, and NOT is realized purely by swapping
// which zero-label denotes which logical value, so the active label an
// evaluator holds for a NOT gate's output is identical to the one it held
// for its input.
package mpc

import (
	"io"

	"github.com/gateway-dao/gvm-go/circuit"
)

// garbledTables holds one 4-row point-and-permute table per AND gate,
// indexed by gate position in the circuit's gate list (zero entries for
// every other gate kind).
type garbledTables [][4]Label

// garbleCircuit walks c's gates in order, assigning every wire a random
// zero-label (propagated for free through XOR/NOT) and, for every AND
// gate, a fresh output zero-label plus a garbled table that lets an
// evaluator holding one label per input recover the correct output label
// without learning the other one.
func garbleCircuit(c *circuit.Circuit, rng io.Reader) (wireZero []Label, tables garbledTables, delta Label, err error) {
	delta, err = randomDelta(rng)
	if err != nil {
		return nil, nil, Label{}, err
	}

	wireZero = make([]Label, c.NumWires())
	tables = make(garbledTables, len(c.Gates()))

	for idx, g := range c.Gates() {
		switch g.Op {
		case circuit.OpInContrib, circuit.OpInEval:
			wireZero[g.Out], err = randomLabel(rng)
			if err != nil {
				return nil, nil, Label{}, err
			}
		case circuit.OpXor:
			wireZero[g.Out] = xorLabel(wireZero[g.In[0]], wireZero[g.In[1]])
		case circuit.OpNot:
			wireZero[g.Out] = xorLabel(wireZero[g.In[0]], delta)
		case circuit.OpAnd:
			a0 := wireZero[g.In[0]]
			b0 := wireZero[g.In[1]]
			a1 := xorLabel(a0, delta)
			b1 := xorLabel(b0, delta)

			c0, rerr := randomLabel(rng)
			if rerr != nil {
				return nil, nil, Label{}, rerr
			}
			c1 := xorLabel(c0, delta)

			// Index the table by the colors actually observable on the
			// label pair an evaluator might hold (i, j range over the
			// logical bit values; ca, cb are the colors those labels
			// happen to carry, which is what the evaluator reads back).
			var table [4]Label
			for i := uint8(0); i < 2; i++ {
				for j := uint8(0); j < 2; j++ {
					aLabel, bLabel := a0, b0
					if i == 1 {
						aLabel = a1
					}
					if j == 1 {
						bLabel = b1
					}
					ca := aLabel.color()
					cb := bLabel.color()

					h := hashLabels(aLabel, bLabel, uint64(idx))
					cLabel := c0
					if i&j == 1 {
						cLabel = c1
					}
					table[ca*2+cb] = xorLabel(h, cLabel)
				}
			}
			tables[idx] = table
			wireZero[g.Out] = c0
		}
	}
	return wireZero, tables, delta, nil
}

// evaluateGarbled mirrors circuit.Circuit.Eval but walks active wire
// labels instead of plaintext bits: given one label per contributor input
// wire and one per evaluator input wire, in allocation order, it returns
// the active label of every output wire.
func evaluateGarbled(c *circuit.Circuit, tables garbledTables, contribActive, evalActive []Label) []Label {
	wireLabel := make([]Label, c.NumWires())
	ci, ei := 0, 0
	for idx, g := range c.Gates() {
		switch g.Op {
		case circuit.OpInContrib:
			wireLabel[g.Out] = contribActive[ci]
			ci++
		case circuit.OpInEval:
			wireLabel[g.Out] = evalActive[ei]
			ei++
		case circuit.OpXor:
			wireLabel[g.Out] = xorLabel(wireLabel[g.In[0]], wireLabel[g.In[1]])
		case circuit.OpNot:
			wireLabel[g.Out] = wireLabel[g.In[0]]
		case circuit.OpAnd:
			a := wireLabel[g.In[0]]
			b := wireLabel[g.In[1]]
			ca := a.color()
			cb := b.color()
			h := hashLabels(a, b, uint64(idx))
			entry := tables[idx][ca*2+cb]
			wireLabel[g.Out] = xorLabel(h, entry)
		}
	}
	out := make([]Label, len(c.Outputs()))
	for i, w := range c.Outputs() {
		out[i] = wireLabel[w]
	}
	return out
}

// outputColors returns, for every output wire, the color of its
// zero-label — the public bit an evaluator XORs with the color of the
// active label it ends up holding to decode the plaintext output bit.
func outputColors(c *circuit.Circuit, wireZero []Label) []uint8 {
	out := make([]uint8, len(c.Outputs()))
	for i, w := range c.Outputs() {
		out[i] = wireZero[w].color()
	}
	return out
}

// decodeOutputs turns active output labels plus their public colors into
// plaintext bits.
func decodeOutputs(labels []Label, colors []uint8) []uint8 {
	out := make([]uint8, len(labels))
	for i, l := range labels {
		out[i] = l.color() ^ colors[i]
	}
	return out
}
