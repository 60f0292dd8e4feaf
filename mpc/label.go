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

package mpc

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/gateway-dao/gvm-go/crypto/ecpointgrouplaw"
)

// Label is a 128-bit wire label. Its lowest bit is the point-and-permute
// color bit; XORing a wire's zero-label with the circuit's global delta
// always flips it, since delta's lowest bit is forced to 1.
type Label [16]byte

func xorLabel(a, b Label) Label {
	var out Label
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func (l Label) color() byte { return l[0] & 1 }

func randomLabel(rng io.Reader) (Label, error) {
	var l Label
	if _, err := io.ReadFull(rng, l[:]); err != nil {
		return Label{}, err
	}
	return l, nil
}

// randomDelta returns a random label with its color bit forced to 1, the
// global Free-XOR offset R.
func randomDelta(rng io.Reader) (Label, error) {
	l, err := randomLabel(rng)
	if err != nil {
		return Label{}, err
	}
	l[0] |= 1
	return l, nil
}

// hashLabels is the gate-tweaked random oracle used to garble and evaluate
// AND gates: distinct gate indices produce independent-looking outputs even
// for repeated label pairs.
func hashLabels(a, b Label, gateIndex uint64) Label {
	var buf [40]byte
	copy(buf[0:16], a[:])
	copy(buf[16:32], b[:])
	binary.BigEndian.PutUint64(buf[32:40], gateIndex)
	sum := blake2b.Sum256(buf[:])
	var out Label
	copy(out[:], sum[:16])
	return out
}

// hashPoint derives a one-time-pad key from a shared EC-ElGamal secret
// point, used by the oblivious transfer to mask wire labels.
func hashPoint(p *ecpointgrouplaw.ECPoint) Label {
	size := (p.GetCurve().Params().BitSize + 7) / 8
	xb := make([]byte, size)
	yb := make([]byte, size)
	p.GetX().FillBytes(xb)
	p.GetY().FillBytes(yb)
	buf := append(append([]byte{}, xb...), yb...)
	sum := blake2b.Sum256(buf)
	var out Label
	copy(out[:], sum[:16])
	return out
}
