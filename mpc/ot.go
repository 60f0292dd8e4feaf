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

// This file implements a 1-of-2 oblivious transfer over an elliptic curve
// Diffie-Hellman group (the "simplest OT" two-message construction), used
// by the driver so the evaluator can receive exactly one of the two labels
// for each of its own input wires without revealing its choice bit and
// without learning the label it did not choose.
package mpc

import (
	"crypto/elliptic"
	"errors"
	"io"
	"math/big"

	"github.com/gateway-dao/gvm-go/crypto/ecpointgrouplaw"
	"github.com/gateway-dao/gvm-go/crypto/utils"
)

// ErrInvalidChoice is returned when an OT choice bit is neither 0 nor 1.
var ErrInvalidChoice = errors.New("mpc: OT choice bit must be 0 or 1")

// otSender holds the sender-side (contributor) secret for one OT instance:
// the scalar a behind its public key A = a*G.
type otSender struct {
	curve elliptic.Curve
	a     *big.Int
	A     *ecpointgrouplaw.ECPoint
}

func newOTSender(rng io.Reader, curve elliptic.Curve) (*otSender, error) {
	a, err := utils.RandomPositiveInt(curve.Params().N)
	if err != nil {
		return nil, err
	}
	return &otSender{curve: curve, a: a, A: ecpointgrouplaw.ScalarBaseMult(curve, a)}, nil
}

// seal derives the two pad keys from the receiver's public point B and uses
// them to mask m0, m1: k0 = H(a*B), k1 = H(a*(B-A)). An honest receiver can
// compute exactly one of these keys, matching its choice bit.
func (s *otSender) seal(b *ecpointgrouplaw.ECPoint, m0, m1 Label) (e0, e1 Label, err error) {
	aB := b.ScalarMult(s.a)
	bMinusA, err := b.Add(s.A.Neg())
	if err != nil {
		return Label{}, Label{}, err
	}
	aBMinusA := bMinusA.ScalarMult(s.a)

	k0 := hashPoint(aB)
	k1 := hashPoint(aBMinusA)
	return xorLabel(m0, k0), xorLabel(m1, k1), nil
}

// otReceiver holds the receiver-side (evaluator) secret for one OT
// instance: its choice bit and the scalar b behind its response point.
type otReceiver struct {
	curve  elliptic.Curve
	b      *big.Int
	choice uint8
}

// newOTReceiver picks the receiver's blinding scalar and builds its
// response point: B = b*G when choice = 0, or B = A + b*G when choice = 1.
func newOTReceiver(rng io.Reader, curve elliptic.Curve, choice uint8, senderA *ecpointgrouplaw.ECPoint) (*otReceiver, *ecpointgrouplaw.ECPoint, error) {
	if choice != 0 && choice != 1 {
		return nil, nil, ErrInvalidChoice
	}
	b, err := utils.RandomPositiveInt(curve.Params().N)
	if err != nil {
		return nil, nil, err
	}
	bG := ecpointgrouplaw.ScalarBaseMult(curve, b)

	B := bG
	if choice == 1 {
		B, err = senderA.Add(bG)
		if err != nil {
			return nil, nil, err
		}
	}
	return &otReceiver{curve: curve, b: b, choice: choice}, B, nil
}

// open recovers m_choice from the sender's sealed pair by recomputing
// k = H(b*A), which always equals the key the sender used for its choice.
func (r *otReceiver) open(senderA *ecpointgrouplaw.ECPoint, e0, e1 Label) Label {
	k := hashPoint(senderA.ScalarMult(r.b))
	if r.choice == 0 {
		return xorLabel(e0, k)
	}
	return xorLabel(e1, k)
}
