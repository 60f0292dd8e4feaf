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

// Package mpc implements the two-party garbled-circuit evaluation of a
// compiled circuit.Circuit: a Contributor garbles the circuit and reveals
// its own active input labels directly, an Evaluator obtains its own
// active input labels via oblivious transfer without revealing its input
// bits, then evaluates the garbled circuit and decodes the plaintext
// output. The whole exchange runs in-process, with no network transport —
// Run/Output simply consume and produce plain Go message values.
package mpc

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/btcsuite/btcd/btcec"

	"github.com/gateway-dao/gvm-go/circuit"
	"github.com/gateway-dao/gvm-go/crypto/ecpointgrouplaw"
	"github.com/gateway-dao/gvm-go/logger"
)

var (
	// ErrStepMismatch is returned when the contributor and evaluator
	// report different step counts before a simulation begins.
	ErrStepMismatch = errors.New("mpc: contributor and evaluator step counts differ")
	// ErrProtocolFailure is returned when a message's shape does not match
	// what the receiving party's state expects (wrong input count, wrong
	// OT batch size).
	ErrProtocolFailure = errors.New("mpc: protocol message shape mismatch")
	// ErrInputWidthMismatch is returned when a party's private input bit
	// count does not match the circuit's corresponding input count.
	ErrInputWidthMismatch = errors.New("mpc: private input length does not match circuit")
)

// otCurve is the elliptic curve group both parties use for oblivious
// transfer. Fixing it avoids a curve-negotiation message, consistent with
// the rest of this repository's use of secp256k1.
var otCurve = btcec.S256()

func contribInputWires(c *circuit.Circuit) []circuit.WireId {
	var out []circuit.WireId
	for _, g := range c.Gates() {
		if g.Op == circuit.OpInContrib {
			out = append(out, g.Out)
		}
	}
	return out
}

func evalInputWires(c *circuit.Circuit) []circuit.WireId {
	var out []circuit.WireId
	for _, g := range c.Gates() {
		if g.Op == circuit.OpInEval {
			out = append(out, g.Out)
		}
	}
	return out
}

// ContributorMessage is the contributor's single outgoing message: the
// garbled AND-gate tables, the public output-decoding colors, its own
// revealed active input labels, and one OT sender public key per evaluator
// input wire.
type ContributorMessage struct {
	Tables        garbledTables
	OutputColors  []uint8
	ContribActive []Label
	OTSenderA     []*ecpointgrouplaw.ECPoint
}

// EvaluatorChoiceMessage carries the evaluator's OT response points, one
// per its own input wire, encoding its private choice bits without
// revealing them.
type EvaluatorChoiceMessage struct {
	OTReceiverB []*ecpointgrouplaw.ECPoint
}

// ContributorResponse carries the OT-sealed label pairs the evaluator
// needs to recover its active input labels.
type ContributorResponse struct {
	Sealed [][2]Label
}

// Contributor is the garbling party.
type Contributor struct {
	circuit    *circuit.Circuit
	rng        io.Reader
	wireZero   []Label
	delta      Label
	tables     garbledTables
	evalWires  []circuit.WireId
	otSenders  []*otSender
}

// NewContributor garbles c for the given private input bits (ordered to
// match the circuit's contributor input wires in allocation order) using
// crypto/rand.Reader, and returns the contributor's first protocol
// message.
func NewContributor(c *circuit.Circuit, inputBits []uint8) (*Contributor, ContributorMessage, error) {
	return NewContributorWithRand(c, inputBits, rand.Reader)
}

// NewContributorWithRand is NewContributor with an explicit entropy
// source. rng supplies the wire labels and the Free-XOR offset; the OT
// sender scalars are always drawn from crypto/rand, so the messages are not
// reproducible from rng alone.
func NewContributorWithRand(c *circuit.Circuit, inputBits []uint8, rng io.Reader) (*Contributor, ContributorMessage, error) {
	if len(inputBits) != c.NumContribInputs() {
		return nil, ContributorMessage{}, ErrInputWidthMismatch
	}

	wireZero, tables, delta, err := garbleCircuit(c, rng)
	if err != nil {
		return nil, ContributorMessage{}, err
	}

	contribWires := contribInputWires(c)
	contribActive := make([]Label, len(contribWires))
	for i, w := range contribWires {
		if inputBits[i] == 0 {
			contribActive[i] = wireZero[w]
		} else {
			contribActive[i] = xorLabel(wireZero[w], delta)
		}
	}

	evalWires := evalInputWires(c)
	otSenders := make([]*otSender, len(evalWires))
	senderPubs := make([]*ecpointgrouplaw.ECPoint, len(evalWires))
	for i := range evalWires {
		s, err := newOTSender(rng, otCurve)
		if err != nil {
			return nil, ContributorMessage{}, err
		}
		otSenders[i] = s
		senderPubs[i] = s.A
	}

	ctr := &Contributor{
		circuit:   c,
		rng:       rng,
		wireZero:  wireZero,
		delta:     delta,
		tables:    tables,
		evalWires: evalWires,
		otSenders: otSenders,
	}
	msg := ContributorMessage{
		Tables:        tables,
		OutputColors:  outputColors(c, wireZero),
		ContribActive: contribActive,
		OTSenderA:     senderPubs,
	}
	return ctr, msg, nil
}

// Steps reports the number of message round-trips this party expects,
// checked against the other party's Steps() before a simulation begins.
func (c *Contributor) Steps() int { return 1 }

// Run consumes the evaluator's OT choice message and seals each of its two
// candidate labels per evaluator input wire against the corresponding OT
// response point.
func (c *Contributor) Run(msg EvaluatorChoiceMessage) (ContributorResponse, error) {
	if len(msg.OTReceiverB) != len(c.otSenders) {
		logger.Logger().Warn("OT response batch size mismatch", "got", len(msg.OTReceiverB), "want", len(c.otSenders))
		return ContributorResponse{}, ErrProtocolFailure
	}
	sealed := make([][2]Label, len(c.otSenders))
	for i, sender := range c.otSenders {
		w := c.evalWires[i]
		m0 := c.wireZero[w]
		m1 := xorLabel(m0, c.delta)
		e0, e1, err := sender.seal(msg.OTReceiverB[i], m0, m1)
		if err != nil {
			logger.Logger().Error("Failed to seal OT response", "wire", i, "err", err)
			return ContributorResponse{}, err
		}
		sealed[i] = [2]Label{e0, e1}
	}
	return ContributorResponse{Sealed: sealed}, nil
}

// Evaluator is the garbled-circuit evaluating party.
type Evaluator struct {
	circuit   *circuit.Circuit
	rng       io.Reader
	evalBits  []uint8
	evalWires []circuit.WireId
	receivers []*otReceiver
	msg1      ContributorMessage
}

// NewEvaluator constructs an evaluator for c holding the given private
// input bits (ordered to match the circuit's evaluator input wires in
// allocation order), using crypto/rand.Reader.
func NewEvaluator(c *circuit.Circuit, inputBits []uint8) (*Evaluator, error) {
	return NewEvaluatorWithRand(c, inputBits, rand.Reader)
}

// NewEvaluatorWithRand is NewEvaluator with an explicit entropy source.
// rng is stored and passed to the OT receiver, which draws its blinding
// scalars from crypto/rand instead, so rng does not affect the messages.
func NewEvaluatorWithRand(c *circuit.Circuit, inputBits []uint8, rng io.Reader) (*Evaluator, error) {
	if len(inputBits) != c.NumEvalInputs() {
		return nil, ErrInputWidthMismatch
	}
	return &Evaluator{circuit: c, rng: rng, evalBits: inputBits, evalWires: evalInputWires(c)}, nil
}

// Steps reports the number of message round-trips this party expects.
func (e *Evaluator) Steps() int { return 1 }

// Run consumes the contributor's garbling message and returns the
// evaluator's OT choice message, one response point per evaluator input
// wire, encoding its private bits.
func (e *Evaluator) Run(msg ContributorMessage) (EvaluatorChoiceMessage, error) {
	if len(msg.ContribActive) != e.circuit.NumContribInputs() {
		logger.Logger().Warn("contributor active label count mismatch", "got", len(msg.ContribActive), "want", e.circuit.NumContribInputs())
		return EvaluatorChoiceMessage{}, ErrProtocolFailure
	}
	if len(msg.OTSenderA) != len(e.evalWires) {
		logger.Logger().Warn("OT sender key count mismatch", "got", len(msg.OTSenderA), "want", len(e.evalWires))
		return EvaluatorChoiceMessage{}, ErrProtocolFailure
	}
	e.msg1 = msg

	receivers := make([]*otReceiver, len(e.evalWires))
	Bs := make([]*ecpointgrouplaw.ECPoint, len(e.evalWires))
	for i := range e.evalWires {
		recv, B, err := newOTReceiver(e.rng, otCurve, e.evalBits[i], msg.OTSenderA[i])
		if err != nil {
			logger.Logger().Error("Failed to build OT receiver", "wire", i, "err", err)
			return EvaluatorChoiceMessage{}, err
		}
		receivers[i] = recv
		Bs[i] = B
	}
	e.receivers = receivers
	return EvaluatorChoiceMessage{OTReceiverB: Bs}, nil
}

// Output consumes the contributor's sealed-label response, recovers the
// evaluator's own active input labels via OT, evaluates the garbled
// circuit, and decodes the plaintext output bits.
func (e *Evaluator) Output(msg ContributorResponse) ([]uint8, error) {
	if len(msg.Sealed) != len(e.receivers) {
		logger.Logger().Warn("sealed OT response count mismatch", "got", len(msg.Sealed), "want", len(e.receivers))
		return nil, ErrProtocolFailure
	}
	evalActive := make([]Label, len(e.receivers))
	for i, recv := range e.receivers {
		evalActive[i] = recv.open(e.msg1.OTSenderA[i], msg.Sealed[i][0], msg.Sealed[i][1])
	}
	outLabels := evaluateGarbled(e.circuit, e.msg1.Tables, e.msg1.ContribActive, evalActive)
	return decodeOutputs(outLabels, e.msg1.OutputColors), nil
}

// Simulate drives one full two-party evaluation of c in-process: it
// constructs both parties, checks their step counts agree, and runs the
// five calls (New, New, Run, Run, Output) that carry the three protocol
// messages to completion.
func Simulate(c *circuit.Circuit, contribBits, evalBits []uint8) ([]uint8, error) {
	contributor, msg1, err := NewContributor(c, contribBits)
	if err != nil {
		return nil, err
	}
	evaluator, err := NewEvaluator(c, evalBits)
	if err != nil {
		return nil, err
	}
	if contributor.Steps() != evaluator.Steps() {
		logger.Logger().Warn("step count mismatch", "contributor", contributor.Steps(), "evaluator", evaluator.Steps())
		return nil, ErrStepMismatch
	}

	choiceMsg, err := evaluator.Run(msg1)
	if err != nil {
		return nil, err
	}
	resp, err := contributor.Run(choiceMsg)
	if err != nil {
		return nil, err
	}
	return evaluator.Output(resp)
}
