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

// Package compose lifts the builder's gate-level operations to a
// value-level expression API: a Value carries its own width, and every
// arithmetic, bitwise, comparison, shift, and conditional operation here
// produces a new Value backed by the same underlying circuit.Builder.
//
// Two equivalent front-ends are provided on purpose: free functions
// (Add(p, a, b)) and Context methods (ctx.Add(a, b)). Both resolve to the
// identical underlying ops calls — Context is a thin facade, not a second
// implementation — so a translated front end is free to pick whichever
// calling convention its source language prefers.
package compose

import (
	"errors"

	"github.com/gateway-dao/gvm-go/circuit"
	"github.com/gateway-dao/gvm-go/circuit/ops"
)

// ErrWidthMismatch is panicked with when a binary operation receives two
// Values of different widths.
var ErrWidthMismatch = errors.New("compose: value width mismatch")

// Value is a width-tagged sequence of wires flowing through a Program. A
// width-1 Value (the result of a comparison) doubles as a select signal
// for Mux/If/Match.
type Value struct {
	width int
	wires []circuit.WireId
}

// Width returns the bit width of v.
func (v Value) Width() int { return v.width }

// Wires returns v's underlying wires, least-significant first.
func (v Value) Wires() []circuit.WireId { return v.wires }

// Bit returns v's single wire. Panics if v is not width 1.
func (v Value) Bit() circuit.WireId {
	if v.width != 1 {
		panic(ErrWidthMismatch)
	}
	return v.wires[0]
}

func checkWidths(a, b Value) {
	if a.width != b.width {
		panic(ErrWidthMismatch)
	}
}

func wrap(wires []circuit.WireId) Value {
	return Value{width: len(wires), wires: wires}
}

func bit(w circuit.WireId) Value {
	return Value{width: 1, wires: []circuit.WireId{w}}
}

// Program owns the circuit.Builder backing a composed expression tree.
type Program struct {
	b *circuit.Builder
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{b: circuit.NewBuilder()}
}

// Builder exposes the underlying gate builder for callers that need direct
// access (e.g. the MPC driver reading the finalized circuit).
func (p *Program) Builder() *circuit.Builder { return p.b }

// InputContrib allocates a width-N value owned by the contributor.
func (p *Program) InputContrib(width int) Value {
	w := make([]circuit.WireId, width)
	for i := range w {
		w[i] = p.b.PushInputContrib()
	}
	return wrap(w)
}

// InputEval allocates a width-N value owned by the evaluator.
func (p *Program) InputEval(width int) Value {
	w := make([]circuit.WireId, width)
	for i := range w {
		w[i] = p.b.PushInputEval()
	}
	return wrap(w)
}

// Const lowers a host-integer constant to a width-N value.
func (p *Program) Const(v uint64, width int) Value {
	return wrap(ops.Const(p.b, v, width))
}

// Finalize concatenates the wires of outputs, in order, into the program's
// output vector and consumes the underlying builder.
func (p *Program) Finalize(outputs ...Value) *circuit.Circuit {
	var all []circuit.WireId
	for _, v := range outputs {
		all = append(all, v.wires...)
	}
	return p.b.Finalize(all)
}

// ---- operator-level API -------------------------------------------------------

func Add(p *Program, a, b Value) Value { checkWidths(a, b); return wrap(ops.Add(p.b, a.wires, b.wires)) }
func Sub(p *Program, a, b Value) Value { checkWidths(a, b); return wrap(ops.Sub(p.b, a.wires, b.wires)) }
func Mul(p *Program, a, b Value) Value { checkWidths(a, b); return wrap(ops.Mul(p.b, a.wires, b.wires)) }
func Neg(p *Program, a Value) Value    { return wrap(ops.Neg(p.b, a.wires)) }

// Div is unsigned division; use DivSigned for the two's-complement variant.
func Div(p *Program, a, b Value) Value {
	checkWidths(a, b)
	q, _ := ops.DivRem(p.b, a.wires, b.wires)
	return wrap(q)
}

// Rem is unsigned remainder; use RemSigned for the two's-complement variant.
func Rem(p *Program, a, b Value) Value {
	checkWidths(a, b)
	_, r := ops.DivRem(p.b, a.wires, b.wires)
	return wrap(r)
}

// DivSigned is two's-complement signed division.
func DivSigned(p *Program, a, b Value) Value {
	checkWidths(a, b)
	q, _ := ops.SignedDivRem(p.b, a.wires, b.wires)
	return wrap(q)
}

// RemSigned is two's-complement signed remainder (sign of the dividend).
func RemSigned(p *Program, a, b Value) Value {
	checkWidths(a, b)
	_, r := ops.SignedDivRem(p.b, a.wires, b.wires)
	return wrap(r)
}

func And(p *Program, a, b Value) Value  { checkWidths(a, b); return wrap(ops.And(p.b, a.wires, b.wires)) }
func Or(p *Program, a, b Value) Value   { checkWidths(a, b); return wrap(ops.Or(p.b, a.wires, b.wires)) }
func Xor(p *Program, a, b Value) Value  { checkWidths(a, b); return wrap(ops.Xor(p.b, a.wires, b.wires)) }
func Nand(p *Program, a, b Value) Value { checkWidths(a, b); return wrap(ops.Nand(p.b, a.wires, b.wires)) }
func Nor(p *Program, a, b Value) Value  { checkWidths(a, b); return wrap(ops.Nor(p.b, a.wires, b.wires)) }
func Xnor(p *Program, a, b Value) Value { checkWidths(a, b); return wrap(ops.Xnor(p.b, a.wires, b.wires)) }
func Not(p *Program, a Value) Value     { return wrap(ops.Not(p.b, a.wires)) }

func Eq(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.Eq(p.b, a.wires, b.wires)) }
func Ne(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.Ne(p.b, a.wires, b.wires)) }

// Lt/Le/Gt/Ge are unsigned comparisons; use the *Signed variants for
// two's-complement ordering.
func Lt(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.LtUnsigned(p.b, a.wires, b.wires)) }
func Le(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.LeUnsigned(p.b, a.wires, b.wires)) }
func Gt(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.GtUnsigned(p.b, a.wires, b.wires)) }
func Ge(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.GeUnsigned(p.b, a.wires, b.wires)) }

func LtSigned(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.LtSigned(p.b, a.wires, b.wires)) }
func LeSigned(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.LeSigned(p.b, a.wires, b.wires)) }
func GtSigned(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.GtSigned(p.b, a.wires, b.wires)) }
func GeSigned(p *Program, a, b Value) Value { checkWidths(a, b); return bit(ops.GeSigned(p.b, a.wires, b.wires)) }

// Shl is a logical left shift by a compile-time constant.
func Shl(p *Program, a Value, k int) Value { return wrap(ops.ShlConst(p.b, a.wires, k)) }

// Shr is a logical (zero-filling) right shift by a compile-time constant.
func Shr(p *Program, a Value, k int) Value { return wrap(ops.ShrConst(p.b, a.wires, k)) }

// Sar is an arithmetic (sign-filling) right shift by a compile-time constant.
func Sar(p *Program, a Value, k int) Value { return wrap(ops.SarConst(p.b, a.wires, k)) }

// Mux selects a when sel = 1, b when sel = 0. sel must be width 1.
func Mux(p *Program, sel Value, a, b Value) Value {
	checkWidths(a, b)
	return wrap(ops.Mux(p.b, sel.Bit(), a.wires, b.wires))
}

// ---- conditional lowering ------------------------------------------------------

// If evaluates then and otherwise unconditionally and obliviously selects
// between them with Mux — there is no runtime branch, so both arms'
// sub-circuits are always fully built and evaluated.
func If(p *Program, cond Value, then, otherwise Value) Value {
	return Mux(p, cond, then, otherwise)
}

// IfElse is an alias for If kept for readability at call sites that prefer
// the two-branch name.
func IfElse(p *Program, cond Value, then, otherwise Value) Value {
	return If(p, cond, then, otherwise)
}

// Case is one arm of a Match: selected when the scrutinee equals When.
type Case struct {
	When Value
	Then Value
}

// Match lowers a multi-arm match/switch to a right-to-left nested mux
// chain: starting from the default, each case is folded in from the last
// to the first, so that the first matching case (in argument order) wins if more than
// one equality holds simultaneously. Every arm is evaluated unconditionally.
func Match(p *Program, scrutinee Value, cases []Case, def Value) Value {
	result := def
	for i := len(cases) - 1; i >= 0; i-- {
		c := cases[i]
		sel := Eq(p, scrutinee, c.When)
		result = Mux(p, sel, c.Then, result)
	}
	return result
}

// ---- Context facade -------------------------------------------------------------

// Context is a thin method-call wrapper over a *Program, aliasing every
// free function above so front ends that prefer an object-style call
// convention (ctx.Add(a, b)) and front ends that prefer free functions
// (compose.Add(p, a, b)) build the identical circuit.
type Context struct {
	P *Program
}

// NewContext wraps p in a Context facade.
func NewContext(p *Program) *Context { return &Context{P: p} }

func (c *Context) InputContrib(width int) Value { return c.P.InputContrib(width) }
func (c *Context) InputEval(width int) Value    { return c.P.InputEval(width) }
func (c *Context) Const(v uint64, width int) Value { return c.P.Const(v, width) }

func (c *Context) Add(a, b Value) Value { return Add(c.P, a, b) }
func (c *Context) Sub(a, b Value) Value { return Sub(c.P, a, b) }
func (c *Context) Mul(a, b Value) Value { return Mul(c.P, a, b) }
func (c *Context) Neg(a Value) Value    { return Neg(c.P, a) }
func (c *Context) Div(a, b Value) Value { return Div(c.P, a, b) }
func (c *Context) Rem(a, b Value) Value { return Rem(c.P, a, b) }
func (c *Context) DivSigned(a, b Value) Value { return DivSigned(c.P, a, b) }
func (c *Context) RemSigned(a, b Value) Value { return RemSigned(c.P, a, b) }

func (c *Context) And(a, b Value) Value  { return And(c.P, a, b) }
func (c *Context) Or(a, b Value) Value   { return Or(c.P, a, b) }
func (c *Context) Xor(a, b Value) Value  { return Xor(c.P, a, b) }
func (c *Context) Nand(a, b Value) Value { return Nand(c.P, a, b) }
func (c *Context) Nor(a, b Value) Value  { return Nor(c.P, a, b) }
func (c *Context) Xnor(a, b Value) Value { return Xnor(c.P, a, b) }
func (c *Context) Not(a Value) Value     { return Not(c.P, a) }

func (c *Context) Eq(a, b Value) Value { return Eq(c.P, a, b) }
func (c *Context) Ne(a, b Value) Value { return Ne(c.P, a, b) }
func (c *Context) Lt(a, b Value) Value { return Lt(c.P, a, b) }
func (c *Context) Le(a, b Value) Value { return Le(c.P, a, b) }
func (c *Context) Gt(a, b Value) Value { return Gt(c.P, a, b) }
func (c *Context) Ge(a, b Value) Value { return Ge(c.P, a, b) }
func (c *Context) LtSigned(a, b Value) Value { return LtSigned(c.P, a, b) }
func (c *Context) LeSigned(a, b Value) Value { return LeSigned(c.P, a, b) }
func (c *Context) GtSigned(a, b Value) Value { return GtSigned(c.P, a, b) }
func (c *Context) GeSigned(a, b Value) Value { return GeSigned(c.P, a, b) }

func (c *Context) Shl(a Value, k int) Value { return Shl(c.P, a, k) }
func (c *Context) Shr(a Value, k int) Value { return Shr(c.P, a, k) }
func (c *Context) Sar(a Value, k int) Value { return Sar(c.P, a, k) }

func (c *Context) Mux(sel Value, a, b Value) Value { return Mux(c.P, sel, a, b) }
func (c *Context) If(cond Value, then, otherwise Value) Value {
	return If(c.P, cond, then, otherwise)
}
func (c *Context) Match(scrutinee Value, cases []Case, def Value) Value {
	return Match(c.P, scrutinee, cases, def)
}

func (c *Context) Finalize(outputs ...Value) *circuit.Circuit { return c.P.Finalize(outputs...) }
