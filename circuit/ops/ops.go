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

// Package ops is the width-parametric primitive operation library: every
// bitwise, arithmetic, comparison, shift and multiplexer operation here is
// expressed using only the builder's Xor/And/Not gates, operating on
// equal-length WireId slices (least-significant wire first).
package ops

import (
	"errors"

	"github.com/gateway-dao/gvm-go/circuit"
)

// ErrWidthMismatch is panicked with when two operand vectors passed to a
// binary operation have different lengths.
var ErrWidthMismatch = errors.New("ops: operand width mismatch")

func checkWidth(a, x []circuit.WireId) {
	if len(a) != len(x) {
		panic(ErrWidthMismatch)
	}
}

// ---- single-bit gate algebra -------------------------------------------------

// OrBit computes a∨b as (a⊕b)⊕(a∧b).
func OrBit(b *circuit.Builder, a, x circuit.WireId) circuit.WireId {
	axorx := b.PushXor(a, x)
	aandx := b.PushAnd(a, x)
	return b.PushXor(axorx, aandx)
}

// NandBit computes ¬(a∧b).
func NandBit(b *circuit.Builder, a, x circuit.WireId) circuit.WireId {
	return b.PushNot(b.PushAnd(a, x))
}

// NorBit computes ¬(a∨b).
func NorBit(b *circuit.Builder, a, x circuit.WireId) circuit.WireId {
	return b.PushNot(OrBit(b, a, x))
}

// XnorBit computes ¬(a⊕b).
func XnorBit(b *circuit.Builder, a, x circuit.WireId) circuit.WireId {
	return b.PushNot(b.PushXor(a, x))
}

// ---- elementwise bitwise vector ops ------------------------------------------

// And computes the elementwise AND of two equal-width values.
func And(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = b.PushAnd(a[i], x[i])
	}
	return out
}

// Or computes the elementwise OR of two equal-width values.
func Or(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = OrBit(b, a[i], x[i])
	}
	return out
}

// Xor computes the elementwise XOR of two equal-width values.
func Xor(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = b.PushXor(a[i], x[i])
	}
	return out
}

// Not computes the elementwise complement of a value.
func Not(b *circuit.Builder, a []circuit.WireId) []circuit.WireId {
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = b.PushNot(a[i])
	}
	return out
}

// Nand computes the elementwise NAND of two equal-width values.
func Nand(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = NandBit(b, a[i], x[i])
	}
	return out
}

// Nor computes the elementwise NOR of two equal-width values.
func Nor(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = NorBit(b, a[i], x[i])
	}
	return out
}

// Xnor computes the elementwise XNOR of two equal-width values.
func Xnor(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = XnorBit(b, a[i], x[i])
	}
	return out
}

// AndScalar ANDs every wire of a vector with a single shared bit, used by
// Mul to mask a shifted partial product by one multiplier bit.
func AndScalar(b *circuit.Builder, a []circuit.WireId, scalar circuit.WireId) []circuit.WireId {
	out := make([]circuit.WireId, len(a))
	for i := range a {
		out[i] = b.PushAnd(a[i], scalar)
	}
	return out
}

// ZeroVec returns a width-N vector of const_zero wires.
func ZeroVec(b *circuit.Builder, width int) []circuit.WireId {
	z := b.ConstZero()
	out := make([]circuit.WireId, width)
	for i := range out {
		out[i] = z
	}
	return out
}

// OneVec returns a width-N vector encoding the constant 1 (bit 0 = one,
// every other bit = zero).
func OneVec(b *circuit.Builder, width int) []circuit.WireId {
	out := ZeroVec(b, width)
	if width > 0 {
		out[0] = b.ConstOne()
	}
	return out
}

// AllOnesVec returns a width-N vector of const_one wires.
func AllOnesVec(b *circuit.Builder, width int) []circuit.WireId {
	o := b.ConstOne()
	out := make([]circuit.WireId, width)
	for i := range out {
		out[i] = o
	}
	return out
}

// Const lowers a host-integer constant of the given width by emitting a
// value whose bit i is const_one() if the i-th bit of v is 1, else
// const_zero().
func Const(b *circuit.Builder, v uint64, width int) []circuit.WireId {
	zero := b.ConstZero()
	one := b.ConstOne()
	out := make([]circuit.WireId, width)
	for i := 0; i < width; i++ {
		if (v>>uint(i))&1 == 1 {
			out[i] = one
		} else {
			out[i] = zero
		}
	}
	return out
}

// ---- adder / subtractor core --------------------------------------------------

func fullAdder(b *circuit.Builder, a, x, cin circuit.WireId) (sum, cout circuit.WireId) {
	axorx := b.PushXor(a, x)
	sum = b.PushXor(axorx, cin)
	aandx := b.PushAnd(a, x)
	cinandaxorx := b.PushAnd(cin, axorx)
	cout = b.PushXor(aandx, cinandaxorx)
	return sum, cout
}

// RippleAdd is a ripple-carry adder with an explicit carry-in, returning the
// sum vector and the final carry-out.
func RippleAdd(b *circuit.Builder, a, x []circuit.WireId, cin circuit.WireId) ([]circuit.WireId, circuit.WireId) {
	checkWidth(a, x)
	sum := make([]circuit.WireId, len(a))
	carry := cin
	for i := range a {
		s, c := fullAdder(b, a[i], x[i], carry)
		sum[i] = s
		carry = c
	}
	return sum, carry
}

// Add computes (a + b) mod 2^N with a ripple-carry adder; the high-bit carry
// is discarded (wrapping semantics).
func Add(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	sum, _ := RippleAdd(b, a, x, b.ConstZero())
	return sum
}

// RippleSub computes a - x via two's-complement subtraction (a + ¬x + 1),
// returning the difference and the inverted carry-out (the borrow bit: 1
// iff a < x, unsigned).
func RippleSub(b *circuit.Builder, a, x []circuit.WireId) (diff []circuit.WireId, borrowOut circuit.WireId) {
	checkWidth(a, x)
	invX := Not(b, x)
	sum, cout := RippleAdd(b, a, invX, b.ConstOne())
	return sum, b.PushNot(cout)
}

// Sub computes (a - b) mod 2^N.
func Sub(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	diff, _ := RippleSub(b, a, x)
	return diff
}

// Neg computes two's-complement negation: invert all bits, then add 1.
func Neg(b *circuit.Builder, a []circuit.WireId) []circuit.WireId {
	inv := Not(b, a)
	sum, _ := RippleAdd(b, inv, ZeroVec(b, len(a)), b.ConstOne())
	return sum
}

// ---- multiplication ------------------------------------------------------------

// ShlConst is a logical left shift by a compile-time-constant amount,
// rewiring bit i -> bit i+k and filling low bits with const_zero().
func ShlConst(b *circuit.Builder, a []circuit.WireId, k int) []circuit.WireId {
	n := len(a)
	zero := b.ConstZero()
	out := make([]circuit.WireId, n)
	for i := 0; i < n; i++ {
		if i < k {
			out[i] = zero
		} else {
			out[i] = a[i-k]
		}
	}
	return out
}

// ShrConst is a logical right shift by a compile-time-constant amount,
// filling high bits with const_zero().
func ShrConst(b *circuit.Builder, a []circuit.WireId, k int) []circuit.WireId {
	n := len(a)
	zero := b.ConstZero()
	out := make([]circuit.WireId, n)
	for i := 0; i < n; i++ {
		if i+k < n {
			out[i] = a[i+k]
		} else {
			out[i] = zero
		}
	}
	return out
}

// SarConst is an arithmetic right shift by a compile-time-constant amount,
// filling high bits with the sign bit.
func SarConst(b *circuit.Builder, a []circuit.WireId, k int) []circuit.WireId {
	n := len(a)
	if n == 0 {
		return nil
	}
	sign := a[n-1]
	out := make([]circuit.WireId, n)
	for i := 0; i < n; i++ {
		if i+k < n {
			out[i] = a[i+k]
		} else {
			out[i] = sign
		}
	}
	return out
}

// Mul computes (a * b) mod 2^N by shift-and-add: for each multiplier bit
// b_i, mask a shifted by i with b_i, then sum the N partial products with
// the ripple adder.
func Mul(b *circuit.Builder, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	n := len(a)
	result := ZeroVec(b, n)
	for i := 0; i < n; i++ {
		shifted := ShlConst(b, a, i)
		masked := AndScalar(b, shifted, x[i])
		result = Add(b, result, masked)
	}
	return result
}

// ---- division / remainder (unsigned, restoring long division) ---------------

// Mux selects a when sel = 1, or x when sel = 0:
// result_i = (a_i ∧ sel) ⊕ (x_i ∧ ¬sel), equivalently x_i ⊕ (sel ∧ (a_i ⊕ x_i)).
// This is the single mechanism by which high-level if/match/conditional
// assignment is lowered to data-oblivious circuitry.
func Mux(b *circuit.Builder, sel circuit.WireId, a, x []circuit.WireId) []circuit.WireId {
	checkWidth(a, x)
	out := make([]circuit.WireId, len(a))
	for i := range a {
		axorx := b.PushXor(a[i], x[i])
		selandaxorx := b.PushAnd(sel, axorx)
		out[i] = b.PushXor(x[i], selandaxorx)
	}
	return out
}

// MuxBit is the single-wire specialization of Mux.
func MuxBit(b *circuit.Builder, sel, a, x circuit.WireId) circuit.WireId {
	axorx := b.PushXor(a, x)
	selandaxorx := b.PushAnd(sel, axorx)
	return b.PushXor(x, selandaxorx)
}

// DivRem computes unsigned quotient and remainder via restoring long
// division. For a divisor of zero it yields, per the division-by-zero
// convention: quotient = all-ones, remainder = dividend — computed
// obliviously via a final Mux rather than a runtime branch, so the circuit
// stays total.
func DivRem(b *circuit.Builder, dividend, divisor []circuit.WireId) (quotient, remainder []circuit.WireId) {
	checkWidth(dividend, divisor)
	n := len(dividend)

	// remainder register carries one guard bit above the N-bit width so the
	// shift-in-and-subtract step never silently drops information: the
	// restoring invariant keeps it < 2*divisor <= 2^(n+1)-2 at every step.
	rem := make([]circuit.WireId, n+1)
	zero := b.ConstZero()
	for i := range rem {
		rem[i] = zero
	}
	divisorExt := append(append([]circuit.WireId{}, divisor...), zero)

	quotient = make([]circuit.WireId, n)
	for i := n - 1; i >= 0; i-- {
		shifted := make([]circuit.WireId, n+1)
		shifted[0] = dividend[i]
		copy(shifted[1:], rem[:n])

		diff, borrowOut := RippleSub(b, shifted, divisorExt)
		qbit := b.PushNot(borrowOut)
		rem = Mux(b, qbit, diff, shifted)
		quotient[i] = qbit
	}
	remainder = rem[:n]

	isZeroDivisor := Eq(b, divisor, ZeroVec(b, n))
	quotient = Mux(b, isZeroDivisor, AllOnesVec(b, n), quotient)
	remainder = Mux(b, isZeroDivisor, dividend, remainder)
	return quotient, remainder
}

// SignedDivRem computes signed division and remainder by converting both
// operands to sign-magnitude, running the unsigned divider, and fixing up
// the sign of the results: the quotient is negative iff exactly one operand
// was negative, and the remainder takes the sign of the dividend.
func SignedDivRem(b *circuit.Builder, dividend, divisor []circuit.WireId) (quotient, remainder []circuit.WireId) {
	n := len(dividend)
	dividendNeg := dividend[n-1]
	divisorNeg := divisor[n-1]

	absDividend := Mux(b, dividendNeg, Neg(b, dividend), dividend)
	absDivisor := Mux(b, divisorNeg, Neg(b, divisor), divisor)

	uq, ur := DivRem(b, absDividend, absDivisor)

	quotientNeg := b.PushXor(dividendNeg, divisorNeg)
	quotient = Mux(b, quotientNeg, Neg(b, uq), uq)
	remainder = Mux(b, dividendNeg, Neg(b, ur), ur)
	return quotient, remainder
}

// ---- comparison ----------------------------------------------------------------

// Eq computes a single-bit equality flag: ¬(⋁ᵢ (aᵢ ⊕ bᵢ)).
func Eq(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	checkWidth(a, x)
	diffs := Xor(b, a, x)
	acc := diffs[0]
	for i := 1; i < len(diffs); i++ {
		acc = OrBit(b, acc, diffs[i])
	}
	return b.PushNot(acc)
}

// Ne computes inequality as ¬Eq.
func Ne(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return b.PushNot(Eq(b, a, x))
}

// LtUnsigned reports a < b by running the subtractor and taking the
// inverted carry-out (the borrow bit).
func LtUnsigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	_, borrowOut := RippleSub(b, a, x)
	return borrowOut
}

// LeUnsigned computes a <= b as Lt(a,b) ∨ Eq(a,b).
func LeUnsigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return OrBit(b, LtUnsigned(b, a, x), Eq(b, a, x))
}

// GtUnsigned computes a > b as Lt(b,a).
func GtUnsigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return LtUnsigned(b, x, a)
}

// GeUnsigned computes a >= b as ¬Lt(a,b).
func GeUnsigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return b.PushNot(LtUnsigned(b, a, x))
}

// flipSign complements the top (sign) bit of a value, converting between
// the signed and unsigned orderings of the same bit pattern.
func flipSign(b *circuit.Builder, a []circuit.WireId) []circuit.WireId {
	n := len(a)
	out := make([]circuit.WireId, n)
	copy(out, a)
	out[n-1] = b.PushNot(a[n-1])
	return out
}

// LtSigned reports a < b, two's-complement, by flipping both sign bits and
// delegating to the unsigned comparator.
func LtSigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return LtUnsigned(b, flipSign(b, a), flipSign(b, x))
}

// LeSigned computes signed a <= b.
func LeSigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return LeUnsigned(b, flipSign(b, a), flipSign(b, x))
}

// GtSigned computes signed a > b.
func GtSigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return GtUnsigned(b, flipSign(b, a), flipSign(b, x))
}

// GeSigned computes signed a >= b.
func GeSigned(b *circuit.Builder, a, x []circuit.WireId) circuit.WireId {
	return GeUnsigned(b, flipSign(b, a), flipSign(b, x))
}
