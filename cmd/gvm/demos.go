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

package main

import (
	"fmt"

	"github.com/gateway-dao/gvm-go/circuit"
	"github.com/gateway-dao/gvm-go/compose"
)

// demo names one compiled circuit the CLI knows how to build, run, and
// digest. outputFields counts the number of width-sized fields packed into
// the circuit's output vector, in order, so run can decode each separately
// (every demo has one except divmod, which reports a quotient and a
// remainder).
type demo struct {
	build        func(width int) *circuit.Circuit
	outputFields int
}

var demos = map[string]demo{
	"wrap-add":      {build: buildWrapAdd, outputFields: 1},
	"cond-mul-add":  {build: buildCondMulAdd, outputFields: 1},
	"nested-branch": {build: buildNestedBranch, outputFields: 1},
	"match-demo":    {build: buildMatchDemo, outputFields: 1},
	"divmod":        {build: buildDivMod, outputFields: 2},
	"precedence":    {build: buildPrecedence, outputFields: 1},
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for n := range demos {
		names = append(names, n)
	}
	return names
}

// buildWrapAdd computes contrib + eval, wrapping modulo 2^width on overflow.
func buildWrapAdd(width int) *circuit.Circuit {
	p := compose.NewProgram()
	a := p.InputContrib(width)
	b := p.InputEval(width)
	out := compose.Add(p, a, b)
	return p.Finalize(out)
}

// buildCondMulAdd computes a*b when a==b, a+b otherwise, entirely
// branchlessly: both arms are always built and evaluated.
func buildCondMulAdd(width int) *circuit.Circuit {
	p := compose.NewProgram()
	a := p.InputContrib(width)
	b := p.InputEval(width)
	eq := compose.Eq(p, a, b)
	out := compose.If(p, eq, compose.Mul(p, a, b), compose.Add(p, a, b))
	return p.Finalize(out)
}

// buildNestedBranch mirrors a three-way nested conditional:
//
//	if a < b      { a + 1 }
//	else if a > b { a + 2 }
//	else          { a + 3 }
func buildNestedBranch(width int) *circuit.Circuit {
	p := compose.NewProgram()
	a := p.InputContrib(width)
	b := p.InputEval(width)

	lt := compose.Lt(p, a, b)
	gt := compose.Gt(p, a, b)

	one := p.Const(1, width)
	two := p.Const(2, width)
	three := p.Const(3, width)

	eqArm := compose.Add(p, a, three)
	gtArm := compose.If(p, gt, compose.Add(p, a, two), eqArm)
	out := compose.If(p, lt, compose.Add(p, a, one), gtArm)
	return p.Finalize(out)
}

// buildMatchDemo matches the contributor's value against 1..4, selecting a
// fixed offset for each case and falling back to 0, then adds the
// evaluator's value to the matched offset so both parties' inputs flow
// into the result.
func buildMatchDemo(width int) *circuit.Circuit {
	p := compose.NewProgram()
	a := p.InputContrib(width)
	b := p.InputEval(width)

	cases := []compose.Case{
		{When: p.Const(1, width), Then: p.Const(7, width)},
		{When: p.Const(2, width), Then: p.Const(8, width)},
		{When: p.Const(3, width), Then: p.Const(9, width)},
		{When: p.Const(4, width), Then: p.Const(10, width)},
	}
	matched := compose.Match(p, a, cases, p.Const(0, width))
	out := compose.Add(p, matched, b)
	return p.Finalize(out)
}

// buildDivMod computes the unsigned quotient and remainder of contrib/eval,
// concatenated quotient-then-remainder in the output vector.
func buildDivMod(width int) *circuit.Circuit {
	p := compose.NewProgram()
	a := p.InputContrib(width)
	b := p.InputEval(width)
	q := compose.Div(p, a, b)
	r := compose.Rem(p, a, b)
	return p.Finalize(q, r)
}

// buildPrecedence computes a + b*width, demonstrating that Mul binds
// tighter than Add when composed expressions are built bottom-up.
func buildPrecedence(width int) *circuit.Circuit {
	p := compose.NewProgram()
	a := p.InputContrib(width)
	b := p.InputEval(width)
	k := p.Const(uint64(width), width)
	out := compose.Add(p, a, compose.Mul(p, b, k))
	return p.Finalize(out)
}

func lookupDemo(name string) (demo, error) {
	d, ok := demos[name]
	if !ok {
		return demo{}, fmt.Errorf("unknown demo function %q (known: %v)", name, demoNames())
	}
	return d, nil
}
