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

package bitvector

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripUnsigned(t *testing.T) {
	widths := []int{8, 16, 32, 64}
	values := []uint64{0, 1, 2, 255, 65535, 1<<32 - 1, 1<<64 - 1}
	for _, w := range widths {
		for _, v := range values {
			mod := v
			if w < 64 {
				mod = v % (uint64(1) << uint(w))
			}
			bv, err := FromUint64(mod, w)
			require.NoError(t, err)
			got, err := ToUint64(bv)
			require.NoError(t, err)
			assert.Equal(t, mod, got)
		}
	}
}

func TestSignedRoundTripMinus2(t *testing.T) {
	bv, err := FromInt64(-2, 8)
	require.NoError(t, err)
	// 11111110
	expect := []uint8{0, 1, 1, 1, 1, 1, 1, 1}
	assert.Equal(t, expect, bv.Bits())

	got, err := ToInt64(bv)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), got)
}

func TestSignedRoundTripMinus21845(t *testing.T) {
	bv, err := FromInt64(-21845, 16)
	require.NoError(t, err)
	got, err := ToInt64(bv)
	require.NoError(t, err)
	assert.Equal(t, int64(-21845), got)
}

func TestUnsignedToSignedReinterpret(t *testing.T) {
	bv, err := FromUint64(170, 8) // 10101010
	require.NoError(t, err)
	signed, err := ToInt64(bv)
	require.NoError(t, err)
	assert.Equal(t, int64(-86), signed)
}

func TestU8MaxRoundTrip(t *testing.T) {
	bv, err := FromUint64(255, 8)
	require.NoError(t, err)
	got, err := ToUint64(bv)
	require.NoError(t, err)
	assert.Equal(t, uint64(255), got)
}

func TestWidenAndNarrow(t *testing.T) {
	bv, err := FromUint64(0xAB, 8)
	require.NoError(t, err)

	widened, err := WidenUnsigned(bv, 16)
	require.NoError(t, err)
	got, err := ToUint64(widened)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB), got)

	signedBv, err := FromInt64(-2, 8)
	require.NoError(t, err)
	signedWidened, err := WidenSigned(signedBv, 16)
	require.NoError(t, err)
	gotSigned, err := ToInt64(signedWidened)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), gotSigned)

	narrowed, err := Narrow(widened, 8)
	require.NoError(t, err)
	assert.True(t, narrowed.Equal(bv))
}

func TestBigIntRoundTrip128(t *testing.T) {
	v, ok := new(big.Int).SetString("-6148914691236517205", 10)
	require.True(t, ok)
	bv := FromBigInt(v, 128)
	got := ToBigIntSigned(bv)
	assert.Equal(t, v, got)
}

func TestEqualAndClone(t *testing.T) {
	a, _ := FromUint64(42, 8)
	b := a.Clone()
	assert.True(t, a.Equal(b))
	b.SetBit(0, 1-b.Bit(0))
	assert.False(t, a.Equal(b))
}

func TestHostRangeError(t *testing.T) {
	_, err := FromUint64(1, 128)
	assert.Equal(t, ErrHostRange, err)
}

func TestInvalidBit(t *testing.T) {
	_, err := FromBits([]uint8{0, 1, 2})
	assert.Equal(t, ErrInvalidBit, err)
}
