// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package montgomery

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/montbench/bignum"
)

func TestModInverse32(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	inputs := []uint32{1, 3, 3233, 0x7FFFFFFF, 0xFFFFFFFF, 0x80000001}
	for i := 0; i < 1000; i++ {
		inputs = append(inputs, rng.Uint32()|1)
	}

	for _, n := range inputs {
		require.Equal(t, uint32(1), ModInverse32(n)*n, "n = %d", n)
	}
}

func TestComputeR2MatchesBig(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	moduli := []uint32{1, 3, 3233, 0xFFFFFFFF}
	for i := 0; i < 16; i++ {
		moduli = append(moduli, rng.Uint32()|1)
	}

	for _, width := range []int{1, 2, 32, 64} {
		for _, n0 := range moduli {
			r := new(big.Int).Lsh(big.NewInt(1), uint(32*width))
			expected := new(big.Int).Mul(r, r)
			expected.Mod(expected, new(big.Int).SetUint64(uint64(n0)))

			require.Equal(t, expected.Uint64(), uint64(ComputeR2(n0, width)), "n0 %d width %d", n0, width)
		}
	}
}

func TestNewContextToyKey(t *testing.T) {
	require := require.New(t)

	for _, width := range []int{32, 64} {
		ctx, err := ForModulus(3233, width)
		require.NoError(err)

		require.Equal(width, ctx.Width())
		require.Equal(uint32(3233), ctx.N().Word(0))
		require.Equal(uint32(0xFFFFFFFF), ctx.NPrime()*3233, "n' must be -n^-1")
		require.Equal(ComputeR2(3233, width), ctx.R2().Word(0))
		for i := 1; i < width; i++ {
			require.Zero(ctx.R2().Word(i))
		}
	}
}

func TestNewContextCopiesModulus(t *testing.T) {
	require := require.New(t)

	n := bignum.MustNew(2).SetUint32(3233)
	ctx, err := NewContext(n)
	require.NoError(err)

	n.SetUint32(7)
	require.Equal(uint32(3233), ctx.N().Word(0))
}

func TestNewContextErrors(t *testing.T) {
	tests := []struct {
		name        string
		n           *bignum.Nat
		expectedErr error
	}{
		{
			name:        "even",
			n:           bignum.MustNew(4).SetUint32(3232),
			expectedErr: ErrEvenModulus,
		},
		{
			name:        "zero",
			n:           bignum.MustNew(4),
			expectedErr: ErrEvenModulus,
		},
		{
			name: "wide",
			n: func() *bignum.Nat {
				n := bignum.MustNew(4).SetUint32(3233)
				n.SetWord(3, 1)
				return n
			}(),
			expectedErr: ErrWideModulus,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewContext(test.n)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestForModulusWidth(t *testing.T) {
	_, err := ForModulus(3233, bignum.MaxWords+1)
	require.ErrorIs(t, err, bignum.ErrWidth)
}

func TestMontgomeryRoundTrip(t *testing.T) {
	require := require.New(t)

	ctx, err := ForModulus(3233, 32)
	require.NoError(err)

	one := bignum.MustNew(32).SetUint32(1)
	x := bignum.MustNew(32).SetUint32(42)

	// Entering and leaving the domain must give the value back.
	mont := bignum.MustNew(32).MontMul(x, ctx.R2(), ctx.N(), ctx.NPrime())
	back := bignum.MustNew(32).MontMul(mont, one, ctx.N(), ctx.NPrime())
	require.True(back.Equal(x))
}
