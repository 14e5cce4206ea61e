// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bignum

import (
	"math/rand"
	"testing"
)

func benchmarkOperands(width int) (a, b, n *Nat) {
	rng := rand.New(rand.NewSource(int64(width)))
	n = randomModulus(rng, width)
	return randomReduced(rng, n), randomReduced(rng, n), n
}

func BenchmarkModMul1024(b *testing.B) {
	x, y, n := benchmarkOperands(32)
	z := MustNew(32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		z.ModMul(x, y, n)
	}
}

func BenchmarkMontMul1024(b *testing.B) {
	x, y, n := benchmarkOperands(32)
	z := MustNew(32)
	nprime := negInverse(n.Word(0))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		z.MontMul(x, y, n, nprime)
	}
}

func BenchmarkMontMul2048(b *testing.B) {
	x, y, n := benchmarkOperands(64)
	z := MustNew(64)
	nprime := negInverse(n.Word(0))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		z.MontMul(x, y, n, nprime)
	}
}
