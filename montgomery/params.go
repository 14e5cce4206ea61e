// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package montgomery derives the per-width constants needed for Montgomery
// multiplication: R^2 mod N and n' = -N^-1 mod 2^32.
//
// The derivation only looks at the least significant word of N. Moduli with
// any non-zero word above word 0 are rejected rather than silently producing
// wrong constants.
package montgomery

import (
	"errors"
	"fmt"

	"github.com/luxfi/montbench/bignum"
)

var (
	ErrEvenModulus = errors.New("modulus must be odd")
	ErrWideModulus = errors.New("modulus wider than one word is not supported")
)

// ModInverse32 returns n^-1 mod 2^32 using the extended Euclidean algorithm.
// n must be odd.
func ModInverse32(n uint32) uint32 {
	var (
		t, newT int64 = 0, 1
		r, newR int64 = 1 << 32, int64(n)
	)
	for newR != 0 {
		q := r / newR
		t, newT = newT, t-q*newT
		r, newR = newR, r-q*newR
	}
	if t < 0 {
		t += 1 << 32
	}
	return uint32(t)
}

// ComputeR2 returns R^2 mod n0 with R = 2^(32*width). R mod n0 is built by
// doubling 32*width times, then squared once.
func ComputeR2(n0 uint32, width int) uint32 {
	m := uint64(n0)
	r := uint64(1) % m
	for i := 0; i < bignum.WordBits*width; i++ {
		r = (r * 2) % m
	}
	return uint32((r * r) % m)
}

// Context holds the Montgomery constants for one modulus at one width. It is
// immutable once built; the Nats it hands out must not be modified.
type Context struct {
	width  int
	n      *bignum.Nat
	r2     *bignum.Nat
	nprime uint32
}

// NewContext derives the constants for n at n's width.
func NewContext(n *bignum.Nat) (*Context, error) {
	n0 := n.Word(0)
	if n0&1 == 0 {
		return nil, fmt.Errorf("%w: low word 0x%08x", ErrEvenModulus, n0)
	}
	for i := 1; i < n.Width(); i++ {
		if n.Word(i) != 0 {
			return nil, fmt.Errorf("%w: word %d is 0x%08x", ErrWideModulus, i, n.Word(i))
		}
	}

	r2 := bignum.MustNew(n.Width()).SetUint32(ComputeR2(n0, n.Width()))
	return &Context{
		width:  n.Width(),
		n:      n.Clone(),
		r2:     r2,
		nprime: 0 - ModInverse32(n0),
	}, nil
}

// ForModulus pads the single-word modulus n0 to width words and derives its
// constants.
func ForModulus(n0 uint32, width int) (*Context, error) {
	n, err := bignum.FromUint32(n0, width)
	if err != nil {
		return nil, err
	}
	return NewContext(n)
}

// Width returns the operand width in words.
func (c *Context) Width() int {
	return c.width
}

// N returns the modulus.
func (c *Context) N() *bignum.Nat {
	return c.n
}

// R2 returns R^2 mod N.
func (c *Context) R2() *bignum.Nat {
	return c.r2
}

// NPrime returns -N^-1 mod 2^32.
func (c *Context) NPrime() uint32 {
	return c.nprime
}

func (c *Context) String() string {
	return fmt.Sprintf("montgomery(width=%d, n=%s, r2=0x%08x, n'=0x%08x)", c.width, c.n, c.r2.Word(0), c.nprime)
}
