// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modexp computes base^e mod N by right-to-left square-and-multiply
// over a pluggable modular multiplier.
package modexp

import (
	"fmt"

	"github.com/luxfi/montbench/bignum"
	"github.com/luxfi/montbench/montgomery"
)

var (
	_ Exponentiator = (*montgomeryExp)(nil)
	_ Exponentiator = (*schoolbookExp)(nil)
)

// Exponentiator sets dst = base^exp mod N. base must be reduced modulo N and
// have N's width. dst may alias base.
type Exponentiator interface {
	Exp(dst, base *bignum.Nat, exp ExponentSpec) error
}

type montgomeryExp struct {
	mul Multiplier
	ctx *montgomery.Context
	one *bignum.Nat

	x *bignum.Nat
	a *bignum.Nat
}

// NewMontgomery returns an Exponentiator that works in the Montgomery domain
// of ctx, delegating every product to mul. The returned value keeps scratch
// space and must not be used concurrently.
func NewMontgomery(mul Multiplier, ctx *montgomery.Context) Exponentiator {
	w := ctx.Width()
	return &montgomeryExp{
		mul: mul,
		ctx: ctx,
		one: bignum.MustNew(w).SetUint32(1),
		x:   bignum.MustNew(w),
		a:   bignum.MustNew(w),
	}
}

func (m *montgomeryExp) Exp(dst, base *bignum.Nat, exp ExponentSpec) error {
	if err := verifyOperands(m.ctx.Width(), dst, base, exp); err != nil {
		return err
	}

	// x = 1*R mod N, a = base*R mod N
	if err := m.mul.Mul(m.x, m.one, m.ctx.R2()); err != nil {
		return fmt.Errorf("entering montgomery domain: %w", err)
	}
	if err := m.mul.Mul(m.a, base, m.ctx.R2()); err != nil {
		return fmt.Errorf("entering montgomery domain: %w", err)
	}

	for i := 0; i < exp.Bits; i++ {
		if exp.Value>>i&1 == 1 {
			if err := m.mul.Mul(m.x, m.x, m.a); err != nil {
				return fmt.Errorf("multiply at exponent bit %d: %w", i, err)
			}
		}
		if err := m.mul.Mul(m.a, m.a, m.a); err != nil {
			return fmt.Errorf("square at exponent bit %d: %w", i, err)
		}
	}

	if err := m.mul.Mul(dst, m.x, m.one); err != nil {
		return fmt.Errorf("leaving montgomery domain: %w", err)
	}
	return nil
}

type schoolbookExp struct {
	n *bignum.Nat
	x *bignum.Nat
	a *bignum.Nat
}

// NewSchoolbook returns an Exponentiator doing plain modular products with
// long-division reduction, without entering the Montgomery domain.
func NewSchoolbook(n *bignum.Nat) Exponentiator {
	return &schoolbookExp{
		n: n.Clone(),
		x: bignum.MustNew(n.Width()),
		a: bignum.MustNew(n.Width()),
	}
}

func (s *schoolbookExp) Exp(dst, base *bignum.Nat, exp ExponentSpec) error {
	if err := verifyOperands(s.n.Width(), dst, base, exp); err != nil {
		return err
	}

	s.x.SetUint32(1)
	s.a.Set(base)
	for i := 0; i < exp.Bits; i++ {
		if exp.Value>>i&1 == 1 {
			s.x.ModMul(s.x, s.a, s.n)
		}
		s.a.ModMul(s.a, s.a, s.n)
	}
	dst.Set(s.x)
	return nil
}

func verifyOperands(width int, dst, base *bignum.Nat, exp ExponentSpec) error {
	if dst.Width() != width || base.Width() != width {
		return fmt.Errorf("%w: operands of %d and %d words for a %d word modulus",
			bignum.ErrWidth, dst.Width(), base.Width(), width)
	}
	return exp.Verify()
}
