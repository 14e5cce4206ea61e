// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modexp

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// ToyModulus is 61 * 53.
	ToyModulus uint32 = 3233
	// ToyMessage is the plaintext used by the benchmark.
	ToyMessage uint32 = 42
)

var (
	ErrExponentBits = errors.New("exponent bit count out of range")
	ErrExponentSize = errors.New("exponent has bits above its declared length")
	ErrModulus      = errors.New("invalid modulus")
	ErrMessage      = errors.New("message not reduced")
)

// ExponentSpec is an exponent together with the number of its bits the
// ladder walks, least significant first.
type ExponentSpec struct {
	Value uint32 `json:"value"`
	Bits  int    `json:"bits"`
}

// NewExponent returns the exponent covering exactly the significant bits of v.
func NewExponent(v uint32) ExponentSpec {
	return ExponentSpec{
		Value: v,
		Bits:  max(bits.Len32(v), 1),
	}
}

func (e ExponentSpec) Verify() error {
	if e.Bits < 1 || e.Bits > 32 {
		return fmt.Errorf("%w: %d", ErrExponentBits, e.Bits)
	}
	if e.Bits < 32 && e.Value>>e.Bits != 0 {
		return fmt.Errorf("%w: %d does not fit in %d bits", ErrExponentSize, e.Value, e.Bits)
	}
	return nil
}

// Keypair is a single-word RSA key.
type Keypair struct {
	N uint32       `json:"n"`
	E ExponentSpec `json:"e"`
	D ExponentSpec `json:"d"`
}

// ToyKeypair returns the textbook key N = 3233, e = 17, d = 2753.
func ToyKeypair() Keypair {
	return Keypair{
		N: ToyModulus,
		E: ExponentSpec{Value: 17, Bits: 5},
		D: ExponentSpec{Value: 2753, Bits: 12},
	}
}

func (k Keypair) Verify() error {
	if k.N < 3 || k.N&1 == 0 {
		return fmt.Errorf("%w: %d must be odd and at least 3", ErrModulus, k.N)
	}
	if err := k.E.Verify(); err != nil {
		return fmt.Errorf("public exponent: %w", err)
	}
	if err := k.D.Verify(); err != nil {
		return fmt.Errorf("private exponent: %w", err)
	}
	return nil
}

// VerifyMessage checks that m can be encrypted under k.
func (k Keypair) VerifyMessage(m uint32) error {
	if m >= k.N {
		return fmt.Errorf("%w: %d >= %d", ErrMessage, m, k.N)
	}
	return nil
}
