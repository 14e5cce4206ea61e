// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bignum implements fixed-width natural numbers made of 32-bit words.
//
// A Nat has a declared width (in words) and a fixed backing capacity of
// MaxWords words. Words are little-endian by index: word 0 is the least
// significant. Words at or above the width are always zero.
package bignum

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	// WordBits is the number of bits held by a single word.
	WordBits = 32
	// MaxWords is the largest supported width (2048 bits).
	MaxWords = 64
)

var (
	ErrWidth    = errors.New("unsupported width")
	ErrOverflow = errors.New("value does not fit in width")
)

// Nat is a fixed-width natural number.
type Nat struct {
	width int
	words [MaxWords]uint32
}

// New returns a zero Nat of the given width in words.
func New(width int) (*Nat, error) {
	if err := CheckWidth(width); err != nil {
		return nil, err
	}
	return &Nat{width: width}, nil
}

// MustNew is like New but panics on an unsupported width.
func MustNew(width int) *Nat {
	z, err := New(width)
	if err != nil {
		panic(err)
	}
	return z
}

// FromUint32 returns a Nat of the given width holding v.
func FromUint32(v uint32, width int) (*Nat, error) {
	z, err := New(width)
	if err != nil {
		return nil, err
	}
	return z.SetUint32(v), nil
}

// CheckWidth returns ErrWidth if width is not in [1, MaxWords].
func CheckWidth(width int) error {
	if width < 1 || width > MaxWords {
		return fmt.Errorf("%w: %d words (supported 1..%d)", ErrWidth, width, MaxWords)
	}
	return nil
}

// Width returns the number of words of z.
func (z *Nat) Width() int {
	return z.width
}

// Bits returns the bit width of z.
func (z *Nat) Bits() int {
	return z.width * WordBits
}

// Word returns the i'th word of z.
func (z *Nat) Word(i int) uint32 {
	z.checkIndex(i)
	return z.words[i]
}

// SetWord sets the i'th word of z to v.
func (z *Nat) SetWord(i int, v uint32) {
	z.checkIndex(i)
	z.words[i] = v
}

// Words returns the words of z as a slice sharing z's storage.
func (z *Nat) Words() []uint32 {
	return z.words[:z.width]
}

// Set copies x into z. Both must have the same width.
func (z *Nat) Set(x *Nat) *Nat {
	z.mustMatch(x)
	z.words = x.words
	return z
}

// Clone returns a copy of z.
func (z *Nat) Clone() *Nat {
	c := *z
	return &c
}

// SetUint32 sets the low word of z to v and clears the rest.
func (z *Nat) SetUint32(v uint32) *Nat {
	z.words = [MaxWords]uint32{}
	z.words[0] = v
	return z
}

// Equal reports whether z and x hold the same words.
func (z *Nat) Equal(x *Nat) bool {
	z.mustMatch(x)
	for i := 0; i < z.width; i++ {
		if z.words[i] != x.words[i] {
			return false
		}
	}
	return true
}

// Cmp compares z and x most significant word first and returns -1, 0 or +1.
func (z *Nat) Cmp(x *Nat) int {
	z.mustMatch(x)
	return cmpWords(z.words[:z.width], x.words[:z.width])
}

// IsZero reports whether z is zero.
func (z *Nat) IsZero() bool {
	for _, w := range z.words[:z.width] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Prefix renders the first n words of z (least significant first) as
// space separated hex, the layout used by debug dumps.
func (z *Nat) Prefix(n int) string {
	n = min(n, z.width)
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%08x", z.words[i])
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer using the decimal value of z.
func (z *Nat) String() string {
	return z.Big().String()
}

// Big returns the value of z as a big.Int.
func (z *Nat) Big() *big.Int {
	b := make([]byte, 4*z.width)
	for i := 0; i < z.width; i++ {
		w := z.words[i]
		off := len(b) - 4*(i+1)
		b[off] = byte(w >> 24)
		b[off+1] = byte(w >> 16)
		b[off+2] = byte(w >> 8)
		b[off+3] = byte(w)
	}
	return new(big.Int).SetBytes(b)
}

// SetBig sets z to x. It returns ErrOverflow if x is negative or does not fit
// in the width of z.
func (z *Nat) SetBig(x *big.Int) (*Nat, error) {
	if x.Sign() < 0 || x.BitLen() > z.Bits() {
		return nil, fmt.Errorf("%w: %d bits into %d", ErrOverflow, x.BitLen(), z.Bits())
	}
	b := x.FillBytes(make([]byte, 4*z.width))
	z.words = [MaxWords]uint32{}
	for i := 0; i < z.width; i++ {
		off := len(b) - 4*(i+1)
		z.words[i] = uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3])
	}
	return z, nil
}

func (z *Nat) checkIndex(i int) {
	if i < 0 || i >= z.width {
		panic(fmt.Sprintf("bignum: word index %d out of range for width %d", i, z.width))
	}
}

func (z *Nat) mustMatch(x *Nat) {
	if z.width != x.width {
		panic(fmt.Sprintf("bignum: width mismatch %d != %d", z.width, x.width))
	}
}

// cmpWords compares two equal length little-endian word slices.
func cmpWords(x, y []uint32) int {
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] > y[i]:
			return 1
		case x[i] < y[i]:
			return -1
		}
	}
	return 0
}

// subWords computes x -= y in place and returns the final borrow.
func subWords(x, y []uint32) uint32 {
	var borrow uint64
	for i := range x {
		t := uint64(x[i]) - uint64(y[i]) - borrow
		x[i] = uint32(t)
		borrow = (t >> 63) & 1
	}
	return uint32(borrow)
}
