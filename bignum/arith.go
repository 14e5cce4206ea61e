// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bignum

import "math/bits"

// ModMul sets z = a*b mod n and returns z.
//
// The full double-width schoolbook product is accumulated with 64-bit
// intermediates, then reduced against n by shifting the product in from its
// most significant set bit and subtracting n for as long as the running
// remainder is at least n. a and b must be reduced modulo n. z may alias a or
// b. n must not be zero.
func (z *Nat) ModMul(a, b, n *Nat) *Nat {
	z.mustMatch(a)
	z.mustMatch(b)
	z.mustMatch(n)
	if n.IsZero() {
		panic("bignum: zero modulus")
	}

	w := z.width
	var prod [2 * MaxWords]uint64
	for i := 0; i < w; i++ {
		var carry uint64
		ai := uint64(a.words[i])
		for j := 0; j < w; j++ {
			t := prod[i+j] + ai*uint64(b.words[j]) + carry
			prod[i+j] = uint64(uint32(t))
			carry = t >> 32
		}
		prod[i+w] += carry
	}

	var p [2 * MaxWords]uint32
	for i := 0; i < 2*w; i++ {
		p[i] = uint32(prod[i])
	}

	// rem < n holds between steps, so one spare word absorbs the shift.
	var rem, mod [MaxWords + 1]uint32
	copy(mod[:w], n.words[:w])
	for i := bitLen(p[:2*w]) - 1; i >= 0; i-- {
		shiftInBit(rem[:w+1], (p[i/WordBits]>>(i%WordBits))&1)
		for cmpWords(rem[:w+1], mod[:w+1]) >= 0 {
			subWords(rem[:w+1], mod[:w+1])
		}
	}

	z.words = [MaxWords]uint32{}
	copy(z.words[:w], rem[:w])
	return z
}

// MontMul sets z = a*b*R^-1 mod n, with R = 2^(32*width), and returns z.
//
// nprime must be -n^-1 mod 2^32, which requires n to be odd. a and b must be
// reduced modulo n. z may alias a or b.
func (z *Nat) MontMul(a, b, n *Nat, nprime uint32) *Nat {
	z.mustMatch(a)
	z.mustMatch(b)
	z.mustMatch(n)

	w := z.width
	var t [MaxWords + 2]uint32
	for i := 0; i < w; i++ {
		bi := uint64(b.words[i])
		var c uint64
		for j := 0; j < w; j++ {
			s := uint64(t[j]) + uint64(a.words[j])*bi + c
			t[j] = uint32(s)
			c = s >> 32
		}
		s := uint64(t[w]) + c
		t[w] = uint32(s)
		t[w+1] = uint32(s >> 32)

		// m makes the low word vanish so the accumulator can shift by one word.
		m := uint64(t[0] * nprime)
		s = uint64(t[0]) + m*uint64(n.words[0])
		c = s >> 32
		for j := 1; j < w; j++ {
			s = uint64(t[j]) + m*uint64(n.words[j]) + c
			t[j-1] = uint32(s)
			c = s >> 32
		}
		s = uint64(t[w]) + c
		t[w-1] = uint32(s)
		t[w] = t[w+1] + uint32(s>>32)
	}

	// t < 2n here.
	if t[w] != 0 || cmpWords(t[:w], n.words[:w]) >= 0 {
		subWords(t[:w], n.words[:w])
	}

	z.words = [MaxWords]uint32{}
	copy(z.words[:w], t[:w])
	return z
}

// bitLen returns the index of the highest set bit of x plus one.
func bitLen(x []uint32) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return i*WordBits + bits.Len32(x[i])
		}
	}
	return 0
}

// shiftInBit computes x = x<<1 | bit.
func shiftInBit(x []uint32, bit uint32) {
	carry := bit
	for i := range x {
		next := x[i] >> (WordBits - 1)
		x[i] = x[i]<<1 | carry
		carry = next
	}
}
