// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modexp

import (
	"github.com/luxfi/montbench/accel"
	"github.com/luxfi/montbench/bignum"
	"github.com/luxfi/montbench/montgomery"
)

var (
	_ Multiplier = (*hardware)(nil)
	_ Multiplier = (*software)(nil)
)

// Multiplier computes dst = x*y*R^-1 mod N for the modulus it was built for.
// dst may alias x or y.
type Multiplier interface {
	Mul(dst, x, y *bignum.Nat) error
}

type hardware struct {
	port accel.Port
	ctx  *montgomery.Context
}

// NewHardware returns a Multiplier that runs every product on port.
func NewHardware(port accel.Port, ctx *montgomery.Context) Multiplier {
	return &hardware{
		port: port,
		ctx:  ctx,
	}
}

func (h *hardware) Mul(dst, x, y *bignum.Nat) error {
	return h.port.Invoke(dst, x, y, h.ctx.N(), h.ctx.NPrime())
}

type software struct {
	ctx *montgomery.Context
}

// NewSoftware returns a Multiplier computing CIOS Montgomery products on the
// CPU.
func NewSoftware(ctx *montgomery.Context) Multiplier {
	return &software{ctx: ctx}
}

func (s *software) Mul(dst, x, y *bignum.Nat) error {
	dst.MontMul(x, y, s.ctx.N(), s.ctx.NPrime())
	return nil
}
