// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"fmt"

	"github.com/luxfi/log"

	"github.com/luxfi/montbench/bignum"
)

// Bus gives 32-bit access to a register window. Offsets are bytes from the
// window base.
type Bus interface {
	Read32(off uint32) uint32
	Write32(off, v uint32)
	Close() error
}

// Port performs one Montgomery multiplication dst = a*b*R^-1 mod n on an
// accelerator instance.
type Port interface {
	Handle() Handle
	Invoke(dst, a, b, n *bignum.Nat, nprime uint32) error
}

var _ Port = (*RegisterPort)(nil)

// RegisterPort drives the accelerator's register protocol over a Bus.
// It is not safe for concurrent use.
type RegisterPort struct {
	bus      Bus
	layout   Layout
	handle   Handle
	maxPolls uint64
	log      log.Logger
}

// NewRegisterPort returns a port for handle speaking over bus.
func NewRegisterPort(bus Bus, handle Handle, config Config, logger log.Logger) (*RegisterPort, error) {
	if err := config.Layout.Validate(); err != nil {
		return nil, err
	}
	if config.MaxPolls == 0 {
		return nil, fmt.Errorf("max polls must be positive for %s", handle)
	}
	return &RegisterPort{
		bus:      bus,
		layout:   config.Layout,
		handle:   handle,
		maxPolls: config.MaxPolls,
		log:      logger,
	}, nil
}

func (p *RegisterPort) Handle() Handle {
	return p.handle
}

// Invoke loads the operands, starts the multiply and busy-waits for the done
// bit. On timeout the result bank is left unread and dst is unchanged.
func (p *RegisterPort) Invoke(dst, a, b, n *bignum.Nat, nprime uint32) error {
	width := a.Width()
	if b.Width() != width || n.Width() != width || dst.Width() != width {
		return fmt.Errorf("%w: mixed operand widths %d/%d/%d/%d",
			ErrWidth, dst.Width(), a.Width(), b.Width(), n.Width())
	}
	if err := checkWidth(width, p.handle, p.layout); err != nil {
		return err
	}

	aw, bw, nw := a.Words(), b.Words(), n.Words()
	for i := 0; i < width; i++ {
		off := uint32(i) * p.layout.Stride
		p.bus.Write32(p.layout.A+off, aw[i])
		p.bus.Write32(p.layout.B+off, bw[i])
		p.bus.Write32(p.layout.N+off, nw[i])
	}
	p.bus.Write32(p.layout.NPrime, nprime)
	p.bus.Write32(p.layout.Control, ControlStart)

	var polls uint64
	for p.bus.Read32(p.layout.Status)&StatusDone == 0 {
		polls++
		if polls > p.maxPolls {
			p.log.Error("accelerator did not complete",
				log.Stringer("handle", p.handle),
				log.Uint64("polls", polls),
			)
			return &TimeoutError{Handle: p.handle, Polls: polls}
		}
	}

	dw := dst.Words()
	for i := 0; i < width; i++ {
		dw[i] = p.bus.Read32(p.layout.Result + uint32(i)*p.layout.Stride)
	}
	return nil
}

// Close releases the underlying bus.
func (p *RegisterPort) Close() error {
	return p.bus.Close()
}
