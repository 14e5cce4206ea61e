// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"fmt"

	"github.com/luxfi/montbench/bignum"
)

var _ Bus = (*SimulatedDevice)(nil)

// SimulatedDevice is an in-memory accelerator. Writing ControlStart computes
// the Montgomery product of its A, B and N banks; the result is published and
// the done bit raised after Latency further status reads.
type SimulatedDevice struct {
	layout  Layout
	width   int
	latency int
	stuck   bool

	regs    []uint32
	busy    bool
	pending int
	result  *bignum.Nat

	starts      int
	statusReads int
	resultReads int
}

// NewSimulatedDevice returns a device computing on width-word operands.
func NewSimulatedDevice(width int, layout Layout, latency int, stuck bool) (*SimulatedDevice, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := checkWidth(width, Handle{}, layout); err != nil {
		return nil, err
	}
	if latency < 0 {
		return nil, fmt.Errorf("negative latency %d", latency)
	}
	return &SimulatedDevice{
		layout:  layout,
		width:   width,
		latency: latency,
		stuck:   stuck,
		regs:    make([]uint32, layout.Size()/4),
		result:  bignum.MustNew(width),
	}, nil
}

func (d *SimulatedDevice) Read32(off uint32) uint32 {
	switch {
	case off == d.layout.Status:
		d.statusReads++
		if d.busy && !d.stuck {
			if d.pending == 0 {
				d.complete()
			} else {
				d.pending--
			}
		}
	case d.inBank(d.layout.Result, off):
		d.resultReads++
	}
	return d.regs[d.index(off)]
}

func (d *SimulatedDevice) Write32(off, v uint32) {
	d.regs[d.index(off)] = v
	if off == d.layout.Control && v&ControlStart != 0 {
		d.start()
	}
}

func (*SimulatedDevice) Close() error {
	return nil
}

// Starts returns how many multiplies were started.
func (d *SimulatedDevice) Starts() int {
	return d.starts
}

// StatusReads returns how many times the status register was read.
func (d *SimulatedDevice) StatusReads() int {
	return d.statusReads
}

// ResultReads returns how many result bank words were read.
func (d *SimulatedDevice) ResultReads() int {
	return d.resultReads
}

func (d *SimulatedDevice) start() {
	d.starts++
	d.regs[d.index(d.layout.Status)] &^= StatusDone

	a := d.loadBank(d.layout.A)
	b := d.loadBank(d.layout.B)
	n := d.loadBank(d.layout.N)
	if n.IsZero() || n.Word(0)&1 == 0 {
		// Garbage in, garbage out: real hardware does not validate N.
		d.result.SetUint32(0)
	} else {
		d.result.MontMul(a, b, n, d.regs[d.index(d.layout.NPrime)])
	}

	d.busy = true
	d.pending = d.latency
}

func (d *SimulatedDevice) complete() {
	d.busy = false
	for i, w := range d.result.Words() {
		d.regs[d.index(d.layout.Result+uint32(i)*d.layout.Stride)] = w
	}
	d.regs[d.index(d.layout.Status)] |= StatusDone
}

func (d *SimulatedDevice) loadBank(base uint32) *bignum.Nat {
	z := bignum.MustNew(d.width)
	for i := 0; i < d.width; i++ {
		z.SetWord(i, d.regs[d.index(base+uint32(i)*d.layout.Stride)])
	}
	return z
}

func (d *SimulatedDevice) inBank(base, off uint32) bool {
	return off >= base && off < base+uint32(d.layout.BankWords)*d.layout.Stride
}

func (d *SimulatedDevice) index(off uint32) int {
	if off%4 != 0 || int(off/4) >= len(d.regs) {
		panic(fmt.Sprintf("simulated register access at invalid offset 0x%x", off))
	}
	return int(off / 4)
}
