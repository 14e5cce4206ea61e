// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timer

var _ TickSource = (*GlobalTimer)(nil)

const (
	// GlobalTimerBase is the physical address of the Cortex-A9 MPCore global
	// timer on Zynq-7000 devices.
	GlobalTimerBase uint32 = 0xF8F00200
	// GlobalTimerFrequency is the global timer rate with the CPU at 1.3 GHz.
	GlobalTimerFrequency uint64 = 650_000_000
	// GlobalTimerWindow is the number of register bytes the timer needs mapped.
	GlobalTimerWindow uint32 = 0x0C

	counterLow    uint32 = 0x00
	counterHigh   uint32 = 0x04
	control       uint32 = 0x08
	controlEnable uint32 = 1
)

// Registers gives 32-bit access to a register window.
type Registers interface {
	Read32(off uint32) uint32
	Write32(off, v uint32)
}

// GlobalTimer reads a 64-bit counter exposed as two 32-bit registers.
type GlobalTimer struct {
	regs Registers
	freq uint64
}

func NewGlobalTimer(regs Registers, freq uint64) *GlobalTimer {
	return &GlobalTimer{
		regs: regs,
		freq: freq,
	}
}

// Enable sets the timer enable bit, leaving the other control bits alone.
func (g *GlobalTimer) Enable() {
	g.regs.Write32(control, g.regs.Read32(control)|controlEnable)
}

// Ticks reads the counter. The high half is read on both sides of the low half
// and the read is retried until they agree, so a carry between the halves
// cannot produce a torn value.
func (g *GlobalTimer) Ticks() uint64 {
	for {
		hi := g.regs.Read32(counterHigh)
		lo := g.regs.Read32(counterLow)
		if g.regs.Read32(counterHigh) == hi {
			return uint64(hi)<<32 | uint64(lo)
		}
	}
}

func (g *GlobalTimer) Frequency() uint64 {
	return g.freq
}
