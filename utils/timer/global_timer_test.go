// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTimer models the counter registers. Every read of the low half advances
// the counter by step.
type fakeTimer struct {
	counter uint64
	step    uint64
	ctrl    uint32
	reads   int
}

func (f *fakeTimer) Read32(off uint32) uint32 {
	f.reads++
	switch off {
	case counterLow:
		lo := uint32(f.counter)
		f.counter += f.step
		return lo
	case counterHigh:
		return uint32(f.counter >> 32)
	case control:
		return f.ctrl
	default:
		panic("unexpected register")
	}
}

func (f *fakeTimer) Write32(off, v uint32) {
	if off != control {
		panic("unexpected register")
	}
	f.ctrl = v
}

func TestGlobalTimerEnable(t *testing.T) {
	regs := &fakeTimer{ctrl: 0x0C}
	NewGlobalTimer(regs, GlobalTimerFrequency).Enable()
	require.Equal(t, uint32(0x0D), regs.ctrl)
}

func TestGlobalTimerTicks(t *testing.T) {
	require := require.New(t)

	regs := &fakeTimer{counter: 0x00000005_12345678, step: 1}
	timer := NewGlobalTimer(regs, GlobalTimerFrequency)
	require.Equal(GlobalTimerFrequency, timer.Frequency())
	require.Equal(uint64(0x00000005_12345678), timer.Ticks())
	require.Equal(3, regs.reads)
}

func TestGlobalTimerTornRead(t *testing.T) {
	require := require.New(t)

	// Reading the low half carries into the high half, so the first attempt
	// sees two different high halves and must be discarded.
	regs := &fakeTimer{counter: 0x00000001_FFFFFFFF, step: 1}
	timer := NewGlobalTimer(regs, GlobalTimerFrequency)

	require.Equal(uint64(0x00000002_00000000), timer.Ticks())
	require.Equal(6, regs.reads)
}
