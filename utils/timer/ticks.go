// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package timer provides free-running tick sources and conversions from tick
// counts to wall time and throughput.
package timer

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/luxfi/montbench/utils/math"
	"github.com/luxfi/montbench/utils/units"
)

var _ TickSource = (*SystemSource)(nil)

// TickSource is a monotonically increasing 64-bit counter running at a fixed
// frequency. The counter may wrap.
type TickSource interface {
	Ticks() uint64
	// Frequency returns the number of ticks per second.
	Frequency() uint64
}

// Delta returns the ticks elapsed between two reads of a TickSource, allowing
// for one wrap of the counter.
func Delta(start, end uint64) uint64 {
	return math.WrappingDelta(start, end)
}

// TicksToNanoseconds converts a tick count at freq to nanoseconds. The
// intermediate product is exact; the result saturates at MaxUint64. A zero
// frequency yields zero.
func TicksToNanoseconds(ticks, freq uint64) uint64 {
	if freq == 0 {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(ticks), uint256.NewInt(units.NanosecondsPerSecond))
	return saturate(v.Div(v, uint256.NewInt(freq)))
}

// TicksToDuration is TicksToNanoseconds as a time.Duration.
func TicksToDuration(ticks, freq uint64) time.Duration {
	ns := TicksToNanoseconds(ticks, freq)
	if ns > uint64(1<<63-1) {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(ns)
}

// BitsPerSecond returns the rate at which bits are processed when one
// operation on bits bits takes ticks ticks at freq. Zero ticks yields zero.
func BitsPerSecond(bits, freq, ticks uint64) uint64 {
	if ticks == 0 {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(bits), uint256.NewInt(freq))
	return saturate(v.Div(v, uint256.NewInt(ticks)))
}

func saturate(v *uint256.Int) uint64 {
	if !v.IsUint64() {
		return math.MaxUint[uint64]()
	}
	return v.Uint64()
}

// SystemSource counts nanoseconds of the process's monotonic clock.
type SystemSource struct {
	start time.Time
}

func NewSystemSource() *SystemSource {
	return &SystemSource{start: time.Now()}
}

func (s *SystemSource) Ticks() uint64 {
	return uint64(time.Since(s.start))
}

func (*SystemSource) Frequency() uint64 {
	return units.NanosecondsPerSecond
}
