// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDelta(t *testing.T) {
	require := require.New(t)

	require.Equal(uint64(250), Delta(100, 350))
	require.Equal(uint64(30), Delta(math.MaxUint64-9, 20))
	require.Equal(uint64(1), Delta(math.MaxUint64, 0))
}

func TestTicksToNanoseconds(t *testing.T) {
	tests := []struct {
		name     string
		ticks    uint64
		freq     uint64
		expected uint64
	}{
		{
			name:     "global timer microsecond",
			ticks:    650,
			freq:     GlobalTimerFrequency,
			expected: 1000,
		},
		{
			name:     "truncates",
			ticks:    1,
			freq:     GlobalTimerFrequency,
			expected: 1,
		},
		{
			name:     "identity at 1 GHz",
			ticks:    123456789,
			freq:     1_000_000_000,
			expected: 123456789,
		},
		{
			name:     "no overflow in the product",
			ticks:    math.MaxUint64 / 2,
			freq:     2_000_000_000,
			expected: math.MaxUint64 / 4,
		},
		{
			name:     "saturates",
			ticks:    math.MaxUint64,
			freq:     1,
			expected: math.MaxUint64,
		},
		{
			name:     "zero frequency",
			ticks:    10,
			freq:     0,
			expected: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, TicksToNanoseconds(test.ticks, test.freq))
		})
	}
}

func TestTicksToDuration(t *testing.T) {
	require := require.New(t)

	require.Equal(time.Microsecond, TicksToDuration(650, GlobalTimerFrequency))
	require.Equal(time.Duration(math.MaxInt64), TicksToDuration(math.MaxUint64, 1))
}

func TestBitsPerSecond(t *testing.T) {
	require := require.New(t)

	// 2048 bits in 650 ticks at 650 MHz is 2048 bits per microsecond.
	require.Equal(uint64(2_048_000_000), BitsPerSecond(2048, GlobalTimerFrequency, 650))
	require.Equal(uint64(1024), BitsPerSecond(1024, 1, 1))
	require.Zero(BitsPerSecond(1024, GlobalTimerFrequency, 0))
	require.Equal(uint64(math.MaxUint64), BitsPerSecond(math.MaxUint64, 2, 1))
}

func TestSystemSource(t *testing.T) {
	require := require.New(t)

	source := NewSystemSource()
	require.Equal(uint64(1_000_000_000), source.Frequency())

	start := source.Ticks()
	time.Sleep(time.Millisecond)
	end := source.Ticks()
	require.GreaterOrEqual(Delta(start, end), uint64(time.Millisecond))
}
