// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTicker(t *testing.T) {
	require := require.New(t)

	ticker := NewTicker(650, 10)
	require.Equal(uint64(650), ticker.Frequency())
	require.Zero(ticker.Ticks())
	require.Equal(uint64(10), ticker.Ticks())

	ticker.Advance(5)
	require.Equal(uint64(25), ticker.Ticks())

	ticker.Set(100)
	ticker.SetStep(0)
	require.Equal(uint64(100), ticker.Ticks())
	require.Equal(uint64(100), ticker.Ticks())
}

func TestTickerWraps(t *testing.T) {
	require := require.New(t)

	ticker := NewTicker(1, 4)
	ticker.Set(math.MaxUint64 - 1)
	require.Equal(uint64(math.MaxUint64-1), ticker.Ticks())
	require.Equal(uint64(2), ticker.Ticks())
}
