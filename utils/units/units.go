// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package units

// Decimal multiples
const (
	Kilo uint64 = 1000
	Mega uint64 = 1000 * Kilo
	Giga uint64 = 1000 * Mega
)

// NanosecondsPerSecond converts tick frequencies to nanoseconds.
const NanosecondsPerSecond = Giga

// Mbps converts a bit rate to whole megabits per second, truncating.
func Mbps(bitsPerSecond uint64) uint64 {
	return bitsPerSecond / Mega
}
