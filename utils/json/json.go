// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides numeric types for reports that are encoded as JSON
// strings so that consumers never round them through float64.
package json

import (
	"fmt"
	"strconv"
)

// Uint64 is a uint64 that is JSON marshaled as a decimal string.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, strconv.FormatUint(uint64(u), 10)), nil
}

// Hex32 is a 32-bit address that is JSON marshaled as "0x" followed by eight
// hex digits.
type Hex32 uint32

func (h Hex32) String() string {
	return fmt.Sprintf("0x%08x", uint32(h))
}

func (h Hex32) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, h.String()), nil
}

// Float64 is a float64 that is JSON marshaled as a string with four decimals.
type Float64 float64

func (f Float64) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, strconv.FormatFloat(float64(f), 'f', 4, 64)), nil
}
