// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{
			name:     "uint64",
			value:    Uint64(53_248_000_000),
			expected: `"53248000000"`,
		},
		{
			name:     "max uint64",
			value:    Uint64(18446744073709551615),
			expected: `"18446744073709551615"`,
		},
		{
			name:     "hex32",
			value:    Hex32(0xF8F00200),
			expected: `"0xf8f00200"`,
		},
		{
			name:     "hex32 padded",
			value:    Hex32(0x200),
			expected: `"0x00000200"`,
		},
		{
			name:     "float64",
			value:    Float64(12.90994),
			expected: `"12.9099"`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := json.Marshal(test.value)
			require.NoError(t, err)
			require.Equal(t, test.expected, string(b))
		})
	}
}

func TestHex32String(t *testing.T) {
	require.Equal(t, "0x43c10000", Hex32(0x43C10000).String())
}
