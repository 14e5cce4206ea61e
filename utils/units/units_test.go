// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package units

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMbps(t *testing.T) {
	require := require.New(t)

	require.Zero(Mbps(999_999))
	require.Equal(uint64(1), Mbps(Mega))
	require.Equal(uint64(2048), Mbps(2_048_999_999))
}
