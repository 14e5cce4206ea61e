// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrsCollectsAll(t *testing.T) {
	require := require.New(t)

	errFirst := errors.New("first")
	errSecond := errors.New("second")

	errs := Errs{}
	errs.Add(nil, nil)
	require.False(errs.Errored())
	require.NoError(errs.Err)

	errs.Add(nil, errFirst)
	errs.Add(errSecond, nil)
	require.True(errs.Errored())
	require.ErrorIs(errs.Err, errFirst)
	require.ErrorIs(errs.Err, errSecond)
	require.Equal("first\nsecond", errs.Err.Error())
}
