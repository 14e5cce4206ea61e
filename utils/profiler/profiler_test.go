// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package profiler

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "profiles")
	r := New(dir)

	before := runtime.SetMutexProfileFraction(-1)

	require.NoError(r.Start())
	require.ErrorIs(r.Start(), errRunning)
	require.Equal(mutexFraction, runtime.SetMutexProfileFraction(-1))

	require.NoError(r.Stop())
	require.ErrorIs(r.Stop(), errNotRunning)
	require.Equal(before, runtime.SetMutexProfileFraction(-1))

	for _, name := range []string{CPUProfileFile, MemProfileFile, LockProfileFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(err, name)
		require.Positive(info.Size(), name)
	}
}

func TestStopWithoutStart(t *testing.T) {
	r := New(t.TempDir())
	require.ErrorIs(t, r.Stop(), errNotRunning)
}

func TestRestart(t *testing.T) {
	require := require.New(t)

	r := New(t.TempDir())
	require.NoError(r.Start())
	require.NoError(r.Stop())
	require.NoError(r.Start())
	require.NoError(r.Stop())
}
