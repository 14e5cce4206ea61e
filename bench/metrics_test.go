// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"testing"

	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	utilmetric "github.com/luxfi/montbench/utils/metric"
)

func gatherNames(t *testing.T, registry metric.Registry) []string {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	return names
}

func TestMetricsRecordsCase(t *testing.T) {
	require := require.New(t)

	registry := metric.NewRegistry()
	m, err := NewMetrics(registry)
	require.NoError(err)

	outcomes := testOutcomes()
	m.ObserveTrial(outcomes[1].Label, phaseHardwareEncrypt, 100)
	m.MarkResult(outcomes[1].Result)
	m.MarkFailure(outcomes[0].Label)

	names := gatherNames(t, registry)
	for _, name := range []string{
		"trials",
		"avg_ticks",
		"avg_nanoseconds",
		"throughput_bits_per_second",
		"speedup",
		"correct",
		"case_failures",
		"trial_ticks_count",
		"trial_ticks_sum",
	} {
		require.Contains(names, name)
	}
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	registry := metric.NewRegistry()
	_, err := NewMetrics(registry)
	require.NoError(t, err)

	_, err = NewMetrics(registry)
	require.ErrorIs(t, err, utilmetric.ErrFailedRegistering)
}
