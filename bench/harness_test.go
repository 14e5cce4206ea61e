// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/luxfi/montbench/accel"
	"github.com/luxfi/montbench/bignum"
	"github.com/luxfi/montbench/modexp"
	"github.com/luxfi/montbench/montgomery"
	"github.com/luxfi/montbench/utils/timer"
	"github.com/luxfi/montbench/utils/timer/mockable"
	"github.com/luxfi/montbench/utils/timer/timermock"
)

const (
	testTrials = 4
	testFreq   = 650_000_000
)

// zeroExponentiator always produces zero.
type zeroExponentiator struct{}

func (zeroExponentiator) Exp(dst, _ *bignum.Nat, _ modexp.ExponentSpec) error {
	dst.SetUint32(0)
	return nil
}

func newTestCase(t *testing.T, label string, width int, stuck bool) Case {
	t.Helper()
	require := require.New(t)

	ctx, err := montgomery.ForModulus(modexp.ToyModulus, width)
	require.NoError(err)

	handle := accel.Handle{Label: "montgomery_axi_test", Base: 0x43C00000, Width: width}
	dev, err := accel.NewSimulatedDevice(width, accel.DefaultLayout(), 1, stuck)
	require.NoError(err)
	config := accel.DefaultConfig()
	config.MaxPolls = 100
	port, err := accel.NewRegisterPort(dev, handle, config, log.NewNoOpLogger())
	require.NoError(err)

	return Case{
		Label:    label,
		Handle:   handle,
		KeyBits:  width * bignum.WordBits,
		Context:  ctx,
		Keypair:  modexp.ToyKeypair(),
		Message:  modexp.ToyMessage,
		Hardware: modexp.NewMontgomery(modexp.NewHardware(port, ctx), ctx),
		Software: modexp.NewMontgomery(modexp.NewSoftware(ctx), ctx),
	}
}

func newTestHarness(t *testing.T, ticks timer.TickSource) *Harness {
	t.Helper()

	metrics, err := NewMetrics(metric.NewRegistry())
	require.NoError(t, err)
	h, err := New(Config{Trials: testTrials}, ticks, log.NewNoOpLogger(), metrics)
	require.NoError(t, err)
	return h
}

// scriptedTicks returns a tick source where every trial of the i-th phase
// takes costs[i] ticks. The counter wraps during the second trial.
func scriptedTicks(t *testing.T, costs [4]uint64) timer.TickSource {
	ctrl := gomock.NewController(t)
	ticks := timermock.NewTickSource(ctrl)

	now := uint64(math.MaxUint64 - costs[0])
	reads := 0
	ticks.EXPECT().Ticks().DoAndReturn(func() uint64 {
		if reads%2 == 1 {
			now += costs[reads/(2*testTrials)]
		}
		reads++
		return now
	}).Times(len(costs) * 2 * testTrials)
	ticks.EXPECT().Frequency().Return(uint64(testFreq)).AnyTimes()
	return ticks
}

func TestRunToyKey(t *testing.T) {
	for _, width := range []int{32, 64} {
		require := require.New(t)

		h := newTestHarness(t, scriptedTicks(t, [4]uint64{650, 1300, 6500, 26000}))
		c := newTestCase(t, "toy", width, false)

		result, err := h.Run(context.Background(), c)
		require.NoError(err)

		require.Equal("toy", result.Label)
		require.Equal(width*32, result.KeyBits)
		require.Equal(testTrials, result.Trials)
		require.Equal(uint64(testFreq), result.Frequency)

		require.True(result.Hardware.Correct)
		require.True(result.Software.Correct)
		require.True(result.CiphertextsAgree)

		hwEnc := result.Hardware.Encrypt
		require.Equal(uint64(650), hwEnc.AvgTicks)
		require.Equal(uint64(1000), hwEnc.AvgNanos)
		require.Equal(uint64(width*32)*1_000_000, hwEnc.BitsPerSecond)
		require.Equal(uint64(width*32), hwEnc.Mbps)
		require.Equal([]uint64{650, 650, 650, 650}, hwEnc.Samples)
		require.Zero(hwEnc.StdDevTicks)

		require.Equal(uint64(2000), result.Hardware.Decrypt.AvgNanos)
		require.Equal(Ratio(10_000), result.Speedup.Encrypt)
		require.Equal(Ratio(20_000), result.Speedup.Decrypt)
		require.Equal("10.000x", result.Speedup.Encrypt.String())
	}
}

func TestRunWithMockableTicker(t *testing.T) {
	require := require.New(t)

	ticker := mockable.NewTicker(testFreq, 7)
	ticker.Set(math.MaxUint64 - 3)
	h := newTestHarness(t, ticker)

	result, err := h.Run(context.Background(), newTestCase(t, "toy", 32, false))
	require.NoError(err)
	for _, phase := range phases {
		require.Equal(uint64(7), result.Measurement(phase).AvgTicks, phase.String())
	}
	require.Equal(Ratio(1000), result.Speedup.Decrypt)
}

func TestRunReportsWrongSoftware(t *testing.T) {
	require := require.New(t)

	h := newTestHarness(t, mockable.NewTicker(testFreq, 1))
	c := newTestCase(t, "broken", 32, false)
	c.Software = zeroExponentiator{}

	result, err := h.Run(context.Background(), c)
	require.NoError(err)
	require.True(result.Hardware.Correct)
	require.False(result.Software.Correct)
	require.False(result.CiphertextsAgree)
}

func TestRunHardwareTimeout(t *testing.T) {
	require := require.New(t)

	h := newTestHarness(t, mockable.NewTicker(testFreq, 1))
	_, err := h.Run(context.Background(), newTestCase(t, "stuck", 64, true))
	require.ErrorIs(err, accel.ErrTimeout)

	var phaseErr *PhaseError
	require.True(errors.As(err, &phaseErr))
	require.Equal(phaseHardwareEncrypt, phaseErr.Phase)
	require.Zero(phaseErr.Trial)
	require.Contains(err.Error(), "montgomery_axi_test (base 0x43c00000)")
}

func TestRunAllContinuesAfterFailure(t *testing.T) {
	require := require.New(t)

	h := newTestHarness(t, mockable.NewTicker(testFreq, 1))
	outcomes := h.RunAll(context.Background(), []Case{
		newTestCase(t, "RSA-2048 (HW: montgomery_axi_0)", 64, true),
		newTestCase(t, "RSA-1024 (HW: montgomery_axi_1024)", 32, false),
	})
	require.Len(outcomes, 2)

	require.Equal("RSA-2048 (HW: montgomery_axi_0)", outcomes[0].Label)
	require.ErrorIs(outcomes[0].Err, accel.ErrTimeout)
	require.Nil(outcomes[0].Result)

	require.Equal("RSA-1024 (HW: montgomery_axi_1024)", outcomes[1].Label)
	require.NoError(outcomes[1].Err)
	require.True(outcomes[1].Result.Hardware.Correct)
}

func TestRunAllCancelled(t *testing.T) {
	require := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newTestHarness(t, mockable.NewTicker(testFreq, 1))
	outcomes := h.RunAll(ctx, []Case{
		newTestCase(t, "a", 32, false),
		newTestCase(t, "b", 32, false),
	})
	require.Len(outcomes, 2)
	for _, o := range outcomes {
		require.ErrorIs(o.Err, context.Canceled)
	}
}

func TestCaseVerify(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Case)
	}{
		{
			name:   "key bits",
			modify: func(c *Case) { c.KeyBits = 1024 },
		},
		{
			name:   "missing context",
			modify: func(c *Case) { c.Context = nil },
		},
		{
			name:   "missing exponentiator",
			modify: func(c *Case) { c.Hardware = nil },
		},
		{
			name:   "message",
			modify: func(c *Case) { c.Message = modexp.ToyModulus },
		},
		{
			name:   "keypair",
			modify: func(c *Case) { c.Keypair.E.Bits = 0 },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestCase(t, "invalid", 64, false)
			test.modify(&c)
			require.ErrorIs(t, c.Verify(), ErrInvalidCase)
		})
	}
}

func TestNewRejectsZeroTrials(t *testing.T) {
	_, err := New(Config{}, mockable.NewTicker(1, 1), log.NewNoOpLogger(), nil)
	require.ErrorIs(t, err, ErrInvalidTrials)
	require.Equal(t, DefaultTrials, DefaultConfig().Trials)
}

func TestConfigValidate(t *testing.T) {
	require := require.New(t)

	require.NoError(DefaultConfig().Validate())
	require.ErrorIs(Config{Trials: -1}.Validate(), ErrInvalidTrials)
}
