// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"fmt"
	"slices"
	"sort"

	"github.com/holiman/uint256"
	"gonum.org/v1/gonum/stat"

	"github.com/luxfi/montbench/accel"
	"github.com/luxfi/montbench/utils/math"
	"github.com/luxfi/montbench/utils/timer"
	"github.com/luxfi/montbench/utils/units"
)

const (
	VariantHardware = "hw"
	VariantSoftware = "sw"

	OpEncrypt = "enc"
	OpDecrypt = "dec"

	correctText   = "OK"
	incorrectText = "FAIL"
)

// Phase is one timed loop of a case.
type Phase struct {
	Variant string
	Op      string
}

func (p Phase) String() string {
	return p.Variant + " " + p.Op
}

var (
	phaseHardwareEncrypt = Phase{Variant: VariantHardware, Op: OpEncrypt}
	phaseHardwareDecrypt = Phase{Variant: VariantHardware, Op: OpDecrypt}
	phaseSoftwareEncrypt = Phase{Variant: VariantSoftware, Op: OpEncrypt}
	phaseSoftwareDecrypt = Phase{Variant: VariantSoftware, Op: OpDecrypt}

	// phases in the order they run.
	phases = []Phase{
		phaseHardwareEncrypt,
		phaseHardwareDecrypt,
		phaseSoftwareEncrypt,
		phaseSoftwareDecrypt,
	}
)

// Measurement summarises the trials of one phase. Times are in ticks of the
// harness tick source unless noted.
type Measurement struct {
	Samples []uint64

	AvgTicks uint64
	// AvgNanos is AvgTicks converted to nanoseconds, truncated.
	AvgNanos      uint64
	BitsPerSecond uint64
	Mbps          uint64

	MinTicks    uint64
	MaxTicks    uint64
	MedianTicks float64
	StdDevTicks float64
}

// newMeasurement derives the averages from the samples of a phase and their
// sum. samples must not be empty.
func newMeasurement(samples []uint64, sum uint64, keyBits int, freq uint64) Measurement {
	avg := sum / uint64(len(samples))
	bps := timer.BitsPerSecond(uint64(keyBits), freq, avg)
	m := Measurement{
		Samples:       samples,
		AvgTicks:      avg,
		AvgNanos:      timer.TicksToNanoseconds(avg, freq),
		BitsPerSecond: bps,
		Mbps:          units.Mbps(bps),
		MinTicks:      slices.Min(samples),
		MaxTicks:      slices.Max(samples),
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s)
	}
	sort.Float64s(values)
	m.MedianTicks = stat.Quantile(0.5, stat.Empirical, values, nil)
	if len(values) > 1 {
		m.StdDevTicks = stat.StdDev(values, nil)
	}
	return m
}

// Ratio is a speedup scaled by 1000 and truncated.
type Ratio uint64

// NewRatio returns sw/hw. A zero hw yields zero.
func NewRatio(sw, hw uint64) Ratio {
	if hw == 0 {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(sw), uint256.NewInt(1000))
	v.Div(v, uint256.NewInt(hw))
	if !v.IsUint64() {
		return Ratio(math.MaxUint[uint64]())
	}
	return Ratio(v.Uint64())
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d.%03dx", uint64(r)/1000, uint64(r)%1000)
}

func (r Ratio) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Variant holds the results of one multiply implementation.
type Variant struct {
	Encrypt Measurement
	Decrypt Measurement
	// Correct reports whether decrypting the ciphertext gave the message back.
	Correct bool
}

// Speedup is software time over hardware time.
type Speedup struct {
	Encrypt Ratio
	Decrypt Ratio
}

// Result is the outcome of one benchmark case.
type Result struct {
	Label     string
	Handle    accel.Handle
	KeyBits   int
	Trials    int
	Frequency uint64

	Hardware Variant
	Software Variant
	Speedup  Speedup

	// CiphertextsAgree reports whether both implementations encrypted the
	// message to the same value.
	CiphertextsAgree bool
}

// Measurement returns the measurement of phase p.
func (r *Result) Measurement(p Phase) Measurement {
	v := r.Hardware
	if p.Variant == VariantSoftware {
		v = r.Software
	}
	if p.Op == OpDecrypt {
		return v.Decrypt
	}
	return v.Encrypt
}

// Correctness renders a correctness flag.
func Correctness(ok bool) string {
	if ok {
		return correctText
	}
	return incorrectText
}
