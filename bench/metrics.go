// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"github.com/luxfi/metric"

	utilmetric "github.com/luxfi/montbench/utils/metric"
	"github.com/luxfi/montbench/utils/wrappers"
)

const (
	caseLabel    = "case"
	variantLabel = "variant"
	opLabel      = "op"
)

var (
	_ Metrics = (*metrics)(nil)

	phaseLabels   = []string{caseLabel, variantLabel, opLabel}
	variantLabels = []string{caseLabel, variantLabel}
	caseLabels    = []string{caseLabel}
	speedupLabels = []string{caseLabel, opLabel}
)

type Metrics interface {
	// Mark that one timed exponentiation of phase took ticks ticks.
	ObserveTrial(label string, phase Phase, ticks uint64)
	// Mark the summary of a completed case.
	MarkResult(result *Result)
	// Mark that a case was aborted.
	MarkFailure(label string)
}

type metrics struct {
	trialTicks utilmetric.Averager

	trials     metric.CounterVec
	avgTicks   metric.GaugeVec
	avgNanos   metric.GaugeVec
	throughput metric.GaugeVec
	speedup    metric.GaugeVec
	correct    metric.GaugeVec
	failures   metric.CounterVec
}

func NewMetrics(registerer metric.Registerer) (Metrics, error) {
	m := &metrics{
		trials: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "trials",
				Help: "Number of timed exponentiations",
			},
			phaseLabels,
		),
		avgTicks: metric.NewGaugeVec(
			metric.GaugeOpts{
				Name: "avg_ticks",
				Help: "Average ticks per exponentiation of the last completed case",
			},
			phaseLabels,
		),
		avgNanos: metric.NewGaugeVec(
			metric.GaugeOpts{
				Name: "avg_nanoseconds",
				Help: "Average time (in ns) per exponentiation of the last completed case",
			},
			phaseLabels,
		),
		throughput: metric.NewGaugeVec(
			metric.GaugeOpts{
				Name: "throughput_bits_per_second",
				Help: "Key bits processed per second",
			},
			phaseLabels,
		),
		speedup: metric.NewGaugeVec(
			metric.GaugeOpts{
				Name: "speedup",
				Help: "Software time over hardware time",
			},
			speedupLabels,
		),
		correct: metric.NewGaugeVec(
			metric.GaugeOpts{
				Name: "correct",
				Help: "1 if decryption gave the message back, 0 otherwise",
			},
			variantLabels,
		),
		failures: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "case_failures",
				Help: "Number of aborted benchmark cases",
			},
			caseLabels,
		),
	}

	errs := wrappers.Errs{}
	m.trialTicks = utilmetric.NewAveragerWithErrs(
		"trial_ticks",
		"ticks per timed exponentiation",
		registerer,
		&errs,
	)
	errs.Add(
		registerer.Register(metric.AsCollector(m.trials)),
		registerer.Register(metric.AsCollector(m.avgTicks)),
		registerer.Register(metric.AsCollector(m.avgNanos)),
		registerer.Register(metric.AsCollector(m.throughput)),
		registerer.Register(metric.AsCollector(m.speedup)),
		registerer.Register(metric.AsCollector(m.correct)),
		registerer.Register(metric.AsCollector(m.failures)),
	)
	return m, errs.Err
}

func (m *metrics) ObserveTrial(label string, phase Phase, ticks uint64) {
	m.trialTicks.Observe(float64(ticks))
	m.trials.With(metric.Labels{
		caseLabel:    label,
		variantLabel: phase.Variant,
		opLabel:      phase.Op,
	}).Inc()
}

func (m *metrics) MarkResult(result *Result) {
	for _, phase := range phases {
		measurement := result.Measurement(phase)
		labels := metric.Labels{
			caseLabel:    result.Label,
			variantLabel: phase.Variant,
			opLabel:      phase.Op,
		}
		m.avgTicks.With(labels).Set(float64(measurement.AvgTicks))
		m.avgNanos.With(labels).Set(float64(measurement.AvgNanos))
		m.throughput.With(labels).Set(float64(measurement.BitsPerSecond))
	}

	m.speedup.WithLabelValues(result.Label, OpEncrypt).Set(float64(result.Speedup.Encrypt) / 1000)
	m.speedup.WithLabelValues(result.Label, OpDecrypt).Set(float64(result.Speedup.Decrypt) / 1000)
	m.correct.WithLabelValues(result.Label, VariantHardware).Set(boolToFloat(result.Hardware.Correct))
	m.correct.WithLabelValues(result.Label, VariantSoftware).Set(boolToFloat(result.Software.Correct))
}

func (m *metrics) MarkFailure(label string) {
	m.failures.WithLabelValues(label).Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
