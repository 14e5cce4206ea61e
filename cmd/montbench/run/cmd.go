// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/spf13/cobra"

	"github.com/luxfi/montbench/accel"
	"github.com/luxfi/montbench/bench"
	"github.com/luxfi/montbench/config"
	"github.com/luxfi/montbench/modexp"
	"github.com/luxfi/montbench/montgomery"
	"github.com/luxfi/montbench/utils/compression"
	"github.com/luxfi/montbench/utils/profiler"
	"github.com/luxfi/montbench/utils/timer"
)

var ErrCasesAborted = errors.New("benchmark cases aborted")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Benchmarks accelerated against software modular exponentiation",
		RunE:  runFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	c.SilenceUsage = true
	return Run(c.Context(), config, log.NewLogger("montbench"), c.OutOrStdout())
}

// Run benchmarks every configured case in order and writes the report to w.
// Aborted cases are reported and make Run return ErrCasesAborted once the
// others have completed.
func Run(ctx context.Context, config *Config, logger log.Logger, w io.Writer) (err error) {
	if config.ProfileDir != "" {
		p := profiler.New(config.ProfileDir)
		if err := p.Start(); err != nil {
			return fmt.Errorf("starting profiler: %w", err)
		}
		defer func() {
			err = errors.Join(err, p.Stop())
		}()
	}

	ticks, closeTicks, err := newTickSource(&config.Bench, logger)
	if err != nil {
		return err
	}
	defer closeTicks()

	registry := metric.NewRegistry()
	metrics, err := bench.NewMetrics(registry)
	if err != nil {
		return err
	}
	harness, err := bench.New(config.Bench.Bench(), ticks, logger, metrics)
	if err != nil {
		return err
	}

	cases, ports, err := newCases(&config.Bench, logger)
	defer func() {
		for _, port := range ports {
			if err := port.Close(); err != nil {
				logger.Warn("failed to close accelerator",
					log.Stringer("handle", port.Handle()),
					log.Err(err),
				)
			}
		}
	}()
	if err != nil {
		return err
	}

	outcomes := harness.RunAll(ctx, cases)
	logMetrics(logger, registry)

	if err := writeReport(w, config, outcomes); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if config.SamplesCSV != "" {
		if err := writeSamples(config.SamplesCSV, outcomes); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	aborted := 0
	for _, o := range outcomes {
		if o.Err != nil {
			aborted++
		}
	}
	if aborted > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCasesAborted, aborted, len(outcomes))
	}
	return nil
}

func newTickSource(c *config.Config, logger log.Logger) (timer.TickSource, func(), error) {
	if c.TickSource != config.TickSourceGlobalTimer {
		return timer.NewSystemSource(), func() {}, nil
	}

	bus, err := accel.OpenMMIO(c.DevicePath, c.TimerBase, timer.GlobalTimerWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("mapping global timer: %w", err)
	}
	gt := timer.NewGlobalTimer(bus, c.TickFrequency)
	gt.Enable()
	logger.Info("using global timer",
		log.Uint64("frequency", c.TickFrequency),
		log.String("base", fmt.Sprintf("0x%08x", c.TimerBase)),
	)
	return gt, func() {
		if err := bus.Close(); err != nil {
			logger.Warn("failed to unmap global timer", log.Err(err))
		}
	}, nil
}

// newCases opens one accelerator port per configured case. The ports opened
// so far are returned even on error so that they can be closed.
func newCases(c *config.Config, logger log.Logger) ([]bench.Case, []*accel.RegisterPort, error) {
	var (
		keypair   = c.Key.Keypair()
		accelConf = c.Accel()
		cases     = make([]bench.Case, 0, len(c.Cases))
		ports     = make([]*accel.RegisterPort, 0, len(c.Cases))
	)
	for _, cs := range c.Cases {
		ctx, err := montgomery.ForModulus(keypair.N, cs.Width())
		if err != nil {
			return nil, ports, fmt.Errorf("%q: %w", cs.Name(), err)
		}
		logger.Debug("derived montgomery parameters",
			log.String("case", cs.Name()),
			log.Stringer("context", ctx),
		)

		port, err := accel.Open(accelConf, cs.Handle(), logger)
		if err != nil {
			return nil, ports, fmt.Errorf("%q: %w", cs.Name(), err)
		}
		ports = append(ports, port)

		var software modexp.Exponentiator
		switch c.Software {
		case config.SoftwareSchoolbook:
			software = modexp.NewSchoolbook(ctx.N())
		default:
			software = modexp.NewMontgomery(modexp.NewSoftware(ctx), ctx)
		}

		cases = append(cases, bench.Case{
			Label:    cs.Name(),
			Handle:   cs.Handle(),
			KeyBits:  cs.KeyBits,
			Context:  ctx,
			Keypair:  keypair,
			Message:  c.Key.Message,
			Hardware: modexp.NewMontgomery(modexp.NewHardware(port, ctx), ctx),
			Software: software,
		})
	}
	return cases, ports, nil
}

func writeReport(w io.Writer, config *Config, outcomes []bench.Outcome) error {
	switch config.Output {
	case OutputTable:
		return bench.WriteTable(w, outcomes)
	case OutputJSON:
		return bench.WriteJSON(w, outcomes, config.JSONSamples)
	default:
		return bench.WriteText(w, outcomes)
	}
}

// writeSamples writes the trial samples as csv, zstd compressed when path ends
// in .zst.
func writeSamples(path string, outcomes []bench.Outcome) error {
	w, err := compression.Create(path, zstd.SpeedDefault)
	if err != nil {
		return err
	}
	return errors.Join(bench.WriteSamplesCSV(w, outcomes), w.Close())
}

func logMetrics(logger log.Logger, gatherer metric.Registry) {
	series, err := metricSeries(gatherer)
	if err != nil {
		logger.Warn("failed to gather metrics", log.Err(err))
		return
	}
	for _, s := range series {
		logger.Debug("metric",
			log.String("name", s.name),
			log.Int("series", s.count),
		)
	}
}

type familySeries struct {
	name  string
	count int
}

// metricSeries returns the number of series of every gathered metric family.
func metricSeries(gatherer metric.Registry) ([]familySeries, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return nil, err
	}
	series := make([]familySeries, 0, len(families))
	for _, family := range families {
		series = append(series, familySeries{
			name:  family.GetName(),
			count: len(family.GetMetric()),
		})
	}
	return series, nil
}
