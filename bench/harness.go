// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bench times modular exponentiation on an accelerator against a
// software implementation and reports speed and correctness.
package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/log"

	"github.com/luxfi/montbench/accel"
	"github.com/luxfi/montbench/bignum"
	"github.com/luxfi/montbench/modexp"
	"github.com/luxfi/montbench/montgomery"
	"github.com/luxfi/montbench/utils/math"
	"github.com/luxfi/montbench/utils/timer"
)

// DefaultTrials is the number of timed runs per phase.
const DefaultTrials = 32

var (
	ErrInvalidTrials = errors.New("trial count must be positive")
	ErrInvalidCase   = errors.New("invalid benchmark case")
)

type Config struct {
	Trials int `json:"trials"`
}

func DefaultConfig() Config {
	return Config{Trials: DefaultTrials}
}

func (c Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTrials, c.Trials)
	}
	return nil
}

// Case is one key size benchmarked on one accelerator instance.
type Case struct {
	Label    string
	Handle   accel.Handle
	KeyBits  int
	Context  *montgomery.Context
	Keypair  modexp.Keypair
	Message  uint32
	Hardware modexp.Exponentiator
	Software modexp.Exponentiator
}

func (c *Case) Verify() error {
	switch {
	case c.Context == nil:
		return fmt.Errorf("%w: %q has no montgomery context", ErrInvalidCase, c.Label)
	case c.Hardware == nil || c.Software == nil:
		return fmt.Errorf("%w: %q is missing an exponentiator", ErrInvalidCase, c.Label)
	case c.KeyBits != c.Context.Width()*bignum.WordBits:
		return fmt.Errorf("%w: %q has %d key bits for %d words",
			ErrInvalidCase, c.Label, c.KeyBits, c.Context.Width())
	}
	if err := c.Keypair.Verify(); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidCase, c.Label, err)
	}
	if err := c.Keypair.VerifyMessage(c.Message); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidCase, c.Label, err)
	}
	return nil
}

// PhaseError reports the phase and trial at which a case was aborted.
type PhaseError struct {
	Phase Phase
	Trial int
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s trial %d: %v", e.Phase, e.Trial, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one case of RunAll. Exactly one of Result and Err
// is set.
type Outcome struct {
	Label  string
	Result *Result
	Err    error
}

// Harness runs benchmark cases. It is not safe for concurrent use.
type Harness struct {
	config  Config
	ticks   timer.TickSource
	log     log.Logger
	metrics Metrics
}

func New(config Config, ticks timer.TickSource, logger log.Logger, metrics Metrics) (*Harness, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Harness{
		config:  config,
		ticks:   ticks,
		log:     logger,
		metrics: metrics,
	}, nil
}

// Run times hardware encryption, hardware decryption of the hardware
// ciphertext, then the same two for software. Any error aborts the remaining
// phases of the case. ctx is checked between trials only.
func (h *Harness) Run(ctx context.Context, c Case) (*Result, error) {
	if err := c.Verify(); err != nil {
		return nil, err
	}

	width := c.Context.Width()
	var (
		msg             = bignum.MustNew(width).SetUint32(c.Message)
		hwCipher, hwDec = bignum.MustNew(width), bignum.MustNew(width)
		swCipher, swDec = bignum.MustNew(width), bignum.MustNew(width)
	)

	h.log.Info("running benchmark case",
		log.String("case", c.Label),
		log.Stringer("handle", c.Handle),
		log.Int("keyBits", c.KeyBits),
		log.Int("trials", h.config.Trials),
	)
	h.log.Debug("plaintext", log.String("words", msg.Prefix(4)))

	hwEnc, err := h.measure(ctx, c, phaseHardwareEncrypt, c.Hardware, hwCipher, msg, c.Keypair.E)
	if err != nil {
		return nil, err
	}
	hwDecM, err := h.measure(ctx, c, phaseHardwareDecrypt, c.Hardware, hwDec, hwCipher, c.Keypair.D)
	if err != nil {
		return nil, err
	}
	swEnc, err := h.measure(ctx, c, phaseSoftwareEncrypt, c.Software, swCipher, msg, c.Keypair.E)
	if err != nil {
		return nil, err
	}
	swDecM, err := h.measure(ctx, c, phaseSoftwareDecrypt, c.Software, swDec, swCipher, c.Keypair.D)
	if err != nil {
		return nil, err
	}

	h.log.Debug("case values",
		log.String("case", c.Label),
		log.String("hwCiphertext", hwCipher.Prefix(4)),
		log.String("swCiphertext", swCipher.Prefix(4)),
		log.String("hwDecrypted", hwDec.Prefix(4)),
		log.String("swDecrypted", swDec.Prefix(4)),
	)

	result := &Result{
		Label:     c.Label,
		Handle:    c.Handle,
		KeyBits:   c.KeyBits,
		Trials:    h.config.Trials,
		Frequency: h.ticks.Frequency(),
		Hardware: Variant{
			Encrypt: hwEnc,
			Decrypt: hwDecM,
			Correct: hwDec.Equal(msg),
		},
		Software: Variant{
			Encrypt: swEnc,
			Decrypt: swDecM,
			Correct: swDec.Equal(msg),
		},
		CiphertextsAgree: hwCipher.Equal(swCipher),
	}
	result.Speedup = Speedup{
		Encrypt: NewRatio(swEnc.AvgTicks, hwEnc.AvgTicks),
		Decrypt: NewRatio(swDecM.AvgTicks, hwDecM.AvgTicks),
	}

	if !result.Hardware.Correct || !result.Software.Correct || !result.CiphertextsAgree {
		h.log.Warn("benchmark case produced wrong values",
			log.String("case", c.Label),
			log.Bool("hwCorrect", result.Hardware.Correct),
			log.Bool("swCorrect", result.Software.Correct),
			log.Bool("ciphertextsAgree", result.CiphertextsAgree),
		)
	}
	h.metrics.MarkResult(result)
	return result, nil
}

// RunAll runs every case in order. A failed case is logged and recorded in its
// Outcome; the remaining cases still run unless ctx is done.
func (h *Harness) RunAll(ctx context.Context, cases []Case) []Outcome {
	outcomes := make([]Outcome, 0, len(cases))
	start := h.ticks.Ticks()
	for i, c := range cases {
		outcome := Outcome{Label: c.Label}
		if err := ctx.Err(); err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			continue
		}

		outcome.Result, outcome.Err = h.Run(ctx, c)
		if outcome.Err != nil {
			h.log.Error("aborting benchmark case",
				log.String("case", c.Label),
				log.Err(outcome.Err),
			)
			h.metrics.MarkFailure(c.Label)
		}
		outcomes = append(outcomes, outcome)

		elapsed := timer.TicksToDuration(timer.Delta(start, h.ticks.Ticks()), h.ticks.Frequency())
		h.log.Info("benchmark progress",
			log.Int("done", i+1),
			log.Int("cases", len(cases)),
			log.Duration("elapsed", elapsed),
			log.Duration("eta", timer.EstimateETA(elapsed, uint64(i+1), uint64(len(cases)))),
		)
	}
	return outcomes
}

func (h *Harness) measure(
	ctx context.Context,
	c Case,
	phase Phase,
	e modexp.Exponentiator,
	dst, base *bignum.Nat,
	exp modexp.ExponentSpec,
) (Measurement, error) {
	samples := make([]uint64, h.config.Trials)
	var sum uint64
	for i := range samples {
		if err := ctx.Err(); err != nil {
			return Measurement{}, &PhaseError{Phase: phase, Trial: i, Err: err}
		}

		start := h.ticks.Ticks()
		err := e.Exp(dst, base, exp)
		end := h.ticks.Ticks()
		if err != nil {
			return Measurement{}, &PhaseError{Phase: phase, Trial: i, Err: err}
		}

		samples[i] = timer.Delta(start, end)
		sum, err = math.Add(sum, samples[i])
		if err != nil {
			return Measurement{}, &PhaseError{Phase: phase, Trial: i, Err: fmt.Errorf("summing ticks: %w", err)}
		}
		h.metrics.ObserveTrial(c.Label, phase, samples[i])
	}

	m := newMeasurement(samples, sum, c.KeyBits, h.ticks.Frequency())
	h.log.Debug("phase complete",
		log.String("case", c.Label),
		log.Stringer("phase", phase),
		log.Uint64("avgTicks", m.AvgTicks),
		log.Uint64("avgNanos", m.AvgNanos),
	)
	return m, nil
}
