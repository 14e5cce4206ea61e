// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import "sync"

// Ticker is a settable tick source for testing. Every read returns the current
// count and then advances it by the configured step.
// It is safe for concurrent use.
type Ticker struct {
	mu    sync.Mutex
	ticks uint64
	step  uint64
	freq  uint64
}

// NewTicker returns a ticker at freq ticks per second advancing step ticks per
// read.
func NewTicker(freq, step uint64) *Ticker {
	return &Ticker{
		step: step,
		freq: freq,
	}
}

// Set the count on the ticker
func (t *Ticker) Set(ticks uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks = ticks
}

// SetStep changes how far each read advances the count
func (t *Ticker) SetStep(step uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.step = step
}

// Advance moves the count forward, wrapping at MaxUint64
func (t *Ticker) Advance(ticks uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks += ticks
}

func (t *Ticker) Ticks() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	ticks := t.ticks
	t.ticks += t.step
	return ticks
}

func (t *Ticker) Frequency() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freq
}
