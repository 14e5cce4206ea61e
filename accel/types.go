// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package accel drives a Montgomery multiplication accelerator through its
// register interface.
//
// Two bus backends:
//   - sim: an in-memory device honouring the register protocol, always available
//   - mmio: memory-mapped device registers (e.g. /dev/mem on the target board)
//
// MONTBENCH_ACCEL_BACKEND forces a backend by name.
package accel

import (
	"errors"
	"fmt"

	"github.com/luxfi/montbench/bignum"
)

const (
	// ControlStart is written to the control register to start a multiply.
	ControlStart uint32 = 1
	// StatusDone is the status register bit set once the result is valid.
	StatusDone uint32 = 1

	// DefaultMaxPolls bounds the status polling loop of one invocation.
	DefaultMaxPolls uint64 = 100_000_000
	// DefaultDevicePath is the physical memory device used by the mmio backend.
	DefaultDevicePath = "/dev/mem"
)

var (
	ErrTimeout       = errors.New("accelerator timeout")
	ErrWidth         = errors.New("operand width not supported by accelerator")
	ErrInvalidLayout = errors.New("invalid register layout")
	ErrNoBackend     = errors.New("no accelerator backend registered")
)

// Handle identifies one physical accelerator instance.
type Handle struct {
	Label string `json:"label"`
	// Base is the address of the register window in the bus address space.
	Base uint32 `json:"base"`
	// Width is the operand width, in words, the instance was built for.
	Width int `json:"width"`
}

func (h Handle) String() string {
	return fmt.Sprintf("%s (base 0x%08x)", h.Label, h.Base)
}

// Layout is the register map of an accelerator, as byte offsets from its base.
type Layout struct {
	A      uint32 `json:"a"`
	B      uint32 `json:"b"`
	N      uint32 `json:"n"`
	Result uint32 `json:"result"`
	NPrime uint32 `json:"nprime"`

	Control uint32 `json:"control"`
	Status  uint32 `json:"status"`

	// Stride is the byte distance between consecutive words of a bank.
	Stride uint32 `json:"stride"`
	// BankWords is the number of words each operand bank can hold.
	BankWords int `json:"bankWords"`
}

// DefaultLayout returns the register map shared by the 1024 and 2048 bit
// accelerators.
func DefaultLayout() Layout {
	return Layout{
		A:         0x000,
		B:         0x200,
		N:         0x400,
		Result:    0x600,
		NPrime:    0x800,
		Control:   0x804,
		Status:    0x808,
		Stride:    4,
		BankWords: 0x200 / 4,
	}
}

// Size returns the number of bytes spanned by the register window.
func (l Layout) Size() uint32 {
	end := max(l.NPrime, l.Control, l.Status) + 4
	for _, bank := range []uint32{l.A, l.B, l.N, l.Result} {
		end = max(end, bank+uint32(l.BankWords)*l.Stride)
	}
	return end
}

// Validate checks that the banks do not overlap each other or the single
// registers.
func (l Layout) Validate() error {
	if l.Stride < 4 || l.Stride%4 != 0 {
		return fmt.Errorf("%w: stride %d", ErrInvalidLayout, l.Stride)
	}
	if l.BankWords < 1 {
		return fmt.Errorf("%w: bank size %d", ErrInvalidLayout, l.BankWords)
	}

	type span struct {
		name       string
		start, end uint32
	}
	bankBytes := uint32(l.BankWords) * l.Stride
	spans := []span{
		{"a", l.A, l.A + bankBytes},
		{"b", l.B, l.B + bankBytes},
		{"n", l.N, l.N + bankBytes},
		{"result", l.Result, l.Result + bankBytes},
		{"nprime", l.NPrime, l.NPrime + 4},
		{"control", l.Control, l.Control + 4},
		{"status", l.Status, l.Status + 4},
	}
	for i, s := range spans {
		if s.start%4 != 0 {
			return fmt.Errorf("%w: %s at unaligned offset 0x%x", ErrInvalidLayout, s.name, s.start)
		}
		for _, o := range spans[i+1:] {
			if s.start < o.end && o.start < s.end {
				return fmt.Errorf("%w: %s overlaps %s", ErrInvalidLayout, s.name, o.name)
			}
		}
	}
	return nil
}

// Config for the accelerator port and its bus backend.
type Config struct {
	Backend    string `json:"backend"`
	DevicePath string `json:"devicePath"`
	MaxPolls   uint64 `json:"maxPolls"`
	Layout     Layout `json:"layout"`

	// Latency is the number of status reads the simulated device answers with
	// "busy" before reporting completion.
	Latency int `json:"latency"`
	// Stuck makes the simulated device never report completion.
	Stuck bool `json:"stuck"`
}

// DefaultConfig returns default accelerator configuration
func DefaultConfig() Config {
	return Config{
		Backend:    BackendSim,
		DevicePath: DefaultDevicePath,
		MaxPolls:   DefaultMaxPolls,
		Layout:     DefaultLayout(),
	}
}

// TimeoutError is returned when the status bit does not come up within the
// poll bound. It unwraps to ErrTimeout.
type TimeoutError struct {
	Handle Handle
	Polls  uint64
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s in montgomery multiply for %s after %d polls", ErrTimeout, e.Handle, e.Polls)
}

func (*TimeoutError) Unwrap() error {
	return ErrTimeout
}

func checkWidth(width int, handle Handle, layout Layout) error {
	if err := bignum.CheckWidth(width); err != nil {
		return err
	}
	if width > layout.BankWords {
		return fmt.Errorf("%w: %d words exceeds bank size %d", ErrWidth, width, layout.BankWords)
	}
	if handle.Width != 0 && width != handle.Width {
		return fmt.Errorf("%w: %d words on %s built for %d", ErrWidth, width, handle, handle.Width)
	}
	return nil
}
