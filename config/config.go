// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the settings of a benchmark run and loads them from a
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/luxfi/montbench/accel"
	"github.com/luxfi/montbench/bench"
	"github.com/luxfi/montbench/bignum"
	"github.com/luxfi/montbench/modexp"
	"github.com/luxfi/montbench/utils/timer"
)

const (
	SoftwareMontgomery = "montgomery"
	SoftwareSchoolbook = "schoolbook"

	TickSourceSystem      = "system"
	TickSourceGlobalTimer = "global-timer"
)

var (
	ErrInvalidBackend    = errors.New("unknown accelerator backend")
	ErrInvalidSoftware   = errors.New("unknown software implementation")
	ErrInvalidTickSource = errors.New("unknown tick source")
	ErrInvalidFrequency  = errors.New("tick frequency must be positive")
	ErrInvalidMaxPolls   = errors.New("max polls must be positive")
	ErrInvalidLatency    = errors.New("simulated latency must not be negative")
	ErrInvalidKey        = errors.New("invalid key")
	ErrNoCases           = errors.New("no benchmark cases")
	ErrInvalidKeyBits    = errors.New("invalid key size")
	ErrInvalidBase       = errors.New("invalid accelerator base address")
)

// Key is the RSA key and plaintext shared by every case. A zero bit count
// means the significant bits of the exponent.
type Key struct {
	Modulus uint32 `json:"modulus" mapstructure:"modulus"`
	E       uint32 `json:"e" mapstructure:"e"`
	EBits   int    `json:"eBits" mapstructure:"eBits"`
	D       uint32 `json:"d" mapstructure:"d"`
	DBits   int    `json:"dBits" mapstructure:"dBits"`
	Message uint32 `json:"message" mapstructure:"message"`
}

func (k Key) Keypair() modexp.Keypair {
	return modexp.Keypair{
		N: k.Modulus,
		E: exponent(k.E, k.EBits),
		D: exponent(k.D, k.DBits),
	}
}

func exponent(v uint32, bits int) modexp.ExponentSpec {
	if bits == 0 {
		return modexp.NewExponent(v)
	}
	return modexp.ExponentSpec{Value: v, Bits: bits}
}

// Case is one key size benchmarked on one accelerator instance.
type Case struct {
	// Label defaults to "RSA-<KeyBits> (HW: <Accelerator>)".
	Label       string `json:"label" mapstructure:"label"`
	Accelerator string `json:"accelerator" mapstructure:"accelerator"`
	Base        uint32 `json:"base" mapstructure:"base"`
	KeyBits     int    `json:"keyBits" mapstructure:"keyBits"`
}

func (c Case) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("RSA-%d (HW: %s)", c.KeyBits, c.Accelerator)
}

// Width returns the operand width of the case in words.
func (c Case) Width() int {
	return c.KeyBits / bignum.WordBits
}

func (c Case) Handle() accel.Handle {
	return accel.Handle{
		Label: c.Accelerator,
		Base:  c.Base,
		Width: c.Width(),
	}
}

type Config struct {
	Backend    string `json:"backend" mapstructure:"backend"`
	DevicePath string `json:"devicePath" mapstructure:"devicePath"`
	Trials     int    `json:"trials" mapstructure:"trials"`
	MaxPolls   uint64 `json:"maxPolls" mapstructure:"maxPolls"`
	SimLatency int    `json:"simLatency" mapstructure:"simLatency"`

	// Software selects the software exponentiation: montgomery or schoolbook.
	Software string `json:"software" mapstructure:"software"`

	// TickSource selects the clock: system or global-timer.
	TickSource    string `json:"tickSource" mapstructure:"tickSource"`
	TimerBase     uint32 `json:"timerBase" mapstructure:"timerBase"`
	TickFrequency uint64 `json:"tickFrequency" mapstructure:"tickFrequency"`

	Key   Key    `json:"key" mapstructure:"key"`
	Cases []Case `json:"cases" mapstructure:"cases"`
}

// DefaultCases returns the 2048 bit case followed by the 1024 bit one.
func DefaultCases() []Case {
	return []Case{
		{
			Accelerator: "montgomery_axi_0",
			Base:        0x43C00000,
			KeyBits:     2048,
		},
		{
			Accelerator: "montgomery_axi_1024",
			Base:        0x43C10000,
			KeyBits:     1024,
		},
	}
}

func DefaultConfig() Config {
	toy := modexp.ToyKeypair()
	return Config{
		Backend:       accel.BackendSim,
		DevicePath:    accel.DefaultDevicePath,
		Trials:        bench.DefaultTrials,
		MaxPolls:      accel.DefaultMaxPolls,
		Software:      SoftwareMontgomery,
		TickSource:    TickSourceSystem,
		TimerBase:     timer.GlobalTimerBase,
		TickFrequency: timer.GlobalTimerFrequency,
		Key: Key{
			Modulus: toy.N,
			E:       toy.E.Value,
			EBits:   toy.E.Bits,
			D:       toy.D.Value,
			DBits:   toy.D.Bits,
			Message: modexp.ToyMessage,
		},
		Cases: DefaultCases(),
	}
}

func (c *Config) Validate() error {
	if c.Backend != "" && !slices.Contains(accel.AvailableBackends(), strings.ToLower(c.Backend)) {
		return fmt.Errorf("%w: %q (have %v)", ErrInvalidBackend, c.Backend, accel.AvailableBackends())
	}
	if err := c.Bench().Validate(); err != nil {
		return err
	}
	if c.MaxPolls == 0 {
		return ErrInvalidMaxPolls
	}
	if c.SimLatency < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLatency, c.SimLatency)
	}
	switch c.Software {
	case SoftwareMontgomery, SoftwareSchoolbook:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSoftware, c.Software)
	}
	switch c.TickSource {
	case TickSourceSystem:
	case TickSourceGlobalTimer:
		if c.TickFrequency == 0 {
			return ErrInvalidFrequency
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTickSource, c.TickSource)
	}

	keypair := c.Key.Keypair()
	if err := keypair.Verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if err := keypair.VerifyMessage(c.Key.Message); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	if len(c.Cases) == 0 {
		return ErrNoCases
	}
	layout := c.Accel().Layout
	for _, cs := range c.Cases {
		if cs.KeyBits%bignum.WordBits != 0 {
			return fmt.Errorf("%w: %q has %d bits, not a multiple of %d",
				ErrInvalidKeyBits, cs.Name(), cs.KeyBits, bignum.WordBits)
		}
		width := cs.Width()
		if err := bignum.CheckWidth(width); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidKeyBits, cs.Name(), err)
		}
		if width > layout.BankWords {
			return fmt.Errorf("%w: %q needs %d words, banks hold %d",
				ErrInvalidKeyBits, cs.Name(), width, layout.BankWords)
		}
		if cs.Base%4 != 0 {
			return fmt.Errorf("%w: %q at 0x%08x", ErrInvalidBase, cs.Name(), cs.Base)
		}
	}
	return nil
}

// Accel returns the accelerator port settings.
func (c *Config) Accel() accel.Config {
	config := accel.DefaultConfig()
	config.Backend = c.Backend
	config.DevicePath = c.DevicePath
	config.MaxPolls = c.MaxPolls
	config.Latency = c.SimLatency
	return config
}

// Bench returns the harness settings.
func (c *Config) Bench() bench.Config {
	return bench.Config{Trials: c.Trials}
}
