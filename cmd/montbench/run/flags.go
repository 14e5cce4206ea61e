// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/luxfi/montbench/accel"
	"github.com/luxfi/montbench/config"
)

const (
	ConfigKey      = "config"
	BackendKey     = "backend"
	DeviceKey      = "device"
	TrialsKey      = "trials"
	MaxPollsKey    = "max-polls"
	SimLatencyKey  = "sim-latency"
	SoftwareKey    = "software"
	TickSourceKey  = "tick-source"
	OutputKey      = "output"
	JSONSamplesKey = "json-samples"
	SamplesCSVKey  = "samples-csv"
	ProfileDirKey  = "profile-dir"

	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
)

var errInvalidOutput = errors.New("unknown output format")

func AddFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultConfig()
	flags.String(ConfigKey, "", "Configuration file (yaml, json or toml)")
	flags.String(BackendKey, defaults.Backend, backendUsage())
	flags.String(DeviceKey, defaults.DevicePath, "Device file mapped by the mmio backend and the global timer")
	flags.Int(TrialsKey, defaults.Trials, "Timed runs per phase")
	flags.Uint64(MaxPollsKey, defaults.MaxPolls, "Status polls before an accelerator call times out")
	flags.Int(SimLatencyKey, defaults.SimLatency, "Status reads the simulated accelerator answers busy")
	flags.String(SoftwareKey, defaults.Software, "Software exponentiation, montgomery or schoolbook")
	flags.String(TickSourceKey, defaults.TickSource, "Clock used to time trials, system or global-timer")
	flags.String(OutputKey, OutputText, "Report format, one of text, table or json")
	flags.Bool(JSONSamplesKey, false, "Include every trial in the json report")
	flags.String(SamplesCSVKey, "", "Write every trial to this csv file, zstd compressed if it ends in .zst")
	flags.String(ProfileDirKey, "", "Write cpu, memory and lock profiles to this directory")
}

// backendUsage lists the registered backends, highest priority first.
func backendUsage() string {
	backends := accel.AvailableBackends()
	described := make([]string, len(backends))
	for i, name := range backends {
		described[i] = fmt.Sprintf("%s (%s)", name, accel.BackendInfo(name))
	}
	return "Accelerator bus backend, one of " + strings.Join(described, ", ")
}

type Config struct {
	Bench       config.Config
	Output      string
	JSONSamples bool
	SamplesCSV  string
	ProfileDir  string
}

// ParseFlags loads the configuration file named by --config and applies the
// flags that were set explicitly on top of it.
func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	configPath, err := flags.GetString(ConfigKey)
	if err != nil {
		return nil, err
	}
	benchConfig, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		key   string
		apply func() error
	}{
		{BackendKey, func() (err error) { benchConfig.Backend, err = flags.GetString(BackendKey); return }},
		{DeviceKey, func() (err error) { benchConfig.DevicePath, err = flags.GetString(DeviceKey); return }},
		{TrialsKey, func() (err error) { benchConfig.Trials, err = flags.GetInt(TrialsKey); return }},
		{MaxPollsKey, func() (err error) { benchConfig.MaxPolls, err = flags.GetUint64(MaxPollsKey); return }},
		{SimLatencyKey, func() (err error) { benchConfig.SimLatency, err = flags.GetInt(SimLatencyKey); return }},
		{SoftwareKey, func() (err error) { benchConfig.Software, err = flags.GetString(SoftwareKey); return }},
		{TickSourceKey, func() (err error) { benchConfig.TickSource, err = flags.GetString(TickSourceKey); return }},
	}
	for _, o := range overrides {
		if !flags.Changed(o.key) {
			continue
		}
		if err := o.apply(); err != nil {
			return nil, err
		}
	}
	if err := benchConfig.Validate(); err != nil {
		return nil, err
	}

	output, err := flags.GetString(OutputKey)
	if err != nil {
		return nil, err
	}
	switch output {
	case OutputText, OutputTable, OutputJSON:
	default:
		return nil, fmt.Errorf("%w: %q", errInvalidOutput, output)
	}

	jsonSamples, err := flags.GetBool(JSONSamplesKey)
	if err != nil {
		return nil, err
	}

	samplesCSV, err := flags.GetString(SamplesCSVKey)
	if err != nil {
		return nil, err
	}

	profileDir, err := flags.GetString(ProfileDirKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		Bench:       benchConfig,
		Output:      output,
		JSONSamples: jsonSamples,
		SamplesCSV:  samplesCSV,
		ProfileDir:  profileDir,
	}, nil
}
