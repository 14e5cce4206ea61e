// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding file settings, e.g.
// MONTBENCH_TRIALS or MONTBENCH_KEY_MODULUS.
const EnvPrefix = "MONTBENCH"

// Load reads the configuration at path, which may be YAML, JSON or TOML, on top
// of DefaultConfig. An empty path loads the defaults and the environment only.
// Cases given in the file replace the default cases entirely.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if len(config.Cases) == 0 {
		config.Cases = DefaultCases()
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper, d Config) {
	for key, value := range map[string]any{
		"backend":       d.Backend,
		"devicePath":    d.DevicePath,
		"trials":        d.Trials,
		"maxPolls":      d.MaxPolls,
		"simLatency":    d.SimLatency,
		"software":      d.Software,
		"tickSource":    d.TickSource,
		"timerBase":     d.TimerBase,
		"tickFrequency": d.TickFrequency,
		"key.modulus":   d.Key.Modulus,
		"key.e":         d.Key.E,
		"key.eBits":     d.Key.EBits,
		"key.d":         d.Key.D,
		"key.dBits":     d.Key.DBits,
		"key.message":   d.Key.Message,
	} {
		v.SetDefault(key, value)
	}
}
