// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

const BackendSim = "sim"

func init() {
	Register(BackendSim, 0, func(config Config, handle Handle) (Bus, error) {
		return NewSimulatedDevice(handle.Width, config.Layout, config.Latency, config.Stuck)
	})
}
