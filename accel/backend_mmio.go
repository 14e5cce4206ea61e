// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

const BackendMMIO = "mmio"

func init() {
	Register(BackendMMIO, 100, func(config Config, handle Handle) (Bus, error) {
		return OpenMMIO(config.DevicePath, handle.Base, config.Layout.Size())
	})
}
