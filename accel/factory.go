// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/luxfi/log"
)

// BackendEnvVar forces a bus backend by name, overriding the configuration.
const BackendEnvVar = "MONTBENCH_ACCEL_BACKEND"

// backendCtor holds a bus constructor with its priority
type backendCtor struct {
	name     string
	priority int
	new      func(Config, Handle) (Bus, error)
}

var (
	ctors   []backendCtor
	ctorsMu sync.RWMutex
)

// Register adds a bus backend with the given priority.
// Higher priority backends are preferred. Called from init() in backend files.
func Register(name string, priority int, ctor func(Config, Handle) (Bus, error)) {
	ctorsMu.Lock()
	defer ctorsMu.Unlock()
	ctors = append(ctors, backendCtor{name: name, priority: priority, new: ctor})
}

// NewBus opens the register window of handle.
// The backend is taken from MONTBENCH_ACCEL_BACKEND, then config.Backend,
// and otherwise the highest priority one registered.
func NewBus(config Config, handle Handle) (Bus, error) {
	ctorsMu.RLock()
	defer ctorsMu.RUnlock()

	if len(ctors) == 0 {
		return nil, ErrNoBackend
	}

	sorted := sortedCtors()

	name := config.Backend
	if envBackend := os.Getenv(BackendEnvVar); envBackend != "" {
		name = envBackend
	}
	if name == "" {
		return sorted[0].new(config, handle)
	}

	name = strings.ToLower(name)
	for _, c := range sorted {
		if strings.ToLower(c.name) == name {
			return c.new(config, handle)
		}
	}
	return nil, fmt.Errorf("%w: requested backend %q not available", ErrNoBackend, name)
}

// Open returns a register port for handle over a newly opened bus. Closing the
// port closes the bus.
func Open(config Config, handle Handle, logger log.Logger) (*RegisterPort, error) {
	bus, err := NewBus(config, handle)
	if err != nil {
		return nil, err
	}
	port, err := NewRegisterPort(bus, handle, config, logger)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	logger.Debug("opened accelerator",
		log.Stringer("handle", handle),
		log.Int("width", handle.Width),
		log.Uint64("maxPolls", config.MaxPolls),
	)
	return port, nil
}

// AvailableBackends returns names of all registered backends, sorted by priority
func AvailableBackends() []string {
	ctorsMu.RLock()
	defer ctorsMu.RUnlock()

	sorted := sortedCtors()
	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.name
	}
	return names
}

// BackendInfo returns description of a backend
func BackendInfo(name string) string {
	switch strings.ToLower(name) {
	case BackendSim:
		return "in-memory registers, software Montgomery multiply"
	case BackendMMIO:
		return "memory-mapped device registers"
	default:
		return "Unknown backend"
	}
}

// sortedCtors returns the registered backends by descending priority.
// Caller must hold ctorsMu.
func sortedCtors() []backendCtor {
	sorted := make([]backendCtor, len(ctors))
	copy(sorted, ctors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority > sorted[j].priority
	})
	return sorted
}
