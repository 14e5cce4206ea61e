// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package profiler captures CPU, heap and lock profiles around a benchmark run.
package profiler

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"
)

const (
	CPUProfileFile  = "cpu.profile"
	MemProfileFile  = "mem.profile"
	LockProfileFile = "lock.profile"

	// mutexFraction samples one in mutexFraction contention events while a
	// run is profiled.
	mutexFraction = 5

	dirPerms  = 0o750
	filePerms = 0o600
)

var (
	errRunning    = errors.New("profiler already running")
	errNotRunning = errors.New("profiler not running")
	errNoProfile  = errors.New("profile not found")
)

// Run profiles the process from Start until Stop and writes the profiles to
// its directory. The CPU profile is streamed while running. The heap and lock
// profiles are written atomically on Stop.
type Run struct {
	dir              string
	cpuFile          *os.File
	previousFraction int
}

func New(dir string) *Run {
	return &Run{dir: dir}
}

// Start begins CPU profiling and enables mutex contention sampling.
func (r *Run) Start() error {
	if r.cpuFile != nil {
		return errRunning
	}
	if err := os.MkdirAll(r.dir, dirPerms); err != nil {
		return err
	}

	file, err := os.OpenFile(filepath.Join(r.dir, CPUProfileFile), os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerms)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		return errors.Join(err, file.Close())
	}
	r.cpuFile = file
	r.previousFraction = runtime.SetMutexProfileFraction(mutexFraction)
	return nil
}

// Stop ends the CPU profile, writes the heap and lock profiles and restores
// the mutex sampling rate.
func (r *Run) Stop() error {
	if r.cpuFile == nil {
		return errNotRunning
	}

	pprof.StopCPUProfile()
	cpuErr := r.cpuFile.Close()
	r.cpuFile = nil

	var g errgroup.Group
	g.Go(func() error {
		runtime.GC()
		return r.write(MemProfileFile, "heap")
	})
	g.Go(func() error {
		return r.write(LockProfileFile, "mutex")
	})
	err := g.Wait()

	runtime.SetMutexProfileFraction(r.previousFraction)
	return errors.Join(cpuErr, err)
}

func (r *Run) write(name, profileName string) error {
	profile := pprof.Lookup(profileName)
	if profile == nil {
		return errNoProfile
	}

	f, err := renameio.NewPendingFile(filepath.Join(r.dir, name), renameio.WithPermissions(filePerms))
	if err != nil {
		return err
	}
	defer f.Cleanup()

	if err := profile.WriteTo(f, 0); err != nil {
		return err
	}
	return f.CloseAtomicallyReplace()
}
