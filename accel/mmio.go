// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

var _ Bus = (*MMIOBus)(nil)

// MMIOBus maps a register window of a physical memory device into the
// process. Accesses are single aligned 32-bit loads and stores.
type MMIOBus struct {
	file  *os.File
	mem   mmap.MMap
	delta uint32
	size  uint32
}

// OpenMMIO maps size bytes at physical address base of the device at path.
// base need not be page aligned.
func OpenMMIO(path string, base, size uint32) (*MMIOBus, error) {
	if base%4 != 0 {
		return nil, fmt.Errorf("unaligned register base 0x%08x", base)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s: %w", path, err)
	}

	page := uint32(os.Getpagesize())
	pageBase := base &^ (page - 1)
	delta := base - pageBase
	mem, err := mmap.MapRegion(f, int(delta+size), mmap.RDWR, 0, int64(pageBase))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("couldn't map 0x%08x+0x%x of %s: %w", base, size, path, err)
	}
	return &MMIOBus{
		file:  f,
		mem:   mem,
		delta: delta,
		size:  size,
	}, nil
}

func (b *MMIOBus) Read32(off uint32) uint32 {
	return atomic.LoadUint32(b.word(off))
}

func (b *MMIOBus) Write32(off, v uint32) {
	atomic.StoreUint32(b.word(off), v)
}

// Close unmaps the window and closes the device.
func (b *MMIOBus) Close() error {
	return errors.Join(b.mem.Unmap(), b.file.Close())
}

func (b *MMIOBus) word(off uint32) *uint32 {
	if off%4 != 0 || off+4 > b.size {
		panic(fmt.Sprintf("register access at offset 0x%x outside %d byte window", off, b.size))
	}
	return (*uint32)(unsafe.Pointer(&b.mem[b.delta+off]))
}
