// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compression writes report files atomically, zstd compressed when
// their name asks for it.
package compression

import (
	"errors"
	"io"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/zstd"
)

// ZstdExtension marks files that are written zstd compressed.
const ZstdExtension = ".zst"

const filePerms = 0o644

var _ io.WriteCloser = (*pendingFile)(nil)

// Create starts writing the file at path. The file appears at path, replacing
// any previous one, only once Close succeeds. If path ends in ZstdExtension the
// contents are compressed at level.
func Create(path string, level zstd.EncoderLevel) (io.WriteCloser, error) {
	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(filePerms))
	if err != nil {
		return nil, err
	}

	p := &pendingFile{
		file: f,
		w:    f,
	}
	if strings.HasSuffix(path, ZstdExtension) {
		encoder, err := zstd.NewWriter(f, zstd.WithEncoderLevel(level))
		if err != nil {
			_ = f.Cleanup()
			return nil, err
		}
		p.encoder = encoder
		p.w = encoder
	}
	return p, nil
}

type pendingFile struct {
	file    *renameio.PendingFile
	encoder *zstd.Encoder
	w       io.Writer
}

func (p *pendingFile) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

// Close flushes the compressed frame, if any, and moves the file into place.
func (p *pendingFile) Close() error {
	if p.encoder != nil {
		if err := p.encoder.Close(); err != nil {
			return errors.Join(err, p.file.Cleanup())
		}
	}
	return p.file.CloseAtomicallyReplace()
}
