// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"errors"
	"io"
)

// Buffer is a growable in-memory byte buffer that additionally supports
// absolute seeking, the substrate Store needs for its length-backpatch
// protocol. bytes.Buffer does not implement io.Seeker, and nothing in
// the dependency set provides a seekable byte buffer, so this is a
// small hand-rolled type rather than a borrowed one (see DESIGN.md).
type Buffer struct {
	buf []byte
	pos int
}

// NewBuffer returns an empty, write-position-zero Buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Bytes returns the buffer's full contents regardless of the current
// seek position.
func (b *Buffer) Bytes() []byte { return b.buf }

// Write writes p at the current position, overwriting existing bytes and
// growing the buffer as needed, then advances the position by len(p).
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.buf) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

// Seek implements io.Seeker. Only io.SeekStart and io.SeekCurrent are
// used by the codec's backpatch protocol.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = int64(b.pos) + offset
	case io.SeekEnd:
		newPos = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("classfile: invalid seek whence")
	}
	if newPos < 0 {
		return 0, errors.New("classfile: negative seek position")
	}
	b.pos = int(newPos)
	return newPos, nil
}
