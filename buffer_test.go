// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"io"
	"testing"
)

func TestBufferWriteSeekBackpatch(t *testing.T) {
	b := NewBuffer()
	b.Write([]byte{0, 0, 0, 0})
	b.Write([]byte{0xAA, 0xBB})

	if _, err := b.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	b.Write([]byte{1, 2, 3, 4})

	want := []byte{1, 2, 3, 4, 0xAA, 0xBB}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("Bytes() = %v, want %v", b.Bytes(), want)
	}
}

func TestBufferSeekCurrentAndEnd(t *testing.T) {
	b := NewBuffer()
	b.Write([]byte{1, 2, 3, 4, 5})

	pos, err := b.Seek(-2, io.SeekCurrent)
	if err != nil || pos != 3 {
		t.Fatalf("Seek(-2, Current) = %d, %v", pos, err)
	}
	pos, err = b.Seek(0, io.SeekEnd)
	if err != nil || pos != 5 {
		t.Fatalf("Seek(0, End) = %d, %v", pos, err)
	}
}

func TestBufferNegativeSeekRejected(t *testing.T) {
	b := NewBuffer()
	if _, err := b.Seek(-1, io.SeekStart); err == nil {
		t.Fatal("expected error seeking before start of buffer")
	}
}
