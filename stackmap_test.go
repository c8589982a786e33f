// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"reflect"
	"testing"
)

func TestStackMapFrameRoundTrip(t *testing.T) {
	frames := []StackMapFrame{
		{FrameType: 10, OffsetDelta: 10}, // same_frame: offset_delta == frame_type
		{FrameType: 70, OffsetDelta: 6, Stack: []VerificationType{{Tag: ItemInteger}}},
		{FrameType: FrameSameLocals1StackItemExtended, OffsetDelta: 300,
			Stack: []VerificationType{{Tag: ItemObject, Index: 5}}},
		{FrameType: 249, OffsetDelta: 12},
		{FrameType: FrameSameExtended, OffsetDelta: 500},
		{FrameType: 253, OffsetDelta: 8,
			Locals: []VerificationType{{Tag: ItemInteger}, {Tag: ItemUninitialized, Offset: 3}}},
		{FrameType: FrameFull, OffsetDelta: 1,
			Locals: []VerificationType{{Tag: ItemLong}},
			Stack:  []VerificationType{{Tag: ItemTop}, {Tag: ItemNull}}},
	}

	var buf bytes.Buffer
	e := newEncoder(&buf)
	encodeStackMapTable(e, frames)
	if e.err != nil {
		t.Fatalf("encode: %v", e.err)
	}

	d := newDecoder(bytes.NewReader(buf.Bytes()))
	got := decodeStackMapTable(d)
	if d.err != nil {
		t.Fatalf("decode: %v", d.err)
	}

	if !reflect.DeepEqual(got, frames) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, frames)
	}
}
