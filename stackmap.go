// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// VerificationType describes the content of a single local variable or
// operand stack slot referenced by a stack map frame.
type VerificationType struct {
	Tag    byte
	Index  uint16 // valid when Tag == ItemObject (constant pool index)
	Offset uint16 // valid when Tag == ItemUninitialized (bytecode offset)
}

func decodeVerificationType(d *decoder) VerificationType {
	tag := d.u1()
	switch tag {
	case ItemObject:
		return VerificationType{Tag: tag, Index: d.u2()}
	case ItemUninitialized:
		return VerificationType{Tag: tag, Offset: d.u2()}
	default:
		if tag > ItemUninitialized && d.err == nil {
			d.err = ErrUnknownVerificationType
		}
		return VerificationType{Tag: tag}
	}
}

func encodeVerificationType(e *encoder, v VerificationType) {
	e.u1(v.Tag)
	switch v.Tag {
	case ItemObject:
		e.u2(v.Index)
	case ItemUninitialized:
		e.u2(v.Offset)
	}
}

// StackMapFrame is one entry of a StackMapTable attribute. FrameType
// retains the raw leading byte for the same/append/chop families so the
// wire byte (and thus the choice between the SameFrame/SameFrameExtended
// pair) is reproduced on re-encode exactly as read.
type StackMapFrame struct {
	FrameType   byte
	OffsetDelta uint16
	Locals      []VerificationType
	Stack       []VerificationType
}

func decodeStackMapFrame(d *decoder) StackMapFrame {
	ft := d.u1()
	f := StackMapFrame{FrameType: ft}

	switch {
	case ft <= FrameSameMax:
		f.OffsetDelta = uint16(ft)
	case ft <= FrameSameLocals1StackItemMax:
		f.OffsetDelta = uint16(ft) - FrameSameLocals1StackItemMin
		f.Stack = append(f.Stack, decodeVerificationType(d))
	case ft == FrameSameLocals1StackItemExtended:
		f.OffsetDelta = d.u2()
		f.Stack = append(f.Stack, decodeVerificationType(d))
	case ft >= FrameChopMin && ft <= FrameChopMax:
		f.OffsetDelta = d.u2()
	case ft == FrameSameExtended:
		f.OffsetDelta = d.u2()
	case ft >= FrameAppendMin && ft <= FrameAppendMax:
		f.OffsetDelta = d.u2()
		n := int(ft) - FrameSameExtended
		for i := 0; i < n; i++ {
			f.Locals = append(f.Locals, decodeVerificationType(d))
		}
	case ft == FrameFull:
		f.OffsetDelta = d.u2()
		numLocals := d.u2()
		for i := uint16(0); i < numLocals; i++ {
			f.Locals = append(f.Locals, decodeVerificationType(d))
		}
		numStack := d.u2()
		for i := uint16(0); i < numStack; i++ {
			f.Stack = append(f.Stack, decodeVerificationType(d))
		}
	default:
		if d.err == nil {
			d.err = ErrUnknownFrameType
		}
	}
	return f
}

func encodeStackMapFrame(e *encoder, f StackMapFrame) {
	ft := f.FrameType
	e.u1(ft)

	switch {
	case ft <= FrameSameMax:
		// offset_delta is the frame type byte itself; nothing more to write.
	case ft <= FrameSameLocals1StackItemMax:
		encodeVerificationType(e, f.Stack[0])
	case ft == FrameSameLocals1StackItemExtended:
		e.u2(f.OffsetDelta)
		encodeVerificationType(e, f.Stack[0])
	case ft >= FrameChopMin && ft <= FrameChopMax:
		e.u2(f.OffsetDelta)
	case ft == FrameSameExtended:
		e.u2(f.OffsetDelta)
	case ft >= FrameAppendMin && ft <= FrameAppendMax:
		e.u2(f.OffsetDelta)
		for _, l := range f.Locals {
			encodeVerificationType(e, l)
		}
	case ft == FrameFull:
		e.u2(f.OffsetDelta)
		e.u2(uint16(len(f.Locals)))
		for _, l := range f.Locals {
			encodeVerificationType(e, l)
		}
		e.u2(uint16(len(f.Stack)))
		for _, s := range f.Stack {
			encodeVerificationType(e, s)
		}
	}
}

func decodeStackMapTable(d *decoder) []StackMapFrame {
	n := d.u2()
	frames := make([]StackMapFrame, n)
	for i := range frames {
		frames[i] = decodeStackMapFrame(d)
	}
	return frames
}

func encodeStackMapTable(e *encoder, frames []StackMapFrame) {
	e.u2(uint16(len(frames)))
	for _, f := range frames {
		encodeStackMapFrame(e, f)
	}
}
