// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// Sentinel errors returned by the decoder when the byte stream does not
// describe a well-formed class file. Callers can compare against these
// with errors.Is.
var (
	// ErrInvalidMagic is returned when the first four bytes are not 0xCAFEBABE.
	ErrInvalidMagic = fmt.Errorf("classfile: invalid magic number")

	// ErrUnknownConstantTag is returned when a constant pool entry's tag
	// byte does not match any of the tags defined by the format.
	ErrUnknownConstantTag = fmt.Errorf("classfile: unknown constant pool tag")

	// ErrUnknownOpcode is returned when a bytecode stream contains a byte
	// that does not correspond to any defined instruction.
	ErrUnknownOpcode = fmt.Errorf("classfile: unknown opcode")

	// ErrUnknownVerificationType is returned when a stack map frame's
	// verification_type_info tag is out of range.
	ErrUnknownVerificationType = fmt.Errorf("classfile: unknown verification type tag")

	// ErrUnknownFrameType is returned when a stack map frame's leading
	// frame_type byte falls in the reserved, currently-unused range.
	ErrUnknownFrameType = fmt.Errorf("classfile: reserved stack map frame type")

	// ErrTruncated is returned when the stream ends before a length-
	// prefixed structure has been fully read.
	ErrTruncated = fmt.Errorf("classfile: truncated class file")

	// ErrAttributeNestingTooDeep is returned when attribute lists nested
	// inside Code or Record attributes exceed Options.MaxAttributeNesting.
	ErrAttributeNestingTooDeep = fmt.Errorf("classfile: attribute nesting too deep")
)

// InvalidConstantId reports a reference to a constant pool index that is
// zero, out of range, or points at an Invalid placeholder slot.
type InvalidConstantId struct {
	Index uint16
}

func (e *InvalidConstantId) Error() string {
	return fmt.Sprintf("classfile: invalid constant pool index %d", e.Index)
}

// ConstantTypeError reports that a constant pool entry was resolved but
// did not have the tag the caller required (e.g. a Class entry where a
// Utf8 entry was expected).
type ConstantTypeError struct {
	Index    uint16
	Expected string
	Got      string
}

func (e *ConstantTypeError) Error() string {
	return fmt.Sprintf("classfile: constant pool entry %d: expected %s, got %s", e.Index, e.Expected, e.Got)
}

// StringNotFound reports that ClassFile.GetStringIndex found no Utf8
// constant equal to the requested string.
type StringNotFound struct {
	Value string
}

func (e *StringNotFound) Error() string {
	return fmt.Sprintf("classfile: no Utf8 constant equal to %q", e.Value)
}
