// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"encoding/binary"
	"io"
	"math"
)

// Constant is the tagged-union interface implemented by every constant
// pool entry kind. Tag returns the byte written immediately before the
// entry's payload on the wire.
type Constant interface {
	Tag() byte
}

// Invalid occupies constant pool index 0 and the slot immediately after
// every Long/Double entry. It has no wire representation of its own.
type Invalid struct{}

// Tag implements Constant. Invalid never appears on the wire, so this
// value is never written; it exists only to satisfy the interface.
func (Invalid) Tag() byte { return 0 }

// Utf8 holds a constant's raw bytes verbatim; the codec treats this
// payload as opaque and does not translate modified UTF-8 (see
// DecodeModifiedUTF8 for that conversion).
type Utf8 struct{ Bytes []byte }

func (Utf8) Tag() byte { return TagUtf8 }

type Integer struct{ Value int32 }

func (Integer) Tag() byte { return TagInteger }

type Float struct{ Value float32 }

func (Float) Tag() byte { return TagFloat }

type Long struct{ Value int64 }

func (Long) Tag() byte { return TagLong }

type Double struct{ Value float64 }

func (Double) Tag() byte { return TagDouble }

type Class struct{ NameIndex uint16 }

func (Class) Tag() byte { return TagClass }

type String struct{ StringIndex uint16 }

func (String) Tag() byte { return TagString }

type Fieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (Fieldref) Tag() byte { return TagFieldref }

type Methodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (Methodref) Tag() byte { return TagMethodref }

type InterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (InterfaceMethodref) Tag() byte { return TagInterfaceMethodref }

type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (NameAndType) Tag() byte { return TagNameAndType }

type MethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (MethodHandle) Tag() byte { return TagMethodHandle }

type MethodType struct{ DescriptorIndex uint16 }

func (MethodType) Tag() byte { return TagMethodType }

type Dynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (Dynamic) Tag() byte { return TagDynamic }

type InvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (InvokeDynamic) Tag() byte { return TagInvokeDynamic }

type Module struct{ NameIndex uint16 }

func (Module) Tag() byte { return TagModule }

type Package struct{ NameIndex uint16 }

func (Package) Tag() byte { return TagPackage }

// decodeConstantPool reads the count-prefixed, one-based constant pool.
// It follows the JVM specification's iteration rule rather than an
// early-cutoff heuristic: advance the running index while it is less
// than count, and advance by two slots (entry + trailing Invalid) for
// every Long or Double.
func decodeConstantPool(r *decoder) ([]Constant, error) {
	count := r.u2()
	pool := make([]Constant, 1, count)
	pool[0] = Invalid{}
	for i := uint16(1); i < count; i++ {
		c, wide, err := decodeConstant(r)
		if err != nil {
			return nil, err
		}
		pool = append(pool, c)
		if wide {
			pool = append(pool, Invalid{})
			i++
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return pool, nil
}

// decodeConstant reads a single tagged constant pool entry. wide reports
// whether the entry occupies two pool slots (Long, Double).
func decodeConstant(r *decoder) (c Constant, wide bool, err error) {
	tag := r.u1()
	if r.err != nil {
		return nil, false, r.err
	}
	switch tag {
	case TagUtf8:
		n := r.u2()
		return Utf8{Bytes: r.bytes(int(n))}, false, r.err
	case TagInteger:
		return Integer{Value: int32(r.u4())}, false, r.err
	case TagFloat:
		return Float{Value: math.Float32frombits(r.u4())}, false, r.err
	case TagLong:
		return Long{Value: int64(r.u8())}, true, r.err
	case TagDouble:
		return Double{Value: math.Float64frombits(r.u8())}, true, r.err
	case TagClass:
		return Class{NameIndex: r.u2()}, false, r.err
	case TagString:
		return String{StringIndex: r.u2()}, false, r.err
	case TagFieldref:
		ci, nti := r.u2(), r.u2()
		return Fieldref{ClassIndex: ci, NameAndTypeIndex: nti}, false, r.err
	case TagMethodref:
		ci, nti := r.u2(), r.u2()
		return Methodref{ClassIndex: ci, NameAndTypeIndex: nti}, false, r.err
	case TagInterfaceMethodref:
		ci, nti := r.u2(), r.u2()
		return InterfaceMethodref{ClassIndex: ci, NameAndTypeIndex: nti}, false, r.err
	case TagNameAndType:
		ni, di := r.u2(), r.u2()
		return NameAndType{NameIndex: ni, DescriptorIndex: di}, false, r.err
	case TagMethodHandle:
		rk := r.u1()
		ri := r.u2()
		return MethodHandle{ReferenceKind: rk, ReferenceIndex: ri}, false, r.err
	case TagMethodType:
		return MethodType{DescriptorIndex: r.u2()}, false, r.err
	case TagDynamic:
		bi, nti := r.u2(), r.u2()
		return Dynamic{BootstrapMethodAttrIndex: bi, NameAndTypeIndex: nti}, false, r.err
	case TagInvokeDynamic:
		bi, nti := r.u2(), r.u2()
		return InvokeDynamic{BootstrapMethodAttrIndex: bi, NameAndTypeIndex: nti}, false, r.err
	case TagModule:
		return Module{NameIndex: r.u2()}, false, r.err
	case TagPackage:
		return Package{NameIndex: r.u2()}, false, r.err
	default:
		return nil, false, ErrUnknownConstantTag
	}
}

// encodeConstantPool writes the pool's length followed by every entry in
// order; Invalid entries are structural placeholders and emit nothing.
func encodeConstantPool(w *encoder, pool []Constant) error {
	w.u2(uint16(len(pool)))
	for _, c := range pool {
		if err := encodeConstant(w, c); err != nil {
			return err
		}
	}
	return w.err
}

func encodeConstant(w *encoder, c Constant) error {
	switch v := c.(type) {
	case Invalid:
		return nil
	case Utf8:
		w.u1(TagUtf8)
		w.u2(uint16(len(v.Bytes)))
		w.bytes(v.Bytes)
	case Integer:
		w.u1(TagInteger)
		w.u4(uint32(v.Value))
	case Float:
		w.u1(TagFloat)
		w.u4(math.Float32bits(v.Value))
	case Long:
		w.u1(TagLong)
		w.u8(uint64(v.Value))
	case Double:
		w.u1(TagDouble)
		w.u8(math.Float64bits(v.Value))
	case Class:
		w.u1(TagClass)
		w.u2(v.NameIndex)
	case String:
		w.u1(TagString)
		w.u2(v.StringIndex)
	case Fieldref:
		w.u1(TagFieldref)
		w.u2(v.ClassIndex)
		w.u2(v.NameAndTypeIndex)
	case Methodref:
		w.u1(TagMethodref)
		w.u2(v.ClassIndex)
		w.u2(v.NameAndTypeIndex)
	case InterfaceMethodref:
		w.u1(TagInterfaceMethodref)
		w.u2(v.ClassIndex)
		w.u2(v.NameAndTypeIndex)
	case NameAndType:
		w.u1(TagNameAndType)
		w.u2(v.NameIndex)
		w.u2(v.DescriptorIndex)
	case MethodHandle:
		w.u1(TagMethodHandle)
		w.u1(v.ReferenceKind)
		w.u2(v.ReferenceIndex)
	case MethodType:
		w.u1(TagMethodType)
		w.u2(v.DescriptorIndex)
	case Dynamic:
		w.u1(TagDynamic)
		w.u2(v.BootstrapMethodAttrIndex)
		w.u2(v.NameAndTypeIndex)
	case InvokeDynamic:
		w.u1(TagInvokeDynamic)
		w.u2(v.BootstrapMethodAttrIndex)
		w.u2(v.NameAndTypeIndex)
	case Module:
		w.u1(TagModule)
		w.u2(v.NameIndex)
	case Package:
		w.u1(TagPackage)
		w.u2(v.NameIndex)
	default:
		return ErrUnknownConstantTag
	}
	return w.err
}

// decoder is a sticky-error sequential big-endian cursor over a byte
// stream, shared by the constant pool, attribute, bytecode, and stack
// map frame codecs. Once err is set, every subsequent read is a no-op
// returning the zero value, so callers can issue a run of reads and
// check err once at the end.
type decoder struct {
	r   io.Reader
	err error
}

func newDecoder(r io.Reader) *decoder { return &decoder{r: r} }

// shortRead reports ErrTruncated for any error io.ReadFull can return
// when the stream ends before a fixed-size field has been fully read
// (io.EOF with nothing read, io.ErrUnexpectedEOF with a partial read),
// and passes through anything else (e.g. a real I/O failure) unchanged.
func shortRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

func (d *decoder) u1() uint8 {
	if d.err != nil {
		return 0
	}
	var buf [1]byte
	_, err := io.ReadFull(d.r, buf[:])
	d.err = shortRead(err)
	return buf[0]
}

func (d *decoder) u2() uint16 {
	if d.err != nil {
		return 0
	}
	var buf [2]byte
	_, err := io.ReadFull(d.r, buf[:])
	d.err = shortRead(err)
	return binary.BigEndian.Uint16(buf[:])
}

func (d *decoder) u4() uint32 {
	if d.err != nil {
		return 0
	}
	var buf [4]byte
	_, err := io.ReadFull(d.r, buf[:])
	d.err = shortRead(err)
	return binary.BigEndian.Uint32(buf[:])
}

func (d *decoder) u8() uint64 {
	if d.err != nil {
		return 0
	}
	var buf [8]byte
	_, err := io.ReadFull(d.r, buf[:])
	d.err = shortRead(err)
	return binary.BigEndian.Uint64(buf[:])
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, err := io.ReadFull(d.r, buf)
	d.err = shortRead(err)
	return buf
}

// encoder is the write-side counterpart of decoder. It only writes; the
// attribute codec seeks on the underlying seeker separately to backpatch
// length prefixes (see encodeAttributes).
type encoder struct {
	w   io.Writer
	err error
}

func newEncoder(w io.Writer) *encoder { return &encoder{w: w} }

func (e *encoder) u1(v uint8) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write([]byte{v})
}

func (e *encoder) u2(v uint16) {
	if e.err != nil {
		return
	}
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, e.err = e.w.Write(buf[:])
}

func (e *encoder) u4(v uint32) {
	if e.err != nil {
		return
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, e.err = e.w.Write(buf[:])
}

func (e *encoder) u8(v uint64) {
	if e.err != nil {
		return
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, e.err = e.w.Write(buf[:])
}

func (e *encoder) bytes(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

// seeker is implemented by writers the encoder can backpatch into
// (typically this package's *Buffer, or any io.WriteSeeker).
type seeker interface {
	io.Writer
	io.Seeker
}
