// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// DefaultMaxAttributeNesting bounds how deeply the attribute codec will
// recurse (Code and Record attributes nest further attribute lists)
// before giving up on a malformed or adversarial input.
const DefaultMaxAttributeNesting = 64

// ClassFile is a decoded JVM class file, directly mutable by clients and
// re-encodable via Store.
type ClassFile struct {
	MajorVersion uint16
	MinorVersion uint16
	AccessFlags  []AccessFlag
	ThisClass    uint16
	SuperClass   uint16
	Constants    []Constant
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute

	data   mmap.MMap
	f      *os.File
	opts   *Options
	logger *log.Helper
}

// Options configures class file decoding.
type Options struct {
	// StrictMagic is not consulted by the decoder: Load rejects any magic
	// value other than 0xCAFEBABE whether it is set or not.
	StrictMagic bool

	// MaxAttributeNesting bounds recursive attribute decoding, by default
	// (DefaultMaxAttributeNesting).
	MaxAttributeNesting int

	// Logger is a custom structured logger; by default a stdout logger
	// filtered to error level.
	Logger log.Logger
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.MaxAttributeNesting == 0 {
		o.MaxAttributeNesting = DefaultMaxAttributeNesting
	}
	return o
}

func newHelper(opts *Options) *log.Helper {
	if opts.Logger == nil {
		logger := log.NewStdLogger(os.Stdout)
		return log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
	}
	return log.NewHelper(opts.Logger)
}

// NewEmpty returns a ClassFile with no constants, members, or attributes
// and version 0.0 — the starting point for building a class from scratch.
func NewEmpty() *ClassFile {
	return &ClassFile{
		Constants: []Constant{Invalid{}},
		opts:      (&Options{}).withDefaults(),
	}
}

// Open memory-maps name and decodes it as a class file.
func Open(name string, opts *Options) (*ClassFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	cf := &ClassFile{opts: opts.withDefaults()}
	cf.logger = newHelper(cf.opts)
	cf.data = data
	cf.f = f

	if err := cf.Load(bytes.NewReader(data)); err != nil {
		cf.Close()
		return nil, err
	}
	return cf, nil
}

// NewBytes decodes a class file already held in memory.
func NewBytes(data []byte, opts *Options) (*ClassFile, error) {
	cf := &ClassFile{opts: opts.withDefaults()}
	cf.logger = newHelper(cf.opts)
	if err := cf.Load(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return cf, nil
}

// Close releases resources held by a ClassFile obtained from Open. It is
// a no-op for class files constructed any other way.
func (cf *ClassFile) Close() error {
	if cf.data != nil {
		_ = cf.data.Unmap()
	}
	if cf.f != nil {
		return cf.f.Close()
	}
	return nil
}

// Load decodes r into cf, replacing any previously held structure. r need
// not support seeking; the class file is read strictly sequentially.
func (cf *ClassFile) Load(r io.Reader) error {
	if cf.opts == nil {
		cf.opts = (&Options{}).withDefaults()
	}
	if cf.logger == nil {
		cf.logger = newHelper(cf.opts)
	}

	d := newDecoder(r)

	magic := d.u4()
	if d.err != nil {
		return d.err
	}
	if magic != Magic {
		return ErrInvalidMagic
	}

	cf.MinorVersion = d.u2()
	cf.MajorVersion = d.u2()
	if d.err != nil {
		return d.err
	}

	constants, err := decodeConstantPool(d)
	if err != nil {
		return err
	}
	cf.Constants = constants

	accessMask := d.u2()
	cf.ThisClass = d.u2()
	cf.SuperClass = d.u2()
	if d.err != nil {
		return d.err
	}
	cf.AccessFlags = UnpackClassFlags(accessMask)

	ifaceCount := d.u2()
	cf.Interfaces = make([]uint16, ifaceCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = d.u2()
	}
	if d.err != nil {
		return d.err
	}

	cf.Fields, err = decodeMembers(d, cf.Constants, fieldFlags, cf.opts.MaxAttributeNesting)
	if err != nil {
		return err
	}

	cf.Methods, err = decodeMembers(d, cf.Constants, methodFlags, cf.opts.MaxAttributeNesting)
	if err != nil {
		return err
	}

	cf.Attributes, err = decodeAttributes(d, cf.Constants, cf.opts.MaxAttributeNesting)
	if err != nil {
		return err
	}

	cf.logger.Debugf("decoded class file: %d constants, %d fields, %d methods",
		len(cf.Constants), len(cf.Fields), len(cf.Methods))
	return nil
}

// Store encodes cf to w, which must support absolute seeking so the
// attribute codec can backpatch length prefixes. The code_length of a
// Code attribute is computed up front from the instructions' sizes.
func (cf *ClassFile) Store(w seeker) error {
	e := newEncoder(w)

	e.u4(Magic)
	e.u2(cf.MinorVersion)
	e.u2(cf.MajorVersion)
	if e.err != nil {
		return e.err
	}

	if err := encodeConstantPool(e, cf.Constants); err != nil {
		return err
	}

	e.u2(PackClassFlags(cf.AccessFlags))
	e.u2(cf.ThisClass)
	e.u2(cf.SuperClass)

	e.u2(uint16(len(cf.Interfaces)))
	for _, i := range cf.Interfaces {
		e.u2(i)
	}
	if e.err != nil {
		return e.err
	}

	if err := encodeMembers(e, w, cf.Constants, cf.Fields, fieldFlags); err != nil {
		return err
	}
	if err := encodeMembers(e, w, cf.Constants, cf.Methods, methodFlags); err != nil {
		return err
	}
	return encodeAttributes(e, w, cf.Constants, cf.Attributes)
}

// GetString resolves the common indirections down to a Utf8 payload: a
// Utf8 entry returns directly, a String recurses on its string_index, a
// Class recurses on its name_index.
func (cf *ClassFile) GetString(index uint16) (string, error) {
	c, err := cf.constant(index)
	if err != nil {
		return "", err
	}
	switch v := c.(type) {
	case Utf8:
		return string(v.Bytes), nil
	case String:
		return cf.GetString(v.StringIndex)
	case Class:
		return cf.GetString(v.NameIndex)
	default:
		return "", &ConstantTypeError{Index: index, Expected: "Utf8/String/Class", Got: tagName(c.Tag())}
	}
}

// GetStringIndex scans the constant pool for a Utf8 entry equal to s.
func (cf *ClassFile) GetStringIndex(s string) (uint16, error) {
	for i, c := range cf.Constants {
		if u, ok := c.(Utf8); ok && string(u.Bytes) == s {
			return uint16(i), nil
		}
	}
	return 0, &StringNotFound{Value: s}
}

// constant resolves index to its constant pool entry, rejecting index 0
// and Invalid placeholder slots.
func (cf *ClassFile) constant(index uint16) (Constant, error) {
	if index == 0 || int(index) >= len(cf.Constants) {
		return nil, &InvalidConstantId{Index: index}
	}
	c := cf.Constants[index]
	if _, ok := c.(Invalid); ok {
		return nil, &InvalidConstantId{Index: index}
	}
	return c, nil
}

func tagName(tag byte) string {
	switch tag {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	default:
		return "Invalid"
	}
}
