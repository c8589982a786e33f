// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"reflect"
	"testing"
)

func TestConstantPoolRoundTrip(t *testing.T) {
	pool := []Constant{
		Invalid{},
		Utf8{Bytes: []byte("Hello")},
		Long{Value: 42},
		Invalid{},
		Class{NameIndex: 1},
		String{StringIndex: 1},
		Fieldref{ClassIndex: 4, NameAndTypeIndex: 7},
		NameAndType{NameIndex: 1, DescriptorIndex: 1},
		Double{Value: 3.5},
		Invalid{},
		MethodHandle{ReferenceKind: RefInvokeStatic, ReferenceIndex: 6},
		InvokeDynamic{BootstrapMethodAttrIndex: 0, NameAndTypeIndex: 7},
		Module{NameIndex: 1},
		Package{NameIndex: 1},
	}

	var buf bytes.Buffer
	e := newEncoder(&buf)
	if err := encodeConstantPool(e, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}

	d := newDecoder(bytes.NewReader(buf.Bytes()))
	got, err := decodeConstantPool(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !reflect.DeepEqual(got, pool) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, pool)
	}
}

func TestDecodeConstantPoolWidePlacesTrailingInvalid(t *testing.T) {
	var buf bytes.Buffer
	e := newEncoder(&buf)
	pool := []Constant{Invalid{}, Long{Value: 1}, Invalid{}, Utf8{Bytes: []byte("x")}}
	if err := encodeConstantPool(e, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}

	d := newDecoder(bytes.NewReader(buf.Bytes()))
	got, err := decodeConstantPool(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len(got) = %d, want 4", len(got))
	}
	if _, ok := got[2].(Invalid); !ok {
		t.Fatalf("got[2] = %#v, want Invalid (slot after Long)", got[2])
	}
	if u, ok := got[3].(Utf8); !ok || string(u.Bytes) != "x" {
		t.Fatalf("got[3] = %#v, want Utf8{x}", got[3])
	}
}

func TestDecodeConstantPoolTruncatedStream(t *testing.T) {
	// A Utf8 tag announcing a 5-byte payload, but only 2 bytes follow.
	buf := bytes.NewReader([]byte{TagUtf8, 0, 5, 'h', 'i'})
	d := newDecoder(buf)
	_, _, err := decodeConstant(d)
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestDecodeConstantUnknownTag(t *testing.T) {
	buf := bytes.NewReader([]byte{0xFF, 0, 0})
	d := newDecoder(buf)
	_, _, err := decodeConstant(d)
	if err != ErrUnknownConstantTag {
		t.Fatalf("err = %v, want ErrUnknownConstantTag", err)
	}
}
