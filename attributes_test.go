// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"reflect"
	"testing"
)

// namePool builds a minimal constant pool whose Utf8 entries are the
// given attribute/name strings, indexed starting at 1.
func namePool(names ...string) []Constant {
	pool := []Constant{Invalid{}}
	for _, n := range names {
		pool = append(pool, Utf8{Bytes: []byte(n)})
	}
	return pool
}

func roundTripAttrs(t *testing.T, pool []Constant, attrs []Attribute) []Attribute {
	t.Helper()
	buf := NewBuffer()
	e := newEncoder(buf)
	if err := encodeAttributes(e, buf, pool, attrs); err != nil {
		t.Fatalf("encode: %v", err)
	}
	d := newDecoder(bytes.NewReader(buf.Bytes()))
	got, err := decodeAttributes(d, pool, DefaultMaxAttributeNesting)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestSimpleAttributesRoundTrip(t *testing.T) {
	pool := namePool("ConstantValue", "Deprecated", "Synthetic", "Signature",
		"SourceFile", "NestHost", "NestMembers", "PermittedSubclasses",
		"ModuleMainClass", "ModulePackages")

	attrs := []Attribute{
		ConstantValueAttribute{ValueIndex: 1},
		DeprecatedAttribute{},
		SyntheticAttribute{},
		SignatureAttribute{SignatureIndex: 1},
		SourceFileAttribute{SourceFileIndex: 1},
		NestHostAttribute{HostClassIndex: 1},
		NestMembersAttribute{Classes: []uint16{1, 2, 3}},
		PermittedSubclassesAttribute{Classes: []uint16{1}},
		ModuleMainClassAttribute{MainClassIndex: 1},
		ModulePackagesAttribute{PackageIndices: []uint16{1, 2}},
	}

	got := roundTripAttrs(t, pool, attrs)
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, attrs)
	}
}

func TestInnerClassesAndinnerClassFlagsRoundTrip(t *testing.T) {
	pool := namePool("InnerClasses")
	attrs := []Attribute{
		InnerClassesAttribute{Classes: []InnerClass{
			{InnerClassInfoIndex: 1, OuterClassInfoIndex: 0, InnerNameIndex: 0,
				InnerClassAccessFlags: []AccessFlag{FlagPublic, FlagStatic}},
		}},
	}
	got := roundTripAttrs(t, pool, attrs)
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, attrs)
	}
}

func TestAnnotationsRoundTrip(t *testing.T) {
	pool := namePool("RuntimeVisibleAnnotations", "AnnotationDefault")

	annotation := Annotation{
		TypeIndex: 1,
		ElementValuePairs: []ElementValuePair{
			{ElementNameIndex: 1, Value: ConstElementValue{Tag: 'I', ConstValueIndex: 1}},
			{ElementNameIndex: 1, Value: EnumElementValue{TypeNameIndex: 1, ConstNameIndex: 1}},
			{ElementNameIndex: 1, Value: ClassElementValue{ClassInfoIndex: 1}},
			{ElementNameIndex: 1, Value: ArrayElementValue{Values: []ElementValue{
				ConstElementValue{Tag: 'I', ConstValueIndex: 1},
				ConstElementValue{Tag: 'I', ConstValueIndex: 2},
			}}},
		},
	}
	nested := Annotation{
		TypeIndex:         1,
		ElementValuePairs: []ElementValuePair{{ElementNameIndex: 1, Value: AnnotationElementValue{Annotation: annotation}}},
	}

	attrs := []Attribute{
		RuntimeVisibleAnnotationsAttribute{Annotations: []Annotation{annotation, nested}},
		AnnotationDefaultAttribute{Value: ArrayElementValue{Values: []ElementValue{
			ConstElementValue{Tag: 'Z', ConstValueIndex: 1},
		}}},
	}

	got := roundTripAttrs(t, pool, attrs)
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, attrs)
	}
}

func TestTypeAnnotationsRoundTrip(t *testing.T) {
	pool := namePool("RuntimeInvisibleTypeAnnotations")

	attrs := []Attribute{
		RuntimeInvisibleTypeAnnotationsAttribute{Annotations: []TypeAnnotation{
			{
				TargetInfo: TypeParameterTarget{TargetType: 0x00, TypeParameterIndex: 0},
				TargetPath: []TypePathEntry{{TypePathKind: 0, TypeArgumentIndex: 0}},
				Annotation: Annotation{TypeIndex: 1, ElementValuePairs: []ElementValuePair{}},
			},
			{
				TargetInfo: LocalVarTarget{TargetType: 0x40, Table: []LocalVarTargetEntry{
					{StartPC: 0, Length: 4, Index: 1},
				}},
				TargetPath: []TypePathEntry{},
				Annotation: Annotation{TypeIndex: 1, ElementValuePairs: []ElementValuePair{}},
			},
			{
				TargetInfo: TypeArgumentTarget{TargetType: 0x47, Offset: 3, TypeArgumentIndex: 0},
				TargetPath: []TypePathEntry{},
				Annotation: Annotation{TypeIndex: 1, ElementValuePairs: []ElementValuePair{}},
			},
		}},
	}

	got := roundTripAttrs(t, pool, attrs)
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, attrs)
	}
}

func TestModuleAttributeRoundTrip(t *testing.T) {
	pool := namePool("Module")

	attrs := []Attribute{
		ModuleAttribute{
			ModuleNameIndex: 1,
			ModuleFlags:     []AccessFlag{FlagOpen},
			Requires: []ModuleRequires{
				{RequiresIndex: 1, RequiresFlags: []AccessFlag{FlagTransitive}, RequiresVersionIndex: 0},
			},
			Exports: []ModuleExports{
				{ExportsIndex: 1, ExportsToIndex: []uint16{1}},
			},
			Opens: []ModuleOpens{
				{OpensIndex: 1, OpensToIndex: []uint16{1}},
			},
			Uses:     []uint16{1},
			Provides: []ModuleProvides{{ProvidesIndex: 1, ProvidesWithIndex: []uint16{1}}},
		},
	}

	got := roundTripAttrs(t, pool, attrs)
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, attrs)
	}
}

func TestRecordAttributeRoundTrip(t *testing.T) {
	pool := namePool("Record", "ConstantValue")

	attrs := []Attribute{
		RecordAttribute{Components: []RecordComponent{
			{NameIndex: 1, DescriptorIndex: 1, Attributes: []Attribute{
				ConstantValueAttribute{ValueIndex: 1},
			}},
		}},
	}

	got := roundTripAttrs(t, pool, attrs)
	if !reflect.DeepEqual(got, attrs) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, attrs)
	}
}

func TestAttributeNestingTooDeep(t *testing.T) {
	pool := namePool("Code")
	nested := CodeAttribute{MaxStack: 0, MaxLocals: 0, Code: nil}
	for i := 0; i < 5; i++ {
		nested = CodeAttribute{MaxStack: 0, MaxLocals: 0, Code: nil, Attributes: []Attribute{nested}}
	}

	buf := NewBuffer()
	e := newEncoder(buf)
	if err := encodeAttributes(e, buf, pool, []Attribute{nested}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	d := newDecoder(bytes.NewReader(buf.Bytes()))
	if _, err := decodeAttributes(d, pool, 2); err != ErrAttributeNestingTooDeep {
		t.Fatalf("err = %v, want ErrAttributeNestingTooDeep", err)
	}
}
