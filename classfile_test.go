// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"testing"
)

// buildSample returns a small but structurally rich class file: a public
// class extending Object, one field, and one method whose Code attribute
// carries a LineNumberTable and a StackMapTable.
func buildSample() *ClassFile {
	cf := NewEmpty()
	cf.MajorVersion = 61
	cf.MinorVersion = 0
	cf.AccessFlags = []AccessFlag{FlagPublic, FlagSuper}

	cf.Constants = []Constant{
		Invalid{},                                    // 0
		Utf8{Bytes: []byte("Sample")},                 // 1
		Class{NameIndex: 1},                            // 2
		Utf8{Bytes: []byte("java/lang/Object")},        // 3
		Class{NameIndex: 3},                             // 4
		Utf8{Bytes: []byte("value")},                    // 5
		Utf8{Bytes: []byte("I")},                        // 6
		Utf8{Bytes: []byte("Code")},                     // 7
		Utf8{Bytes: []byte("run")},                      // 8
		Utf8{Bytes: []byte("()V")},                       // 9
		Utf8{Bytes: []byte("LineNumberTable")},           // 10
		Utf8{Bytes: []byte("StackMapTable")},             // 11
		Utf8{Bytes: []byte("SourceFile")},                // 12
		Utf8{Bytes: []byte("Sample.java")},               // 13
	}

	cf.ThisClass = 2
	cf.SuperClass = 4

	cf.Fields = []Member{
		{
			AccessFlags: []AccessFlag{FlagPrivate},
			Name:        5,
			Descriptor:  6,
		},
	}

	code := []Instruction{
		IConstInsn{Value: 0},
		IStoreInsn{Index: 1},
		ILoadInsn{Index: 1},
		BranchInsn{Op: OpIfeq, Offset: 6},
		IConstInsn{Value: 1},
		NoOperandInsn{Op: OpPop},
		NoOperandInsn{Op: OpReturn},
	}

	codeAttr := CodeAttribute{
		MaxStack:  1,
		MaxLocals: 2,
		Code:      code,
		Attributes: []Attribute{
			LineNumberTableAttribute{Entries: []LineNumberEntry{
				{StartPC: 0, LineNumber: 10},
				{StartPC: 6, LineNumber: 11},
			}},
			StackMapTableAttribute{Frames: []StackMapFrame{
				{FrameType: 64 + 0, OffsetDelta: 0, Stack: []VerificationType{{Tag: ItemTop}}},
			}},
		},
	}

	cf.Methods = []Member{
		{
			AccessFlags: []AccessFlag{FlagPublic},
			Name:        8,
			Descriptor:  9,
			Attributes:  []Attribute{codeAttr},
		},
	}

	cf.Attributes = []Attribute{
		SourceFileAttribute{SourceFileIndex: 13},
	}

	return cf
}

func TestClassFileStoreLoadRoundTrip(t *testing.T) {
	cf := buildSample()

	buf := NewBuffer()
	if err := cf.Store(buf); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := NewBytes(buf.Bytes(), &Options{})
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}

	if got.MajorVersion != cf.MajorVersion || got.MinorVersion != cf.MinorVersion {
		t.Fatalf("version mismatch: got %d.%d want %d.%d",
			got.MajorVersion, got.MinorVersion, cf.MajorVersion, cf.MinorVersion)
	}
	if got.ThisClass != cf.ThisClass || got.SuperClass != cf.SuperClass {
		t.Fatalf("this/super mismatch")
	}
	if len(got.Fields) != 1 || len(got.Methods) != 1 {
		t.Fatalf("field/method count mismatch: fields=%d methods=%d", len(got.Fields), len(got.Methods))
	}

	method := got.Methods[0]
	name, err := got.GetString(method.Name)
	if err != nil || name != "run" {
		t.Fatalf("GetString(method.Name) = %q, %v", name, err)
	}

	codeAttr, ok := method.Attributes[0].(CodeAttribute)
	if !ok {
		t.Fatalf("method.Attributes[0] = %T, want CodeAttribute", method.Attributes[0])
	}
	if len(codeAttr.Code) != 7 {
		t.Fatalf("len(codeAttr.Code) = %d, want 7", len(codeAttr.Code))
	}

	// Re-encoding the decoded class file must reproduce the same bytes:
	// the central round-trip contract.
	buf2 := NewBuffer()
	if err := got.Store(buf2); err != nil {
		t.Fatalf("re-Store: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Fatalf("re-encoded bytes differ from original:\n got=%v\nwant=%v", buf2.Bytes(), buf.Bytes())
	}
}

func TestNewBytesInvalidMagic(t *testing.T) {
	_, err := NewBytes([]byte{0, 0, 0, 0}, &Options{})
	if err != ErrInvalidMagic {
		t.Fatalf("err = %v, want ErrInvalidMagic", err)
	}
}

func TestGetStringIndexRoundTrip(t *testing.T) {
	cf := buildSample()
	idx, err := cf.GetStringIndex("run")
	if err != nil {
		t.Fatalf("GetStringIndex: %v", err)
	}
	if idx != 8 {
		t.Fatalf("GetStringIndex(run) = %d, want 8", idx)
	}

	if _, err := cf.GetStringIndex("does-not-exist"); err == nil {
		t.Fatal("expected StringNotFound error")
	}
}

func TestGetStringResolvesThroughClass(t *testing.T) {
	cf := buildSample()
	name, err := cf.GetString(cf.ThisClass)
	if err != nil {
		t.Fatalf("GetString(ThisClass): %v", err)
	}
	if name != "Sample" {
		t.Fatalf("GetString(ThisClass) = %q, want Sample", name)
	}
}
