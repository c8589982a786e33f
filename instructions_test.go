// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"reflect"
	"testing"
)

func roundTripCode(t *testing.T, code []Instruction) []Instruction {
	t.Helper()
	var buf bytes.Buffer
	e := newEncoder(&buf)
	if err := encodeInstructions(e, code); err != nil {
		t.Fatalf("encode: %v", err)
	}
	d := newDecoder(bytes.NewReader(buf.Bytes()))
	got, err := decodeInstructions(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestInstructionsRoundTrip(t *testing.T) {
	code := []Instruction{
		IConstInsn{Value: 0},
		IStoreInsn{Index: 1},
		ILoadInsn{Index: 1},
		BiPushInsn{Value: -5},
		SiPushInsn{Value: 1000},
		LdcInsn{Index: 2},
		LdcWInsn{Index: 300},
		Ldc2WInsn{Index: 4},
		IIncInsn{Index: 1, Const: -1},
		BranchInsn{Op: OpIfeq, Offset: 8},
		RefInsn{Op: OpGetStatic, Index: 9},
		InvokeInterfaceInsn{Index: 10, Count: 2},
		InvokeDynamicInsn{Index: 11},
		NewArrayInsn{AType: ATypeInt},
		MultiANewArrayInsn{Index: 12, Dimensions: 2},
		WideVarInsn{Op: OpILoad, Index: 300},
		WideIIncInsn{Index: 300, Const: -300},
		GotoWInsn{Offset: 100000},
		JsrWInsn{Offset: -100000},
		NoOperandInsn{Op: OpReturn},
	}

	got := roundTripCode(t, code)
	if !reflect.DeepEqual(got, code) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, code)
	}
}

// TestShortAndLongFormsNormalize confirms that iload_0/istore_0 (the
// short forms) and iload/istore with an explicit index byte (the long
// forms) both decode to the same value-carrying shape: bytecode
// 1A 3B (iload_0; istore_0) decodes to [ILoad(0), IStore(0)], the same
// shape the long forms 15 00 (iload 0) and 36 00 (istore 0) decode to.
func TestShortAndLongFormsNormalize(t *testing.T) {
	d := newDecoder(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x02, 0x1A, 0x3B}))
	got, err := decodeInstructions(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Instruction{ILoadInsn{Index: 0}, IStoreInsn{Index: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%#v\nwant=%#v", got, want)
	}

	d2 := newDecoder(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x04, 0x15, 0x00, 0x36, 0x00}))
	got2, err := decodeInstructions(d2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got2, want) {
		t.Fatalf("long form: got=%#v\nwant=%#v", got2, want)
	}
}

// TestLoadStoreEncodePicksFormByValue confirms encode chooses the short
// form for indices 0-3 and the long form otherwise.
func TestLoadStoreEncodePicksFormByValue(t *testing.T) {
	var buf bytes.Buffer
	e := newEncoder(&buf)
	if err := encodeInstructions(e, []Instruction{ILoadInsn{Index: 2}, ILoadInsn{Index: 4}}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()[4:] // skip the 4-byte code_length prefix
	want := []byte{OpILoad2, OpILoad, 4}
	if !bytes.Equal(raw, want) {
		t.Fatalf("encoded = %x, want %x", raw, want)
	}
}

func TestTableSwitchRoundTrip(t *testing.T) {
	// opcodePos 0: padding = (4 - (0+1)%4)%4 = 3
	code := []Instruction{
		TableSwitchInsn{
			Padding:     3,
			Default:     20,
			Low:         0,
			High:        2,
			JumpTargets: []int32{8, 12, 16},
		},
	}
	got := roundTripCode(t, code)
	if !reflect.DeepEqual(got, code) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, code)
	}

	want := code[0].Size()
	if want != 1+3+12+3*4 {
		t.Fatalf("Size() = %d, want %d", want, 1+3+12+3*4)
	}
}

func TestLookupSwitchRoundTrip(t *testing.T) {
	code := []Instruction{
		LookupSwitchInsn{
			Padding: 3,
			Default: 40,
			Pairs: []LookupPair{
				{Match: 0, Offset: 16},
				{Match: 5, Offset: 24},
			},
		},
	}
	got := roundTripCode(t, code)
	if !reflect.DeepEqual(got, code) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, code)
	}
}

func TestTableSwitchPaddingDependsOnPosition(t *testing.T) {
	// A preceding 2-byte instruction puts the switch opcode at position 2,
	// so padding = (4 - (2+1)%4)%4 = 1.
	code := []Instruction{
		BiPushInsn{Value: 1},
		TableSwitchInsn{Padding: 1, Default: 0, Low: 0, High: 0, JumpTargets: []int32{0}},
	}
	got := roundTripCode(t, code)
	if !reflect.DeepEqual(got, code) {
		t.Fatalf("round-trip mismatch:\n got=%#v\nwant=%#v", got, code)
	}
}

func TestUnknownOpcodeError(t *testing.T) {
	// 0xBA is invokedynamic (valid); pick a genuinely unassigned byte (0xCB).
	d := newDecoder(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x01, 0xCB}))
	_, err := decodeInstructions(d)
	if err != ErrUnknownOpcode {
		t.Fatalf("err = %v, want ErrUnknownOpcode", err)
	}
}
