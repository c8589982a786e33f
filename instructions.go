// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "bytes"

// Instruction is a single decoded bytecode instruction. Size reports the
// exact number of bytes the instruction occupies on the wire, which an
// encoder must reproduce bit for bit.
type Instruction interface {
	Opcode() byte
	Size() uint32
}

// NoOperandInsn covers every opcode whose entire encoding is the single
// opcode byte: stack and arithmetic operators, array element access,
// conversions, comparisons, returns, and the monitor instructions.
type NoOperandInsn struct{ Op byte }

func (i NoOperandInsn) Opcode() byte { return i.Op }
func (NoOperandInsn) Size() uint32   { return 1 }

// BiPushInsn is bipush: a single signed byte operand.
type BiPushInsn struct{ Value int8 }

func (BiPushInsn) Opcode() byte { return OpBipush }
func (BiPushInsn) Size() uint32 { return 2 }

// SiPushInsn is sipush: a signed 16-bit operand.
type SiPushInsn struct{ Value int16 }

func (SiPushInsn) Opcode() byte { return OpSipush }
func (SiPushInsn) Size() uint32 { return 3 }

// LdcInsn is ldc: a 1-byte constant pool index.
type LdcInsn struct{ Index uint8 }

func (LdcInsn) Opcode() byte { return OpLdc }
func (LdcInsn) Size() uint32 { return 2 }

// LdcWInsn is ldc_w: a 2-byte constant pool index.
type LdcWInsn struct{ Index uint16 }

func (LdcWInsn) Opcode() byte { return OpLdcW }
func (LdcWInsn) Size() uint32 { return 3 }

// Ldc2WInsn is ldc2_w: a 2-byte constant pool index for a Long or Double.
type Ldc2WInsn struct{ Index uint16 }

func (Ldc2WInsn) Opcode() byte { return OpLdc2W }
func (Ldc2WInsn) Size() uint32 { return 3 }

// loadStoreSize is the encoded size of any of the ten local-variable
// accessor families below: one byte for the short forms (index 0-3),
// two bytes (opcode plus index) otherwise.
func loadStoreSize(index uint8) uint32 {
	if index <= 3 {
		return 1
	}
	return 2
}

// IConstInsn is the iconst family (iconst_m1..iconst_5), carrying the
// pushed int value regardless of which short-form opcode produced it.
type IConstInsn struct{ Value int32 }

func (i IConstInsn) Opcode() byte { return byte(OpIConst0 + i.Value) }
func (IConstInsn) Size() uint32   { return 1 }

// LConstInsn is the lconst family (lconst_0, lconst_1).
type LConstInsn struct{ Value int64 }

func (i LConstInsn) Opcode() byte { return byte(OpLConst0 + i.Value) }
func (LConstInsn) Size() uint32   { return 1 }

// FConstInsn is the fconst family (fconst_0..fconst_2).
type FConstInsn struct{ Value float32 }

func (i FConstInsn) Opcode() byte { return byte(int32(OpFConst0) + int32(i.Value)) }
func (FConstInsn) Size() uint32   { return 1 }

// DConstInsn is the dconst family (dconst_0, dconst_1).
type DConstInsn struct{ Value float64 }

func (i DConstInsn) Opcode() byte { return byte(int32(OpDConst0) + int32(i.Value)) }
func (DConstInsn) Size() uint32   { return 1 }

// ILoadInsn is iload, normalized from either the short form (iload_0..
// iload_3) or the long form (iload plus a 1-byte index): both decode to
// the same Index-carrying shape, and encode picks the wire form by
// value, short form for indices 0-3 and long form otherwise.
type ILoadInsn struct{ Index uint8 }

func (i ILoadInsn) Opcode() byte { return shortFormOpcode(i.Index, OpILoad0, OpILoad) }
func (i ILoadInsn) Size() uint32 { return loadStoreSize(i.Index) }

// LLoadInsn is lload, normalized the same way as ILoadInsn.
type LLoadInsn struct{ Index uint8 }

func (i LLoadInsn) Opcode() byte { return shortFormOpcode(i.Index, OpLLoad0, OpLLoad) }
func (i LLoadInsn) Size() uint32 { return loadStoreSize(i.Index) }

// FLoadInsn is fload, normalized the same way as ILoadInsn.
type FLoadInsn struct{ Index uint8 }

func (i FLoadInsn) Opcode() byte { return shortFormOpcode(i.Index, OpFLoad0, OpFLoad) }
func (i FLoadInsn) Size() uint32 { return loadStoreSize(i.Index) }

// DLoadInsn is dload, normalized the same way as ILoadInsn.
type DLoadInsn struct{ Index uint8 }

func (i DLoadInsn) Opcode() byte { return shortFormOpcode(i.Index, OpDLoad0, OpDLoad) }
func (i DLoadInsn) Size() uint32 { return loadStoreSize(i.Index) }

// ALoadInsn is aload, normalized the same way as ILoadInsn.
type ALoadInsn struct{ Index uint8 }

func (i ALoadInsn) Opcode() byte { return shortFormOpcode(i.Index, OpALoad0, OpALoad) }
func (i ALoadInsn) Size() uint32 { return loadStoreSize(i.Index) }

// IStoreInsn is istore, normalized the same way as ILoadInsn.
type IStoreInsn struct{ Index uint8 }

func (i IStoreInsn) Opcode() byte { return shortFormOpcode(i.Index, OpIStore0, OpIStore) }
func (i IStoreInsn) Size() uint32 { return loadStoreSize(i.Index) }

// LStoreInsn is lstore, normalized the same way as ILoadInsn.
type LStoreInsn struct{ Index uint8 }

func (i LStoreInsn) Opcode() byte { return shortFormOpcode(i.Index, OpLStore0, OpLStore) }
func (i LStoreInsn) Size() uint32 { return loadStoreSize(i.Index) }

// FStoreInsn is fstore, normalized the same way as ILoadInsn.
type FStoreInsn struct{ Index uint8 }

func (i FStoreInsn) Opcode() byte { return shortFormOpcode(i.Index, OpFStore0, OpFStore) }
func (i FStoreInsn) Size() uint32 { return loadStoreSize(i.Index) }

// DStoreInsn is dstore, normalized the same way as ILoadInsn.
type DStoreInsn struct{ Index uint8 }

func (i DStoreInsn) Opcode() byte { return shortFormOpcode(i.Index, OpDStore0, OpDStore) }
func (i DStoreInsn) Size() uint32 { return loadStoreSize(i.Index) }

// AStoreInsn is astore, normalized the same way as ILoadInsn.
type AStoreInsn struct{ Index uint8 }

func (i AStoreInsn) Opcode() byte { return shortFormOpcode(i.Index, OpAStore0, OpAStore) }
func (i AStoreInsn) Size() uint32 { return loadStoreSize(i.Index) }

// RetInsn is ret: a 1-byte local index. Unlike the other local-variable
// accessors, ret has no short form.
type RetInsn struct{ Index uint8 }

func (RetInsn) Opcode() byte { return OpRet }
func (RetInsn) Size() uint32 { return 2 }

// shortFormOpcode picks the short-form opcode (shortBase+index) for
// index 0-3, and the long form (longOp, followed on the wire by an
// explicit index byte) otherwise.
func shortFormOpcode(index uint8, shortBase, longOp byte) byte {
	if index <= 3 {
		return shortBase + index
	}
	return longOp
}

// IIncInsn is iinc: a 1-byte local index and a signed 1-byte increment.
type IIncInsn struct {
	Index uint8
	Const int8
}

func (IIncInsn) Opcode() byte { return OpIInc }
func (IIncInsn) Size() uint32 { return 3 }

// BranchInsn covers the conditional branches, goto, jsr, ifnull and
// ifnonnull: all take a signed 16-bit branch offset.
type BranchInsn struct {
	Op     byte
	Offset int16
}

func (i BranchInsn) Opcode() byte { return i.Op }
func (BranchInsn) Size() uint32   { return 3 }

// GotoWInsn is goto_w: a signed 32-bit branch offset.
type GotoWInsn struct{ Offset int32 }

func (GotoWInsn) Opcode() byte { return OpGotoW }
func (GotoWInsn) Size() uint32 { return 5 }

// JsrWInsn is jsr_w: a signed 32-bit branch offset.
type JsrWInsn struct{ Offset int32 }

func (JsrWInsn) Opcode() byte { return OpJsrW }
func (JsrWInsn) Size() uint32 { return 5 }

// TableSwitchInsn is tableswitch. Padding is the number of zero bytes
// between the opcode and the default offset, needed to align the first
// operand on a 4-byte boundary; it is retained verbatim so re-encoding
// reproduces the original padding.
type TableSwitchInsn struct {
	Padding      int
	Default      int32
	Low          int32
	High         int32
	JumpTargets  []int32
}

func (TableSwitchInsn) Opcode() byte { return OpTableSwitch }
func (i TableSwitchInsn) Size() uint32 {
	return uint32(1 + i.Padding + 12 + len(i.JumpTargets)*4)
}

// LookupPair is one match/offset row of a lookupswitch table.
type LookupPair struct {
	Match  int32
	Offset int32
}

// LookupSwitchInsn is lookupswitch.
type LookupSwitchInsn struct {
	Padding int
	Default int32
	Pairs   []LookupPair
}

func (LookupSwitchInsn) Opcode() byte { return OpLookupSwitch }
func (i LookupSwitchInsn) Size() uint32 {
	return uint32(1 + i.Padding + 8 + len(i.Pairs)*8)
}

// RefInsn covers every opcode whose sole operand is a 2-byte constant
// pool index: the field and method accessors, new, anewarray, checkcast
// and instanceof.
type RefInsn struct {
	Op    byte
	Index uint16
}

func (i RefInsn) Opcode() byte { return i.Op }
func (RefInsn) Size() uint32   { return 3 }

// InvokeInterfaceInsn is invokeinterface: a 2-byte method index, a count
// byte, and a reserved zero byte.
type InvokeInterfaceInsn struct {
	Index uint16
	Count uint8
}

func (InvokeInterfaceInsn) Opcode() byte { return OpInvokeInterface }
func (InvokeInterfaceInsn) Size() uint32 { return 5 }

// InvokeDynamicInsn is invokedynamic: a 2-byte bootstrap call site index
// and two reserved zero bytes.
type InvokeDynamicInsn struct{ Index uint16 }

func (InvokeDynamicInsn) Opcode() byte { return OpInvokeDynamic }
func (InvokeDynamicInsn) Size() uint32 { return 5 }

// NewArrayInsn is newarray: a 1-byte primitive array type code.
type NewArrayInsn struct{ AType uint8 }

func (NewArrayInsn) Opcode() byte { return OpNewArray }
func (NewArrayInsn) Size() uint32 { return 2 }

// MultiANewArrayInsn is multianewarray: a 2-byte class index and a
// 1-byte dimension count.
type MultiANewArrayInsn struct {
	Index      uint16
	Dimensions uint8
}

func (MultiANewArrayInsn) Opcode() byte { return OpMultiANewArray }
func (MultiANewArrayInsn) Size() uint32 { return 4 }

// WideVarInsn is a wide-prefixed local variable accessor: the wide byte,
// the wrapped opcode, and a 2-byte index.
type WideVarInsn struct {
	Op    byte
	Index uint16
}

func (WideVarInsn) Opcode() byte { return OpWide }
func (WideVarInsn) Size() uint32 { return 4 }

// WideIIncInsn is the wide-prefixed form of iinc: a 2-byte index and a
// signed 2-byte increment.
type WideIIncInsn struct {
	Index uint16
	Const int16
}

func (WideIIncInsn) Opcode() byte { return OpWide }
func (WideIIncInsn) Size() uint32 { return 6 }

var noOperandOpcodes = map[byte]bool{
	OpNop: true, OpAConstNull: true,
	OpIALoad: true, OpLALoad: true, OpFALoad: true, OpDALoad: true,
	OpAALoad: true, OpBALoad: true, OpCALoad: true, OpSALoad: true,
	OpIAStore: true, OpLAStore: true, OpFAStore: true, OpDAStore: true,
	OpAAStore: true, OpBAStore: true, OpCAStore: true, OpSAStore: true,
	OpPop: true, OpPop2: true,
	OpDup: true, OpDupX1: true, OpDupX2: true,
	OpDup2: true, OpDup2X1: true, OpDup2X2: true, OpSwap: true,
	OpIAdd: true, OpLAdd: true, OpFAdd: true, OpDAdd: true,
	OpISub: true, OpLSub: true, OpFSub: true, OpDSub: true,
	OpIMul: true, OpLMul: true, OpFMul: true, OpDMul: true,
	OpIDiv: true, OpLDiv: true, OpFDiv: true, OpDDiv: true,
	OpIRem: true, OpLRem: true, OpFRem: true, OpDRem: true,
	OpINeg: true, OpLNeg: true, OpFNeg: true, OpDNeg: true,
	OpIShl: true, OpLShl: true, OpIShr: true, OpLShr: true,
	OpIUShr: true, OpLUShr: true,
	OpIAnd: true, OpLAnd: true, OpIOr: true, OpLOr: true, OpIXor: true, OpLXor: true,
	OpI2L: true, OpI2F: true, OpI2D: true,
	OpL2I: true, OpL2F: true, OpL2D: true,
	OpF2I: true, OpF2L: true, OpF2D: true,
	OpD2I: true, OpD2L: true, OpD2F: true,
	OpI2B: true, OpI2C: true, OpI2S: true,
	OpLCmp: true, OpFCmpl: true, OpFCmpg: true, OpDCmpl: true, OpDCmpg: true,
	OpIReturn: true, OpLReturn: true, OpFReturn: true, OpDReturn: true,
	OpAReturn: true, OpReturn: true,
	OpArrayLength: true, OpAThrow: true,
	OpMonitorEnter: true, OpMonitorExit: true,
}

var refInsnOpcodes = map[byte]bool{
	OpGetStatic: true, OpPutStatic: true, OpGetField: true, OpPutField: true,
	OpInvokeVirtual: true, OpInvokeSpecial: true, OpInvokeStatic: true,
	OpNew: true, OpANewArray: true, OpCheckCast: true, OpInstanceOf: true,
}

var branchInsnOpcodes = map[byte]bool{
	OpIfeq: true, OpIfne: true, OpIflt: true, OpIfge: true, OpIfgt: true, OpIfle: true,
	OpIfIcmpeq: true, OpIfIcmpne: true, OpIfIcmplt: true, OpIfIcmpge: true,
	OpIfIcmpgt: true, OpIfIcmple: true,
	OpIfAcmpeq: true, OpIfAcmpne: true,
	OpGoto: true, OpJsr: true,
	OpIfNull: true, OpIfNonNull: true,
}

// decodeInstructions reads a Code attribute's count-prefixed bytecode
// stream and disassembles it into individual Instructions.
func decodeInstructions(d *decoder) ([]Instruction, error) {
	codeLength := d.u4()
	if d.err != nil {
		return nil, d.err
	}
	raw := d.bytes(int(codeLength))
	if d.err != nil {
		return nil, d.err
	}

	rd := bytes.NewReader(raw)
	cd := &decoder{r: rd}
	var code []Instruction
	for rd.Len() > 0 {
		// The opcode offset comes from the bytes actually consumed: a
		// long-form load/store with index 0-3 reads two bytes but reports
		// the one-byte Size of the short form it re-encodes as.
		opcodePos := len(raw) - rd.Len()
		op := cd.u1()
		insn, err := decodeOneInstruction(cd, op, opcodePos)
		if err != nil {
			return nil, err
		}
		if cd.err != nil {
			return nil, cd.err
		}
		code = append(code, insn)
	}
	return code, nil
}

// decodeLoadStore recognizes both wire forms of a local-variable
// accessor family (short form shortBase..shortBase+3, long form longOp
// plus an explicit index byte) and returns the normalized index; ok is
// false if op belongs to neither form.
func decodeLoadStore(d *decoder, op, shortBase, longOp byte) (index uint8, ok bool) {
	switch {
	case op == longOp:
		return d.u1(), true
	case op >= shortBase && op <= shortBase+3:
		return op - shortBase, true
	}
	return 0, false
}

func decodeOneInstruction(d *decoder, op byte, opcodePos int) (Instruction, error) {
	switch {
	case op >= OpIConstM1 && op <= OpIConst5:
		return IConstInsn{Value: int32(op) - OpIConst0}, nil
	case op == OpLConst0 || op == OpLConst1:
		return LConstInsn{Value: int64(op) - OpLConst0}, nil
	case op >= OpFConst0 && op <= OpFConst2:
		return FConstInsn{Value: float32(int32(op) - OpFConst0)}, nil
	case op == OpDConst0 || op == OpDConst1:
		return DConstInsn{Value: float64(int32(op) - OpDConst0)}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpILoad0, OpILoad); ok {
		return ILoadInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpLLoad0, OpLLoad); ok {
		return LLoadInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpFLoad0, OpFLoad); ok {
		return FLoadInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpDLoad0, OpDLoad); ok {
		return DLoadInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpALoad0, OpALoad); ok {
		return ALoadInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpIStore0, OpIStore); ok {
		return IStoreInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpLStore0, OpLStore); ok {
		return LStoreInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpFStore0, OpFStore); ok {
		return FStoreInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpDStore0, OpDStore); ok {
		return DStoreInsn{Index: idx}, nil
	}
	if idx, ok := decodeLoadStore(d, op, OpAStore0, OpAStore); ok {
		return AStoreInsn{Index: idx}, nil
	}
	if op == OpRet {
		return RetInsn{Index: d.u1()}, nil
	}

	switch {
	case noOperandOpcodes[op]:
		return NoOperandInsn{Op: op}, nil
	case refInsnOpcodes[op]:
		return RefInsn{Op: op, Index: d.u2()}, nil
	case branchInsnOpcodes[op]:
		return BranchInsn{Op: op, Offset: int16(d.u2())}, nil
	}

	switch op {
	case OpBipush:
		return BiPushInsn{Value: int8(d.u1())}, nil
	case OpSipush:
		return SiPushInsn{Value: int16(d.u2())}, nil
	case OpLdc:
		return LdcInsn{Index: d.u1()}, nil
	case OpLdcW:
		return LdcWInsn{Index: d.u2()}, nil
	case OpLdc2W:
		return Ldc2WInsn{Index: d.u2()}, nil
	case OpIInc:
		return IIncInsn{Index: d.u1(), Const: int8(d.u1())}, nil
	case OpGotoW:
		return GotoWInsn{Offset: int32(d.u4())}, nil
	case OpJsrW:
		return JsrWInsn{Offset: int32(d.u4())}, nil
	case OpTableSwitch:
		return decodeTableSwitch(d, opcodePos)
	case OpLookupSwitch:
		return decodeLookupSwitch(d, opcodePos)
	case OpInvokeInterface:
		index := d.u2()
		count := d.u1()
		d.u1() // reserved
		return InvokeInterfaceInsn{Index: index, Count: count}, nil
	case OpInvokeDynamic:
		index := d.u2()
		d.u2() // reserved
		return InvokeDynamicInsn{Index: index}, nil
	case OpNewArray:
		return NewArrayInsn{AType: d.u1()}, nil
	case OpMultiANewArray:
		return MultiANewArrayInsn{Index: d.u2(), Dimensions: d.u1()}, nil
	case OpWide:
		return decodeWide(d)
	default:
		return nil, ErrUnknownOpcode
	}
}

func switchPadding(opcodePos int) int {
	return (4 - (opcodePos+1)%4) % 4
}

func decodeTableSwitch(d *decoder, opcodePos int) (Instruction, error) {
	padding := switchPadding(opcodePos)
	for i := 0; i < padding; i++ {
		d.u1()
	}
	def := int32(d.u4())
	low := int32(d.u4())
	high := int32(d.u4())
	n := int(high - low + 1)
	if n < 0 {
		n = 0
	}
	targets := make([]int32, n)
	for i := range targets {
		targets[i] = int32(d.u4())
	}
	return TableSwitchInsn{Padding: padding, Default: def, Low: low, High: high, JumpTargets: targets}, d.err
}

func decodeLookupSwitch(d *decoder, opcodePos int) (Instruction, error) {
	padding := switchPadding(opcodePos)
	for i := 0; i < padding; i++ {
		d.u1()
	}
	def := int32(d.u4())
	npairs := d.u4()
	pairs := make([]LookupPair, npairs)
	for i := range pairs {
		pairs[i] = LookupPair{Match: int32(d.u4()), Offset: int32(d.u4())}
	}
	return LookupSwitchInsn{Padding: padding, Default: def, Pairs: pairs}, d.err
}

func decodeWide(d *decoder) (Instruction, error) {
	op := d.u1()
	if op == OpIInc {
		return WideIIncInsn{Index: d.u2(), Const: int16(d.u2())}, d.err
	}
	return WideVarInsn{Op: op, Index: d.u2()}, d.err
}

// encodeInstructions writes a Code attribute's length-prefixed bytecode
// stream. The length is the sum of each Instruction's Size; load/store
// instructions are written in the form their index selects (see
// encodeLoadStore), so a long-form load/store with index 0-3 comes back
// as its short form.
func encodeInstructions(e *encoder, code []Instruction) error {
	var length uint32
	for _, insn := range code {
		length += insn.Size()
	}
	e.u4(length)
	for _, insn := range code {
		encodeOneInstruction(e, insn)
	}
	return e.err
}

// encodeLoadStore writes the short form (shortBase+index) for index 0-3,
// or the long form (longOp followed by an explicit index byte) otherwise.
func encodeLoadStore(e *encoder, index uint8, shortBase, longOp byte) {
	if index <= 3 {
		e.u1(shortBase + index)
		return
	}
	e.u1(longOp)
	e.u1(index)
}

func encodeOneInstruction(e *encoder, insn Instruction) {
	switch v := insn.(type) {
	case NoOperandInsn:
		e.u1(v.Op)
	case IConstInsn:
		e.u1(byte(OpIConst0 + v.Value))
	case LConstInsn:
		e.u1(byte(OpLConst0 + v.Value))
	case FConstInsn:
		e.u1(byte(int32(OpFConst0) + int32(v.Value)))
	case DConstInsn:
		e.u1(byte(int32(OpDConst0) + int32(v.Value)))
	case ILoadInsn:
		encodeLoadStore(e, v.Index, OpILoad0, OpILoad)
	case LLoadInsn:
		encodeLoadStore(e, v.Index, OpLLoad0, OpLLoad)
	case FLoadInsn:
		encodeLoadStore(e, v.Index, OpFLoad0, OpFLoad)
	case DLoadInsn:
		encodeLoadStore(e, v.Index, OpDLoad0, OpDLoad)
	case ALoadInsn:
		encodeLoadStore(e, v.Index, OpALoad0, OpALoad)
	case IStoreInsn:
		encodeLoadStore(e, v.Index, OpIStore0, OpIStore)
	case LStoreInsn:
		encodeLoadStore(e, v.Index, OpLStore0, OpLStore)
	case FStoreInsn:
		encodeLoadStore(e, v.Index, OpFStore0, OpFStore)
	case DStoreInsn:
		encodeLoadStore(e, v.Index, OpDStore0, OpDStore)
	case AStoreInsn:
		encodeLoadStore(e, v.Index, OpAStore0, OpAStore)
	case RetInsn:
		e.u1(OpRet)
		e.u1(v.Index)
	case RefInsn:
		e.u1(v.Op)
		e.u2(v.Index)
	case BranchInsn:
		e.u1(v.Op)
		e.u2(uint16(v.Offset))
	case BiPushInsn:
		e.u1(OpBipush)
		e.u1(uint8(v.Value))
	case SiPushInsn:
		e.u1(OpSipush)
		e.u2(uint16(v.Value))
	case LdcInsn:
		e.u1(OpLdc)
		e.u1(v.Index)
	case LdcWInsn:
		e.u1(OpLdcW)
		e.u2(v.Index)
	case Ldc2WInsn:
		e.u1(OpLdc2W)
		e.u2(v.Index)
	case IIncInsn:
		e.u1(OpIInc)
		e.u1(v.Index)
		e.u1(uint8(v.Const))
	case GotoWInsn:
		e.u1(OpGotoW)
		e.u4(uint32(v.Offset))
	case JsrWInsn:
		e.u1(OpJsrW)
		e.u4(uint32(v.Offset))
	case TableSwitchInsn:
		e.u1(OpTableSwitch)
		for i := 0; i < v.Padding; i++ {
			e.u1(0)
		}
		e.u4(uint32(v.Default))
		e.u4(uint32(v.Low))
		e.u4(uint32(v.High))
		for _, t := range v.JumpTargets {
			e.u4(uint32(t))
		}
	case LookupSwitchInsn:
		e.u1(OpLookupSwitch)
		for i := 0; i < v.Padding; i++ {
			e.u1(0)
		}
		e.u4(uint32(v.Default))
		e.u4(uint32(len(v.Pairs)))
		for _, p := range v.Pairs {
			e.u4(uint32(p.Match))
			e.u4(uint32(p.Offset))
		}
	case InvokeInterfaceInsn:
		e.u1(OpInvokeInterface)
		e.u2(v.Index)
		e.u1(v.Count)
		e.u1(0)
	case InvokeDynamicInsn:
		e.u1(OpInvokeDynamic)
		e.u2(v.Index)
		e.u2(0)
	case NewArrayInsn:
		e.u1(OpNewArray)
		e.u1(v.AType)
	case MultiANewArrayInsn:
		e.u1(OpMultiANewArray)
		e.u2(v.Index)
		e.u1(v.Dimensions)
	case WideVarInsn:
		e.u1(OpWide)
		e.u1(v.Op)
		e.u2(v.Index)
	case WideIIncInsn:
		e.u1(OpWide)
		e.u1(OpIInc)
		e.u2(v.Index)
		e.u2(uint16(v.Const))
	}
}
