// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "io"

// Attribute is the tagged-union interface every attribute_info payload
// implements. AttributeName returns the constant-pool string the writer
// must resolve to an index; Unknown carries its own name instead of a
// fixed one.
type Attribute interface {
	AttributeName() string
}

// ExceptionEntry is one row of a Code attribute's exception_table.
type ExceptionEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// CodeAttribute is the method body: the bytecode, its exception handlers,
// and any attributes nested inside Code (StackMapTable, LineNumberTable, ...).
type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []Instruction
	ExceptionTable []ExceptionEntry
	Attributes     []Attribute
}

func (CodeAttribute) AttributeName() string { return "Code" }

type ConstantValueAttribute struct{ ValueIndex uint16 }

func (ConstantValueAttribute) AttributeName() string { return "ConstantValue" }

type StackMapTableAttribute struct{ Frames []StackMapFrame }

func (StackMapTableAttribute) AttributeName() string { return "StackMapTable" }

type ExceptionsAttribute struct{ Indices []uint16 }

func (ExceptionsAttribute) AttributeName() string { return "Exceptions" }

type InnerClass struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags []AccessFlag
}

type InnerClassesAttribute struct{ Classes []InnerClass }

func (InnerClassesAttribute) AttributeName() string { return "InnerClasses" }

type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

func (EnclosingMethodAttribute) AttributeName() string { return "EnclosingMethod" }

type SyntheticAttribute struct{}

func (SyntheticAttribute) AttributeName() string { return "Synthetic" }

type SignatureAttribute struct{ SignatureIndex uint16 }

func (SignatureAttribute) AttributeName() string { return "Signature" }

type SourceFileAttribute struct{ SourceFileIndex uint16 }

func (SourceFileAttribute) AttributeName() string { return "SourceFile" }

type SourceDebugExtensionAttribute struct{ DebugExtension []byte }

func (SourceDebugExtensionAttribute) AttributeName() string { return "SourceDebugExtension" }

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

type LineNumberTableAttribute struct{ Entries []LineNumberEntry }

func (LineNumberTableAttribute) AttributeName() string { return "LineNumberTable" }

type LocalVariableEntry struct {
	StartPC        uint16
	Length         uint16
	NameIndex      uint16
	DescriptorIndex uint16
	Index          uint16
}

type LocalVariableTableAttribute struct{ Entries []LocalVariableEntry }

func (LocalVariableTableAttribute) AttributeName() string { return "LocalVariableTable" }

type LocalVariableTypeEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	SignatureIndex  uint16
	Index           uint16
}

type LocalVariableTypeTableAttribute struct{ Entries []LocalVariableTypeEntry }

func (LocalVariableTypeTableAttribute) AttributeName() string { return "LocalVariableTypeTable" }

type DeprecatedAttribute struct{}

func (DeprecatedAttribute) AttributeName() string { return "Deprecated" }

// ElementValue is the tagged union of annotation element values.
type ElementValue interface {
	elementValue()
}

type ConstElementValue struct {
	Tag             byte
	ConstValueIndex uint16
}

func (ConstElementValue) elementValue() {}

type ClassElementValue struct{ ClassInfoIndex uint16 }

func (ClassElementValue) elementValue() {}

type EnumElementValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

func (EnumElementValue) elementValue() {}

type AnnotationElementValue struct{ Annotation Annotation }

func (AnnotationElementValue) elementValue() {}

type ArrayElementValue struct{ Values []ElementValue }

func (ArrayElementValue) elementValue() {}

type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

type RuntimeVisibleAnnotationsAttribute struct{ Annotations []Annotation }

func (RuntimeVisibleAnnotationsAttribute) AttributeName() string { return "RuntimeVisibleAnnotations" }

type RuntimeInvisibleAnnotationsAttribute struct{ Annotations []Annotation }

func (RuntimeInvisibleAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleAnnotations"
}

type RuntimeVisibleParameterAnnotationsAttribute struct{ Parameters [][]Annotation }

func (RuntimeVisibleParameterAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleParameterAnnotations"
}

type RuntimeInvisibleParameterAnnotationsAttribute struct{ Parameters [][]Annotation }

func (RuntimeInvisibleParameterAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleParameterAnnotations"
}

// TypePathEntry is one step of a type annotation's target_path.
type TypePathEntry struct {
	TypePathKind       byte
	TypeArgumentIndex  byte
}

// TargetInfo is the tagged union discriminated by a type annotation's
// target_type byte (JVMS 4.7.20.1).
type TargetInfo interface {
	targetInfo()
}

type TypeParameterTarget struct {
	TargetType         byte
	TypeParameterIndex byte
}

func (TypeParameterTarget) targetInfo() {}

type SupertypeTarget struct{ SupertypeIndex uint16 }

func (SupertypeTarget) targetInfo() {}

type TypeParameterBoundTarget struct {
	TargetType         byte
	TypeParameterIndex byte
	BoundIndex         byte
}

func (TypeParameterBoundTarget) targetInfo() {}

type EmptyTarget struct{ TargetType byte }

func (EmptyTarget) targetInfo() {}

type FormalParameterTarget struct{ FormalParameterIndex byte }

func (FormalParameterTarget) targetInfo() {}

type ThrowsTarget struct{ ThrowsTypeIndex uint16 }

func (ThrowsTarget) targetInfo() {}

type LocalVarTargetEntry struct {
	StartPC uint16
	Length  uint16
	Index   uint16
}

type LocalVarTarget struct {
	TargetType byte
	Table      []LocalVarTargetEntry
}

func (LocalVarTarget) targetInfo() {}

type CatchTarget struct{ ExceptionTableIndex uint16 }

func (CatchTarget) targetInfo() {}

type OffsetTarget struct {
	TargetType byte
	Offset     uint16
}

func (OffsetTarget) targetInfo() {}

type TypeArgumentTarget struct {
	TargetType        byte
	Offset            uint16
	TypeArgumentIndex byte
}

func (TypeArgumentTarget) targetInfo() {}

type TypeAnnotation struct {
	TargetInfo TargetInfo
	TargetPath []TypePathEntry
	Annotation Annotation
}

type RuntimeVisibleTypeAnnotationsAttribute struct{ Annotations []TypeAnnotation }

func (RuntimeVisibleTypeAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleTypeAnnotations"
}

type RuntimeInvisibleTypeAnnotationsAttribute struct{ Annotations []TypeAnnotation }

func (RuntimeInvisibleTypeAnnotationsAttribute) AttributeName() string {
	return "RuntimeInvisibleTypeAnnotations"
}

type AnnotationDefaultAttribute struct{ Value ElementValue }

func (AnnotationDefaultAttribute) AttributeName() string { return "AnnotationDefault" }

type BootstrapMethod struct {
	BootstrapMethodRef  uint16
	BootstrapArguments  []uint16
}

type BootstrapMethodsAttribute struct{ Methods []BootstrapMethod }

func (BootstrapMethodsAttribute) AttributeName() string { return "BootstrapMethods" }

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags []AccessFlag
}

type MethodParametersAttribute struct{ Parameters []MethodParameter }

func (MethodParametersAttribute) AttributeName() string { return "MethodParameters" }

type ModuleRequires struct {
	RequiresIndex        uint16
	RequiresFlags        []AccessFlag
	RequiresVersionIndex uint16
}

type ModuleExports struct {
	ExportsIndex   uint16
	ExportsFlags   []AccessFlag
	ExportsToIndex []uint16
}

type ModuleOpens struct {
	OpensIndex   uint16
	OpensFlags   []AccessFlag
	OpensToIndex []uint16
}

type ModuleProvides struct {
	ProvidesIndex     uint16
	ProvidesWithIndex []uint16
}

type ModuleAttribute struct {
	ModuleNameIndex    uint16
	ModuleFlags        []AccessFlag
	ModuleVersionIndex uint16
	Requires           []ModuleRequires
	Exports            []ModuleExports
	Opens              []ModuleOpens
	Uses               []uint16
	Provides           []ModuleProvides
}

func (ModuleAttribute) AttributeName() string { return "Module" }

type ModuleMainClassAttribute struct{ MainClassIndex uint16 }

func (ModuleMainClassAttribute) AttributeName() string { return "ModuleMainClass" }

type ModulePackagesAttribute struct{ PackageIndices []uint16 }

func (ModulePackagesAttribute) AttributeName() string { return "ModulePackages" }

type NestHostAttribute struct{ HostClassIndex uint16 }

func (NestHostAttribute) AttributeName() string { return "NestHost" }

type NestMembersAttribute struct{ Classes []uint16 }

func (NestMembersAttribute) AttributeName() string { return "NestMembers" }

type PermittedSubclassesAttribute struct{ Classes []uint16 }

func (PermittedSubclassesAttribute) AttributeName() string { return "PermittedSubclasses" }

type RecordComponent struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

type RecordAttribute struct{ Components []RecordComponent }

func (RecordAttribute) AttributeName() string { return "Record" }

// UnknownAttribute preserves an unrecognized attribute's payload verbatim.
type UnknownAttribute struct {
	Name string
	Data []byte
}

func (u UnknownAttribute) AttributeName() string { return u.Name }

// decodeAttributes reads a count-prefixed attribute list, dispatching
// each entry by the name its name_index resolves to in pool.
func decodeAttributes(d *decoder, pool []Constant, depth int) ([]Attribute, error) {
	if depth < 0 {
		return nil, ErrAttributeNestingTooDeep
	}
	count := d.u2()
	if d.err != nil {
		return nil, d.err
	}
	attrs := make([]Attribute, count)
	for i := range attrs {
		nameIndex := d.u2()
		length := d.u4()
		if d.err != nil {
			return nil, d.err
		}
		name, err := resolveUtf8(pool, nameIndex)
		if err != nil {
			return nil, err
		}
		body := io.LimitReader(d.r, int64(length))
		bd := &decoder{r: body}
		attr, err := decodeAttributeBody(bd, pool, name, length, depth)
		if err != nil {
			return nil, err
		}
		if bd.err != nil {
			return nil, bd.err
		}
		attrs[i] = attr
	}
	return attrs, nil
}

func decodeAttributeBody(d *decoder, pool []Constant, name string, length uint32, depth int) (Attribute, error) {
	switch name {
	case "ConstantValue":
		return ConstantValueAttribute{ValueIndex: d.u2()}, d.err
	case "Code":
		maxStack := d.u2()
		maxLocals := d.u2()
		code, err := decodeInstructions(d)
		if err != nil {
			return nil, err
		}
		excCount := d.u2()
		exc := make([]ExceptionEntry, excCount)
		for i := range exc {
			exc[i] = ExceptionEntry{
				StartPC:   d.u2(),
				EndPC:     d.u2(),
				HandlerPC: d.u2(),
				CatchType: d.u2(),
			}
		}
		if d.err != nil {
			return nil, d.err
		}
		nested, err := decodeAttributes(d, pool, depth-1)
		if err != nil {
			return nil, err
		}
		return CodeAttribute{
			MaxStack:       maxStack,
			MaxLocals:      maxLocals,
			Code:           code,
			ExceptionTable: exc,
			Attributes:     nested,
		}, nil
	case "StackMapTable":
		return StackMapTableAttribute{Frames: decodeStackMapTable(d)}, d.err
	case "Exceptions":
		n := d.u2()
		idx := make([]uint16, n)
		for i := range idx {
			idx[i] = d.u2()
		}
		return ExceptionsAttribute{Indices: idx}, d.err
	case "InnerClasses":
		n := d.u2()
		classes := make([]InnerClass, n)
		for i := range classes {
			classes[i] = InnerClass{
				InnerClassInfoIndex:   d.u2(),
				OuterClassInfoIndex:   d.u2(),
				InnerNameIndex:        d.u2(),
				InnerClassAccessFlags: UnpackInnerClassFlags(d.u2()),
			}
		}
		return InnerClassesAttribute{Classes: classes}, d.err
	case "EnclosingMethod":
		return EnclosingMethodAttribute{ClassIndex: d.u2(), MethodIndex: d.u2()}, d.err
	case "Synthetic":
		return SyntheticAttribute{}, d.err
	case "Signature":
		return SignatureAttribute{SignatureIndex: d.u2()}, d.err
	case "SourceFile":
		return SourceFileAttribute{SourceFileIndex: d.u2()}, d.err
	case "SourceDebugExtension":
		return SourceDebugExtensionAttribute{DebugExtension: d.bytes(int(length))}, d.err
	case "LineNumberTable":
		n := d.u2()
		entries := make([]LineNumberEntry, n)
		for i := range entries {
			entries[i] = LineNumberEntry{StartPC: d.u2(), LineNumber: d.u2()}
		}
		return LineNumberTableAttribute{Entries: entries}, d.err
	case "LocalVariableTable":
		n := d.u2()
		entries := make([]LocalVariableEntry, n)
		for i := range entries {
			entries[i] = LocalVariableEntry{
				StartPC:         d.u2(),
				Length:          d.u2(),
				NameIndex:       d.u2(),
				DescriptorIndex: d.u2(),
				Index:           d.u2(),
			}
		}
		return LocalVariableTableAttribute{Entries: entries}, d.err
	case "LocalVariableTypeTable":
		n := d.u2()
		entries := make([]LocalVariableTypeEntry, n)
		for i := range entries {
			entries[i] = LocalVariableTypeEntry{
				StartPC:        d.u2(),
				Length:         d.u2(),
				NameIndex:      d.u2(),
				SignatureIndex: d.u2(),
				Index:          d.u2(),
			}
		}
		return LocalVariableTypeTableAttribute{Entries: entries}, d.err
	case "Deprecated":
		return DeprecatedAttribute{}, d.err
	case "RuntimeVisibleAnnotations":
		a, err := decodeAnnotations(d)
		return RuntimeVisibleAnnotationsAttribute{Annotations: a}, err
	case "RuntimeInvisibleAnnotations":
		a, err := decodeAnnotations(d)
		return RuntimeInvisibleAnnotationsAttribute{Annotations: a}, err
	case "RuntimeVisibleParameterAnnotations":
		p, err := decodeParameterAnnotations(d)
		return RuntimeVisibleParameterAnnotationsAttribute{Parameters: p}, err
	case "RuntimeInvisibleParameterAnnotations":
		p, err := decodeParameterAnnotations(d)
		return RuntimeInvisibleParameterAnnotationsAttribute{Parameters: p}, err
	case "AnnotationDefault":
		v, err := decodeElementValue(d)
		return AnnotationDefaultAttribute{Value: v}, err
	case "BootstrapMethods":
		n := d.u2()
		methods := make([]BootstrapMethod, n)
		for i := range methods {
			ref := d.u2()
			argCount := d.u2()
			args := make([]uint16, argCount)
			for j := range args {
				args[j] = d.u2()
			}
			methods[i] = BootstrapMethod{BootstrapMethodRef: ref, BootstrapArguments: args}
		}
		return BootstrapMethodsAttribute{Methods: methods}, d.err
	case "MethodParameters":
		n := d.u1()
		params := make([]MethodParameter, n)
		for i := range params {
			name := d.u2()
			params[i] = MethodParameter{NameIndex: name, AccessFlags: UnpackMethodParameterFlags(d.u2())}
		}
		return MethodParametersAttribute{Parameters: params}, d.err
	case "Module":
		return decodeModule(d)
	case "ModuleMainClass":
		return ModuleMainClassAttribute{MainClassIndex: d.u2()}, d.err
	case "ModulePackages":
		n := d.u2()
		idx := make([]uint16, n)
		for i := range idx {
			idx[i] = d.u2()
		}
		return ModulePackagesAttribute{PackageIndices: idx}, d.err
	case "NestHost":
		return NestHostAttribute{HostClassIndex: d.u2()}, d.err
	case "NestMembers":
		n := d.u2()
		classes := make([]uint16, n)
		for i := range classes {
			classes[i] = d.u2()
		}
		return NestMembersAttribute{Classes: classes}, d.err
	case "PermittedSubclasses":
		n := d.u2()
		classes := make([]uint16, n)
		for i := range classes {
			classes[i] = d.u2()
		}
		return PermittedSubclassesAttribute{Classes: classes}, d.err
	case "Record":
		n := d.u2()
		components := make([]RecordComponent, n)
		for i := range components {
			name := d.u2()
			descriptor := d.u2()
			attrs, err := decodeAttributes(d, pool, depth-1)
			if err != nil {
				return nil, err
			}
			components[i] = RecordComponent{NameIndex: name, DescriptorIndex: descriptor, Attributes: attrs}
		}
		return RecordAttribute{Components: components}, d.err
	case "RuntimeVisibleTypeAnnotations":
		a, err := decodeTypeAnnotations(d)
		return RuntimeVisibleTypeAnnotationsAttribute{Annotations: a}, err
	case "RuntimeInvisibleTypeAnnotations":
		a, err := decodeTypeAnnotations(d)
		return RuntimeInvisibleTypeAnnotationsAttribute{Annotations: a}, err
	default:
		return UnknownAttribute{Name: name, Data: d.bytes(int(length))}, d.err
	}
}

func decodeAnnotations(d *decoder) ([]Annotation, error) {
	n := d.u2()
	out := make([]Annotation, n)
	for i := range out {
		a, err := decodeAnnotation(d)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, d.err
}

func decodeParameterAnnotations(d *decoder) ([][]Annotation, error) {
	n := d.u1()
	out := make([][]Annotation, n)
	for i := range out {
		a, err := decodeAnnotations(d)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, d.err
}

func decodeAnnotation(d *decoder) (Annotation, error) {
	typeIndex := d.u2()
	n := d.u2()
	pairs := make([]ElementValuePair, n)
	for i := range pairs {
		nameIndex := d.u2()
		v, err := decodeElementValue(d)
		if err != nil {
			return Annotation{}, err
		}
		pairs[i] = ElementValuePair{ElementNameIndex: nameIndex, Value: v}
	}
	return Annotation{TypeIndex: typeIndex, ElementValuePairs: pairs}, d.err
}

func decodeElementValue(d *decoder) (ElementValue, error) {
	tag := d.u1()
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		return ConstElementValue{Tag: tag, ConstValueIndex: d.u2()}, d.err
	case 'c':
		return ClassElementValue{ClassInfoIndex: d.u2()}, d.err
	case 'e':
		return EnumElementValue{TypeNameIndex: d.u2(), ConstNameIndex: d.u2()}, d.err
	case '@':
		a, err := decodeAnnotation(d)
		return AnnotationElementValue{Annotation: a}, err
	case '[':
		n := d.u2()
		values := make([]ElementValue, n)
		for i := range values {
			v, err := decodeElementValue(d)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return ArrayElementValue{Values: values}, d.err
	default:
		return nil, ErrUnknownConstantTag
	}
}

func decodeTypeAnnotations(d *decoder) ([]TypeAnnotation, error) {
	n := d.u2()
	out := make([]TypeAnnotation, n)
	for i := range out {
		ti, err := decodeTargetInfo(d)
		if err != nil {
			return nil, err
		}
		pathLen := d.u1()
		path := make([]TypePathEntry, pathLen)
		for j := range path {
			path[j] = TypePathEntry{TypePathKind: d.u1(), TypeArgumentIndex: d.u1()}
		}
		a, err := decodeAnnotation(d)
		if err != nil {
			return nil, err
		}
		out[i] = TypeAnnotation{TargetInfo: ti, TargetPath: path, Annotation: a}
	}
	return out, d.err
}

func decodeTargetInfo(d *decoder) (TargetInfo, error) {
	targetType := d.u1()
	switch targetType {
	case 0x00, 0x01:
		return TypeParameterTarget{TargetType: targetType, TypeParameterIndex: d.u1()}, d.err
	case 0x10:
		return SupertypeTarget{SupertypeIndex: d.u2()}, d.err
	case 0x11, 0x12:
		idx := d.u1()
		bound := d.u1()
		return TypeParameterBoundTarget{TargetType: targetType, TypeParameterIndex: idx, BoundIndex: bound}, d.err
	case 0x13, 0x14, 0x15:
		return EmptyTarget{TargetType: targetType}, d.err
	case 0x16:
		return FormalParameterTarget{FormalParameterIndex: d.u1()}, d.err
	case 0x17:
		return ThrowsTarget{ThrowsTypeIndex: d.u2()}, d.err
	case 0x40, 0x41:
		n := d.u2()
		table := make([]LocalVarTargetEntry, n)
		for i := range table {
			table[i] = LocalVarTargetEntry{StartPC: d.u2(), Length: d.u2(), Index: d.u2()}
		}
		return LocalVarTarget{TargetType: targetType, Table: table}, d.err
	case 0x42:
		return CatchTarget{ExceptionTableIndex: d.u2()}, d.err
	case 0x43, 0x44, 0x45, 0x46:
		return OffsetTarget{TargetType: targetType, Offset: d.u2()}, d.err
	case 0x47, 0x48, 0x49, 0x4A, 0x4B:
		offset := d.u2()
		argIndex := d.u1()
		return TypeArgumentTarget{TargetType: targetType, Offset: offset, TypeArgumentIndex: argIndex}, d.err
	default:
		return nil, ErrUnknownConstantTag
	}
}

func decodeModule(d *decoder) (Attribute, error) {
	nameIndex := d.u2()
	flags := UnpackModuleFlags(d.u2())
	versionIndex := d.u2()

	requiresCount := d.u2()
	requires := make([]ModuleRequires, requiresCount)
	for i := range requires {
		requires[i] = ModuleRequires{
			RequiresIndex:        d.u2(),
			RequiresFlags:        UnpackModuleRequiresFlags(d.u2()),
			RequiresVersionIndex: d.u2(),
		}
	}

	exportsCount := d.u2()
	exports := make([]ModuleExports, exportsCount)
	for i := range exports {
		idx := d.u2()
		exportsFlags := UnpackModuleExportsFlags(d.u2())
		toCount := d.u2()
		to := make([]uint16, toCount)
		for j := range to {
			to[j] = d.u2()
		}
		exports[i] = ModuleExports{ExportsIndex: idx, ExportsFlags: exportsFlags, ExportsToIndex: to}
	}

	opensCount := d.u2()
	opens := make([]ModuleOpens, opensCount)
	for i := range opens {
		idx := d.u2()
		opensFlags := UnpackModuleOpensFlags(d.u2())
		toCount := d.u2()
		to := make([]uint16, toCount)
		for j := range to {
			to[j] = d.u2()
		}
		opens[i] = ModuleOpens{OpensIndex: idx, OpensFlags: opensFlags, OpensToIndex: to}
	}

	usesCount := d.u2()
	uses := make([]uint16, usesCount)
	for i := range uses {
		uses[i] = d.u2()
	}

	providesCount := d.u2()
	provides := make([]ModuleProvides, providesCount)
	for i := range provides {
		idx := d.u2()
		withCount := d.u2()
		with := make([]uint16, withCount)
		for j := range with {
			with[j] = d.u2()
		}
		provides[i] = ModuleProvides{ProvidesIndex: idx, ProvidesWithIndex: with}
	}

	return ModuleAttribute{
		ModuleNameIndex:    nameIndex,
		ModuleFlags:        flags,
		ModuleVersionIndex: versionIndex,
		Requires:           requires,
		Exports:            exports,
		Opens:              opens,
		Uses:               uses,
		Provides:           provides,
	}, d.err
}

// resolveUtf8 resolves index to its Utf8 string, rejecting any other tag.
func resolveUtf8(pool []Constant, index uint16) (string, error) {
	if index == 0 || int(index) >= len(pool) {
		return "", &InvalidConstantId{Index: index}
	}
	u, ok := pool[index].(Utf8)
	if !ok {
		return "", &ConstantTypeError{Index: index, Expected: "Utf8", Got: tagName(pool[index].Tag())}
	}
	return string(u.Bytes), nil
}

// findStringIndex scans pool for a Utf8 entry equal to s; the writer uses
// this to resolve an attribute's canonical name to a constant pool index.
func findStringIndex(pool []Constant, s string) (uint16, error) {
	for i, c := range pool {
		if u, ok := c.(Utf8); ok && string(u.Bytes) == s {
			return uint16(i), nil
		}
	}
	return 0, &StringNotFound{Value: s}
}

// encodeAttributes writes a count-prefixed attribute list using the
// length-backpatch protocol: reserve 6 bytes, write the payload, then
// seek back and fill in the resolved name index and computed length.
func encodeAttributes(e *encoder, w seeker, pool []Constant, attrs []Attribute) error {
	e.u2(uint16(len(attrs)))
	for _, a := range attrs {
		if e.err != nil {
			return e.err
		}
		nameIndex, err := findStringIndex(pool, a.AttributeName())
		if err != nil {
			return err
		}

		headerPos, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		e.u2(0)
		e.u4(0)

		if err := encodeAttributeBody(e, w, pool, a); err != nil {
			return err
		}
		if e.err != nil {
			return e.err
		}

		endPos, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		length := uint32(endPos - headerPos - 6)

		if _, err := w.Seek(headerPos, io.SeekStart); err != nil {
			return err
		}
		e.u2(nameIndex)
		e.u4(length)
		if e.err != nil {
			return e.err
		}
		if _, err := w.Seek(endPos, io.SeekStart); err != nil {
			return err
		}
	}
	return e.err
}

func encodeAttributeBody(e *encoder, w seeker, pool []Constant, a Attribute) error {
	switch v := a.(type) {
	case ConstantValueAttribute:
		e.u2(v.ValueIndex)
	case CodeAttribute:
		e.u2(v.MaxStack)
		e.u2(v.MaxLocals)
		if err := encodeInstructions(e, v.Code); err != nil {
			return err
		}
		e.u2(uint16(len(v.ExceptionTable)))
		for _, ex := range v.ExceptionTable {
			e.u2(ex.StartPC)
			e.u2(ex.EndPC)
			e.u2(ex.HandlerPC)
			e.u2(ex.CatchType)
		}
		return encodeAttributes(e, w, pool, v.Attributes)
	case StackMapTableAttribute:
		encodeStackMapTable(e, v.Frames)
	case ExceptionsAttribute:
		e.u2(uint16(len(v.Indices)))
		for _, idx := range v.Indices {
			e.u2(idx)
		}
	case InnerClassesAttribute:
		e.u2(uint16(len(v.Classes)))
		for _, ic := range v.Classes {
			e.u2(ic.InnerClassInfoIndex)
			e.u2(ic.OuterClassInfoIndex)
			e.u2(ic.InnerNameIndex)
			e.u2(PackInnerClassFlags(ic.InnerClassAccessFlags))
		}
	case EnclosingMethodAttribute:
		e.u2(v.ClassIndex)
		e.u2(v.MethodIndex)
	case SyntheticAttribute:
	case SignatureAttribute:
		e.u2(v.SignatureIndex)
	case SourceFileAttribute:
		e.u2(v.SourceFileIndex)
	case SourceDebugExtensionAttribute:
		e.bytes(v.DebugExtension)
	case LineNumberTableAttribute:
		e.u2(uint16(len(v.Entries)))
		for _, ln := range v.Entries {
			e.u2(ln.StartPC)
			e.u2(ln.LineNumber)
		}
	case LocalVariableTableAttribute:
		e.u2(uint16(len(v.Entries)))
		for _, lv := range v.Entries {
			e.u2(lv.StartPC)
			e.u2(lv.Length)
			e.u2(lv.NameIndex)
			e.u2(lv.DescriptorIndex)
			e.u2(lv.Index)
		}
	case LocalVariableTypeTableAttribute:
		e.u2(uint16(len(v.Entries)))
		for _, lv := range v.Entries {
			e.u2(lv.StartPC)
			e.u2(lv.Length)
			e.u2(lv.NameIndex)
			e.u2(lv.SignatureIndex)
			e.u2(lv.Index)
		}
	case DeprecatedAttribute:
	case RuntimeVisibleAnnotationsAttribute:
		encodeAnnotations(e, v.Annotations)
	case RuntimeInvisibleAnnotationsAttribute:
		encodeAnnotations(e, v.Annotations)
	case RuntimeVisibleParameterAnnotationsAttribute:
		encodeParameterAnnotations(e, v.Parameters)
	case RuntimeInvisibleParameterAnnotationsAttribute:
		encodeParameterAnnotations(e, v.Parameters)
	case AnnotationDefaultAttribute:
		encodeElementValue(e, v.Value)
	case BootstrapMethodsAttribute:
		e.u2(uint16(len(v.Methods)))
		for _, m := range v.Methods {
			e.u2(m.BootstrapMethodRef)
			e.u2(uint16(len(m.BootstrapArguments)))
			for _, arg := range m.BootstrapArguments {
				e.u2(arg)
			}
		}
	case MethodParametersAttribute:
		e.u1(uint8(len(v.Parameters)))
		for _, p := range v.Parameters {
			e.u2(p.NameIndex)
			e.u2(PackMethodParameterFlags(p.AccessFlags))
		}
	case ModuleAttribute:
		encodeModule(e, v)
	case ModuleMainClassAttribute:
		e.u2(v.MainClassIndex)
	case ModulePackagesAttribute:
		e.u2(uint16(len(v.PackageIndices)))
		for _, p := range v.PackageIndices {
			e.u2(p)
		}
	case NestHostAttribute:
		e.u2(v.HostClassIndex)
	case NestMembersAttribute:
		e.u2(uint16(len(v.Classes)))
		for _, c := range v.Classes {
			e.u2(c)
		}
	case PermittedSubclassesAttribute:
		e.u2(uint16(len(v.Classes)))
		for _, c := range v.Classes {
			e.u2(c)
		}
	case RecordAttribute:
		e.u2(uint16(len(v.Components)))
		for _, c := range v.Components {
			e.u2(c.NameIndex)
			e.u2(c.DescriptorIndex)
			if err := encodeAttributes(e, w, pool, c.Attributes); err != nil {
				return err
			}
		}
	case RuntimeVisibleTypeAnnotationsAttribute:
		encodeTypeAnnotations(e, v.Annotations)
	case RuntimeInvisibleTypeAnnotationsAttribute:
		encodeTypeAnnotations(e, v.Annotations)
	case UnknownAttribute:
		e.bytes(v.Data)
	default:
		return ErrUnknownConstantTag
	}
	return e.err
}

func encodeAnnotations(e *encoder, annotations []Annotation) {
	e.u2(uint16(len(annotations)))
	for _, a := range annotations {
		encodeAnnotation(e, a)
	}
}

func encodeParameterAnnotations(e *encoder, parameters [][]Annotation) {
	e.u1(uint8(len(parameters)))
	for _, p := range parameters {
		encodeAnnotations(e, p)
	}
}

func encodeAnnotation(e *encoder, a Annotation) {
	e.u2(a.TypeIndex)
	e.u2(uint16(len(a.ElementValuePairs)))
	for _, p := range a.ElementValuePairs {
		e.u2(p.ElementNameIndex)
		encodeElementValue(e, p.Value)
	}
}

func encodeElementValue(e *encoder, v ElementValue) {
	switch ev := v.(type) {
	case ConstElementValue:
		e.u1(ev.Tag)
		e.u2(ev.ConstValueIndex)
	case ClassElementValue:
		e.u1('c')
		e.u2(ev.ClassInfoIndex)
	case EnumElementValue:
		e.u1('e')
		e.u2(ev.TypeNameIndex)
		e.u2(ev.ConstNameIndex)
	case AnnotationElementValue:
		e.u1('@')
		encodeAnnotation(e, ev.Annotation)
	case ArrayElementValue:
		e.u1('[')
		e.u2(uint16(len(ev.Values)))
		for _, item := range ev.Values {
			encodeElementValue(e, item)
		}
	}
}

func encodeTypeAnnotations(e *encoder, annotations []TypeAnnotation) {
	e.u2(uint16(len(annotations)))
	for _, a := range annotations {
		encodeTargetInfo(e, a.TargetInfo)
		e.u1(uint8(len(a.TargetPath)))
		for _, p := range a.TargetPath {
			e.u1(p.TypePathKind)
			e.u1(p.TypeArgumentIndex)
		}
		encodeAnnotation(e, a.Annotation)
	}
}

func encodeTargetInfo(e *encoder, t TargetInfo) {
	switch ti := t.(type) {
	case TypeParameterTarget:
		e.u1(ti.TargetType)
		e.u1(ti.TypeParameterIndex)
	case SupertypeTarget:
		e.u1(0x10)
		e.u2(ti.SupertypeIndex)
	case TypeParameterBoundTarget:
		e.u1(ti.TargetType)
		e.u1(ti.TypeParameterIndex)
		e.u1(ti.BoundIndex)
	case EmptyTarget:
		e.u1(ti.TargetType)
	case FormalParameterTarget:
		e.u1(0x16)
		e.u1(ti.FormalParameterIndex)
	case ThrowsTarget:
		e.u1(0x17)
		e.u2(ti.ThrowsTypeIndex)
	case LocalVarTarget:
		e.u1(ti.TargetType)
		e.u2(uint16(len(ti.Table)))
		for _, entry := range ti.Table {
			e.u2(entry.StartPC)
			e.u2(entry.Length)
			e.u2(entry.Index)
		}
	case CatchTarget:
		e.u1(0x42)
		e.u2(ti.ExceptionTableIndex)
	case OffsetTarget:
		e.u1(ti.TargetType)
		e.u2(ti.Offset)
	case TypeArgumentTarget:
		e.u1(ti.TargetType)
		e.u2(ti.Offset)
		e.u1(ti.TypeArgumentIndex)
	}
}

func encodeModule(e *encoder, m ModuleAttribute) {
	e.u2(m.ModuleNameIndex)
	e.u2(PackModuleFlags(m.ModuleFlags))
	e.u2(m.ModuleVersionIndex)

	e.u2(uint16(len(m.Requires)))
	for _, r := range m.Requires {
		e.u2(r.RequiresIndex)
		e.u2(PackModuleRequiresFlags(r.RequiresFlags))
		e.u2(r.RequiresVersionIndex)
	}

	e.u2(uint16(len(m.Exports)))
	for _, ex := range m.Exports {
		e.u2(ex.ExportsIndex)
		e.u2(PackModuleExportsFlags(ex.ExportsFlags))
		e.u2(uint16(len(ex.ExportsToIndex)))
		for _, to := range ex.ExportsToIndex {
			e.u2(to)
		}
	}

	e.u2(uint16(len(m.Opens)))
	for _, op := range m.Opens {
		e.u2(op.OpensIndex)
		e.u2(PackModuleOpensFlags(op.OpensFlags))
		e.u2(uint16(len(op.OpensToIndex)))
		for _, to := range op.OpensToIndex {
			e.u2(to)
		}
	}

	e.u2(uint16(len(m.Uses)))
	for _, u := range m.Uses {
		e.u2(u)
	}

	e.u2(uint16(len(m.Provides)))
	for _, p := range m.Provides {
		e.u2(p.ProvidesIndex)
		e.u2(uint16(len(p.ProvidesWithIndex)))
		for _, w := range p.ProvidesWithIndex {
			e.u2(w)
		}
	}
}
