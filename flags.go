// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// AccessFlag is a single symbolic access/property flag. The same set of
// constants is shared across every context (class, field, method, ...);
// which subset is valid, and what each bit means, depends on the mapping
// table the context uses.
type AccessFlag int

const (
	FlagPublic AccessFlag = iota
	FlagPrivate
	FlagProtected
	FlagStatic
	FlagFinal
	FlagSuper
	FlagSynchronized
	FlagOpen
	FlagTransitive
	FlagVolatile
	FlagBridge
	FlagStaticPhase
	FlagTransient
	FlagVarArgs
	FlagNative
	FlagInterface
	FlagAbstract
	FlagStrict
	FlagSynthetic
	FlagAnnotation
	FlagEnum
	FlagModule
	FlagMandated
)

// flagMapping pairs a bitmask with the symbolic flag it represents. Tables
// are ordered exactly as the format's own tables are, so Unpack produces a
// deterministic, spec-ordered flag list.
type flagMapping struct {
	mask uint16
	flag AccessFlag
}

// Per-context mapping tables. Bits not present in a table are dropped by
// Unpack and ignored by Pack, so Pack(Unpack(x)) equals x masked to the
// union of the table's masks.
var (
	classFlags = []flagMapping{
		{0x0001, FlagPublic},
		{0x0010, FlagFinal},
		{0x0020, FlagSuper},
		{0x0200, FlagInterface},
		{0x0400, FlagAbstract},
		{0x1000, FlagSynthetic},
		{0x2000, FlagAnnotation},
		{0x4000, FlagEnum},
		{0x8000, FlagModule},
	}

	innerClassFlags = []flagMapping{
		{0x0001, FlagPublic},
		{0x0002, FlagPrivate},
		{0x0004, FlagProtected},
		{0x0008, FlagStatic},
		{0x0010, FlagFinal},
		{0x0200, FlagInterface},
		{0x0400, FlagAbstract},
		{0x1000, FlagSynthetic},
		{0x2000, FlagAnnotation},
		{0x4000, FlagEnum},
	}

	fieldFlags = []flagMapping{
		{0x0001, FlagPublic},
		{0x0002, FlagPrivate},
		{0x0004, FlagProtected},
		{0x0008, FlagStatic},
		{0x0010, FlagFinal},
		{0x0040, FlagVolatile},
		{0x0080, FlagTransient},
		{0x1000, FlagSynthetic},
		{0x4000, FlagEnum},
	}

	methodFlags = []flagMapping{
		{0x0001, FlagPublic},
		{0x0002, FlagPrivate},
		{0x0004, FlagProtected},
		{0x0008, FlagStatic},
		{0x0010, FlagFinal},
		{0x0020, FlagSynchronized},
		{0x0040, FlagBridge},
		{0x0080, FlagVarArgs},
		{0x0100, FlagNative},
		{0x0400, FlagAbstract},
		{0x0800, FlagStrict},
		{0x1000, FlagSynthetic},
	}

	methodParameterFlags = []flagMapping{
		{0x0010, FlagFinal},
		{0x1000, FlagSynthetic},
		{0x8000, FlagMandated},
	}

	moduleFlags = []flagMapping{
		{0x0020, FlagOpen},
		{0x1000, FlagSynthetic},
		{0x8000, FlagMandated},
	}

	moduleRequiresFlags = []flagMapping{
		{0x0020, FlagTransitive},
		{0x0040, FlagStaticPhase},
		{0x1000, FlagSynthetic},
		{0x8000, FlagMandated},
	}

	moduleOpensFlags = []flagMapping{
		{0x1000, FlagSynthetic},
		{0x8000, FlagMandated},
	}

	moduleExportsFlags = []flagMapping{
		{0x1000, FlagSynthetic},
		{0x8000, FlagMandated},
	}
)

// unpackFlags expands a bitmask into the ordered list of symbolic flags a
// mapping table recognizes. Bits outside the table's union are dropped.
func unpackFlags(mask uint16, table []flagMapping) []AccessFlag {
	var out []AccessFlag
	for _, m := range table {
		if mask&m.mask != 0 {
			out = append(out, m.flag)
		}
	}
	return out
}

// packFlags collapses a list of symbolic flags back into a bitmask using
// the same mapping table. Flags not present in the table are ignored.
func packFlags(flags []AccessFlag, table []flagMapping) uint16 {
	var mask uint16
	for _, f := range flags {
		for _, m := range table {
			if m.flag == f {
				mask |= m.mask
				break
			}
		}
	}
	return mask
}

// UnpackClassFlags expands a class_info access_flags mask.
func UnpackClassFlags(mask uint16) []AccessFlag { return unpackFlags(mask, classFlags) }

// PackClassFlags collapses class access flags back into a mask.
func PackClassFlags(flags []AccessFlag) uint16 { return packFlags(flags, classFlags) }

// UnpackInnerClassFlags expands an InnerClasses entry's access_flags mask.
func UnpackInnerClassFlags(mask uint16) []AccessFlag { return unpackFlags(mask, innerClassFlags) }

// PackInnerClassFlags collapses inner class access flags back into a mask.
func PackInnerClassFlags(flags []AccessFlag) uint16 { return packFlags(flags, innerClassFlags) }

// UnpackFieldFlags expands a field_info access_flags mask.
func UnpackFieldFlags(mask uint16) []AccessFlag { return unpackFlags(mask, fieldFlags) }

// PackFieldFlags collapses field access flags back into a mask.
func PackFieldFlags(flags []AccessFlag) uint16 { return packFlags(flags, fieldFlags) }

// UnpackMethodFlags expands a method_info access_flags mask.
func UnpackMethodFlags(mask uint16) []AccessFlag { return unpackFlags(mask, methodFlags) }

// PackMethodFlags collapses method access flags back into a mask.
func PackMethodFlags(flags []AccessFlag) uint16 { return packFlags(flags, methodFlags) }

// UnpackMethodParameterFlags expands a MethodParameters entry's access_flags mask.
func UnpackMethodParameterFlags(mask uint16) []AccessFlag {
	return unpackFlags(mask, methodParameterFlags)
}

// PackMethodParameterFlags collapses method parameter flags back into a mask.
func PackMethodParameterFlags(flags []AccessFlag) uint16 {
	return packFlags(flags, methodParameterFlags)
}

// UnpackModuleFlags expands a Module attribute's module_flags mask.
func UnpackModuleFlags(mask uint16) []AccessFlag { return unpackFlags(mask, moduleFlags) }

// PackModuleFlags collapses module flags back into a mask.
func PackModuleFlags(flags []AccessFlag) uint16 { return packFlags(flags, moduleFlags) }

// UnpackModuleRequiresFlags expands a requires entry's requires_flags mask.
func UnpackModuleRequiresFlags(mask uint16) []AccessFlag {
	return unpackFlags(mask, moduleRequiresFlags)
}

// PackModuleRequiresFlags collapses module-requires flags back into a mask.
func PackModuleRequiresFlags(flags []AccessFlag) uint16 {
	return packFlags(flags, moduleRequiresFlags)
}

// UnpackModuleOpensFlags expands an opens entry's opens_flags mask.
func UnpackModuleOpensFlags(mask uint16) []AccessFlag { return unpackFlags(mask, moduleOpensFlags) }

// PackModuleOpensFlags collapses module-opens flags back into a mask.
func PackModuleOpensFlags(flags []AccessFlag) uint16 { return packFlags(flags, moduleOpensFlags) }

// UnpackModuleExportsFlags expands an exports entry's exports_flags mask.
func UnpackModuleExportsFlags(mask uint16) []AccessFlag {
	return unpackFlags(mask, moduleExportsFlags)
}

// PackModuleExportsFlags collapses module-exports flags back into a mask.
func PackModuleExportsFlags(flags []AccessFlag) uint16 {
	return packFlags(flags, moduleExportsFlags)
}
