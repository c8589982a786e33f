// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"reflect"
	"testing"
)

func TestClassFlags(t *testing.T) {
	tests := []struct {
		in  uint16
		out []AccessFlag
	}{
		{0x0021, []AccessFlag{FlagPublic, FlagSuper}},
		{0x4600, []AccessFlag{FlagInterface, FlagAbstract, FlagEnum}},
		{0x0000, nil},
		{0x0080, nil}, // bit not in the class table, dropped
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := UnpackClassFlags(tt.in)
			if !reflect.DeepEqual(got, tt.out) {
				t.Fatalf("UnpackClassFlags(%#x) = %v, want %v", tt.in, got, tt.out)
			}
		})
	}
}

func TestFlagsRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		mask  uint16
		table []flagMapping
	}{
		{"class", 0x4621, classFlags},
		{"innerClass", 0x060F, innerClassFlags},
		{"field", 0x00C9, fieldFlags},
		{"method", 0x0DE9, methodFlags},
		{"methodParameter", 0x9010, methodParameterFlags},
		{"module", 0x9020, moduleFlags},
		{"moduleRequires", 0x9060, moduleRequiresFlags},
		{"moduleOpens", 0x9000, moduleOpensFlags},
		{"moduleExports", 0x9000, moduleExportsFlags},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unpacked := unpackFlags(tt.mask, tt.table)
			packed := packFlags(unpacked, tt.table)
			if packed != tt.mask {
				t.Fatalf("round-trip mismatch: in=%#x unpacked=%v out=%#x", tt.mask, unpacked, packed)
			}
		})
	}
}

func TestFlagsDropsUnknownBits(t *testing.T) {
	// 0x0002 (Private) is not part of the class table; Pack(Unpack(x))
	// must equal x masked down to the table's own union, not x itself.
	mask := uint16(0x0003)
	unpacked := UnpackClassFlags(mask)
	if packed := PackClassFlags(unpacked); packed != 0x0001 {
		t.Fatalf("expected unmapped bits dropped, got %#x", packed)
	}
}
