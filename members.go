// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Member is the shared shape of field_info and method_info: an access
// flag set, a name and descriptor (both Utf8 constant pool indices), and
// an attribute list. Fields and methods differ only in which flag
// mapping table governs their access_flags.
type Member struct {
	AccessFlags []AccessFlag
	Name        uint16
	Descriptor  uint16
	Attributes  []Attribute
}

func decodeMembers(d *decoder, pool []Constant, table []flagMapping, maxNesting int) ([]Member, error) {
	count := d.u2()
	if d.err != nil {
		return nil, d.err
	}
	members := make([]Member, count)
	for i := range members {
		mask := d.u2()
		name := d.u2()
		descriptor := d.u2()
		if d.err != nil {
			return nil, d.err
		}
		attrs, err := decodeAttributes(d, pool, maxNesting)
		if err != nil {
			return nil, err
		}
		members[i] = Member{
			AccessFlags: unpackFlags(mask, table),
			Name:        name,
			Descriptor:  descriptor,
			Attributes:  attrs,
		}
	}
	return members, nil
}

func encodeMembers(e *encoder, w seeker, pool []Constant, members []Member, table []flagMapping) error {
	e.u2(uint16(len(members)))
	for _, m := range members {
		e.u2(packFlags(m.AccessFlags, table))
		e.u2(m.Name)
		e.u2(m.Descriptor)
		if e.err != nil {
			return e.err
		}
		if err := encodeAttributes(e, w, pool, m.Attributes); err != nil {
			return err
		}
	}
	return e.err
}
