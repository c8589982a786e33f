// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// NativeString decodes the Utf8 constant at index from the JVM's
// modified-UTF-8 encoding (embedded NUL stored as the two-byte sequence
// 0xC0 0x80, supplementary characters stored as a surrogate pair of
// three-byte sequences rather than a single four-byte sequence) into a
// native Go string.
//
// This is a diagnostic convenience only: the core codec never calls it,
// and Store always re-emits a Utf8 constant's original bytes verbatim.
func (cf *ClassFile) NativeString(index uint16) (string, error) {
	c, err := cf.constant(index)
	if err != nil {
		return "", err
	}
	u, ok := c.(Utf8)
	if !ok {
		return "", &ConstantTypeError{Index: index, Expected: "Utf8", Got: tagName(c.Tag())}
	}
	return DecodeModifiedUTF8(u.Bytes)
}

// DecodeModifiedUTF8 converts modified-UTF-8 bytes, as stored in a class
// file's Utf8 constant, to a native Go string.
//
// The byte stream is first normalized to standard UTF-8 (rewriting the
// 0xC0 0x80 NUL encoding and recombining supplementary-character
// surrogate pairs), then handed to x/text's UTF-8 decoder so malformed
// input is replaced with the Unicode replacement character rather than
// panicking or silently truncating.
func DecodeModifiedUTF8(b []byte) (string, error) {
	normalized := normalizeModifiedUTF8(b)
	decoded, err := unicode.UTF8.NewDecoder().Bytes(normalized)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// EncodeModifiedUTF8 converts a native Go string into modified-UTF-8
// bytes suitable for storing in a Utf8 constant: embedded NUL bytes are
// widened to the two-byte 0xC0 0x80 form and runes outside the Basic
// Multilingual Plane are split into a surrogate pair of three-byte
// sequences.
func EncodeModifiedUTF8(s string) []byte {
	var out bytes.Buffer
	for _, r := range s {
		switch {
		case r == 0:
			out.Write([]byte{0xC0, 0x80})
		case r < utf8.RuneSelf:
			out.WriteByte(byte(r))
		case r < 0x800:
			out.Write([]byte{0xC0 | byte(r>>6), 0x80 | byte(r&0x3F)})
		case r <= 0xFFFF:
			writeCESU8Rune(&out, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			writeCESU8Rune(&out, hi)
			writeCESU8Rune(&out, lo)
		}
	}
	return out.Bytes()
}

// writeCESU8Rune writes r (a rune known to fit in 16 bits, possibly a
// UTF-16 surrogate half) as a three-byte CESU-8 sequence.
func writeCESU8Rune(out *bytes.Buffer, r rune) {
	var buf [3]byte
	buf[0] = 0xE0 | byte(r>>12)
	buf[1] = 0x80 | byte((r>>6)&0x3F)
	buf[2] = 0x80 | byte(r&0x3F)
	out.Write(buf[:])
}

// normalizeModifiedUTF8 rewrites modified-UTF-8 byte sequences that
// standard UTF-8 decoders reject: the 0xC0 0x80 NUL encoding becomes a
// literal 0x00, and three-byte surrogate-half sequences are recombined
// into the single four-byte sequence standard UTF-8 uses for
// supplementary characters.
func normalizeModifiedUTF8(b []byte) []byte {
	var out bytes.Buffer
	for i := 0; i < len(b); {
		switch {
		case b[i] == 0xC0 && i+1 < len(b) && b[i+1] == 0x80:
			out.WriteByte(0x00)
			i += 2
		case i+5 < len(b) && isCESU8Surrogate(b[i:i+3], true) && isCESU8Surrogate(b[i+3:i+6], false):
			hi := decodeCESU8Rune(b[i : i+3])
			lo := decodeCESU8Rune(b[i+3 : i+6])
			r := utf16.DecodeRune(hi, lo)
			var buf [4]byte
			n := utf8.EncodeRune(buf[:], r)
			out.Write(buf[:n])
			i += 6
		default:
			out.WriteByte(b[i])
			i++
		}
	}
	return out.Bytes()
}

// isCESU8Surrogate reports whether the three bytes decode to a UTF-16
// high (wantHigh true) or low surrogate half.
func isCESU8Surrogate(b []byte, wantHigh bool) bool {
	if len(b) != 3 || b[0]&0xF0 != 0xE0 || b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 {
		return false
	}
	r := decodeCESU8Rune(b)
	if wantHigh {
		return r >= 0xD800 && r <= 0xDBFF
	}
	return r >= 0xDC00 && r <= 0xDFFF
}

func decodeCESU8Rune(b []byte) rune {
	return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
}
