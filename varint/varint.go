// Package varint implements the unsigned LEB128 varint and zig-zag signed
// varint codecs used throughout block headers and column payloads.
//
// Grounded on encoding/ts_delta.go and encoding/varstring.go in the teacher:
// both build their own framing directly on top of the standard library's
// encoding/binary varint routines rather than hand-rolling LEB128, and this
// package follows that lead. The Truncated/Overflow error taxonomy is the
// part that standard encoding/binary doesn't give you directly (it reports
// both as "n <= 0" with no distinction), so PutUvarint/Uvarint here just
// wrap binary.PutUvarint/binary.Uvarint and translate that ambiguity into
// the two distinct sentinel errors the format calls for.
package varint

import (
	"encoding/binary"

	"github.com/iambrandonn/jac-sub001/errs"
)

// MaxLen is the longest an encoded uint64 varint can be.
const MaxLen = binary.MaxVarintLen64

// PutUvarint encodes v into buf (which must have at least MaxLen bytes of
// room) and returns the number of bytes written.
func PutUvarint(buf []byte, v uint64) int {
	return binary.PutUvarint(buf, v)
}

// AppendUvarint appends the varint encoding of v to buf and returns the
// extended slice.
func AppendUvarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}

// Uvarint decodes a uint64 from the start of buf, returning the value and
// the number of bytes consumed.
func Uvarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	if n == 0 {
		return 0, 0, errs.ErrTruncated
	}
	if n < 0 {
		return 0, 0, errs.ErrOverflow
	}

	return v, n, nil
}

// Len returns the number of bytes PutUvarint would write for v.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

// ZigZagEncode maps a signed int64 onto the unsigned range so that small
// magnitude values (positive or negative) encode to small varints.
func ZigZagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

// ZigZagDecode is the inverse of ZigZagEncode.
func ZigZagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// PutVarint encodes a zig-zag signed varint.
func PutVarint(buf []byte, v int64) int {
	return PutUvarint(buf, ZigZagEncode(v))
}

// AppendVarint appends the zig-zag signed varint encoding of v to buf.
func AppendVarint(buf []byte, v int64) []byte {
	return AppendUvarint(buf, ZigZagEncode(v))
}

// Varint decodes a zig-zag signed varint from the start of buf.
func Varint(buf []byte) (int64, int, error) {
	u, n, err := Uvarint(buf)
	if err != nil {
		return 0, 0, err
	}

	return ZigZagDecode(u), n, nil
}
