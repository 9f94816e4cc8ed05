// Package uleb128 implements the unsigned LEB128 varint used for lengths and
// variant indices. Only the minimal encoding of a value is accepted.
package uleb128

import (
	bcserrors "github.com/zefchain/bcs/internal/errors"
)

// MaxLen32 and MaxLen64 are the longest encodings of a 32- and 64-bit value.
const (
	MaxLen32 = 5
	MaxLen64 = 10
)

// Append appends the minimal encoding of v to dst.
func Append(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Encode returns the minimal encoding of v.
func Encode(v uint64) []byte {
	return Append(make([]byte, 0, MaxLen64), v)
}

// Size returns the number of bytes Encode(v) produces.
func Size(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Decode reads one value of at most bits bits (32 or 64) using next to pull
// bytes. Errors from next are returned unchanged.
func Decode(next func() (byte, error), bits uint) (uint64, error) {
	var value uint64
	for shift := uint(0); shift < bits; shift += 7 {
		b, err := next()
		if err != nil {
			return 0, err
		}
		digit := uint64(b & 0x7f)
		if digit>>(64-shift) != 0 {
			return 0, bcserrors.ErrULEB128Overflow
		}
		value |= digit << shift
		if b&0x80 == 0 {
			if shift > 0 && digit == 0 {
				return 0, bcserrors.ErrNonCanonicalULEB128
			}
			if bits < 64 && value>>bits != 0 {
				return 0, bcserrors.ErrULEB128Overflow
			}
			return value, nil
		}
	}
	return 0, bcserrors.ErrULEB128Overflow
}

// DecodeBytes decodes a value from the front of buf and returns it with the
// number of bytes consumed.
func DecodeBytes(buf []byte, bits uint) (uint64, int, error) {
	pos := 0
	v, err := Decode(func() (byte, error) {
		if pos >= len(buf) {
			return 0, bcserrors.ErrEOF
		}
		b := buf[pos]
		pos++
		return b, nil
	}, bits)
	if err != nil {
		return 0, pos, err
	}
	return v, pos, nil
}
