// Package plain implements the PLAIN encoding, the fallback value encoding
// of the format: fixed-width little-endian for numeric types, one bit per
// boolean, and 4-byte length prefixes for byte arrays.
package plain

import (
	"encoding/binary"
	"math"
)

// ByteArrayLengthSize is the size of the length prefix of byte array values.
const ByteArrayLengthSize = 4

// AppendBoolean appends the bit encoding of v at bit index n.
func AppendBoolean(b []byte, n int, v bool) []byte {
	x := byte(0)
	i := n / 8
	if i < len(b) {
		x = b[i]
	} else {
		b = append(b, 0)
	}
	if v {
		x |= 1 << (uint(n) % 8)
	} else {
		x &^= 1 << (uint(n) % 8)
	}
	b[i] = x
	return b
}

func AppendInt32(b []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(v))
}

func AppendInt64(b []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(b, uint64(v))
}

func AppendFloat(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

func AppendDouble(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

// AppendByteArray appends v prefixed with its 4-byte little-endian length.
func AppendByteArray(b, v []byte) []byte {
	length := [ByteArrayLengthSize]byte{}
	binary.LittleEndian.PutUint32(length[:], uint32(len(v)))
	b = append(b, length[:]...)
	return append(b, v...)
}

// AppendFixedLenByteArray appends v verbatim; the caller is responsible for
// passing values of the column's declared length.
func AppendFixedLenByteArray(b, v []byte) []byte {
	return append(b, v...)
}
