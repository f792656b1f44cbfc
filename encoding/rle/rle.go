// Package rle implements the run-length / bit-packed hybrid encoding used
// for repetition and definition level streams.
//
// The stream is a sequence of groups, each introduced by a uvarint header.
// An even header 2*n introduces a run of n repeated values, stored once in
// ceil(bitWidth/8) bytes. An odd header 2*n+1 introduces n bit-packed groups
// of 8 values each, stored in n*bitWidth bytes.
//
// Level streams are not randomly accessible: decoding level i requires
// decoding all levels before it.
package rle

import (
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/colpack/colpack/encoding"
	"github.com/colpack/colpack/format"
)

// BitWidth returns the number of bits needed to store levels in [0, maxLevel].
func BitWidth(maxLevel int) int {
	return bits.Len(uint(maxLevel))
}

// EncodeLevels appends to dst the hybrid encoding of levels with the given
// bit width. The encoder only emits run groups; bit-packed groups are a
// decode-side concern.
func EncodeLevels(dst []byte, levels []byte, bitWidth int) []byte {
	byteWidth := (bitWidth + 7) / 8
	for i := 0; i < len(levels); {
		j := i + 1
		for j < len(levels) && levels[j] == levels[i] {
			j++
		}
		dst = binary.AppendUvarint(dst, uint64(j-i)<<1)
		for k := 0; k < byteWidth; k++ {
			dst = append(dst, byte(uint(levels[i])>>(8*k)))
		}
		i = j
	}
	return dst
}

// DecodeLevels appends to dst exactly numValues levels decoded from data,
// and returns the extended slice. It accepts both run and bit-packed groups.
// A stream declaring fewer than numValues levels is a corruption error.
func DecodeLevels(dst []byte, numValues int, data []byte, bitWidth int) ([]byte, error) {
	if bitWidth <= 0 || bitWidth > 8 {
		return dst, encoding.Errorf(format.RLE, "unsupported level bit width %d: %w",
			bitWidth, encoding.ErrNotSupported)
	}
	byteWidth := (bitWidth + 7) / 8
	remaining := numValues
	offset := 0

	for remaining > 0 {
		header, n := binary.Uvarint(data[offset:])
		if n <= 0 {
			return dst, truncated(numValues, remaining)
		}
		offset += n

		if header&1 == 0 {
			// Run of repeated values.
			count := int(header >> 1)
			if count > remaining {
				count = remaining
			}
			if offset+byteWidth > len(data) {
				return dst, truncated(numValues, remaining)
			}
			value := data[offset]
			offset += byteWidth
			for n := 0; n < count; n++ {
				dst = append(dst, value)
			}
			remaining -= count
			continue
		}

		// Bit-packed groups of 8 values.
		groups := int(header >> 1)
		size := groups * bitWidth
		if offset+size > len(data) {
			return dst, truncated(numValues, remaining)
		}
		packed := data[offset : offset+size]
		offset += size
		mask := byte(1<<bitWidth - 1)
		for i := 0; i < groups*8 && remaining > 0; i++ {
			bitOffset := i * bitWidth
			v := uint(packed[bitOffset/8]) >> (bitOffset % 8)
			if bitOffset%8+bitWidth > 8 {
				v |= uint(packed[bitOffset/8+1]) << (8 - bitOffset%8)
			}
			dst = append(dst, byte(v)&mask)
			remaining--
		}
	}
	return dst, nil
}

func truncated(numValues, remaining int) error {
	return encoding.Errorf(format.RLE, "level stream declares %d of %d levels: %w",
		numValues-remaining, numValues, io.ErrUnexpectedEOF)
}
