package colpack

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/colpack/colpack/encoding"
	"github.com/colpack/colpack/encoding/delta"
	"github.com/colpack/colpack/encoding/plain"
	"github.com/colpack/colpack/format"
)

// valuesReader decodes the value stream of one page, one value per call, in
// stream order. Implementations return encoding.ErrNotSupported (wrapped)
// for physical types their encoding cannot represent.
type valuesReader interface {
	readBoolean() (bool, error)
	readInt32() (int32, error)
	readInt64() (int64, error)
	readFloat() (float32, error)
	readDouble() (float64, error)
	readByteArray() ([]byte, error)
	readFixedLenByteArray(size int) ([]byte, error)
}

// plainValuesReader decodes PLAIN-encoded values of any physical type.
type plainValuesReader struct {
	data     []byte
	offset   int
	bitIndex int // next boolean bit within data[offset]
}

func (r *plainValuesReader) bytes(n int) ([]byte, error) {
	if n > len(r.data)-r.offset {
		return nil, fmt.Errorf("%s: %d value bytes remaining, need %d: %w",
			format.Plain, len(r.data)-r.offset, n, io.ErrUnexpectedEOF)
	}
	b := r.data[r.offset : r.offset+n : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *plainValuesReader) readBoolean() (bool, error) {
	if r.offset >= len(r.data) {
		return false, fmt.Errorf("%s: no value bytes remaining: %w",
			format.Plain, io.ErrUnexpectedEOF)
	}
	v := r.data[r.offset]>>r.bitIndex&1 != 0
	if r.bitIndex++; r.bitIndex == 8 {
		r.bitIndex = 0
		r.offset++
	}
	return v, nil
}

func (r *plainValuesReader) readInt32() (int32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *plainValuesReader) readInt64() (int64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (r *plainValuesReader) readFloat() (float32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (r *plainValuesReader) readDouble() (float64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *plainValuesReader) readByteArray() ([]byte, error) {
	b, err := r.bytes(plain.ByteArrayLengthSize)
	if err != nil {
		return nil, err
	}
	// Bounds-check before narrowing: lengths past 2^31 would wrap negative
	// in int on 32-bit platforms.
	n := binary.LittleEndian.Uint32(b)
	if uint64(n) > uint64(len(r.data)-r.offset) {
		return nil, fmt.Errorf("%s: byte array length %d exceeds %d value bytes remaining: %w",
			format.Plain, n, len(r.data)-r.offset, io.ErrUnexpectedEOF)
	}
	return r.bytes(int(n))
}

func (r *plainValuesReader) readFixedLenByteArray(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%s: fixed length byte array of size %d: %w",
			format.Plain, size, encoding.ErrInvalidArgument)
	}
	return r.bytes(size)
}

// deltaByteArrayValuesReader adapts delta.ByteArrayReader to the valuesReader
// interface. DELTA_BYTE_ARRAY only represents variable-length byte arrays.
type deltaByteArrayValuesReader struct {
	reader *delta.ByteArrayReader
}

func (r *deltaByteArrayValuesReader) readByteArray() ([]byte, error) {
	return r.reader.ReadBytes()
}

func (r *deltaByteArrayValuesReader) unsupported(t format.Type) error {
	return encoding.Errorf(format.DeltaByteArray, "%s: %w", t, encoding.ErrNotSupported)
}

func (r *deltaByteArrayValuesReader) readBoolean() (bool, error) {
	return false, r.unsupported(format.Boolean)
}

func (r *deltaByteArrayValuesReader) readInt32() (int32, error) {
	return 0, r.unsupported(format.Int32)
}

func (r *deltaByteArrayValuesReader) readInt64() (int64, error) {
	return 0, r.unsupported(format.Int64)
}

func (r *deltaByteArrayValuesReader) readFloat() (float32, error) {
	return 0, r.unsupported(format.Float)
}

func (r *deltaByteArrayValuesReader) readDouble() (float64, error) {
	return 0, r.unsupported(format.Double)
}

func (r *deltaByteArrayValuesReader) readFixedLenByteArray(int) ([]byte, error) {
	return nil, r.unsupported(format.FixedLenByteArray)
}
