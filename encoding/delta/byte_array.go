// Package delta implements the DELTA_BYTE_ARRAY encoding, which represents
// each byte-array value as the length of the prefix it shares with the value
// immediately before it, followed by the remaining suffix bytes.
//
// The wire format of a page is a sequence of value records:
//
//	record = uvarint(prefixLength) uvarint(suffixLength) suffixBytes
//
// The value count is external page metadata, it is not embedded in the
// stream. Pages are independently decodable: the writer starts every page
// from an empty previous value. Readers may opt into cross-page chaining
// (see ByteArrayReader.SetPreviousReader) to decode pages written by
// producers whose encoder failed to reset between pages.
package delta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/colpack/colpack/encoding"
	"github.com/colpack/colpack/format"
	"github.com/colpack/colpack/internal/bytealg"
)

// ErrPrefixOutOfBounds is returned by ByteArrayReader.ReadBytes when a
// decoded prefix length exceeds the length of the previous value. For a page
// that was decoded from its start with no chaining, this means the page is
// not independently decodable: it was written against a previous value the
// reader does not have.
var ErrPrefixOutOfBounds = errors.New("prefix length out of bounds")

// ByteArrayWriter encodes byte-array values into a page buffer using prefix
// sharing against the previously written value. The zero value is a writer
// positioned at the start of an empty page.
type ByteArrayWriter struct {
	page     []byte
	previous []byte
}

// WriteBytes appends one value to the page. Any byte sequence is accepted,
// including empty.
func (w *ByteArrayWriter) WriteBytes(value []byte) {
	n := bytealg.CommonPrefixLength(w.previous, value)
	w.page = binary.AppendUvarint(w.page, uint64(n))
	w.page = binary.AppendUvarint(w.page, uint64(len(value)-n))
	w.page = append(w.page, value[n:]...)
	// The previous value is kept in a buffer owned by the writer so that
	// callers remain free to reuse the slice they passed in.
	w.previous = append(w.previous[:0], value...)
}

// Bytes returns the page buffer accumulated so far. It does not reset the
// writer. The returned slice is invalidated by further WriteBytes calls on
// the same page, but stays valid and unaliased once the writer is Reset.
func (w *ByteArrayWriter) Bytes() []byte { return w.page }

// Reset starts a new page: it discards the page buffer and clears the
// previous value, so the next page is independently decodable. Callers must
// reset at every page boundary.
func (w *ByteArrayWriter) Reset() {
	// Fresh buffers, not truncations, so no slice previously returned by
	// Bytes or passed to WriteBytes can alias the new page state.
	w.page = nil
	w.previous = nil
}

// ResetWithPrevious starts a new page like Reset but seeds the previous
// value with the given bytes instead of empty. The resulting page is not
// independently decodable: its first record encodes a prefix of a value the
// page does not contain.
//
// This reproduces the behavior of historical encoders that retained the last
// value across page boundaries. It exists to construct test fixtures for the
// read-side compatibility path and must not be used to write files.
func (w *ByteArrayWriter) ResetWithPrevious(previous []byte) {
	w.page = nil
	w.previous = append([]byte(nil), previous...)
}

// Encoding returns the encoding identifier emitted by this writer.
func (w *ByteArrayWriter) Encoding() format.Encoding { return format.DeltaByteArray }

// ByteArrayReader decodes a page written by ByteArrayWriter.
type ByteArrayReader struct {
	data      []byte
	offset    int
	numValues int
	remaining int
	previous  []byte
}

// InitFromPage binds the reader to a page buffer holding numValues encoded
// values starting at the given offset. The previous value starts empty.
func (r *ByteArrayReader) InitFromPage(numValues int, page []byte, offset int) error {
	if numValues < 0 || offset < 0 || offset > len(page) {
		return encoding.Error(format.DeltaByteArray, encoding.ErrInvalidArgument)
	}
	r.data = page
	r.offset = offset
	r.numValues = numValues
	r.remaining = numValues
	r.previous = nil
	return nil
}

// SetPreviousReader seeds this reader's previous value with the terminal
// state of prev, so that the first value of this page is reconstructed as a
// continuation of the last value decoded by prev. It must be called before
// the first ReadBytes call, and prev must have decoded its whole page.
//
// Only the terminal value is copied out; the reader keeps no reference to
// prev afterwards.
func (r *ByteArrayReader) SetPreviousReader(prev *ByteArrayReader) error {
	if r.remaining != r.numValues {
		return encoding.Errorf(format.DeltaByteArray, "SetPreviousReader called after ReadBytes")
	}
	if prev.remaining != 0 {
		return encoding.Errorf(format.DeltaByteArray,
			"previous reader has %d undecoded values", prev.remaining)
	}
	r.previous = append([]byte(nil), prev.previous...)
	return nil
}

// ReadBytes decodes and returns the next value. The returned slice is owned
// by the caller: mutating it does not affect subsequently decoded values.
func (r *ByteArrayReader) ReadBytes() ([]byte, error) {
	if r.remaining == 0 {
		return nil, encoding.Errorf(format.DeltaByteArray,
			"reading value %d of a page declaring %d values: %w",
			r.numValues+1, r.numValues, io.EOF)
	}
	prefixLength, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	suffixLength, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if prefixLength > len(r.previous) {
		return nil, encoding.Errorf(format.DeltaByteArray,
			"value %d: prefix length %d exceeds previous value length %d: %w",
			r.numValues-r.remaining, prefixLength, len(r.previous), ErrPrefixOutOfBounds)
	}
	if suffixLength > len(r.data)-r.offset {
		return nil, r.corrupt(fmt.Errorf("suffix length %d: %w", suffixLength, io.ErrUnexpectedEOF))
	}
	value := make([]byte, 0, prefixLength+suffixLength)
	value = append(value, r.previous[:prefixLength]...)
	value = append(value, r.data[r.offset:r.offset+suffixLength]...)
	r.offset += suffixLength
	r.remaining--
	r.previous = append(r.previous[:0], value...)
	return value, nil
}

func (r *ByteArrayReader) uvarint() (int, error) {
	v, n := binary.Uvarint(r.data[r.offset:])
	if n <= 0 {
		return 0, r.corrupt(fmt.Errorf("truncated varint: %w", io.ErrUnexpectedEOF))
	}
	if v > uint64(int(^uint(0)>>1)) {
		return 0, r.corrupt(fmt.Errorf("length %d overflows int", v))
	}
	r.offset += n
	return int(v), nil
}

func (r *ByteArrayReader) corrupt(err error) error {
	return encoding.Errorf(format.DeltaByteArray, "value %d: %w", r.numValues-r.remaining, err)
}
