package colpack

import (
	"bytes"
	"encoding/binary"

	"github.com/colpack/colpack/encoding/rle"
	"github.com/colpack/colpack/format"
)

// DataPage is one encoded page of one column chunk. A page is the unit of
// independent decodability: for files written by non-defective producers,
// decoding a page requires no state from any other page.
//
// Data holds, in order: the repetition level stream (absent when the
// column's maximum repetition level is zero), the definition level stream
// (absent when the maximum definition level is zero), and the encoded
// values. Each level stream is prefixed with its 4-byte little-endian length.
type DataPage struct {
	// NumValues is the number of value slots in the page, nulls included.
	NumValues int

	// RepetitionLevelEncoding and DefinitionLevelEncoding identify the
	// encodings of the level streams.
	RepetitionLevelEncoding format.Encoding
	DefinitionLevelEncoding format.Encoding

	// ValueEncoding identifies the encoding of the value stream.
	ValueEncoding format.Encoding

	// Data is the page payload. Once written to a PageWriter the buffer is
	// owned by the page store and must not be mutated.
	Data []byte

	// Statistics of the values in the page.
	Statistics Statistics
}

// EncodePageData assembles the Data payload of one page from its level
// slices and its encoded value stream: each level stream is RLE-encoded and
// prefixed with its 4-byte little-endian length, and streams whose maximum
// level is zero are omitted entirely.
func EncodePageData(descriptor *ColumnDescriptor, repetitionLevels, definitionLevels, values []byte) []byte {
	data := []byte(nil)
	data = appendLevelStream(data, repetitionLevels, descriptor.MaxRepetitionLevel)
	data = appendLevelStream(data, definitionLevels, descriptor.MaxDefinitionLevel)
	return append(data, values...)
}

func appendLevelStream(data, levels []byte, maxLevel int) []byte {
	if maxLevel == 0 {
		return data
	}
	stream := rle.EncodeLevels(nil, levels, rle.BitWidth(maxLevel))
	data = binary.LittleEndian.AppendUint32(data, uint32(len(stream)))
	return append(data, stream...)
}

// PageReader yields the pages of one column chunk, whole and uncompressed,
// in file order.
type PageReader interface {
	// TotalValueCount returns the sum of NumValues over all pages of the
	// chunk, nulls included.
	TotalValueCount() int64

	// ReadPage returns the next page, or io.EOF after the last one.
	ReadPage() (*DataPage, error)
}

// PageWriter accepts the pages of one column chunk in file order.
type PageWriter interface {
	WritePage(page DataPage) error
}

// Statistics summarize the values of a page or column chunk.
type Statistics struct {
	// Min and Max bound the defined values, in the unsigned byte order of
	// their plain encoding. Nil when the page holds no defined values.
	Min, Max []byte

	// NullCount is the number of undefined value slots.
	NullCount int64
}

// UpdateBinary extends the statistics with one defined value.
func (s *Statistics) UpdateBinary(value []byte) {
	if s.Min == nil || bytes.Compare(value, s.Min) < 0 {
		s.Min = append([]byte(nil), value...)
	}
	if s.Max == nil || bytes.Compare(value, s.Max) > 0 {
		s.Max = append([]byte(nil), value...)
	}
}

// UpdateNull extends the statistics with one null slot.
func (s *Statistics) UpdateNull() { s.NullCount++ }

// ColumnChunkMetaData describes a fully written column chunk. It is
// produced once by the page store when the chunk is complete and read-only
// afterward.
type ColumnChunkMetaData struct {
	Path                  []string
	Type                  format.Type
	Codec                 format.CompressionCodec
	Encodings             []format.Encoding
	NumValues             int64
	NumPages              int
	TotalCompressedSize   int64
	TotalUncompressedSize int64
}
