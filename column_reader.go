package colpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/colpack/colpack/compat"
	"github.com/colpack/colpack/encoding/delta"
	"github.com/colpack/colpack/encoding/rle"
	"github.com/colpack/colpack/format"
)

// levelStreamLengthSize is the size of the length prefix of each level
// stream within a page's Data.
const levelStreamLengthSize = 4

// ColumnReader reconstructs the logical value stream of one column chunk
// from its page sequence and pushes typed values to a Converter.
//
// After construction the reader is positioned on the first value slot.
// Callers alternate WriteCurrentValueToConverter (or Skip) and Consume until
// TotalValueCount values have been consumed:
//
//	for converted < reader.TotalValueCount() {
//		if err := reader.WriteCurrentValueToConverter(); err != nil { ... }
//		if err := reader.Consume(); err != nil { ... }
//	}
//
// A ColumnReader is not safe for concurrent use; separate column chunks are
// independent and may be decoded concurrently by separate readers.
type ColumnReader struct {
	descriptor *ColumnDescriptor
	pages      PageReader
	converter  Converter
	binding    binding

	// requireSequentialReads caches the per-file defect-policy decision:
	// when true, each DELTA_BYTE_ARRAY page reader is chained to the
	// terminal state of the previous page's reader.
	requireSequentialReads bool

	totalValueCount int64
	consumedValues  int64

	// State of the page being decoded.
	pageIndex        int
	pageValueCount   int
	pageValuesRead   int
	repetitionLevels []byte
	definitionLevels []byte
	values           valuesReader
	previousDelta    *delta.ByteArrayReader

	// State of the current value slot.
	repetitionLevel int
	definitionLevel int
	valueRead       bool
}

// NewColumnReader binds a reader to one column chunk. writerVersion is the
// parsed identifier of the producer that wrote the file, or nil when the
// file carries none; it decides, once for the whole chunk, whether
// DELTA_BYTE_ARRAY pages must be decoded with cross-page chaining.
//
// The returned reader is positioned on the first value slot.
func NewColumnReader(descriptor *ColumnDescriptor, pages PageReader, converter Converter, writerVersion *compat.ParsedVersion) (*ColumnReader, error) {
	binding, err := bindingFor(descriptor)
	if err != nil {
		return nil, err
	}
	r := &ColumnReader{
		descriptor:             descriptor,
		pages:                  pages,
		converter:              converter,
		binding:                binding,
		requireSequentialReads: compat.RequireSequentialReadsForVersion(writerVersion),
		totalValueCount:        pages.TotalValueCount(),
	}
	if r.totalValueCount > 0 {
		if err := r.nextSlot(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// TotalValueCount returns the number of value slots in the chunk, nulls
// included, fixed at construction.
func (r *ColumnReader) TotalValueCount() int64 { return r.totalValueCount }

// CurrentRepetitionLevel returns the repetition level of the current slot.
func (r *ColumnReader) CurrentRepetitionLevel() int { return r.repetitionLevel }

// CurrentDefinitionLevel returns the definition level of the current slot.
func (r *ColumnReader) CurrentDefinitionLevel() int { return r.definitionLevel }

// WriteCurrentValueToConverter decodes the current slot's value if it is
// defined at the leaf and delivers it to the converter through the method
// matching the column's physical type. Null or absent slots deliver
// nothing.
func (r *ColumnReader) WriteCurrentValueToConverter() error {
	if !r.currentIsDefined() {
		return nil
	}
	if err := r.readCurrentValue(); err != nil {
		return err
	}
	r.binding.deliver(r.converter)
	return nil
}

// Skip decodes the current slot's value, if defined, without delivering it
// to the converter. Value streams are sequential, so skipping still
// consumes the value's bytes.
func (r *ColumnReader) Skip() error { return r.readCurrentValue() }

// Consume advances past the current value slot. When the page's declared
// value count is exhausted it moves to the next page, and after the last
// slot of the last page the reader is exhausted: further calls return
// io.EOF wrapped with column context.
func (r *ColumnReader) Consume() error {
	if r.consumedValues >= r.totalValueCount {
		return r.columnError(fmt.Errorf("consuming past %d values: %w", r.totalValueCount, io.EOF))
	}
	// The current value's bytes must leave the stream even when the caller
	// never delivered it.
	if err := r.readCurrentValue(); err != nil {
		return err
	}
	r.consumedValues++
	if r.consumedValues == r.totalValueCount {
		return nil
	}
	return r.nextSlot()
}

func (r *ColumnReader) currentIsDefined() bool {
	return r.definitionLevel == r.descriptor.MaxDefinitionLevel
}

func (r *ColumnReader) readCurrentValue() error {
	if r.valueRead || !r.currentIsDefined() {
		return nil
	}
	if err := r.binding.read(r.values, r.descriptor.TypeLength); err != nil {
		if errors.Is(err, delta.ErrPrefixOutOfBounds) && !r.requireSequentialReads && r.pageIndex > 1 {
			// The page encodes a prefix of a value it does not contain,
			// but the producer's version is past the known-defective
			// range: this is a producer this policy does not know about.
			err = fmt.Errorf("%w (page is not independently decodable, file may be "+
				"affected by an unrecognized defective writer)", err)
		}
		return r.pageError(err)
	}
	r.valueRead = true
	return nil
}

// nextSlot positions the reader on the next value slot, crossing a page
// boundary if the current page is exhausted.
func (r *ColumnReader) nextSlot() error {
	for r.pageValuesRead == r.pageValueCount {
		if err := r.readPage(); err != nil {
			return err
		}
	}
	i := r.pageValuesRead
	r.repetitionLevel = 0
	r.definitionLevel = 0
	if r.repetitionLevels != nil {
		r.repetitionLevel = int(r.repetitionLevels[i])
	}
	if r.definitionLevels != nil {
		r.definitionLevel = int(r.definitionLevels[i])
	}
	if r.definitionLevel > r.descriptor.MaxDefinitionLevel {
		return r.pageError(fmt.Errorf("definition level %d exceeds maximum %d",
			r.definitionLevel, r.descriptor.MaxDefinitionLevel))
	}
	r.pageValuesRead++
	r.valueRead = false
	return nil
}

// readPage pulls the next page from the page source, decodes its level
// streams in full, and binds a value decoder for its value encoding.
func (r *ColumnReader) readPage() (err error) {
	page, err := r.pages.ReadPage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return r.columnError(fmt.Errorf(
				"pages declare %d of %d values: %w",
				r.consumedValues, r.totalValueCount, io.ErrUnexpectedEOF))
		}
		return r.columnError(err)
	}
	r.pageIndex++
	r.pageValueCount = page.NumValues
	r.pageValuesRead = 0

	data := page.Data
	r.repetitionLevels, data, err = r.readLevels(page, data,
		r.descriptor.MaxRepetitionLevel, page.RepetitionLevelEncoding, "repetition")
	if err != nil {
		return err
	}
	r.definitionLevels, data, err = r.readLevels(page, data,
		r.descriptor.MaxDefinitionLevel, page.DefinitionLevelEncoding, "definition")
	if err != nil {
		return err
	}

	switch page.ValueEncoding {
	case format.Plain:
		r.values = &plainValuesReader{data: data}
		r.previousDelta = nil

	case format.DeltaByteArray:
		if r.descriptor.Type != format.ByteArray {
			return r.pageError(fmt.Errorf("%s cannot encode %s values",
				page.ValueEncoding, r.descriptor.Type))
		}
		reader := new(delta.ByteArrayReader)
		// The value stream holds one record per defined value; nulls have
		// no representation in it.
		if err := reader.InitFromPage(r.definedValueCount(page), data, 0); err != nil {
			return r.pageError(err)
		}
		// Chaining reinterprets the page on the read side only: it seeds
		// the first value's prefix lookup from the previous page's
		// terminal state instead of empty.
		if r.requireSequentialReads && r.previousDelta != nil {
			if err := reader.SetPreviousReader(r.previousDelta); err != nil {
				return r.pageError(err)
			}
		}
		r.previousDelta = reader
		r.values = &deltaByteArrayValuesReader{reader: reader}

	default:
		return r.pageError(fmt.Errorf("unsupported value encoding %s", page.ValueEncoding))
	}
	return nil
}

// definedValueCount returns the number of slots of the page whose value is
// defined at the leaf, which is the number of records its value stream
// holds.
func (r *ColumnReader) definedValueCount(page *DataPage) int {
	if r.definitionLevels == nil {
		return page.NumValues
	}
	defined := 0
	for _, level := range r.definitionLevels {
		if int(level) == r.descriptor.MaxDefinitionLevel {
			defined++
		}
	}
	return defined
}

// readLevels decodes one level stream from the front of data and returns
// the levels and the remaining bytes. Columns whose maximum level is zero
// carry no stream and every slot has level zero.
func (r *ColumnReader) readLevels(page *DataPage, data []byte, maxLevel int, enc format.Encoding, kind string) ([]byte, []byte, error) {
	if maxLevel == 0 {
		return nil, data, nil
	}
	if enc != format.RLE {
		return nil, data, r.pageError(fmt.Errorf("unsupported %s level encoding %s", kind, enc))
	}
	if len(data) < levelStreamLengthSize {
		return nil, data, r.pageError(fmt.Errorf("truncated %s level stream: %w", kind, io.ErrUnexpectedEOF))
	}
	n := int(binary.LittleEndian.Uint32(data))
	data = data[levelStreamLengthSize:]
	if n > len(data) {
		return nil, data, r.pageError(fmt.Errorf("%s level stream length %d exceeds page size: %w",
			kind, n, io.ErrUnexpectedEOF))
	}
	levels, err := rle.DecodeLevels(nil, page.NumValues, data[:n], rle.BitWidth(maxLevel))
	if err != nil {
		return nil, data, r.pageError(fmt.Errorf("%s levels: %w", kind, err))
	}
	return levels, data[n:], nil
}

func (r *ColumnReader) pageError(err error) error {
	return fmt.Errorf("colpack: column %q: page %d: %w", r.descriptor, r.pageIndex-1, err)
}

func (r *ColumnReader) columnError(err error) error {
	return fmt.Errorf("colpack: column %q: %w", r.descriptor, err)
}
