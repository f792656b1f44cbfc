package colpack_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colpack/colpack"
	"github.com/colpack/colpack/compat"
	"github.com/colpack/colpack/encoding/plain"
	"github.com/colpack/colpack/format"
)

// valueCollector records every value delivered by a column reader, in
// order, one entry per converter call.
type valueCollector struct {
	values []any
	groups int
}

func (c *valueCollector) AddBoolean(v bool)             { c.values = append(c.values, v) }
func (c *valueCollector) AddInt32(v int32)              { c.values = append(c.values, v) }
func (c *valueCollector) AddInt64(v int64)              { c.values = append(c.values, v) }
func (c *valueCollector) AddFloat(v float32)            { c.values = append(c.values, v) }
func (c *valueCollector) AddDouble(v float64)           { c.values = append(c.values, v) }
func (c *valueCollector) AddByteArray(v []byte)         { c.values = append(c.values, string(v)) }
func (c *valueCollector) AddFixedLenByteArray(v []byte) { c.values = append(c.values, string(v)) }
func (c *valueCollector) StartGroup()                   { c.groups++ }
func (c *valueCollector) EndGroup()                     { c.groups-- }

// fixedVersion is a producer whose encoder does not need workarounds.
var fixedVersion = &compat.ParsedVersion{
	Application:  "parquet-mr",
	Version:      "1.8.0",
	AppBuildHash: "abcd",
}

// readAll drives the reader across the whole chunk per its loop contract.
func readAll(t *testing.T, reader *colpack.ColumnReader) error {
	t.Helper()
	for consumed := int64(0); consumed < reader.TotalValueCount(); consumed++ {
		if err := reader.WriteCurrentValueToConverter(); err != nil {
			return err
		}
		if err := reader.Consume(); err != nil {
			return err
		}
	}
	return nil
}

func TestColumnReaderInt32(t *testing.T) {
	column := &colpack.ColumnDescriptor{Path: []string{"n"}, Type: format.Int32}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	want := []any{}
	for _, page := range [][]int32{{0, 1, 2, 3, 4}, {5, 6, 7}, {8, 9}} {
		values := []byte(nil)
		for _, v := range page {
			values = plain.AppendInt32(values, v)
			want = append(want, v)
		}
		require.NoError(t, writer.WritePage(colpack.DataPage{
			NumValues:               len(page),
			RepetitionLevelEncoding: format.RLE,
			DefinitionLevelEncoding: format.RLE,
			ValueEncoding:           format.Plain,
			Data:                    colpack.EncodePageData(column, nil, nil, values),
		}))
	}

	collector := new(valueCollector)
	reader, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.NoError(t, err)
	require.Equal(t, int64(10), reader.TotalValueCount())

	require.NoError(t, readAll(t, reader))
	require.Equal(t, want, collector.values)
	require.Equal(t, int64(10), reader.TotalValueCount())

	// The chunk is exhausted, consuming further is an error.
	require.ErrorIs(t, reader.Consume(), io.EOF)
}

func TestColumnReaderOptionalColumn(t *testing.T) {
	column := &colpack.ColumnDescriptor{
		Path:               []string{"doc", "title"},
		Type:               format.ByteArray,
		MaxDefinitionLevel: 1,
	}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	definitionLevels := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}
	defined := []string{"arrival", "beacon", "cascade", "delta", "ember", "fathom"}
	values := []byte(nil)
	for _, v := range defined {
		values = plain.AppendByteArray(values, []byte(v))
	}
	require.NoError(t, writer.WritePage(colpack.DataPage{
		NumValues:               len(definitionLevels),
		RepetitionLevelEncoding: format.RLE,
		DefinitionLevelEncoding: format.RLE,
		ValueEncoding:           format.Plain,
		Data:                    colpack.EncodePageData(column, nil, definitionLevels, values),
	}))

	collector := new(valueCollector)
	reader, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.NoError(t, err)
	require.Equal(t, int64(10), reader.TotalValueCount())

	// Null slots still count toward the value-count contract but deliver
	// nothing to the converter.
	definitionLevelsSeen := []byte(nil)
	for consumed := int64(0); consumed < reader.TotalValueCount(); consumed++ {
		definitionLevelsSeen = append(definitionLevelsSeen, byte(reader.CurrentDefinitionLevel()))
		require.NoError(t, reader.WriteCurrentValueToConverter())
		require.NoError(t, reader.Consume())
	}

	require.Equal(t, definitionLevels, definitionLevelsSeen)
	want := []any{}
	for _, v := range defined {
		want = append(want, v)
	}
	require.Equal(t, want, collector.values)
}

func TestColumnReaderRepeatedColumn(t *testing.T) {
	column := &colpack.ColumnDescriptor{
		Path:               []string{"doc", "tags"},
		Type:               format.Int64,
		MaxRepetitionLevel: 1,
		MaxDefinitionLevel: 1,
	}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	// Three records: [10, 11], [], [12].
	repetitionLevels := []byte{0, 1, 0, 0}
	definitionLevels := []byte{1, 1, 0, 1}
	values := []byte(nil)
	for _, v := range []int64{10, 11, 12} {
		values = plain.AppendInt64(values, v)
	}
	require.NoError(t, writer.WritePage(colpack.DataPage{
		NumValues:               4,
		RepetitionLevelEncoding: format.RLE,
		DefinitionLevelEncoding: format.RLE,
		ValueEncoding:           format.Plain,
		Data:                    colpack.EncodePageData(column, repetitionLevels, definitionLevels, values),
	}))

	collector := new(valueCollector)
	reader, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.NoError(t, err)

	repetitionLevelsSeen := []byte(nil)
	for consumed := int64(0); consumed < reader.TotalValueCount(); consumed++ {
		repetitionLevelsSeen = append(repetitionLevelsSeen, byte(reader.CurrentRepetitionLevel()))
		require.NoError(t, reader.WriteCurrentValueToConverter())
		require.NoError(t, reader.Consume())
	}

	require.Equal(t, repetitionLevels, repetitionLevelsSeen)
	require.Equal(t, []any{int64(10), int64(11), int64(12)}, collector.values)
}

func TestColumnReaderSkip(t *testing.T) {
	column := &colpack.ColumnDescriptor{Path: []string{"n"}, Type: format.Int32}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	values := []byte(nil)
	for v := int32(0); v < 4; v++ {
		values = plain.AppendInt32(values, v)
	}
	require.NoError(t, writer.WritePage(colpack.DataPage{
		NumValues:               4,
		RepetitionLevelEncoding: format.RLE,
		DefinitionLevelEncoding: format.RLE,
		ValueEncoding:           format.Plain,
		Data:                    colpack.EncodePageData(column, nil, nil, values),
	}))

	collector := new(valueCollector)
	reader, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.NoError(t, err)

	// Convert even slots, skip odd ones; skipped values must still leave
	// the stream.
	for consumed := int64(0); consumed < reader.TotalValueCount(); consumed++ {
		if consumed%2 == 0 {
			require.NoError(t, reader.WriteCurrentValueToConverter())
		} else {
			require.NoError(t, reader.Skip())
		}
		require.NoError(t, reader.Consume())
	}

	require.Equal(t, []any{int32(0), int32(2)}, collector.values)
}

func TestColumnReaderValueCountMismatch(t *testing.T) {
	column := &colpack.ColumnDescriptor{Path: []string{"n"}, Type: format.Int32}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	// The page declares 5 values but the value stream holds only 3.
	values := []byte(nil)
	for v := int32(0); v < 3; v++ {
		values = plain.AppendInt32(values, v)
	}
	require.NoError(t, writer.WritePage(colpack.DataPage{
		NumValues:               5,
		RepetitionLevelEncoding: format.RLE,
		DefinitionLevelEncoding: format.RLE,
		ValueEncoding:           format.Plain,
		Data:                    colpack.EncodePageData(column, nil, nil, values),
	}))

	collector := new(valueCollector)
	reader, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.NoError(t, err)

	err = readAll(t, reader)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.ErrorContains(t, err, `column "n"`)
}

func TestColumnReaderLevelCountMismatch(t *testing.T) {
	column := &colpack.ColumnDescriptor{
		Path:               []string{"n"},
		Type:               format.Int32,
		MaxDefinitionLevel: 1,
	}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	// The level stream declares 3 levels but the page declares 5 slots.
	definitionLevels := []byte{1, 1, 1}
	values := []byte(nil)
	for v := int32(0); v < 3; v++ {
		values = plain.AppendInt32(values, v)
	}
	require.NoError(t, writer.WritePage(colpack.DataPage{
		NumValues:               5,
		RepetitionLevelEncoding: format.RLE,
		DefinitionLevelEncoding: format.RLE,
		ValueEncoding:           format.Plain,
		Data:                    colpack.EncodePageData(column, nil, definitionLevels, values),
	}))

	collector := new(valueCollector)
	_, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.ErrorContains(t, err, "definition levels")
}

func TestColumnReaderConsumePastEnd(t *testing.T) {
	column := &colpack.ColumnDescriptor{Path: []string{"n"}, Type: format.Int32}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	require.NoError(t, writer.WritePage(colpack.DataPage{
		NumValues:               1,
		RepetitionLevelEncoding: format.RLE,
		DefinitionLevelEncoding: format.RLE,
		ValueEncoding:           format.Plain,
		Data:                    colpack.EncodePageData(column, nil, nil, plain.AppendInt32(nil, 7)),
	}))

	collector := new(valueCollector)
	reader, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.NoError(t, err)

	require.NoError(t, reader.WriteCurrentValueToConverter())
	require.NoError(t, reader.Consume())
	require.ErrorIs(t, reader.Consume(), io.EOF)
}

func TestColumnReaderUnsupportedEncodings(t *testing.T) {
	store := colpack.NewMemPageStore()

	t.Run("value encoding", func(t *testing.T) {
		column := &colpack.ColumnDescriptor{Path: []string{"a"}, Type: format.Int32}
		writer := store.PageWriter(column)
		require.NoError(t, writer.WritePage(colpack.DataPage{
			NumValues:               1,
			RepetitionLevelEncoding: format.RLE,
			DefinitionLevelEncoding: format.RLE,
			ValueEncoding:           format.BitPacked,
			Data:                    plain.AppendInt32(nil, 7),
		}))
		_, err := colpack.NewColumnReader(column, store.PageReader(column), new(valueCollector), fixedVersion)
		require.ErrorContains(t, err, "unsupported value encoding")
	})

	t.Run("delta on non byte array column", func(t *testing.T) {
		column := &colpack.ColumnDescriptor{Path: []string{"b"}, Type: format.Int32}
		writer := store.PageWriter(column)
		require.NoError(t, writer.WritePage(colpack.DataPage{
			NumValues:               1,
			RepetitionLevelEncoding: format.RLE,
			DefinitionLevelEncoding: format.RLE,
			ValueEncoding:           format.DeltaByteArray,
			Data:                    plain.AppendInt32(nil, 7),
		}))
		_, err := colpack.NewColumnReader(column, store.PageReader(column), new(valueCollector), fixedVersion)
		require.ErrorContains(t, err, "cannot encode INT32")
	})
}

func TestColumnReaderEmptyChunk(t *testing.T) {
	column := &colpack.ColumnDescriptor{Path: []string{"n"}, Type: format.Int32}
	store := colpack.NewMemPageStore()

	reader, err := colpack.NewColumnReader(column, store.PageReader(column), new(valueCollector), fixedVersion)
	require.NoError(t, err)
	require.Equal(t, int64(0), reader.TotalValueCount())
	require.Error(t, reader.Consume())
}

func TestColumnReaderFixedLenByteArray(t *testing.T) {
	column := &colpack.ColumnDescriptor{
		Path:       []string{"id"},
		Type:       format.FixedLenByteArray,
		TypeLength: 4,
	}
	store := colpack.NewMemPageStore()
	writer := store.PageWriter(column)

	values := []byte(nil)
	for _, v := range []string{"aaaa", "bbbb", "cccc"} {
		values = plain.AppendFixedLenByteArray(values, []byte(v))
	}
	require.NoError(t, writer.WritePage(colpack.DataPage{
		NumValues:               3,
		RepetitionLevelEncoding: format.RLE,
		DefinitionLevelEncoding: format.RLE,
		ValueEncoding:           format.Plain,
		Data:                    colpack.EncodePageData(column, nil, nil, values),
	}))

	collector := new(valueCollector)
	reader, err := colpack.NewColumnReader(column, store.PageReader(column), collector, fixedVersion)
	require.NoError(t, err)
	require.NoError(t, readAll(t, reader))
	require.Equal(t, []any{"aaaa", "bbbb", "cccc"}, collector.values)
}

func TestColumnReaderInvalidDescriptor(t *testing.T) {
	store := colpack.NewMemPageStore()

	column := &colpack.ColumnDescriptor{Path: []string{"id"}, Type: format.FixedLenByteArray}
	_, err := colpack.NewColumnReader(column, store.PageReader(column), new(valueCollector), fixedVersion)
	require.ErrorContains(t, err, "positive type length")

	column = &colpack.ColumnDescriptor{Path: []string{"x"}, Type: format.Type(99)}
	_, err = colpack.NewColumnReader(column, store.PageReader(column), new(valueCollector), fixedVersion)
	require.Error(t, err)
}
