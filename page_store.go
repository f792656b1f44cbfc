package colpack

import (
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/colpack/colpack/compress"
	"github.com/colpack/colpack/compress/uncompressed"
	"github.com/colpack/colpack/format"
)

// MemPageStore is the in-memory reference implementation of the page store
// boundary: it holds the page buffers of any number of column chunks,
// optionally compressed at rest, and hands them back whole and uncompressed
// through PageReader.
//
// It is safe for concurrent use by one writer and any number of readers per
// column, provided readers start after the column's pages are written.
type MemPageStore struct {
	codec     compress.Codec
	checksums bool

	mu     sync.Mutex
	chunks map[string]*memColumnChunk
}

// MemPageStoreOption configures a MemPageStore.
type MemPageStoreOption func(*MemPageStore)

// WithCompression selects the codec applied to page buffers at rest.
// The default is uncompressed.
func WithCompression(codec compress.Codec) MemPageStoreOption {
	return func(s *MemPageStore) { s.codec = codec }
}

// WithPageChecksums enables xxhash checksums of page buffers, computed when
// a page is written and verified when it is read back.
func WithPageChecksums(enabled bool) MemPageStoreOption {
	return func(s *MemPageStore) { s.checksums = enabled }
}

func NewMemPageStore(options ...MemPageStoreOption) *MemPageStore {
	s := &MemPageStore{
		codec:  new(uncompressed.Codec),
		chunks: make(map[string]*memColumnChunk),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

type memColumnChunk struct {
	descriptor *ColumnDescriptor
	pages      []memPage
	numValues  int64
}

type memPage struct {
	page             DataPage // Data holds the buffer at rest (compressed)
	checksum         uint64
	uncompressedSize int
}

func (s *MemPageStore) chunk(column *ColumnDescriptor) *memColumnChunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := column.String()
	c := s.chunks[key]
	if c == nil {
		c = &memColumnChunk{descriptor: column}
		s.chunks[key] = c
	}
	return c
}

// PageWriter returns the writer for the given column's chunk. Pages must be
// written in file order.
func (s *MemPageStore) PageWriter(column *ColumnDescriptor) PageWriter {
	return &memPageWriter{store: s, chunk: s.chunk(column)}
}

// PageReader returns a reader positioned at the first page of the given
// column's chunk.
func (s *MemPageStore) PageReader(column *ColumnDescriptor) PageReader {
	return &memPageReader{store: s, chunk: s.chunk(column)}
}

// ColumnChunkMetaData describes the chunk written so far for the column.
func (s *MemPageStore) ColumnChunkMetaData(column *ColumnDescriptor) ColumnChunkMetaData {
	c := s.chunk(column)
	s.mu.Lock()
	defer s.mu.Unlock()
	meta := ColumnChunkMetaData{
		Path:      column.Path,
		Type:      column.Type,
		Codec:     s.codec.CompressionCodec(),
		NumValues: c.numValues,
		NumPages:  len(c.pages),
	}
	seen := map[format.Encoding]bool{}
	for i := range c.pages {
		p := &c.pages[i]
		meta.TotalCompressedSize += int64(len(p.page.Data))
		meta.TotalUncompressedSize += int64(p.uncompressedSize)
		for _, e := range [...]format.Encoding{
			p.page.RepetitionLevelEncoding,
			p.page.DefinitionLevelEncoding,
			p.page.ValueEncoding,
		} {
			if !seen[e] {
				seen[e] = true
				meta.Encodings = append(meta.Encodings, e)
			}
		}
	}
	return meta
}

type memPageWriter struct {
	store *MemPageStore
	chunk *memColumnChunk
}

func (w *memPageWriter) WritePage(page DataPage) error {
	if page.NumValues < 0 {
		return fmt.Errorf("colpack: column %q: negative page value count %d",
			w.chunk.descriptor, page.NumValues)
	}
	// The store owns its copy of the buffer from here on; compression
	// already copies, so only the uncompressed codec needs care, which its
	// Encode provides by appending to a nil dst.
	data, err := w.store.codec.Encode(nil, page.Data)
	if err != nil {
		return fmt.Errorf("colpack: column %q: compressing page %d: %w",
			w.chunk.descriptor, len(w.chunk.pages), err)
	}
	stored := memPage{
		page:             page,
		uncompressedSize: len(page.Data),
	}
	stored.page.Data = data
	if w.store.checksums {
		stored.checksum = xxhash.Sum64(page.Data)
	}

	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.chunk.pages = append(w.chunk.pages, stored)
	w.chunk.numValues += int64(page.NumValues)
	return nil
}

type memPageReader struct {
	store *MemPageStore
	chunk *memColumnChunk
	index int
}

func (r *memPageReader) TotalValueCount() int64 {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.chunk.numValues
}

func (r *memPageReader) ReadPage() (*DataPage, error) {
	r.store.mu.Lock()
	if r.index >= len(r.chunk.pages) {
		r.store.mu.Unlock()
		return nil, io.EOF
	}
	stored := r.chunk.pages[r.index]
	r.store.mu.Unlock()

	data, err := r.store.codec.Decode(nil, stored.page.Data)
	if err != nil {
		return nil, fmt.Errorf("colpack: column %q: decompressing page %d: %w",
			r.chunk.descriptor, r.index, err)
	}
	if r.store.checksums {
		if sum := xxhash.Sum64(data); sum != stored.checksum {
			return nil, fmt.Errorf("colpack: column %q: page %d: checksum mismatch: got %#016x, expected %#016x",
				r.chunk.descriptor, r.index, sum, stored.checksum)
		}
	}
	r.index++
	page := stored.page
	page.Data = data
	return &page, nil
}
