// Package compress provides the generic APIs implemented by the page
// compression codecs in its sub-packages.
//
// Compression is a page-store concern: value codecs encode to and decode
// from uncompressed page buffers, and page stores apply a Codec to whole
// buffers at rest.
package compress

import (
	"fmt"

	"github.com/colpack/colpack/format"
)

// Codec is implemented by block compression codecs. Implementations must be
// safe to use concurrently from multiple goroutines.
type Codec interface {
	fmt.Stringer

	// CompressionCodec returns the format identifier of this codec.
	CompressionCodec() format.CompressionCodec

	// Encode compresses src into dst, returning the compressed bytes.
	// dst is used as scratch space when large enough, its contents are
	// discarded.
	Encode(dst, src []byte) ([]byte, error)

	// Decode decompresses src into dst, returning the decompressed bytes.
	// dst is used as scratch space when large enough, its contents are
	// discarded.
	Decode(dst, src []byte) ([]byte, error)
}
