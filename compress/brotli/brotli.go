// Package brotli implements the BROTLI compression codec.
package brotli

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/colpack/colpack/format"
)

const (
	DefaultQuality = 1
)

type Codec struct {
	// Quality is the brotli quality in [0, 11]; the zero value selects
	// DefaultQuality.
	Quality int
}

func (c *Codec) String() string { return "BROTLI" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Brotli }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	quality := c.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	buf := bytes.NewBuffer(dst[:0])
	w := brotli.NewWriterLevel(buf, quality)
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, brotli.NewReader(bytes.NewReader(src))); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
