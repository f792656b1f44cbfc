// Package lz4 implements the LZ4 compression codec using the lz4 frame
// format, which is self-describing and carries the uncompressed size.
package lz4

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/colpack/colpack/format"
)

type Level = lz4.CompressionLevel

const (
	Fastest = lz4.Fast
	Level1  = lz4.Level1
	Level5  = lz4.Level5
	Level9  = lz4.Level9
)

type Codec struct {
	// Level is the compression level; the zero value selects the fastest.
	Level Level
}

func (c *Codec) String() string { return "LZ4" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Lz4 }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])
	w := lz4.NewWriter(buf)
	if err := w.Apply(lz4.CompressionLevelOption(c.Level)); err != nil {
		return dst, err
	}
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
