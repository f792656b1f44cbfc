// Package gzip implements the GZIP compression codec.
package gzip

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/colpack/colpack/format"
)

const (
	NoCompression      = gzip.NoCompression
	BestSpeed          = gzip.BestSpeed
	BestCompression    = gzip.BestCompression
	DefaultCompression = gzip.DefaultCompression
)

type Codec struct {
	// Level is the gzip compression level; the zero value selects the
	// default level.
	Level int

	writers sync.Pool // *gzip.Writer
}

func (c *Codec) String() string { return "GZIP" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Gzip }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst[:0])

	w, _ := c.writers.Get().(*gzip.Writer)
	if w == nil {
		level := c.Level
		if level == 0 {
			level = DefaultCompression
		}
		var err error
		if w, err = gzip.NewWriterLevel(buf, level); err != nil {
			return dst, err
		}
	} else {
		w.Reset(buf)
	}
	defer c.writers.Put(w)

	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return dst, err
	}
	buf := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(buf, r); err != nil {
		return dst, err
	}
	return buf.Bytes(), r.Close()
}
