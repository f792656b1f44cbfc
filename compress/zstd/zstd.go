// Package zstd implements the ZSTD compression codec.
package zstd

import (
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/colpack/colpack/format"
)

type Level = zstd.EncoderLevel

const (
	SpeedFastest           = zstd.SpeedFastest
	SpeedDefault           = zstd.SpeedDefault
	SpeedBetterCompression = zstd.SpeedBetterCompression
	SpeedBestCompression   = zstd.SpeedBestCompression
)

type Codec struct {
	// Level is the compression level; the zero value selects SpeedDefault.
	Level Level

	initOnce sync.Once
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	initErr  error
}

func (c *Codec) String() string { return "ZSTD" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Zstd }

func (c *Codec) init() error {
	c.initOnce.Do(func() {
		level := c.Level
		if level == 0 {
			level = SpeedDefault
		}
		c.encoder, c.initErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
		if c.initErr != nil {
			return
		}
		c.decoder, c.initErr = zstd.NewReader(nil)
	})
	return c.initErr
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return dst, err
	}
	return c.encoder.EncodeAll(src, dst[:0]), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return dst, err
	}
	return c.decoder.DecodeAll(src, dst[:0])
}
