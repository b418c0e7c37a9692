package filter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Deflate implements zlib compression.
type Deflate struct {
	level int
}

// NewDeflate creates a deflate filter. Param 0 is the compression level
// (0-9); the default is 6.
func NewDeflate(params []uint32) *Deflate {
	level := 6
	if len(params) > 0 && params[0] <= 9 {
		level = int(params[0])
	}
	return &Deflate{level: level}
}

func (f *Deflate) Name() string { return NameDeflate }

func (f *Deflate) Encode(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, f.level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(input); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Deflate) Decode(input []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()

	output, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return output, nil
}
