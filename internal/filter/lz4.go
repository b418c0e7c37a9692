package filter

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/robert-malhotra/go-hdfobject/internal/binary"
)

const (
	lz4Raw        = 0
	lz4Compressed = 1
	lz4HeaderSize = 5
)

// LZ4 implements LZ4 block compression. Each encoded blob starts with the
// little-endian uncompressed length and a mode byte; incompressible input is
// stored raw.
type LZ4 struct {
	compressor lz4.Compressor
}

// NewLZ4 creates an lz4 filter. It takes no params.
func NewLZ4(params []uint32) *LZ4 {
	return &LZ4{}
}

func (f *LZ4) Name() string { return NameLZ4 }

func (f *LZ4) Encode(input []byte) ([]byte, error) {
	out := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(input)))
	// Use len(input)-1 so compression fails if it doesn't save bytes.
	limit := len(input) - 1
	if limit < 0 {
		limit = 0
	}
	zlen, err := f.compressor.CompressBlock(input, out[lz4HeaderSize:lz4HeaderSize+limit])
	if err != nil && err != lz4.ErrInvalidSourceShortBuffer {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	mode := byte(lz4Compressed)
	if zlen == 0 {
		mode = lz4Raw
		zlen = copy(out[lz4HeaderSize:], input)
	}
	w := binary.NewWriter(binary.WrapBuffer(out), binary.DefaultConfig())
	if err := w.WriteUint32(uint32(len(input))); err != nil {
		return nil, err
	}
	if err := w.WriteUint8(mode); err != nil {
		return nil, err
	}
	return out[:lz4HeaderSize+zlen], nil
}

func (f *LZ4) Decode(input []byte) ([]byte, error) {
	if len(input) < lz4HeaderSize {
		return nil, fmt.Errorf("lz4: input too short for header")
	}
	r := binary.NewReader(binary.WrapBuffer(input), binary.DefaultConfig())
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	mode, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	payload := input[lz4HeaderSize:]
	switch mode {
	case lz4Raw:
		if len(payload) != int(n) {
			return nil, fmt.Errorf("lz4: got %d raw bytes, expected %d", len(payload), n)
		}
		return payload, nil
	case lz4Compressed:
		out := make([]byte, n)
		got, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if got != int(n) {
			return nil, fmt.Errorf("lz4: got %d uncompressed bytes, expected %d", got, n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("lz4: unknown block mode 0x%x", mode)
}
