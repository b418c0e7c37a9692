package binary

import (
	"encoding/binary"
	"io"
)

// Config holds the byte order for a Reader or Writer.
type Config struct {
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns a little-endian configuration.
func DefaultConfig() Config {
	return Config{ByteOrder: binary.LittleEndian}
}

// Reader reads fixed-width values from an io.ReaderAt.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	pos   int64
}

// NewReader creates a reader positioned at offset 0.
func NewReader(r io.ReaderAt, cfg Config) *Reader {
	return &Reader{r: r, order: cfg.ByteOrder}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, order: r.order, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadFull fills buf from the current position.
func (r *Reader) ReadFull(buf []byte) error {
	n, err := r.r.ReadAt(buf, r.pos)
	if n == len(buf) {
		err = nil
	} else if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	r.pos += int64(n)
	return err
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(buf), nil
}

// ReadUintN reads an unsigned integer of n bytes (1, 2, 4, or 8).
func (r *Reader) ReadUintN(n int) (uint64, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return decodeUint(r.order, buf), nil
}

// decodeUint decodes a variable-width unsigned integer.
func decodeUint(order binary.ByteOrder, buf []byte) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(order.Uint16(buf))
	case 4:
		return uint64(order.Uint32(buf))
	case 8:
		return order.Uint64(buf)
	}
	// Odd widths, e.g. packed region reference offsets.
	var val uint64
	if order == binary.BigEndian {
		for _, b := range buf {
			val = val<<8 | uint64(b)
		}
		return val
	}
	for i := len(buf) - 1; i >= 0; i-- {
		val = val<<8 | uint64(buf[i])
	}
	return val
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}
