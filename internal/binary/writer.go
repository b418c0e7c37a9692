package binary

import (
	"encoding/binary"
	"io"
)

// Writer writes fixed-width values to an io.WriterAt.
type Writer struct {
	w     io.WriterAt
	order binary.ByteOrder
	pos   int64
}

// NewWriter creates a writer positioned at offset 0.
func NewWriter(w io.WriterAt, cfg Config) *Writer {
	return &Writer{w: w, order: cfg.ByteOrder}
}

// At returns a new writer positioned at the given offset.
// The new writer shares the underlying io.WriterAt but has independent position.
func (w *Writer) At(offset int64) *Writer {
	return &Writer{w: w.w, order: w.order, pos: offset}
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WriteBytes writes the given bytes at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.WriteAt(data, w.pos)
	w.pos += int64(n)
	return err
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteUint16 writes an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	return w.WriteUintN(uint64(v), 2)
}

// WriteUint32 writes an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	return w.WriteUintN(uint64(v), 4)
}

// WriteUint64 writes an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) error {
	return w.WriteUintN(v, 8)
}

// WriteUintN writes the low n bytes of v (n is 1, 2, 4, or 8).
func (w *Writer) WriteUintN(v uint64, n int) error {
	buf := make([]byte, n)
	switch n {
	case 1:
		buf[0] = uint8(v)
	case 2:
		w.order.PutUint16(buf, uint16(v))
	case 4:
		w.order.PutUint32(buf, uint32(v))
	case 8:
		w.order.PutUint64(buf, v)
	default:
		for i := 0; i < n; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		if w.order == binary.BigEndian {
			for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
				buf[i], buf[j] = buf[j], buf[i]
			}
		}
	}
	return w.WriteBytes(buf)
}

// WriteZeros writes n zero bytes.
func (w *Writer) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}
	return w.WriteBytes(make([]byte, n))
}

// Skip advances the position by n bytes without writing.
func (w *Writer) Skip(n int64) {
	w.pos += n
}

// ByteOrder returns the configured byte order.
func (w *Writer) ByteOrder() binary.ByteOrder {
	return w.order
}

// Buffer is an in-memory io.ReaderAt and io.WriterAt that grows to fit
// writes.
type Buffer struct {
	buf []byte
}

// NewBuffer returns a buffer of n zero bytes.
func NewBuffer(n int) *Buffer {
	return &Buffer{buf: make([]byte, n)}
}

// WrapBuffer returns a buffer that writes into b in place until it must grow.
func WrapBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

// WriteAt implements io.WriterAt.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(b.buf) {
		b.buf = append(b.buf, make([]byte, end-len(b.buf))...)
	}
	return copy(b.buf[off:], p), nil
}

// ReadAt implements io.ReaderAt.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.buf
}
