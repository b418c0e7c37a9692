package layout

import (
	"errors"
	"fmt"
	"io"

	"github.com/robert-malhotra/go-hdfobject/internal/binary"
)

// ErrOutOfBounds is returned when a slab does not fit the dataset extents.
var ErrOutOfBounds = errors.New("layout: selection out of bounds")

// Slab is a strided rectangular selection. A nil Stride means 1 along every
// dimension.
type Slab struct {
	Start  []uint64
	Count  []uint64
	Stride []uint64
}

// Whole returns the slab covering all of dims.
func Whole(dims []uint64) Slab {
	s := Slab{
		Start:  make([]uint64, len(dims)),
		Count:  append([]uint64(nil), dims...),
		Stride: make([]uint64, len(dims)),
	}
	for i := range s.Stride {
		s.Stride[i] = 1
	}
	return s
}

func (s Slab) stride(d int) uint64 {
	if s.Stride == nil {
		return 1
	}
	return s.Stride[d]
}

// NumElements returns the number of selected elements.
func (s Slab) NumElements() uint64 {
	n := uint64(1)
	for _, c := range s.Count {
		n *= c
	}
	return n
}

// Validate checks that every selected coordinate lies inside dims.
func (s Slab) Validate(dims []uint64) error {
	if len(s.Start) != len(dims) || len(s.Count) != len(dims) ||
		(s.Stride != nil && len(s.Stride) != len(dims)) {
		return fmt.Errorf("%w: selection rank does not match dataset rank %d", ErrOutOfBounds, len(dims))
	}
	for d := range dims {
		if s.Count[d] == 0 {
			return fmt.Errorf("%w: dimension %d selects no elements", ErrOutOfBounds, d)
		}
		if s.stride(d) == 0 {
			return fmt.Errorf("%w: dimension %d has zero stride", ErrOutOfBounds, d)
		}
		// Compared by division so huge strides cannot wrap around.
		if s.Start[d] >= dims[d] || s.Count[d]-1 > (dims[d]-1-s.Start[d])/s.stride(d) {
			return fmt.Errorf("%w: dimension %d, start=%d, count=%d, stride=%d, size=%d",
				ErrOutOfBounds, d, s.Start[d], s.Count[d], s.stride(d), dims[d])
		}
	}
	return nil
}

// rowStrides returns the byte distance between consecutive indices of each
// dimension.
func rowStrides(dims []uint64, elementSize uint64) []uint64 {
	strides := make([]uint64, len(dims))
	if len(dims) == 0 {
		return strides
	}
	strides[len(dims)-1] = elementSize
	for d := len(dims) - 2; d >= 0; d-- {
		strides[d] = strides[d+1] * dims[d+1]
	}
	return strides
}

// Gather reads the elements selected by s from src, a row-major buffer with
// extents dims.
func Gather(src io.ReaderAt, dims []uint64, s Slab, elementSize uint64) ([]byte, error) {
	if len(dims) == 0 {
		out := make([]byte, elementSize)
		return out, binary.NewReader(src, binary.DefaultConfig()).ReadFull(out)
	}
	if err := s.Validate(dims); err != nil {
		return nil, err
	}
	out := make([]byte, s.NumElements()*elementSize)
	c := copier{
		slab:       s,
		srcStrides: rowStrides(dims, elementSize),
		dstStrides: rowStrides(s.Count, elementSize),
		elemSize:   elementSize,
		rank:       len(dims),
	}
	r := binary.NewReader(src, binary.DefaultConfig())
	err := c.walk(0, 0, 0, func(srcOff, dstOff, n uint64) error {
		return r.At(int64(srcOff)).ReadFull(out[dstOff : dstOff+n])
	})
	return out, err
}

// Scatter writes data, a dense buffer of the selected elements, into dst at
// the positions selected by s.
func Scatter(dst io.WriterAt, dims []uint64, s Slab, elementSize uint64, data []byte) error {
	if len(dims) == 0 {
		return binary.NewWriter(dst, binary.DefaultConfig()).WriteBytes(data[:elementSize])
	}
	if err := s.Validate(dims); err != nil {
		return err
	}
	if want := s.NumElements() * elementSize; uint64(len(data)) != want {
		return fmt.Errorf("layout: scatter of %d bytes, selection holds %d", len(data), want)
	}
	c := copier{
		slab:       s,
		srcStrides: rowStrides(dims, elementSize),
		dstStrides: rowStrides(s.Count, elementSize),
		elemSize:   elementSize,
		rank:       len(dims),
	}
	w := binary.NewWriter(dst, binary.DefaultConfig())
	return c.walk(0, 0, 0, func(fileOff, bufOff, n uint64) error {
		return w.At(int64(fileOff)).WriteBytes(data[bufOff : bufOff+n])
	})
}

type copier struct {
	slab       Slab
	srcStrides []uint64
	dstStrides []uint64
	elemSize   uint64
	rank       int
}

// walk visits every contiguous run of the selection, calling fn with the
// offset in the full buffer, the offset in the dense buffer and the run
// length in bytes.
func (c *copier) walk(dim int, srcOffset, dstOffset uint64, fn func(src, dst, n uint64) error) error {
	start, count, stride := c.slab.Start[dim], c.slab.Count[dim], c.slab.stride(dim)
	if dim == c.rank-1 {
		if stride == 1 {
			return fn(srcOffset+start*c.srcStrides[dim], dstOffset, count*c.elemSize)
		}
		for i := uint64(0); i < count; i++ {
			src := srcOffset + (start+i*stride)*c.srcStrides[dim]
			if err := fn(src, dstOffset+i*c.elemSize, c.elemSize); err != nil {
				return err
			}
		}
		return nil
	}

	for i := uint64(0); i < count; i++ {
		err := c.walk(dim+1,
			srcOffset+(start+i*stride)*c.srcStrides[dim],
			dstOffset+i*c.dstStrides[dim],
			fn)
		if err != nil {
			return err
		}
	}
	return nil
}
