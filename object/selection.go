package object

import (
	"go.uber.org/multierr"
)

// Selection is a strided hyperslab over a dataset's extents plus the axes
// that play the row, column and depth roles for display.
//
// The zero value is not usable; datasets initialize their selection on
// first use.
type Selection struct {
	dims   []uint64
	start  []uint64
	count  []uint64
	stride []uint64
	index  [3]int
	image  bool
	inited bool
}

func newSelection(dims []uint64, image bool) Selection {
	rank := len(dims)
	return Selection{
		dims:   append([]uint64(nil), dims...),
		start:  make([]uint64, rank),
		count:  make([]uint64, rank),
		stride: make([]uint64, rank),
		image:  image,
	}
}

func (s *Selection) init() {
	if !s.inited {
		s.ResetSelection()
	}
}

// Rank returns the number of dimensions.
func (s *Selection) Rank() int {
	return len(s.dims)
}

// Dims returns a copy of the full extents.
func (s *Selection) Dims() []uint64 {
	return append([]uint64(nil), s.dims...)
}

// IsImage reports whether rank > 2 selections use image axis order.
func (s *Selection) IsImage() bool {
	return s.image
}

// ResetSelection selects the default hyperslab. Rank 1 selects the whole
// axis and rank 2 both axes in natural order. Above rank 2, an image maps
// its last two dimensions to row and column and the third-from-last to
// depth; otherwise the first three dimensions are used in order. The chosen
// axes are selected whole, every other axis is fixed at index 0.
func (s *Selection) ResetSelection() {
	rank := len(s.dims)
	for i := 0; i < rank; i++ {
		s.start[i] = 0
		s.count[i] = 1
		s.stride[i] = 1
	}
	s.index = [3]int{}

	switch {
	case rank == 1:
		s.count[0] = s.dims[0]
	case rank == 2:
		s.index[0], s.index[1] = 0, 1
		s.count[0], s.count[1] = s.dims[0], s.dims[1]
	case rank > 2:
		if s.image {
			s.index = [3]int{rank - 2, rank - 1, rank - 3}
		} else {
			s.index = [3]int{0, 1, 2}
		}
		for _, axis := range s.index {
			s.count[axis] = s.dims[axis]
		}
	}
	s.inited = true
}

// StartDims returns the live per-axis start offsets.
func (s *Selection) StartDims() []uint64 {
	s.init()
	return s.start
}

// SelectedDims returns the live per-axis element counts.
func (s *Selection) SelectedDims() []uint64 {
	s.init()
	return s.count
}

// Stride returns the live per-axis strides.
func (s *Selection) Stride() []uint64 {
	s.init()
	return s.stride
}

// SelectedIndex returns the live display axes: row, column and depth, as
// far as the rank allows.
func (s *Selection) SelectedIndex() []int {
	s.init()
	n := len(s.dims)
	if n > 3 {
		n = 3
	}
	return s.index[:n]
}

// Height returns the selected count along the row axis.
func (s *Selection) Height() uint64 {
	s.init()
	if len(s.dims) < 1 {
		return 1
	}
	return s.count[s.index[0]]
}

// Width returns the selected count along the column axis, or 1 below rank 2.
func (s *Selection) Width() uint64 {
	s.init()
	if len(s.dims) < 2 {
		return 1
	}
	return s.count[s.index[1]]
}

// Depth returns the selected count along the depth axis, or 1 below rank 3.
func (s *Selection) Depth() uint64 {
	s.init()
	if len(s.dims) < 3 {
		return 1
	}
	return s.count[s.index[2]]
}

// NumSelected returns the number of selected elements.
func (s *Selection) NumSelected() uint64 {
	s.init()
	n := uint64(1)
	for _, c := range s.count {
		n *= c
	}
	return n
}

// Validate checks every axis of the current hyperslab against the extents.
// All failing axes are reported, each as a *SelectionError.
func (s *Selection) Validate() error {
	s.init()
	var err error
	for i, extent := range s.dims {
		e := &SelectionError{Axis: i, Start: s.start[i], Count: s.count[i], Stride: s.stride[i], Extent: extent}
		switch {
		case s.count[i] == 0:
			e.Reason = "count must be at least 1"
		case s.stride[i] == 0:
			e.Reason = "stride must be at least 1"
		case s.start[i] >= extent:
			e.Reason = "start is past the end"
		case (s.count[i]-1) > (extent-1-s.start[i])/s.stride[i]:
			e.Reason = "last selected index is past the end"
		default:
			continue
		}
		err = multierr.Append(err, e)
	}
	return err
}

// Hyperslab returns a copy of the current selection for a backend.
func (s *Selection) Hyperslab() Hyperslab {
	s.init()
	return Hyperslab{
		Dims:   append([]uint64(nil), s.dims...),
		Start:  append([]uint64(nil), s.start...),
		Count:  append([]uint64(nil), s.count...),
		Stride: append([]uint64(nil), s.stride...),
	}
}
