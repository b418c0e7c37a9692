package object

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/promote"
)

// Common errors
var (
	ErrInvalidDatatype  = datatype.ErrInvalidDatatype
	ErrInvalidSelection = errors.New("invalid selection")
	ErrUnsupported      = errors.New("unsupported operation")
	ErrNotLoaded        = errors.New("data not loaded")
	ErrNoBackend        = errors.New("no backend configured")
	ErrUnknownFormat    = errors.New("unknown backend format")

	// ErrLossyConversion is logged, never returned, when unsigned 64-bit
	// values exceed the int64 range.
	ErrLossyConversion = promote.ErrLossyConversion
)

// SelectionError describes a hyperslab axis that does not fit the dataset.
type SelectionError struct {
	Axis   int
	Start  uint64
	Count  uint64
	Stride uint64
	Extent uint64
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection on axis %d (start=%d, count=%d, stride=%d, extent=%d): %s",
		e.Axis, e.Start, e.Count, e.Stride, e.Extent, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidSelection.
func (e *SelectionError) Unwrap() error {
	return ErrInvalidSelection
}
