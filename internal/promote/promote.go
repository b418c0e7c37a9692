// Package promote converts unsigned integers held in same-width signed
// containers to the next wider signed type, and back.
//
// Stored unsigned data arrives "as stored": an 8-bit 0xFF is an int8 -1.
// Promote widens it to int16 255; Demote truncates back to the stored
// bit pattern. 64-bit values have no wider type and pass through unchanged.
package promote

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

var (
	// ErrLossyConversion marks 64-bit unsigned values that do not fit in int64.
	// It is reported to loggers, never returned.
	ErrLossyConversion = errors.New("promote: unsigned 64-bit value exceeds int64 range")

	// ErrNotPromotable is returned for values that are not integer slices.
	ErrNotPromotable = errors.New("promote: unsupported element type")
)

// Widen applies v < 0 ? v + 2^bits : v element-wise into a wider type.
func Widen[S, D constraints.Signed](src []S, bits uint) []D {
	dst := make([]D, len(src))
	for i, v := range src {
		d := D(v)
		if v < 0 {
			d += D(1) << bits
		}
		dst[i] = d
	}
	return dst
}

// Narrow truncates each element to the narrower type's bit pattern.
func Narrow[D, S constraints.Integer](src []D) []S {
	dst := make([]S, len(src))
	for i, v := range src {
		dst[i] = S(v)
	}
	return dst
}

// Promote widens a stored-width unsigned slice: []int8 to []int16, []int16 to
// []int32 and []int32 to []int64. A []int64 is copied unchanged and lossy is
// true when any element has its top bit set.
func Promote(src any) (dst any, lossy bool, err error) {
	switch s := src.(type) {
	case []int8:
		return Widen[int8, int16](s, 8), false, nil
	case []int16:
		return Widen[int16, int32](s, 16), false, nil
	case []int32:
		return Widen[int32, int64](s, 32), false, nil
	case []int64:
		out := make([]int64, len(s))
		copy(out, s)
		for _, v := range s {
			if v < 0 {
				lossy = true
				break
			}
		}
		return out, lossy, nil
	}
	return nil, false, fmt.Errorf("%w: %T", ErrNotPromotable, src)
}

// Demote narrows a promoted slice back to its stored width: []int16 to
// []int8, []int32 to []int16 and []int64 to []int32. storedSize is the
// stored element width in bytes; a []int64 with storedSize 8 was never
// promoted and is copied unchanged.
func Demote(src any, storedSize int) (any, error) {
	switch s := src.(type) {
	case []int16:
		return Narrow[int16, int8](s), nil
	case []int32:
		return Narrow[int32, int16](s), nil
	case []int64:
		if storedSize == 8 {
			out := make([]int64, len(s))
			copy(out, s)
			return out, nil
		}
		return Narrow[int64, int32](s), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotPromotable, src)
}

// Value returns the true unsigned value of a single stored element of the
// given byte width.
func Value(v int64, size int) uint64 {
	if size >= 8 {
		return uint64(v)
	}
	return uint64(v) & (1<<(uint(size)*8) - 1)
}
