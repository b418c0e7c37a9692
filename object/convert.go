package object

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/promote"
)

// ConvertFromUnsigned widens loaded unsigned values to the next signed type
// so they hold their true magnitude. It is a no-op for signed data and when
// the values are already converted. 64-bit values stay int64; values above
// the int64 range are logged, not rejected.
func (d *Dataset) ConvertFromUnsigned() (any, error) {
	if d.IsCompound() {
		return nil, fmt.Errorf("unsigned conversion of %s: %w: compound data", d.Path(), ErrUnsupported)
	}
	if !d.loaded {
		return nil, fmt.Errorf("unsigned conversion of %s: %w", d.Path(), ErrNotLoaded)
	}
	if !d.dtype.IsUnsigned() || d.unsignedConverted {
		return d.data, nil
	}

	promoted, lossy, err := promote.Promote(d.data)
	if errors.Is(err, promote.ErrNotPromotable) {
		d.log.Debug("unsigned values are not integers, left as stored",
			zap.String("dataset", d.Path()), zap.String("type", fmt.Sprintf("%T", d.data)))
		return d.data, nil
	}
	if err != nil {
		return nil, err
	}
	if lossy {
		d.log.Warn("unsigned 64-bit values exceed the signed range and are shown as negative",
			zap.String("dataset", d.Path()), zap.Error(ErrLossyConversion))
	}
	d.data = promoted
	d.unsignedConverted = true
	return d.data, nil
}

// ConvertToUnsigned narrows promoted values back to their stored width and
// bit pattern. It is a no-op unless ConvertFromUnsigned has been applied.
func (d *Dataset) ConvertToUnsigned() (any, error) {
	if d.IsCompound() {
		return nil, fmt.Errorf("unsigned conversion of %s: %w: compound data", d.Path(), ErrUnsupported)
	}
	if !d.loaded {
		return nil, fmt.Errorf("unsigned conversion of %s: %w", d.Path(), ErrNotLoaded)
	}
	if !d.unsignedConverted {
		return d.data, nil
	}
	narrowed, err := promote.Demote(d.data, storedWidth(d.dtype))
	if err != nil {
		return nil, err
	}
	d.data = narrowed
	d.unsignedConverted = false
	return d.data, nil
}

// IsUnsignedConverted reports whether loaded values are promoted.
func (d *Dataset) IsUnsignedConverted() bool {
	return d.unsignedConverted
}

// storedWidth is the byte width of the innermost atomic element.
func storedWidth(dt *datatype.Datatype) int {
	for dt.Class() == datatype.ClassArray || dt.Class() == datatype.ClassVarLen {
		dt = dt.Base()
	}
	return dt.ElementSize()
}

// intWidth returns the element width of an integer slice, or 0.
func intWidth(v any) int {
	switch v.(type) {
	case []int8:
		return 1
	case []int16:
		return 2
	case []int32:
		return 4
	case []int64:
		return 8
	}
	return 0
}
