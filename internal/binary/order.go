package binary

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-hdfobject/datatype"
)

// ErrUnsupportedOrder is returned for byte orders that have no fixed-width
// integer layout, such as VAX.
var ErrUnsupportedOrder = errors.New("binary: unsupported byte order")

// For maps a datatype byte order to an encoding/binary order. OrderNone is
// treated as little-endian since it only applies to single-byte values.
func For(order datatype.ByteOrder) (binary.ByteOrder, error) {
	switch order {
	case datatype.OrderLE, datatype.OrderNone:
		return binary.LittleEndian, nil
	case datatype.OrderBE:
		return binary.BigEndian, nil
	case datatype.OrderNative:
		return binary.NativeEndian, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOrder, order)
}
