package decode

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/binary"
	"github.com/robert-malhotra/go-hdfobject/internal/render"
)

var (
	// ErrUnsupported is returned for datatypes this package cannot convert.
	ErrUnsupported = errors.New("decode: unsupported datatype")

	// ErrBufferSize is returned when a buffer does not hold a whole number of
	// elements, or a value does not match the datatype's shape.
	ErrBufferSize = errors.New("decode: buffer does not match datatype")
)

// ByteOrder returns the reader configuration for dt.
func ByteOrder(dt *datatype.Datatype) (binary.Config, error) {
	order, err := binary.For(dt.Order())
	if err != nil {
		return binary.Config{}, fmt.Errorf("%w: %s: %w", ErrUnsupported, dt, err)
	}
	return binary.Config{ByteOrder: order}, nil
}

// Count returns the number of dt elements in data.
func Count(dt *datatype.Datatype, data []byte) (int, error) {
	size := dt.ElementSize()
	if size <= 0 {
		return 0, fmt.Errorf("%w: %s has no fixed size", ErrUnsupported, dt)
	}
	if len(data)%size != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a multiple of element size %d", ErrBufferSize, len(data), size)
	}
	return len(data) / size, nil
}

// Atomic decodes data as a sequence of dt elements. Arrays are returned
// flattened in the base type; arrays of compounds as []any of records.
func Atomic(dt *datatype.Datatype, data []byte) (any, error) {
	if dt.Class() == datatype.ClassArray {
		base := dt.Base()
		for base.Class() == datatype.ClassArray {
			base = base.Base()
		}
		if base.Class() == datatype.ClassCompound {
			return Records(base, data, nil)
		}
		return Atomic(base, data)
	}

	n, err := Count(dt, data)
	if err != nil {
		return nil, err
	}
	size := dt.ElementSize()
	if dt.IsVarLen() {
		// Slots are handed back as raw bytes.
		return split(data, n, size), nil
	}

	switch dt.Class() {
	case datatype.ClassInteger, datatype.ClassEnum, datatype.ClassBitfield,
		datatype.ClassTime, datatype.ClassChar:
		return decodeIntegers(dt, data, n, size)

	case datatype.ClassFloat:
		return decodeFloats(dt, data, n, size)

	case datatype.ClassString:
		if size == 1 {
			return bytes.Clone(data), nil
		}
		return render.FixedBytesToStringsIn(data, size, dt.Charset()), nil

	case datatype.ClassReference:
		if dt.RefKind() == datatype.RefObject {
			return decodeIntegers(dt, data, n, size)
		}
		return split(data, n, size), nil

	case datatype.ClassOpaque:
		return split(data, n, size), nil

	case datatype.ClassCompound:
		return Compound(dt, data, nil)
	}
	return nil, fmt.Errorf("%w: class %s", ErrUnsupported, dt.Class())
}

func decodeIntegers(dt *datatype.Datatype, data []byte, n, size int) (any, error) {
	cfg, err := ByteOrder(dt)
	if err != nil {
		return nil, err
	}
	r := binary.NewReader(bytes.NewReader(data), cfg)
	switch size {
	case 1:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(data[i])
		}
		return out, nil
	case 2:
		out := make([]int16, n)
		for i := range out {
			v, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			out[i] = int16(v)
		}
		return out, nil
	case 4:
		out := make([]int32, n)
		for i := range out {
			v, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			out[i] = int32(v)
		}
		return out, nil
	case 8:
		out := make([]int64, n)
		for i := range out {
			v, err := r.ReadUint64()
			if err != nil {
				return nil, err
			}
			out[i] = int64(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d-byte integer", ErrUnsupported, size)
}

func decodeFloats(dt *datatype.Datatype, data []byte, n, size int) (any, error) {
	cfg, err := ByteOrder(dt)
	if err != nil {
		return nil, err
	}
	r := binary.NewReader(bytes.NewReader(data), cfg)
	if dt.IsFloat16() {
		out := make([]float32, n)
		for i := range out {
			v, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			out[i] = float16.Frombits(v).Float32()
		}
		return out, nil
	}
	switch size {
	case 4:
		out := make([]float32, n)
		for i := range out {
			v, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			out[i] = math.Float32frombits(v)
		}
		return out, nil
	case 8:
		out := make([]float64, n)
		for i := range out {
			v, err := r.ReadUint64()
			if err != nil {
				return nil, err
			}
			out[i] = math.Float64frombits(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d-byte float", ErrUnsupported, size)
}

// split copies data into n slices of size bytes.
func split(data []byte, n, size int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = bytes.Clone(data[i*size : (i+1)*size])
	}
	return out
}
