package decode

import (
	"fmt"
	"math"
	"reflect"

	"github.com/x448/float16"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/binary"
	"github.com/robert-malhotra/go-hdfobject/internal/render"
)

// EncodeAtomic converts a typed slice produced by Atomic back to bytes.
// Integer slices must already be at the stored width.
func EncodeAtomic(dt *datatype.Datatype, values any) ([]byte, error) {
	if dt.Class() == datatype.ClassArray {
		base := dt.Base()
		for base.Class() == datatype.ClassArray {
			base = base.Base()
		}
		if base.Class() == datatype.ClassCompound {
			recs, ok := values.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %T for array of compound", ErrBufferSize, values)
			}
			return encodeRecords(base, recs)
		}
		return EncodeAtomic(base, values)
	}
	if dt.Class() == datatype.ClassCompound {
		cols, ok := values.(*Columns)
		if !ok {
			return nil, fmt.Errorf("%w: %T for compound", ErrBufferSize, values)
		}
		return EncodeCompound(dt, cols)
	}

	size := dt.ElementSize()
	switch v := values.(type) {
	case []int8:
		if size != 1 {
			break
		}
		out := make([]byte, len(v))
		for i, x := range v {
			out[i] = byte(x)
		}
		return out, nil
	case []int16:
		return encodeInts(dt, v, 2)
	case []int32:
		return encodeInts(dt, v, 4)
	case []int64:
		return encodeInts(dt, v, 8)
	case []float32:
		return encodeFloat32(dt, v)
	case []float64:
		if size != 8 {
			break
		}
		return encodeUints(dt, len(v), 8, func(i int) uint64 { return math.Float64bits(v[i]) })
	case []string:
		if !dt.IsText() {
			break
		}
		return render.StringsToFixedBytes(v, size, dt.Charset(), dt.Padding())
	case []byte:
		if size != 1 {
			break
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case [][]byte:
		out := make([]byte, 0, len(v)*size)
		for i, b := range v {
			if len(b) != size {
				return nil, fmt.Errorf("%w: element %d has %d bytes, need %d", ErrBufferSize, i, len(b), size)
			}
			out = append(out, b...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: cannot encode %T as %s", ErrBufferSize, values, dt)
}

func encodeInts[T int16 | int32 | int64](dt *datatype.Datatype, v []T, width int) ([]byte, error) {
	if dt.ElementSize() != width {
		return nil, fmt.Errorf("%w: %d-byte values for %s", ErrBufferSize, width, dt)
	}
	return encodeUints(dt, len(v), width, func(i int) uint64 { return uint64(v[i]) })
}

func encodeFloat32(dt *datatype.Datatype, v []float32) ([]byte, error) {
	if dt.IsFloat16() {
		return encodeUints(dt, len(v), 2, func(i int) uint64 { return uint64(float16.Fromfloat32(v[i]).Bits()) })
	}
	switch dt.ElementSize() {
	case 4:
		return encodeUints(dt, len(v), 4, func(i int) uint64 { return uint64(math.Float32bits(v[i])) })
	}
	return nil, fmt.Errorf("%w: float32 values for %s", ErrBufferSize, dt)
}

func encodeUints(dt *datatype.Datatype, n, width int, at func(int) uint64) ([]byte, error) {
	cfg, err := ByteOrder(dt)
	if err != nil {
		return nil, err
	}
	buf := binary.NewBuffer(n * width)
	w := binary.NewWriter(buf, cfg)
	for i := 0; i < n; i++ {
		if err := w.WriteUintN(at(i), width); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// EncodeCompound converts columns back to packed records. Every member of
// dt must be present, in declaration order.
func EncodeCompound(dt *datatype.Datatype, cols *Columns) ([]byte, error) {
	if dt.NumMembers() != len(cols.Members) {
		return nil, fmt.Errorf("%w: %d of %d members present", ErrUnsupported, len(cols.Members), dt.NumMembers())
	}
	size := dt.Size()
	out := make([]byte, cols.N*size)
	for i, col := range cols.Members {
		m := dt.Member(i)
		if col.Name != m.Name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBufferSize, i, col.Name, m.Name)
		}
		buf, err := encodeColumn(m.Type, col.Values, cols.N)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Name, err)
		}
		msize := m.Type.ElementSize()
		if len(buf) != cols.N*msize {
			return nil, fmt.Errorf("%w: member %q encoded to %d bytes, want %d", ErrBufferSize, m.Name, len(buf), cols.N*msize)
		}
		for k := 0; k < cols.N; k++ {
			copy(out[k*size+m.Offset:], buf[k*msize:(k+1)*msize])
		}
	}
	return out, nil
}

func encodeColumn(t *datatype.Datatype, values any, n int) ([]byte, error) {
	if t.Class() != datatype.ClassArray {
		return EncodeAtomic(t, values)
	}
	items, ok := values.([]any)
	if !ok || len(items) != n {
		return nil, fmt.Errorf("%w: array column %T", ErrBufferSize, values)
	}
	out := make([]byte, 0, n*t.ElementSize())
	for _, item := range items {
		b, err := encodeArray(t, item)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func encodeArray(t *datatype.Datatype, v any) ([]byte, error) {
	base := t.Base()
	switch base.Class() {
	case datatype.ClassCompound, datatype.ClassArray:
		items, ok := v.([]any)
		if !ok || len(items) != t.NumElements() {
			return nil, fmt.Errorf("%w: array value %T", ErrBufferSize, v)
		}
		out := make([]byte, 0, t.ElementSize())
		for _, item := range items {
			b, err := encodeValue(base, item)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	}
	return EncodeAtomic(base, v)
}

func encodeRecords(dt *datatype.Datatype, recs []any) ([]byte, error) {
	out := make([]byte, 0, len(recs)*dt.Size())
	for _, r := range recs {
		b, err := encodeValue(dt, r)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// encodeValue is the inverse of memberValue.
func encodeValue(t *datatype.Datatype, v any) ([]byte, error) {
	switch t.Class() {
	case datatype.ClassArray:
		return encodeArray(t, v)
	case datatype.ClassCompound:
		rec, ok := v.([]any)
		if !ok || len(rec) != t.NumMembers() {
			return nil, fmt.Errorf("%w: record %T", ErrBufferSize, v)
		}
		out := make([]byte, t.Size())
		for i, field := range rec {
			m := t.Member(i)
			b, err := encodeValue(m.Type, field)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", m.Name, err)
			}
			copy(out[m.Offset:], b)
		}
		return out, nil
	}
	if raw, ok := v.([]byte); ok && t.ElementSize() == 1 {
		return EncodeAtomic(t, raw)
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil value for %s", ErrBufferSize, t)
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// Opaque and reference elements are single []byte values.
		return EncodeAtomic(t, [][]byte{rv.Bytes()})
	}
	one := reflect.MakeSlice(reflect.SliceOf(rv.Type()), 1, 1)
	one.Index(0).Set(rv)
	return EncodeAtomic(t, one.Interface())
}
