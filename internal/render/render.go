package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/promote"
)

// Options controls Render output.
type Options struct {
	// Delimiter separates top-level values.
	Delimiter string
	// MaxItems limits how many top-level values are rendered. Zero or less
	// renders all of them.
	MaxItems int
	// MaxChars truncates each non-numeric value, and a non-slice value, to
	// this many characters. Zero or less disables truncation.
	MaxChars int
}

// Records is implemented by struct-of-arrays compound values.
type Records interface {
	Len() int
	Record(i int) []any
	Types() []*datatype.Datatype
}

// Render joins decoded values of type dt into a single line. values is a
// typed slice of elements, a Records value, or a single value.
func Render(values any, dt *datatype.Datatype, opts Options) string {
	if values == nil {
		return ""
	}
	if recs, ok := values.(Records); ok {
		return renderRecords(recs, opts)
	}

	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice {
		return truncate(fmt.Sprint(values), opts.MaxChars)
	}

	elem := elementType(dt)
	n := rv.Len()
	if opts.MaxItems > 0 && n > opts.MaxItems {
		n = opts.MaxItems
	}
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(opts.Delimiter)
		}
		sb.WriteString(Value(rv.Index(i).Interface(), elem, opts.MaxChars))
	}
	return sb.String()
}

func renderRecords(recs Records, opts Options) string {
	n := recs.Len()
	if opts.MaxItems > 0 && n > opts.MaxItems {
		n = opts.MaxItems
	}
	types := recs.Types()
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(opts.Delimiter)
		}
		writeRecord(&sb, recs.Record(i), types, opts.MaxChars)
	}
	return sb.String()
}

func writeRecord(sb *strings.Builder, rec []any, types []*datatype.Datatype, maxChars int) {
	sb.WriteByte('{')
	for j, v := range rec {
		if j > 0 {
			sb.WriteString(", ")
		}
		var dt *datatype.Datatype
		if j < len(types) {
			dt = types[j]
		}
		sb.WriteString(Value(v, dt, maxChars))
	}
	sb.WriteByte('}')
}

// elementType strips array wrappers: array data is delivered flattened.
func elementType(dt *datatype.Datatype) *datatype.Datatype {
	for dt != nil && dt.Class() == datatype.ClassArray {
		dt = dt.Base()
	}
	return dt
}

// Value renders one decoded value of type dt. Numbers are never truncated;
// other values are cut to maxChars when it is positive.
func Value(v any, dt *datatype.Datatype, maxChars int) string {
	if dt != nil {
		switch dt.Class() {
		case datatype.ClassArray:
			return renderList(v, elementType(dt), maxChars)
		case datatype.ClassCompound:
			if rec, ok := v.([]any); ok {
				var sb strings.Builder
				writeRecord(&sb, rec, memberTypes(dt), maxChars)
				return sb.String()
			}
		case datatype.ClassVarLen:
			if dt.Base().Class() == datatype.ClassReference {
				if dt.Base().RefKind() == datatype.RefRegion {
					return "Region Reference"
				}
				return "Object Reference"
			}
		}
	}

	switch x := v.(type) {
	case int8:
		return integer(int64(x), dt)
	case int16:
		return integer(int64(x), dt)
	case int32:
		return integer(int64(x), dt)
	case int64:
		return integer(x, dt)
	case uint8:
		if dt != nil && dt.Class() == datatype.ClassString {
			return string(rune(x))
		}
		return strconv.FormatUint(uint64(x), 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return truncate(x, maxChars)
	case []byte:
		return truncate(hexBytes(x), maxChars)
	case []any:
		return renderList(x, dt, maxChars)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return renderList(v, dt, maxChars)
	}
	return truncate(fmt.Sprint(v), maxChars)
}

func renderList(v any, elem *datatype.Datatype, maxChars int) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return Value(v, elem, maxChars)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Value(rv.Index(i).Interface(), elem, maxChars))
	}
	sb.WriteByte(']')
	return sb.String()
}

func memberTypes(dt *datatype.Datatype) []*datatype.Datatype {
	types := make([]*datatype.Datatype, dt.NumMembers())
	for i := range types {
		types[i] = dt.Member(i).Type
	}
	return types
}

func integer(v int64, dt *datatype.Datatype) string {
	if dt == nil {
		return strconv.FormatInt(v, 10)
	}
	switch {
	case dt.Class() == datatype.ClassReference:
		return "0x" + strconv.FormatUint(uint64(v), 16)
	case dt.Class() == datatype.ClassEnum && dt.IsUnsigned():
		return enumLabelUnsigned(promote.Value(v, dt.ElementSize()), dt.EnumMembers())
	case dt.Class() == datatype.ClassEnum:
		return EnumLabel(v, dt.EnumMembers())
	case dt.IsUnsigned():
		return strconv.FormatUint(promote.Value(v, dt.ElementSize()), 10)
	}
	return strconv.FormatInt(v, 10)
}

func hexBytes(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 2+2*len(b))
	out[0], out[1] = '0', 'x'
	for i, c := range b {
		out[2+2*i] = digits[c>>4]
		out[3+2*i] = digits[c&0x0f]
	}
	return string(out)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
