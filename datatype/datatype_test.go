package datatype

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func mustInt(t *testing.T, size int, order ByteOrder, sign Sign) *Datatype {
	t.Helper()
	dt, err := NewInteger(size, order, sign)
	require.NoError(t, err)
	return dt
}

func mustFloat(t *testing.T, size int, order ByteOrder) *Datatype {
	t.Helper()
	dt, err := NewFloat(size, order)
	require.NoError(t, err)
	return dt
}

func TestNewIntegerValidation(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		order ByteOrder
		sign  Sign
		ok    bool
	}{
		{"32-bit LE signed", 4, OrderLE, SignTwos, true},
		{"native size", Native, OrderNative, SignNative, true},
		{"single byte no order", 1, OrderNone, SignUnsigned, true},
		{"zero size", 0, OrderLE, SignTwos, false},
		{"negative non-native size", -2, OrderLE, SignTwos, false},
		{"odd size", 3, OrderLE, SignTwos, false},
		{"no order on wide int", 4, OrderNone, SignTwos, false},
		{"vax integer", 4, OrderVAX, SignTwos, false},
		{"bad order", 4, ByteOrder(9), SignTwos, false},
		{"bad sign", 4, OrderLE, Sign(7), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := NewInteger(tt.size, tt.order, tt.sign)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, ClassInteger, dt.Class())
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDatatype))
		})
	}
}

func TestValidationReportsEveryProblem(t *testing.T) {
	_, err := NewInteger(3, ByteOrder(9), Sign(7))
	require.ErrorIs(t, err, ErrInvalidDatatype)
	msg := err.Error()
	assert.Contains(t, msg, "size 3")
	assert.Contains(t, msg, "invalid byte order")
	assert.Contains(t, msg, "invalid sign")
}

func TestArraySize(t *testing.T) {
	f32 := mustFloat(t, 4, OrderBE)
	arr, err := NewArray(f32, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 24, arr.Size())
	assert.Equal(t, 6, arr.NumElements())
	assert.Equal(t, []int{2, 3}, arr.ArrayDims())
	assert.Same(t, f32, arr.Base())
	assert.Nil(t, arr.Members())

	_, err = NewArray(nil)
	assert.ErrorIs(t, err, ErrInvalidDatatype)
	_, err = NewArray(f32, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidDatatype)
}

func TestCompoundLayout(t *testing.T) {
	i32 := mustInt(t, 4, OrderBE, SignTwos)
	f32 := mustFloat(t, 4, OrderBE)
	arr, err := NewArray(f32, 2)
	require.NoError(t, err)

	packed, err := NewPackedCompound(Member{Name: "A", Type: i32}, Member{Name: "B", Type: arr})
	require.NoError(t, err)
	assert.Equal(t, 12, packed.Size())
	assert.Equal(t, 4, packed.Member(1).Offset)
	assert.Nil(t, packed.Base())

	padded, err := NewCompound(Member{Name: "A", Offset: 0, Type: i32}, Member{Name: "B", Offset: 8, Type: arr})
	require.NoError(t, err)
	assert.Equal(t, 16, padded.Size())

	_, err = NewCompound(Member{Name: "A", Type: i32}, Member{Name: "A", Offset: 4, Type: i32})
	require.ErrorIs(t, err, ErrInvalidDatatype)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = NewCompound()
	assert.ErrorIs(t, err, ErrInvalidDatatype)
}

func TestIsUnsigned(t *testing.T) {
	u8 := mustInt(t, 1, OrderNone, SignUnsigned)
	s16 := mustInt(t, 2, OrderLE, SignTwos)
	arr, err := NewArray(u8, 4)
	require.NoError(t, err)
	allUnsigned, err := NewPackedCompound(Member{Name: "a", Type: u8}, Member{Name: "b", Type: arr})
	require.NoError(t, err)
	mixed, err := NewPackedCompound(Member{Name: "a", Type: u8}, Member{Name: "b", Type: s16})
	require.NoError(t, err)
	bits, err := NewBitfield(2, OrderLE)
	require.NoError(t, err)

	assert.True(t, u8.IsUnsigned())
	assert.False(t, s16.IsUnsigned())
	assert.True(t, arr.IsUnsigned())
	assert.True(t, allUnsigned.IsUnsigned())
	assert.False(t, mixed.IsUnsigned())
	assert.True(t, bits.IsUnsigned())
	assert.False(t, mustFloat(t, 8, OrderLE).IsUnsigned())
}

func TestDescription(t *testing.T) {
	u32 := mustInt(t, 4, OrderLE, SignUnsigned)
	f32 := mustFloat(t, 4, OrderLE)
	arr, err := NewArray(f32, 2, 3)
	require.NoError(t, err)
	str, err := NewString(5, CharsetASCII, PadNullTerm)
	require.NoError(t, err)
	vstr, err := NewString(Native, CharsetUTF8, PadNullTerm)
	require.NoError(t, err)
	vlen, err := NewVarLen(u32)
	require.NoError(t, err)
	enum, err := NewEnum(2, OrderLE, SignTwos, NewEnumMap(EnumMember{"1", "low"}, EnumMember{"2", "high"}))
	require.NoError(t, err)
	ref, err := NewReference(RefObject)
	require.NoError(t, err)
	cmpd, err := NewPackedCompound(Member{Name: "x", Type: u32}, Member{Name: "y", Type: f32})
	require.NoError(t, err)

	tests := []struct {
		dt   *Datatype
		want string
	}{
		{u32, "32-bit unsigned integer"},
		{mustInt(t, Native, OrderNative, SignTwos), "native integer"},
		{mustFloat(t, Native, OrderNative), "native floating-point"},
		{arr, "Array [2 x 3] of 32-bit floating-point"},
		{str, "String, length = 5"},
		{vstr, "Variable-length string"},
		{vlen, "Variable-length of 32-bit unsigned integer"},
		{enum, "16-bit enum (1=low, 2=high)"},
		{ref, "Object reference"},
		{cmpd, "Compound {x, y}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dt.Description())
	}
}

func TestElementSizeNative(t *testing.T) {
	assert.Equal(t, 8, mustFloat(t, Native, OrderNative).ElementSize())
	assert.Equal(t, strconv.IntSize/8, mustInt(t, Native, OrderNative, SignTwos).ElementSize())
	vstr, err := NewString(Native, CharsetASCII, PadNullTerm)
	require.NoError(t, err)
	assert.Equal(t, VarLenSlotSize, vstr.ElementSize())
	assert.True(t, vstr.IsVarString())
	assert.True(t, vstr.IsVarLen())
	assert.False(t, vstr.IsText())

	vlen, err := NewVarLen(mustInt(t, 4, OrderLE, SignTwos))
	require.NoError(t, err)
	assert.True(t, vlen.IsVarLen())
	assert.False(t, mustInt(t, 4, OrderLE, SignTwos).IsVarLen())

	assert.True(t, mustFloat(t, 2, OrderLE).IsFloat16())
	assert.False(t, mustFloat(t, 4, OrderLE).IsFloat16())
	assert.False(t, mustFloat(t, Native, OrderNative).IsFloat16())
}

func TestParseEnumMembers(t *testing.T) {
	m, err := ParseEnumMembers(" 10=lowTemp,40 = highTemp ")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	label, ok := m.Label("40")
	assert.True(t, ok)
	assert.Equal(t, "highTemp", label)
	assert.Equal(t, "10=lowTemp, 40=highTemp", m.String())

	_, err = ParseEnumMembers("x=1")
	assert.ErrorIs(t, err, ErrInvalidDatatype)
	_, err = ParseEnumMembers("1")
	assert.ErrorIs(t, err, ErrInvalidDatatype)

	empty, err := ParseEnumMembers("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestEnumSpecKeepsPunctuatedLabels(t *testing.T) {
	members := NewEnumMap(EnumMember{"1", "low, cold"}, EnumMember{"2", "a=b"})
	dt, err := NewEnum(1, OrderNone, SignUnsigned, members)
	require.NoError(t, err)

	again, err := FromSpec(dt.Spec())
	require.NoError(t, err)
	assert.True(t, dt.Equal(again), "got %s", again)
	label, ok := again.EnumMembers().Label("2")
	require.True(t, ok)
	assert.Equal(t, "a=b", label)

	b, err := msgpack.Marshal(dt.Spec())
	require.NoError(t, err)
	var decoded Spec
	require.NoError(t, msgpack.Unmarshal(b, &decoded))
	fromDisk, err := FromSpec(&decoded)
	require.NoError(t, err)
	assert.True(t, dt.Equal(fromDisk))

	fromYAML, err := ParseYAML([]byte(strings.Join([]string{
		"class: enum",
		"size: 1",
		"sign: unsigned",
		"enum:",
		"  - {value: 1, label: 'low, cold'}",
		"  - {value: 2, label: 'a=b'}",
	}, "\n")))
	require.NoError(t, err)
	assert.True(t, dt.Equal(fromYAML), "got %s", fromYAML)

	_, err = FromSpec(&Spec{Class: "enum", Size: 1, Enum: EnumMembers{{Value: "one", Label: "x"}}})
	assert.ErrorIs(t, err, ErrInvalidDatatype)
}

func TestFlatMembers(t *testing.T) {
	i32 := mustInt(t, 4, OrderLE, SignTwos)
	inner, err := NewPackedCompound(Member{Name: "b", Type: i32}, Member{Name: "c", Type: i32})
	require.NoError(t, err)
	outer, err := NewPackedCompound(
		Member{Name: "a", Type: i32},
		Member{Name: "nested", Type: inner},
		Member{Name: "d", Type: i32},
	)
	require.NoError(t, err)

	var paths []string
	var tops []int
	for _, fm := range outer.FlatMembers() {
		paths = append(paths, fm.Path)
		tops = append(tops, fm.Top)
	}
	assert.Equal(t, []string{"a", "nested/b", "nested/c", "d"}, paths)
	assert.Equal(t, []int{0, 1, 1, 2}, tops)

	arr, err := NewArray(outer, 3)
	require.NoError(t, err)
	assert.Len(t, arr.FlatMembers(), 4)
	assert.Nil(t, i32.FlatMembers())
}

func TestParseYAML(t *testing.T) {
	doc := `
class: compound
members:
  - name: A
    type: {class: integer, size: 4, order: be}
  - name: B
    type:
      class: array
      dims: [2]
      base: {class: float, size: 4, order: be}
  - name: level
    type: {class: enum, size: 1, sign: unsigned, enum: "1=low, 2=high"}
`
	dt, err := ParseYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, ClassCompound, dt.Class())
	assert.Equal(t, 13, dt.Size())
	assert.Equal(t, OrderBE, dt.Member(0).Type.Order())
	assert.Equal(t, OrderNone, dt.Member(2).Type.Order())

	again, err := FromSpec(dt.Spec())
	require.NoError(t, err)
	assert.True(t, dt.Equal(again), "descriptor did not survive its own spec: %s", again)

	_, err = ParseYAML([]byte("class: quaternion"))
	assert.ErrorIs(t, err, ErrInvalidDatatype)

	_, err = ParseYAML([]byte(strings.Join([]string{
		"class: compound",
		"members:",
		"  - {name: a, offset: 0, type: {class: integer, size: 4}}",
		"  - {name: b, type: {class: integer, size: 4}}",
	}, "\n")))
	assert.ErrorIs(t, err, ErrInvalidDatatype)
}
