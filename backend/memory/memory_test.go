package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/object"
)

func u8(t *testing.T) *datatype.Datatype {
	t.Helper()
	dt, err := datatype.NewInteger(1, datatype.OrderNone, datatype.SignUnsigned)
	require.NoError(t, err)
	return dt
}

func TestPutValidatesSize(t *testing.T) {
	s := New()
	assert.Error(t, s.Put("x", u8(t), []uint64{2, 2}, []byte{1, 2, 3}))
	require.NoError(t, s.Put("x", u8(t), []uint64{2, 2}, []byte{1, 2, 3, 4}))
	assert.Equal(t, []string{"x"}, s.Names())
}

func TestPutCopies(t *testing.T) {
	s := New()
	data := []byte{1, 2}
	require.NoError(t, s.Put("x", u8(t), []uint64{2}, data))
	data[0] = 9
	got, ok := s.Bytes("x")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2}, got)
}

func TestReadSelected(t *testing.T) {
	s := New()
	dt := u8(t)
	require.NoError(t, s.Put("x", dt, []uint64{2, 3}, []byte{1, 2, 3, 4, 5, 6}))
	sel := object.Hyperslab{
		Dims:   []uint64{2, 3},
		Start:  []uint64{0, 1},
		Count:  []uint64{2, 2},
		Stride: []uint64{1, 1},
	}

	p, err := s.ReadSelected("x", dt, sel)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 5, 6}, p.Bytes)
	assert.Nil(t, p.Values)

	typed := New(WithTypedValues())
	require.NoError(t, typed.Put("x", dt, []uint64{2, 3}, []byte{1, 2, 3, 4, 5, 0xFF}))
	p, err = typed.ReadSelected("x", dt, sel)
	require.NoError(t, err)
	assert.Equal(t, []int8{2, 3, 5, -1}, p.Values)

	_, err = s.ReadSelected("missing", dt, sel)
	assert.ErrorIs(t, err, ErrNotFound)

	wide, err := datatype.NewInteger(2, datatype.OrderLE, datatype.SignTwos)
	require.NoError(t, err)
	_, err = s.ReadSelected("x", wide, sel)
	assert.Error(t, err)

	sel.Count[1] = 3
	_, err = s.ReadSelected("x", dt, sel)
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	s := New()
	dt := u8(t)
	require.NoError(t, s.Put("x", dt, []uint64{4}, make([]byte, 4)))
	sel := object.Hyperslab{Dims: []uint64{4}, Start: []uint64{1}, Count: []uint64{2}, Stride: []uint64{2}}
	require.NoError(t, s.Write("x", dt, sel, []byte{7, 8}))
	got, _ := s.Bytes("x")
	assert.Equal(t, []byte{0, 7, 0, 8}, got)

	assert.ErrorIs(t, s.Write("y", dt, sel, []byte{7, 8}), ErrNotFound)
}
