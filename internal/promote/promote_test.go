package promote

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoteByte(t *testing.T) {
	dst, lossy, err := Promote([]int8{-1})
	require.NoError(t, err)
	assert.False(t, lossy)
	assert.Equal(t, []int16{255}, dst)

	back, err := Demote(dst, 1)
	require.NoError(t, err)
	assert.Equal(t, []int8{-1}, back)
	assert.Equal(t, uint8(0xFF), uint8(back.([]int8)[0]))
}

func TestRoundTrip8(t *testing.T) {
	src := make([]int8, 0, 256)
	for v := math.MinInt8; v <= math.MaxInt8; v++ {
		src = append(src, int8(v))
	}
	dst, _, err := Promote(src)
	require.NoError(t, err)
	for i, v := range dst.([]int16) {
		require.GreaterOrEqual(t, v, int16(0))
		require.Equal(t, uint8(src[i]), uint8(v))
	}
	back, err := Demote(dst, 1)
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestRoundTrip16(t *testing.T) {
	src := make([]int16, 0, 1<<16)
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		src = append(src, int16(v))
	}
	dst, _, err := Promote(src)
	require.NoError(t, err)
	for i, v := range dst.([]int32) {
		if v < 0 || uint16(src[i]) != uint16(v) {
			t.Fatalf("element %d: promoted %d from %d", i, v, src[i])
		}
	}
	back, err := Demote(dst, 2)
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestRoundTrip32(t *testing.T) {
	// Every 65521st value across the range, plus the edges of each half.
	src := []int32{math.MinInt32, math.MinInt32 + 1, -2, -1, 0, 1, math.MaxInt32 - 1, math.MaxInt32}
	for v := int64(math.MinInt32); v <= math.MaxInt32; v += 65521 {
		src = append(src, int32(v))
	}
	dst, _, err := Promote(src)
	require.NoError(t, err)
	for i, v := range dst.([]int64) {
		if v < 0 || v > math.MaxUint32 || uint32(src[i]) != uint32(v) {
			t.Fatalf("element %d: promoted %d from %d", i, v, src[i])
		}
	}
	back, err := Demote(dst, 4)
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestRoundTrip32Exhaustive(t *testing.T) {
	if testing.Short() {
		t.Skip("walks all 2^32 values")
	}
	const chunk = 1 << 20
	src := make([]int32, chunk)
	for base := int64(math.MinInt32); base <= math.MaxInt32; base += chunk {
		for i := range src {
			src[i] = int32(base + int64(i))
		}
		dst, lossy, err := Promote(src)
		require.NoError(t, err)
		require.False(t, lossy)
		for i, v := range dst.([]int64) {
			if v < 0 || v > math.MaxUint32 || uint32(src[i]) != uint32(v) {
				t.Fatalf("promoted %d from %d", v, src[i])
			}
		}
		back, err := Demote(dst, 4)
		require.NoError(t, err)
		for i, v := range back.([]int32) {
			if v != src[i] {
				t.Fatalf("demoted %d back to %d", src[i], v)
			}
		}
	}
}

func TestPromote64IsLossy(t *testing.T) {
	src := []int64{1, -1}
	dst, lossy, err := Promote(src)
	require.NoError(t, err)
	assert.True(t, lossy)
	assert.Equal(t, src, dst)

	dst.([]int64)[0] = 42
	assert.Equal(t, int64(1), src[0], "promotion must not alias its input")

	_, lossy, err = Promote([]int64{0, math.MaxInt64})
	require.NoError(t, err)
	assert.False(t, lossy)
}

func TestPromoteRejectsOtherTypes(t *testing.T) {
	_, _, err := Promote([]float32{1})
	assert.ErrorIs(t, err, ErrNotPromotable)
	_, err = Demote([]uint8{1}, 1)
	assert.ErrorIs(t, err, ErrNotPromotable)
}

func TestValue(t *testing.T) {
	assert.Equal(t, uint64(255), Value(-1, 1))
	assert.Equal(t, uint64(65535), Value(-1, 2))
	assert.Equal(t, uint64(math.MaxUint32), Value(-1, 4))
	assert.Equal(t, uint64(math.MaxUint64), Value(-1, 8))
	assert.Equal(t, uint64(7), Value(7, 4))
}
