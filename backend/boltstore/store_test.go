package boltstore

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	"go.uber.org/zap/zaptest"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/filter"
	"github.com/robert-malhotra/go-hdfobject/object"
)

func int16LE(t *testing.T) *datatype.Datatype {
	t.Helper()
	dt, err := datatype.NewInteger(2, datatype.OrderLE, datatype.SignTwos)
	require.NoError(t, err)
	return dt
}

func openStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := Open(filepath.Join(t.TempDir(), "objects.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// grid returns a rows x cols int16 buffer where element (r, c) = r*10+c.
func grid(rows, cols int) []byte {
	b := make([]byte, 0, rows*cols*2)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := r*10 + c
			b = append(b, byte(v), byte(v>>8))
		}
	}
	return b
}

func TestPutDescribeList(t *testing.T) {
	s := openStore(t, WithFilters([]filter.Spec{
		{Name: filter.NameShuffle},
		{Name: filter.NameDeflate, Params: []uint32{6}},
	}))
	dt := int16LE(t)
	require.NoError(t, s.Put("b", dt, []uint64{4, 5}, grid(4, 5)))
	require.NoError(t, s.Put("a", dt, []uint64{2}, grid(1, 2)))

	rec, err := s.Describe("b")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 5}, rec.Dims)
	assert.Equal(t, 40, rec.Size)
	require.Len(t, rec.Filters, 2)
	assert.Equal(t, []uint32{2}, rec.Filters[0].Params, "shuffle takes the element size")
	got, err := rec.Datatype()
	require.NoError(t, err)
	assert.Equal(t, dt.String(), got.String())

	recs, err := s.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Name)
	assert.Equal(t, "b", recs[1].Name)

	_, err = s.Describe("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Put("bad", dt, []uint64{3}, []byte{1, 2}))
}

func TestReopenReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.db")
	specs := []filter.Spec{{Name: filter.NameLZ4}, {Name: filter.NameFletcher32}}
	s, err := Open(path, WithFilters(specs))
	require.NoError(t, err)
	dt := int16LE(t)
	require.NoError(t, s.Put("g", dt, []uint64{4, 5}, grid(4, 5)))
	require.NoError(t, s.Close())

	s, err = Open(path, WithCacheSize(1))
	require.NoError(t, err)
	defer s.Close()
	p, err := s.ReadSelected("g", dt, object.Hyperslab{
		Dims:   []uint64{4, 5},
		Start:  []uint64{1, 0},
		Count:  []uint64{2, 3},
		Stride: []uint64{2, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 0, 12, 0, 14, 0, 30, 0, 32, 0, 34, 0}, p.Bytes)
}

func TestChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.db")
	s, err := Open(path)
	require.NoError(t, err)
	dt := int16LE(t)
	require.NoError(t, s.Put("g", dt, []uint64{2}, []byte{1, 0, 2, 0}))
	require.NoError(t, s.Close())

	db, err := bbolt.Open(path, 0o666, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(blobsBucket).Put([]byte("g"), []byte{9, 0, 2, 0})
	}))
	require.NoError(t, db.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.ReadSelected("g", dt, object.Hyperslab{
		Dims:  []uint64{2},
		Start: []uint64{0},
		Count: []uint64{2},
	})
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestWriteRewritesBlob(t *testing.T) {
	s := openStore(t, WithFilters([]filter.Spec{{Name: filter.NameDeflate}}))
	dt := int16LE(t)
	require.NoError(t, s.Put("g", dt, []uint64{2, 3}, grid(2, 3)))

	sel := object.Hyperslab{
		Dims:  []uint64{2, 3},
		Start: []uint64{1, 1},
		Count: []uint64{1, 2},
	}
	require.NoError(t, s.Write("g", dt, sel, []byte{0xFF, 0xFF, 0xFE, 0xFF}))

	all := object.Hyperslab{
		Dims:  []uint64{2, 3},
		Start: []uint64{0, 0},
		Count: []uint64{2, 3},
	}
	p, err := s.ReadSelected("g", dt, all)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 1, 0, 2, 0, 10, 0, 0xFF, 0xFF, 0xFE, 0xFF}, p.Bytes)

	i32, err := datatype.NewInteger(4, datatype.OrderLE, datatype.SignTwos)
	require.NoError(t, err)
	_, err = s.ReadSelected("g", i32, all)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestConcurrentWritesAreNotLost(t *testing.T) {
	const n = 256
	path := filepath.Join(t.TempDir(), "objects.db")
	s, err := Open(path, WithFilters([]filter.Spec{{Name: filter.NameShuffle}, {Name: filter.NameDeflate}}))
	require.NoError(t, err)
	dt := int16LE(t)
	require.NoError(t, s.Put("v", dt, []uint64{n}, make([]byte, 2*n)))
	all := object.Hyperslab{Dims: []uint64{n}, Start: []uint64{0}, Count: []uint64{n}}

	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			sel := object.Hyperslab{Dims: []uint64{n}, Start: []uint64{uint64(i)}, Count: []uint64{1}}
			errs <- s.Write("v", dt, sel, []byte{byte(i), 1})
		}(i)
		go func() {
			defer wg.Done()
			_, err := s.ReadSelected("v", dt, all)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	want := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		want = append(want, byte(i), 1)
	}
	p, err := s.ReadSelected("v", dt, all)
	require.NoError(t, err)
	assert.Equal(t, want, p.Bytes, "cached blob")
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	p, err = s.ReadSelected("v", dt, all)
	require.NoError(t, err)
	assert.Equal(t, want, p.Bytes, "stored blob")
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Put("g", int16LE(t), []uint64{1}, []byte{1, 0}))
	require.NoError(t, s.Delete("g"))
	_, err := s.Describe("g")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("g"), ErrNotFound)
}

func TestUnknownFilterRejected(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "x.db"), WithFilters([]filter.Spec{{Name: "szip"}}))
	assert.ErrorIs(t, err, filter.ErrUnknownFilter)
}

func TestDatasetRoundTrip(t *testing.T) {
	s := openStore(t, WithFilters([]filter.Spec{{Name: filter.NameShuffle}, {Name: filter.NameDeflate}}))
	dt := int16LE(t)
	require.NoError(t, s.Put("g", dt, []uint64{4, 5}, grid(4, 5)))

	ds, err := s.Dataset("g", object.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	ds.StartDims()[0], ds.SelectedDims()[0] = 2, 1
	v, err := ds.Data()
	require.NoError(t, err)
	assert.Equal(t, []int16{20, 21, 22, 23, 24}, v)

	require.NoError(t, ds.WriteValues([]int16{-1, -2, -3, -4, -5}))
	v, err = ds.RefreshData()
	require.NoError(t, err)
	assert.Equal(t, []int16{-1, -2, -3, -4, -5}, v)
	text, err := ds.Text(", ", 3)
	require.NoError(t, err)
	assert.Equal(t, "-1, -2, -3", text)

	_, err = s.Dataset("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
