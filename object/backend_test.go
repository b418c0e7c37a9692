package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-hdfobject/backend/memory"
	"github.com/robert-malhotra/go-hdfobject/object"
)

func TestRegistry(t *testing.T) {
	reg := object.NewRegistry()
	store := memory.New()
	require.NoError(t, reg.Register("mem", store))
	require.Error(t, reg.Register("mem", memory.New()), "duplicate format")
	require.Error(t, reg.Register("", store))
	require.NoError(t, reg.Register("alt", memory.New()))
	assert.Equal(t, []string{"alt", "mem"}, reg.Formats())

	b, err := reg.Lookup("mem")
	require.NoError(t, err)
	assert.Same(t, store, b)

	_, err = reg.Lookup("hdf4")
	assert.ErrorIs(t, err, object.ErrUnknownFormat)
}

func TestDatasetBackendResolution(t *testing.T) {
	reg := object.NewRegistry()
	store := memory.New()
	require.NoError(t, reg.Register("mem", store))
	dt := grid(t, store)

	ds, err := object.NewDataset("grid", dt, []uint64{4, 5},
		object.WithRegistry(reg), object.WithFormat("mem"))
	require.NoError(t, err)
	_, err = ds.Data()
	require.NoError(t, err)

	_, err = object.NewDataset("grid", dt, []uint64{4, 5}, object.WithFormat("mem"))
	assert.ErrorIs(t, err, object.ErrNoBackend)

	_, err = object.NewDataset("grid", dt, []uint64{4, 5},
		object.WithRegistry(reg), object.WithFormat("netcdf"))
	assert.ErrorIs(t, err, object.ErrUnknownFormat)
}
