// Package memory is an in-process object backend holding full row-major
// buffers.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/binary"
	"github.com/robert-malhotra/go-hdfobject/internal/decode"
	"github.com/robert-malhotra/go-hdfobject/internal/layout"
	"github.com/robert-malhotra/go-hdfobject/object"
)

// ErrNotFound is returned for a name that was never stored.
var ErrNotFound = errors.New("memory: object not found")

type entry struct {
	dtype *datatype.Datatype
	dims  []uint64
	buf   *binary.Buffer
}

// Store holds named buffers. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	objects map[string]*entry
	// typed makes ReadSelected return typed values for atomic data.
	typed bool
}

// Option configures a Store.
type Option func(*Store)

// WithTypedValues makes ReadSelected decode atomic data itself and return
// typed slices instead of bytes.
func WithTypedValues() Option {
	return func(s *Store) {
		s.typed = true
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{objects: make(map[string]*entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores data, the whole row-major buffer of a dataset with extents
// dims. The store keeps its own copy.
func (s *Store) Put(name string, dt *datatype.Datatype, dims []uint64, data []byte) error {
	want := uint64(dt.ElementSize())
	for _, d := range dims {
		want *= d
	}
	if uint64(len(data)) != want {
		return fmt.Errorf("memory: %s holds %d bytes, extents need %d", name, len(data), want)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = &entry{
		dtype: dt,
		dims:  append([]uint64(nil), dims...),
		buf:   binary.WrapBuffer(append([]byte(nil), data...)),
	}
	return nil
}

// Bytes returns a copy of the whole buffer stored under name.
func (s *Store) Bytes(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objects[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), e.buf.Bytes()...), true
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) lookup(name string, dt *datatype.Datatype) (*entry, error) {
	e, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if e.dtype.ElementSize() != dt.ElementSize() {
		return nil, fmt.Errorf("memory: %s stores %d-byte elements, caller asked for %d",
			name, e.dtype.ElementSize(), dt.ElementSize())
	}
	return e, nil
}

// ReadSelected implements object.Backend.
func (s *Store) ReadSelected(name string, dt *datatype.Datatype, sel object.Hyperslab) (object.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.lookup(name, dt)
	if err != nil {
		return object.Payload{}, err
	}
	b, err := layout.Gather(e.buf, e.dims, slab(sel), uint64(dt.ElementSize()))
	if err != nil {
		return object.Payload{}, fmt.Errorf("memory: %s: %w", name, err)
	}
	if s.typed && atomic(dt) {
		v, err := decode.Atomic(dt, b)
		if err != nil {
			return object.Payload{}, err
		}
		return object.Payload{Values: v}, nil
	}
	return object.Payload{Bytes: b}, nil
}

// Write implements object.Backend.
func (s *Store) Write(name string, dt *datatype.Datatype, sel object.Hyperslab, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.lookup(name, dt)
	if err != nil {
		return err
	}
	if err := layout.Scatter(e.buf, e.dims, slab(sel), uint64(dt.ElementSize()), data); err != nil {
		return fmt.Errorf("memory: %s: %w", name, err)
	}
	return nil
}

func slab(sel object.Hyperslab) layout.Slab {
	return layout.Slab{Start: sel.Start, Count: sel.Count, Stride: sel.Stride}
}

// atomic reports whether dt has no compound anywhere inside it.
func atomic(dt *datatype.Datatype) bool {
	for dt.Class() == datatype.ClassArray {
		dt = dt.Base()
	}
	return dt.Class() != datatype.ClassCompound
}
