package object

import (
	"fmt"
	"sort"

	"github.com/robert-malhotra/go-hdfobject/datatype"
)

// Hyperslab is the selection handed to a backend: the dataset extents and
// the strided rectangle to read or write.
type Hyperslab struct {
	Dims   []uint64
	Start  []uint64
	Count  []uint64
	Stride []uint64
}

// NumElements returns the number of selected elements.
func (h Hyperslab) NumElements() uint64 {
	n := uint64(1)
	for _, c := range h.Count {
		n *= c
	}
	return n
}

// Payload is what a backend returns for a selection: either raw bytes laid
// out as packed elements of the datatype, or an already typed slice for
// atomic data. Exactly one field is set.
type Payload struct {
	Bytes  []byte
	Values any
}

// Backend reads and writes the bytes behind named datasets.
type Backend interface {
	// ReadSelected returns the elements of name selected by sel, in
	// row-major order.
	ReadSelected(name string, dt *datatype.Datatype, sel Hyperslab) (Payload, error)

	// Write stores data, packed elements of dt, at the positions selected
	// by sel.
	Write(name string, dt *datatype.Datatype, sel Hyperslab, data []byte) error
}

// Registry maps format names to backends. It is populated by the embedding
// application and passed to datasets with WithRegistry.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend under a format name.
func (r *Registry) Register(format string, b Backend) error {
	if format == "" || b == nil {
		return fmt.Errorf("registering format %q: empty name or nil backend", format)
	}
	if _, ok := r.backends[format]; ok {
		return fmt.Errorf("registering format %q: already registered", format)
	}
	r.backends[format] = b
	return nil
}

// Lookup returns the backend for a format name.
func (r *Registry) Lookup(format string) (Backend, error) {
	b, ok := r.backends[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return b, nil
}

// Formats returns the registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
