package filter

import (
	"errors"
	"fmt"
	"sort"
)

// Filter names.
const (
	NameShuffle    = "shuffle"
	NameDeflate    = "deflate"
	NameLZ4        = "lz4"
	NameFletcher32 = "fletcher32"
)

// ErrUnknownFilter is returned for a filter name with no registered
// implementation.
var ErrUnknownFilter = errors.New("filter: unknown filter")

// Filter is a reversible byte transformation.
type Filter interface {
	// Name returns the registered filter name.
	Name() string

	// Encode transforms data to its stored form.
	Encode(input []byte) ([]byte, error)

	// Decode transforms stored data back to its original form.
	Decode(input []byte) ([]byte, error)
}

// Spec names a filter and its parameters.
type Spec struct {
	Name   string   `msgpack:"name" yaml:"name"`
	Params []uint32 `msgpack:"params,omitempty" yaml:"params,omitempty"`
}

// Registry maps filter names to constructors.
var Registry = map[string]func(params []uint32) Filter{
	NameShuffle:    func(p []uint32) Filter { return NewShuffle(p) },
	NameDeflate:    func(p []uint32) Filter { return NewDeflate(p) },
	NameLZ4:        func(p []uint32) Filter { return NewLZ4(p) },
	NameFletcher32: func(p []uint32) Filter { return NewFletcher32(p) },
}

// Names returns the registered filter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name has a registered implementation.
func Known(name string) bool {
	_, ok := Registry[name]
	return ok
}

// New creates a filter from a Spec.
func New(spec Spec) (Filter, error) {
	constructor, ok := Registry[spec.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, spec.Name)
	}
	return constructor(spec.Params), nil
}
