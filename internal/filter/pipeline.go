package filter

import (
	"fmt"
)

// Pipeline is an ordered sequence of filters.
type Pipeline struct {
	specs   []Spec
	filters []Filter
}

// NewPipeline creates a pipeline from filter specs, in application order.
func NewPipeline(specs []Spec) (*Pipeline, error) {
	p := &Pipeline{
		specs:   append([]Spec(nil), specs...),
		filters: make([]Filter, 0, len(specs)),
	}
	for i, spec := range specs {
		f, err := New(spec)
		if err != nil {
			return nil, fmt.Errorf("creating filter %d: %w", i, err)
		}
		p.filters = append(p.filters, f)
	}
	return p, nil
}

// Encode applies every filter in order.
func (p *Pipeline) Encode(input []byte) ([]byte, error) {
	data := input
	for _, f := range p.filters {
		var err error
		data, err = f.Encode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s encode: %w", f.Name(), err)
		}
	}
	return data, nil
}

// Decode applies the pipeline in reverse order (last filter first).
// The filterMask specifies which filters to skip (bit i = skip filter i).
func (p *Pipeline) Decode(input []byte, filterMask uint32) ([]byte, error) {
	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		if filterMask&(1<<uint(i)) != 0 {
			continue
		}
		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s decode: %w", p.filters[i].Name(), err)
		}
	}
	return data, nil
}

// Specs returns the specs the pipeline was built from.
func (p *Pipeline) Specs() []Spec {
	return append([]Spec(nil), p.specs...)
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}
