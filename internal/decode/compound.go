package decode

import (
	"fmt"
	"reflect"

	"github.com/robert-malhotra/go-hdfobject/datatype"
)

// Filter reports whether the top-level member at index is decoded. A nil
// Filter selects every member.
type Filter func(index int, m datatype.Member) bool

// ByName selects top-level members whose name is in names.
func ByName(names ...string) Filter {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(_ int, m datatype.Member) bool { return set[m.Name] }
}

// Column holds one member's values across every decoded record.
type Column struct {
	Name string
	Type *datatype.Datatype
	// Values is a typed slice for atomic members, []any of per-record
	// values for array members, or *Columns for nested compounds.
	Values any
}

// Columns is the struct-of-arrays form of a compound buffer: one Column per
// selected member, in declaration order.
type Columns struct {
	Members []Column
	N       int
}

// Len returns the number of records.
func (c *Columns) Len() int { return c.N }

// Types returns the member types in column order.
func (c *Columns) Types() []*datatype.Datatype {
	types := make([]*datatype.Datatype, len(c.Members))
	for i, col := range c.Members {
		types[i] = col.Type
	}
	return types
}

// Names returns the member names in column order.
func (c *Columns) Names() []string {
	names := make([]string, len(c.Members))
	for i, col := range c.Members {
		names[i] = col.Name
	}
	return names
}

// Column returns the column for a member name.
func (c *Columns) Column(name string) (Column, bool) {
	for _, col := range c.Members {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Record returns record i with one value per column. Nested compounds are
// returned as nested []any.
func (c *Columns) Record(i int) []any {
	rec := make([]any, len(c.Members))
	for j, col := range c.Members {
		switch v := col.Values.(type) {
		case *Columns:
			rec[j] = v.Record(i)
		case []any:
			rec[j] = v[i]
		default:
			rec[j] = reflect.ValueOf(v).Index(i).Interface()
		}
	}
	return rec
}

// Compound decodes a buffer of dt records into columns.
func Compound(dt *datatype.Datatype, data []byte, filter Filter) (*Columns, error) {
	if dt.Class() != datatype.ClassCompound {
		return nil, fmt.Errorf("%w: %s is not a compound", ErrUnsupported, dt)
	}
	n, err := Count(dt, data)
	if err != nil {
		return nil, err
	}
	size := dt.Size()
	cols := &Columns{N: n}
	for i := 0; i < dt.NumMembers(); i++ {
		m := dt.Member(i)
		if filter != nil && !filter(i, m) {
			continue
		}
		msize := m.Type.ElementSize()
		buf := make([]byte, n*msize)
		for k := 0; k < n; k++ {
			off := k*size + m.Offset
			copy(buf[k*msize:(k+1)*msize], data[off:off+msize])
		}
		values, err := column(m.Type, buf, n)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Name, err)
		}
		cols.Members = append(cols.Members, Column{Name: m.Name, Type: m.Type, Values: values})
	}
	return cols, nil
}

func column(t *datatype.Datatype, buf []byte, n int) (any, error) {
	switch t.Class() {
	case datatype.ClassCompound:
		return Compound(t, buf, nil)
	case datatype.ClassArray:
		size := t.ElementSize()
		out := make([]any, n)
		for k := range out {
			v, err := arrayValue(t, buf[k*size:(k+1)*size])
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return Atomic(t, buf)
}

// Record decodes a single compound record. The i-th result is the value of
// the i-th selected member: a scalar for atomic members, a slice for arrays
// and a nested []any for compounds.
func Record(dt *datatype.Datatype, rec []byte, filter Filter) ([]any, error) {
	if dt.Class() != datatype.ClassCompound {
		return nil, fmt.Errorf("%w: %s is not a compound", ErrUnsupported, dt)
	}
	if len(rec) < dt.Size() {
		return nil, fmt.Errorf("%w: record of %d bytes, need %d", ErrBufferSize, len(rec), dt.Size())
	}
	var out []any
	for i := 0; i < dt.NumMembers(); i++ {
		m := dt.Member(i)
		if filter != nil && !filter(i, m) {
			continue
		}
		v, err := memberValue(m.Type, rec[m.Offset:m.Offset+m.Type.ElementSize()])
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Records decodes a buffer of compound records one record at a time.
func Records(dt *datatype.Datatype, data []byte, filter Filter) ([]any, error) {
	n, err := Count(dt, data)
	if err != nil {
		return nil, err
	}
	size := dt.Size()
	out := make([]any, n)
	for k := range out {
		if out[k], err = Record(dt, data[k*size:(k+1)*size], filter); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func memberValue(t *datatype.Datatype, b []byte) (any, error) {
	switch t.Class() {
	case datatype.ClassCompound:
		return Record(t, b, nil)
	case datatype.ClassArray:
		return arrayValue(t, b)
	}
	v, err := Atomic(t, b)
	if err != nil {
		return nil, err
	}
	if raw, ok := v.([]byte); ok {
		// Single-character strings stay raw bytes.
		return raw, nil
	}
	return reflect.ValueOf(v).Index(0).Interface(), nil
}

// arrayValue decodes one array instance. Atomic bases give a typed slice;
// compound and nested array bases give []any with one entry per element.
func arrayValue(t *datatype.Datatype, b []byte) (any, error) {
	base := t.Base()
	switch base.Class() {
	case datatype.ClassCompound, datatype.ClassArray:
		size := base.ElementSize()
		out := make([]any, t.NumElements())
		for i := range out {
			v, err := memberValue(base, b[i*size:(i+1)*size])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return Atomic(base, b)
}
