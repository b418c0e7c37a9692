package object

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/decode"
	"github.com/robert-malhotra/go-hdfobject/internal/render"
)

// Kind is the capability tag of a Dataset.
type Kind int

const (
	KindScalar Kind = iota
	KindCompound
	KindAttribute
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindCompound:
		return "compound"
	case KindAttribute:
		return "attribute"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Dataset is a named N-dimensional array of datatype values with a
// selection and a load-once data cache.
//
// A Dataset is not safe for concurrent use.
type Dataset struct {
	Selection

	name  string
	dtype *datatype.Datatype
	kind  Kind
	owner *Dataset

	backend             Backend
	log                 *zap.Logger
	convertByteToString bool

	data              any
	loaded            bool
	unsignedConverted bool

	// selected marks the top-level compound members that are decoded.
	selected []bool
}

// NewDataset creates a dataset of kind Scalar, or Compound when dt is a
// compound. dims are the full extents; nil or empty means a single value.
func NewDataset(name string, dt *datatype.Datatype, dims []uint64, opts ...Option) (*Dataset, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newDataset(name, dt, dims, o)
}

// NewAttribute creates an attribute bound to owner. Unless overridden by
// opts, the attribute uses the owner's backend and logger.
func NewAttribute(owner *Dataset, name string, dt *datatype.Datatype, dims []uint64, opts ...Option) (*Dataset, error) {
	if owner == nil {
		return nil, fmt.Errorf("attribute %q: %w: no owner", name, ErrUnsupported)
	}
	if owner.kind == KindAttribute {
		return nil, fmt.Errorf("attribute %q: %w: attributes cannot own attributes", name, ErrUnsupported)
	}
	o := defaultOptions()
	o.backend = owner.backend
	o.logger = owner.log
	o.convertByteToString = owner.convertByteToString
	for _, opt := range opts {
		opt(o)
	}
	ds, err := newDataset(name, dt, dims, o)
	if err != nil {
		return nil, err
	}
	ds.kind = KindAttribute
	ds.owner = owner
	return ds, nil
}

func newDataset(name string, dt *datatype.Datatype, dims []uint64, o *options) (*Dataset, error) {
	if dt == nil {
		return nil, fmt.Errorf("dataset %q: %w: nil datatype", name, ErrInvalidDatatype)
	}
	for i, d := range dims {
		if d == 0 {
			return nil, fmt.Errorf("dataset %q: %w: dimension %d has zero extent", name, ErrInvalidSelection, i)
		}
	}
	backend, err := o.resolveBackend()
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", name, err)
	}

	ds := &Dataset{
		Selection:           newSelection(dims, o.image),
		name:                name,
		dtype:               dt,
		kind:                KindScalar,
		backend:             backend,
		log:                 o.logger,
		convertByteToString: o.convertByteToString,
	}
	if dt.Class() == datatype.ClassCompound {
		ds.kind = KindCompound
		ds.selected = make([]bool, dt.NumMembers())
		for i := range ds.selected {
			ds.selected[i] = true
		}
	}
	return ds, nil
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// Path returns the name the backend knows the dataset by. Attributes are
// addressed as owner@name.
func (d *Dataset) Path() string {
	if d.owner != nil {
		return d.owner.Path() + "@" + d.name
	}
	return d.name
}

// Datatype returns the element datatype.
func (d *Dataset) Datatype() *datatype.Datatype {
	return d.dtype
}

// Kind returns the capability tag.
func (d *Dataset) Kind() Kind {
	return d.kind
}

// Owner returns the owning dataset of an attribute, or nil.
func (d *Dataset) Owner() *Dataset {
	return d.owner
}

// IsCompound reports whether values decode as compound records.
func (d *Dataset) IsCompound() bool {
	return d.dtype.Class() == datatype.ClassCompound
}

// IsLoaded reports whether data is cached.
func (d *Dataset) IsLoaded() bool {
	return d.loaded
}

// SetImage switches between image and natural axis order. A change resets
// the selection and clears loaded data.
func (d *Dataset) SetImage(image bool) {
	if d.image == image {
		return
	}
	d.image = image
	d.ResetSelection()
	d.ClearData()
}

// Data returns the decoded values of the current selection, reading them on
// first use. Atomic data is a typed slice; compound data is *decode.Columns
// holding the selected members.
func (d *Dataset) Data() (any, error) {
	if !d.loaded {
		v, err := d.read()
		if err != nil {
			return nil, err
		}
		d.data = v
		d.loaded = true
		d.unsignedConverted = false
	}
	return d.data, nil
}

// ClearData drops cached data so the next Data call reads again.
func (d *Dataset) ClearData() {
	d.data = nil
	d.loaded = false
	d.unsignedConverted = false
}

// RefreshData re-reads the selection. Unsigned non-compound data is
// returned promoted.
func (d *Dataset) RefreshData() (any, error) {
	d.ClearData()
	v, err := d.Data()
	if err != nil {
		return nil, err
	}
	if d.IsCompound() {
		return v, nil
	}
	return d.ConvertFromUnsigned()
}

// SetData replaces the cached values of an attribute.
func (d *Dataset) SetData(v any) error {
	if d.kind != KindAttribute {
		return fmt.Errorf("set data on %s: %w: only attributes hold caller data", d.Path(), ErrUnsupported)
	}
	d.data = v
	d.loaded = true
	d.unsignedConverted = false
	return nil
}

func (d *Dataset) read() (any, error) {
	if d.backend == nil {
		return nil, fmt.Errorf("reading %s: %w", d.Path(), ErrNoBackend)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", d.Path(), err)
	}
	sel := d.Hyperslab()
	d.log.Debug("reading selection",
		zap.String("dataset", d.Path()),
		zap.Uint64s("start", sel.Start),
		zap.Uint64s("count", sel.Count),
		zap.Uint64s("stride", sel.Stride))

	p, err := d.backend.ReadSelected(d.Path(), d.dtype, sel)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", d.Path(), err)
	}
	v := p.Values
	if v == nil {
		if v, err = d.decode(p.Bytes); err != nil {
			if errors.Is(err, decode.ErrUnsupported) {
				err = fmt.Errorf("%w: %w", ErrUnsupported, err)
			}
			return nil, fmt.Errorf("decoding %s: %w", d.Path(), err)
		}
	}
	if raw, ok := v.([]byte); ok && d.convertByteToString && d.dtype.IsText() {
		v = render.FixedBytesToStringsIn(raw, 1, d.dtype.Charset())
	}
	return v, nil
}

func (d *Dataset) decode(b []byte) (any, error) {
	if d.IsCompound() {
		return decode.Compound(d.dtype, b, d.memberFilter())
	}
	return decode.Atomic(d.dtype, b)
}

// String describes the dataset, for example "grid: 32-bit integer [4 5]".
func (d *Dataset) String() string {
	return fmt.Sprintf("%s: %s %v", d.Path(), d.dtype.Description(), d.dims)
}
