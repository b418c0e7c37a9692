package object

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-hdfobject/internal/decode"
	"github.com/robert-malhotra/go-hdfobject/internal/promote"
)

// Write writes the loaded values back to the current selection.
func (d *Dataset) Write() error {
	if !d.loaded {
		return fmt.Errorf("writing %s: %w", d.Path(), ErrNotLoaded)
	}
	return d.WriteValues(d.data)
}

// WriteValues encodes values and writes them to the current selection.
// Promoted unsigned values are narrowed to the stored width first. Compound
// values must be *decode.Columns holding every member.
func (d *Dataset) WriteValues(values any) error {
	if d.backend == nil {
		return fmt.Errorf("writing %s: %w", d.Path(), ErrNoBackend)
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("writing %s: %w", d.Path(), err)
	}
	b, err := d.encode(values)
	if err != nil {
		if errors.Is(err, decode.ErrUnsupported) {
			err = fmt.Errorf("%w: %w", ErrUnsupported, err)
		}
		return fmt.Errorf("encoding %s: %w", d.Path(), err)
	}
	if want := d.NumSelected() * uint64(d.dtype.ElementSize()); uint64(len(b)) != want {
		return fmt.Errorf("writing %s: %w: %d bytes of values for %d selected bytes",
			d.Path(), ErrInvalidSelection, len(b), want)
	}

	sel := d.Hyperslab()
	d.log.Debug("writing selection",
		zap.String("dataset", d.Path()),
		zap.Uint64s("start", sel.Start),
		zap.Uint64s("count", sel.Count),
		zap.Int("bytes", len(b)))
	if err := d.backend.Write(d.Path(), d.dtype, sel, b); err != nil {
		return fmt.Errorf("writing %s: %w", d.Path(), err)
	}
	return nil
}

func (d *Dataset) encode(values any) ([]byte, error) {
	if d.IsCompound() {
		cols, ok := values.(*decode.Columns)
		if !ok {
			return nil, fmt.Errorf("%w: compound values must be columns, got %T", ErrUnsupported, values)
		}
		return decode.EncodeCompound(d.dtype, cols)
	}
	if w := storedWidth(d.dtype); d.dtype.IsUnsigned() && intWidth(values) > w {
		narrowed, err := promote.Demote(values, w)
		if err != nil {
			return nil, err
		}
		values = narrowed
	}
	return decode.EncodeAtomic(d.dtype, values)
}
