package object

import (
	"github.com/robert-malhotra/go-hdfobject/internal/decode"
	"github.com/robert-malhotra/go-hdfobject/internal/render"
)

// RenderOptions controls Render output.
type RenderOptions = render.Options

// Render formats the current values on one line, loading them if needed.
func (d *Dataset) Render(opts RenderOptions) (string, error) {
	v, err := d.Data()
	if err != nil {
		return "", err
	}
	if cols, ok := v.(*decode.Columns); ok {
		return render.Render(cols, nil, opts), nil
	}
	return render.Render(v, d.dtype, opts), nil
}

// Text joins at most maxItems values with delimiter. maxItems <= 0 renders
// every value.
func (d *Dataset) Text(delimiter string, maxItems int) (string, error) {
	return d.Render(RenderOptions{Delimiter: delimiter, MaxItems: maxItems})
}
