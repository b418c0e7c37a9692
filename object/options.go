package object

import "go.uber.org/zap"

// Option configures a Dataset.
type Option func(*options)

type options struct {
	backend             Backend
	registry            *Registry
	format              string
	logger              *zap.Logger
	image               bool
	convertByteToString bool
}

func defaultOptions() *options {
	return &options{
		logger:              zap.NewNop(),
		convertByteToString: true,
	}
}

// WithBackend sets the backend directly. It takes precedence over a
// registry lookup.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithRegistry sets the registry used to resolve WithFormat.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithFormat names the registry format whose backend serves the dataset.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithImage marks the dataset as an image, which changes the default axis
// order for rank > 2 selections.
func WithImage(image bool) Option {
	return func(o *options) {
		o.image = image
	}
}

// WithConvertByteToString controls whether 1-byte string data delivered as
// raw bytes is converted to strings. It is enabled by default.
func WithConvertByteToString(convert bool) Option {
	return func(o *options) {
		o.convertByteToString = convert
	}
}

func (o *options) resolveBackend() (Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	if o.format == "" {
		return nil, nil
	}
	if o.registry == nil {
		return nil, ErrNoBackend
	}
	return o.registry.Lookup(o.format)
}
