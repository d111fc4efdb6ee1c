package level

import "go.uber.org/zap"

// DefaultConcurrency bounds the number of documents LoadDir parses at once.
const DefaultConcurrency = 4

// Option configures a Loader or one of the load helpers.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	resolver    AssetResolver
	relocations []Relocation
	concurrency int
}

func newOptions(opts []Option) options {
	o := options{
		logger:      zap.NewNop(),
		resolver:    PixmapsDir(""),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithResolver sets the asset resolver used for image relocation.
func WithResolver(r AssetResolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithRelocations sets the image relocations applied to background and
// object properties.
func WithRelocations(rels []Relocation) Option {
	return func(o *options) {
		o.relocations = rels
	}
}

// WithConcurrency sets how many documents LoadDir parses in parallel.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
