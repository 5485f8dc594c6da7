package summary

import (
	"fmt"
	"path/filepath"

	"github.com/bft-labs/tfevents/pkg/log"
	"github.com/bft-labs/tfevents/pkg/metrics"
)

// Policy decides what a reading error does to the scan.
type Policy int

const (
	// PolicySkipFile abandons the rest of the failing file and continues
	// with the next one.
	PolicySkipFile Policy = iota

	// PolicyAbort ends the scan with the error.
	PolicyAbort
)

func (p Policy) String() string {
	switch p {
	case PolicySkipFile:
		return "skip-file"
	case PolicyAbort:
		return "abort"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Option configures a Reader.
type Option func(*options)

type options struct {
	tags          map[string]struct{}
	types         []Type
	policy        Policy
	pattern       string
	logger        log.Logger
	metrics       *metrics.Metrics
	images        ImageDecoder
	maxRecordSize uint64
	err           error
}

func defaultOptions() options {
	return options{
		types:   DefaultTypes,
		policy:  PolicySkipFile,
		pattern: "*",
		logger:  log.NewNoopLogger(),
		images:  DefaultImageDecoder,
	}
}

func (o *options) validate() error {
	if o.err != nil {
		return o.err
	}
	types, err := normalizeTypes(o.types)
	if err != nil {
		return err
	}
	o.types = types
	if _, err := filepath.Match(o.pattern, ""); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidPattern, o.pattern, err)
	}
	return nil
}

// WithTags keeps only items whose tag is one of tags. Without this option
// every tag is kept; with an empty list nothing is.
func WithTags(tags ...string) Option {
	return func(o *options) {
		o.tags = make(map[string]struct{}, len(tags))
		for _, t := range tags {
			o.tags[t] = struct{}{}
		}
	}
}

// WithTypes sets the requested item types. Default: TypeScalar.
func WithTypes(types ...Type) Option {
	return func(o *options) {
		o.types = types
	}
}

// WithTypeNames is WithTypes for names such as "scalar" or "image_raw".
// Unknown names make NewReader fail with ErrInvalidType.
func WithTypeNames(names ...string) Option {
	return func(o *options) {
		types, err := ParseTypes(names)
		if err != nil {
			o.err = err
			return
		}
		o.types = types
	}
}

// WithStopOnError selects PolicyAbort when stop is true and PolicySkipFile
// otherwise.
func WithStopOnError(stop bool) Option {
	if stop {
		return WithErrorPolicy(PolicyAbort)
	}
	return WithErrorPolicy(PolicySkipFile)
}

// WithErrorPolicy sets the reaction to reading errors.
func WithErrorPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithPattern scans only files whose name matches the filepath.Match
// pattern, e.g. "events.out.tfevents.*". Default: "*".
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithLogger sets the logger. Default: no-op.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records reader activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithImageDecoder replaces the codec used for TypeImage.
func WithImageDecoder(d ImageDecoder) Option {
	return func(o *options) {
		if d != nil {
			o.images = d
		}
	}
}

// WithMaxRecordSize bounds the payload size of a single record.
func WithMaxRecordSize(n uint64) Option {
	return func(o *options) {
		o.maxRecordSize = n
	}
}
