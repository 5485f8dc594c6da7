// Package tfevents reads TensorBoard-style event logs.
//
// A log is a stream of length-prefixed records guarded by masked CRC32C
// checksums. Each record holds one event. Reading a single stream:
//
//	stream := tfevents.OpenRecordStream(f)
//	for payload, err := range stream.All() {
//	    if err != nil {
//	        return err
//	    }
//	    ev, err := event.Decode(payload)
//	    ...
//	}
//
// Reading every file of a log directory:
//
//	r, err := tfevents.OpenSummaryReader("runs/exp1",
//	    tfevents.WithTags("loss", "accuracy"),
//	    tfevents.WithTypes(tfevents.TypeScalar),
//	)
//	if err != nil {
//	    return err
//	}
//	for item, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(item.Tag, item.Step, item.Scalar)
//	}
package tfevents

import (
	"io"

	"github.com/bft-labs/tfevents/pkg/record"
	"github.com/bft-labs/tfevents/pkg/summary"
)

// SummaryItem is one decoded summary value.
type SummaryItem = summary.Item

// Type names a kind of summary item.
type Type = summary.Type

// ReadingError describes a damaged record, a malformed event or an
// undecodable image.
type ReadingError = record.ReadingError

// Supported item types.
const (
	TypeScalar   = summary.TypeScalar
	TypeImage    = summary.TypeImage
	TypeImageRaw = summary.TypeImageRaw
)

var (
	// ErrReading matches every reading error with errors.Is.
	ErrReading = record.ErrReading

	// ErrInvalidType is returned by OpenSummaryReader for unknown type names.
	ErrInvalidType = summary.ErrInvalidType
)

// OpenRecordStream returns a reader over the record payloads of r.
func OpenRecordStream(r io.Reader, opts ...record.Option) *record.Reader {
	return record.NewReader(r, opts...)
}

// OpenSummaryReader returns a reader over the summary items of every file in
// dir. Options are validated before the directory is touched.
func OpenSummaryReader(dir string, opts ...summary.Option) (*summary.Reader, error) {
	return summary.NewReader(dir, opts...)
}

// WithTags keeps only items with one of the given tags.
func WithTags(tags ...string) summary.Option {
	return summary.WithTags(tags...)
}

// WithTypes sets the requested item types.
func WithTypes(types ...Type) summary.Option {
	return summary.WithTypes(types...)
}

// WithTypeNames sets the requested item types by name.
func WithTypeNames(names ...string) summary.Option {
	return summary.WithTypeNames(names...)
}

// WithStopOnError ends the scan at the first reading error when stop is
// true. Otherwise the rest of the failing file is skipped.
func WithStopOnError(stop bool) summary.Option {
	return summary.WithStopOnError(stop)
}
