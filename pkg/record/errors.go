package record

import (
	"errors"
	"fmt"
)

// ErrReading matches every error produced while reading records or decoding
// their contents. Use errors.Is to test for it.
var ErrReading = errors.New("record: reading error")

// Reading error kinds. A *ReadingError matches its kind with errors.Is.
var (
	// ErrTruncated is returned when the stream ends inside a record.
	ErrTruncated = errors.New("record: truncated")

	// ErrChecksum is returned when a length or payload checksum does not match.
	ErrChecksum = errors.New("record: checksum mismatch")

	// ErrTooLarge is returned when a record length exceeds the reader limit.
	ErrTooLarge = errors.New("record: record too large")

	// ErrIO is returned when the underlying reader fails with anything but EOF.
	ErrIO = errors.New("record: i/o failure")
)

// ReadingError describes a failure at a specific record of a stream.
type ReadingError struct {
	// Offset is the byte offset of the record that failed.
	Offset int64

	// Kind classifies the failure (ErrTruncated, ErrChecksum, ...).
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

// NewReadingError creates a ReadingError of the given kind.
func NewReadingError(offset int64, kind, cause error) *ReadingError {
	return &ReadingError{Offset: offset, Kind: kind, Err: cause}
}

func (e *ReadingError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("reading record at offset %d: %v", e.Offset, e.Kind)
	case e.Kind == nil || errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("reading record at offset %d: %v", e.Offset, e.Err)
	default:
		return fmt.Sprintf("reading record at offset %d: %v: %v", e.Offset, e.Kind, e.Err)
	}
}

// Is makes errors.Is match ErrReading and the error kind.
func (e *ReadingError) Is(target error) bool {
	return target == ErrReading || (e.Kind != nil && errors.Is(e.Kind, target))
}

// Unwrap returns the underlying cause.
func (e *ReadingError) Unwrap() error {
	return e.Err
}
