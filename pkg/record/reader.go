package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
)

const (
	lengthSize = 8
	crcSize    = 4
	headerSize = lengthSize + crcSize

	// DefaultMaxRecordSize bounds the payload allocation for a single record.
	DefaultMaxRecordSize = 1 << 30
)

// Option configures a Reader.
type Option func(*Reader)

// WithMaxRecordSize sets the largest payload the reader accepts. Records
// whose checksum-valid length exceeds n fail with ErrTooLarge.
func WithMaxRecordSize(n uint64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxSize = n
		}
	}
}

// Reader reads validated record payloads from a byte stream.
// A Reader is not safe for concurrent use.
type Reader struct {
	src     io.Reader
	off     int64
	records int
	maxSize uint64
	err     error

	header [headerSize]byte
	footer [crcSize]byte
}

// NewReader creates a Reader over src. src is not buffered by the Reader;
// wrap files in a bufio.Reader.
func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		src:     src,
		maxSize: DefaultMaxRecordSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the payload of the next record.
// Returns io.EOF when the stream ends exactly on a record boundary.
// Any other failure is a *ReadingError; after a failure or io.EOF every
// subsequent call returns the same error.
func (r *Reader) Next() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	payload, err := r.next()
	if err != nil {
		r.err = err
		return nil, err
	}
	r.records++
	return payload, nil
}

// All returns an iterator over the remaining payloads. Iteration stops after
// the first error, which is yielded with a nil payload. A clean end of stream
// is not yielded.
func (r *Reader) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			payload, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(payload, err) || err != nil {
				return
			}
		}
	}
}

// Offset returns the number of bytes consumed from the stream so far.
func (r *Reader) Offset() int64 {
	return r.off
}

// Records returns the number of records read successfully.
func (r *Reader) Records() int {
	return r.records
}

func (r *Reader) next() ([]byte, error) {
	start := r.off

	lenBuf := r.header[:lengthSize]
	if err := r.read(lenBuf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, r.wrap(start, err)
	}
	crcBuf := r.header[lengthSize:]
	if err := r.read(crcBuf); err != nil {
		return nil, r.wrap(start, err)
	}
	if got, want := binary.LittleEndian.Uint32(crcBuf), MaskedCRC(lenBuf); got != want {
		return nil, NewReadingError(start, ErrChecksum,
			fmt.Errorf("length checksum %#08x, computed %#08x", got, want))
	}

	length := binary.LittleEndian.Uint64(lenBuf)
	if length > r.maxSize {
		return nil, NewReadingError(start, ErrTooLarge,
			fmt.Errorf("length %d exceeds limit %d", length, r.maxSize))
	}

	payload := make([]byte, length)
	if err := r.read(payload); err != nil {
		return nil, r.wrap(start, err)
	}
	if err := r.read(r.footer[:]); err != nil {
		return nil, r.wrap(start, err)
	}
	if got, want := binary.LittleEndian.Uint32(r.footer[:]), MaskedCRC(payload); got != want {
		return nil, NewReadingError(start, ErrChecksum,
			fmt.Errorf("payload checksum %#08x, computed %#08x", got, want))
	}
	return payload, nil
}

// read fills buf completely. It returns io.EOF only when no byte was
// available at all, and io.ErrUnexpectedEOF on a short read.
func (r *Reader) read(buf []byte) error {
	n, err := io.ReadFull(r.src, buf)
	r.off += int64(n)
	return err
}

// wrap converts a read failure inside a record into a ReadingError.
func (r *Reader) wrap(start int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return NewReadingError(start, ErrTruncated, nil)
	}
	return NewReadingError(start, ErrIO, err)
}
