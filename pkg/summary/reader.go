package summary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/bft-labs/tfevents/pkg/event"
	"github.com/bft-labs/tfevents/pkg/log"
	"github.com/bft-labs/tfevents/pkg/record"
)

const readBufferSize = 64 * 1024

// Reader iterates over the summary items of every file in a directory.
// A Reader is not safe for concurrent use.
type Reader struct {
	dir  string
	opts options

	listed bool
	files  []string
	next   int

	file    *os.File
	stream  *record.Reader
	name    string
	logger  log.Logger
	items   int
	pending []Item

	// deferred is a reading error found after some items of the same
	// record were decoded; it is raised once those items are consumed.
	deferred error
	err      error
}

// NewReader creates a Reader for the files in dir. Options are validated
// here, before any file system access.
func NewReader(dir string, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &Reader{
		dir:    dir,
		opts:   o,
		logger: o.logger,
	}, nil
}

// Types returns the requested types in emission order.
func (r *Reader) Types() []Type {
	return append([]Type(nil), r.opts.types...)
}

// Policy returns the error policy.
func (r *Reader) Policy() Policy {
	return r.opts.policy
}

// CurrentFile returns the name of the file being read, or "" between files.
func (r *Reader) CurrentFile() string {
	return r.name
}

// Next returns the next item. It returns io.EOF once every file has been
// read. Errors returned by Next are sticky.
func (r *Reader) Next() (Item, error) {
	for r.err == nil {
		if len(r.pending) > 0 {
			it := r.pending[0]
			r.pending = r.pending[1:]
			r.items++
			r.opts.metrics.ObserveItem(string(it.Type))
			return it, nil
		}

		if r.deferred != nil {
			err := r.deferred
			r.deferred = nil
			r.fail(err)
			continue
		}

		if r.stream != nil {
			if err := r.advance(); err != nil {
				r.fail(err)
			}
			continue
		}

		if !r.listed {
			if err := r.list(); err != nil {
				r.err = err
				break
			}
		}
		if r.next >= len(r.files) {
			r.err = io.EOF
			break
		}
		name := r.files[r.next]
		r.next++
		if err := r.open(name); err != nil {
			r.fail(err)
		}
	}
	return Item{}, r.err
}

// All returns an iterator over the remaining items. The reader is closed
// when iteration ends, including when the loop body breaks early. An error
// is yielded once and ends the iteration.
func (r *Reader) All() iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		defer r.Close()
		for {
			it, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(it, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the open file, if any. Next returns ErrClosed afterwards
// unless the reader had already stopped.
func (r *Reader) Close() error {
	err := r.closeFile()
	r.pending = nil
	r.deferred = nil
	if r.err == nil {
		r.err = ErrClosed
	}
	return err
}

// list collects the regular files of the directory that match the pattern.
// os.ReadDir returns entries sorted by name.
func (r *Reader) list() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", r.dir, err)
	}
	for _, e := range entries {
		if ok, _ := filepath.Match(r.opts.pattern, e.Name()); !ok {
			continue
		}
		// Stat follows symlinks.
		info, err := os.Stat(filepath.Join(r.dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		r.files = append(r.files, e.Name())
	}
	r.listed = true
	r.logger.Debug("listed event files",
		log.String("dir", r.dir),
		log.Int("files", len(r.files)),
	)
	return nil
}

func (r *Reader) open(name string) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return record.NewReadingError(0, ErrOpen, err)
	}

	var ropts []record.Option
	if r.opts.maxRecordSize > 0 {
		ropts = append(ropts, record.WithMaxRecordSize(r.opts.maxRecordSize))
	}
	r.file = f
	r.name = name
	r.items = 0
	r.stream = record.NewReader(bufio.NewReaderSize(f, readBufferSize), ropts...)
	r.logger = log.With(r.opts.logger, log.String("file", name))
	r.opts.metrics.ObserveFile()
	r.logger.Debug("opened event file")
	return nil
}

// advance reads one record of the current file and queues its items.
func (r *Reader) advance() error {
	offset := r.stream.Offset()
	payload, err := r.stream.Next()
	if errors.Is(err, io.EOF) {
		r.logger.Debug("finished event file",
			log.Int("records", r.stream.Records()),
			log.Int("items", r.items),
		)
		return r.closeFile()
	}
	if err != nil {
		return err
	}
	r.opts.metrics.ObserveRecord(len(payload))

	ev, err := event.Decode(payload)
	if err != nil {
		return record.NewReadingError(offset, event.ErrMalformed, err)
	}
	if ev.FileVersion != "" {
		r.logger.Debug("file version", log.String("version", ev.FileVersion))
	}
	if !ev.HasSummary() {
		return nil
	}

	items, err := r.decode(ev)
	r.pending = items
	if err != nil {
		r.deferred = record.NewReadingError(offset, ErrImageDecode, err)
	}
	return nil
}

// decode runs every requested type against every value whose tag passes
// the filter. On error it returns the items decoded so far.
func (r *Reader) decode(ev *event.Event) ([]Item, error) {
	var items []Item
	for _, v := range ev.Values() {
		if !r.keepTag(v.Tag) {
			continue
		}
		for _, t := range r.opts.types {
			it, ok, err := t.decode(v, r.opts.images)
			if err != nil {
				return items, err
			}
			if !ok {
				continue
			}
			it.Tag = v.Tag
			it.Step = ev.Step
			it.WallTime = ev.WallTime
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *Reader) keepTag(tag string) bool {
	if r.opts.tags == nil {
		return true
	}
	_, ok := r.opts.tags[tag]
	return ok
}

// fail applies the error policy to a reading error of the current file.
func (r *Reader) fail(err error) {
	r.opts.metrics.ObserveError(errorKind(err))
	name := r.name
	if name == "" && r.next > 0 {
		name = r.files[r.next-1]
	}
	logger := log.With(r.opts.logger, log.String("file", name))
	_ = r.closeFile()
	r.pending = nil
	r.deferred = nil

	if r.opts.policy == PolicyAbort {
		logger.Error("stopping scan on reading error", log.Err(err))
		r.err = fmt.Errorf("%s: %w", filepath.Join(r.dir, name), err)
		return
	}
	r.opts.metrics.ObserveSkip()
	logger.Warn("skipping rest of event file", log.Err(err))
}

func (r *Reader) closeFile() error {
	var err error
	if r.file != nil {
		err = r.file.Close()
	}
	r.file = nil
	r.stream = nil
	r.name = ""
	r.logger = r.opts.logger
	return err
}

// errorKind names a reading error for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, record.ErrTruncated):
		return "truncated"
	case errors.Is(err, record.ErrChecksum):
		return "checksum"
	case errors.Is(err, record.ErrTooLarge):
		return "too_large"
	case errors.Is(err, event.ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrImageDecode):
		return "image"
	case errors.Is(err, ErrOpen):
		return "open"
	case errors.Is(err, record.ErrIO):
		return "io"
	default:
		return "other"
	}
}
