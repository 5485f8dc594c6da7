// Package log provides the logging abstraction used by the readers.
//
// Readers never log on their own unless a Logger is supplied. The zerolog
// adapter is what the tfevents command uses; the no-op logger is the
// default for library callers.
//
//	logger := log.NewZerologAdapter(os.Stderr, log.ParseLevel("debug"))
//	r, err := summary.NewReader(dir, summary.WithLogger(logger))
//
// Fields attached with With are prepended to every message of the derived
// logger:
//
//	fileLog := log.With(logger, log.String("file", name))
package log
