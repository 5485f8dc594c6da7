// Package record reads the framed record container used by event-log files.
//
// Every record on disk is laid out as:
//
//	[8B length, LE u64][4B masked CRC32C of length][length bytes payload][4B masked CRC32C of payload]
//
// and records follow each other until the end of the stream. The package is
// independent of what the payloads contain; see package event for decoding
// them.
//
// # Usage
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	r := record.NewReader(bufio.NewReader(f))
//	for {
//	    payload, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err // errors.Is(err, record.ErrReading)
//	    }
//	    // Process payload...
//	}
//
// # Errors
//
// Truncation, checksum mismatches and oversized records are all reported as
// *ReadingError values that match ErrReading with errors.Is. A Reader never
// resynchronizes: once Next has failed it keeps returning the same error.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package record
