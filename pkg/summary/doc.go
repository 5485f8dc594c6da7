// Package summary extracts scalar and image summaries from a directory of
// event-log files.
//
// A Reader lists the regular files of a directory, sorts them by name (event
// file names embed their creation time, so name order is write order) and
// reads them one after another through the record and event decoders. Values
// whose tag is filtered out are dropped before decoding. Every other value is
// tried against each requested Type, and each match becomes an Item.
//
// # Usage
//
//	r, err := summary.NewReader("/runs/exp1",
//	    summary.WithTags("loss", "accuracy"),
//	    summary.WithTypes(summary.TypeScalar),
//	)
//	if err != nil {
//	    return err // errors.Is(err, summary.ErrInvalidType)
//	}
//	for item, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(item.Tag, item.Step, item.Scalar)
//	}
//
// # Errors
//
// By default a reading error abandons the rest of the offending file and the
// scan continues with the next one. WithStopOnError(true) makes the error
// end the scan instead. Items yielded before an error stay valid either way.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package summary
