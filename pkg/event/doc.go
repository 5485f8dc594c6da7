// Package event decodes the Event messages stored in event-log records.
//
// The payload of each record is a protocol buffer encoded Event carrying a
// step counter, a wall-clock timestamp and optionally a Summary with a list of
// named values. Only the parts of the schema needed to extract scalars and
// images are modelled; every other field is skipped on decode.
//
// Value is a tagged variant: Kind tells which member of the value oneof was
// present on the wire and the accessors report presence explicitly.
//
//	ev, err := event.Decode(payload)
//	if err != nil {
//	    return err // errors.Is(err, event.ErrMalformed)
//	}
//	for _, v := range ev.Values() {
//	    if x, ok := v.Simple(); ok {
//	        fmt.Println(v.Tag, ev.Step, x)
//	    }
//	}
package event
