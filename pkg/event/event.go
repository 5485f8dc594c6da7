package event

import "errors"

// ErrMalformed is returned when a payload is not a valid Event message.
var ErrMalformed = errors.New("event: malformed payload")

// Event is one logged moment.
type Event struct {
	// WallTime is the timestamp in seconds since the Unix epoch.
	WallTime float64

	// Step is the training step. It is not guaranteed to be monotonic.
	Step int64

	// FileVersion is set on the first event of a file, e.g. "brain.Event:2".
	FileVersion string

	// Summary is nil when the event carries no summary.
	Summary *Summary
}

// HasSummary reports whether the event carries summary content.
func (e *Event) HasSummary() bool {
	return e.Summary != nil
}

// Values returns the summary values, or nil if there is no summary.
func (e *Event) Values() []Value {
	if e.Summary == nil {
		return nil
	}
	return e.Summary.Values
}

// Summary is a list of named values.
type Summary struct {
	Values []Value
}

// Kind identifies which member of the value oneof is set.
type Kind uint8

const (
	KindNone Kind = iota
	KindSimple
	KindObsoleteHistogram
	KindImage
	KindHistogram
	KindAudio
	KindTensor
)

var kindNames = [...]string{
	KindNone:              "none",
	KindSimple:            "simple",
	KindObsoleteHistogram: "obsolete_histogram",
	KindImage:             "image",
	KindHistogram:         "histogram",
	KindAudio:             "audio",
	KindTensor:            "tensor",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a named summary value.
type Value struct {
	Tag      string
	NodeName string

	// Kind is the oneof member that was present. When several members are
	// encoded the last one wins.
	Kind Kind

	SimpleValue float32
	Image       *Image
}

// Simple returns the scalar value if the value holds one.
func (v Value) Simple() (float32, bool) {
	if v.Kind != KindSimple {
		return 0, false
	}
	return v.SimpleValue, true
}

// ImageData returns the image if the value holds one.
func (v Value) ImageData() (*Image, bool) {
	if v.Kind != KindImage || v.Image == nil {
		return nil, false
	}
	return v.Image, true
}

// Image is an encoded image with its dimensions.
type Image struct {
	Height     int32
	Width      int32
	Colorspace int32

	// Encoded holds the image in an encoded format such as PNG.
	Encoded []byte
}
