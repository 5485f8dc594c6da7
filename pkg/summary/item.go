package summary

import (
	"image"
	"math"
	"time"
)

// Item is one decoded summary value. Exactly one of Scalar, Image and Raw is
// meaningful, selected by Type.
type Item struct {
	Tag      string
	Step     int64
	WallTime float64
	Type     Type

	Scalar float32
	Image  image.Image
	Raw    []byte
}

// Value returns the payload selected by Type: a float32, an image.Image or
// a []byte.
func (it Item) Value() any {
	switch it.Type {
	case TypeScalar:
		return it.Scalar
	case TypeImage:
		return it.Image
	case TypeImageRaw:
		return it.Raw
	}
	return nil
}

// Time converts WallTime to a time.Time.
func (it Item) Time() time.Time {
	sec, frac := math.Modf(it.WallTime)
	return time.Unix(int64(sec), int64(frac*1e9))
}
