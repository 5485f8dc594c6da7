package summary

import (
	"bytes"
	"fmt"
	"image"

	// Codecs registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bft-labs/tfevents/pkg/event"
)

// ImageDecoder turns encoded image bytes into pixels.
type ImageDecoder interface {
	DecodeImage(encoded []byte) (image.Image, error)
}

// ImageDecoderFunc adapts a function to ImageDecoder.
type ImageDecoderFunc func(encoded []byte) (image.Image, error)

// DecodeImage calls f.
func (f ImageDecoderFunc) DecodeImage(encoded []byte) (image.Image, error) {
	return f(encoded)
}

// DefaultImageDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP images.
var DefaultImageDecoder ImageDecoder = ImageDecoderFunc(decodeStdImage)

func decodeStdImage(encoded []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(encoded))
	return img, err
}

// decode extracts an item of type t from v. It reports false when v does
// not hold the field t reads.
func (t Type) decode(v event.Value, images ImageDecoder) (Item, bool, error) {
	switch t {
	case TypeScalar:
		x, ok := v.Simple()
		if !ok {
			return Item{}, false, nil
		}
		return Item{Type: t, Scalar: x}, true, nil

	case TypeImage:
		img, ok := v.ImageData()
		if !ok {
			return Item{}, false, nil
		}
		pixels, err := images.DecodeImage(img.Encoded)
		if err != nil {
			return Item{}, false, fmt.Errorf("tag %q: %w", v.Tag, err)
		}
		return Item{Type: t, Image: pixels}, true, nil

	case TypeImageRaw:
		img, ok := v.ImageData()
		if !ok {
			return Item{}, false, nil
		}
		return Item{Type: t, Raw: img.Encoded}, true, nil
	}
	return Item{}, false, nil
}
