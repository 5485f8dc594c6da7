package event

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the Event schema.
const (
	eventWallTime    protowire.Number = 1
	eventStep        protowire.Number = 2
	eventFileVersion protowire.Number = 3
	eventSummary     protowire.Number = 5

	summaryValue protowire.Number = 1

	valueTag               protowire.Number = 1
	valueSimple            protowire.Number = 2
	valueObsoleteHistogram protowire.Number = 3
	valueImage             protowire.Number = 4
	valueHistogram         protowire.Number = 5
	valueAudio             protowire.Number = 6
	valueNodeName          protowire.Number = 7
	valueTensor            protowire.Number = 8

	imageHeight     protowire.Number = 1
	imageWidth      protowire.Number = 2
	imageColorspace protowire.Number = 3
	imageEncoded    protowire.Number = 4
)

// fieldFunc consumes the value of one field and returns the number of bytes
// used, or a negative protowire error code.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// Decode parses an Event from a record payload.
// Unknown fields, and known fields with an unexpected wire type, are skipped.
func Decode(payload []byte) (*Event, error) {
	ev := &Event{}
	err := walk(payload, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == eventWallTime && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			ev.WallTime = math.Float64frombits(v)
			return n, nil
		case num == eventStep && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			ev.Step = int64(v)
			return n, nil
		case num == eventFileVersion && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			ev.FileVersion = string(v)
			return n, nil
		case num == eventSummary && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			if ev.Summary == nil {
				ev.Summary = &Summary{}
			}
			if err := decodeSummary(v, ev.Summary); err != nil {
				return 0, err
			}
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return ev, nil
}

func decodeSummary(b []byte, s *Summary) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != summaryValue || typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		var val Value
		if err := decodeValue(v, &val); err != nil {
			return 0, fmt.Errorf("value %d: %w", len(s.Values), err)
		}
		s.Values = append(s.Values, val)
		return n, nil
	})
}

func decodeValue(b []byte, val *Value) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == valueTag && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			val.Tag = string(v)
			return n, nil
		case num == valueNodeName && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			val.NodeName = string(v)
			return n, nil
		case num == valueSimple && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			val.setKind(KindSimple)
			val.SimpleValue = math.Float32frombits(v)
			return n, nil
		case num == valueImage && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			val.setKind(KindImage)
			if val.Image == nil {
				val.Image = &Image{}
			}
			if err := decodeImage(v, val.Image); err != nil {
				return 0, fmt.Errorf("image: %w", err)
			}
			return n, nil
		case num == valueObsoleteHistogram && typ == protowire.BytesType:
			val.setKind(KindObsoleteHistogram)
		case num == valueHistogram && typ == protowire.BytesType:
			val.setKind(KindHistogram)
		case num == valueAudio && typ == protowire.BytesType:
			val.setKind(KindAudio)
		case num == valueTensor && typ == protowire.BytesType:
			val.setKind(KindTensor)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
}

func decodeImage(b []byte, img *Image) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == imageHeight && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			img.Height = int32(v)
			return n, nil
		case num == imageWidth && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			img.Width = int32(v)
			return n, nil
		case num == imageColorspace && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			img.Colorspace = int32(v)
			return n, nil
		case num == imageEncoded && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			img.Encoded = v
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
}

// setKind switches the oneof member, dropping the image of a previous member.
func (v *Value) setKind(k Kind) {
	if v.Kind == KindImage && k != KindImage {
		v.Image = nil
	}
	v.Kind = k
}

func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
