package event

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Encode returns the wire encoding of ev. Zero scalar fields are omitted;
// summary values always encode their oneof member so presence survives.
func Encode(ev *Event) []byte {
	return AppendEvent(nil, ev)
}

// AppendEvent appends the wire encoding of ev to buf.
func AppendEvent(buf []byte, ev *Event) []byte {
	if ev.WallTime != 0 {
		buf = protowire.AppendTag(buf, eventWallTime, protowire.Fixed64Type)
		buf = protowire.AppendFixed64(buf, math.Float64bits(ev.WallTime))
	}
	if ev.Step != 0 {
		buf = protowire.AppendTag(buf, eventStep, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(ev.Step))
	}
	if ev.FileVersion != "" {
		buf = protowire.AppendTag(buf, eventFileVersion, protowire.BytesType)
		buf = protowire.AppendString(buf, ev.FileVersion)
	}
	if ev.Summary != nil {
		var sum []byte
		for i := range ev.Summary.Values {
			sum = protowire.AppendTag(sum, summaryValue, protowire.BytesType)
			sum = protowire.AppendBytes(sum, appendValue(nil, &ev.Summary.Values[i]))
		}
		buf = protowire.AppendTag(buf, eventSummary, protowire.BytesType)
		buf = protowire.AppendBytes(buf, sum)
	}
	return buf
}

func appendValue(buf []byte, v *Value) []byte {
	if v.Tag != "" {
		buf = protowire.AppendTag(buf, valueTag, protowire.BytesType)
		buf = protowire.AppendString(buf, v.Tag)
	}
	if v.NodeName != "" {
		buf = protowire.AppendTag(buf, valueNodeName, protowire.BytesType)
		buf = protowire.AppendString(buf, v.NodeName)
	}
	switch v.Kind {
	case KindSimple:
		buf = protowire.AppendTag(buf, valueSimple, protowire.Fixed32Type)
		buf = protowire.AppendFixed32(buf, math.Float32bits(v.SimpleValue))
	case KindImage:
		var img []byte
		if v.Image != nil {
			img = appendImage(nil, v.Image)
		}
		buf = protowire.AppendTag(buf, valueImage, protowire.BytesType)
		buf = protowire.AppendBytes(buf, img)
	case KindObsoleteHistogram:
		buf = protowire.AppendTag(buf, valueObsoleteHistogram, protowire.BytesType)
		buf = protowire.AppendBytes(buf, nil)
	case KindHistogram:
		buf = protowire.AppendTag(buf, valueHistogram, protowire.BytesType)
		buf = protowire.AppendBytes(buf, nil)
	case KindAudio:
		buf = protowire.AppendTag(buf, valueAudio, protowire.BytesType)
		buf = protowire.AppendBytes(buf, nil)
	case KindTensor:
		buf = protowire.AppendTag(buf, valueTensor, protowire.BytesType)
		buf = protowire.AppendBytes(buf, nil)
	}
	return buf
}

func appendImage(buf []byte, img *Image) []byte {
	if img.Height != 0 {
		buf = protowire.AppendTag(buf, imageHeight, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(img.Height))
	}
	if img.Width != 0 {
		buf = protowire.AppendTag(buf, imageWidth, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(img.Width))
	}
	if img.Colorspace != 0 {
		buf = protowire.AppendTag(buf, imageColorspace, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(img.Colorspace))
	}
	if len(img.Encoded) > 0 {
		buf = protowire.AppendTag(buf, imageEncoded, protowire.BytesType)
		buf = protowire.AppendBytes(buf, img.Encoded)
	}
	return buf
}
