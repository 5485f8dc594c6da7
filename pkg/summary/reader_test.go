package summary

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/tfevents/internal/recordtest"
	"github.com/bft-labs/tfevents/pkg/event"
	"github.com/bft-labs/tfevents/pkg/log"
	"github.com/bft-labs/tfevents/pkg/metrics"
	"github.com/bft-labs/tfevents/pkg/record"
)

func scalarValue(tag string, x float32) event.Value {
	return event.Value{Tag: tag, Kind: event.KindSimple, SimpleValue: x}
}

func imageValue(tag string, encoded []byte) event.Value {
	return event.Value{Tag: tag, Kind: event.KindImage, Image: &event.Image{Height: 2, Width: 3, Colorspace: 4, Encoded: encoded}}
}

func summaryEvent(step int64, wallTime float64, values ...event.Value) *event.Event {
	return &event.Event{Step: step, WallTime: wallTime, Summary: &event.Summary{Values: values}}
}

func encodeEvents(events ...*event.Event) []byte {
	payloads := make([][]byte, 0, len(events))
	for _, ev := range events {
		payloads = append(payloads, event.Encode(ev))
	}
	return recordtest.Stream(payloads...)
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func writeEvents(t *testing.T, dir, name string, events ...*event.Event) {
	t.Helper()
	writeFile(t, dir, name, encodeEvents(events...))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func collect(t *testing.T, r *Reader) ([]Item, error) {
	t.Helper()
	var items []Item
	for {
		it, err := r.Next()
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, it)
	}
}

func tagsOf(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Tag+"/"+string(it.Type))
	}
	return out
}

func TestNewReader_TypeValidation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "unknown name", opts: []Option{WithTypeNames("unknown")}},
		{name: "unknown among known", opts: []Option{WithTypeNames("scalar", "histogram")}},
		{name: "unknown type value", opts: []Option{WithTypes(Type("audio"))}},
		{name: "empty set", opts: []Option{WithTypes()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(missing, tt.opts...)
			require.Nil(t, r)
			require.ErrorIs(t, err, ErrInvalidType)
			require.False(t, errors.Is(err, os.ErrNotExist))
		})
	}
}

func TestNewReader_Defaults(t *testing.T) {
	r, err := NewReader(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, []Type{TypeScalar}, r.Types())
	require.Equal(t, PolicySkipFile, r.Policy())

	r, err = NewReader(t.TempDir(), WithTypeNames("image_raw", "scalar", "image", "scalar"), WithStopOnError(true))
	require.NoError(t, err)
	require.Equal(t, []Type{TypeScalar, TypeImage, TypeImageRaw}, r.Types())
	require.Equal(t, PolicyAbort, r.Policy())
}

func TestNewReader_InvalidPattern(t *testing.T) {
	_, err := NewReader(t.TempDir(), WithPattern("[unclosed"))
	require.ErrorIs(t, err, ErrInvalidPattern)
}

func TestReader_Filtering(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t)
	writeEvents(t, dir, "events",
		summaryEvent(1, 10,
			scalarValue("a", 1),
			imageValue("a", img),
			scalarValue("b", 2),
			imageValue("b", img),
		),
	)

	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{
			name: "all tags scalar only",
			opts: nil,
			want: []string{"a/scalar", "b/scalar"},
		},
		{
			name: "tag a scalar and image",
			opts: []Option{WithTags("a"), WithTypes(TypeScalar, TypeImage)},
			want: []string{"a/scalar", "a/image"},
		},
		{
			name: "tag a scalar only",
			opts: []Option{WithTags("a")},
			want: []string{"a/scalar"},
		},
		{
			name: "all tags image raw",
			opts: []Option{WithTypes(TypeImageRaw)},
			want: []string{"a/image_raw", "b/image_raw"},
		},
		{
			name: "unknown tag",
			opts: []Option{WithTags("c"), WithTypes(TypeScalar, TypeImage)},
			want: []string{},
		},
		{
			name: "empty tag set",
			opts: []Option{WithTags()},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(dir, tt.opts...)
			require.NoError(t, err)
			items, err := collect(t, r)
			require.NoError(t, err)
			require.Equal(t, tt.want, tagsOf(items))
		})
	}
}

func TestReader_ItemFields(t *testing.T) {
	dir := t.TempDir()
	writeEvents(t, dir, "events",
		&event.Event{WallTime: 100, FileVersion: "brain.Event:2"},
		summaryEvent(7, 101.5, scalarValue("loss", 0.25)),
		&event.Event{Step: 8, WallTime: 102},
		summaryEvent(5, 103, scalarValue("loss", 0.5)),
	)

	r, err := NewReader(dir)
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, Item{Tag: "loss", Step: 7, WallTime: 101.5, Type: TypeScalar, Scalar: 0.25}, items[0])
	require.Equal(t, int64(5), items[1].Step, "steps are not reordered")
	require.Equal(t, float32(0.5), items[1].Value())
}

func TestReader_DirectoryOrdering(t *testing.T) {
	dir := t.TempDir()
	writeEvents(t, dir, "b.log",
		summaryEvent(1, 1, scalarValue("x", 1)),
		summaryEvent(2, 2, scalarValue("x", 2)),
	)
	writeEvents(t, dir, "a.log",
		summaryEvent(10, 10, scalarValue("x", 10)),
		summaryEvent(20, 20, scalarValue("x", 20)),
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0-subdir"), 0o755))

	r, err := NewReader(dir)
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)

	var steps []int64
	for _, it := range items {
		steps = append(steps, it.Step)
	}
	require.Equal(t, []int64{10, 20, 1, 2}, steps)
}

func TestReader_Pattern(t *testing.T) {
	dir := t.TempDir()
	writeEvents(t, dir, "events.out.tfevents.1", summaryEvent(1, 1, scalarValue("x", 1)))
	writeEvents(t, dir, "notes.txt", summaryEvent(2, 2, scalarValue("x", 2)))

	r, err := NewReader(dir, WithPattern("events.out.tfevents.*"))
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].Step)
}

func corruptFirstRecord(data []byte) []byte {
	out := bytes.Clone(data)
	out[14] ^= 0x40
	return out
}

func TestReader_ErrorIsolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", corruptFirstRecord(encodeEvents(
		summaryEvent(1, 1, scalarValue("x", 1)),
		summaryEvent(2, 2, scalarValue("x", 2)),
	)))
	writeEvents(t, dir, "b.log",
		summaryEvent(3, 3, scalarValue("x", 3)),
		summaryEvent(4, 4, scalarValue("x", 4)),
	)

	t.Run("skip file", func(t *testing.T) {
		r, err := NewReader(dir, WithStopOnError(false))
		require.NoError(t, err)
		items, err := collect(t, r)
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, int64(3), items[0].Step)
		require.Equal(t, int64(4), items[1].Step)
	})

	t.Run("stop on error", func(t *testing.T) {
		r, err := NewReader(dir, WithStopOnError(true))
		require.NoError(t, err)
		items, err := collect(t, r)
		require.Empty(t, items)
		require.ErrorIs(t, err, record.ErrReading)
		require.ErrorIs(t, err, record.ErrChecksum)
		require.Contains(t, err.Error(), filepath.Join(dir, "a.log"))
		var re *record.ReadingError
		require.ErrorAs(t, err, &re)
		require.Equal(t, int64(0), re.Offset)

		_, again := r.Next()
		require.Equal(t, err, again, "error is sticky")
		require.Empty(t, r.CurrentFile(), "file is released")
	})
}

func TestReader_TruncatedTail(t *testing.T) {
	dir := t.TempDir()
	data := encodeEvents(
		summaryEvent(1, 1, scalarValue("x", 1)),
		summaryEvent(2, 2, scalarValue("x", 2)),
	)
	writeFile(t, dir, "a.log", data[:len(data)-3])
	writeEvents(t, dir, "b.log", summaryEvent(3, 3, scalarValue("x", 3)))

	r, err := NewReader(dir)
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Equal(t, []string{"x/scalar", "x/scalar"}, tagsOf(items))
	require.Equal(t, int64(1), items[0].Step)
	require.Equal(t, int64(3), items[1].Step)

	r, err = NewReader(dir, WithStopOnError(true))
	require.NoError(t, err)
	items, err = collect(t, r)
	require.Len(t, items, 1, "items before the error are delivered")
	require.ErrorIs(t, err, record.ErrTruncated)
}

func TestReader_MalformedPayload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", recordtest.Stream([]byte{0x09, 0x01}))

	r, err := NewReader(dir, WithStopOnError(true))
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, record.ErrReading)
	require.ErrorIs(t, err, event.ErrMalformed)
}

func TestReader_FanOut(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t)
	writeEvents(t, dir, "events", summaryEvent(9, 42.5, imageValue("sample", img)))

	r, err := NewReader(dir, WithTypes(TypeImage, TypeImageRaw))
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 2)

	decoded, raw := items[0], items[1]
	for _, it := range items {
		require.Equal(t, "sample", it.Tag)
		require.Equal(t, int64(9), it.Step)
		require.Equal(t, 42.5, it.WallTime)
	}
	require.Equal(t, TypeImage, decoded.Type)
	require.NotNil(t, decoded.Image)
	require.Equal(t, image.Rect(0, 0, 3, 2), decoded.Image.Bounds())
	_, _, _, a := decoded.Image.At(1, 1).RGBA()
	require.NotZero(t, a)

	require.Equal(t, TypeImageRaw, raw.Type)
	require.Equal(t, img, raw.Raw)
	require.Equal(t, img, raw.Value())
}

func TestReader_ImageDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	writeEvents(t, dir, "a.log",
		summaryEvent(1, 1, scalarValue("loss", 1), imageValue("broken", []byte("not an image")), scalarValue("loss", 2)),
		summaryEvent(2, 2, scalarValue("loss", 3)),
	)
	writeEvents(t, dir, "b.log", summaryEvent(3, 3, scalarValue("loss", 4)))

	r, err := NewReader(dir, WithTypes(TypeScalar, TypeImage), WithStopOnError(true))
	require.NoError(t, err)
	items, err := collect(t, r)
	require.ErrorIs(t, err, ErrImageDecode)
	require.ErrorIs(t, err, record.ErrReading)
	require.Len(t, items, 1)
	require.Equal(t, float32(1), items[0].Scalar)

	r, err = NewReader(dir, WithTypes(TypeScalar, TypeImage))
	require.NoError(t, err)
	items, err = collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, float32(1), items[0].Scalar)
	require.Equal(t, float32(4), items[1].Scalar)

	// Raw images never touch the codec.
	r, err = NewReader(dir, WithTypes(TypeImageRaw), WithStopOnError(true))
	require.NoError(t, err)
	items, err = collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestReader_CustomImageDecoder(t *testing.T) {
	dir := t.TempDir()
	writeEvents(t, dir, "a.log", summaryEvent(1, 1, imageValue("img", []byte("custom"))))

	var seen []byte
	dec := ImageDecoderFunc(func(b []byte) (image.Image, error) {
		seen = b
		return image.NewGray(image.Rect(0, 0, 1, 1)), nil
	})
	r, err := NewReader(dir, WithTypes(TypeImage), WithImageDecoder(dec))
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, []byte("custom"), seen)
}

func TestReader_MissingDirectory(t *testing.T) {
	r, err := NewReader(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err, "construction does no I/O")

	_, err = r.Next()
	require.ErrorIs(t, err, os.ErrNotExist)
	require.False(t, errors.Is(err, record.ErrReading))
	_, again := r.Next()
	require.Equal(t, err, again)
}

func TestReader_UnreadableFileSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	writeEvents(t, dir, "a.log", summaryEvent(1, 1, scalarValue("x", 1)))
	writeEvents(t, dir, "b.log", summaryEvent(2, 2, scalarValue("x", 2)))
	require.NoError(t, os.Chmod(filepath.Join(dir, "a.log"), 0))

	r, err := NewReader(dir)
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].Step)

	r, err = NewReader(dir, WithStopOnError(true))
	require.NoError(t, err)
	_, err = collect(t, r)
	require.ErrorIs(t, err, ErrOpen)
}

func TestReader_AllEarlyBreakClosesFile(t *testing.T) {
	dir := t.TempDir()
	writeEvents(t, dir, "a.log",
		summaryEvent(1, 1, scalarValue("x", 1)),
		summaryEvent(2, 2, scalarValue("x", 2)),
	)

	r, err := NewReader(dir)
	require.NoError(t, err)
	for it, err := range r.All() {
		require.NoError(t, err)
		require.Equal(t, int64(1), it.Step)
		require.Equal(t, "a.log", r.CurrentFile())
		break
	}
	require.Nil(t, r.file)
	require.Empty(t, r.CurrentFile())
	_, err = r.Next()
	require.ErrorIs(t, err, ErrClosed)
}

func TestReader_AllYieldsErrorOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", []byte{1, 2, 3})

	r, err := NewReader(dir, WithStopOnError(true))
	require.NoError(t, err)
	var errs int
	for _, err := range r.All() {
		require.ErrorIs(t, err, record.ErrTruncated)
		errs++
	}
	require.Equal(t, 1, errs)
}

func TestReader_EmptyDirectoryAndFiles(t *testing.T) {
	dir := t.TempDir()
	r, err := NewReader(dir)
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Empty(t, items)

	writeFile(t, dir, "empty", nil)
	r, err = NewReader(dir, WithStopOnError(true))
	require.NoError(t, err)
	items, err = collect(t, r)
	require.NoError(t, err)
	require.Empty(t, items)
}

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Debug(msg string, fields ...log.Field) {}
func (l *recordingLogger) Info(msg string, fields ...log.Field)  {}
func (l *recordingLogger) Warn(msg string, fields ...log.Field) {
	l.warns = append(l.warns, msg+" "+fileField(fields))
}
func (l *recordingLogger) Error(msg string, fields ...log.Field) {
	l.errors = append(l.errors, msg+" "+fileField(fields))
}

func fileField(fields []log.Field) string {
	for _, f := range fields {
		if f.Key == "file" {
			return f.Value.(string)
		}
	}
	return ""
}

func TestReader_MetricsAndLogging(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", corruptFirstRecord(encodeEvents(summaryEvent(1, 1, scalarValue("x", 1)))))
	writeEvents(t, dir, "b.log",
		summaryEvent(2, 2, scalarValue("x", 2), scalarValue("y", 3)),
		summaryEvent(3, 3, scalarValue("x", 4)),
	)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := &recordingLogger{}

	r, err := NewReader(dir, WithMetrics(m), WithLogger(logger))
	require.NoError(t, err)
	items, err := collect(t, r)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, 2.0, testutil.ToFloat64(m.FilesScanned))
	require.Equal(t, 1.0, testutil.ToFloat64(m.FilesSkipped))
	require.Equal(t, 2.0, testutil.ToFloat64(m.RecordsRead))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ReadErrors.WithLabelValues("checksum")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.ItemsEmitted.WithLabelValues("scalar")))

	require.Equal(t, []string{"skipping rest of event file a.log"}, logger.warns)
	require.Empty(t, logger.errors)
}
