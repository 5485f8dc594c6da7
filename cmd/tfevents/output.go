package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/bft-labs/tfevents"
	"github.com/bft-labs/tfevents/internal/cliconfig"
)

// itemPrinter writes summary items in one output format.
type itemPrinter interface {
	Print(it tfevents.SummaryItem) error
	Flush() error
}

func newItemPrinter(format string, w io.Writer) itemPrinter {
	if format == cliconfig.OutputJSON {
		return &jsonPrinter{enc: json.NewEncoder(w)}
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Tag", "Step", "Wall Time", "Type", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return &tablePrinter{t: t}
}

type tablePrinter struct {
	t table.Writer
}

func (p *tablePrinter) Print(it tfevents.SummaryItem) error {
	p.t.AppendRow(table.Row{it.Tag, it.Step, fmt.Sprintf("%.3f", it.WallTime), string(it.Type), describeValue(it)})
	return nil
}

func (p *tablePrinter) Flush() error {
	p.t.Render()
	return nil
}

// describeValue renders an item value as a short table cell.
func describeValue(it tfevents.SummaryItem) string {
	switch it.Type {
	case tfevents.TypeScalar:
		return fmt.Sprintf("%g", it.Scalar)
	case tfevents.TypeImage:
		if it.Image == nil {
			return "<nil image>"
		}
		b := it.Image.Bounds()
		return fmt.Sprintf("%dx%d image", b.Dx(), b.Dy())
	case tfevents.TypeImageRaw:
		return fmt.Sprintf("%d bytes", len(it.Raw))
	}
	return ""
}

type jsonPrinter struct {
	enc *json.Encoder
}

type jsonItem struct {
	Tag      string  `json:"tag"`
	Step     int64   `json:"step"`
	WallTime float64 `json:"wall_time"`
	Type     string  `json:"type"`
	Value    any     `json:"value"`
}

type jsonImage struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (p *jsonPrinter) Print(it tfevents.SummaryItem) error {
	out := jsonItem{Tag: it.Tag, Step: it.Step, WallTime: it.WallTime, Type: string(it.Type)}
	switch it.Type {
	case tfevents.TypeScalar:
		out.Value = it.Scalar
	case tfevents.TypeImage:
		if it.Image != nil {
			b := it.Image.Bounds()
			out.Value = jsonImage{Width: b.Dx(), Height: b.Dy()}
		}
	case tfevents.TypeImageRaw:
		// Encoded as base64.
		out.Value = it.Raw
	}
	return p.enc.Encode(out)
}

func (p *jsonPrinter) Flush() error { return nil }

// printStats renders the counters of the gathered metric families.
func printStats(w io.Writer, families []*dto.MetricFamily) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Labels", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			t.AppendRow(table.Row{mf.GetName(), formatLabels(m.GetLabel()), m.GetCounter().GetValue()})
		}
	}
	t.Render()
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func counterValue(c prometheus.Counter) float64 {
	var pb dto.Metric
	if err := c.Write(&pb); err != nil {
		return 0
	}
	return pb.GetCounter().GetValue()
}
