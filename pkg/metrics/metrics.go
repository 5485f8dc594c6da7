// Package metrics exposes Prometheus counters for event-log scanning.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tfevents"

// Metrics holds all Prometheus metrics for the readers.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RecordsRead  prometheus.Counter
	BytesRead    prometheus.Counter
	ReadErrors   *prometheus.CounterVec
	FilesScanned prometheus.Counter
	FilesSkipped prometheus.Counter
	ItemsEmitted *prometheus.CounterVec
}

// New creates and registers all metrics with the provided registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_read_total",
			Help:      "Total records that passed both checksums",
		}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_bytes_read_total",
			Help:      "Total payload bytes of validated records",
		}),
		ReadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Reading errors by kind",
		}, []string{"kind"}),
		FilesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_scanned_total",
			Help:      "Files opened by summary readers",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Files abandoned after a reading error",
		}),
		ItemsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_emitted_total",
			Help:      "Summary items yielded to callers by type",
		}, []string{"type"}),
	}

	reg.MustRegister(m.RecordsRead, m.BytesRead, m.ReadErrors, m.FilesScanned, m.FilesSkipped, m.ItemsEmitted)
	return m
}

// ObserveRecord counts one validated record of n payload bytes.
func (m *Metrics) ObserveRecord(n int) {
	if m == nil {
		return
	}
	m.RecordsRead.Inc()
	m.BytesRead.Add(float64(n))
}

// ObserveError counts a reading error of the given kind.
func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.ReadErrors.WithLabelValues(kind).Inc()
}

// ObserveFile counts an opened file.
func (m *Metrics) ObserveFile() {
	if m == nil {
		return
	}
	m.FilesScanned.Inc()
}

// ObserveSkip counts a file abandoned after an error.
func (m *Metrics) ObserveSkip() {
	if m == nil {
		return
	}
	m.FilesSkipped.Inc()
}

// ObserveItem counts an item yielded with the given type.
func (m *Metrics) ObserveItem(typ string) {
	if m == nil {
		return
	}
	m.ItemsEmitted.WithLabelValues(typ).Inc()
}
