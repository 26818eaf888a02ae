// Package metrics counts what a run did and writes the counters in the
// prometheus text format, for a node_exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"prebib/src/internal/transform"
)

const namespace = "prebib"

type Recorder struct {
	reg      *prometheus.Registry
	entries  *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	warnings *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{reg: prometheus.NewRegistry()}
	r.entries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_total",
		Help:      "Entries processed, by class.",
	}, []string{"class"})
	r.dropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fields_dropped_total",
		Help:      "Fields removed by the exclusion table, by class.",
	}, []string{"class"})
	r.warnings = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "warnings_total",
		Help:      "Non-fatal warnings, by kind.",
	}, []string{"kind"})
	r.reg.MustRegister(r.entries, r.dropped, r.warnings)
	return r
}

// Observe adds the counts of one processed file.
func (r *Recorder) Observe(res transform.Result) {
	for _, rep := range res.Reports {
		r.entries.WithLabelValues(rep.Class).Inc()
		if n := len(rep.Dropped); n > 0 {
			r.dropped.WithLabelValues(rep.Class).Add(float64(n))
		}
		for _, w := range rep.Warnings {
			r.warnings.WithLabelValues(w.Kind.String()).Inc()
		}
	}
}

// WriteFile atomically writes all counters to path.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }
