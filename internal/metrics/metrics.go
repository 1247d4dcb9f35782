// Package metrics accumulates client-side query metrics in a private
// prometheus registry. There is no HTTP listener here — a stub-resolver
// client has nothing to serve metrics to — the registry only backs the
// --stats flag's plain-text summary.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Recorder owns one run's worth of query metrics.
type Recorder struct {
	registry *prometheus.Registry

	queryDuration     *prometheus.HistogramVec
	bytesSent         prometheus.Counter
	bytesReceived     prometheus.Counter
	truncationRetries prometheus.Counter
}

// New builds a Recorder with a fresh, unregistered-elsewhere registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dqy_query_duration_seconds",
			Help:    "Time spent on a single query/response exchange, by transport.",
			Buckets: prometheus.DefBuckets,
		}, []string{"transport"}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dqy_bytes_sent_total",
			Help: "Total bytes written to the wire across all queries in this run.",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dqy_bytes_received_total",
			Help: "Total bytes read from the wire across all responses in this run.",
		}),
		truncationRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dqy_truncation_retries_total",
			Help: "Number of UDP responses that set TC and were retried over TCP.",
		}),
	}

	registry.MustRegister(r.queryDuration, r.bytesSent, r.bytesReceived, r.truncationRetries)
	return r
}

// ObserveQuery records one exchange's duration, labeled by transport kind
// ("udp", "tcp", "dot", "doh", "doq").
func (r *Recorder) ObserveQuery(transport string, seconds float64) {
	r.queryDuration.WithLabelValues(transport).Observe(seconds)
}

// AddBytesSent accumulates bytes written to the wire.
func (r *Recorder) AddBytesSent(n int) {
	r.bytesSent.Add(float64(n))
}

// AddBytesReceived accumulates bytes read from the wire.
func (r *Recorder) AddBytesReceived(n int) {
	r.bytesReceived.Add(float64(n))
}

// IncTruncationRetry records one UDP-truncated-then-retried-over-TCP cycle.
func (r *Recorder) IncTruncationRetry() {
	r.truncationRetries.Inc()
}

// Summary renders the registry's current values as the plain-text block
// --stats prints alongside the C5 info record. It gathers directly rather
// than going through the text exposition format, since there is no HTTP
// handler to serve that format to.
func (r *Recorder) Summary() (string, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("metrics: gathering: %w", err)
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	var b strings.Builder
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(&b, "%s%s %s\n", mf.GetName(), labelSuffix(m.GetLabel()), formatMetric(m))
		}
	}
	return b.String(), nil
}

func labelSuffix(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatMetric(m *dto.Metric) string {
	switch {
	case m.Counter != nil:
		return fmt.Sprintf("%g", m.Counter.GetValue())
	case m.Histogram != nil:
		h := m.Histogram
		return fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
	default:
		return "?"
	}
}
