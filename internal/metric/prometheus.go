package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter is a cumulative metric that only increases.
type Counter interface {
	Inc()
	Add(float64)
}

// CounterVec is a Counter with labels.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Set(float64)
	Inc()
	Dec()
	Add(float64)
	Sub(float64)
}

// Histogram samples observations and counts them in buckets.
type Histogram interface {
	Observe(float64)
}

// HistogramVec is a Histogram with labels.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// GaugeVec is a Gauge with labels.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Registry holds every metric a kvshard server exposes, backed by a
// private prometheus.Registry so a process embedding more than one
// server instance never double-registers a collector name.
type Registry struct {
	reg *prometheus.Registry

	// OpsTotal counts applied requests, labeled by op (PING, SET, ...).
	OpsTotal CounterVec

	// WALFlushDuration observes how long each WAL flush-to-disk call
	// took, labeled by shard.
	WALFlushDuration HistogramVec

	// SnapshotDuration observes how long each snapshot write (encode
	// through rename; the in-memory clone is not timed) took, labeled by
	// shard.
	SnapshotDuration HistogramVec

	// ActiveExpiryReclaimed counts keys evicted by the active-expiry
	// tick, labeled by shard.
	ActiveExpiryReclaimed CounterVec

	// ShardKeys tracks the current key count per shard, labeled by shard.
	ShardKeys GaugeVec
}

// NewRegistry builds a Registry and registers its collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	opsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kvshard",
		Name:      "ops_total",
		Help:      "Total requests applied by the shard engine, labeled by op.",
	}, []string{"op"})

	walFlush := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kvshard",
		Name:      "wal_flush_duration_seconds",
		Help:      "Time spent flushing a WAL batch to disk, per shard.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"shard"})

	snapDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kvshard",
		Name:      "snapshot_duration_seconds",
		Help:      "Time spent writing and publishing a shard snapshot.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"shard"})

	reclaimed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kvshard",
		Name:      "active_expiry_reclaimed_total",
		Help:      "Keys evicted by the active-expiry tick, per shard.",
	}, []string{"shard"})

	shardKeys := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "kvshard",
		Name:      "shard_keys",
		Help:      "Current number of live keys, per shard.",
	}, []string{"shard"})

	reg.MustRegister(opsTotal, walFlush, snapDuration, reclaimed, shardKeys)

	return &Registry{
		reg:                   reg,
		OpsTotal:              counterVecAdapter{opsTotal},
		WALFlushDuration:      histogramVecAdapter{walFlush},
		SnapshotDuration:      histogramVecAdapter{snapDuration},
		ActiveExpiryReclaimed: counterVecAdapter{reclaimed},
		ShardKeys:             gaugeVecAdapter{shardKeys},
	}
}

// RegisterCollector attaches a Collector (sampled at scrape time) to
// this registry. It's separate from NewRegistry because the WAL paths a
// Collector reports on aren't known until shards are constructed.
func (r *Registry) RegisterCollector(c *Collector) {
	r.reg.MustRegister(c)
}

// Handler returns the HTTP handler serving this registry's metrics in
// Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// counterVecAdapter narrows *prometheus.CounterVec's WithLabelValues
// return type (prometheus.Counter) to this package's Counter interface,
// since Go requires an exact method signature match for interface
// satisfaction and won't do that narrowing implicitly.
type counterVecAdapter struct {
	v *prometheus.CounterVec
}

func (a counterVecAdapter) WithLabelValues(lvs ...string) Counter {
	return a.v.WithLabelValues(lvs...)
}

type histogramVecAdapter struct {
	v *prometheus.HistogramVec
}

func (a histogramVecAdapter) WithLabelValues(lvs ...string) Histogram {
	return a.v.WithLabelValues(lvs...)
}

type gaugeVecAdapter struct {
	v *prometheus.GaugeVec
}

func (a gaugeVecAdapter) WithLabelValues(lvs ...string) Gauge {
	return a.v.WithLabelValues(lvs...)
}
