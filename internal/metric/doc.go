// Package metric exposes operational counters and histograms for a
// running kvshard server: command throughput, WAL flush latency,
// snapshot duration, and active-expiry reclaim counts. Metrics are
// collected in a dedicated prometheus.Registry (not the global default
// one, so multiple servers in the same process never collide) and
// exposed at /metrics via promhttp.
package metric
