// Package httpapi provides the observability HTTP server for kvshardd.
//
// It exposes Prometheus metrics and a liveness probe over plain
// net/http. It carries no part of the key-value data plane — that
// lives entirely in the line protocol served by internal/protocol.
package httpapi
