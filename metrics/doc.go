// Package metrics exposes Prometheus counters for ingestion,
// classification and visibility operations.
package metrics
