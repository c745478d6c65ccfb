// Package metrics provides the centralized Prometheus metrics registry for
// the exporter. All metrics are defined in their respective packages
// (confluence, download, exporter) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the exporter.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Wiki API Metrics (pkg/confluence):
//   - flypdf_api_requests_total{endpoint, status} (Counter): Wiki API requests by endpoint and HTTP status
//   - flypdf_api_request_duration_seconds{endpoint} (Histogram): Wiki API request duration by endpoint
//   - flypdf_poll_probes_total (Counter): Task status probes
//   - flypdf_task_wait_seconds (Histogram): Wait time until an export task reached a terminal status
//
// Download Metrics (pkg/download):
//   - flypdf_downloads_total{outcome} (Counter): Artifact downloads by outcome (ok, network_error, file_error, or HTTP status)
//   - flypdf_download_bytes_total (Counter): Artifact bytes written to disk
//
// Batch Metrics (pkg/exporter):
//   - flypdf_pages_total{outcome, cause} (Counter): Pages processed by outcome and failure cause
//   - flypdf_page_duration_seconds (Histogram): End-to-end per-page export duration
//
// Example Prometheus Queries:
//
//   # Page Failure Rate
//   sum(rate(flypdf_pages_total{outcome="failure"}[5m])) /
//   sum(rate(flypdf_pages_total[5m]))
//
//   # Failure Causes
//   sum by (cause) (flypdf_pages_total{outcome="failure"})
//
//   # P95 API Latency
//   histogram_quantile(0.95, rate(flypdf_api_request_duration_seconds_bucket[5m]))
//
//   # Average Task Wait
//   rate(flypdf_task_wait_seconds_sum[5m]) / rate(flypdf_task_wait_seconds_count[5m])
