// Package metrics provides the central Prometheus registry reference for
// the pay plan pipeline. All metrics are defined with promauto in their
// owning packages (payplan, record, aggregate, snapshot) to keep the
// dependency graph acyclic.
//
// This package documents the available metrics in one place.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the pipeline.
var Registry = prometheus.DefaultRegisterer

// Metrics inventory
//
// Request metrics (pkg/payplan):
//   - payplan_requests_total{status} (Counter): endpoint requests by HTTP status
//   - payplan_pages_fetched_total (Counter): pages fetched
//   - payplan_request_duration_seconds (Histogram): request duration
//
// Normalization metrics (pkg/record):
//   - payplan_title_absences_total (Counter): title markup mismatches
//   - payplan_salary_absences_total{period} (Counter): unparseable salary ranges
//
// Aggregation metrics (pkg/aggregate):
//   - payplan_records_aggregated_total (Counter): raw records accumulated
//   - payplan_aggregation_runs_total{outcome} (Counter): runs by outcome
//
// Snapshot metrics (pkg/snapshot):
//   - payplan_snapshot_hits_total (Counter): runs served from the snapshot
//   - payplan_snapshot_misses_total (Counter): runs that had to fetch
