package record

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for normalization. Parse absence is not an error,
// but it is worth counting: a sudden spike means the upstream markup or
// range format changed under us.
var (
	titleAbsencesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payplan_title_absences_total",
		Help: "Raw records whose title markup did not match the expected pattern",
	})

	salaryAbsencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payplan_salary_absences_total",
		Help: "Salary range strings that did not parse to a (min, max) pair, by period",
	}, []string{"period"})
)
