package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewCounter registers fileshare_general_counters. The result label names the
// event, e.g. files_uploaded_total or access_denied_total.
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fileshare",
			Name:      "general_counters",
			Help:      "Counts of catalog, sharing and HTTP events by result.",
		},
		[]string{"result"},
	)
}
