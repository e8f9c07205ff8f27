package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricPopulationSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "labor_odds",
			Name:      "population_size",
			Help:      "Individuals still expected to deliver in the loaded dataset",
		},
	)

	metricDelivered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "labor_odds",
			Name:      "delivered_excluded",
			Help:      "Rows excluded from the population because the baby was already born",
		},
	)

	metricTableOffsets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "labor_odds",
			Name:      "table_offsets",
			Help:      "Day offsets present in the probability table",
		},
	)

	// Peak of the most recent /forecast response [0,1]
	metricPeakNetProbability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "labor_odds",
			Name:      "peak_net_probability",
			Help:      "Highest net probability in the most recently served forecast [0,1]",
		},
	)

	metricReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labor_odds",
			Name:      "dataset_reloads_total",
			Help:      "Successful dataset reloads",
		},
	)

	metricReloadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "labor_odds",
			Name:      "dataset_reload_failures_total",
			Help:      "Dataset reloads that failed and left the previous dataset in place",
		},
	)
)
