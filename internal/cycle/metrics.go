package cycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airalert_cycles_total",
		Help: "Notification cycles by outcome.",
	}, []string{"outcome"})

	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "airalert_cycle_duration_seconds",
		Help:    "Wall time of a notification cycle, including waiting for extracts.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	})

	currentLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "airalert_current_index_level",
		Help: "Mean air quality index of the most recent hour.",
	})

	currentTier = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "airalert_current_tier",
		Help: "Rank of the current pollution tier.",
	})
)
