package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	smsSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airalert_sms_send_total",
			Help: "Total SMS send attempts by provider and status.",
		},
		[]string{"provider", "status"},
	)
	smsSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "airalert_sms_send_duration_seconds",
			Help:    "Duration of SMS provider send calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)
	recipientsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airalert_recipients_skipped_total",
			Help: "Recipients skipped because their topic is not a known tier.",
		},
	)
)
