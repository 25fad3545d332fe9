package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var putTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "airalert_audit_put_total",
	Help: "Audit writes by backend and outcome.",
}, []string{"backend", "status"})
