package sender

import "github.com/prometheus/client_golang/prometheus"

func registerMetrics(reg *prometheus.Registry, s *sender) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "sender",
		Name:      "send_count",
		Help:      "total count of send operations",
	}, func() float64 {
		return float64(s.metrics.sendCount.Load())
	}))
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "relay",
		Subsystem: "sender",
		Name:      "invalid_tokens",
		Help:      "total count of sends rejected for an invalid token",
	}, func() float64 {
		return float64(s.metrics.invalidCount.Load())
	}))
	s.metrics.sendDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "relay",
		Subsystem: "sender",
		Name:      "duration_seconds",
		Objectives: map[float64]float64{
			0.5:  0.5,
			0.85: 0.01,
			0.95: 0.0005,
			0.99: 0.0001,
		},
	}, nil)
	reg.MustRegister(s.metrics.sendDuration)
}
