package synth

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	RequestSeconds prometheus.Histogram
	AudioSeconds   prometheus.Histogram
	InitSeconds    prometheus.Gauge
	Errors         *prometheus.CounterVec
}

var metrics = &Metrics{
	RequestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
		Subsystem: "synth",
		Name:      "request_seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}),
	AudioSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
		Subsystem: "synth",
		Name:      "audio_seconds",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	}),
	InitSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
		Subsystem: "synth",
		Name:      "init_seconds",
	}),
	Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "synth",
		Name:      "errors_total",
	}, []string{"stage"}),
}

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(metrics.RequestSeconds)
	reg.MustRegister(metrics.AudioSeconds)
	reg.MustRegister(metrics.InitSeconds)
	reg.MustRegister(metrics.Errors)
}
