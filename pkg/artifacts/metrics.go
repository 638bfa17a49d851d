package artifacts

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Tracked       prometheus.Gauge
	Created       prometheus.Counter
	CreateErrors  prometheus.Counter
	Reclaimed     prometheus.Counter
	ReclaimErrors prometheus.Counter
	ReclaimPasses prometheus.Counter
	StoredBytes   prometheus.Histogram
}

var metrics = &Metrics{
	Tracked: prometheus.NewGauge(prometheus.GaugeOpts{
		Subsystem: "artifacts",
		Name:      "tracked",
	}),
	Created: prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: "artifacts",
		Name:      "created_total",
	}),
	CreateErrors: prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: "artifacts",
		Name:      "create_errors_total",
	}),
	Reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: "artifacts",
		Name:      "reclaimed_total",
	}),
	ReclaimErrors: prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: "artifacts",
		Name:      "reclaim_errors_total",
	}),
	ReclaimPasses: prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: "artifacts",
		Name:      "reclaim_passes_total",
	}),
	StoredBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
		Subsystem: "artifacts",
		Name:      "stored_bytes",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 10),
	}),
}

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(metrics.Tracked)
	reg.MustRegister(metrics.Created)
	reg.MustRegister(metrics.CreateErrors)
	reg.MustRegister(metrics.Reclaimed)
	reg.MustRegister(metrics.ReclaimErrors)
	reg.MustRegister(metrics.ReclaimPasses)
	reg.MustRegister(metrics.StoredBytes)
}
