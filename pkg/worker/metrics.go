package worker

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for worker pool monitoring
type Metrics struct {
	workers   prometheus.Gauge
	submitted prometheus.Counter
	completed *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics creates pool metrics named <namespace>_worker_* and registers
// them with reg. Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "workers",
			Help:      "Live workers, busy or idle.",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "submitted_total",
			Help:      "Total jobs submitted.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "completed_total",
			Help:      "Total jobs completed by status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_duration_seconds",
			Help:      "Time spent running jobs.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.workers, err = register(reg, m.workers); err != nil {
		return nil, err
	}
	if m.submitted, err = register(reg, m.submitted); err != nil {
		return nil, err
	}
	if m.completed, err = register(reg, m.completed); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
