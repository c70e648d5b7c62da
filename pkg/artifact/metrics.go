package artifact

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Transfer results recorded by Metrics.
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

// Metrics counts repository transfers.
type Metrics struct {
	transfers *prometheus.CounterVec
	bytes     prometheus.Counter
}

// NewMetrics creates the resolver counters and registers them with reg.
// Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mockrunner",
			Subsystem: "artifact",
			Name:      "transfers_total",
			Help:      "Repository transfers by repository and result.",
		}, []string{"repository", "result"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mockrunner",
			Subsystem: "artifact",
			Name:      "transfer_bytes_total",
			Help:      "Bytes downloaded from remote repositories.",
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.transfers, err = register(reg, m.transfers); err != nil {
		return nil, err
	}
	if m.bytes, err = register(reg, m.bytes); err != nil {
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

func (m *Metrics) transfer(repo, result string, n int64) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(repo, result).Inc()
	if n > 0 {
		m.bytes.Add(float64(n))
	}
}
