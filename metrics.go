package bodies

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes recorded by Metrics.
const (
	lookupExact        = "exact"
	lookupInterpolated = "interpolated"
	lookupOutOfRange   = "out_of_range"
)

// Metrics bundles the Prometheus collectors of trajectory loads and time-series lookups.
// A nil *Metrics records nothing.
type Metrics struct {
	Lookups      *prometheus.CounterVec
	Samples      *prometheus.GaugeVec
	LoadFailures *prometheus.CounterVec
}

// NewMetrics registers the collectors against reg, defaulting to the global Prometheus
// registry when nil. Collectors which are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	lookups, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gravbody_ephemeris_lookups_total",
		Help: "Time-series ephemeris queries, labeled by trajectory source and outcome.",
	}, []string{"source", "result"}), "gravbody_ephemeris_lookups_total")
	if err != nil {
		return nil, err
	}
	samples, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gravbody_trajectory_samples",
		Help: "Number of samples held by a loaded trajectory.",
	}, []string{"source"}), "gravbody_trajectory_samples")
	if err != nil {
		return nil, err
	}
	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gravbody_trajectory_load_failures_total",
		Help: "Trajectory loads aborted by an I/O error or a malformed record.",
	}, []string{"source"}), "gravbody_trajectory_load_failures_total")
	if err != nil {
		return nil, err
	}
	return &Metrics{Lookups: lookups, Samples: samples, LoadFailures: failures}, nil
}

func (m *Metrics) lookup(source, result string) {
	if m == nil || m.Lookups == nil {
		return
	}
	m.Lookups.WithLabelValues(source, result).Inc()
}

func (m *Metrics) loaded(source string, n int) {
	if m == nil || m.Samples == nil {
		return
	}
	m.Samples.WithLabelValues(source).Set(float64(n))
}

func (m *Metrics) loadFailed(source string) {
	if m == nil || m.LoadFailures == nil {
		return
	}
	m.LoadFailures.WithLabelValues(source).Inc()
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return c, err
	}
	return c, nil
}
