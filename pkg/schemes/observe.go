package schemes

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// clientMetrics holds prometheus metrics registered for the client.
type clientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	loads      *prometheus.CounterVec
	live       prometheus.Gauge
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schemedex",
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Total client operations by type and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "schemedex",
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Client operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schemedex",
			Subsystem: "client",
			Name:      "loads_total",
			Help:      "Catalog loads by status.",
		}, []string{"status"}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "schemedex",
			Subsystem: "client",
			Name:      "live_schemes",
			Help:      "Live schemes in the current snapshot.",
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.loads); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.live); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("schemes: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("schemes: register metric: %w", err)
	}
	return nil
}

// observer logs and measures client operations. It also receives catalog
// load and query events. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *clientMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *clientMetrics
	if reg != nil {
		var err error
		m, err = newClientMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				"op", op,
				"duration", dur,
				"error", err,
			)
		} else {
			o.logger.Debug("operation completed",
				"op", op,
				"duration", dur,
			)
		}
	}
}

// LoadFinished records a catalog load.
func (o *observer) LoadFinished(ok bool, duration time.Duration, live int) {
	if o == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	if o.metrics != nil {
		o.metrics.loads.WithLabelValues(status).Inc()
		if ok {
			o.metrics.live.Set(float64(live))
		}
	}
	if o.logger != nil {
		o.logger.Info("catalog loaded",
			"status", status,
			"duration", duration,
			"live", live,
		)
	}
}

// Query records a catalog query outcome.
func (o *observer) Query(op, outcome string) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.operations.WithLabelValues(op, outcome).Inc()
}
