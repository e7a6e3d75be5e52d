package stateful

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer defines hooks for observability and metrics collection.
// Hooks run after the store lock is released.
type Observer interface {
	// OnCreate is called after a record is created.
	OnCreate(entity string, id string, duration time.Duration)

	// OnRead is called after a lookup by ID, found or not.
	OnRead(entity string, id string, found bool, duration time.Duration)

	// OnList is called after a list or filter query.
	OnList(entity string, count int, duration time.Duration)

	// OnUpdate is called after an update or relation change, applied or not.
	OnUpdate(entity string, id string, found bool, duration time.Duration)

	// OnDelete is called after a delete, removed or not.
	OnDelete(entity string, id string, removed bool, duration time.Duration)

	// OnSet is called after a fixture is installed.
	OnSet(entity string, count int, duration time.Duration)

	// OnReset is called after the current collection is restored from the fixture.
	OnReset(entity string, count int, duration time.Duration)
}

// NoopObserver is a no-op implementation of Observer for when metrics are disabled.
type NoopObserver struct{}

func (n *NoopObserver) OnCreate(string, string, time.Duration)       {}
func (n *NoopObserver) OnRead(string, string, bool, time.Duration)   {}
func (n *NoopObserver) OnList(string, int, time.Duration)            {}
func (n *NoopObserver) OnUpdate(string, string, bool, time.Duration) {}
func (n *NoopObserver) OnDelete(string, string, bool, time.Duration) {}
func (n *NoopObserver) OnSet(string, int, time.Duration)             {}
func (n *NoopObserver) OnReset(string, int, time.Duration)           {}

// PrometheusObserver records store operations as Prometheus metrics.
type PrometheusObserver struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	records    *prometheus.GaugeVec
}

// NewPrometheusObserver creates an observer and registers its collectors on reg.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "castlepact_store_operations_total",
			Help: "Store operations by entity, operation and result",
		}, []string{"entity", "op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "castlepact_store_operation_duration_seconds",
			Help:    "Store operation duration",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
		}, []string{"entity", "op"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "castlepact_fixture_records",
			Help: "Records in the current collection after the last set or reset",
		}, []string{"entity"}),
	}

	for _, c := range []prometheus.Collector{o.operations, o.duration, o.records} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *PrometheusObserver) observe(entity, op, result string, d time.Duration) {
	o.operations.WithLabelValues(entity, op, result).Inc()
	o.duration.WithLabelValues(entity, op).Observe(d.Seconds())
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "absent"
}

func (o *PrometheusObserver) OnCreate(entity, _ string, d time.Duration) {
	o.observe(entity, "create", "ok", d)
}

func (o *PrometheusObserver) OnRead(entity, _ string, found bool, d time.Duration) {
	o.observe(entity, "get", resultLabel(found), d)
}

func (o *PrometheusObserver) OnList(entity string, _ int, d time.Duration) {
	o.observe(entity, "list", "ok", d)
}

func (o *PrometheusObserver) OnUpdate(entity, _ string, found bool, d time.Duration) {
	o.observe(entity, "update", resultLabel(found), d)
}

func (o *PrometheusObserver) OnDelete(entity, _ string, removed bool, d time.Duration) {
	o.observe(entity, "delete", resultLabel(removed), d)
}

func (o *PrometheusObserver) OnSet(entity string, count int, d time.Duration) {
	o.observe(entity, "set", "ok", d)
	o.records.WithLabelValues(entity).Set(float64(count))
}

func (o *PrometheusObserver) OnReset(entity string, count int, d time.Duration) {
	o.observe(entity, "reset", "ok", d)
	o.records.WithLabelValues(entity).Set(float64(count))
}
