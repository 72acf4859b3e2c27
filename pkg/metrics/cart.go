package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation and snapshot IO metadata.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	snapshotFailures *prometheus.CounterVec
	commerceLatency  *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutation operations applied.",
	}, []string{"op"})
	snapshotFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_snapshot_failures_total",
		Help: "Failed cart snapshot loads and saves.",
	}, []string{"op"})
	commerceLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commerce_request_duration_seconds",
		Help:    "Duration of external commerce API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	reg.MustRegister(mutations, snapshotFailures, commerceLatency)
	return &CartMetrics{
		mutations:        mutations,
		snapshotFailures: snapshotFailures,
		commerceLatency:  commerceLatency,
	}
}

// IncMutation increments the counter for the named cart operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncSnapshotFailure increments the snapshot failure counter for load or save.
func (c *CartMetrics) IncSnapshotFailure(op string) {
	if c == nil || c.snapshotFailures == nil {
		return
	}
	c.snapshotFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveCommerceLatency records the duration of a commerce API call.
func (c *CartMetrics) ObserveCommerceLatency(endpoint string, duration time.Duration) {
	if c == nil || c.commerceLatency == nil {
		return
	}
	c.commerceLatency.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
