package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts checkout outcomes and times the sequencer.
type CheckoutMetrics struct {
	committed  *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	rolledBack *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewCheckoutMetrics registers checkout metrics on the default registerer.
func NewCheckoutMetrics() *CheckoutMetrics {
	return NewCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCheckoutMetricsWithRegisterer registers checkout metrics on a custom
// registerer. Tests use this with a fresh registry.
func NewCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		committed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_committed_total",
			Help: "Checkouts that committed an order",
		}, []string{"path"}),
		rejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_rejected_total",
			Help: "Checkouts rejected before any storage mutation",
		}, []string{"path"}),
		rolledBack: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_rolled_back_total",
			Help: "Checkouts aborted by a storage failure mid-transaction",
		}, []string{"path"}),
		duration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_checkout_duration_seconds",
			Help:    "Duration of checkout attempts in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Committed records a successful checkout on the given path.
func (m *CheckoutMetrics) Committed(path string) {
	m.committed.WithLabelValues(path).Inc()
}

// Rejected records a pre-transaction rejection.
func (m *CheckoutMetrics) Rejected(path string) {
	m.rejected.WithLabelValues(path).Inc()
}

// RolledBack records a mid-transaction abort.
func (m *CheckoutMetrics) RolledBack(path string) {
	m.rolledBack.WithLabelValues(path).Inc()
}

// ObserveDuration records how long a checkout attempt took.
func (m *CheckoutMetrics) ObserveDuration(start time.Time) {
	m.duration.Observe(time.Since(start).Seconds())
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
