package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	StoreWrites       *prometheus.CounterVec
	RecoveryRestored  *prometheus.CounterVec
	RecoveryDefaulted *prometheus.CounterVec

	CheckoutCompleted      prometheus.Counter
	CheckoutRejected       *prometheus.CounterVec
	CheckoutVerifyFailures prometheus.Counter
	CheckoutLatencySec     prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	storeWrites := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "shop_store_writes_total"}, []string{"key", "op"})
	restored := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "shop_recovery_restored_total"}, []string{"key"})
	defaulted := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "shop_recovery_defaulted_total"}, []string{"key"})

	completed := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_checkout_completed_total"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "shop_checkout_rejected_total"}, []string{"reason"})
	verifyFail := prometheus.NewCounter(prometheus.CounterOpts{Name: "shop_checkout_verify_failures_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_checkout_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(storeWrites, restored, defaulted, completed, rejected, verifyFail, latency)
	return &Registry{
		reg:                    r,
		StoreWrites:            storeWrites,
		RecoveryRestored:       restored,
		RecoveryDefaulted:      defaulted,
		CheckoutCompleted:      completed,
		CheckoutRejected:       rejected,
		CheckoutVerifyFailures: verifyFail,
		CheckoutLatencySec:     latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
