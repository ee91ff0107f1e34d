package audit

import (
	"github.com/prometheus/client_golang/prometheus"

	"crochethub/internal/kv"
)

// CounterSink counts tracked writes per key and operation.
type CounterSink struct {
	vec *prometheus.CounterVec
}

func NewCounterSink(vec *prometheus.CounterVec) *CounterSink {
	return &CounterSink{vec: vec}
}

func (c *CounterSink) ObserveWrite(ev kv.WriteEvent) error {
	c.vec.WithLabelValues(ev.Key, ev.Op).Inc()
	return nil
}
