// Package metrics exposes dispatch outcomes as Prometheus collectors.
package metrics

import (
	"time"

	"courier/internal/domain/notification"

	"github.com/prometheus/client_golang/prometheus"
)

var _ notification.Recorder = (*Collector)(nil)

// Collector records channel and dispatch outcomes.
type Collector struct {
	channelSends     *prometheus.CounterVec
	dispatches       *prometheus.CounterVec
	dispatchDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		channelSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courier_channel_sends_total",
			Help: "Channel sender invocations by channel and outcome",
		}, []string{"channel", "outcome"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courier_dispatch_total",
			Help: "Notification requests by aggregate outcome",
		}, []string{"outcome"}),
		dispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courier_dispatch_duration_seconds",
			Help:    "Time to process a notification request end-to-end",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.channelSends, c.dispatches, c.dispatchDuration)
	return c
}

// ObserveChannel counts one sender invocation.
func (c *Collector) ObserveChannel(channel notification.Channel, success bool) {
	c.channelSends.WithLabelValues(string(channel), outcome(success)).Inc()
}

// ObserveDispatch counts one aggregate request and its latency.
func (c *Collector) ObserveDispatch(success bool, elapsed time.Duration) {
	c.dispatches.WithLabelValues(outcome(success)).Inc()
	c.dispatchDuration.Observe(elapsed.Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
