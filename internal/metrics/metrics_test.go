package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain/notification"
)

func TestCollectorCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveChannel(notification.ChannelEmail, true)
	c.ObserveChannel(notification.ChannelEmail, false)
	c.ObserveChannel(notification.ChannelSMS, true)
	c.ObserveDispatch(true, 20*time.Millisecond)
	c.ObserveDispatch(false, 5*time.Millisecond)
	c.ObserveDispatch(true, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.channelSends.WithLabelValues("email", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.channelSends.WithLabelValues("email", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.channelSends.WithLabelValues("sms", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.channelSends.WithLabelValues("sms", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.dispatches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dispatches.WithLabelValues("failure")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "courier_dispatch_duration_seconds")
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
