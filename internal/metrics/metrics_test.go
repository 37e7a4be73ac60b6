package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := <-ch
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	return pb.GetCounter().GetValue()
}

func TestObserveDispatchIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDispatch("ptmp", "agent", "CC_REQUEST", OutcomeHandled)

	got := counterValue(t, m.eventsDispatchedTotal.WithLabelValues("ptmp", "agent", "CC_REQUEST", OutcomeHandled))
	assert.Equal(t, float64(1), got)
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDispatch("ptmp", "agent", "CC_REQUEST", OutcomeHandled)
		m.ObserveROSEOperation("ptmp", "ccbsRequest", DirectionSent)
		m.ObserveErase("ptmp", "normal")
		m.ObserveLifetime("ptmp", time.Second)
		m.SetActiveRecords("ptmp", 1)
	})
}

func TestUnregisteredMetricsStillUpdateValues(t *testing.T) {
	m := New(nil)
	m.ObserveErase("qsig", "t_ccbs2")

	got := counterValue(t, m.eraseTotal.WithLabelValues("qsig", "t_ccbs2"))
	assert.Equal(t, float64(1), got)
}
