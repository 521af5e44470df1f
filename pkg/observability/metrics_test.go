package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestMetrics_ObserveDelivery(t *testing.T) {
	m := NewMetrics("list_api")

	m.ObserveDelivery("sqs", "ADD_ITEM", OutcomeDelivered, 10*time.Millisecond)
	m.ObserveDelivery("sqs", "ADD_ITEM", OutcomeDelivered, 10*time.Millisecond)
	m.ObserveDelivery("sqs", "ADD_ITEM", OutcomeSkipped, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.deliveries.WithLabelValues("sqs", "ADD_ITEM", OutcomeDelivered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("sqs", "ADD_ITEM", OutcomeSkipped)))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDelivery("sqs", "ADD_ITEM", OutcomeDropped, time.Second)
	})
}

func TestEndDelivery(t *testing.T) {
	_, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "deliver")
	assert.NotPanics(t, func() {
		EndDelivery(span, errors.New("failed"))
	})
}

func TestSentryReporter_DisabledWithoutDSN(t *testing.T) {
	r, err := NewSentryReporter(SentryOptions{})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		r.Report(context.Background(), errors.New("boom"), map[string]string{"sink": "sqs"})
		r.Flush(time.Millisecond)
	})
}
