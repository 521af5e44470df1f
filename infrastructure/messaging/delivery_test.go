package messaging

import (
	"context"
	"errors"
	"testing"

	"list-api/domain/core/entities"
	"list-api/domain/events"
	apperrors "list-api/pkg/errors"
	"list-api/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingReporter struct {
	tags []map[string]string
}

func (r *recordingReporter) Report(ctx context.Context, err error, tags map[string]string) {
	r.tags = append(r.tags, tags)
}

func testPayload() events.ItemEventPayload {
	return events.ItemEventPayload{
		EventID:   "evt-1",
		EventType: events.AddItem,
		SavedItem: events.ResolvedItem(&entities.SavedItem{ID: "1", URL: "https://getpocket.com/"}),
	}
}

func TestListener_OpensDeliveryOnAcceptAndDefersWork(t *testing.T) {
	// Arrange
	var delivered *Delivery
	calls := 0
	l := NewListener("kinesis", Instrumentation{Logger: zap.NewNop()}, func(ctx context.Context, d *Delivery, payload events.ItemEventPayload) {
		calls++
		delivered = d
		assert.Equal(t, "evt-1", payload.EventID)
		d.Delivered()
	})

	// Act
	work := l.Accept(context.Background(), testPayload())

	// Assert
	assert.Equal(t, "kinesis", l.Name())
	require.NotNil(t, work)
	assert.Equal(t, 0, calls)

	require.NoError(t, work())
	assert.Equal(t, 1, calls)
	require.NotNil(t, delivered)
	assert.Equal(t, "kinesis", delivered.sink)
}

func TestDelivery_FailedLogsAndReports(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reporter := &recordingReporter{}
	metrics := observability.NewMetrics("list_api")
	inst := Instrumentation{Logger: zap.New(core), Metrics: metrics, Reporter: reporter}

	ctx, d := inst.Begin(context.Background(), "sqs:permanent-library", testPayload())
	d.Failed(ctx, "unable to add event to queue", apperrors.NewExternalError("sqs", errors.New("throttled")))

	entries := logs.FilterMessage("unable to add event to queue").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sqs:permanent-library", fields["sink"])
	assert.Equal(t, "ADD_ITEM", fields["eventType"])
	assert.Equal(t, "EXTERNAL", fields["errorType"])
	require.Len(t, reporter.tags, 1)
	assert.Equal(t, "sqs:permanent-library", reporter.tags[0]["sink"])

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
