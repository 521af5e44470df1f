package snowplow

import (
	"context"
	"testing"

	"list-api/application/ports"
	apperrors "list-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToSelfDescribing_RejectsUnencodableData(t *testing.T) {
	_, err := toSelfDescribing(ports.SelfDescribingJSON{
		Schema: "iglu:com.pocket/list_item/jsonschema/1-0-1",
		Data:   make(chan int),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsTransformation(err))
}

func TestTracker_TrackFailsBeforeQueueing(t *testing.T) {
	tr := NewTracker(TrackerConfig{Endpoint: "localhost:9090", AppID: "test", Namespace: "test"}, zap.NewNop())

	err := tr.Track(context.Background(), ports.TrackedEvent{
		Event: ports.SelfDescribingJSON{Schema: "iglu:com.pocket/list_item_update/jsonschema/1-0-1", Data: func() {}},
	})

	assert.True(t, apperrors.IsTransformation(err))
}
