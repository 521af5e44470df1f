package snowplow

import (
	"context"
	"encoding/json"

	"list-api/application/ports"
	apperrors "list-api/pkg/errors"

	"github.com/snowplow/snowplow-golang-tracker/v3/pkg/payload"
	storagememory "github.com/snowplow/snowplow-golang-tracker/v3/pkg/storage/memory"
	"github.com/snowplow/snowplow-golang-tracker/v3/tracker"
	"go.uber.org/zap"
)

// TrackerConfig points the tracker at a collector
type TrackerConfig struct {
	Endpoint  string
	Protocol  string
	AppID     string
	Namespace string
}

// Tracker adapts the Snowplow Go tracker to ports.Tracker. Events are
// buffered in memory and sent by the emitter in the background
type Tracker struct {
	tracker *tracker.Tracker
	logger  *zap.Logger
}

// NewTracker creates a tracker with an in-memory emitter
func NewTracker(cfg TrackerConfig, logger *zap.Logger) *Tracker {
	protocol := cfg.Protocol
	if protocol == "" {
		protocol = "https"
	}

	emitter := tracker.InitEmitter(
		tracker.RequireCollectorUri(cfg.Endpoint),
		tracker.RequireStorage(*storagememory.Init()),
		tracker.OptionRequestType("POST"),
		tracker.OptionProtocol(protocol),
		tracker.OptionCallback(func(successes []tracker.CallbackResult, failures []tracker.CallbackResult) {
			for _, f := range failures {
				logger.Error("Snowplow collector rejected events",
					zap.Int("count", f.Count),
					zap.Int("status", f.Status),
				)
			}
		}),
	)

	return &Tracker{
		tracker: tracker.InitTracker(
			tracker.RequireEmitter(emitter),
			tracker.OptionNamespace(cfg.Namespace),
			tracker.OptionAppId(cfg.AppID),
		),
		logger: logger,
	}
}

// Track converts event to the tracker's self-describing shape and queues it
func (t *Tracker) Track(ctx context.Context, event ports.TrackedEvent) error {
	body, err := toSelfDescribing(event.Event)
	if err != nil {
		return err
	}

	contexts := make([]payload.SelfDescribingJson, 0, len(event.Contexts))
	for _, c := range event.Contexts {
		sdj, err := toSelfDescribing(c)
		if err != nil {
			return err
		}
		contexts = append(contexts, *sdj)
	}

	e := tracker.SelfDescribingEvent{
		Event:    body,
		Contexts: contexts,
	}
	if event.EventID != "" {
		id := event.EventID
		e.EventId = &id
	}
	if event.Timestamp > 0 {
		ts := event.Timestamp
		e.TrueTimestamp = &ts
	}

	t.tracker.TrackSelfDescribingEvent(e)
	return nil
}

// Flush sends everything still buffered
func (t *Tracker) Flush() {
	t.tracker.FlushEmitter()
}

func toSelfDescribing(in ports.SelfDescribingJSON) (*payload.SelfDescribingJson, error) {
	raw, err := json.Marshal(in.Data)
	if err != nil {
		return nil, apperrors.NewTransformationError("marshal "+in.Schema, err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, apperrors.NewTransformationError("decode "+in.Schema, err)
	}
	return payload.InitSelfDescribingJson(in.Schema, data), nil
}
