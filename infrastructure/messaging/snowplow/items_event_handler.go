package snowplow

import (
	"context"

	appevents "list-api/application/events"
	"list-api/application/ports"
	"list-api/application/transformers"
	"list-api/domain/core/entities"
	"list-api/domain/events"
	"list-api/infrastructure/messaging"

	"go.uber.org/zap"
)

// SinkName labels this handler in logs and metrics
const SinkName = "snowplow"

// Config selects the tracked event kinds and their schemas
type Config struct {
	Events  []events.EventType
	Schemas transformers.SnowplowSchemas
}

// ItemsEventHandler emits list_item_update analytics events
type ItemsEventHandler struct {
	tracker ports.Tracker
	tags    ports.TagLoader
	cfg     Config
	inst    messaging.Instrumentation
}

// NewItemsEventHandler creates the analytics sink. tags may be nil, in
// which case tag events report tagsUpdated and other events no tags
func NewItemsEventHandler(tracker ports.Tracker, tags ports.TagLoader, cfg Config, inst messaging.Instrumentation) *ItemsEventHandler {
	return &ItemsEventHandler{
		tracker: tracker,
		tags:    tags,
		cfg:     cfg,
		inst:    inst,
	}
}

// Register subscribes to the configured event kinds
func (h *ItemsEventHandler) Register(r appevents.Registrar) error {
	listener := messaging.NewListener(SinkName, h.inst, h.deliver)
	for _, t := range h.cfg.Events {
		if err := r.On(t, listener); err != nil {
			return err
		}
	}
	return nil
}

// Process builds the update event and hands it to the tracker. The tracker
// batches; nothing here waits for the collector
func (h *ItemsEventHandler) Process(ctx context.Context, payload events.ItemEventPayload) {
	ctx, d := h.inst.Begin(ctx, SinkName, payload)
	h.deliver(ctx, d, payload)
}

func (h *ItemsEventHandler) deliver(ctx context.Context, d *messaging.Delivery, payload events.ItemEventPayload) {

	resolved, err := payload.Resolve(ctx)
	if err != nil {
		d.Failed(ctx, "unable to resolve saved item for snowplow", err)
		return
	}

	tracked, err := transformers.ToListItemUpdate(resolved, h.currentTags(ctx, d, resolved), h.cfg.Schemas)
	if err != nil {
		d.Failed(ctx, "unable to transform snowplow event", err)
		return
	}

	if err := h.tracker.Track(ctx, tracked); err != nil {
		d.Failed(ctx, "unable to track snowplow event", err)
		return
	}
	trigger, _ := transformers.SnowplowTrigger(payload.EventType)
	d.Delivered(zap.String("trigger", trigger))
}

func (h *ItemsEventHandler) currentTags(ctx context.Context, d *messaging.Delivery, e events.ResolvedItemEvent) []string {
	fallback := []string{}
	if e.HasTags() {
		fallback = e.TagsUpdated
	}
	if h.tags == nil {
		return fallback
	}

	tags, err := h.tags.TagsForItem(ctx, e.User.ID, e.SavedItem.ID)
	if err != nil {
		d.Logger().Warn("Unable to load tags for snowplow event", zap.Error(err))
		return fallback
	}
	return entities.TagNames(tags)
}
