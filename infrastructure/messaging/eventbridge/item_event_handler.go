package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	appevents "list-api/application/events"
	"list-api/domain/events"
	"list-api/infrastructure/messaging"
	apperrors "list-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// SinkName labels this handler in logs and metrics
const SinkName = "eventbridge"

// errRejected marks a put that Base already logged
var errRejected = errors.New("eventbridge did not accept the event")

// Config names the bus and the producer identity
type Config struct {
	EventBusName string
	Source       string
}

// ItemEventHandler forwards every item event kind to the shared bus
type ItemEventHandler struct {
	base *Base
	cfg  Config
	inst messaging.Instrumentation
}

// NewItemEventHandler creates the EventBridge sink
func NewItemEventHandler(base *Base, cfg Config, inst messaging.Instrumentation) *ItemEventHandler {
	return &ItemEventHandler{base: base, cfg: cfg, inst: inst}
}

// Register subscribes to the full event set
func (h *ItemEventHandler) Register(r appevents.Registrar) error {
	listener := messaging.NewListener(SinkName, h.inst, h.deliver)
	for _, t := range events.AllEventTypes() {
		if err := r.On(t, listener); err != nil {
			return err
		}
	}
	return nil
}

// Process puts the resolved payload on the bus with the event type as DetailType
func (h *ItemEventHandler) Process(ctx context.Context, payload events.ItemEventPayload) {
	ctx, d := h.inst.Begin(ctx, SinkName, payload)
	h.deliver(ctx, d, payload)
}

func (h *ItemEventHandler) deliver(ctx context.Context, d *messaging.Delivery, payload events.ItemEventPayload) {

	resolved, err := payload.Resolve(ctx)
	if err != nil {
		d.Failed(ctx, "unable to resolve saved item for eventbridge", err)
		return
	}

	detail, err := json.Marshal(resolved)
	if err != nil {
		d.Failed(ctx, "unable to transform eventbridge event", apperrors.NewTransformationError("marshal detail", err))
		return
	}

	entry := types.PutEventsRequestEntry{
		EventBusName: aws.String(h.cfg.EventBusName),
		Source:       aws.String(h.cfg.Source),
		DetailType:   aws.String(payload.EventType.String()),
		Detail:       aws.String(string(detail)),
		Time:         aws.Time(time.Unix(payload.Timestamp, 0)),
	}

	if !h.base.PutEvents(ctx, []types.PutEventsRequestEntry{entry}) {
		// Base has logged the cause; record the drop without a second error line.
		d.Dropped(errRejected)
		return
	}
	d.Delivered(zap.String("eventBus", h.cfg.EventBusName))
}
