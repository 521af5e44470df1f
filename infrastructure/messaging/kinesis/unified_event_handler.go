package kinesis

import (
	"context"
	"encoding/json"

	appevents "list-api/application/events"
	"list-api/application/ports"
	"list-api/application/transformers"
	"list-api/domain/events"
	"list-api/infrastructure/messaging"
	apperrors "list-api/pkg/errors"
	"list-api/pkg/resilience"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskinesis "github.com/aws/aws-sdk-go-v2/service/kinesis"
	"go.uber.org/zap"
)

// SinkName labels this handler in logs and metrics
const SinkName = "unified-event-kinesis"

// Config selects the stream and the event kinds forwarded to it
type Config struct {
	StreamName string
	Events     []events.EventType
}

// UnifiedEventHandler writes unified event records to a Kinesis stream
type UnifiedEventHandler struct {
	client  ports.KinesisAPI
	cfg     Config
	breaker *resilience.Breaker
	inst    messaging.Instrumentation
}

// NewUnifiedEventHandler creates the unified event sink
func NewUnifiedEventHandler(client ports.KinesisAPI, cfg Config, breaker *resilience.Breaker, inst messaging.Instrumentation) *UnifiedEventHandler {
	return &UnifiedEventHandler{
		client:  client,
		cfg:     cfg,
		breaker: breaker,
		inst:    inst,
	}
}

// Register subscribes to every configured event kind that has a stream name
func (h *UnifiedEventHandler) Register(r appevents.Registrar) error {
	listener := messaging.NewListener(SinkName, h.inst, h.deliver)
	for _, t := range h.cfg.Events {
		if _, ok := transformers.UnifiedEventType(t); !ok {
			continue
		}
		if err := r.On(t, listener); err != nil {
			return err
		}
	}
	return nil
}

// Process resolves, transforms and writes one event. Failures are logged
// and reported here
func (h *UnifiedEventHandler) Process(ctx context.Context, payload events.ItemEventPayload) {
	ctx, d := h.inst.Begin(ctx, SinkName, payload)
	h.deliver(ctx, d, payload)
}

func (h *UnifiedEventHandler) deliver(ctx context.Context, d *messaging.Delivery, payload events.ItemEventPayload) {

	resolved, err := payload.Resolve(ctx)
	if err != nil {
		d.Failed(ctx, "unable to resolve saved item for unified event", err)
		return
	}

	record, err := transformers.ToUnifiedEvent(resolved)
	if err != nil {
		d.Failed(ctx, "unable to transform unified event", err)
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		d.Failed(ctx, "unable to transform unified event", apperrors.NewTransformationError("marshal unified event", err))
		return
	}

	var out *awskinesis.PutRecordOutput
	err = h.breaker.Execute(func() error {
		var putErr error
		out, putErr = h.client.PutRecord(ctx, &awskinesis.PutRecordInput{
			StreamName:   aws.String(h.cfg.StreamName),
			PartitionKey: aws.String(payload.User.ID),
			Data:         data,
		})
		return putErr
	})
	if err != nil {
		d.Failed(ctx, "unable to send unified event", wrapExternal(err), zap.String("stream", h.cfg.StreamName))
		return
	}

	d.Delivered(
		zap.String("stream", h.cfg.StreamName),
		zap.String("type", record.Type),
		zap.String("sequenceNumber", aws.ToString(out.SequenceNumber)),
	)
}

func wrapExternal(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.NewExternalError("kinesis", err)
}
