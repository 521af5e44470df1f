package sqs

import (
	"context"
	"encoding/json"
	"errors"

	appevents "list-api/application/events"
	"list-api/application/ports"
	"list-api/application/transformers"
	"list-api/domain/events"
	"list-api/infrastructure/messaging"
	apperrors "list-api/pkg/errors"
	"list-api/pkg/resilience"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// SinkName labels this handler in logs and metrics
const SinkName = "sqs"

// Route sends the listed event kinds through Transformer onto QueueURL
type Route struct {
	Name        string
	QueueURL    string
	Events      []events.EventType
	Transformer transformers.SQSTransformer
}

// Listener publishes item events to SQS queues. Retries belong to the
// queue's redrive policy, not to this sink
type Listener struct {
	client  ports.SQSAPI
	routes  []Route
	breaker *resilience.Breaker
	inst    messaging.Instrumentation
}

// NewListener creates the queue sink for routes
func NewListener(client ports.SQSAPI, routes []Route, breaker *resilience.Breaker, inst messaging.Instrumentation) *Listener {
	return &Listener{
		client:  client,
		routes:  routes,
		breaker: breaker,
		inst:    inst,
	}
}

// Register subscribes one listener per route and event kind
func (l *Listener) Register(r appevents.Registrar) error {
	for _, route := range l.routes {
		route := route
		listener := messaging.NewListener(SinkName+":"+route.Name, l.inst,
			func(ctx context.Context, d *messaging.Delivery, payload events.ItemEventPayload) {
				l.deliver(ctx, d, route, payload)
			})
		for _, t := range route.Events {
			if err := r.On(t, listener); err != nil {
				return err
			}
		}
	}
	return nil
}

// Process awaits the saved item, builds the message body and sends it
func (l *Listener) Process(ctx context.Context, route Route, payload events.ItemEventPayload) {
	ctx, d := l.inst.Begin(ctx, SinkName+":"+route.Name, payload)
	l.deliver(ctx, d, route, payload)
}

func (l *Listener) deliver(ctx context.Context, d *messaging.Delivery, route Route, payload events.ItemEventPayload) {
	queueField := zap.String("queueUrl", route.QueueURL)

	resolved, err := payload.Resolve(ctx)
	if err != nil {
		d.Failed(ctx, "unable to add event to queue", err, queueField)
		return
	}

	body, err := route.Transformer(resolved)
	if errors.Is(err, transformers.ErrSkipMessage) {
		d.Skipped("transformer declined event")
		return
	}
	if err != nil {
		d.Failed(ctx, "unable to add event to queue", err, queueField)
		return
	}

	raw, err := json.Marshal(body)
	if err != nil {
		d.Failed(ctx, "unable to add event to queue", apperrors.NewTransformationError("marshal queue message", err), queueField)
		return
	}

	var out *awssqs.SendMessageOutput
	err = l.breaker.Execute(func() error {
		var sendErr error
		out, sendErr = l.client.SendMessage(ctx, &awssqs.SendMessageInput{
			QueueUrl:    aws.String(route.QueueURL),
			MessageBody: aws.String(string(raw)),
		})
		return sendErr
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.NewExternalError("sqs", err)
		}
		d.Failed(ctx, "unable to add event to queue", err, queueField)
		return
	}

	d.Delivered(queueField, zap.String("messageId", aws.ToString(out.MessageId)))
}
