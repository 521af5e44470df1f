// Package messaging holds the sink handlers that fan item events out to
// downstream systems. Every handler owns its failures: nothing it does can
// fail the mutation that emitted the event
package messaging

import (
	"context"
	"time"

	appevents "list-api/application/events"
	"list-api/application/ports"
	"list-api/domain/events"
	apperrors "list-api/pkg/errors"
	"list-api/pkg/observability"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Instrumentation bundles what every sink uses to account for a delivery
type Instrumentation struct {
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Tracer   *observability.Tracer
	Reporter ports.ErrorReporter
}

// Delivery tracks a single sink handling a single event
type Delivery struct {
	inst    Instrumentation
	sink    string
	payload events.ItemEventPayload
	span    trace.Span
	start   time.Time
	logger  *zap.Logger
}

// Begin opens a delivery span and a logger scoped to the event
func (i Instrumentation) Begin(ctx context.Context, sink string, payload events.ItemEventPayload) (context.Context, *Delivery) {
	if i.Logger == nil {
		i.Logger = zap.NewNop()
	}
	if i.Tracer == nil {
		i.Tracer = observability.NewTracer("list-api")
	}
	ctx, span := i.Tracer.StartDelivery(ctx, sink, payload.EventType.String(), payload.EventID)
	return ctx, &Delivery{
		inst:    i,
		sink:    sink,
		payload: payload,
		span:    span,
		start:   time.Now(),
		logger: i.Logger.With(
			zap.String("sink", sink),
			zap.String("eventType", payload.EventType.String()),
			zap.String("eventId", payload.EventID),
		),
	}
}

// DeliverFunc does the I/O of one delivery opened by Begin
type DeliverFunc func(ctx context.Context, d *Delivery, payload events.ItemEventPayload)

// Listener opens the delivery when the emitter accepts an event and runs
// deliver as the asynchronous work
type Listener struct {
	name    string
	inst    Instrumentation
	deliver DeliverFunc
}

// NewListener binds deliver to the emitter under name
func NewListener(name string, inst Instrumentation, deliver DeliverFunc) Listener {
	return Listener{name: name, inst: inst, deliver: deliver}
}

func (l Listener) Name() string { return l.name }

func (l Listener) Accept(ctx context.Context, payload events.ItemEventPayload) appevents.Work {
	ctx, d := l.inst.Begin(ctx, l.name, payload)
	return func() error {
		l.deliver(ctx, d, payload)
		return nil
	}
}

// Logger returns the event-scoped logger
func (d *Delivery) Logger() *zap.Logger {
	return d.logger
}

// Delivered records a successful hand-off to the downstream system
func (d *Delivery) Delivered(fields ...zap.Field) {
	d.logger.Debug("Event delivered", fields...)
	d.finish(observability.OutcomeDelivered, nil)
}

// Skipped records an event the sink chose not to forward
func (d *Delivery) Skipped(reason string) {
	d.logger.Debug("Event skipped", zap.String("reason", reason))
	d.finish(observability.OutcomeSkipped, nil)
}

// Dropped records a failure that was already logged downstream
func (d *Delivery) Dropped(reason error) {
	d.logger.Debug("Event dropped", zap.String("reason", reason.Error()))
	d.finish(observability.OutcomeDropped, reason)
}

// Failed logs msg, reports err and records the drop
func (d *Delivery) Failed(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("errorType", string(apperrors.TypeOf(err))),
		zap.Error(err),
	)
	d.logger.Error(msg, fields...)
	if d.inst.Reporter != nil {
		d.inst.Reporter.Report(ctx, err, map[string]string{
			"sink":      d.sink,
			"eventType": d.payload.EventType.String(),
		})
	}
	d.finish(observability.OutcomeDropped, err)
}

func (d *Delivery) finish(outcome string, err error) {
	d.inst.Metrics.ObserveDelivery(d.sink, d.payload.EventType.String(), outcome, time.Since(d.start))
	observability.EndDelivery(d.span, err)
}
