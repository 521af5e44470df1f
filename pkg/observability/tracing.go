package observability

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer provides spans around sink deliveries
type Tracer struct {
	serviceName string
	tracer      trace.Tracer
}

// NewTracer creates a tracer on the global otel provider
func NewTracer(serviceName string) *Tracer {
	return &Tracer{
		serviceName: serviceName,
		tracer:      otel.Tracer(serviceName),
	}
}

// StartDelivery opens a span for one sink handling one event
func (t *Tracer) StartDelivery(ctx context.Context, sink, eventType, eventID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, sink+".deliver",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("service.name", t.serviceName),
			attribute.String("sink", sink),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
	)
}

// EndDelivery closes span, marking it failed when err is set
func EndDelivery(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// InstrumentAWS adds X-Ray subsegments to every SDK call made with cfg
func InstrumentAWS(cfg *aws.Config) {
	awsv2.AWSV2Instrumentor(&cfg.APIOptions)
}
