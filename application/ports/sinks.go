package ports

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// KinesisAPI is the subset of the Kinesis client used by the unified event sink
type KinesisAPI interface {
	PutRecord(ctx context.Context, params *kinesis.PutRecordInput, optFns ...func(*kinesis.Options)) (*kinesis.PutRecordOutput, error)
}

// SQSAPI is the subset of the SQS client used by the queue sink
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// EventBridgeAPI is the subset of the EventBridge client used by the bus sink
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// SelfDescribingJSON is an Iglu schema reference plus its data
type SelfDescribingJSON struct {
	Schema string
	Data   interface{}
}

// TrackedEvent is one self-describing analytics event with its context entities
type TrackedEvent struct {
	EventID  string
	Event    SelfDescribingJSON
	Contexts []SelfDescribingJSON
	// Timestamp in milliseconds; zero lets the tracker stamp it
	Timestamp int64
}

// Tracker sends analytics events to the collector. Implementations buffer
// and must not block on delivery
type Tracker interface {
	Track(ctx context.Context, event TrackedEvent) error
	Flush()
}

// ErrorReporter forwards failures to the error-tracking service
type ErrorReporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}
