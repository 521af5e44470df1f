package eventbridge

import (
	"context"

	"list-api/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// maxEntriesPerCall is the PutEvents request limit
const maxEntriesPerCall = 10

// Base sends entries to EventBridge and logs, rather than returns, every
// failure. Both thrown errors and partial failures end in one error line
type Base struct {
	client ports.EventBridgeAPI
	logger *zap.Logger
}

// NewBase creates the shared put helper
func NewBase(client ports.EventBridgeAPI, logger *zap.Logger) *Base {
	return &Base{client: client, logger: logger}
}

// PutEvents sends entries in batches of ten. It reports whether every
// entry was accepted
func (b *Base) PutEvents(ctx context.Context, entries []types.PutEventsRequestEntry) bool {
	ok := true
	for i := 0; i < len(entries); i += maxEntriesPerCall {
		end := i + maxEntriesPerCall
		if end > len(entries) {
			end = len(entries)
		}
		if !b.putBatch(ctx, entries[i:end]) {
			ok = false
		}
	}
	return ok
}

func (b *Base) putBatch(ctx context.Context, entries []types.PutEventsRequestEntry) bool {
	result, err := b.client.PutEvents(ctx, &awseventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		b.logger.Error("Failed to send events to EventBridge",
			zap.Int("count", len(entries)),
			zap.Error(err),
		)
		return false
	}

	if result.FailedEntryCount > 0 {
		failed := make([]string, 0, result.FailedEntryCount)
		for i, entry := range result.Entries {
			if entry.ErrorCode == nil {
				continue
			}
			detailType := ""
			if i < len(entries) {
				detailType = aws.ToString(entries[i].DetailType)
			}
			failed = append(failed, detailType+": "+aws.ToString(entry.ErrorCode)+" "+aws.ToString(entry.ErrorMessage))
		}
		b.logger.Error("EventBridge rejected events",
			zap.Int32("failedEntryCount", result.FailedEntryCount),
			zap.Strings("failures", failed),
		)
		return false
	}

	b.logger.Debug("Events published to EventBridge", zap.Int("count", len(entries)))
	return true
}
