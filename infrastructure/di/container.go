package di

import (
	"context"
	"time"

	appevents "list-api/application/events"
	"list-api/infrastructure/config"
	"list-api/infrastructure/messaging/snowplow"
	"list-api/infrastructure/persistence/dynamodb"
	"list-api/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Emitter   *appevents.ItemsEventEmitter
	ItemStore *dynamodb.SavedItemStore
	Tracker   *snowplow.Tracker
	Reporter  *observability.SentryReporter
	Metrics   *observability.Metrics
}

// Shutdown drains in-flight deliveries, then flushes the buffered sinks
func (c *Container) Shutdown(ctx context.Context) error {
	err := c.Emitter.Shutdown(ctx)
	c.Tracker.Flush()
	c.Reporter.Flush(2 * time.Second)
	_ = c.Logger.Sync()
	return err
}
