package di

import (
	"context"
	"fmt"
	"strings"

	appevents "list-api/application/events"
	"list-api/application/ports"
	"list-api/application/transformers"
	"list-api/infrastructure/config"
	"list-api/infrastructure/messaging"
	"list-api/infrastructure/messaging/eventbridge"
	"list-api/infrastructure/messaging/kinesis"
	"list-api/infrastructure/messaging/snowplow"
	"list-api/infrastructure/messaging/sqs"
	"list-api/infrastructure/persistence/dynamodb"
	"list-api/pkg/observability"
	"list-api/pkg/resilience"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awskinesis "github.com/aws/aws-sdk-go-v2/service/kinesis"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", cfg.ServiceName)), nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}
	if cfg.EnableTracing {
		observability.InstrumentAWS(&awsCfg)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideKinesisClient creates a Kinesis client
func ProvideKinesisClient(awsCfg aws.Config) *awskinesis.Client {
	return awskinesis.NewFromConfig(awsCfg)
}

// ProvideSQSClient creates an SQS client
func ProvideSQSClient(awsCfg aws.Config) *awssqs.Client {
	return awssqs.NewFromConfig(awsCfg)
}

// ProvideSinksConfig loads the per-sink event routing
func ProvideSinksConfig(cfg *config.Config) (*config.SinksConfig, error) {
	return config.LoadSinks(cfg.SinksConfigPath)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	return observability.NewMetrics(strings.ReplaceAll(cfg.ServiceName, "-", "_"))
}

// ProvideTracer creates the delivery tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(cfg.ServiceName)
}

// ProvideSentryReporter initialises error tracking
func ProvideSentryReporter(cfg *config.Config) (*observability.SentryReporter, error) {
	return observability.NewSentryReporter(observability.SentryOptions{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     cfg.ServiceName + "@" + cfg.EventVersion,
	})
}

// ProvideErrorReporter exposes the Sentry reporter through its port
func ProvideErrorReporter(r *observability.SentryReporter) ports.ErrorReporter {
	return r
}

// ProvideInstrumentation bundles the per-delivery observability
func ProvideInstrumentation(
	logger *zap.Logger,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	reporter ports.ErrorReporter,
) messaging.Instrumentation {
	return messaging.Instrumentation{
		Logger:   logger,
		Metrics:  metrics,
		Tracer:   tracer,
		Reporter: reporter,
	}
}

// ProvideSavedItemStore creates the DynamoDB item and tag loader
func ProvideSavedItemStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.SavedItemStore {
	return dynamodb.NewSavedItemStore(client, cfg.DynamoDBTable, logger)
}

// ProvideTracker creates the Snowplow tracker
func ProvideTracker(cfg *config.Config, logger *zap.Logger) *snowplow.Tracker {
	protocol := "https"
	if cfg.IsDevelopment() {
		protocol = "http"
	}
	return snowplow.NewTracker(snowplow.TrackerConfig{
		Endpoint:  cfg.SnowplowEndpoint,
		Protocol:  protocol,
		AppID:     cfg.SnowplowAppID,
		Namespace: cfg.SnowplowNamespace,
	}, logger)
}

// ProvideUnifiedEventHandler creates the Kinesis sink
func ProvideUnifiedEventHandler(
	client *awskinesis.Client,
	cfg *config.Config,
	sinks *config.SinksConfig,
	logger *zap.Logger,
	inst messaging.Instrumentation,
) (*kinesis.UnifiedEventHandler, error) {
	enabled, err := config.ParseEvents(sinks.Unified.Events)
	if err != nil {
		return nil, err
	}
	return kinesis.NewUnifiedEventHandler(
		client,
		kinesis.Config{StreamName: cfg.UnifiedEventStream, Events: enabled},
		resilience.NewBreaker(resilience.DefaultBreakerConfig(kinesis.SinkName), logger),
		inst,
	), nil
}

// ProvideSQSListener creates the queue sink. Routes without a queue URL are
// left out with a warning
func ProvideSQSListener(
	client *awssqs.Client,
	cfg *config.Config,
	sinks *config.SinksConfig,
	logger *zap.Logger,
	inst messaging.Instrumentation,
) (*sqs.Listener, error) {
	routes := make([]sqs.Route, 0, len(sinks.SQS))
	for _, r := range sinks.SQS {
		url := cfg.QueueURL(r.Name)
		if url == "" {
			url = r.QueueURL
		}
		if url == "" {
			logger.Warn("SQS route has no queue URL, not registering", zap.String("route", r.Name))
			continue
		}
		enabled, err := config.ParseEvents(r.Events)
		if err != nil {
			return nil, err
		}
		transformer, ok := transformers.SQSTransformerByName(r.Transformer)
		if !ok {
			return nil, fmt.Errorf("sqs route %s: unknown transformer %q", r.Name, r.Transformer)
		}
		routes = append(routes, sqs.Route{
			Name:        r.Name,
			QueueURL:    url,
			Events:      enabled,
			Transformer: transformer,
		})
	}
	return sqs.NewListener(
		client,
		routes,
		resilience.NewBreaker(resilience.DefaultBreakerConfig(sqs.SinkName), logger),
		inst,
	), nil
}

// ProvideSnowplowHandler creates the analytics sink
func ProvideSnowplowHandler(
	tracker *snowplow.Tracker,
	store *dynamodb.SavedItemStore,
	sinks *config.SinksConfig,
	inst messaging.Instrumentation,
) (*snowplow.ItemsEventHandler, error) {
	enabled, err := config.ParseEvents(sinks.Snowplow.Events)
	if err != nil {
		return nil, err
	}
	return snowplow.NewItemsEventHandler(
		tracker,
		store,
		snowplow.Config{Events: enabled, Schemas: sinks.Snowplow.Schemas},
		inst,
	), nil
}

// ProvideEventBridgeHandler creates the bus sink
func ProvideEventBridgeHandler(
	client *awseventbridge.Client,
	cfg *config.Config,
	logger *zap.Logger,
	inst messaging.Instrumentation,
) *eventbridge.ItemEventHandler {
	return eventbridge.NewItemEventHandler(
		eventbridge.NewBase(client, logger),
		eventbridge.Config{EventBusName: cfg.EventBusName, Source: cfg.ServiceName},
		inst,
	)
}

// ProvideSinks collects the sinks in registration order
func ProvideSinks(
	unified *kinesis.UnifiedEventHandler,
	queues *sqs.Listener,
	analytics *snowplow.ItemsEventHandler,
	bus *eventbridge.ItemEventHandler,
) []Sink {
	return []Sink{unified, analytics, queues, bus}
}

// ProvideEmitter creates the process-wide emitter with every sink registered
func ProvideEmitter(
	cfg *config.Config,
	logger *zap.Logger,
	reporter ports.ErrorReporter,
	sinks []Sink,
) (*appevents.ItemsEventEmitter, error) {
	emitter := appevents.NewItemsEventEmitter(appevents.EmitterConfig{
		Source:          cfg.EventSource,
		Version:         cfg.EventVersion,
		DeliveryTimeout: cfg.DeliveryTimeout,
	}, logger, reporter, nil)

	if err := RegisterSinks(emitter, sinks...); err != nil {
		return nil, err
	}
	return emitter, nil
}
