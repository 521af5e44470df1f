package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all process configuration
type Config struct {
	// Server configuration
	ServerAddress string `validate:"required"`
	Environment   string `validate:"oneof=development test staging production"`
	ServiceName   string `validate:"required"`
	LogLevel      string `validate:"oneof=debug info warn error"`

	// AWS configuration
	AWSRegion     string `validate:"required"`
	DynamoDBTable string `validate:"required"`
	EnableTracing bool

	// Event provenance stamped on every payload
	EventSource     string        `validate:"required"`
	EventVersion    string        `validate:"required"`
	DeliveryTimeout time.Duration `validate:"gt=0"`

	// Sinks
	EventBusName          string `validate:"required"`
	UnifiedEventStream    string `validate:"required"`
	PublisherDataQueueURL string `validate:"omitempty,url"`
	PermLibItemQueueURL   string `validate:"omitempty,url"`
	SnowplowEndpoint      string `validate:"required"`
	SnowplowAppID         string `validate:"required"`
	SnowplowNamespace     string
	SinksConfigPath       string

	// Error tracking
	SentryDSN string
}

// LoadConfig loads configuration from environment variables. A .env file
// in the working directory is read first when present
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":4005"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		ServiceName:   getEnv("SERVICE_NAME", "list-api"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "list-api-items")),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),

		EventSource:     getEnv("EVENT_SOURCE", "backend_php"),
		EventVersion:    getEnv("EVENT_VERSION", "0.0.2"),
		DeliveryTimeout: getEnvDuration("EVENT_DELIVERY_TIMEOUT", 30*time.Second),

		EventBusName:          getEnv("EVENT_BUS_NAME", "default"),
		UnifiedEventStream:    getEnv("UNIFIED_EVENT_STREAM", "unified_event"),
		PublisherDataQueueURL: getEnv("PUBLISHER_DATA_QUEUE_URL", ""),
		PermLibItemQueueURL:   getEnv("PERM_LIB_ITEM_MAIN_QUEUE_URL", ""),
		SnowplowEndpoint:      getEnv("SNOWPLOW_ENDPOINT", "localhost:9090"),
		SnowplowAppID:         getEnv("SNOWPLOW_APP_ID", "pocket-backend-list-api-dev"),
		SnowplowNamespace:     getEnv("SNOWPLOW_NAMESPACE", "pocket-backend"),
		SinksConfigPath:       getEnv("SINKS_CONFIG_PATH", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the struct rules and the production-only requirements
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsProduction() {
		if c.PublisherDataQueueURL == "" || c.PermLibItemQueueURL == "" {
			return fmt.Errorf("queue URLs are required in production")
		}
		if c.SentryDSN == "" {
			return fmt.Errorf("SENTRY_DSN is required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// QueueURL returns the configured URL for a named SQS route
func (c *Config) QueueURL(route string) string {
	switch route {
	case "publisher-data":
		return c.PublisherDataQueueURL
	case "permanent-library":
		return c.PermLibItemQueueURL
	}
	return ""
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvDuration accepts Go durations ("5s") or whole seconds ("5")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
