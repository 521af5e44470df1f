package config

import (
	_ "embed"
	"fmt"
	"os"

	"list-api/application/transformers"
	"list-api/domain/events"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed sinks.yaml
var defaultSinks []byte

// SinksConfig selects which event kinds each sink forwards
type SinksConfig struct {
	Unified  EventList          `yaml:"unified"`
	Snowplow SnowplowSinkConfig `yaml:"snowplow"`
	SQS      []QueueRoute       `yaml:"sqs" validate:"dive"`
}

// EventList is a list of event kind names
type EventList struct {
	Events []string `yaml:"events"`
}

// SnowplowSinkConfig adds the Iglu schemas to the event list
type SnowplowSinkConfig struct {
	Events  []string                     `yaml:"events"`
	Schemas transformers.SnowplowSchemas `yaml:"schemas"`
}

// QueueRoute binds a transformer and event kinds to a queue. QueueURL in
// the file is overridden by the environment
type QueueRoute struct {
	Name        string   `yaml:"name" validate:"required"`
	Transformer string   `yaml:"transformer" validate:"required"`
	QueueURL    string   `yaml:"queueUrl"`
	Events      []string `yaml:"events" validate:"min=1"`
}

// LoadSinks reads path, or the embedded defaults when path is empty
func LoadSinks(path string) (*SinksConfig, error) {
	raw := defaultSinks
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sinks config %s: %w", path, err)
		}
		raw = b
	}
	return ParseSinks(raw)
}

// ParseSinks decodes and validates a sinks document
func ParseSinks(raw []byte) (*SinksConfig, error) {
	cfg := &SinksConfig{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sinks config: %w", err)
	}
	if cfg.Snowplow.Schemas == (transformers.SnowplowSchemas{}) {
		cfg.Snowplow.Schemas = transformers.DefaultSnowplowSchemas()
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid sinks config: %w", err)
	}

	for _, list := range [][]string{cfg.Unified.Events, cfg.Snowplow.Events} {
		if _, err := ParseEvents(list); err != nil {
			return nil, err
		}
	}
	for _, route := range cfg.SQS {
		if _, err := ParseEvents(route.Events); err != nil {
			return nil, err
		}
		if _, ok := transformers.SQSTransformerByName(route.Transformer); !ok {
			return nil, fmt.Errorf("sqs route %s: unknown transformer %q", route.Name, route.Transformer)
		}
	}
	return cfg, nil
}

// ParseEvents converts configured names, rejecting unknown kinds
func ParseEvents(names []string) ([]events.EventType, error) {
	out := make([]events.EventType, 0, len(names))
	seen := make(map[events.EventType]bool, len(names))
	for _, name := range names {
		t, err := events.ParseEventType(name)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
